// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	apperrors "needles/cli/internal/errors"
)

var hints = map[apperrors.Kind]string{
	apperrors.AuthRequired:       "Run `needles login` to sign in.",
	apperrors.SessionExpired:     "Your session has ended. Run `needles login` to sign in again.",
	apperrors.TokenMissing:       "The backend did not issue a session. Run `needles login` again.",
	apperrors.StorageUnavailable: "Check NEEDLES_STORE and NEEDLES_STORE_DSN; the session is kept in memory only.",
}

// PresentError renders err for the terminal with secrets masked. Errors of a
// known kind get a second line telling the user what to do next.
func PresentError(err error) string {
	if err == nil {
		return ""
	}
	msg := Mask(err.Error())
	if h, ok := hints[apperrors.KindOf(err)]; ok {
		msg += "\n" + h
	}
	return msg
}
