// Package errors defines typed errors with categories for user-friendly reporting.
// Commands switch on Kind to decide what to tell the user (log in again, check
// the keyring, and so on) while the wrapped error keeps the technical detail.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// AuthRequired indicates a protected operation was attempted without a session.
	AuthRequired Kind = "auth_required"
	// SessionExpired indicates the backend rejected the session with 401.
	SessionExpired Kind = "session_expired"
	// TokenMissing indicates OTP verification succeeded without issuing a token.
	TokenMissing Kind = "token_missing"
	// StorageUnavailable indicates the persistent store could not be opened.
	StorageUnavailable Kind = "storage_unavailable"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

// Is matches another *E by Kind so sentinel values work with errors.Is.
func (e *E) Is(target error) bool {
	t, ok := target.(*E)
	return ok && t.Kind == e.Kind
}

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the Kind of the first *E in err's chain, or "".
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}
