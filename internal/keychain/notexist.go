// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

package keychain

import (
	"errors"
	"io/fs"
)

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
