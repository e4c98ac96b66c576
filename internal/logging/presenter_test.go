// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "needles/cli/internal/errors"
)

func TestPresentError(t *testing.T) {
	assert.Empty(t, PresentError(nil))

	plain := PresentError(errors.New("dial postgres://admin:hunter2@db/needles: refused"))
	assert.NotContains(t, plain, "hunter2")
	assert.NotContains(t, plain, "\n", "unknown kinds get no hint")

	expired := fmt.Errorf("fetching orders: %w",
		apperrors.Wrap(apperrors.SessionExpired, "authentication required, please log in again", errors.New("401")))
	lines := strings.Split(PresentError(expired), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[1], "needles login")
}
