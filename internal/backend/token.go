// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"net/http"
	"strings"
)

// ParseBearerToken extracts token from a value like "Bearer <token>" case-insensitively.
// Returns the token string without the "Bearer " prefix, or empty string if invalid format.
func ParseBearerToken(value string) string {
	v := strings.TrimSpace(value)
	if len(v) < 7 || !strings.EqualFold(v[:6], "bearer") || (v[6] != ' ' && v[6] != '\t') {
		return ""
	}
	return strings.TrimSpace(v[7:])
}

// BearerFromHeader returns the bearer token a response carried in its
// Authorization header, or "" when it carried none.
func BearerFromHeader(h http.Header) string {
	for _, v := range h.Values("Authorization") {
		if t := ParseBearerToken(v); t != "" {
			return t
		}
	}
	return ""
}
