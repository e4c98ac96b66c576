// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the informational subset of a JWT session token.
// It is decoded without verifying the signature and must never be used for
// authorization decisions; the backend remains the authority.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// HasExpiry reports whether the token carried an exp claim.
func (c Claims) HasExpiry() bool { return !c.ExpiresAt.IsZero() }

// Expired reports whether exp is at or before now.
func (c Claims) Expired(now time.Time) bool {
	return c.HasExpiry() && !now.Before(c.ExpiresAt)
}

// ParseClaims decodes token as a JWT. ok is false for opaque tokens.
func ParseClaims(token string) (Claims, bool) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, false
	}

	var c Claims
	if sub, err := mc.GetSubject(); err == nil {
		c.Subject = sub
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, true
}
