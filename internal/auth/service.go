// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth implements the boutique sign-in flow: credential login, OTP
// verification that issues the session token, and logout.
//
// The session token itself lives in session.State; this package only decides
// when to set or clear it. The boutique identifier and the cached user
// profile are persisted next to it in the same store.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"needles/cli/internal/backend"
	apperrors "needles/cli/internal/errors"
	"needles/cli/internal/session"
	"needles/cli/internal/store"
)

// Backend endpoints used by the sign-in flow.
const (
	PathLogin     = "/Boutique/login"
	PathVerifyOTP = "/Boutique/verify-otp"
	PathLogout    = "/Boutique/logout"
)

// ErrAuthRequired is returned by protected operations attempted without a session.
var ErrAuthRequired = apperrors.New(apperrors.AuthRequired, "authentication required")

// tokenFields lists where verify-otp may put the session token, in order of
// precedence. "token" is canonical; the others are kept for older backends.
var tokenFields = []string{"token", "accessToken", "authToken"}

// boutiqueIDFields lists where login may put the tenant identifier.
var boutiqueIDFields = []string{"boutiqueUserId", "boutiqueId"}

// Credentials is the login request body.
type Credentials struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"password,omitempty"`
}

// OTPPayload is the verify-otp request body.
type OTPPayload struct {
	BoutiqueID string `json:"boutiqueId"`
	OTP        string `json:"otp"`
	Phone      string `json:"phone,omitempty"`
}

// LoginResult is a successful login response.
type LoginResult struct {
	Response *backend.Response
	// BoutiqueID is the tenant identifier the backend returned, if any.
	BoutiqueID string
}

// VerifyResult is a successful verify-otp response.
type VerifyResult struct {
	Response *backend.Response
	// TokenIssued is false when the response carried no recognised token field.
	TokenIssued bool
	// TokenSource names the field (or header) the token was read from.
	TokenSource string
	// User is the profile snapshot returned alongside the token, if any.
	User map[string]any
	// CookieSession reports whether the backend set session cookies, which
	// may stand in for a missing bearer token.
	CookieSession bool
}

// Service centralizes authentication-related operations against the backend
// and local secure storage/state.
type Service struct {
	api   *backend.Client
	state *session.State
	store store.Store
	log   zerolog.Logger
}

// NewService constructs an auth Service. Storage failures are logged, never returned.
func NewService(api *backend.Client, state *session.State, st store.Store, log zerolog.Logger) *Service {
	return &Service{api: api, state: state, store: store.Safe(st, log), log: log}
}

// Login submits credentials. When the backend returns a boutique identifier
// it is persisted; no session token is expected yet. On failure nothing local
// changes and the backend's error is returned as-is.
func (s *Service) Login(ctx context.Context, c Credentials) (*LoginResult, error) {
	resp, err := s.api.Post(ctx, PathLogin, c)
	if err != nil {
		s.log.Debug().Err(err).Msg("login failed")
		return nil, err
	}

	res := &LoginResult{Response: resp}
	if id, field := firstString(exactFields(resp), boutiqueIDFields); id != "" {
		res.BoutiqueID = id
		_ = s.store.Write(store.KeyBoutiqueUserID, id)
		s.log.Debug().Str("field", field).Msg("boutique id stored")
	}
	return res, nil
}

// VerifyOTP submits the one-time password. On success the session token is
// taken from the first recognised field and becomes the active session, and
// any user snapshot is cached. A success response without a token is not an
// error: the session stays unauthenticated and VerifyResult says so.
func (s *Service) VerifyOTP(ctx context.Context, p OTPPayload) (*VerifyResult, error) {
	resp, err := s.api.Post(ctx, PathVerifyOTP, p)
	if err != nil {
		s.log.Debug().Err(err).Msg("otp verification failed")
		return nil, err
	}

	res := &VerifyResult{Response: resp}
	body := resp.Map()

	tok, source := firstString(exactFields(resp), tokenFields)
	if tok == "" {
		if tok = backend.BearerFromHeader(resp.Header); tok != "" {
			source = "Authorization header"
		}
	}
	if tok != "" {
		s.state.Set(tok)
		res.TokenIssued = true
		res.TokenSource = source
		s.log.Debug().Str("source", source).Msg("session token received")
	} else {
		res.CookieSession = s.api.HasCookies()
		s.log.Warn().Bool("cookies", res.CookieSession).Msg("no token found in OTP response; checking for session cookies")
	}

	if user, ok := body["user"].(map[string]any); ok {
		res.User = user
		if err := s.saveProfile(user); err != nil {
			s.log.Warn().Err(err).Msg("could not cache user profile")
		}
	}
	return res, nil
}

// Logout notifies the backend (best effort) and then always clears local
// state. The remote error, if any, is returned after local state is gone.
func (s *Service) Logout(ctx context.Context) error {
	_, err := s.api.Post(ctx, PathLogout, nil)
	s.ResetLocal()
	if err != nil {
		return fmt.Errorf("remote logout: %w", err)
	}
	return nil
}

// ResetLocal clears the session token, boutique identifier and cached profile
// without contacting the backend.
func (s *Service) ResetLocal() {
	s.state.Clear()
	_ = s.store.Erase(store.KeyBoutiqueUserID)
	_ = s.store.Erase(store.KeyUserData)
}

// RequireSession returns ErrAuthRequired when there is no active session.
func (s *Service) RequireSession() error {
	if !s.state.IsActive() {
		return ErrAuthRequired
	}
	return nil
}

// IsActive reports whether a session token is held.
func (s *Service) IsActive() bool { return s.state.IsActive() }

// exactFields decodes the response object keeping numbers as json.Number, so
// numeric ids come back digit for digit.
func exactFields(resp *backend.Response) map[string]any {
	dec := json.NewDecoder(bytes.NewReader(resp.Body))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil
	}
	return m
}

// firstString returns the first non-empty string (or number) among keys.
func firstString(m map[string]any, keys []string) (string, string) {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if v != "" {
				return v, k
			}
		case json.Number:
			return v.String(), k
		}
	}
	return "", ""
}
