// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"encoding/json"
	"time"

	"needles/cli/internal/session"
	"needles/cli/internal/store"
)

// Status summarizes the local session for `needles whoami`.
type Status struct {
	Active     bool
	BoutiqueID string
	// Claims are decoded from the token without verification; HasClaims is
	// false for opaque tokens.
	Claims    session.Claims
	HasClaims bool
	// Profile is the cached snapshot from OTP verification. Advisory only.
	Profile map[string]any
}

// Expired reports whether the token's own exp claim has passed.
func (st Status) Expired(now time.Time) bool {
	return st.HasClaims && st.Claims.Expired(now)
}

// Status reads the local session without contacting the backend.
func (s *Service) Status() Status {
	var st Status
	tok, ok := s.state.Get()
	st.Active = ok
	if ok {
		st.Claims, st.HasClaims = session.ParseClaims(tok)
	}
	st.BoutiqueID = s.BoutiqueID()
	st.Profile = s.Profile()
	return st
}

// BoutiqueID returns the persisted tenant identifier, or "".
func (s *Service) BoutiqueID() string {
	v, _, _ := s.store.Read(store.KeyBoutiqueUserID)
	return v
}

// SetBoutiqueID persists the tenant identifier, for flows that learn it
// outside of login (e.g. `needles verify-otp --boutique`).
func (s *Service) SetBoutiqueID(id string) {
	if id == "" {
		_ = s.store.Erase(store.KeyBoutiqueUserID)
		return
	}
	_ = s.store.Write(store.KeyBoutiqueUserID, id)
}

// Profile returns the cached user snapshot. A missing or corrupt snapshot
// yields nil; callers refetch from the backend when they need it.
func (s *Service) Profile() map[string]any {
	raw, ok, _ := s.store.Read(store.KeyUserData)
	if !ok || raw == "" {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		s.log.Debug().Err(err).Msg("dropping unreadable profile snapshot")
		_ = s.store.Erase(store.KeyUserData)
		return nil
	}
	return m
}

func (s *Service) saveProfile(user map[string]any) error {
	b, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.store.Write(store.KeyUserData, string(b))
}
