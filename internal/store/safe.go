// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

package store

import (
	"github.com/rs/zerolog"
)

// safeStore shields callers from storage-medium failures. A failed read looks
// like an absent key, a failed write or erase is logged and dropped.
type safeStore struct {
	inner Store
	log   zerolog.Logger
}

// Safe wraps inner so that none of its errors reach the caller.
// The returned Store never returns a non-nil error.
func Safe(inner Store, log zerolog.Logger) Store {
	if s, ok := inner.(*safeStore); ok {
		return s
	}
	return &safeStore{inner: inner, log: log}
}

func (s *safeStore) Read(key string) (string, bool, error) {
	v, ok, err := s.inner.Read(key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("store read failed; treating as absent")
		return "", false, nil
	}
	return v, ok, nil
}

func (s *safeStore) Write(key, value string) error {
	if err := s.inner.Write(key, value); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("store write failed; value kept in memory only")
	}
	return nil
}

func (s *safeStore) Erase(key string) error {
	if err := s.inner.Erase(key); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("store erase failed")
	}
	return nil
}
