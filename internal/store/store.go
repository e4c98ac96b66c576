// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package store defines the durable key-value contract used to persist the
// session token and its companion identifiers between CLI invocations.
//
// Implementations live in internal/keychain (OS keyring and encrypted file
// backends) and internal/store/pgstore (PostgreSQL). Memory is a process-local
// implementation used in tests and as the degraded fallback when no durable
// backend can be opened.
package store

import "errors"

// Keys persisted by the client. Each is independently readable and erasable.
const (
	KeyAuthToken      = "authToken"
	KeyBoutiqueUserID = "boutiqueUserId"
	KeyUserData       = "userData"
)

// ErrUnavailable reports that the storage medium could not be reached.
var ErrUnavailable = errors.New("storage unavailable")

// Store is a durable string key-value store.
//
// Read returns ok=false when the key was never written or has been erased.
// Write overwrites silently. Erase is idempotent: erasing an absent key is
// not an error.
type Store interface {
	Read(key string) (value string, ok bool, err error)
	Write(key, value string) error
	Erase(key string) error
}

// Lister is implemented by stores that can enumerate their keys.
type Lister interface {
	Keys() ([]string, error)
}
