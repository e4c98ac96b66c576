// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain stores the session token and companion identifiers in the
// OS credential store (macOS Keychain, Windows Credential Manager, Secret
// Service or KWallet on Linux), falling back to an encrypted file keyring in the
// XDG state directory when no native backend is reachable.
//
// Manager implements store.Store and is safe for concurrent use.
package keychain

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/99designs/keyring"
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "needles"

// Backend selects which keyring implementations may be opened.
type Backend string

const (
	// BackendNative prefers the OS credential store and falls back to the file keyring.
	BackendNative Backend = "keyring"
	// BackendFile uses only the encrypted file keyring.
	BackendFile Backend = "file"
)

// Options configures Open.
type Options struct {
	Backend Backend
	// FileDir is where the file keyring keeps its entries.
	FileDir string
	// FilePassword unlocks the file keyring. Empty means prompt on the terminal.
	FilePassword string
}

// Manager provides thread-safe access to a keyring.
type Manager struct {
	mu   sync.RWMutex
	ring keyring.Keyring
}

// Open opens the keyring described by opts.
func Open(opts Options) (*Manager, error) {
	cfg := keyring.Config{
		ServiceName:             ServiceName,
		AllowedBackends:         allowedBackends(opts.Backend),
		PassPrefix:              ServiceName,
		WinCredPrefix:           ServiceName,
		KWalletAppID:            ServiceName,
		KWalletFolder:           ServiceName,
		LibSecretCollectionName: ServiceName,
	}
	if opts.FileDir != "" {
		cfg.FileDir = filepath.Join(opts.FileDir, "keyring")
	}
	if opts.FilePassword != "" {
		cfg.FilePasswordFunc = keyring.FixedStringPrompt(opts.FilePassword)
	} else {
		cfg.FilePasswordFunc = keyring.TerminalPrompt
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return New(ring), nil
}

// New wraps an already opened keyring.
func New(ring keyring.Keyring) *Manager {
	return &Manager{ring: ring}
}

// allowedBackends lists keyring backends for the current platform in order of preference.
func allowedBackends(b Backend) []keyring.BackendType {
	if b == BackendFile {
		return []keyring.BackendType{keyring.FileBackend}
	}
	switch runtime.GOOS {
	case "darwin":
		return []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend, keyring.FileBackend}
	case "windows":
		return []keyring.BackendType{keyring.WinCredBackend, keyring.FileBackend}
	default:
		return []keyring.BackendType{keyring.SecretServiceBackend, keyring.KWalletBackend, keyring.PassBackend, keyring.FileBackend}
	}
}

// Read returns the value stored under key.
func (m *Manager) Read(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, err := m.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if len(it.Data) == 0 {
		return "", false, nil
	}
	return string(it.Data), true, nil
}

// Write stores value under key, replacing any previous value.
func (m *Manager) Write(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.ring.Set(keyring.Item{
		Key:         key,
		Data:        []byte(value),
		Label:       ServiceName + " " + key,
		Description: "needles boutique session",
	})
}

// Erase removes key. Removing a missing key is not an error.
func (m *Manager) Erase(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.ring.Remove(key)
	if err == nil || errors.Is(err, keyring.ErrKeyNotFound) {
		return nil
	}
	// The file backend reports a missing entry as a path error.
	if isNotExist(err) {
		return nil
	}
	return err
}

// Keys lists stored keys. It makes Manager a store.Lister.
func (m *Manager) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ring.Keys()
}
