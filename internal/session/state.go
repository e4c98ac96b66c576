// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session holds the authoritative in-memory session token for the
// process and keeps it converged with the persistent store.
//
// Set writes through to the store, Clear erases from it, and Get lazily
// hydrates from the store the first time it is asked (the equivalent of a
// fresh CLI invocation finding a token saved by a previous one). Observers
// registered with Subscribe are told about every change so that derived
// state, such as the HTTP client's default Authorization header, stays in sync.
package session

import (
	"sync"

	"github.com/rs/zerolog"

	"needles/cli/internal/store"
)

// State is the in-memory session token. It is safe for concurrent use.
type State struct {
	// seqMu is held across a change and its notification, so observers see
	// changes in the order they were applied. Taken before mu.
	seqMu sync.Mutex
	mu    sync.Mutex
	token string
	// cleared is set by Clear and reset by Set. Once the session has been
	// cleared in this process the store is no longer consulted, so a failed
	// erase cannot resurrect a revoked token.
	cleared bool

	store store.Store
	log   zerolog.Logger

	obsMu     sync.RWMutex
	observers []func(token string)
}

// Option configures a State.
type Option func(*State)

// WithLogger sets the logger used for session transitions.
func WithLogger(l zerolog.Logger) Option {
	return func(s *State) { s.log = l }
}

// New returns an empty State backed by st. Storage failures never surface
// from State; st is wrapped with store.Safe.
func New(st store.Store, opts ...Option) *State {
	s := &State{log: zerolog.Nop()}
	for _, o := range opts {
		o(s)
	}
	s.store = store.Safe(st, s.log)
	return s
}

// Set makes token the current session and persists it. An empty token clears the session.
func (s *State) Set(token string) {
	if token == "" {
		s.Clear()
		return
	}

	s.seqMu.Lock()
	defer s.seqMu.Unlock()

	s.mu.Lock()
	s.token = token
	s.cleared = false
	_ = s.store.Write(store.KeyAuthToken, token)
	s.mu.Unlock()

	s.log.Debug().Msg("session token set")
	s.notify(token)
}

// Clear drops the session from memory and from the store. Calling it on an
// already cleared State is harmless.
func (s *State) Clear() {
	s.seqMu.Lock()
	defer s.seqMu.Unlock()

	s.mu.Lock()
	s.token = ""
	s.cleared = true
	_ = s.store.Erase(store.KeyAuthToken)
	s.mu.Unlock()

	s.log.Debug().Msg("session token cleared")
	s.notify("")
}

// Get returns the current token, hydrating it from the store when memory is empty.
func (s *State) Get() (string, bool) {
	if t, done := s.current(); done {
		return t, t != ""
	}

	s.seqMu.Lock()
	defer s.seqMu.Unlock()
	s.mu.Lock()
	if s.token != "" || s.cleared {
		t := s.token
		s.mu.Unlock()
		return t, t != ""
	}
	v, ok, _ := s.store.Read(store.KeyAuthToken)
	if !ok || v == "" {
		s.mu.Unlock()
		return "", false
	}
	s.token = v
	s.mu.Unlock()

	s.log.Debug().Msg("session token hydrated from store")
	s.notify(v)
	return v, true
}

// current returns the in-memory token and whether the store need not be consulted.
func (s *State) current() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != "" || s.cleared
}

// IsActive reports whether a session token is present.
func (s *State) IsActive() bool {
	_, ok := s.Get()
	return ok
}

// Subscribe registers fn to be called with the new token (empty on clear)
// after every change, in the order the changes happened. fn must not call
// back into Set or Clear.
func (s *State) Subscribe(fn func(token string)) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *State) notify(token string) {
	s.obsMu.RLock()
	obs := make([]func(string), len(s.observers))
	copy(obs, s.observers)
	s.obsMu.RUnlock()

	for _, fn := range obs {
		fn(token)
	}
}
