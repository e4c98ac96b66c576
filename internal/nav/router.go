// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package nav tracks where the user is in the CLI and sends them back to the
// unauthenticated entry point when the backend invalidates their session.
package nav

import "sync"

// Router records the current location and performs entry-point redirects.
type Router struct {
	mu       sync.Mutex
	entry    string
	location string
	onNav    func(from, to string)
}

// NewRouter returns a Router whose entry point is entry (for example "/login").
// onNav, when non-nil, is called after every navigation.
func NewRouter(entry string, onNav func(from, to string)) *Router {
	return &Router{entry: entry, onNav: onNav}
}

// Entry returns the unauthenticated entry route.
func (r *Router) Entry() string { return r.entry }

// Location returns the current route.
func (r *Router) Location() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.location
}

// Visit records route as the current location without notifying.
func (r *Router) Visit(route string) {
	r.mu.Lock()
	r.location = route
	r.mu.Unlock()
}

// Navigate moves to route. Navigating to the current location is a no-op.
func (r *Router) Navigate(route string) bool {
	r.mu.Lock()
	from := r.location
	if from == route {
		r.mu.Unlock()
		return false
	}
	r.location = route
	r.mu.Unlock()

	if r.onNav != nil {
		r.onNav(from, route)
	}
	return true
}

// OnSessionInvalidated redirects to the entry route unless already there.
// Concurrent calls result in a single navigation.
func (r *Router) OnSessionInvalidated() {
	r.Navigate(r.entry)
}
