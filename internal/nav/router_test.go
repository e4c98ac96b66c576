// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

package nav

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionInvalidatedRedirectsOnce(t *testing.T) {
	var hops []string
	r := NewRouter("/login", func(from, to string) { hops = append(hops, from+"->"+to) })
	r.Visit("/orders")

	r.OnSessionInvalidated()
	r.OnSessionInvalidated()

	assert.Equal(t, "/login", r.Location())
	assert.Equal(t, []string{"/orders->/login"}, hops)
}

func TestNoRedirectWhenAlreadyAtEntry(t *testing.T) {
	var n int
	r := NewRouter("/login", func(string, string) { n++ })
	r.Visit("/login")
	r.OnSessionInvalidated()
	assert.Zero(t, n)
}

func TestConcurrentInvalidationNavigatesOnce(t *testing.T) {
	var n atomic.Int32
	r := NewRouter("/login", func(string, string) { n.Add(1) })
	r.Visit("/catalogue")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.OnSessionInvalidated()
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), n.Load())
}

func TestNavigate(t *testing.T) {
	r := NewRouter("/login", nil)
	assert.True(t, r.Navigate("/otp"))
	assert.False(t, r.Navigate("/otp"))
	assert.Equal(t, "/otp", r.Location())
	assert.Equal(t, "/login", r.Entry())
}
