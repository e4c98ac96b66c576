// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"needles/cli/internal/auth"
	"needles/cli/internal/config"
	"needles/cli/internal/store"
)

type recorded struct {
	path string
	body map[string]any
}

// fakeBackend serves login and verify-otp and records what it received.
func fakeBackend(t *testing.T) (*httptest.Server, func() []recorded) {
	t.Helper()
	var mu sync.Mutex
	var seen []recorded
	record := func(r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		seen = append(seen, recorded{path: r.URL.Path, body: body})
		mu.Unlock()
	}

	r := mux.NewRouter()
	r.HandleFunc(auth.PathLogin, func(w http.ResponseWriter, req *http.Request) {
		record(req)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "OTP sent", "boutiqueUserId": "b-42"})
	}).Methods(http.MethodPost)
	r.HandleFunc(auth.PathVerifyOTP, func(w http.ResponseWriter, req *http.Request) {
		record(req)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"token": "tok-xyz", "user": map[string]any{"name": "Alice"}})
	}).Methods(http.MethodPost)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return srv, func() []recorded {
		mu.Lock()
		defer mu.Unlock()
		return append([]recorded(nil), seen...)
	}
}

func isolate(t *testing.T, baseURL, backend string) {
	t.Helper()
	t.Setenv(config.EnvBaseURL, baseURL)
	t.Setenv(config.EnvStore, backend)
	t.Setenv(config.EnvStoreDSN, "")
	configPath = filepath.Join(t.TempDir(), "config.json")
	t.Cleanup(func() {
		configPath = ""
		loginName, loginPhone, loginOTP = "", "", ""
	})
}

func run(args ...string) error {
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func TestLoginCommandSignsIn(t *testing.T) {
	srv, seen := fakeBackend(t)
	isolate(t, srv.URL, "memory")

	require.NoError(t, run("login", "--name", "Alice", "--phone", "555", "--otp", "123456"))

	calls := seen()
	require.Len(t, calls, 2)
	assert.Equal(t, auth.PathLogin, calls[0].path)
	assert.Equal(t, map[string]any{"name": "Alice", "phone": "555"}, calls[0].body)
	assert.Equal(t, auth.PathVerifyOTP, calls[1].path)
	assert.Equal(t, map[string]any{"boutiqueId": "b-42", "otp": "123456"}, calls[1].body)
}

func TestProtectedCommandWithoutSession(t *testing.T) {
	srv, seen := fakeBackend(t)
	isolate(t, srv.URL, "memory")

	err := run("orders", "pending")
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrAuthRequired)
	assert.Empty(t, seen())
}

func TestNewAppDegradesToMemory(t *testing.T) {
	isolate(t, "http://127.0.0.1:1", "postgres")

	a, err := newApp(&cobra.Command{}, "/orders")
	require.NoError(t, err)
	defer a.Close()

	_, ok := a.store.(*store.Memory)
	assert.True(t, ok, "postgres without a dsn falls back to memory")
	assert.Equal(t, "/orders", a.router.Location())
	assert.False(t, a.auth.IsActive())
}

func TestNewAppUnknownStoreDegrades(t *testing.T) {
	isolate(t, "http://127.0.0.1:1", "floppy")

	a, err := newApp(&cobra.Command{}, "/")
	require.NoError(t, err)
	defer a.Close()

	_, ok := a.store.(*store.Memory)
	assert.True(t, ok)
}

func TestEmptyRouteStartsAtEntry(t *testing.T) {
	isolate(t, "http://127.0.0.1:1", "memory")

	a, err := newApp(&cobra.Command{}, "")
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, config.DefaultEntryRoute, a.router.Location())
	assert.False(t, a.router.Navigate(config.DefaultEntryRoute), "an invalidated session is already at the entry route")
}

func TestStoredKeys(t *testing.T) {
	mem := store.NewMemory()
	require.NoError(t, mem.Write(store.KeyBoutiqueUserID, "b-42"))
	require.NoError(t, mem.Write(store.KeyAuthToken, "tok"))

	keys, ok := storedKeys(mem)
	require.True(t, ok)
	assert.Equal(t, []string{store.KeyAuthToken, store.KeyBoutiqueUserID}, keys)

	_, ok = storedKeys(store.Safe(mem, zerolog.Nop()))
	assert.False(t, ok, "wrapped stores do not enumerate")
}
