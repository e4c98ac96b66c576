// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"needles/cli/internal/nav"
	"needles/cli/internal/session"
	"needles/cli/internal/store"
)

type fixture struct {
	srv    *httptest.Server
	mem    *store.Memory
	state  *session.State
	client *Client
	router *nav.Router
	navs   atomic.Int32

	mu       sync.Mutex
	lastAuth string
	lastReq  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{mem: store.NewMemory()}

	r := mux.NewRouter()
	r.HandleFunc("/Boutique/order", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"jwt expired"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"orders": []any{}})
	}).Methods(http.MethodGet)
	r.HandleFunc("/Boutique/broken", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("upstream exploded"))
	})
	r.HandleFunc("/Boutique/echo", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		w.Header().Set("Content-Type", "application/json")
		var in map[string]any
		_ = json.NewDecoder(r.Body).Decode(&in)
		_ = json.NewEncoder(w).Encode(map[string]any{"method": r.Method, "body": in, "ct": r.Header.Get("Content-Type")})
	})
	r.HandleFunc("/Boutique/upload", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var names, contents []string
		for _, fh := range r.MultipartForm.File["images"] {
			names = append(names, fh.Filename)
			fd, _ := fh.Open()
			b, _ := io.ReadAll(fd)
			fd.Close()
			contents = append(contents, string(b))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"dressType": r.FormValue("dressType"),
			"names":     names,
			"contents":  contents,
		})
	}).Methods(http.MethodPost)
	f.srv = httptest.NewServer(r)
	t.Cleanup(f.srv.Close)

	f.state = session.New(f.mem)
	f.client = New(Options{BaseURL: f.srv.URL + "/", State: f.state, Store: f.mem, Logger: zerolog.Nop()})
	f.router = nav.NewRouter("/login", func(string, string) { f.navs.Add(1) })
	f.client.OnSessionInvalidated(f.router.OnSessionInvalidated)
	return f
}

func (f *fixture) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastAuth = r.Header.Get("Authorization")
	f.lastReq = r.Header.Get("X-Request-ID")
}

func (f *fixture) auth() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastAuth
}

func TestOutboundAttachesBearer(t *testing.T) {
	f := newFixture(t)
	f.state.Set("good")

	_, err := f.client.Get(context.Background(), "/Boutique/order")
	require.NoError(t, err)
	assert.Equal(t, "Bearer good", f.auth())
	f.mu.Lock()
	assert.NotEmpty(t, f.lastReq)
	f.mu.Unlock()
}

func TestOutboundWithoutSessionSendsNoHeader(t *testing.T) {
	f := newFixture(t)

	_, err := f.client.Get(context.Background(), "/Boutique/broken")
	require.Error(t, err)
	assert.Empty(t, f.auth())
}

func TestOutboundOverridesCallerHeader(t *testing.T) {
	f := newFixture(t)
	f.state.Set("abc")

	req := httptest.NewRequest(http.MethodGet, f.srv.URL+"/Boutique/order", nil)
	req.Header.Set("Authorization", "Bearer stale")
	out := f.client.outbound(req)
	assert.Equal(t, "Bearer abc", out.Header.Get("Authorization"))
	assert.Equal(t, "Bearer stale", req.Header.Get("Authorization"), "original request is not mutated")

	f.state.Clear()
	out = f.client.outbound(req)
	assert.Empty(t, out.Header.Values("Authorization"))
}

func TestOutboundHydratesFromStore(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.mem.Write(store.KeyAuthToken, "good"))

	_, err := f.client.Get(context.Background(), "/Boutique/order")
	require.NoError(t, err)
	assert.Equal(t, "Bearer good", f.auth())
	assert.True(t, f.state.IsActive())
}

func TestUnauthorizedClearsSessionAndRedirectsOnce(t *testing.T) {
	f := newFixture(t)
	f.state.Set("expired")
	require.NoError(t, f.mem.Write(store.KeyBoutiqueUserID, "b-42"))
	f.router.Visit("/orders")

	_, err := f.client.Get(context.Background(), "/Boutique/order")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.JSONEq(t, `{"message":"jwt expired"}`, string(apiErr.Body))
	assert.Equal(t, "jwt expired", apiErr.Message())

	assert.False(t, f.state.IsActive())
	_, ok, _ := f.mem.Read(store.KeyAuthToken)
	assert.False(t, ok)
	_, ok, _ = f.mem.Read(store.KeyBoutiqueUserID)
	assert.False(t, ok)
	assert.Equal(t, "/login", f.router.Location())
	assert.Equal(t, int32(1), f.navs.Load())

	// Already at the entry route: no second navigation.
	_, err = f.client.Get(context.Background(), "/Boutique/order")
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, int32(1), f.navs.Load())
}

func TestConcurrentUnauthorizedIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.state.Set("expired")
	f.router.Visit("/catalogue")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.client.Get(context.Background(), "/Boutique/order")
			assert.True(t, IsUnauthorized(err))
		}()
	}
	wg.Wait()

	assert.False(t, f.state.IsActive())
	assert.Equal(t, int32(1), f.navs.Load())
}

func TestOtherErrorsPassThrough(t *testing.T) {
	f := newFixture(t)
	f.state.Set("good")

	resp, err := f.client.Get(context.Background(), "/Boutique/broken")
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, StatusOf(err))
	assert.Equal(t, "upstream exploded", string(resp.Body))
	assert.Contains(t, err.Error(), "upstream exploded")

	assert.True(t, f.state.IsActive(), "5xx leaves the session alone")
	assert.Zero(t, f.navs.Load())
}

func TestJSONBodiesAndDefaults(t *testing.T) {
	f := newFixture(t)

	resp, err := f.client.Delete(context.Background(), "/Boutique/echo", map[string]any{"itemNames": []string{"Kurta"}})
	require.NoError(t, err)

	var out struct {
		Method string         `json:"method"`
		Body   map[string]any `json:"body"`
		CT     string         `json:"ct"`
	}
	require.NoError(t, resp.Decode(&out))
	assert.Equal(t, http.MethodDelete, out.Method)
	assert.Equal(t, []any{"Kurta"}, out.Body["itemNames"])
	assert.Equal(t, "application/json", out.CT)
}

func TestDefaultHeaderTracksSession(t *testing.T) {
	f := newFixture(t)
	assert.Empty(t, f.client.DefaultHeader().Get("Authorization"))

	f.state.Set("abc")
	assert.Equal(t, "Bearer abc", f.client.DefaultHeader().Get("Authorization"))

	f.state.Clear()
	assert.Empty(t, f.client.DefaultHeader().Get("Authorization"))
	assert.Equal(t, "application/json", f.client.DefaultHeader().Get("Content-Type"))
}

type failingTransport struct{ err error }

func (t failingTransport) RoundTrip(*http.Request) (*http.Response, error) { return nil, t.err }

func TestTransportErrorSurfacesWithoutSideEffects(t *testing.T) {
	sentinel := errors.New("network unreachable")
	mem := store.NewMemory()
	st := session.New(mem)
	st.Set("abc")
	c := New(Options{BaseURL: "http://backend.invalid", State: st, Store: mem, Transport: failingTransport{sentinel}})

	var fired bool
	c.OnSessionInvalidated(func() { fired = true })

	_, err := c.Get(context.Background(), "/Boutique/order")
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Zero(t, StatusOf(err))
	assert.True(t, st.IsActive())
	assert.False(t, fired)
}

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Bearer abc", "abc"},
		{"bearer   abc ", "abc"},
		{"BEARER\tabc", "abc"},
		{"Bearerabc", ""},
		{"Basic abc", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseBearerToken(tt.in), tt.in)
	}

	h := http.Header{}
	h.Add("Authorization", "Basic zzz")
	h.Add("Authorization", "Bearer tok-xyz")
	assert.Equal(t, "tok-xyz", BearerFromHeader(h))
	assert.Empty(t, BearerFromHeader(http.Header{}))
}

func TestRedirectToOtherHostDropsBearer(t *testing.T) {
	var seen atomic.Value
	seen.Store("")
	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(other.Close)

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, other.URL+"/collect", http.StatusFound)
	}))
	t.Cleanup(api.Close)

	mem := store.NewMemory()
	st := session.New(mem)
	c := New(Options{BaseURL: api.URL, State: st, Store: mem, Logger: zerolog.Nop()})
	invalidated := 0
	c.OnSessionInvalidated(func() { invalidated++ })
	st.Set("secret-token")

	_, err := c.Get(context.Background(), "/Boutique/order")
	require.Error(t, err)
	assert.Empty(t, seen.Load(), "token must not reach another host")
	assert.True(t, st.IsActive(), "a 401 from another host does not end the session")
	assert.Zero(t, invalidated)
}

func TestMultipartCarriesBearerAndFiles(t *testing.T) {
	f := newFixture(t)
	f.state.Set("good")

	resp, err := f.client.DoMultipart(context.Background(), http.MethodPost, "/Boutique/upload",
		map[string]string{"dressType": "Lehenga"},
		[]FilePart{
			{Field: "images", Name: "front.png", Content: strings.NewReader("front")},
			{Field: "images", Name: "back.png", Content: strings.NewReader("back")},
		})
	require.NoError(t, err)
	assert.Equal(t, "Bearer good", f.auth())

	got := resp.Map()
	assert.Equal(t, "Lehenga", got["dressType"])
	assert.Equal(t, []any{"front.png", "back.png"}, got["names"])
	assert.Equal(t, []any{"front", "back"}, got["contents"])
}

func TestMultipartUnauthorizedClearsSession(t *testing.T) {
	f := newFixture(t)
	f.state.Set("expired")
	require.NoError(t, f.mem.Write(store.KeyBoutiqueUserID, "b-42"))

	_, err := f.client.DoMultipart(context.Background(), http.MethodPost, "/Boutique/upload", nil,
		[]FilePart{{Field: "images", Name: "a.png", Content: strings.NewReader("x")}})
	require.True(t, IsUnauthorized(err))
	assert.False(t, f.state.IsActive())
	_, ok, _ := f.mem.Read(store.KeyBoutiqueUserID)
	assert.False(t, ok)
	assert.Equal(t, int32(1), f.navs.Load())
}
