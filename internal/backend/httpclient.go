// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend is the request pipeline every call to the boutique backend
// goes through. A Client wraps net/http with a fixed base URL and JSON
// defaults; its transport stamps the session's bearer token on the way out and
// reacts to 401 responses on the way back by clearing the session and
// announcing the invalidation to subscribers.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"needles/cli/internal/session"
	"needles/cli/internal/store"
)

// Options configures a Client.
type Options struct {
	// BaseURL is the backend origin, e.g. "https://needles-v1.onrender.com".
	BaseURL string
	// Timeout bounds each request; zero means 30 seconds.
	Timeout time.Duration
	// State supplies the bearer token and is cleared on 401.
	State *session.State
	// Store is where the boutique identifier is erased on 401.
	Store store.Store
	// Transport is the underlying round tripper; nil means http.DefaultTransport.
	Transport http.RoundTripper
	Logger    zerolog.Logger
}

// Client implements the request pipeline over REST endpoints.
type Client struct {
	// baseURL is the base URL for all HTTP requests, without a trailing slash.
	baseURL string
	// host is baseURL's host:port; credentials are only sent there.
	host string
	// client is the underlying HTTP client; its transport is the interceptor chain.
	client *http.Client
	state  *session.State
	store  store.Store
	log    zerolog.Logger

	// headers holds defaults applied to every request. The Authorization
	// entry tracks the session state via session.State.Subscribe.
	headerMu sync.RWMutex
	headers  http.Header

	subMu       sync.RWMutex
	invalidSubs []func()
}

// New creates a Client. The session state must be non-nil.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	st := opts.Store
	if st == nil {
		st = store.NewMemory()
	}

	c := &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		state:   opts.State,
		store:   store.Safe(st, opts.Logger),
		log:     opts.Logger,
		headers: http.Header{
			"Content-Type": []string{"application/json"},
			"Accept":       []string{"application/json"},
		},
	}
	if u, err := url.Parse(c.baseURL); err == nil {
		c.host = u.Host
	}
	// Cookie sessions are honoured alongside bearer tokens.
	jar, _ := cookiejar.New(nil)
	c.client = &http.Client{
		Timeout:   timeout,
		Jar:       jar,
		Transport: &interceptor{next: base, c: c},
	}
	c.state.Subscribe(c.syncAuthorization)
	return c
}

// BaseURL returns the configured backend origin.
func (c *Client) BaseURL() string { return c.baseURL }

// DefaultHeader returns a copy of the headers applied to every request.
func (c *Client) DefaultHeader() http.Header {
	c.headerMu.RLock()
	defer c.headerMu.RUnlock()
	return c.headers.Clone()
}

// syncAuthorization keeps the default Authorization header equal to the session token.
func (c *Client) syncAuthorization(token string) {
	c.headerMu.Lock()
	defer c.headerMu.Unlock()
	if token == "" {
		c.headers.Del("Authorization")
		return
	}
	c.headers.Set("Authorization", "Bearer "+token)
}

// OnSessionInvalidated registers fn to run whenever a response reports 401.
// fn may run more than once when concurrent requests fail together.
func (c *Client) OnSessionInvalidated(fn func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	c.invalidSubs = append(c.invalidSubs, fn)
}

func (c *Client) emitInvalidated() {
	c.subMu.RLock()
	subs := make([]func(), len(c.invalidSubs))
	copy(subs, c.invalidSubs)
	c.subMu.RUnlock()
	for _, fn := range subs {
		fn()
	}
}

// HasCookies reports whether the backend has set cookies for the base URL.
func (c *Client) HasCookies() bool {
	u, err := url.Parse(c.baseURL)
	if err != nil || c.client.Jar == nil {
		return false
	}
	return len(c.client.Jar.Cookies(u)) > 0
}

// Do sends method path with body encoded as JSON (nil for no body) and
// returns the raw response. Non-2xx statuses are returned as *APIError
// carrying the backend payload unchanged; transport errors are returned as-is.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, err
	}
	c.setStandardHeaders(req)
	return c.send(req, method, path)
}

// send runs req through the interceptor chain and reads the whole response.
func (c *Client) send(req *http.Request, method, path string) (*Response, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	out := &Response{Status: resp.StatusCode, Header: resp.Header, Body: data}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, newAPIError(method, path, out)
	}
	return out, nil
}

// setStandardHeaders copies the non-credential defaults onto req.
// Authorization is left to the outbound interceptor.
func (c *Client) setStandardHeaders(req *http.Request) {
	c.headerMu.RLock()
	defer c.headerMu.RUnlock()
	for k, vs := range c.headers {
		if k == "Authorization" {
			continue
		}
		if req.Header.Get(k) == "" {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
	}
	req.Header.Set("User-Agent", "needles-cli/1.0")
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, path, body)
}

// Delete issues a DELETE request; body may carry the identifiers to delete.
func (c *Client) Delete(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, body)
}
