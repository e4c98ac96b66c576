// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"needles/cli/internal/store"
)

// interceptor is the round tripper that attaches credentials to outgoing
// requests and watches responses for session invalidation. It runs per
// request and holds no state of its own, so concurrent requests never
// serialize on it.
type interceptor struct {
	next http.RoundTripper
	c    *Client
}

func (t *interceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	out := t.c.outbound(req)

	resp, err := t.next.RoundTrip(out)
	if err != nil {
		t.c.log.Debug().Err(err).Str("method", out.Method).Str("path", out.URL.Path).Msg("api transport error")
		return nil, err
	}
	t.c.inbound(out, resp)
	return resp, nil
}

// outbound returns a copy of req carrying the current bearer token, if any.
// Without a session the Authorization header is removed rather than sent empty.
func (c *Client) outbound(req *http.Request) *http.Request {
	r := req.Clone(req.Context())
	if r.Header.Get("X-Request-ID") == "" {
		r.Header.Set("X-Request-ID", uuid.NewString())
	}

	// Redirect hops pass through here too; the token only goes to the backend host.
	token, ok := c.state.Get()
	ok = ok && c.sameHost(r.URL)
	if ok {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(r)
	} else {
		r.Header.Del("Authorization")
	}

	c.log.Debug().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("request_id", r.Header.Get("X-Request-ID")).
		Bool("auth", ok).
		Msg("api request")
	return r
}

// sameHost reports whether u points at the configured backend.
func (c *Client) sameHost(u *url.URL) bool {
	return u != nil && strings.EqualFold(u.Host, c.host)
}

// inbound reacts to a backend 401 by ending the local session. Every other status
// passes through untouched.
func (c *Client) inbound(req *http.Request, resp *http.Response) {
	c.log.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Msg("api response")

	if resp.StatusCode != http.StatusUnauthorized || !c.sameHost(req.URL) {
		return
	}
	c.log.Warn().Str("path", req.URL.Path).Msg("unauthorized; clearing session")
	c.state.Clear()
	_ = c.store.Erase(store.KeyBoutiqueUserID)
	c.emitInvalidated()
}
