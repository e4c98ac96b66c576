// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Response is a fully read backend response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	return json.Unmarshal(r.Body, v)
}

// Map decodes the body as a JSON object. Non-object bodies yield nil.
func (r *Response) Map() map[string]any {
	var m map[string]any
	if err := json.Unmarshal(r.Body, &m); err != nil {
		return nil
	}
	return m
}

// APIError is a non-2xx backend response. Body is the payload exactly as the
// backend sent it; Payload is its JSON decoding when it was an object.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Body    []byte
	Payload map[string]any
}

func newAPIError(method, path string, r *Response) *APIError {
	return &APIError{
		Method:  method,
		Path:    path,
		Status:  r.Status,
		Body:    r.Body,
		Payload: r.Map(),
	}
}

func (e *APIError) Error() string {
	msg := e.Message()
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, msg)
}

// Message returns the backend's human-readable message, if it sent one.
func (e *APIError) Message() string {
	for _, k := range []string{"message", "error", "msg"} {
		if v, ok := e.Payload[k].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	if e.Payload == nil {
		return strings.TrimSpace(string(e.Body))
	}
	return ""
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
