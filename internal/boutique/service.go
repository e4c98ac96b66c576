// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package boutique wraps the boutique management endpoints: orders, the
// catalogue, alteration requests and the boutique profile.
//
// Every call goes through the backend request pipeline, so the bearer token
// and 401 handling are applied uniformly. Records are returned as decoded
// JSON objects because the backend's shapes are owned by the backend.
package boutique

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"needles/cli/internal/backend"
	apperrors "needles/cli/internal/errors"
)

// Record is one JSON object as the backend returned it.
type Record = map[string]any

// Guard reports whether a session is active. auth.Service satisfies it.
type Guard interface {
	RequireSession() error
}

// Service issues boutique calls through a backend client.
type Service struct {
	api   *backend.Client
	guard Guard
	log   zerolog.Logger
}

// NewService constructs a Service. guard is consulted before protected reads.
func NewService(api *backend.Client, guard Guard, log zerolog.Logger) *Service {
	return &Service{api: api, guard: guard, log: log}
}

// listMode controls how a collection read treats failures.
type listMode int

const (
	// strict returns every failure to the caller.
	strict listMode = iota
	// lenient turns non-auth failures into an empty list.
	lenient
)

// list fetches path and returns the array under field.
func (s *Service) list(ctx context.Context, path, field string, protected bool, mode listMode) ([]Record, error) {
	if protected {
		if err := s.guard.RequireSession(); err != nil {
			return nil, err
		}
	}
	resp, err := s.api.Get(ctx, path)
	if err != nil {
		if backend.IsUnauthorized(err) || mode == strict {
			return nil, sessionError(err)
		}
		s.log.Warn().Err(err).Str("path", path).Msg("list unavailable, showing none")
		return []Record{}, nil
	}

	var body map[string]any
	if err := resp.Decode(&body); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return records(body[field]), nil
}

// call issues a mutation and returns the decoded response object.
func (s *Service) call(ctx context.Context, method, path string, body any) (Record, error) {
	resp, err := s.api.Do(ctx, method, path, body)
	if err != nil {
		return nil, sessionError(err)
	}
	m := resp.Map()
	if m == nil {
		m = Record{}
	}
	return m, nil
}

// upload posts a multipart form. File parts without a field name go under "images".
func (s *Service) upload(ctx context.Context, path string, fields map[string]string, files []backend.FilePart) (Record, error) {
	parts := make([]backend.FilePart, len(files))
	for i, f := range files {
		if f.Field == "" {
			f.Field = "images"
		}
		parts[i] = f
	}
	resp, err := s.api.DoMultipart(ctx, http.MethodPost, path, fields, parts)
	if err != nil {
		return nil, sessionError(err)
	}
	m := resp.Map()
	if m == nil {
		m = Record{}
	}
	return m, nil
}

// sessionError replaces a 401 with a SessionExpired error. The pipeline has
// already cleared the session by the time it reaches here.
func sessionError(err error) error {
	if backend.IsUnauthorized(err) {
		return apperrors.Wrap(apperrors.SessionExpired, "authentication required, please log in again", err)
	}
	return err
}

// IsSessionError reports whether err means the user must log in again.
func IsSessionError(err error) bool {
	k := apperrors.KindOf(err)
	return k == apperrors.SessionExpired || k == apperrors.AuthRequired
}

// records converts a decoded JSON array into Records, skipping non-objects.
func records(v any) []Record {
	arr, ok := v.([]any)
	if !ok {
		return []Record{}
	}
	out := make([]Record, 0, len(arr))
	for _, item := range arr {
		if r, ok := item.(map[string]any); ok {
			out = append(out, r)
		}
	}
	return out
}

var errEmptyID = errors.New("id must not be empty")
