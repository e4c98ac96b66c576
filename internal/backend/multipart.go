// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// FilePart is one file field of a multipart upload.
type FilePart struct {
	// Field is the form field name, e.g. "images".
	Field string
	// Name is the file name reported to the backend.
	Name    string
	Content io.Reader
}

// DoMultipart sends a multipart/form-data request with the given text fields
// and files. It goes through the same interceptors as Do, so the bearer token
// and 401 handling apply unchanged.
func (c *Client) DoMultipart(ctx context.Context, method, path string, fields map[string]string, files []FilePart) (*Response, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
	}
	for _, f := range files {
		w, err := mw.CreateFormFile(f.Field, f.Name)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		if _, err := io.Copy(w, f.Content); err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.setStandardHeaders(req)
	return c.send(req, method, path)
}
