package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"needles/cli/internal/backend"
	"needles/cli/internal/boutique"
)

// parseItems parses "name=price" arguments into catalogue items.
func parseItems(args []string) ([]boutique.CatalogueItem, error) {
	items := make([]boutique.CatalogueItem, 0, len(args))
	for _, a := range args {
		name, price, ok := strings.Cut(a, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("item %q: want name=price", a)
		}
		p, err := strconv.ParseFloat(strings.TrimSpace(price), 64)
		if err != nil || p < 0 {
			return nil, fmt.Errorf("item %q: price must be a non-negative number", a)
		}
		items = append(items, boutique.CatalogueItem{ItemName: name, Price: p})
	}
	return items, nil
}

// parseFields parses "key=value" arguments. Values that are valid JSON
// numbers or booleans keep their type; everything else is a string.
func parseFields(args []string) (boutique.Record, error) {
	out := boutique.Record{}
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("field %q: want key=value", a)
		}
		var decoded any
		if err := json.Unmarshal([]byte(v), &decoded); err == nil {
			switch decoded.(type) {
			case float64, bool:
				out[k] = decoded
				continue
			}
		}
		out[k] = v
	}
	return out, nil
}

// readPayload reads a JSON object from path, or stdin when path is "-".
func readPayload(path string) (boutique.Record, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var out boutique.Record
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return out, nil
}

// parseFormFields parses "key=value" arguments into multipart text fields.
func parseFormFields(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("field %q: want key=value", a)
		}
		out[k] = v
	}
	return out, nil
}

// openImages opens each path as an "images" file part. The returned func
// closes whatever was opened and is safe to call after an error.
func openImages(paths []string) ([]backend.FilePart, func(), error) {
	var files []*os.File
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}
	parts := make([]backend.FilePart, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, closeAll, fmt.Errorf("open image: %w", err)
		}
		files = append(files, f)
		parts = append(parts, backend.FilePart{Field: "images", Name: filepath.Base(p), Content: f})
	}
	return parts, closeAll, nil
}
