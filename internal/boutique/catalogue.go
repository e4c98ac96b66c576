// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

package boutique

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"needles/cli/internal/backend"
)

// DefaultBoutiqueName is shown when the backend has no name on record.
const DefaultBoutiqueName = "Untitled Boutique"

// Catalogue is the boutique's item list together with its display name.
type Catalogue struct {
	BoutiqueName string
	Items        []Record
}

// CatalogueItem is one entry submitted by AddCatalogueItems.
type CatalogueItem struct {
	ItemName string  `json:"itemName"`
	Price    float64 `json:"price"`
}

// Catalogue returns the catalogue and boutique name.
func (s *Service) Catalogue(ctx context.Context) (*Catalogue, error) {
	if err := s.guard.RequireSession(); err != nil {
		return nil, err
	}
	resp, err := s.api.Get(ctx, "/Boutique/catalogue")
	if err != nil {
		return nil, sessionError(err)
	}
	var body struct {
		Catalogue    []any  `json:"catalogue"`
		BoutiqueName string `json:"boutiqueName"`
	}
	if err := resp.Decode(&body); err != nil {
		return nil, fmt.Errorf("decode catalogue: %w", err)
	}
	c := &Catalogue{BoutiqueName: body.BoutiqueName, Items: records(body.Catalogue)}
	if c.BoutiqueName == "" {
		c.BoutiqueName = DefaultBoutiqueName
	}
	return c, nil
}

// AddCatalogueItems appends items to the catalogue.
func (s *Service) AddCatalogueItems(ctx context.Context, items []CatalogueItem) (Record, error) {
	return s.call(ctx, http.MethodPost, "/Boutique/add-catalogue-item", map[string]any{"newItems": items})
}

// DeleteCatalogueItems removes items by name.
func (s *Service) DeleteCatalogueItems(ctx context.Context, names []string) (Record, error) {
	return s.call(ctx, http.MethodDelete, "/Boutique/delete-catalogue-item", map[string]any{"itemNames": names})
}

// DressTypes returns the dress types with their measurement details.
// Failures other than 401 yield an empty list.
func (s *Service) DressTypes(ctx context.Context) ([]Record, error) {
	return s.list(ctx, "/Boutique/dresstypes", "dressTypes", false, lenient)
}

// AddDressType uploads a new dress type as multipart form data. fields must
// carry a non-empty "dressType"; images are sent under the "images" field.
func (s *Service) AddDressType(ctx context.Context, fields map[string]string, images []backend.FilePart) (Record, error) {
	if strings.TrimSpace(fields["dressType"]) == "" {
		return nil, errors.New("dressType must not be empty")
	}
	return s.upload(ctx, "/Boutique/add-dress-type", fields, images)
}

// DeleteDressType removes a dress type from the boutique.
func (s *Service) DeleteDressType(ctx context.Context, boutiqueID, dressType string) (Record, error) {
	return s.call(ctx, http.MethodDelete, "/Boutique/delete-dressType", map[string]string{
		"boutiqueId": boutiqueID,
		"dressType":  dressType,
	})
}
