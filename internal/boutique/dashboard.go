// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

package boutique

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Dashboard is the overview shown after login.
type Dashboard struct {
	BoutiqueName string
	Pending      []Record
	Paid         []Record
	Catalogue    []Record
	Alterations  []Record
}

// Dashboard fetches the overview sections concurrently. The first failure
// cancels the remaining requests.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	if err := s.guard.RequireSession(); err != nil {
		return nil, err
	}

	var d Dashboard
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.Pending, err = s.PendingOrders(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		d.Paid, err = s.PaidOrders(ctx)
		return err
	})
	g.Go(func() error {
		c, err := s.Catalogue(ctx)
		if err != nil {
			return err
		}
		d.BoutiqueName, d.Catalogue = c.BoutiqueName, c.Items
		return nil
	})
	g.Go(func() error {
		var err error
		d.Alterations, err = s.AlterationRequests(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}
