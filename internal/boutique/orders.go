// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

package boutique

import (
	"context"
	"net/http"
	"net/url"
)

// Order statuses accepted by UpdateOrderStatus.
var OrderStatuses = []string{"Pending", "In Progress", "Ready", "Completed", "Cancelled"}

// PendingOrders returns orders awaiting work.
func (s *Service) PendingOrders(ctx context.Context) ([]Record, error) {
	return s.list(ctx, "/Boutique/order", "orders", true, strict)
}

// PaidOrders returns settled orders. Non-auth failures yield an empty list.
func (s *Service) PaidOrders(ctx context.Context) ([]Record, error) {
	return s.list(ctx, "/Boutique/PaidOrders", "orders", true, lenient)
}

// UpdateOrderStatus moves an order to status.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID, status string) (Record, error) {
	if orderID == "" {
		return nil, errEmptyID
	}
	return s.call(ctx, http.MethodPost, "/Boutique/order/"+url.PathEscape(orderID)+"/status", map[string]string{"status": status})
}

// CreateBill submits a bill. The payload is passed to the backend as-is.
func (s *Service) CreateBill(ctx context.Context, bill Record) (Record, error) {
	return s.call(ctx, http.MethodPost, "/Boutique/createBill", bill)
}
