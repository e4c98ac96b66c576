// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

package boutique

import (
	"context"
	"net/http"
	"net/url"
)

// AlterationRequests returns alteration requests awaiting review.
func (s *Service) AlterationRequests(ctx context.Context) ([]Record, error) {
	return s.list(ctx, "/Boutique/alterations", "alterationRequests", true, strict)
}

// ReviewAlteration marks a request as reviewed.
func (s *Service) ReviewAlteration(ctx context.Context, requestID string) (Record, error) {
	if requestID == "" {
		return nil, errEmptyID
	}
	return s.call(ctx, http.MethodPatch, "/Boutique/review-alteration/"+url.PathEscape(requestID), nil)
}

// ActiveAlterations returns reviewed requests that are in progress.
func (s *Service) ActiveAlterations(ctx context.Context) ([]Record, error) {
	return s.list(ctx, "/Boutique/alterations/active", "requests", false, lenient)
}
