// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

package boutique

import (
	"context"
	"errors"
	"net/http"

	"needles/cli/internal/backend"
)

// PasswordChange is the change-password request body.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Profile fetches the boutique profile from the backend.
func (s *Service) Profile(ctx context.Context) (Record, error) {
	if err := s.guard.RequireSession(); err != nil {
		return nil, err
	}
	return s.call(ctx, http.MethodGet, "/Boutique/", nil)
}

// UpdateProfile patches profile fields, e.g. name or location.
func (s *Service) UpdateProfile(ctx context.Context, fields Record) (Record, error) {
	return s.call(ctx, http.MethodPatch, "/Boutique/edit", fields)
}

// ChangePassword replaces the boutique password.
func (s *Service) ChangePassword(ctx context.Context, p PasswordChange) (Record, error) {
	return s.call(ctx, http.MethodPatch, "/Boutique/change-password", p)
}

// RequestPhoneUpdate starts a phone change; the backend sends an OTP to newPhone.
func (s *Service) RequestPhoneUpdate(ctx context.Context, newPhone string) (Record, error) {
	return s.call(ctx, http.MethodPost, "/Boutique/request-phone-update", map[string]string{"newPhone": newPhone})
}

// ConfirmPhoneUpdate completes a phone change with the OTP sent to newPhone.
func (s *Service) ConfirmPhoneUpdate(ctx context.Context, newPhone, otp string) (Record, error) {
	return s.call(ctx, http.MethodPost, "/Boutique/confirm-phone-update", map[string]string{
		"newPhone": newPhone,
		"otp":      otp,
	})
}

// AddHeaderImages uploads header images, each under the "images" field.
func (s *Service) AddHeaderImages(ctx context.Context, images []backend.FilePart) (Record, error) {
	if len(images) == 0 {
		return nil, errors.New("at least one image is required")
	}
	return s.upload(ctx, "/Boutique/header-image/add", nil, images)
}

// DeleteHeaderImage removes one header image by URL.
func (s *Service) DeleteHeaderImage(ctx context.Context, imageURL string) (Record, error) {
	return s.call(ctx, http.MethodDelete, "/Boutique/header-image/delete", map[string]string{"imageUrl": imageURL})
}

// DeleteAllHeaderImages removes every header image. extra is sent as the body.
func (s *Service) DeleteAllHeaderImages(ctx context.Context, extra Record) (Record, error) {
	if extra == nil {
		extra = Record{}
	}
	return s.call(ctx, http.MethodDelete, "/Boutique/header-image/delete-all", extra)
}
