// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-plan/apperr"
	"github.com/danielhkuo/quickly-plan/models"
)

// ValidateDeviceID checks that id is a UUID.
func ValidateDeviceID(id string) error {
	if id == "" {
		return apperr.Validation("missing_device_id", "X-Device-UUID header is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return apperr.Validation("invalid_device_id", "device ID must be a valid UUID")
	}
	return nil
}

func (s *Service) RegisterDevice(ctx context.Context, deviceID, platform string) (models.RegisterDeviceResponse, error) {
	if err := ValidateDeviceID(deviceID); err != nil {
		return models.RegisterDeviceResponse{}, err
	}

	platform = strings.ToLower(strings.TrimSpace(platform))
	switch platform {
	case models.PlatformIOS, models.PlatformMacOS, models.PlatformAndroid, models.PlatformWeb:
	case "":
		platform = models.PlatformWeb
	default:
		return models.RegisterDeviceResponse{}, apperr.Validation("invalid_platform", "platform must be ios, macos, android, or web")
	}

	info, created, err := s.repo.RegisterDevice(ctx, deviceID, platform)
	if err != nil {
		return models.RegisterDeviceResponse{}, err
	}
	if created {
		slog.Info("device registered", "device_id", info.ID, "platform", info.Platform)
	}
	return models.RegisterDeviceResponse{DeviceID: info.ID, IsNew: created}, nil
}

func (s *Service) GetDevice(ctx context.Context, deviceID string) (models.DeviceInfo, error) {
	if err := ValidateDeviceID(deviceID); err != nil {
		return models.DeviceInfo{}, err
	}
	return s.repo.GetDevice(ctx, deviceID)
}

// TouchDevice records that a device was seen. Invalid IDs are ignored.
func (s *Service) TouchDevice(ctx context.Context, deviceID string) {
	if ValidateDeviceID(deviceID) != nil {
		return
	}
	s.repo.TouchDevice(ctx, deviceID)
}

// ListDeviceEvents returns the events the device has submitted ballots to.
func (s *Service) ListDeviceEvents(ctx context.Context, deviceID string) (models.GetMyEventsResponse, error) {
	if err := ValidateDeviceID(deviceID); err != nil {
		return models.GetMyEventsResponse{}, err
	}
	events, err := s.repo.ListDeviceEvents(ctx, deviceID)
	if err != nil {
		return models.GetMyEventsResponse{}, err
	}
	return models.GetMyEventsResponse{Events: events}, nil
}
