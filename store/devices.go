// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-plan/apperr"
	"github.com/danielhkuo/quickly-plan/models"
)

var errDeviceNotFound = apperr.NotFound("device_not_found", "device not registered")

// RegisterDevice finds or creates the device with the given client UUID.
// An existing device has its platform and last_seen_at refreshed.
func (s *Store) RegisterDevice(ctx context.Context, deviceUUID, platform string) (models.DeviceInfo, bool, error) {
	now := s.now()

	device, err := s.lookupDevice(ctx, deviceUUID)
	if err == nil {
		_, err = s.db.ExecContext(ctx, `
			UPDATE device SET platform = $1, last_seen_at = $2 WHERE id = $3
		`, platform, now, device.ID)
		if err != nil {
			return models.DeviceInfo{}, false, fmt.Errorf("failed to update device: %w", err)
		}
		device.Platform = platform
		device.LastSeenAt = now
		return device, false, nil
	}
	if !errors.Is(err, errDeviceNotFound) {
		return models.DeviceInfo{}, false, err
	}

	device = models.DeviceInfo{
		ID:         uuid.NewString(),
		Platform:   platform,
		CreatedAt:  now,
		LastSeenAt: now,
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO device (id, device_uuid, platform, created_at, last_seen_at)
		VALUES ($1, $2, $3, $4, $5)
	`, device.ID, deviceUUID, platform, now, now)
	if isUniqueViolation(err) {
		// Registered concurrently by another request
		existing, lookupErr := s.lookupDevice(ctx, deviceUUID)
		return existing, false, lookupErr
	}
	if err != nil {
		return models.DeviceInfo{}, false, fmt.Errorf("failed to insert device: %w", err)
	}
	return device, true, nil
}

// GetDevice returns a registered device and marks it as seen.
func (s *Store) GetDevice(ctx context.Context, deviceUUID string) (models.DeviceInfo, error) {
	device, err := s.lookupDevice(ctx, deviceUUID)
	if err != nil {
		return models.DeviceInfo{}, err
	}
	s.touchDevice(ctx, device.ID)
	return device, nil
}

// TouchDevice records activity for a device, registering it as a web
// device if it is unknown. Failures are logged only.
func (s *Store) TouchDevice(ctx context.Context, deviceUUID string) {
	if deviceUUID == "" {
		return
	}
	if _, _, err := s.RegisterDevice(ctx, deviceUUID, models.PlatformWeb); err != nil {
		slog.Warn("failed to touch device", "error", err)
	}
}

// ListDeviceEvents returns the events a device has cast ballots in, newest
// event first.
func (s *Store) ListDeviceEvents(ctx context.Context, deviceUUID string) ([]models.DeviceEventSummary, error) {
	device, err := s.lookupDevice(ctx, deviceUUID)
	if err != nil {
		return nil, err
	}
	s.touchDevice(ctx, device.ID)

	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.title, e.status, COUNT(p.id) AS ballot_count
		FROM preference p
		JOIN event e ON e.id = p.event_id
		WHERE p.device_id = $1
		GROUP BY e.id, e.title, e.status, e.created_at
		ORDER BY e.created_at DESC, e.id
	`, deviceUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to query device events: %w", err)
	}
	defer rows.Close()

	events := []models.DeviceEventSummary{}
	for rows.Next() {
		var summary models.DeviceEventSummary
		if err := rows.Scan(&summary.EventID, &summary.Title, &summary.Status, &summary.BallotCount); err != nil {
			return nil, fmt.Errorf("failed to scan device event: %w", err)
		}
		events = append(events, summary)
	}
	return events, rows.Err()
}

func (s *Store) lookupDevice(ctx context.Context, deviceUUID string) (models.DeviceInfo, error) {
	var device models.DeviceInfo
	err := s.db.QueryRowContext(ctx, `
		SELECT id, platform, created_at, last_seen_at
		FROM device
		WHERE device_uuid = $1
	`, deviceUUID).Scan(&device.ID, &device.Platform, &device.CreatedAt, &device.LastSeenAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DeviceInfo{}, errDeviceNotFound
	}
	if err != nil {
		return models.DeviceInfo{}, fmt.Errorf("failed to query device: %w", err)
	}
	return device, nil
}

func (s *Store) touchDevice(ctx context.Context, deviceID string) {
	_, err := s.db.ExecContext(ctx, `
		UPDATE device SET last_seen_at = $1 WHERE id = $2
	`, s.now(), deviceID)
	if err != nil {
		slog.Error("failed to update device last_seen_at", "error", err)
	}
}
