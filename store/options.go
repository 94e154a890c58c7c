// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-plan/apperr"
	"github.com/danielhkuo/quickly-plan/models"
)

// AddOption appends opt to the end of its category's catalog.
func (s *Store) AddOption(ctx context.Context, opt *models.Option) error {
	if opt.ID == "" {
		opt.ID = uuid.NewString()
	}
	opt.CreatedAt = s.now()

	venue, err := encodeVenue(opt.Venue)
	if err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireEvent(ctx, tx, opt.EventID); err != nil {
			return err
		}

		var count int
		err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM event_option WHERE event_id = $1 AND category = $2
		`, opt.EventID, opt.Category).Scan(&count)
		if err != nil {
			return fmt.Errorf("failed to count options: %w", err)
		}
		opt.Position = count

		_, err = tx.ExecContext(ctx, `
			INSERT INTO event_option (id, event_id, category, label, description, venue, sort_order, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, opt.ID, opt.EventID, opt.Category, opt.Label, opt.Description, venue, opt.Position, opt.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert option: %w", err)
		}
		return nil
	})
}

// ListOptions returns the catalog of an event in catalog order. An empty
// category lists every category.
func (s *Store) ListOptions(ctx context.Context, eventID, category string) ([]models.Option, error) {
	query := `
		SELECT id, event_id, category, label, description, venue, sort_order, created_at
		FROM event_option
		WHERE event_id = $1`
	args := []any{eventID}
	if category != "" {
		query += ` AND category = $2`
		args = append(args, category)
	}
	query += ` ORDER BY category, sort_order, created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	options := []models.Option{}
	for rows.Next() {
		var opt models.Option
		var venue sql.NullString
		if err := rows.Scan(&opt.ID, &opt.EventID, &opt.Category, &opt.Label, &opt.Description, &venue, &opt.Position, &opt.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		if opt.Venue, err = decodeVenue(venue); err != nil {
			return nil, fmt.Errorf("option %s: %w", opt.ID, err)
		}
		options = append(options, opt)
	}
	return options, rows.Err()
}

// DeleteOption removes an option from the catalog and scrubs it from every
// ballot of the event in the same transaction. It returns how many ballot
// entries were removed.
func (s *Store) DeleteOption(ctx context.Context, eventID, optionID string) (int64, error) {
	var scrubbed int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			DELETE FROM event_option WHERE id = $1 AND event_id = $2
		`, optionID, eventID)
		if err != nil {
			return fmt.Errorf("failed to delete option: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read rows affected: %w", err)
		}
		if n == 0 {
			return apperr.NotFound("option_not_found", "option not found")
		}

		scrubbed, err = deleteOptionReferences(ctx, tx, eventID, optionID)
		return err
	})
	return scrubbed, err
}

// DeleteOptionReferences removes ballot entries for optionID from every
// ballot of the event, in both voting modes. Remaining ranks keep their
// values.
func (s *Store) DeleteOptionReferences(ctx context.Context, eventID, optionID string) (int64, error) {
	var scrubbed int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		scrubbed, err = deleteOptionReferences(ctx, tx, eventID, optionID)
		return err
	})
	return scrubbed, err
}

func deleteOptionReferences(ctx context.Context, tx *sql.Tx, eventID, optionID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		DELETE FROM preference_rank
		WHERE option_id = $1
		  AND preference_id IN (SELECT id FROM preference WHERE event_id = $2)
	`, optionID, eventID)
	if err != nil {
		return 0, fmt.Errorf("failed to scrub option references: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n, nil
}

// CountOptionReferences reports how many ballot entries still rank optionID.
func (s *Store) CountOptionReferences(ctx context.Context, eventID, optionID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM preference_rank r
		JOIN preference p ON p.id = r.preference_id
		WHERE p.event_id = $1 AND r.option_id = $2
	`, eventID, optionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count option references: %w", err)
	}
	return count, nil
}

func encodeVenue(v *models.Venue) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode venue: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeVenue(raw sql.NullString) (*models.Venue, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var v models.Venue
	if err := json.Unmarshal([]byte(raw.String), &v); err != nil {
		return nil, fmt.Errorf("failed to decode venue: %w", err)
	}
	return &v, nil
}
