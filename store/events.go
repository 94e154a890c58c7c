// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-plan/apperr"
	"github.com/danielhkuo/quickly-plan/models"
)

var errEventNotFound = apperr.NotFound("event_not_found", "event not found")

// CreateEvent stores a new event with its categories and, when host has an
// identity, the host as the first participant. ID and CreatedAt are filled
// in when empty.
func (s *Store) CreateEvent(ctx context.Context, ev *models.Event, host *models.Participant) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Status == "" {
		ev.Status = models.StatusVoting
	}
	ev.CreatedAt = s.now()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO event (id, title, description, host_name, status, quick_poll_enabled, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, ev.ID, ev.Title, ev.Description, ev.HostName, ev.Status, ev.QuickPollEnabled, ev.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert event: %w", err)
		}

		for i, category := range ev.VotingCategories {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO event_category (event_id, category, sort_order)
				VALUES ($1, $2, $3)
			`, ev.ID, category, i)
			if err != nil {
				return fmt.Errorf("failed to insert category %s: %w", category, err)
			}
		}

		if host == nil || host.Voter.IsZero() {
			return nil
		}
		host.Role = models.RoleHost
		host.JoinedAt = ev.CreatedAt
		if _, err := insertParticipant(ctx, tx, ev.ID, *host); err != nil {
			return err
		}
		ev.Participants = append(ev.Participants, *host)
		return nil
	})
}

// GetEvent loads an event with its categories, roster and recorded winners.
func (s *Store) GetEvent(ctx context.Context, eventID string) (models.Event, error) {
	var ev models.Event
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, host_name, status, quick_poll_enabled, created_at
		FROM event
		WHERE id = $1
	`, eventID).Scan(&ev.ID, &ev.Title, &ev.Description, &ev.HostName, &ev.Status, &ev.QuickPollEnabled, &ev.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Event{}, errEventNotFound
	}
	if err != nil {
		return models.Event{}, fmt.Errorf("failed to query event: %w", err)
	}

	if ev.VotingCategories, err = s.listCategories(ctx, eventID); err != nil {
		return models.Event{}, err
	}
	if ev.Participants, err = s.ListParticipants(ctx, eventID); err != nil {
		return models.Event{}, err
	}
	if ev.Winners, err = s.listWinners(ctx, eventID); err != nil {
		return models.Event{}, err
	}
	return ev, nil
}

func (s *Store) listCategories(ctx context.Context, eventID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category FROM event_category WHERE event_id = $1 ORDER BY sort_order
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// ListParticipants returns the roster in join order.
func (s *Store) ListParticipants(ctx context.Context, eventID string) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT voter_kind, voter_value, display_name, role, joined_at, last_voted_at
		FROM participant
		WHERE event_id = $1
		ORDER BY joined_at, voter_key
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	participants := []models.Participant{}
	for rows.Next() {
		var p models.Participant
		var kind string
		var lastVoted sql.NullTime
		if err := rows.Scan(&kind, &p.Voter.Value, &p.DisplayName, &p.Role, &p.JoinedAt, &lastVoted); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		p.Voter.Kind = models.VoterKind(kind)
		if lastVoted.Valid {
			t := lastVoted.Time
			p.LastVotedAt = &t
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// AddParticipant adds p to the roster. Joining twice is a no-op; the
// returned bool reports whether a row was created.
func (s *Store) AddParticipant(ctx context.Context, eventID string, p *models.Participant) (bool, error) {
	if p.Role == "" {
		p.Role = models.RoleParticipant
	}
	p.JoinedAt = s.now()

	var created bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireEvent(ctx, tx, eventID); err != nil {
			return err
		}
		var err error
		created, err = insertParticipant(ctx, tx, eventID, *p)
		return err
	})
	return created, err
}

func insertParticipant(ctx context.Context, tx *sql.Tx, eventID string, p models.Participant) (bool, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO participant (event_id, voter_key, voter_kind, voter_value, display_name, role, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (event_id, voter_key) DO NOTHING
	`, eventID, p.Voter.Key(), string(p.Voter.Kind), p.Voter.Value, p.DisplayName, p.Role, p.JoinedAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert participant: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

func requireEvent(ctx context.Context, tx *sql.Tx, eventID string) error {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM event WHERE id = $1`, eventID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return errEventNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to query event: %w", err)
	}
	return nil
}

func (s *Store) listWinners(ctx context.Context, eventID string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, option_id FROM event_winner WHERE event_id = $1
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query winners: %w", err)
	}
	defer rows.Close()

	winners := map[string]string{}
	for rows.Next() {
		var category, optionID string
		if err := rows.Scan(&category, &optionID); err != nil {
			return nil, fmt.Errorf("failed to scan winner: %w", err)
		}
		winners[category] = optionID
	}
	return winners, rows.Err()
}

// SaveWinners records the winner of every result that has one and, when
// status is not empty, moves the event to that status. Existing winners
// for a category are replaced.
func (s *Store) SaveWinners(ctx context.Context, eventID string, results map[string]models.CategoryResult, status string) error {
	decidedAt := s.now()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireEvent(ctx, tx, eventID); err != nil {
			return err
		}

		for category, result := range results {
			if result.Winner == nil {
				continue
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO event_winner (event_id, category, option_id, option_name, score, is_tied, explanation, decided_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
				ON CONFLICT (event_id, category) DO UPDATE SET
					option_id = EXCLUDED.option_id,
					option_name = EXCLUDED.option_name,
					score = EXCLUDED.score,
					is_tied = EXCLUDED.is_tied,
					explanation = EXCLUDED.explanation,
					decided_at = EXCLUDED.decided_at
			`, eventID, category, result.Winner.OptionID, result.Winner.OptionName, result.Winner.Score,
				result.IsTied, result.TieBreaker, decidedAt)
			if err != nil {
				return fmt.Errorf("failed to save winner for %s: %w", category, err)
			}
		}

		if status == "" {
			return nil
		}
		if _, err := tx.ExecContext(ctx, `UPDATE event SET status = $1 WHERE id = $2`, status, eventID); err != nil {
			return fmt.Errorf("failed to update event status: %w", err)
		}
		return nil
	})
}
