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
	"github.com/danielhkuo/quickly-plan/retry"
)

// PreferenceFilter narrows ListFor. Zero values match everything.
type PreferenceFilter struct {
	Category    string
	IsQuickPoll *bool
}

// Submit stores a ballot. In standard mode any earlier ballot from the same
// voter for the same category is replaced in the same transaction; in
// quick-poll mode a new ballot is always added. The event must exist, the
// category must be one of its voting categories and every ranked option
// must be in that category's catalog. Missing option names are filled in
// from the catalog.
func (s *Store) Submit(ctx context.Context, p *models.Preference) error {
	if p.Voter.Key() == "" {
		return apperr.Validation("missing_voter", models.ErrNoVoterIdentity.Error())
	}

	err := retry.DoWithRetry(ctx, s.retryAttempts, s.retryDelay, func() error {
		p.ID = uuid.NewString()
		p.VotedAt = s.now()
		err := s.withTx(ctx, func(tx *sql.Tx) error {
			return s.submitTx(ctx, tx, p)
		})
		if err != nil && !isUniqueViolation(err) {
			return retry.Permanent(err)
		}
		return err
	})
	if isUniqueViolation(err) {
		return apperr.Conflict("concurrent_submission", "ballot was replaced concurrently, please resubmit", err)
	}
	return err
}

func (s *Store) submitTx(ctx context.Context, tx *sql.Tx, p *models.Preference) error {
	if err := requireEvent(ctx, tx, p.EventID); err != nil {
		return err
	}

	var found string
	err := tx.QueryRowContext(ctx, `
		SELECT category FROM event_category WHERE event_id = $1 AND category = $2
	`, p.EventID, p.Category).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.Validation("invalid_category", fmt.Sprintf("category %q is not voted on in this event", p.Category))
	}
	if err != nil {
		return fmt.Errorf("failed to query category: %w", err)
	}

	labels, err := catalogLabels(ctx, tx, p.EventID, p.Category)
	if err != nil {
		return err
	}
	for i := range p.Preferences {
		entry := &p.Preferences[i]
		label, ok := labels[entry.OptionID]
		if !ok {
			return apperr.Validation("unknown_option", fmt.Sprintf("option %s is not an option for %s", entry.OptionID, p.Category))
		}
		if entry.OptionName == "" {
			entry.OptionName = label
		}
	}

	if !p.IsQuickPoll {
		if err := deletePriorBallots(ctx, tx, p); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO preference (id, event_id, category, voter_key, voter_kind, voter_value,
			user_id, guest_token, device_id, voter_name, is_quick_poll, ip_hash, voted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, p.ID, p.EventID, p.Category, p.Voter.Key(), string(p.Voter.Kind), p.Voter.Value,
		p.UserID, p.GuestToken, p.DeviceID, p.VoterName, p.IsQuickPoll, p.IPHash, p.VotedAt)
	if err != nil {
		return fmt.Errorf("failed to insert preference: %w", err)
	}

	for i, entry := range p.Preferences {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO preference_rank (preference_id, option_id, option_name, rank_value, sort_order)
			VALUES ($1, $2, $3, $4, $5)
		`, p.ID, entry.OptionID, entry.OptionName, entry.Rank, i)
		if err != nil {
			return fmt.Errorf("failed to insert ranking: %w", err)
		}
	}

	if p.IsQuickPoll {
		return nil
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE participant SET last_voted_at = $1 WHERE event_id = $2 AND voter_key = $3
	`, p.VotedAt, p.EventID, p.Voter.Key())
	if err != nil {
		return fmt.Errorf("failed to update participant: %w", err)
	}
	return nil
}

func catalogLabels(ctx context.Context, tx *sql.Tx, eventID, category string) (map[string]string, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, label FROM event_option WHERE event_id = $1 AND category = $2
	`, eventID, category)
	if err != nil {
		return nil, fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	labels := make(map[string]string)
	for rows.Next() {
		var id, label string
		if err := rows.Scan(&id, &label); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		labels[id] = label
	}
	return labels, rows.Err()
}

func deletePriorBallots(ctx context.Context, tx *sql.Tx, p *models.Preference) error {
	_, err := tx.ExecContext(ctx, `
		DELETE FROM preference_rank
		WHERE preference_id IN (
			SELECT id FROM preference
			WHERE event_id = $1 AND category = $2 AND voter_key = $3 AND is_quick_poll = FALSE
		)
	`, p.EventID, p.Category, p.Voter.Key())
	if err != nil {
		return fmt.Errorf("failed to delete previous rankings: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM preference
		WHERE event_id = $1 AND category = $2 AND voter_key = $3 AND is_quick_poll = FALSE
	`, p.EventID, p.Category, p.Voter.Key())
	if err != nil {
		return fmt.Errorf("failed to delete previous preference: %w", err)
	}
	return nil
}

// ListFor returns the ballots of an event in submission order, read with
// a single query so the result is a consistent snapshot.
func (s *Store) ListFor(ctx context.Context, eventID string, f PreferenceFilter) ([]models.Preference, error) {
	query := `
		SELECT p.id, p.event_id, p.category, p.voter_kind, p.voter_value,
			p.user_id, p.guest_token, p.device_id, p.voter_name, p.is_quick_poll, p.voted_at,
			r.option_id, r.option_name, r.rank_value
		FROM preference p
		LEFT JOIN preference_rank r ON r.preference_id = p.id
		WHERE p.event_id = $1`
	args := []any{eventID}
	if f.Category != "" {
		args = append(args, f.Category)
		query += fmt.Sprintf(" AND p.category = $%d", len(args))
	}
	if f.IsQuickPoll != nil {
		args = append(args, *f.IsQuickPoll)
		query += fmt.Sprintf(" AND p.is_quick_poll = $%d", len(args))
	}
	query += ` ORDER BY p.voted_at, p.id, r.sort_order`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	defer rows.Close()

	prefs := []models.Preference{}
	for rows.Next() {
		var p models.Preference
		var kind string
		var optionID, optionName sql.NullString
		var rank sql.NullInt64
		if err := rows.Scan(&p.ID, &p.EventID, &p.Category, &kind, &p.Voter.Value,
			&p.UserID, &p.GuestToken, &p.DeviceID, &p.VoterName, &p.IsQuickPoll, &p.VotedAt,
			&optionID, &optionName, &rank); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		p.Voter.Kind = models.VoterKind(kind)

		if n := len(prefs); n == 0 || prefs[n-1].ID != p.ID {
			p.Preferences = []models.RankedOption{}
			prefs = append(prefs, p)
		}
		if optionID.Valid {
			last := &prefs[len(prefs)-1]
			last.Preferences = append(last.Preferences, models.RankedOption{
				OptionID:   optionID.String,
				OptionName: optionName.String,
				Rank:       int(rank.Int64),
			})
		}
	}
	return prefs, rows.Err()
}
