// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/danielhkuo/quickly-plan/apperr"
	"github.com/danielhkuo/quickly-plan/models"
	"github.com/danielhkuo/quickly-plan/notify"
	"github.com/danielhkuo/quickly-plan/retry"
)

var errReferencesRemain = errors.New("option references remain")

// AddOption appends an option to one of the event's category catalogs.
func (s *Service) AddOption(ctx context.Context, eventID string, req models.AddOptionRequest) (models.Option, error) {
	label := strings.TrimSpace(req.Label)
	if label == "" {
		return models.Option{}, apperr.Validation("missing_label", "label is required")
	}

	ev, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return models.Option{}, err
	}
	if !ev.HasCategory(req.Category) {
		return models.Option{}, apperr.Validation("invalid_category", fmt.Sprintf("category %q is not voted on in this event", req.Category))
	}

	opt := models.Option{
		EventID:     eventID,
		Category:    req.Category,
		Label:       label,
		Description: strings.TrimSpace(req.Description),
		Venue:       req.Venue,
	}
	if err := s.repo.AddOption(ctx, &opt); err != nil {
		return models.Option{}, err
	}
	return opt, nil
}

func (s *Service) ListOptions(ctx context.Context, eventID, category string) ([]models.Option, error) {
	if _, err := s.repo.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.repo.ListOptions(ctx, eventID, category)
}

// DeleteOption removes an option and every ballot entry that ranks it.
// The catalog delete and the scrub share a transaction; afterwards the
// ballots are checked again and rescrubbed until no reference is left.
func (s *Service) DeleteOption(ctx context.Context, eventID, optionID string) (models.DeleteOptionResponse, error) {
	if _, err := s.repo.GetEvent(ctx, eventID); err != nil {
		return models.DeleteOptionResponse{}, err
	}

	scrubbed, err := s.repo.DeleteOption(ctx, eventID, optionID)
	if err != nil {
		return models.DeleteOptionResponse{}, err
	}

	err = retry.DoWithRetry(ctx, s.verifyAttempts, s.verifyDelay, func() error {
		remaining, err := s.repo.CountOptionReferences(ctx, eventID, optionID)
		if err != nil {
			return retry.Permanent(err)
		}
		if remaining == 0 {
			return nil
		}
		slog.Warn("option references survived delete, scrubbing again",
			"event_id", eventID, "option_id", optionID, "remaining", remaining)
		more, err := s.repo.DeleteOptionReferences(ctx, eventID, optionID)
		if err != nil {
			return retry.Permanent(err)
		}
		scrubbed += more
		return errReferencesRemain
	})
	if errors.Is(err, errReferencesRemain) {
		return models.DeleteOptionResponse{}, apperr.Conflict("option_references_remain",
			"option was deleted but some ballots still rank it, please retry", err)
	}
	if err != nil {
		return models.DeleteOptionResponse{}, err
	}

	slog.Info("option deleted", "event_id", eventID, "option_id", optionID, "scrubbed", scrubbed)
	s.publish(notify.Event{Type: notify.OptionDeleted, EventID: eventID, OptionID: optionID})

	return models.DeleteOptionResponse{
		Success:          true,
		Message:          deletedMessage(scrubbed),
		ScrubbedRankings: scrubbed,
	}, nil
}

func deletedMessage(scrubbed int64) string {
	if scrubbed == 0 {
		return "Option deleted"
	}
	return fmt.Sprintf("Option deleted and removed from %s %s", humanize.Comma(scrubbed), english.PluralWord(int(scrubbed), "ranking", ""))
}
