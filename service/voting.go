// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-plan/apperr"
	"github.com/danielhkuo/quickly-plan/metrics"
	"github.com/danielhkuo/quickly-plan/models"
	"github.com/danielhkuo/quickly-plan/notify"
	"github.com/danielhkuo/quickly-plan/store"
	"github.com/danielhkuo/quickly-plan/voting"
)

// SubmitPreferences validates and stores one ranked ballot. A standard
// ballot replaces the voter's previous ballot for the category; a
// quick-poll ballot is always added.
func (s *Service) SubmitPreferences(ctx context.Context, eventID string, req models.SubmitPreferencesRequest, ipHash string) (models.Preference, error) {
	voter, err := voting.ValidateSubmission(req)
	if err != nil {
		return models.Preference{}, err
	}

	pref := models.Preference{
		EventID:     eventID,
		Category:    strings.TrimSpace(req.Category),
		Voter:       voter,
		UserID:      strings.TrimSpace(req.UserID),
		GuestToken:  strings.TrimSpace(req.GuestToken),
		DeviceID:    strings.TrimSpace(req.DeviceID),
		VoterName:   strings.TrimSpace(req.VoterName),
		Preferences: append([]models.RankedOption(nil), req.Preferences...),
		IsQuickPoll: req.IsQuickPoll,
		IPHash:      ipHash,
	}
	if err := s.repo.Submit(ctx, &pref); err != nil {
		return models.Preference{}, err
	}

	metrics.IncPreference(pref.IsQuickPoll)
	slog.Info("preferences submitted",
		"event_id", eventID,
		"category", pref.Category,
		"voter_kind", voter.Kind,
		"quick_poll", pref.IsQuickPoll,
		"ranked", len(pref.Preferences),
	)
	s.publish(notify.Event{Type: notify.VoteChanged, EventID: eventID, Category: pref.Category})

	return pref, nil
}

// ListPreferences returns the stored ballots of an event, optionally
// narrowed to one category and one voting mode.
func (s *Service) ListPreferences(ctx context.Context, eventID, category string, isQuickPoll *bool) ([]models.Preference, error) {
	if _, err := s.repo.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.repo.ListFor(ctx, eventID, store.PreferenceFilter{Category: category, IsQuickPoll: isQuickPoll})
}

// GetCategoryResults tallies the requested category, or every voting
// category of the event when category is empty. Nothing is persisted.
func (s *Service) GetCategoryResults(ctx context.Context, eventID, category string, finalize bool) (map[string]models.CategoryResult, error) {
	ev, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return s.tally(ctx, ev, category, finalize)
}

// Finalize resolves a winner per category and records them on the event.
// The event moves to finalized once every category has a winner.
func (s *Service) Finalize(ctx context.Context, eventID string) (models.FinalizeResponse, error) {
	ev, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return models.FinalizeResponse{}, err
	}

	results, err := s.tally(ctx, ev, "", true)
	if err != nil {
		return models.FinalizeResponse{}, err
	}

	winners := make(map[string]string, len(results))
	decided := len(results) > 0
	for category, r := range results {
		if r.Winner == nil {
			decided = false
			continue
		}
		winners[category] = r.Winner.OptionID
	}

	var newStatus string
	status := ev.Status
	if decided {
		newStatus = models.StatusFinalized
		status = newStatus
	}
	if err := s.repo.SaveWinners(ctx, eventID, results, newStatus); err != nil {
		return models.FinalizeResponse{}, err
	}

	slog.Info("results finalized", "event_id", eventID, "winners", len(winners), "status", status)
	s.publish(notify.Event{Type: notify.ResultsFinalized, EventID: eventID})

	return models.FinalizeResponse{
		EventID: eventID,
		Status:  status,
		Winners: winners,
		Results: results,
	}, nil
}

func (s *Service) tally(ctx context.Context, ev models.Event, category string, finalize bool) (map[string]models.CategoryResult, error) {
	start := time.Now()

	categories := ev.VotingCategories
	if category != "" {
		if !ev.HasCategory(category) {
			return nil, apperr.Validation("invalid_category", fmt.Sprintf("category %q is not voted on in this event", category))
		}
		categories = []string{category}
	}

	filter := store.PreferenceFilter{Category: category}
	if ev.QuickPollEnabled {
		quick := true
		filter.IsQuickPoll = &quick
	}
	prefs, err := s.repo.ListFor(ctx, ev.ID, filter)
	if err != nil {
		return nil, err
	}

	catalog, err := s.repo.ListOptions(ctx, ev.ID, category)
	if err != nil {
		slog.Warn("option catalog unavailable, results will not be enriched", "event_id", ev.ID, "error", err)
		catalog = nil
	}

	prefsByCategory := make(map[string][]models.Preference)
	for _, p := range prefs {
		prefsByCategory[p.Category] = append(prefsByCategory[p.Category], p)
	}
	catalogByCategory := make(map[string][]models.Option)
	for _, o := range catalog {
		catalogByCategory[o.Category] = append(catalogByCategory[o.Category], o)
	}

	results := make(map[string]models.CategoryResult, len(categories))
	for _, c := range categories {
		r := voting.Tally(c, prefsByCategory[c], catalogByCategory[c], finalize)
		if r.IsTied {
			metrics.IncTieBreak()
		}
		results[c] = r
	}

	metrics.IncResults(finalize)
	metrics.ObserveTally(time.Since(start))
	return results, nil
}

// GetVotingStatus reports, per category, which roster members have a
// standard-mode ballot.
func (s *Service) GetVotingStatus(ctx context.Context, eventID string) (models.VotingStatusResponse, error) {
	ev, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return models.VotingStatusResponse{}, err
	}

	standard := false
	prefs, err := s.repo.ListFor(ctx, eventID, store.PreferenceFilter{IsQuickPoll: &standard})
	if err != nil {
		return models.VotingStatusResponse{}, err
	}
	byCategory := make(map[string][]models.Preference)
	for _, p := range prefs {
		byCategory[p.Category] = append(byCategory[p.Category], p)
	}

	resp := models.VotingStatusResponse{
		EventID:          eventID,
		StatusByCategory: make(map[string]models.CategoryStatus, len(ev.VotingCategories)),
	}
	for _, c := range ev.VotingCategories {
		resp.StatusByCategory[c] = voting.TrackStatus(c, ev.Participants, byCategory[c])
	}
	return resp, nil
}

// GetVotingDetails lists, per category and option, who ranked the option
// and at which rank. It reads the same ballots the results are scored on.
func (s *Service) GetVotingDetails(ctx context.Context, eventID string) (models.VotingDetailsResponse, error) {
	ev, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		return models.VotingDetailsResponse{}, err
	}

	var filter store.PreferenceFilter
	if ev.QuickPollEnabled {
		quick := true
		filter.IsQuickPoll = &quick
	}
	prefs, err := s.repo.ListFor(ctx, eventID, filter)
	if err != nil {
		return models.VotingDetailsResponse{}, err
	}
	byCategory := make(map[string][]models.Preference)
	for _, p := range prefs {
		byCategory[p.Category] = append(byCategory[p.Category], p)
	}

	resp := models.VotingDetailsResponse{
		EventID:           eventID,
		DetailsByCategory: make(map[string]models.CategoryDetails, len(ev.VotingCategories)),
	}
	for _, c := range ev.VotingCategories {
		resp.DetailsByCategory[c] = voting.VotingDetails(c, ev.Participants, byCategory[c])
	}
	return resp, nil
}
