// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/danielhkuo/quickly-plan/apperr"
	"github.com/danielhkuo/quickly-plan/auth"
	"github.com/danielhkuo/quickly-plan/models"
)

// CreateEvent validates and stores a new event. The host joins the roster
// under their user ID when given, else under their name.
func (s *Service) CreateEvent(ctx context.Context, req models.CreateEventRequest) (models.Event, error) {
	title := strings.TrimSpace(req.Title)
	hostName := strings.TrimSpace(req.HostName)
	if title == "" {
		return models.Event{}, apperr.Validation("missing_title", "title is required")
	}
	if hostName == "" {
		return models.Event{}, apperr.Validation("missing_host_name", "hostName is required")
	}
	if len(req.VotingCategories) == 0 {
		return models.Event{}, apperr.Validation("missing_categories", "at least one voting category is required")
	}

	seen := make(map[string]bool, len(req.VotingCategories))
	categories := make([]string, 0, len(req.VotingCategories))
	for _, c := range req.VotingCategories {
		c = strings.TrimSpace(c)
		if !models.IsKnownCategory(c) {
			return models.Event{}, apperr.Validation("invalid_category", fmt.Sprintf("unknown voting category %q", c))
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		categories = append(categories, c)
	}

	host, err := models.ResolveVoter(req.HostUserID, "", "", hostName)
	if err != nil {
		return models.Event{}, apperr.Validation("missing_host_name", err.Error())
	}

	ev := models.Event{
		Title:            title,
		Description:      strings.TrimSpace(req.Description),
		HostName:         hostName,
		VotingCategories: categories,
		QuickPollEnabled: req.QuickPollEnabled,
	}
	participant := models.Participant{Voter: host, DisplayName: hostName}

	if err := s.repo.CreateEvent(ctx, &ev, &participant); err != nil {
		return models.Event{}, err
	}

	slog.Info("event created", "event_id", ev.ID, "categories", len(categories), "quick_poll", ev.QuickPollEnabled)
	return ev, nil
}

func (s *Service) GetEvent(ctx context.Context, eventID string) (models.Event, error) {
	return s.repo.GetEvent(ctx, eventID)
}

// JoinEvent adds a registered user to the roster. Joining twice is a no-op.
func (s *Service) JoinEvent(ctx context.Context, eventID string, req models.JoinEventRequest) (models.Participant, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return models.Participant{}, apperr.Validation("missing_user_id", "userId is required")
	}
	name := strings.TrimSpace(req.UserName)
	if name == "" {
		name = userID
	}

	p := models.Participant{
		Voter:       models.VoterIdentity{Kind: models.VoterUser, Value: userID},
		DisplayName: name,
		Role:        models.RoleParticipant,
	}
	added, err := s.repo.AddParticipant(ctx, eventID, &p)
	if err != nil {
		return models.Participant{}, err
	}
	if added {
		slog.Info("participant joined", "event_id", eventID, "kind", p.Voter.Kind)
	}
	return p, nil
}

// GuestJoin adds a guest to the roster and issues the token the guest
// votes with.
func (s *Service) GuestJoin(ctx context.Context, eventID string, req models.GuestJoinRequest) (models.GuestJoinResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.GuestJoinResponse{}, apperr.Validation("missing_name", "name is required")
	}

	token, err := auth.GenerateGuestToken()
	if err != nil {
		return models.GuestJoinResponse{}, apperr.Internal("token_generation_failed", "failed to issue guest token", err)
	}

	p := models.Participant{
		Voter:       models.VoterIdentity{Kind: models.VoterGuest, Value: token},
		DisplayName: name,
		Role:        models.RoleParticipant,
	}
	if _, err := s.repo.AddParticipant(ctx, eventID, &p); err != nil {
		return models.GuestJoinResponse{}, err
	}

	slog.Info("guest joined", "event_id", eventID)
	return models.GuestJoinResponse{GuestToken: token, Participant: p}, nil
}
