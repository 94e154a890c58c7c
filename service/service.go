// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"time"

	"github.com/danielhkuo/quickly-plan/models"
	"github.com/danielhkuo/quickly-plan/notify"
	"github.com/danielhkuo/quickly-plan/store"
)

// Repository is the persistence the service needs. *store.Store
// satisfies it.
type Repository interface {
	CreateEvent(ctx context.Context, ev *models.Event, host *models.Participant) error
	GetEvent(ctx context.Context, eventID string) (models.Event, error)
	AddParticipant(ctx context.Context, eventID string, p *models.Participant) (bool, error)
	SaveWinners(ctx context.Context, eventID string, results map[string]models.CategoryResult, status string) error

	AddOption(ctx context.Context, opt *models.Option) error
	ListOptions(ctx context.Context, eventID, category string) ([]models.Option, error)
	DeleteOption(ctx context.Context, eventID, optionID string) (int64, error)
	DeleteOptionReferences(ctx context.Context, eventID, optionID string) (int64, error)
	CountOptionReferences(ctx context.Context, eventID, optionID string) (int, error)

	Submit(ctx context.Context, p *models.Preference) error
	ListFor(ctx context.Context, eventID string, f store.PreferenceFilter) ([]models.Preference, error)

	RegisterDevice(ctx context.Context, deviceUUID, platform string) (models.DeviceInfo, bool, error)
	GetDevice(ctx context.Context, deviceUUID string) (models.DeviceInfo, error)
	TouchDevice(ctx context.Context, deviceUUID string)
	ListDeviceEvents(ctx context.Context, deviceUUID string) ([]models.DeviceEventSummary, error)
}

// Publisher accepts notifications without blocking. *notify.Dispatcher
// satisfies it.
type Publisher interface {
	Publish(ev notify.Event) bool
}

// Service implements the voting operations on top of a Repository.
type Service struct {
	repo Repository
	pub  Publisher

	verifyAttempts int
	verifyDelay    time.Duration
}

type Option func(*Service)

// WithPublisher sends change notifications to pub.
func WithPublisher(pub Publisher) Option {
	return func(s *Service) { s.pub = pub }
}

// WithVerifyRetry tunes how often option deletion re-checks for leftover
// ballot references.
func WithVerifyRetry(attempts int, delay time.Duration) Option {
	return func(s *Service) {
		s.verifyAttempts = attempts
		s.verifyDelay = delay
	}
}

func New(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:           repo,
		verifyAttempts: 3,
		verifyDelay:    50 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) publish(ev notify.Event) {
	if s.pub == nil {
		return
	}
	s.pub.Publish(ev)
}
