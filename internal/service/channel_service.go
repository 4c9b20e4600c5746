package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/resto-menu-api/internal/menu"
	"github.com/noah-isme/resto-menu-api/internal/models"
	"github.com/noah-isme/resto-menu-api/internal/timewindow"
	appErrors "github.com/noah-isme/resto-menu-api/pkg/errors"
)

type channelRepository interface {
	List(ctx context.Context, tenantID string) ([]models.Channel, error)
	FindByID(ctx context.Context, tenantID, id string) (*models.Channel, error)
	Create(ctx context.Context, channel *models.Channel) error
	Update(ctx context.Context, channel *models.Channel) error
	Delete(ctx context.Context, tenantID, id string) error
}

// ChannelRequest is the create/update payload of a channel.
type ChannelRequest struct {
	Name           string             `json:"name" validate:"required,max=120"`
	Type           models.ChannelType `json:"type" validate:"required,oneof=dine-in takeaway delivery online"`
	IsActive       *bool              `json:"isActive"`
	OperatingHours []models.DayHours  `json:"operatingHours" validate:"dive"`
}

// ChannelService manages channels and reports their open state.
type ChannelService struct {
	repo      channelRepository
	notifier  changeNotifier
	policy    timewindow.DayPolicy
	location  *time.Location
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewChannelService creates a channel service. loc is the default timezone
// for status checks.
func NewChannelService(repo channelRepository, notifier changeNotifier, policy timewindow.DayPolicy, loc *time.Location, validate *validator.Validate, logger *zap.Logger) *ChannelService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ChannelService{
		repo:      repo,
		notifier:  notifierOrNop(notifier),
		policy:    policy,
		location:  loc,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns the channels of a tenant.
func (s *ChannelService) List(ctx context.Context, tenantID string) ([]models.Channel, error) {
	channels, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list channels")
	}
	return channels, nil
}

// Get returns a channel by identifier.
func (s *ChannelService) Get(ctx context.Context, tenantID, id string) (*models.Channel, error) {
	channel, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "channel not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load channel")
	}
	return channel, nil
}

// Create stores a new channel.
func (s *ChannelService) Create(ctx context.Context, tenantID string, req ChannelRequest) (*models.Channel, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	channel := &models.Channel{TenantID: tenantID, IsActive: true}
	applyChannelRequest(channel, req)
	if err := s.repo.Create(ctx, channel); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create channel")
	}
	s.notifier.Notify(ctx, tenantID, models.EventChannelChanged, channel.ID)
	return channel, nil
}

// Update replaces a channel definition.
func (s *ChannelService) Update(ctx context.Context, tenantID, id string, req ChannelRequest) (*models.Channel, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	channel, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	applyChannelRequest(channel, req)
	if err := s.repo.Update(ctx, channel); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update channel")
	}
	s.notifier.Notify(ctx, tenantID, models.EventChannelChanged, channel.ID)
	return channel, nil
}

// Delete removes a channel.
func (s *ChannelService) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := s.Get(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete channel")
	}
	s.notifier.Notify(ctx, tenantID, models.EventChannelChanged, id)
	return nil
}

// Status evaluates whether the channel is open at the given time. A nil at
// means now; an empty tz uses the service default.
func (s *ChannelService) Status(ctx context.Context, tenantID, id string, at *time.Time, tz string) (*models.ChannelStatus, error) {
	channel, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	when, loc, err := resolveInstant(at, tz, s.location, s.now)
	if err != nil {
		return nil, err
	}
	instant := timewindow.InstantOf(when, loc)
	return &models.ChannelStatus{
		ChannelID: channel.ID,
		IsActive:  channel.IsActive,
		IsOpen:    menu.ChannelOpen(*channel, instant, s.policy),
		At:        when.In(loc),
	}, nil
}

func (s *ChannelService) validate(req ChannelRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid channel payload")
	}
	if err := ValidateOperatingHours(req.OperatingHours); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid operating hours")
	}
	return nil
}

// ValidateOperatingHours checks the clock values of every open day.
func ValidateOperatingHours(hours []models.DayHours) error {
	for i, h := range hours {
		if h.IsClosed {
			continue
		}
		w := timewindow.Window{Start: h.Open, End: h.Close, Days: []int{h.Day}}
		if err := w.Validate(); err != nil {
			return fmt.Errorf("operatingHours[%d]: %w", i, err)
		}
	}
	return nil
}

func applyChannelRequest(channel *models.Channel, req ChannelRequest) {
	channel.Name = strings.TrimSpace(req.Name)
	channel.Type = req.Type
	if req.IsActive != nil {
		channel.IsActive = *req.IsActive
	}
	channel.OperatingHours = req.OperatingHours
}

// resolveInstant picks the evaluation time and location. Unknown timezones are
// a validation error.
func resolveInstant(at *time.Time, tz string, def *time.Location, now func() time.Time) (time.Time, *time.Location, error) {
	loc := def
	if tz = strings.TrimSpace(tz); tz != "" {
		parsed, err := time.LoadLocation(tz)
		if err != nil {
			return time.Time{}, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timezone")
		}
		loc = parsed
	}
	if loc == nil {
		loc = time.UTC
	}
	when := now()
	if at != nil && !at.IsZero() {
		when = *at
	}
	return when, loc, nil
}
