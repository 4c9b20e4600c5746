package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/resto-menu-api/internal/models"
	"github.com/noah-isme/resto-menu-api/internal/timewindow"
	appErrors "github.com/noah-isme/resto-menu-api/pkg/errors"
)

type scheduleRepository interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.MenuSchedule, int, error)
	FindByID(ctx context.Context, tenantID, id string) (*models.MenuSchedule, error)
	Create(ctx context.Context, schedule *models.MenuSchedule) error
	Update(ctx context.Context, schedule *models.MenuSchedule) error
	SetActive(ctx context.Context, tenantID, id string, active bool) error
	Delete(ctx context.Context, tenantID, id string) error
}

// ScheduleRequest is the create/update payload of a menu schedule.
type ScheduleRequest struct {
	Name               string                  `json:"name" validate:"required,max=120"`
	Description        string                  `json:"description"`
	IsActive           *bool                   `json:"isActive"`
	ScheduleType       models.ScheduleType     `json:"scheduleType" validate:"required,oneof=time-based date-based recurring"`
	TimeSlots          []models.TimeSlot       `json:"timeSlots" validate:"dive"`
	DateSlots          []models.DateSlot       `json:"dateSlots" validate:"dive"`
	Priority           int                     `json:"priority"`
	ApplicableChannels []string                `json:"applicableChannels"`
	Settings           models.ScheduleSettings `json:"settings"`
}

// SetActiveRequest toggles a schedule or pricing rule.
type SetActiveRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

// ScheduleService manages menu schedules.
type ScheduleService struct {
	repo      scheduleRepository
	notifier  changeNotifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService creates a schedule service.
func NewScheduleService(repo scheduleRepository, notifier changeNotifier, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, notifier: notifierOrNop(notifier), validator: validate, logger: logger}
}

// List returns paginated schedules of a tenant.
func (s *ScheduleService) List(ctx context.Context, filter models.ScheduleFilter) ([]models.MenuSchedule, *models.Pagination, error) {
	schedules, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	return schedules, paginate(filter.Page, filter.PageSize, total), nil
}

// Get returns a schedule by identifier.
func (s *ScheduleService) Get(ctx context.Context, tenantID, id string) (*models.MenuSchedule, error) {
	schedule, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	return schedule, nil
}

// Create validates and stores a new schedule.
func (s *ScheduleService) Create(ctx context.Context, tenantID string, req ScheduleRequest) (*models.MenuSchedule, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	schedule := &models.MenuSchedule{TenantID: tenantID, IsActive: true}
	applyScheduleRequest(schedule, req)

	if err := s.repo.Create(ctx, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule")
	}
	s.logger.Info("schedule created", zap.String("tenant_id", tenantID), zap.String("schedule_id", schedule.ID))
	s.notifier.Notify(ctx, tenantID, models.EventScheduleChanged, schedule.ID)
	return schedule, nil
}

// Update replaces the definition of a schedule.
func (s *ScheduleService) Update(ctx context.Context, tenantID, id string, req ScheduleRequest) (*models.MenuSchedule, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	schedule, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	applyScheduleRequest(schedule, req)

	if err := s.repo.Update(ctx, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule")
	}
	s.notifier.Notify(ctx, tenantID, models.EventScheduleChanged, schedule.ID)
	return schedule, nil
}

// SetActive enables or disables a schedule.
func (s *ScheduleService) SetActive(ctx context.Context, tenantID, id string, req SetActiveRequest) (*models.MenuSchedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	schedule, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetActive(ctx, tenantID, id, *req.IsActive); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule status")
	}
	schedule.IsActive = *req.IsActive
	s.notifier.Notify(ctx, tenantID, models.EventScheduleChanged, id)
	return schedule, nil
}

// Delete removes a schedule.
func (s *ScheduleService) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := s.Get(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule")
	}
	s.notifier.Notify(ctx, tenantID, models.EventScheduleChanged, id)
	return nil
}

func (s *ScheduleService) validate(req ScheduleRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	if err := ValidateSlots(req.TimeSlots, req.DateSlots); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule slot")
	}
	if req.Settings.UpcomingItemsMinutes < 0 {
		return appErrors.Clone(appErrors.ErrValidation, "upcomingItemsMinutes must not be negative")
	}
	return nil
}

// ValidateSlots checks that every slot can be evaluated. Records written
// before this check existed are still skipped at evaluation time.
func ValidateSlots(timeSlots []models.TimeSlot, dateSlots []models.DateSlot) error {
	for i, ts := range timeSlots {
		w := timewindow.Window{Start: ts.StartTime, End: ts.EndTime, Days: ts.DaysOfWeek}
		if err := w.Validate(); err != nil {
			return fmt.Errorf("timeSlots[%d]: %w", i, err)
		}
	}
	for i, ds := range dateSlots {
		if err := (timewindow.DateRange{Start: ds.StartDate, End: ds.EndDate}).Validate(); err != nil {
			return fmt.Errorf("dateSlots[%d]: %w", i, err)
		}
	}
	return nil
}

func applyScheduleRequest(schedule *models.MenuSchedule, req ScheduleRequest) {
	schedule.Name = strings.TrimSpace(req.Name)
	schedule.Description = req.Description
	if req.IsActive != nil {
		schedule.IsActive = *req.IsActive
	}
	schedule.ScheduleType = req.ScheduleType
	schedule.TimeSlots = req.TimeSlots
	schedule.DateSlots = req.DateSlots
	schedule.Priority = req.Priority
	schedule.ApplicableChannels = req.ApplicableChannels
	schedule.Settings = req.Settings
}

func paginate(page, size, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}
