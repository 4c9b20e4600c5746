package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/resto-menu-api/internal/models"
	appErrors "github.com/noah-isme/resto-menu-api/pkg/errors"
	"github.com/noah-isme/resto-menu-api/pkg/jobs"
)

const invalidateJobType = "invalidate_snapshot"

type eventPublisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
}

type snapshotInvalidator interface {
	InvalidateTenant(ctx context.Context, tenantID string) error
}

type jobQueue interface {
	Enqueue(ctx context.Context, job jobs.Job) error
}

// changeNotifier is told about every committed mutation.
type changeNotifier interface {
	Notify(ctx context.Context, tenantID string, eventType models.EventType, entityID string)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, string, models.EventType, string) {}

func notifierOrNop(n changeNotifier) changeNotifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}

// EventService publishes change events and turns consumed ones into snapshot
// invalidations.
type EventService struct {
	publisher eventPublisher
	cache     snapshotInvalidator
	queue     jobQueue
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewEventService constructs the event service. publisher and cache may be nil.
func NewEventService(publisher eventPublisher, cache snapshotInvalidator, metrics *MetricsService, logger *zap.Logger) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{
		publisher: publisher,
		cache:     cache,
		metrics:   metrics,
		validator: validator.New(),
		logger:    logger,
		now:       time.Now,
	}
}

// AttachQueue routes consumed events through q. Without a queue they are
// processed inline.
func (s *EventService) AttachQueue(q jobQueue) {
	s.queue = q
}

// Notify drops the local snapshot and publishes the event. Failures are
// logged; the mutation has already been committed.
func (s *EventService) Notify(ctx context.Context, tenantID string, eventType models.EventType, entityID string) {
	if s.cache != nil {
		_ = s.cache.InvalidateTenant(ctx, tenantID)
	}
	event := models.ChangeEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		TenantID:   tenantID,
		EntityID:   entityID,
		OccurredAt: s.now().UTC(),
	}
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("encode change event", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, tenantID, payload); err != nil {
		s.logger.Warn("publish change event failed",
			zap.String("tenant_id", tenantID),
			zap.String("type", string(eventType)),
			zap.Error(err))
		return
	}
	s.metrics.RecordEvent(true, eventType)
}

// HandleMessage decodes a message from the feed and ingests it.
func (s *EventService) HandleMessage(ctx context.Context, _ []byte, payload []byte) error {
	var event models.ChangeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}
	return s.Ingest(ctx, event)
}

// Ingest validates an event and schedules the invalidation it implies.
func (s *EventService) Ingest(ctx context.Context, event models.ChangeEvent) error {
	if err := s.validator.Struct(event); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event")
	}
	if !event.Type.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown event type")
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	s.metrics.RecordEvent(false, event.Type)

	job := jobs.Job{ID: event.ID, Type: invalidateJobType, Payload: event}
	if s.queue == nil {
		return s.ProcessJob(ctx, job)
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "event queue unavailable")
	}
	return nil
}

// ProcessJob is the queue handler.
func (s *EventService) ProcessJob(ctx context.Context, job jobs.Job) error {
	event, ok := job.Payload.(models.ChangeEvent)
	if !ok {
		s.logger.Error("unexpected job payload", zap.String("job_id", job.ID), zap.String("type", job.Type))
		return nil
	}
	if s.cache == nil {
		return nil
	}
	if err := s.cache.InvalidateTenant(ctx, event.TenantID); err != nil {
		return err
	}
	s.logger.Debug("snapshot invalidated by event",
		zap.String("tenant_id", event.TenantID),
		zap.String("type", string(event.Type)),
		zap.String("entity_id", event.EntityID))
	return nil
}
