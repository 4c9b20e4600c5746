package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/resto-menu-api/internal/models"
	appErrors "github.com/noah-isme/resto-menu-api/pkg/errors"
)

type mockScheduleRepo struct {
	schedules  map[string]models.MenuSchedule
	lastFilter models.ScheduleFilter
	deleted    []string
	err        error
}

func (m *mockScheduleRepo) List(ctx context.Context, filter models.ScheduleFilter) ([]models.MenuSchedule, int, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, 0, m.err
	}
	out := make([]models.MenuSchedule, 0, len(m.schedules))
	for _, s := range m.schedules {
		out = append(out, s)
	}
	return out, len(out), nil
}

func (m *mockScheduleRepo) FindByID(ctx context.Context, tenantID, id string) (*models.MenuSchedule, error) {
	if s, ok := m.schedules[id]; ok && s.TenantID == tenantID {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockScheduleRepo) Create(ctx context.Context, schedule *models.MenuSchedule) error {
	if m.schedules == nil {
		m.schedules = make(map[string]models.MenuSchedule)
	}
	if schedule.ID == "" {
		schedule.ID = "generated"
	}
	m.schedules[schedule.ID] = *schedule
	return nil
}

func (m *mockScheduleRepo) Update(ctx context.Context, schedule *models.MenuSchedule) error {
	m.schedules[schedule.ID] = *schedule
	return nil
}

func (m *mockScheduleRepo) SetActive(ctx context.Context, tenantID, id string, active bool) error {
	s := m.schedules[id]
	s.IsActive = active
	m.schedules[id] = s
	return nil
}

func (m *mockScheduleRepo) Delete(ctx context.Context, tenantID, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.schedules, id)
	return nil
}

type recordingNotifier struct {
	events []models.EventType
	ids    []string
}

func (r *recordingNotifier) Notify(ctx context.Context, tenantID string, eventType models.EventType, entityID string) {
	r.events = append(r.events, eventType)
	r.ids = append(r.ids, entityID)
}

func lunchRequest() ScheduleRequest {
	return ScheduleRequest{
		Name:         " Lunch ",
		ScheduleType: models.ScheduleTypeTimeBased,
		Priority:     5,
		TimeSlots: []models.TimeSlot{{
			Name: "lunch", StartTime: "11:00", EndTime: "14:00", DaysOfWeek: []int{1, 2, 3, 4, 5},
			Categories: []string{"mains"},
		}},
	}
}

func TestScheduleServiceCreate(t *testing.T) {
	repo := &mockScheduleRepo{}
	notifier := &recordingNotifier{}
	svc := NewScheduleService(repo, notifier, nil, nil)

	schedule, err := svc.Create(context.Background(), "tenant-1", lunchRequest())
	require.NoError(t, err)
	assert.Equal(t, "Lunch", schedule.Name)
	assert.Equal(t, "tenant-1", schedule.TenantID)
	assert.True(t, schedule.IsActive)
	assert.Equal(t, []models.EventType{models.EventScheduleChanged}, notifier.events)
	assert.Equal(t, []string{"generated"}, notifier.ids)
}

func TestScheduleServiceCreateRejectsMalformedSlot(t *testing.T) {
	svc := NewScheduleService(&mockScheduleRepo{}, nil, nil, nil)

	req := lunchRequest()
	req.TimeSlots[0].StartTime = "25:99"
	_, err := svc.Create(context.Background(), "tenant-1", req)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	req = lunchRequest()
	req.ScheduleType = models.ScheduleTypeDateBased
	req.DateSlots = []models.DateSlot{{StartDate: "2024-12-31", EndDate: "2024-12-01"}}
	_, err = svc.Create(context.Background(), "tenant-1", req)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestScheduleServiceCreateRejectsUnknownType(t *testing.T) {
	svc := NewScheduleService(&mockScheduleRepo{}, nil, nil, nil)

	req := lunchRequest()
	req.ScheduleType = "weekly"
	_, err := svc.Create(context.Background(), "tenant-1", req)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestScheduleServiceGetScopesByTenant(t *testing.T) {
	repo := &mockScheduleRepo{schedules: map[string]models.MenuSchedule{
		"s1": {ID: "s1", TenantID: "tenant-1"},
	}}
	svc := NewScheduleService(repo, nil, nil, nil)

	_, err := svc.Get(context.Background(), "tenant-2", "s1")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestScheduleServiceSetActive(t *testing.T) {
	repo := &mockScheduleRepo{schedules: map[string]models.MenuSchedule{
		"s1": {ID: "s1", TenantID: "tenant-1", IsActive: true},
	}}
	notifier := &recordingNotifier{}
	svc := NewScheduleService(repo, notifier, nil, nil)

	inactive := false
	schedule, err := svc.SetActive(context.Background(), "tenant-1", "s1", SetActiveRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, schedule.IsActive)
	assert.False(t, repo.schedules["s1"].IsActive)
	assert.Len(t, notifier.events, 1)

	_, err = svc.SetActive(context.Background(), "tenant-1", "s1", SetActiveRequest{})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestScheduleServiceDelete(t *testing.T) {
	repo := &mockScheduleRepo{schedules: map[string]models.MenuSchedule{
		"s1": {ID: "s1", TenantID: "tenant-1"},
	}}
	svc := NewScheduleService(repo, nil, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "tenant-1", "s1"))
	assert.Equal(t, []string{"s1"}, repo.deleted)

	err := svc.Delete(context.Background(), "tenant-1", "s1")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestScheduleServiceListDefaultsPagination(t *testing.T) {
	repo := &mockScheduleRepo{schedules: map[string]models.MenuSchedule{"s1": {ID: "s1"}}}
	svc := NewScheduleService(repo, nil, nil, nil)

	_, pagination, err := svc.List(context.Background(), models.ScheduleFilter{TenantID: "tenant-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
	assert.Equal(t, 1, pagination.TotalCount)
	assert.Equal(t, "tenant-1", repo.lastFilter.TenantID)
}
