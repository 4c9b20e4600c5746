package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/resto-menu-api/internal/models"
	"github.com/noah-isme/resto-menu-api/internal/service"
	appErrors "github.com/noah-isme/resto-menu-api/pkg/errors"
)

type scheduleServiceMock struct {
	filter    models.ScheduleFilter
	created   service.ScheduleRequest
	activeReq service.SetActiveRequest
	deleted   string
	createErr error
}

func (m *scheduleServiceMock) List(ctx context.Context, filter models.ScheduleFilter) ([]models.MenuSchedule, *models.Pagination, error) {
	m.filter = filter
	return []models.MenuSchedule{{ID: "s1"}}, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1}, nil
}

func (m *scheduleServiceMock) Get(ctx context.Context, tenantID, id string) (*models.MenuSchedule, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
}

func (m *scheduleServiceMock) Create(ctx context.Context, tenantID string, req service.ScheduleRequest) (*models.MenuSchedule, error) {
	m.created = req
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &models.MenuSchedule{ID: "s-new", TenantID: tenantID, Name: req.Name}, nil
}

func (m *scheduleServiceMock) Update(ctx context.Context, tenantID, id string, req service.ScheduleRequest) (*models.MenuSchedule, error) {
	return &models.MenuSchedule{ID: id, TenantID: tenantID, Name: req.Name}, nil
}

func (m *scheduleServiceMock) SetActive(ctx context.Context, tenantID, id string, req service.SetActiveRequest) (*models.MenuSchedule, error) {
	m.activeReq = req
	return &models.MenuSchedule{ID: id, IsActive: *req.IsActive}, nil
}

func (m *scheduleServiceMock) Delete(ctx context.Context, tenantID, id string) error {
	m.deleted = id
	return nil
}

func TestScheduleHandlerListBuildsFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &scheduleServiceMock{}
	handler := NewScheduleHandler(svc)

	c, w := newGinContext(http.MethodGet, "/schedules?scheduleType=date-based&active=true&channelId=online&page=2&limit=5", nil)
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tenant-1", svc.filter.TenantID)
	assert.Equal(t, models.ScheduleTypeDateBased, svc.filter.ScheduleType)
	require.NotNil(t, svc.filter.Active)
	assert.True(t, *svc.filter.Active)
	assert.Equal(t, "online", svc.filter.ChannelID)
	assert.Equal(t, 2, svc.filter.Page)
	assert.Equal(t, 5, svc.filter.PageSize)
	assert.Contains(t, w.Body.String(), `"pagination"`)
}

func TestScheduleHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &scheduleServiceMock{}
	handler := NewScheduleHandler(svc)

	c, w := newGinContext(http.MethodPost, "/schedules", []byte(`{"name":"Lunch","scheduleType":"time-based","timeSlots":[{"startTime":"11:00","endTime":"14:00"}]}`))
	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Lunch", svc.created.Name)
	require.Len(t, svc.created.TimeSlots, 1)

	c, w = newGinContext(http.MethodPost, "/schedules", []byte(`{"name":`))
	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerCreateValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewScheduleHandler(&scheduleServiceMock{createErr: appErrors.Clone(appErrors.ErrValidation, "time slot 0: invalid start time")})

	c, w := newGinContext(http.MethodPost, "/schedules", []byte(`{"name":"Broken","scheduleType":"time-based"}`))
	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestScheduleHandlerGetSetActiveDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &scheduleServiceMock{}
	handler := NewScheduleHandler(svc)

	c, w := newGinContext(http.MethodGet, "/schedules/nope", nil)
	c.Params = gin.Params{{Key: "id", Value: "nope"}}
	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, w = newGinContext(http.MethodPatch, "/schedules/s1/active", []byte(`{"isActive":false}`))
	c.Params = gin.Params{{Key: "id", Value: "s1"}}
	handler.SetActive(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.activeReq.IsActive)
	assert.False(t, *svc.activeReq.IsActive)

	c, w = newGinContext(http.MethodDelete, "/schedules/s1", nil)
	c.Params = gin.Params{{Key: "id", Value: "s1"}}
	handler.Delete(c)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "s1", svc.deleted)
}
