package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/resto-menu-api/internal/middleware"
)

func newTestRouter() (*gin.Engine, *menuServiceMock, *scheduleServiceMock) {
	gin.SetMode(gin.TestMode)
	menuSvc := &menuServiceMock{}
	scheduleSvc := &scheduleServiceMock{}

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(middleware.Tenant(nil, ""))
	RegisterRoutes(api, Handlers{
		Menu:        NewMenuHandler(menuSvc),
		Schedules:   NewScheduleHandler(scheduleSvc),
		Channels:    NewChannelHandler(&channelStatusMock{}),
		Catalog:     NewCatalogHandler(nil),
		CatalogIO:   NewCatalogIOHandler(&catalogIOServiceMock{}),
		PricingRule: NewPricingRuleHandler(nil),
		Events:      NewEventHandler(&eventIngesterMock{}),
	})
	return r, menuSvc, scheduleSvc
}

func TestRouterRequiresTenant(t *testing.T) {
	r, _, _ := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/menu", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "TENANT_REQUIRED")
}

func TestRouterDispatchesTenantScopedRoutes(t *testing.T) {
	r, menuSvc, scheduleSvc := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/menu?channelId=online", nil)
	req.Header.Set("X-Tenant-ID", "tenant-7")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tenant-7", menuSvc.lastQuery.TenantID)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/schedules/s9", nil)
	req.Header.Set("X-Tenant-ID", "tenant-7")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "s9", scheduleSvc.deleted)
}
