package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/resto-menu-api/internal/menu"
	"github.com/noah-isme/resto-menu-api/internal/middleware"
	"github.com/noah-isme/resto-menu-api/internal/service"
	appErrors "github.com/noah-isme/resto-menu-api/pkg/errors"
	"github.com/noah-isme/resto-menu-api/pkg/logger"
)

type menuServiceMock struct {
	lastQuery   service.MenuQuery
	lastPreview service.PricePreviewRequest
	evalErr     error
	cacheHit    bool
}

func (m *menuServiceMock) Evaluate(ctx context.Context, q service.MenuQuery) (*service.MenuResponse, error) {
	m.lastQuery = q
	if m.evalErr != nil {
		return nil, m.evalErr
	}
	return &service.MenuResponse{Menu: menu.Menu{Restricted: true}, Timezone: "UTC", CacheHit: m.cacheHit}, nil
}

func (m *menuServiceMock) PreviewPrice(ctx context.Context, tenantID, itemID string, req service.PricePreviewRequest) (*service.PricePreviewResponse, error) {
	m.lastPreview = req
	return &service.PricePreviewResponse{MenuItemID: itemID, PricePreview: menu.PricePreview{BasePrice: 20, Price: 15}}, nil
}

func (m *menuServiceMock) Snapshot(ctx context.Context, tenantID string) (*menu.Snapshot, bool, error) {
	return &menu.Snapshot{TenantID: tenantID}, m.cacheHit, nil
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(logger.TenantContextKey, "tenant-1")
	return c, w
}

func TestMenuHandlerGetParsesQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &menuServiceMock{cacheHit: true}
	handler := NewMenuHandler(svc)

	c, w := newGinContext(http.MethodGet, "/menu?channelId=dine-in&at=2024-03-08T12:00:00Z&tz=Asia/Singapore&quantity=3&prices=false", nil)
	middleware.WithResponseMeta()(c)
	handler.Get(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tenant-1", svc.lastQuery.TenantID)
	assert.Equal(t, "dine-in", svc.lastQuery.ChannelID)
	assert.Equal(t, "Asia/Singapore", svc.lastQuery.Timezone)
	assert.Equal(t, 3, svc.lastQuery.Quantity)
	assert.False(t, svc.lastQuery.WithPrices)
	require.NotNil(t, svc.lastQuery.At)
	assert.True(t, svc.lastQuery.At.Equal(time.Date(2024, time.March, 8, 12, 0, 0, 0, time.UTC)))

	var body struct {
		Data map[string]interface{} `json:"data"`
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body.Data["restricted"])
	assert.Equal(t, true, body.Meta["cache_hit"])
}

func TestMenuHandlerGetRejectsBadInput(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewMenuHandler(&menuServiceMock{})

	c, w := newGinContext(http.MethodGet, "/menu?at=yesterday", nil)
	handler.Get(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newGinContext(http.MethodGet, "/menu?quantity=two", nil)
	handler.Get(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMenuHandlerGetPropagatesNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewMenuHandler(&menuServiceMock{evalErr: appErrors.Clone(appErrors.ErrNotFound, "channel not found")})

	c, w := newGinContext(http.MethodGet, "/menu?channelId=drive-thru", nil)
	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMenuHandlerPreviewPrice(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &menuServiceMock{}
	handler := NewMenuHandler(svc)

	c, w := newGinContext(http.MethodPost, "/items/burger/price-preview", []byte(`{"quantity":4,"tz":"UTC"}`))
	c.Params = gin.Params{{Key: "id", Value: "burger"}}
	handler.PreviewPrice(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, svc.lastPreview.Quantity)
	assert.Contains(t, w.Body.String(), `"menu_item_id":"burger"`)

	c, w = newGinContext(http.MethodPost, "/items/burger/price-preview", nil)
	c.Params = gin.Params{{Key: "id", Value: "burger"}}
	handler.PreviewPrice(c)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMenuHandlerGetAcceptsUnescapedOffset(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &menuServiceMock{}
	handler := NewMenuHandler(svc)

	c, w := newGinContext(http.MethodGet, "/menu?at=2024-03-08T20:00:00+08:00", nil)
	handler.Get(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.lastQuery.At)
	assert.True(t, svc.lastQuery.At.Equal(time.Date(2024, time.March, 8, 12, 0, 0, 0, time.UTC)))
}
