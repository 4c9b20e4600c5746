package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/resto-menu-api/internal/menu"
	"github.com/noah-isme/resto-menu-api/internal/middleware"
	"github.com/noah-isme/resto-menu-api/internal/service"
	appErrors "github.com/noah-isme/resto-menu-api/pkg/errors"
	"github.com/noah-isme/resto-menu-api/pkg/response"
)

type menuService interface {
	Evaluate(ctx context.Context, q service.MenuQuery) (*service.MenuResponse, error)
	PreviewPrice(ctx context.Context, tenantID, itemID string, req service.PricePreviewRequest) (*service.PricePreviewResponse, error)
	Snapshot(ctx context.Context, tenantID string) (*menu.Snapshot, bool, error)
}

// MenuHandler serves evaluated menus and price previews.
type MenuHandler struct {
	service menuService
}

// NewMenuHandler constructs handler.
func NewMenuHandler(svc menuService) *MenuHandler {
	return &MenuHandler{service: svc}
}

// Get godoc
// @Summary Evaluate the menu
// @Description Returns the items, categories and modifier groups visible at an instant, optionally priced.
// @Tags Menu
// @Produce json
// @Param channelId query string false "Channel ID"
// @Param at query string false "RFC3339 instant, defaults to now"
// @Param tz query string false "IANA timezone"
// @Param quantity query int false "Quantity used for quantity-based rules"
// @Param prices query bool false "Attach price previews"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /menu [get]
func (h *MenuHandler) Get(c *gin.Context) {
	at, err := queryTime(c, "at")
	if err != nil {
		response.Error(c, err)
		return
	}
	q := service.MenuQuery{
		TenantID:   tenantFromContext(c),
		ChannelID:  c.Query("channelId"),
		At:         at,
		Timezone:   c.Query("tz"),
		WithPrices: true,
	}
	if raw := strings.TrimSpace(c.Query("quantity")); raw != "" {
		qty, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "quantity must be an integer"))
			return
		}
		q.Quantity = qty
	}
	if prices := queryBool(c, "prices"); prices != nil {
		q.WithPrices = *prices
	}

	result, err := h.service.Evaluate(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, result.CacheHit)
	middleware.SetMeta(c, "restricted", result.Restricted)
	response.JSON(c, http.StatusOK, result, nil, middleware.ExtractMeta(c))
}

// Snapshot godoc
// @Summary Current tenant snapshot
// @Description The catalog, schedules, channels and pricing rules the menu is evaluated against.
// @Tags Menu
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /menu/snapshot [get]
func (h *MenuHandler) Snapshot(c *gin.Context) {
	snapshot, hit, err := h.service.Snapshot(c.Request.Context(), tenantFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, snapshot, nil, middleware.ExtractMeta(c))
}

// PreviewPrice godoc
// @Summary Preview the price of a menu item
// @Description Evaluates stored pricing rules, or the draft rules of the payload, at an instant.
// @Tags Pricing
// @Accept json
// @Produce json
// @Param id path string true "Menu item ID"
// @Param payload body service.PricePreviewRequest false "Evaluation context"
// @Success 200 {object} response.Envelope
// @Router /items/{id}/price-preview [post]
func (h *MenuHandler) PreviewPrice(c *gin.Context) {
	var req service.PricePreviewRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	result, err := h.service.PreviewPrice(c.Request.Context(), tenantFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
