package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/resto-menu-api/internal/models"
	"github.com/noah-isme/resto-menu-api/internal/service"
	"github.com/noah-isme/resto-menu-api/pkg/response"
)

type pricingRuleService interface {
	ListByItem(ctx context.Context, tenantID, itemID string) ([]models.PricingRule, error)
	Get(ctx context.Context, tenantID, id string) (*models.PricingRule, error)
	Create(ctx context.Context, tenantID, itemID string, req service.PricingRuleRequest) (*models.PricingRule, error)
	Update(ctx context.Context, tenantID, id string, req service.PricingRuleRequest) (*models.PricingRule, error)
	SetActive(ctx context.Context, tenantID, id string, req service.SetActiveRequest) (*models.PricingRule, error)
	Delete(ctx context.Context, tenantID, id string) error
}

// PricingRuleHandler manages pricing rules of menu items.
type PricingRuleHandler struct {
	service pricingRuleService
}

// NewPricingRuleHandler constructs handler.
func NewPricingRuleHandler(svc pricingRuleService) *PricingRuleHandler {
	return &PricingRuleHandler{service: svc}
}

// ListByItem godoc
// @Summary List pricing rules of a menu item
// @Tags Pricing
// @Produce json
// @Param id path string true "Menu item ID"
// @Success 200 {object} response.Envelope
// @Router /items/{id}/pricing-rules [get]
func (h *PricingRuleHandler) ListByItem(c *gin.Context) {
	rules, err := h.service.ListByItem(c.Request.Context(), tenantFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rules, nil)
}

// Create godoc
// @Summary Create pricing rule
// @Tags Pricing
// @Accept json
// @Produce json
// @Param id path string true "Menu item ID"
// @Param payload body service.PricingRuleRequest true "Pricing rule payload"
// @Success 201 {object} response.Envelope
// @Router /items/{id}/pricing-rules [post]
func (h *PricingRuleHandler) Create(c *gin.Context) {
	var req service.PricingRuleRequest
	if !bindJSON(c, &req) {
		return
	}
	rule, err := h.service.Create(c.Request.Context(), tenantFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rule)
}

// Get godoc
// @Summary Get pricing rule
// @Tags Pricing
// @Produce json
// @Param id path string true "Pricing rule ID"
// @Success 200 {object} response.Envelope
// @Router /pricing-rules/{id} [get]
func (h *PricingRuleHandler) Get(c *gin.Context) {
	rule, err := h.service.Get(c.Request.Context(), tenantFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rule, nil)
}

// Update godoc
// @Summary Update pricing rule
// @Tags Pricing
// @Accept json
// @Produce json
// @Param id path string true "Pricing rule ID"
// @Param payload body service.PricingRuleRequest true "Pricing rule payload"
// @Success 200 {object} response.Envelope
// @Router /pricing-rules/{id} [put]
func (h *PricingRuleHandler) Update(c *gin.Context) {
	var req service.PricingRuleRequest
	if !bindJSON(c, &req) {
		return
	}
	rule, err := h.service.Update(c.Request.Context(), tenantFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rule, nil)
}

// SetActive godoc
// @Summary Activate or deactivate a pricing rule
// @Tags Pricing
// @Accept json
// @Produce json
// @Param id path string true "Pricing rule ID"
// @Param payload body service.SetActiveRequest true "Active flag"
// @Success 200 {object} response.Envelope
// @Router /pricing-rules/{id}/active [patch]
func (h *PricingRuleHandler) SetActive(c *gin.Context) {
	var req service.SetActiveRequest
	if !bindJSON(c, &req) {
		return
	}
	rule, err := h.service.SetActive(c.Request.Context(), tenantFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rule, nil)
}

// Delete godoc
// @Summary Delete pricing rule
// @Tags Pricing
// @Param id path string true "Pricing rule ID"
// @Success 204
// @Router /pricing-rules/{id} [delete]
func (h *PricingRuleHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), tenantFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
