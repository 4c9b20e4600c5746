package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/resto-menu-api/internal/models"
	"github.com/noah-isme/resto-menu-api/internal/service"
	"github.com/noah-isme/resto-menu-api/pkg/response"
)

type channelService interface {
	List(ctx context.Context, tenantID string) ([]models.Channel, error)
	Get(ctx context.Context, tenantID, id string) (*models.Channel, error)
	Create(ctx context.Context, tenantID string, req service.ChannelRequest) (*models.Channel, error)
	Update(ctx context.Context, tenantID, id string, req service.ChannelRequest) (*models.Channel, error)
	Delete(ctx context.Context, tenantID, id string) error
	Status(ctx context.Context, tenantID, id string, at *time.Time, tz string) (*models.ChannelStatus, error)
}

// ChannelHandler manages ordering channel endpoints.
type ChannelHandler struct {
	service channelService
}

// NewChannelHandler constructs handler.
func NewChannelHandler(svc channelService) *ChannelHandler {
	return &ChannelHandler{service: svc}
}

// List godoc
// @Summary List channels
// @Tags Channels
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /channels [get]
func (h *ChannelHandler) List(c *gin.Context) {
	channels, err := h.service.List(c.Request.Context(), tenantFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, channels, nil)
}

// Get godoc
// @Summary Get channel
// @Tags Channels
// @Produce json
// @Param id path string true "Channel ID"
// @Success 200 {object} response.Envelope
// @Router /channels/{id} [get]
func (h *ChannelHandler) Get(c *gin.Context) {
	channel, err := h.service.Get(c.Request.Context(), tenantFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, channel, nil)
}

// Create godoc
// @Summary Create channel
// @Tags Channels
// @Accept json
// @Produce json
// @Param payload body service.ChannelRequest true "Channel payload"
// @Success 201 {object} response.Envelope
// @Router /channels [post]
func (h *ChannelHandler) Create(c *gin.Context) {
	var req service.ChannelRequest
	if !bindJSON(c, &req) {
		return
	}
	channel, err := h.service.Create(c.Request.Context(), tenantFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, channel)
}

// Update godoc
// @Summary Update channel
// @Tags Channels
// @Accept json
// @Produce json
// @Param id path string true "Channel ID"
// @Param payload body service.ChannelRequest true "Channel payload"
// @Success 200 {object} response.Envelope
// @Router /channels/{id} [put]
func (h *ChannelHandler) Update(c *gin.Context) {
	var req service.ChannelRequest
	if !bindJSON(c, &req) {
		return
	}
	channel, err := h.service.Update(c.Request.Context(), tenantFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, channel, nil)
}

// Delete godoc
// @Summary Delete channel
// @Tags Channels
// @Param id path string true "Channel ID"
// @Success 204
// @Router /channels/{id} [delete]
func (h *ChannelHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), tenantFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Status godoc
// @Summary Channel open/closed status
// @Tags Channels
// @Produce json
// @Param id path string true "Channel ID"
// @Param at query string false "RFC3339 instant, defaults to now"
// @Param tz query string false "IANA timezone"
// @Success 200 {object} response.Envelope
// @Router /channels/{id}/status [get]
func (h *ChannelHandler) Status(c *gin.Context) {
	at, err := queryTime(c, "at")
	if err != nil {
		response.Error(c, err)
		return
	}
	status, err := h.service.Status(c.Request.Context(), tenantFromContext(c), c.Param("id"), at, c.Query("tz"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}
