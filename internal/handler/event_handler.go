package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/resto-menu-api/internal/models"
	"github.com/noah-isme/resto-menu-api/pkg/response"
)

type eventIngester interface {
	Ingest(ctx context.Context, event models.ChangeEvent) error
}

// EventHandler accepts change events from systems that cannot reach the broker.
type EventHandler struct {
	service eventIngester
}

// NewEventHandler constructs handler.
func NewEventHandler(svc eventIngester) *EventHandler {
	return &EventHandler{service: svc}
}

// Ingest godoc
// @Summary Ingest a change event
// @Description Queues invalidation of the tenant snapshot. The tenant of the event must match the caller.
// @Tags Events
// @Accept json
// @Produce json
// @Param payload body models.ChangeEvent true "Change event"
// @Success 202 {object} response.Envelope
// @Router /events [post]
func (h *EventHandler) Ingest(c *gin.Context) {
	var event models.ChangeEvent
	if !bindJSON(c, &event) {
		return
	}
	if tenant := tenantFromContext(c); tenant != "" {
		event.TenantID = tenant
	}
	if err := h.service.Ingest(c.Request.Context(), event); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, gin.H{"accepted": true}, nil)
}
