package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// EventType names a change notification on the real-time feed.
type EventType string

const (
	EventScheduleChanged    EventType = "schedule-changed"
	EventPricingRuleChanged EventType = "pricing-rule-changed"
	EventChannelChanged     EventType = "channel-changed"
	EventCatalogChanged     EventType = "catalog-changed"
)

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	switch t {
	case EventScheduleChanged, EventPricingRuleChanged, EventChannelChanged, EventCatalogChanged:
		return true
	}
	return false
}

// ChangeEvent tells consumers that tenant data changed and must be refetched.
type ChangeEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type" validate:"required"`
	TenantID   string    `json:"tenant_id" validate:"required"`
	EntityID   string    `json:"entity_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// TenantClaims are the claims read from a tenant bearer token.
type TenantClaims struct {
	TenantID string `json:"tenant_id"`
	jwt.RegisteredClaims
}
