package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// ChannelType enumerates ordering contexts.
type ChannelType string

const (
	ChannelDineIn   ChannelType = "dine-in"
	ChannelTakeaway ChannelType = "takeaway"
	ChannelDelivery ChannelType = "delivery"
	ChannelOnline   ChannelType = "online"
)

// DayHours is the opening window for one weekday. Close before Open crosses midnight.
type DayHours struct {
	Day      int    `json:"day" validate:"min=0,max=6"`
	Open     string `json:"open"`
	Close    string `json:"close"`
	IsClosed bool   `json:"isClosed"`
}

// Channel is an ordering context with its own operating hours.
type Channel struct {
	ID             string      `json:"id"`
	TenantID       string      `json:"tenant_id"`
	Name           string      `json:"name"`
	Type           ChannelType `json:"type"`
	IsActive       bool        `json:"isActive"`
	OperatingHours []DayHours  `json:"operatingHours"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// ChannelRow is the persisted form of Channel.
type ChannelRow struct {
	ID             string         `db:"id"`
	TenantID       string         `db:"tenant_id"`
	Name           string         `db:"name"`
	Type           ChannelType    `db:"type"`
	IsActive       bool           `db:"is_active"`
	OperatingHours types.JSONText `db:"operating_hours"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

// ChannelStatus is the evaluated open/closed state of a channel.
type ChannelStatus struct {
	ChannelID string    `json:"channel_id"`
	IsActive  bool      `json:"is_active"`
	IsOpen    bool      `json:"is_open"`
	At        time.Time `json:"at"`
}
