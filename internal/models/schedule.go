package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// ScheduleType selects which slot list of a MenuSchedule is evaluated.
type ScheduleType string

const (
	ScheduleTypeTimeBased ScheduleType = "time-based"
	ScheduleTypeDateBased ScheduleType = "date-based"
	// ScheduleTypeRecurring evaluates time slots like ScheduleTypeTimeBased.
	ScheduleTypeRecurring ScheduleType = "recurring"
)

// UsesTimeSlots reports whether the type is driven by recurring time slots.
func (t ScheduleType) UsesTimeSlots() bool {
	return t == ScheduleTypeTimeBased || t == ScheduleTypeRecurring
}

// TimeSlot is a recurring weekday window exposing catalog entries.
type TimeSlot struct {
	Name           string   `json:"name"`
	StartTime      string   `json:"startTime" validate:"required"`
	EndTime        string   `json:"endTime" validate:"required"`
	DaysOfWeek     []int    `json:"daysOfWeek" validate:"dive,min=0,max=6"`
	MenuItems      []string `json:"menuItems"`
	Categories     []string `json:"categories"`
	ModifierGroups []string `json:"modifierGroups"`
}

// DateSlot exposes catalog entries over an inclusive calendar date range.
type DateSlot struct {
	Name           string   `json:"name"`
	StartDate      string   `json:"startDate" validate:"required"`
	EndDate        string   `json:"endDate" validate:"required"`
	MenuItems      []string `json:"menuItems"`
	Categories     []string `json:"categories"`
	ModifierGroups []string `json:"modifierGroups"`
}

// ScheduleSettings are resolver behaviour flags.
type ScheduleSettings struct {
	AutoSwitch           bool `json:"autoSwitch"`
	ShowUpcomingItems    bool `json:"showUpcomingItems"`
	UpcomingItemsMinutes int  `json:"upcomingItemsMinutes"`
	HideUnavailableItems bool `json:"hideUnavailableItems"`
}

// MenuSchedule is a prioritised collection of slots scoped to channels.
type MenuSchedule struct {
	ID                 string           `json:"id"`
	TenantID           string           `json:"tenant_id"`
	Name               string           `json:"name"`
	Description        string           `json:"description,omitempty"`
	IsActive           bool             `json:"isActive"`
	ScheduleType       ScheduleType     `json:"scheduleType"`
	TimeSlots          []TimeSlot       `json:"timeSlots"`
	DateSlots          []DateSlot       `json:"dateSlots"`
	Priority           int              `json:"priority"`
	ApplicableChannels []string         `json:"applicableChannels"`
	Settings           ScheduleSettings `json:"settings"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// AppliesToChannel reports whether the schedule is scoped to channelID. An
// empty channel list applies everywhere; an empty channelID matches any schedule.
func (s MenuSchedule) AppliesToChannel(channelID string) bool {
	if len(s.ApplicableChannels) == 0 || channelID == "" {
		return true
	}
	for _, id := range s.ApplicableChannels {
		if id == channelID {
			return true
		}
	}
	return false
}

// MenuScheduleRow is the persisted form of MenuSchedule with JSONB columns.
type MenuScheduleRow struct {
	ID                 string         `db:"id"`
	TenantID           string         `db:"tenant_id"`
	Name               string         `db:"name"`
	Description        string         `db:"description"`
	IsActive           bool           `db:"is_active"`
	ScheduleType       ScheduleType   `db:"schedule_type"`
	TimeSlots          types.JSONText `db:"time_slots"`
	DateSlots          types.JSONText `db:"date_slots"`
	Priority           int            `db:"priority"`
	ApplicableChannels types.JSONText `db:"applicable_channels"`
	Settings           types.JSONText `db:"settings"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

// ScheduleFilter describes query params for listing schedules.
type ScheduleFilter struct {
	TenantID     string
	ScheduleType ScheduleType
	Active       *bool
	ChannelID    string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}
