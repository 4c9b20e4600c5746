package models

import (
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx/types"
)

func marshalJSONText(v interface{}, empty string) (types.JSONText, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(data) == "null" {
		return types.JSONText(empty), nil
	}
	return types.JSONText(data), nil
}

func unmarshalJSONText(raw types.JSONText, dest interface{}) error {
	// NULL columns scan as "{}".
	switch string(raw) {
	case "", "null", "{}":
		return nil
	}
	return raw.Unmarshal(dest)
}

// ToRow encodes the slot lists and settings into JSONB columns.
func (s MenuSchedule) ToRow() (MenuScheduleRow, error) {
	timeSlots, err := marshalJSONText(s.TimeSlots, "[]")
	if err != nil {
		return MenuScheduleRow{}, fmt.Errorf("encode time slots: %w", err)
	}
	dateSlots, err := marshalJSONText(s.DateSlots, "[]")
	if err != nil {
		return MenuScheduleRow{}, fmt.Errorf("encode date slots: %w", err)
	}
	channels, err := marshalJSONText(s.ApplicableChannels, "[]")
	if err != nil {
		return MenuScheduleRow{}, fmt.Errorf("encode channels: %w", err)
	}
	settings, err := marshalJSONText(s.Settings, "{}")
	if err != nil {
		return MenuScheduleRow{}, fmt.Errorf("encode settings: %w", err)
	}
	return MenuScheduleRow{
		ID:                 s.ID,
		TenantID:           s.TenantID,
		Name:               s.Name,
		Description:        s.Description,
		IsActive:           s.IsActive,
		ScheduleType:       s.ScheduleType,
		TimeSlots:          timeSlots,
		DateSlots:          dateSlots,
		Priority:           s.Priority,
		ApplicableChannels: channels,
		Settings:           settings,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}, nil
}

// ToModel decodes the JSONB columns.
func (r MenuScheduleRow) ToModel() (MenuSchedule, error) {
	s := MenuSchedule{
		ID:           r.ID,
		TenantID:     r.TenantID,
		Name:         r.Name,
		Description:  r.Description,
		IsActive:     r.IsActive,
		ScheduleType: r.ScheduleType,
		Priority:     r.Priority,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if err := unmarshalJSONText(r.TimeSlots, &s.TimeSlots); err != nil {
		return s, fmt.Errorf("decode time slots of %s: %w", r.ID, err)
	}
	if err := unmarshalJSONText(r.DateSlots, &s.DateSlots); err != nil {
		return s, fmt.Errorf("decode date slots of %s: %w", r.ID, err)
	}
	if err := unmarshalJSONText(r.ApplicableChannels, &s.ApplicableChannels); err != nil {
		return s, fmt.Errorf("decode channels of %s: %w", r.ID, err)
	}
	if err := unmarshalJSONText(r.Settings, &s.Settings); err != nil {
		return s, fmt.Errorf("decode settings of %s: %w", r.ID, err)
	}
	return s, nil
}

// ToRow encodes operating hours into a JSONB column.
func (c Channel) ToRow() (ChannelRow, error) {
	hours, err := marshalJSONText(c.OperatingHours, "[]")
	if err != nil {
		return ChannelRow{}, fmt.Errorf("encode operating hours: %w", err)
	}
	return ChannelRow{
		ID:             c.ID,
		TenantID:       c.TenantID,
		Name:           c.Name,
		Type:           c.Type,
		IsActive:       c.IsActive,
		OperatingHours: hours,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}, nil
}

// ToModel decodes operating hours.
func (r ChannelRow) ToModel() (Channel, error) {
	c := Channel{
		ID:        r.ID,
		TenantID:  r.TenantID,
		Name:      r.Name,
		Type:      r.Type,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if err := unmarshalJSONText(r.OperatingHours, &c.OperatingHours); err != nil {
		return c, fmt.Errorf("decode operating hours of %s: %w", r.ID, err)
	}
	return c, nil
}

// ToRow folds the sub-rule lists into the conditions column.
func (p PricingRule) ToRow() (PricingRuleRow, error) {
	conditions, err := marshalJSONText(PricingRuleConditions{
		TimeRules:      p.TimeRules,
		DayOfWeekRules: p.DayOfWeekRules,
		QuantityRules:  p.QuantityRules,
	}, "{}")
	if err != nil {
		return PricingRuleRow{}, fmt.Errorf("encode conditions: %w", err)
	}
	return PricingRuleRow{
		ID:         p.ID,
		TenantID:   p.TenantID,
		MenuItemID: p.MenuItem.Identifier(),
		Name:       p.Name,
		Type:       p.Type,
		Priority:   p.Priority,
		IsActive:   p.IsActive,
		Conditions: conditions,
		Value:      p.Value,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}, nil
}

// ToModel expands the conditions column. The menu item stays an id reference.
func (r PricingRuleRow) ToModel() (PricingRule, error) {
	p := PricingRule{
		ID:        r.ID,
		TenantID:  r.TenantID,
		MenuItem:  RefByID[MenuItem](r.MenuItemID),
		Name:      r.Name,
		Type:      r.Type,
		Priority:  r.Priority,
		IsActive:  r.IsActive,
		Value:     r.Value,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	var cond PricingRuleConditions
	if err := unmarshalJSONText(r.Conditions, &cond); err != nil {
		return p, fmt.Errorf("decode conditions of %s: %w", r.ID, err)
	}
	p.TimeRules = cond.TimeRules
	p.DayOfWeekRules = cond.DayOfWeekRules
	p.QuantityRules = cond.QuantityRules
	return p, nil
}
