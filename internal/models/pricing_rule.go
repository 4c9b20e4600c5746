package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// PricingRuleType enumerates supported pricing rule conditions.
type PricingRuleType string

const (
	PricingRuleTimeBased          PricingRuleType = "time_based"
	PricingRuleDayOfWeek          PricingRuleType = "day_of_week"
	PricingRuleQuantityBased      PricingRuleType = "quantity_based"
	PricingRulePercentageDiscount PricingRuleType = "percentage_discount"
	PricingRuleFixedDiscount      PricingRuleType = "fixed_discount"
)

// Valid reports whether t is a known rule type.
func (t PricingRuleType) Valid() bool {
	switch t {
	case PricingRuleTimeBased, PricingRuleDayOfWeek, PricingRuleQuantityBased, PricingRulePercentageDiscount, PricingRuleFixedDiscount:
		return true
	}
	return false
}

// TimeRule overrides the price inside a weekday window.
type TimeRule struct {
	StartTime          string   `json:"startTime"`
	EndTime            string   `json:"endTime"`
	Price              *float64 `json:"price,omitempty"`
	DiscountPercentage *float64 `json:"discountPercentage,omitempty"`
	Days               []int    `json:"days"`
}

// DayOfWeekRule overrides the price on a weekday (0 = Sunday).
type DayOfWeekRule struct {
	Day                int      `json:"day"`
	Price              *float64 `json:"price,omitempty"`
	DiscountPercentage *float64 `json:"discountPercentage,omitempty"`
}

// QuantityRule discounts orders within a quantity band. A nil MaxQuantity is unbounded.
type QuantityRule struct {
	MinQuantity        int      `json:"minQuantity"`
	MaxQuantity        *int     `json:"maxQuantity,omitempty"`
	DiscountPercentage *float64 `json:"discountPercentage,omitempty"`
	FixedDiscount      *float64 `json:"fixedDiscount,omitempty"`
}

// PricingRule is a per-item typed price override.
type PricingRule struct {
	ID             string          `json:"id"`
	TenantID       string          `json:"tenant_id"`
	MenuItem       Ref[MenuItem]   `json:"menuItem"`
	Name           string          `json:"name"`
	Type           PricingRuleType `json:"type"`
	Priority       int             `json:"priority"`
	IsActive       bool            `json:"isActive"`
	TimeRules      []TimeRule      `json:"timeRules,omitempty"`
	DayOfWeekRules []DayOfWeekRule `json:"dayOfWeekRules,omitempty"`
	QuantityRules  []QuantityRule  `json:"quantityRules,omitempty"`
	Value          *float64        `json:"value,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// PricingRuleRow is the persisted form of PricingRule.
type PricingRuleRow struct {
	ID         string          `db:"id"`
	TenantID   string          `db:"tenant_id"`
	MenuItemID string          `db:"menu_item_id"`
	Name       string          `db:"name"`
	Type       PricingRuleType `db:"type"`
	Priority   int             `db:"priority"`
	IsActive   bool            `db:"is_active"`
	Conditions types.JSONText  `db:"conditions"`
	Value      *float64        `db:"value"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
}

// PricingRuleConditions is the JSONB payload of the type-specific sub-rules.
type PricingRuleConditions struct {
	TimeRules      []TimeRule      `json:"timeRules,omitempty"`
	DayOfWeekRules []DayOfWeekRule `json:"dayOfWeekRules,omitempty"`
	QuantityRules  []QuantityRule  `json:"quantityRules,omitempty"`
}
