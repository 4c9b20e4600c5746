package pricing

import (
	"fmt"

	"github.com/noah-isme/resto-menu-api/internal/models"
	"github.com/noah-isme/resto-menu-api/internal/timewindow"
)

// Validate reports the first reason rule could not be evaluated. Writes are
// rejected with it; evaluation skips the same records instead.
func Validate(rule models.PricingRule) error {
	switch rule.Type {
	case models.PricingRuleTimeBased:
		if len(rule.TimeRules) == 0 {
			return fmt.Errorf("timeRules: %w", ErrInvalidRule)
		}
		for i, tr := range rule.TimeRules {
			if _, err := priceOrPercentage(tr.Price, tr.DiscountPercentage); err != nil {
				return fmt.Errorf("timeRules[%d]: %w", i, err)
			}
			if err := (timewindow.Window{Start: tr.StartTime, End: tr.EndTime, Days: tr.Days}).Validate(); err != nil {
				return fmt.Errorf("timeRules[%d]: %w", i, err)
			}
		}
	case models.PricingRuleDayOfWeek:
		if len(rule.DayOfWeekRules) == 0 {
			return fmt.Errorf("dayOfWeekRules: %w", ErrInvalidRule)
		}
		for i, dr := range rule.DayOfWeekRules {
			if dr.Day < 0 || dr.Day > 6 {
				return fmt.Errorf("dayOfWeekRules[%d]: day %d out of range", i, dr.Day)
			}
			if _, err := priceOrPercentage(dr.Price, dr.DiscountPercentage); err != nil {
				return fmt.Errorf("dayOfWeekRules[%d]: %w", i, err)
			}
		}
	case models.PricingRuleQuantityBased:
		if len(rule.QuantityRules) == 0 {
			return fmt.Errorf("quantityRules: %w", ErrInvalidRule)
		}
		for i, qr := range rule.QuantityRules {
			if qr.MinQuantity < 0 || (qr.MaxQuantity != nil && *qr.MaxQuantity < qr.MinQuantity) {
				return fmt.Errorf("quantityRules[%d]: invalid quantity band", i)
			}
			if _, err := percentageOrFixed(qr.DiscountPercentage, qr.FixedDiscount); err != nil {
				return fmt.Errorf("quantityRules[%d]: %w", i, err)
			}
		}
	case models.PricingRulePercentageDiscount:
		if rule.Value == nil || *rule.Value < 0 || *rule.Value > 100 {
			return fmt.Errorf("value: percentage must be between 0 and 100")
		}
	case models.PricingRuleFixedDiscount:
		if rule.Value == nil || *rule.Value < 0 {
			return fmt.Errorf("value: %w", ErrInvalidRule)
		}
	default:
		return fmt.Errorf("unknown rule type %q", rule.Type)
	}
	return nil
}
