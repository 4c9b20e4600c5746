package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/resto-menu-api/internal/models"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name  string
		rule  models.PricingRule
		valid bool
	}{
		{"percentage", models.PricingRule{Type: models.PricingRulePercentageDiscount, Value: f(10)}, true},
		{"percentage over 100", models.PricingRule{Type: models.PricingRulePercentageDiscount, Value: f(120)}, false},
		{"fixed without value", models.PricingRule{Type: models.PricingRuleFixedDiscount}, false},
		{"time rule", models.PricingRule{Type: models.PricingRuleTimeBased,
			TimeRules: []models.TimeRule{{StartTime: "22:00", EndTime: "02:00", Price: f(8), Days: []int{5}}}}, true},
		{"time rule bad clock", models.PricingRule{Type: models.PricingRuleTimeBased,
			TimeRules: []models.TimeRule{{StartTime: "25:00", EndTime: "02:00", Price: f(8)}}}, false},
		{"time rule without action", models.PricingRule{Type: models.PricingRuleTimeBased,
			TimeRules: []models.TimeRule{{StartTime: "10:00", EndTime: "12:00"}}}, false},
		{"day out of range", models.PricingRule{Type: models.PricingRuleDayOfWeek,
			DayOfWeekRules: []models.DayOfWeekRule{{Day: 7, Price: f(5)}}}, false},
		{"quantity band", models.PricingRule{Type: models.PricingRuleQuantityBased,
			QuantityRules: []models.QuantityRule{{MinQuantity: 3, MaxQuantity: n(5), DiscountPercentage: f(10)}}}, true},
		{"inverted quantity band", models.PricingRule{Type: models.PricingRuleQuantityBased,
			QuantityRules: []models.QuantityRule{{MinQuantity: 5, MaxQuantity: n(3), FixedDiscount: f(1)}}}, false},
		{"unknown type", models.PricingRule{Type: "bogus"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.rule)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
