// Package pricing computes the effective price of a menu item from its pricing
// rules. Exactly one rule, the highest-priority matching one, is applied.
package pricing

import (
	"errors"
	"math"

	"go.uber.org/zap"

	"github.com/noah-isme/resto-menu-api/internal/models"
	"github.com/noah-isme/resto-menu-api/internal/timewindow"
)

// ErrInvalidRule marks a rule or sub-rule that cannot be evaluated.
var ErrInvalidRule = errors.New("pricing rule has no applicable price or discount")

// Context is the evaluation context for a single item.
type Context struct {
	Instant  timewindow.Instant
	Quantity int
}

// Result is the outcome of an evaluation. A negative Discount is a surcharge.
type Result struct {
	Price       float64             `json:"price"`
	Discount    float64             `json:"discount"`
	AppliedRule *models.PricingRule `json:"applied_rule,omitempty"`
}

// Evaluator evaluates pricing rules. It holds no per-call state.
type Evaluator struct {
	policy    timewindow.DayPolicy
	logger    *zap.Logger
	onSkipped func(kind string)
}

// Option customises an Evaluator.
type Option func(*Evaluator)

// WithSkipHook registers a callback invoked for every skipped malformed rule.
func WithSkipHook(fn func(kind string)) Option {
	return func(e *Evaluator) { e.onSkipped = fn }
}

// NewEvaluator builds an Evaluator.
func NewEvaluator(policy timewindow.DayPolicy, logger *zap.Logger, opts ...Option) *Evaluator {
	if policy == "" {
		policy = timewindow.DayPolicyStartDay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Evaluator{policy: policy, logger: logger}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// adjustment is the action of a matched sub-rule. Exactly one field is set.
type adjustment struct {
	price      *float64
	percentage *float64
	fixed      *float64
}

// EffectivePrice selects the highest-priority active matching rule (ties keep
// list order) and applies it to basePrice.
func (e *Evaluator) EffectivePrice(basePrice float64, rules []models.PricingRule, ctx Context) Result {
	if ctx.Quantity < 1 {
		ctx.Quantity = 1
	}
	var (
		winner    *models.PricingRule
		winnerAdj adjustment
	)
	for i := range rules {
		rule := &rules[i]
		if !rule.IsActive {
			continue
		}
		if winner != nil && rule.Priority <= winner.Priority {
			continue
		}
		adj, ok := e.match(rule, ctx)
		if !ok {
			continue
		}
		winner = rule
		winnerAdj = adj
	}
	if winner == nil {
		return Result{Price: round(basePrice), Discount: 0}
	}
	applied := *winner
	price, discount := apply(basePrice, winnerAdj)
	return Result{Price: price, Discount: discount, AppliedRule: &applied}
}

// Matches reports whether an active rule applies to the context.
func (e *Evaluator) Matches(rule models.PricingRule, ctx Context) bool {
	if !rule.IsActive {
		return false
	}
	if ctx.Quantity < 1 {
		ctx.Quantity = 1
	}
	_, ok := e.match(&rule, ctx)
	return ok
}

func (e *Evaluator) match(rule *models.PricingRule, ctx Context) (adjustment, bool) {
	switch rule.Type {
	case models.PricingRuleTimeBased:
		for i, tr := range rule.TimeRules {
			adj, err := priceOrPercentage(tr.Price, tr.DiscountPercentage)
			if err != nil {
				e.skip(rule, i, err)
				continue
			}
			ok, err := timewindow.Window{Start: tr.StartTime, End: tr.EndTime, Days: tr.Days}.Match(ctx.Instant, e.policy)
			if err != nil {
				e.skip(rule, i, err)
				continue
			}
			if ok {
				return adj, true
			}
		}
	case models.PricingRuleDayOfWeek:
		for i, dr := range rule.DayOfWeekRules {
			adj, err := priceOrPercentage(dr.Price, dr.DiscountPercentage)
			if err != nil {
				e.skip(rule, i, err)
				continue
			}
			if dr.Day == ctx.Instant.Weekday {
				return adj, true
			}
		}
	case models.PricingRuleQuantityBased:
		for i, qr := range rule.QuantityRules {
			adj, err := percentageOrFixed(qr.DiscountPercentage, qr.FixedDiscount)
			if err != nil {
				e.skip(rule, i, err)
				continue
			}
			if qr.MinQuantity <= ctx.Quantity && (qr.MaxQuantity == nil || ctx.Quantity <= *qr.MaxQuantity) {
				return adj, true
			}
		}
	case models.PricingRulePercentageDiscount:
		if rule.Value == nil || *rule.Value < 0 {
			e.skip(rule, -1, ErrInvalidRule)
			return adjustment{}, false
		}
		return adjustment{percentage: rule.Value}, true
	case models.PricingRuleFixedDiscount:
		if rule.Value == nil || *rule.Value < 0 {
			e.skip(rule, -1, ErrInvalidRule)
			return adjustment{}, false
		}
		return adjustment{fixed: rule.Value}, true
	default:
		e.skip(rule, -1, ErrInvalidRule)
	}
	return adjustment{}, false
}

func priceOrPercentage(price, percentage *float64) (adjustment, error) {
	switch {
	case price != nil && *price >= 0:
		return adjustment{price: price}, nil
	case percentage != nil && *percentage >= 0:
		return adjustment{percentage: percentage}, nil
	}
	return adjustment{}, ErrInvalidRule
}

func percentageOrFixed(percentage, fixed *float64) (adjustment, error) {
	switch {
	case percentage != nil && *percentage >= 0:
		return adjustment{percentage: percentage}, nil
	case fixed != nil && *fixed >= 0:
		return adjustment{fixed: fixed}, nil
	}
	return adjustment{}, ErrInvalidRule
}

func apply(base float64, adj adjustment) (price, discount float64) {
	switch {
	case adj.price != nil:
		price = *adj.price
		discount = base - price
	case adj.percentage != nil:
		discount = base * (*adj.percentage / 100)
		price = base - discount
	case adj.fixed != nil:
		discount = math.Min(*adj.fixed, base)
		price = base - discount
	default:
		return round(base), 0
	}
	if price < 0 {
		price = 0
		discount = base
	}
	return round(price), round(discount)
}

func (e *Evaluator) skip(rule *models.PricingRule, index int, err error) {
	e.logger.Warn("skipping malformed pricing rule",
		zap.String("rule_id", rule.ID),
		zap.String("type", string(rule.Type)),
		zap.Int("index", index),
		zap.Error(err),
	)
	if e.onSkipped != nil {
		e.onSkipped("pricing_rule")
	}
}

func round(v float64) float64 {
	return math.Round(v*100) / 100
}
