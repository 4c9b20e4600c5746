// Package menu combines schedule resolution and pricing evaluation with the
// catalog into a render-ready menu.
package menu

import (
	"math"

	"github.com/noah-isme/resto-menu-api/internal/models"
	"github.com/noah-isme/resto-menu-api/internal/pricing"
	"github.com/noah-isme/resto-menu-api/internal/resolver"
	"github.com/noah-isme/resto-menu-api/internal/timewindow"
)

// DefaultUpcomingMinutes applies when a schedule enables upcoming items without a window.
const DefaultUpcomingMinutes = 30

// Input is a fully-formed snapshot plus the evaluation context.
type Input struct {
	Catalog   models.Catalog
	Schedules []models.MenuSchedule
	// Rules maps menu item IDs to their pricing rules.
	Rules     map[string][]models.PricingRule
	Channel   *models.Channel
	ChannelID string
	Instant   timewindow.Instant
	Quantity  int
	// WithPrices merges pricing evaluation into every entry.
	WithPrices bool
}

// PricePreview is the evaluated price of one item.
type PricePreview struct {
	BasePrice     float64 `json:"base_price"`
	Price         float64 `json:"price"`
	Discount      float64 `json:"discount"`
	AppliedRuleID string  `json:"applied_rule_id,omitempty"`
	Margin        float64 `json:"margin"`
}

// Entry is a visible menu item.
type Entry struct {
	Item    models.MenuItem `json:"item"`
	Pricing *PricePreview   `json:"pricing,omitempty"`
}

// Menu is the aggregation result.
type Menu struct {
	Restricted     bool                     `json:"restricted"`
	ChannelOpen    bool                     `json:"channel_open"`
	ActiveSlots    []resolver.Slot          `json:"active_slots"`
	UpcomingSlots  []resolver.Slot          `json:"upcoming_slots,omitempty"`
	Settings       *models.ScheduleSettings `json:"settings,omitempty"`
	Items          []Entry                  `json:"items"`
	Upcoming       []Entry                  `json:"upcoming_items,omitempty"`
	Categories     []models.Category        `json:"categories"`
	ModifierGroups []models.ModifierGroup   `json:"modifier_groups"`
}

// Builder wires the resolver and evaluator used for aggregation.
type Builder struct {
	resolver        *resolver.Resolver
	evaluator       *pricing.Evaluator
	upcomingDefault int
}

// BuilderOption customises a Builder.
type BuilderOption func(*Builder)

// WithUpcomingDefault overrides DefaultUpcomingMinutes.
func WithUpcomingDefault(minutes int) BuilderOption {
	return func(b *Builder) {
		if minutes > 0 {
			b.upcomingDefault = minutes
		}
	}
}

// NewBuilder constructs a Builder.
func NewBuilder(r *resolver.Resolver, e *pricing.Evaluator, opts ...BuilderOption) *Builder {
	b := &Builder{resolver: r, evaluator: e, upcomingDefault: DefaultUpcomingMinutes}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Resolver exposes the schedule resolver.
func (b *Builder) Resolver() *resolver.Resolver { return b.resolver }

// Evaluator exposes the pricing evaluator.
func (b *Builder) Evaluator() *pricing.Evaluator { return b.evaluator }

// Build evaluates the snapshot. With no active slot the catalog is returned
// unrestricted unless the governing settings hide unavailable items.
func (b *Builder) Build(in Input) Menu {
	active := b.resolver.ActiveSlots(in.Schedules, in.Instant, in.ChannelID)
	settings := b.resolver.Governing(in.Schedules, active, in.ChannelID)
	hide := settings != nil && settings.HideUnavailableItems

	out := Menu{
		ActiveSlots: active,
		Settings:    settings,
		ChannelOpen: true,
	}
	if out.ActiveSlots == nil {
		out.ActiveSlots = []resolver.Slot{}
	}
	if in.Channel != nil {
		out.ChannelOpen = ChannelOpen(*in.Channel, in.Instant, b.resolver.Policy())
	}

	var visible resolver.VisibleSet
	switch {
	case len(active) > 0:
		out.Restricted = true
		visible = resolver.ResolveVisibleSet(active)
	case hide:
		out.Restricted = true
		visible = resolver.ResolveVisibleSet(nil)
	}

	items, categories, groups := b.filter(in, visible, out.Restricted)
	out.Items = items
	out.Categories = categories
	out.ModifierGroups = groups

	if settings != nil && settings.ShowUpcomingItems {
		within := settings.UpcomingItemsMinutes
		if within <= 0 {
			within = b.upcomingDefault
		}
		out.UpcomingSlots = b.resolver.UpcomingSlots(in.Schedules, in.Instant, in.ChannelID, within)
		if len(out.UpcomingSlots) > 0 {
			out.Upcoming = b.upcoming(in, resolver.ResolveVisibleSet(out.UpcomingSlots), visible, out.Restricted)
		}
	}
	return out
}

func (b *Builder) filter(in Input, visible resolver.VisibleSet, restricted bool) ([]Entry, []models.Category, []models.ModifierGroup) {
	entries := make([]Entry, 0, len(in.Catalog.Items))
	usedCategories := map[string]struct{}{}
	usedGroups := map[string]struct{}{}
	for _, item := range in.Catalog.Items {
		slug := in.Catalog.CategorySlug(item)
		if restricted && !visible.HasItem(item.ID) && !visible.HasCategory(slug) {
			continue
		}
		entries = append(entries, b.entry(in, item))
		usedCategories[slug] = struct{}{}
		for _, g := range item.ModifierGroups {
			usedGroups[g] = struct{}{}
		}
	}

	categories := make([]models.Category, 0, len(in.Catalog.Categories))
	for _, cat := range in.Catalog.Categories {
		_, used := usedCategories[cat.Slug]
		if restricted && !used && !visible.HasCategory(cat.Slug) {
			continue
		}
		categories = append(categories, cat)
	}

	groups := make([]models.ModifierGroup, 0, len(in.Catalog.ModifierGroups))
	for _, g := range in.Catalog.ModifierGroups {
		_, used := usedGroups[g.ID]
		if restricted && !used && !visible.HasModifierGroup(g.ID) {
			continue
		}
		groups = append(groups, g)
	}
	return entries, categories, groups
}

func (b *Builder) upcoming(in Input, upcoming, current resolver.VisibleSet, restricted bool) []Entry {
	var entries []Entry
	for _, item := range in.Catalog.Items {
		slug := in.Catalog.CategorySlug(item)
		if !upcoming.HasItem(item.ID) && !upcoming.HasCategory(slug) {
			continue
		}
		if !restricted || current.HasItem(item.ID) || current.HasCategory(slug) {
			continue
		}
		entries = append(entries, b.entry(in, item))
	}
	return entries
}

func (b *Builder) entry(in Input, item models.MenuItem) Entry {
	entry := Entry{Item: item}
	if !in.WithPrices {
		return entry
	}
	preview := b.Price(item, in.Rules[item.ID], pricing.Context{Instant: in.Instant, Quantity: in.Quantity})
	entry.Pricing = &preview
	return entry
}

// Price evaluates one item against its rules.
func (b *Builder) Price(item models.MenuItem, rules []models.PricingRule, ctx pricing.Context) PricePreview {
	preview, _ := b.PriceWithRule(item, rules, ctx)
	return preview
}

// PriceWithRule is Price plus a copy of the applied rule, nil when none matched.
func (b *Builder) PriceWithRule(item models.MenuItem, rules []models.PricingRule, ctx pricing.Context) (PricePreview, *models.PricingRule) {
	res := b.evaluator.EffectivePrice(item.Price, rules, ctx)
	preview := PricePreview{
		BasePrice: item.Price,
		Price:     res.Price,
		Discount:  res.Discount,
		Margin:    math.Round((res.Price-item.Cost)*100) / 100,
	}
	if res.AppliedRule != nil {
		preview.AppliedRuleID = res.AppliedRule.ID
	}
	return preview, res.AppliedRule
}

// ChannelOpen reports whether an active channel is open at the instant. A
// channel without operating hours is always open.
func ChannelOpen(ch models.Channel, at timewindow.Instant, policy timewindow.DayPolicy) bool {
	if !ch.IsActive {
		return false
	}
	if len(ch.OperatingHours) == 0 {
		return true
	}
	for _, h := range ch.OperatingHours {
		if h.IsClosed {
			continue
		}
		w := timewindow.Window{Start: h.Open, End: h.Close, Days: []int{h.Day}}
		ok, err := w.Match(at, policy)
		if err != nil {
			continue
		}
		if ok {
			return true
		}
	}
	return false
}
