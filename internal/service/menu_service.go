package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/resto-menu-api/internal/menu"
	"github.com/noah-isme/resto-menu-api/internal/models"
	"github.com/noah-isme/resto-menu-api/internal/pricing"
	"github.com/noah-isme/resto-menu-api/internal/timewindow"
	appErrors "github.com/noah-isme/resto-menu-api/pkg/errors"
)

type snapshotCatalogReader interface {
	ListCategories(ctx context.Context, tenantID string) ([]models.Category, error)
	ListModifierGroups(ctx context.Context, tenantID string) ([]models.ModifierGroup, error)
	ListAllItems(ctx context.Context, tenantID string) ([]models.MenuItem, error)
}

type snapshotScheduleReader interface {
	ListByTenant(ctx context.Context, tenantID string) ([]models.MenuSchedule, error)
}

type snapshotChannelReader interface {
	List(ctx context.Context, tenantID string) ([]models.Channel, error)
}

type snapshotRuleReader interface {
	ListByTenant(ctx context.Context, tenantID string) (map[string][]models.PricingRule, error)
}

// SnapshotSources are the readers a tenant snapshot is assembled from.
type SnapshotSources struct {
	Catalog   snapshotCatalogReader
	Schedules snapshotScheduleReader
	Channels  snapshotChannelReader
	Rules     snapshotRuleReader
}

// MenuQuery selects what to evaluate.
type MenuQuery struct {
	TenantID   string
	ChannelID  string
	At         *time.Time
	Timezone   string
	Quantity   int
	WithPrices bool
}

// MenuResponse is an evaluated menu with its evaluation context.
type MenuResponse struct {
	menu.Menu
	ChannelID   string    `json:"channel_id,omitempty"`
	EvaluatedAt time.Time `json:"evaluated_at"`
	Timezone    string    `json:"timezone"`
	CacheHit    bool      `json:"-"`
}

// PricePreviewRequest evaluates stored or draft rules of one item.
type PricePreviewRequest struct {
	At       *time.Time           `json:"at"`
	Timezone string               `json:"tz"`
	Quantity int                  `json:"quantity"`
	Rules    []models.PricingRule `json:"rules"`
}

// PricePreviewResponse is the evaluated price of one item.
type PricePreviewResponse struct {
	MenuItemID string `json:"menu_item_id"`
	menu.PricePreview
	AppliedRule   *models.PricingRule `json:"applied_rule,omitempty"`
	MatchingRules []string            `json:"matching_rules"`
	EvaluatedAt   time.Time           `json:"evaluated_at"`
}

// MenuService evaluates menus and prices against tenant snapshots.
type MenuService struct {
	sources  SnapshotSources
	builder  *menu.Builder
	cache    *CacheService
	metrics  *MetricsService
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewMenuService creates a menu service. cache may be nil.
func NewMenuService(sources SnapshotSources, builder *menu.Builder, cache *CacheService, metrics *MetricsService, loc *time.Location, logger *zap.Logger) *MenuService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &MenuService{
		sources:  sources,
		builder:  builder,
		cache:    cache,
		metrics:  metrics,
		location: loc,
		logger:   logger,
		now:      time.Now,
	}
}

// Snapshot returns the tenant snapshot, from cache when possible. The bool
// reports a cache hit.
func (s *MenuService) Snapshot(ctx context.Context, tenantID string) (*menu.Snapshot, bool, error) {
	key := SnapshotKey(tenantID)
	var cached menu.Snapshot
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, true, nil
	}

	start := time.Now()
	snapshot, err := s.load(ctx, tenantID)
	s.metrics.ObserveDBQuery("snapshot", time.Since(start))
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load menu snapshot")
	}
	_ = s.cache.Set(ctx, key, snapshot, 0)
	return snapshot, false, nil
}

func (s *MenuService) load(ctx context.Context, tenantID string) (*menu.Snapshot, error) {
	categories, err := s.sources.Catalog.ListCategories(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	groups, err := s.sources.Catalog.ListModifierGroups(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	items, err := s.sources.Catalog.ListAllItems(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	schedules, err := s.sources.Schedules.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	channels, err := s.sources.Channels.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	rules, err := s.sources.Rules.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return &menu.Snapshot{
		TenantID:  tenantID,
		Catalog:   models.Catalog{Items: items, Categories: categories, ModifierGroups: groups},
		Schedules: schedules,
		Channels:  channels,
		Rules:     rules,
		LoadedAt:  s.now().UTC(),
	}, nil
}

// Evaluate builds the menu visible for the query.
func (s *MenuService) Evaluate(ctx context.Context, q MenuQuery) (*MenuResponse, error) {
	if q.Quantity < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "quantity must not be negative")
	}
	when, loc, err := resolveInstant(q.At, q.Timezone, s.location, s.now)
	if err != nil {
		return nil, err
	}
	snapshot, hit, err := s.Snapshot(ctx, q.TenantID)
	if err != nil {
		return nil, err
	}
	if q.ChannelID != "" {
		if _, ok := snapshot.Channel(q.ChannelID); !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "channel not found")
		}
	}

	instant := timewindow.InstantOf(when, loc)
	result := s.builder.Build(snapshot.Input(q.ChannelID, instant, q.Quantity, q.WithPrices))
	s.metrics.RecordMenuEvaluation()
	s.logger.Debug("menu evaluated",
		zap.String("tenant_id", q.TenantID),
		zap.String("channel_id", q.ChannelID),
		zap.Int("active_slots", len(result.ActiveSlots)),
		zap.Int("items", len(result.Items)))

	return &MenuResponse{
		Menu:        result,
		ChannelID:   q.ChannelID,
		EvaluatedAt: when.In(loc),
		Timezone:    loc.String(),
		CacheHit:    hit,
	}, nil
}

// PreviewPrice evaluates the price of an item. Draft rules in the request
// replace the stored ones.
func (s *MenuService) PreviewPrice(ctx context.Context, tenantID, itemID string, req PricePreviewRequest) (*PricePreviewResponse, error) {
	if req.Quantity < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "quantity must not be negative")
	}
	when, loc, err := resolveInstant(req.At, req.Timezone, s.location, s.now)
	if err != nil {
		return nil, err
	}
	snapshot, _, err := s.Snapshot(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	item, ok := snapshot.Item(itemID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "menu item not found")
	}

	rules := snapshot.Rules[itemID]
	if req.Rules != nil {
		rules = req.Rules
	}
	pctx := pricing.Context{Instant: timewindow.InstantOf(when, loc), Quantity: req.Quantity}
	preview, applied := s.builder.PriceWithRule(item, rules, pctx)

	resp := &PricePreviewResponse{
		MenuItemID:    item.ID,
		PricePreview:  preview,
		AppliedRule:   applied,
		MatchingRules: []string{},
		EvaluatedAt:   when.In(loc),
	}
	for i := range rules {
		if s.builder.Evaluator().Matches(rules[i], pctx) {
			resp.MatchingRules = append(resp.MatchingRules, rules[i].ID)
		}
	}
	s.metrics.RecordPriceEvaluation()
	return resp, nil
}
