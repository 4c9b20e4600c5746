package service

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/resto-menu-api/internal/menu"
	"github.com/noah-isme/resto-menu-api/internal/models"
	"github.com/noah-isme/resto-menu-api/internal/pricing"
	"github.com/noah-isme/resto-menu-api/internal/repository"
	"github.com/noah-isme/resto-menu-api/internal/resolver"
	"github.com/noah-isme/resto-menu-api/internal/timewindow"
	appErrors "github.com/noah-isme/resto-menu-api/pkg/errors"
)

type fakeSnapshotStore struct {
	categories []models.Category
	groups     []models.ModifierGroup
	items      []models.MenuItem
	schedules  []models.MenuSchedule
	channels   []models.Channel
	rules      map[string][]models.PricingRule
	loads      int
	err        error
}

func (f *fakeSnapshotStore) ListCategories(ctx context.Context, tenantID string) ([]models.Category, error) {
	f.loads++
	return f.categories, f.err
}

func (f *fakeSnapshotStore) ListModifierGroups(ctx context.Context, tenantID string) ([]models.ModifierGroup, error) {
	return f.groups, nil
}

func (f *fakeSnapshotStore) ListAllItems(ctx context.Context, tenantID string) ([]models.MenuItem, error) {
	return f.items, nil
}

func (f *fakeSnapshotStore) List(ctx context.Context, tenantID string) ([]models.Channel, error) {
	return f.channels, nil
}

type fakeScheduleReader struct{ store *fakeSnapshotStore }

func (r fakeScheduleReader) ListByTenant(ctx context.Context, tenantID string) ([]models.MenuSchedule, error) {
	return r.store.schedules, nil
}

type fakeRuleReader struct{ store *fakeSnapshotStore }

func (r fakeRuleReader) ListByTenant(ctx context.Context, tenantID string) (map[string][]models.PricingRule, error) {
	return r.store.rules, nil
}

func amount(v float64) *float64 { return &v }

func newMenuFixture(cacheEnabled bool) (*MenuService, *fakeSnapshotStore) {
	store := &fakeSnapshotStore{
		categories: []models.Category{
			{ID: "c-mains", Slug: "mains"},
			{ID: "c-drinks", Slug: "drinks"},
		},
		items: []models.MenuItem{
			{ID: "burger", Name: "Burger", Price: 20, Cost: 8, Category: models.RefByID[models.Category]("c-mains"), IsAvailable: true},
			{ID: "cola", Name: "Cola", Price: 3, Cost: 1, Category: models.RefByID[models.Category]("c-drinks"), IsAvailable: true},
		},
		schedules: []models.MenuSchedule{{
			ID: "lunch", IsActive: true, ScheduleType: models.ScheduleTypeTimeBased, Priority: 1,
			TimeSlots: []models.TimeSlot{{StartTime: "11:00", EndTime: "14:00", Categories: []string{"mains"}}},
		}},
		channels: []models.Channel{{ID: "dine-in", IsActive: true}},
		rules: map[string][]models.PricingRule{
			"burger": {
				{ID: "A", Type: models.PricingRulePercentageDiscount, Value: amount(10), Priority: 1, IsActive: true},
				{ID: "B", Type: models.PricingRuleFixedDiscount, Value: amount(5), Priority: 5, IsActive: true},
			},
		},
	}
	sources := SnapshotSources{Catalog: store, Schedules: fakeScheduleReader{store}, Channels: store, Rules: fakeRuleReader{store}}
	builder := menu.NewBuilder(
		resolver.New(timewindow.DayPolicyStartDay, nil),
		pricing.NewEvaluator(timewindow.DayPolicyStartDay, nil),
	)
	cache := NewCacheService(repository.NewMemoryCacheRepository(nil), nil, time.Minute, nil, cacheEnabled)
	svc := NewMenuService(sources, builder, cache, nil, time.UTC, nil)
	svc.now = func() time.Time { return time.Date(2024, time.March, 8, 12, 0, 0, 0, time.UTC) }
	return svc, store
}

func TestMenuServiceEvaluateRestrictsToActiveSlot(t *testing.T) {
	svc, _ := newMenuFixture(false)

	resp, err := svc.Evaluate(context.Background(), MenuQuery{TenantID: "tenant-1", WithPrices: true})
	require.NoError(t, err)
	assert.True(t, resp.Restricted)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "burger", resp.Items[0].Item.ID)
	require.NotNil(t, resp.Items[0].Pricing)
	assert.Equal(t, 15.0, resp.Items[0].Pricing.Price)
	assert.Equal(t, "B", resp.Items[0].Pricing.AppliedRuleID)
	assert.Equal(t, "UTC", resp.Timezone)
}

func TestMenuServiceEvaluateOutsideSlotShowsFullCatalog(t *testing.T) {
	svc, _ := newMenuFixture(false)
	at := time.Date(2024, time.March, 8, 18, 0, 0, 0, time.UTC)

	resp, err := svc.Evaluate(context.Background(), MenuQuery{TenantID: "tenant-1", At: &at})
	require.NoError(t, err)
	assert.False(t, resp.Restricted)
	assert.Len(t, resp.Items, 2)
}

func TestMenuServiceEvaluateHonoursTimezone(t *testing.T) {
	svc, _ := newMenuFixture(false)
	// 04:30 UTC is 12:30 in Singapore.
	at := time.Date(2024, time.March, 8, 4, 30, 0, 0, time.UTC)

	resp, err := svc.Evaluate(context.Background(), MenuQuery{TenantID: "tenant-1", At: &at, Timezone: "Asia/Singapore"})
	require.NoError(t, err)
	assert.True(t, resp.Restricted)
	assert.Equal(t, "Asia/Singapore", resp.Timezone)
}

func TestMenuServiceEvaluateValidation(t *testing.T) {
	svc, _ := newMenuFixture(false)

	_, err := svc.Evaluate(context.Background(), MenuQuery{TenantID: "tenant-1", Timezone: "Mars/Olympus"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = svc.Evaluate(context.Background(), MenuQuery{TenantID: "tenant-1", ChannelID: "drive-thru"})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	_, err = svc.Evaluate(context.Background(), MenuQuery{TenantID: "tenant-1", Quantity: -1})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestMenuServiceSnapshotIsCached(t *testing.T) {
	svc, store := newMenuFixture(true)
	ctx := context.Background()

	_, hit, err := svc.Snapshot(ctx, "tenant-1")
	require.NoError(t, err)
	assert.False(t, hit)

	snapshot, hit, err := svc.Snapshot(ctx, "tenant-1")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, store.loads)
	// References survive the cache round trip.
	item, ok := snapshot.Item("burger")
	require.True(t, ok)
	assert.Equal(t, "mains", snapshot.Catalog.CategorySlug(item))

	require.NoError(t, svc.cache.InvalidateTenant(ctx, "tenant-1"))
	_, hit, err = svc.Snapshot(ctx, "tenant-1")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, store.loads)
}

func TestMenuServiceSnapshotLoadError(t *testing.T) {
	svc, store := newMenuFixture(false)
	store.err = errors.New("db down")

	_, _, err := svc.Snapshot(context.Background(), "tenant-1")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))
}

func TestMenuServicePreviewPrice(t *testing.T) {
	svc, _ := newMenuFixture(false)

	resp, err := svc.PreviewPrice(context.Background(), "tenant-1", "burger", PricePreviewRequest{})
	require.NoError(t, err)
	assert.Equal(t, 20.0, resp.BasePrice)
	assert.Equal(t, 15.0, resp.Price)
	assert.Equal(t, 5.0, resp.Discount)
	assert.Equal(t, 7.0, resp.Margin)
	require.NotNil(t, resp.AppliedRule)
	assert.Equal(t, "B", resp.AppliedRule.ID)
	assert.ElementsMatch(t, []string{"A", "B"}, resp.MatchingRules)
}

func TestMenuServicePreviewPriceDraftRules(t *testing.T) {
	svc, _ := newMenuFixture(false)

	resp, err := svc.PreviewPrice(context.Background(), "tenant-1", "burger", PricePreviewRequest{
		Quantity: 4,
		Rules: []models.PricingRule{{
			Type: models.PricingRuleQuantityBased, IsActive: true,
			QuantityRules: []models.QuantityRule{{MinQuantity: 3, MaxQuantity: intPtr(5), DiscountPercentage: amount(25)}},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, 15.0, resp.Price)
	require.NotNil(t, resp.AppliedRule)
	assert.Equal(t, models.PricingRuleQuantityBased, resp.AppliedRule.Type)

	_, err = svc.PreviewPrice(context.Background(), "tenant-1", "pizza", PricePreviewRequest{})
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func intPtr(v int) *int { return &v }
