package menu

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/resto-menu-api/internal/models"
	"github.com/noah-isme/resto-menu-api/internal/pricing"
	"github.com/noah-isme/resto-menu-api/internal/resolver"
	"github.com/noah-isme/resto-menu-api/internal/timewindow"
)

// 2024-03-08 is a Friday.
func instant(day, hour, minute int) timewindow.Instant {
	return timewindow.InstantOf(time.Date(2024, time.March, day, hour, minute, 0, 0, time.UTC), time.UTC)
}

func newBuilder(policy timewindow.DayPolicy) *Builder {
	return NewBuilder(resolver.New(policy, nil), pricing.NewEvaluator(policy, nil))
}

func sampleCatalog() models.Catalog {
	return models.Catalog{
		Categories: []models.Category{
			{ID: "c-main", Slug: "mains"},
			{ID: "c-drink", Slug: "drinks"},
			{ID: "c-dessert", Slug: "desserts"},
		},
		ModifierGroups: []models.ModifierGroup{{ID: "g-size"}, {ID: "g-sauce"}, {ID: "g-topping"}},
		Items: []models.MenuItem{
			{ID: "1", Name: "Burger", CategoryID: "c-main", Price: 12, Cost: 4, ModifierGroups: []string{"g-sauce"}},
			{ID: "2", Name: "Salad", CategoryID: "c-main", Price: 9, Cost: 3},
			{ID: "3", Name: "Cola", CategoryID: "c-drink", Price: 3, Cost: 0.5, ModifierGroups: []string{"g-size"}},
			{ID: "4", Name: "Cake", CategoryID: "c-dessert", Price: 6, Cost: 2},
		},
	}
}

func schedule(id string, priority int, start, end string, items ...string) models.MenuSchedule {
	return models.MenuSchedule{
		ID:           id,
		IsActive:     true,
		ScheduleType: models.ScheduleTypeTimeBased,
		Priority:     priority,
		TimeSlots:    []models.TimeSlot{{StartTime: start, EndTime: end, MenuItems: items}},
	}
}

func entryIDs(entries []Entry) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.Item.ID)
	}
	return ids
}

func TestBuildNoScheduleReturnsFullCatalog(t *testing.T) {
	b := newBuilder(timewindow.DayPolicyStartDay)
	m := b.Build(Input{Catalog: sampleCatalog(), Instant: instant(8, 12, 0)})

	assert.False(t, m.Restricted)
	assert.ElementsMatch(t, []string{"1", "2", "3", "4"}, entryIDs(m.Items))
	assert.Len(t, m.Categories, 3)
	assert.Len(t, m.ModifierGroups, 3)
	assert.NotNil(t, m.ActiveSlots)
	assert.Nil(t, m.Settings)
}

func TestBuildInactiveWindowsLeaveCatalogUnrestricted(t *testing.T) {
	b := newBuilder(timewindow.DayPolicyStartDay)
	m := b.Build(Input{
		Catalog:   sampleCatalog(),
		Schedules: []models.MenuSchedule{schedule("dinner", 1, "18:00", "22:00", "1")},
		Instant:   instant(8, 12, 0),
	})
	assert.False(t, m.Restricted)
	assert.Len(t, m.Items, 4)
}

func TestBuildHideUnavailableWithoutActiveSlot(t *testing.T) {
	b := newBuilder(timewindow.DayPolicyStartDay)
	dinner := schedule("dinner", 1, "18:00", "22:00", "1")
	dinner.Settings.HideUnavailableItems = true

	m := b.Build(Input{Catalog: sampleCatalog(), Schedules: []models.MenuSchedule{dinner}, Instant: instant(8, 12, 0)})
	assert.True(t, m.Restricted)
	assert.Empty(t, m.Items)
	assert.Empty(t, m.Categories)
}

func TestBuildUnionOfActiveSlots(t *testing.T) {
	b := newBuilder(timewindow.DayPolicyStartDay)
	a := schedule("a", 1, "11:00", "15:00", "1", "2")
	c := schedule("b", 2, "11:00", "15:00", "2", "3")

	m := b.Build(Input{Catalog: sampleCatalog(), Schedules: []models.MenuSchedule{a, c}, Instant: instant(8, 12, 0)})
	assert.True(t, m.Restricted)
	assert.ElementsMatch(t, []string{"1", "2", "3"}, entryIDs(m.Items))
	require.Len(t, m.Categories, 2)
	assert.ElementsMatch(t, []string{"mains", "drinks"}, []string{m.Categories[0].Slug, m.Categories[1].Slug})
	assert.ElementsMatch(t, []string{"g-size", "g-sauce"}, []string{m.ModifierGroups[0].ID, m.ModifierGroups[1].ID})
}

func TestBuildCategorySlotExposesItems(t *testing.T) {
	b := newBuilder(timewindow.DayPolicyStartDay)
	desserts := models.MenuSchedule{
		ID:           "sweet",
		IsActive:     true,
		ScheduleType: models.ScheduleTypeTimeBased,
		TimeSlots: []models.TimeSlot{{
			StartTime:      "00:00",
			EndTime:        "23:59",
			Categories:     []string{"desserts"},
			ModifierGroups: []string{"g-topping"},
		}},
	}

	m := b.Build(Input{Catalog: sampleCatalog(), Schedules: []models.MenuSchedule{desserts}, Instant: instant(8, 12, 0)})
	assert.Equal(t, []string{"4"}, entryIDs(m.Items))
	require.Len(t, m.ModifierGroups, 1)
	assert.Equal(t, "g-topping", m.ModifierGroups[0].ID)
}

func TestBuildWithPrices(t *testing.T) {
	b := newBuilder(timewindow.DayPolicyStartDay)
	ten := 10.0
	m := b.Build(Input{
		Catalog: sampleCatalog(),
		Rules: map[string][]models.PricingRule{
			"1": {{ID: "r1", Type: models.PricingRulePercentageDiscount, Value: &ten, IsActive: true}},
		},
		Instant:    instant(8, 12, 0),
		WithPrices: true,
	})

	require.Len(t, m.Items, 4)
	burger := m.Items[0]
	require.NotNil(t, burger.Pricing)
	assert.Equal(t, 10.8, burger.Pricing.Price)
	assert.Equal(t, 1.2, burger.Pricing.Discount)
	assert.Equal(t, "r1", burger.Pricing.AppliedRuleID)
	assert.InDelta(t, 6.8, burger.Pricing.Margin, 0.0001)

	salad := m.Items[1]
	require.NotNil(t, salad.Pricing)
	assert.Equal(t, 9.0, salad.Pricing.Price)
	assert.Empty(t, salad.Pricing.AppliedRuleID)
}

func TestBuildUpcomingItems(t *testing.T) {
	b := newBuilder(timewindow.DayPolicyStartDay)
	lunch := schedule("lunch", 1, "11:00", "15:00", "1")
	lunch.Settings.ShowUpcomingItems = true
	lunch.Settings.UpcomingItemsMinutes = 60
	dinner := schedule("dinner", 0, "15:30", "22:00", "4")

	m := b.Build(Input{Catalog: sampleCatalog(), Schedules: []models.MenuSchedule{lunch, dinner}, Instant: instant(8, 14, 45)})
	assert.Equal(t, []string{"1"}, entryIDs(m.Items))
	require.Len(t, m.UpcomingSlots, 1)
	assert.Equal(t, 45, m.UpcomingSlots[0].StartsIn)
	assert.Equal(t, []string{"4"}, entryIDs(m.Upcoming))
}

func TestBuildChannelOpen(t *testing.T) {
	b := newBuilder(timewindow.DayPolicyStartDay)
	channel := &models.Channel{
		ID:       "bar",
		IsActive: true,
		OperatingHours: []models.DayHours{
			{Day: 5, Open: "18:00", Close: "02:00"},
			{Day: 6, IsClosed: true},
		},
	}

	m := b.Build(Input{Catalog: sampleCatalog(), Channel: channel, ChannelID: "bar", Instant: instant(9, 1, 0)})
	assert.True(t, m.ChannelOpen, "friday hours extend past midnight")

	legacy := newBuilder(timewindow.DayPolicyCurrentDay)
	m = legacy.Build(Input{Catalog: sampleCatalog(), Channel: channel, ChannelID: "bar", Instant: instant(9, 1, 0)})
	assert.False(t, m.ChannelOpen)

	channel.IsActive = false
	assert.False(t, ChannelOpen(*channel, instant(8, 20, 0), timewindow.DayPolicyStartDay))
	assert.True(t, ChannelOpen(models.Channel{IsActive: true}, instant(8, 20, 0), timewindow.DayPolicyStartDay))
}

func TestBuildIsDeterministic(t *testing.T) {
	b := newBuilder(timewindow.DayPolicyStartDay)
	in := Input{
		Catalog:    sampleCatalog(),
		Schedules:  []models.MenuSchedule{schedule("a", 1, "11:00", "15:00", "1", "3"), schedule("b", 1, "11:00", "15:00", "2")},
		Instant:    instant(8, 12, 0),
		WithPrices: true,
	}
	first := b.Build(in)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, b.Build(in))
	}
}
