package menu

import (
	"time"

	"github.com/noah-isme/resto-menu-api/internal/models"
	"github.com/noah-isme/resto-menu-api/internal/timewindow"
)

// Snapshot is everything evaluation needs for one tenant. It is the unit that
// gets cached and invalidated by change events.
type Snapshot struct {
	TenantID  string                          `json:"tenant_id"`
	Catalog   models.Catalog                  `json:"catalog"`
	Schedules []models.MenuSchedule           `json:"schedules"`
	Channels  []models.Channel                `json:"channels"`
	Rules     map[string][]models.PricingRule `json:"rules"`
	LoadedAt  time.Time                       `json:"loaded_at"`
}

// Channel returns the channel with the given ID.
func (s *Snapshot) Channel(id string) (*models.Channel, bool) {
	for i := range s.Channels {
		if s.Channels[i].ID == id {
			ch := s.Channels[i]
			return &ch, true
		}
	}
	return nil, false
}

// Item returns the menu item with the given ID.
func (s *Snapshot) Item(id string) (models.MenuItem, bool) {
	for _, item := range s.Catalog.Items {
		if item.ID == id {
			return item, true
		}
	}
	return models.MenuItem{}, false
}

// Input builds an aggregation input. A non-empty channelID that is unknown to
// the snapshot still scopes schedules but leaves the channel state open.
func (s *Snapshot) Input(channelID string, at timewindow.Instant, quantity int, withPrices bool) Input {
	in := Input{
		Catalog:    s.Catalog,
		Schedules:  s.Schedules,
		Rules:      s.Rules,
		ChannelID:  channelID,
		Instant:    at,
		Quantity:   quantity,
		WithPrices: withPrices,
	}
	if channelID != "" {
		if ch, ok := s.Channel(channelID); ok {
			in.Channel = ch
		}
	}
	return in
}
