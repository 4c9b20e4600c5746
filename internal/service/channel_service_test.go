package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/resto-menu-api/internal/models"
	"github.com/noah-isme/resto-menu-api/internal/timewindow"
	appErrors "github.com/noah-isme/resto-menu-api/pkg/errors"
)

type mockChannelRepo struct {
	channels map[string]models.Channel
}

func (m *mockChannelRepo) List(ctx context.Context, tenantID string) ([]models.Channel, error) {
	var out []models.Channel
	for _, ch := range m.channels {
		out = append(out, ch)
	}
	return out, nil
}

func (m *mockChannelRepo) FindByID(ctx context.Context, tenantID, id string) (*models.Channel, error) {
	if ch, ok := m.channels[id]; ok {
		return &ch, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockChannelRepo) Create(ctx context.Context, channel *models.Channel) error {
	if m.channels == nil {
		m.channels = make(map[string]models.Channel)
	}
	channel.ID = "ch-new"
	m.channels[channel.ID] = *channel
	return nil
}

func (m *mockChannelRepo) Update(ctx context.Context, channel *models.Channel) error {
	m.channels[channel.ID] = *channel
	return nil
}

func (m *mockChannelRepo) Delete(ctx context.Context, tenantID, id string) error {
	delete(m.channels, id)
	return nil
}

// Friday 22:00 until Saturday 02:00.
func lateNightChannel() models.Channel {
	return models.Channel{
		ID: "bar", TenantID: "tenant-1", Type: models.ChannelDineIn, IsActive: true,
		OperatingHours: []models.DayHours{{Day: 5, Open: "22:00", Close: "02:00"}},
	}
}

func TestChannelServiceStatusMidnightPolicies(t *testing.T) {
	repo := &mockChannelRepo{channels: map[string]models.Channel{"bar": lateNightChannel()}}
	// 2024-03-09 is a Saturday.
	at := time.Date(2024, time.March, 9, 1, 0, 0, 0, time.UTC)

	startDay := NewChannelService(repo, nil, timewindow.DayPolicyStartDay, time.UTC, nil, nil)
	status, err := startDay.Status(context.Background(), "tenant-1", "bar", &at, "")
	require.NoError(t, err)
	assert.True(t, status.IsOpen)

	currentDay := NewChannelService(repo, nil, timewindow.DayPolicyCurrentDay, time.UTC, nil, nil)
	status, err = currentDay.Status(context.Background(), "tenant-1", "bar", &at, "")
	require.NoError(t, err)
	assert.False(t, status.IsOpen)
}

func TestChannelServiceStatusInactiveIsClosed(t *testing.T) {
	ch := lateNightChannel()
	ch.IsActive = false
	repo := &mockChannelRepo{channels: map[string]models.Channel{"bar": ch}}
	svc := NewChannelService(repo, nil, timewindow.DayPolicyStartDay, time.UTC, nil, nil)
	at := time.Date(2024, time.March, 8, 23, 0, 0, 0, time.UTC)

	status, err := svc.Status(context.Background(), "tenant-1", "bar", &at, "")
	require.NoError(t, err)
	assert.False(t, status.IsActive)
	assert.False(t, status.IsOpen)
}

func TestChannelServiceCreateValidatesHours(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := NewChannelService(&mockChannelRepo{}, notifier, timewindow.DayPolicyStartDay, nil, nil, nil)

	_, err := svc.Create(context.Background(), "tenant-1", ChannelRequest{
		Name: "Bar", Type: models.ChannelDineIn,
		OperatingHours: []models.DayHours{{Day: 5, Open: "late", Close: "02:00"}},
	})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = svc.Create(context.Background(), "tenant-1", ChannelRequest{Name: "Drone", Type: "air"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	channel, err := svc.Create(context.Background(), "tenant-1", ChannelRequest{
		Name: "Bar", Type: models.ChannelDineIn,
		OperatingHours: []models.DayHours{{Day: 6, IsClosed: true}, {Day: 5, Open: "22:00", Close: "02:00"}},
	})
	require.NoError(t, err)
	assert.True(t, channel.IsActive)
	assert.Equal(t, []models.EventType{models.EventChannelChanged}, notifier.events)
}

func TestChannelServiceGetNotFound(t *testing.T) {
	svc := NewChannelService(&mockChannelRepo{}, nil, timewindow.DayPolicyStartDay, nil, nil, nil)

	_, err := svc.Get(context.Background(), "tenant-1", "nope")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}
