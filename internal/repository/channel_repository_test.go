package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/resto-menu-api/internal/models"
)

var channelRowColumns = []string{"id", "tenant_id", "name", "type", "is_active", "operating_hours", "created_at", "updated_at"}

func TestChannelRepositoryListDecodesHours(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewChannelRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + channelColumns + " FROM channels WHERE tenant_id = $1 ORDER BY name ASC")).
		WithArgs("tenant-1").
		WillReturnRows(sqlmock.NewRows(channelRowColumns).
			AddRow("bar", "tenant-1", "Bar", "dine-in", true, `[{"day":5,"open":"22:00","close":"02:00","isClosed":false}]`, now, now).
			AddRow("web", "tenant-1", "Web", "online", true, nil, now, now))

	channels, err := repo.List(context.Background(), "tenant-1")
	require.NoError(t, err)
	require.Len(t, channels, 2)
	assert.Equal(t, models.ChannelDineIn, channels[0].Type)
	require.Len(t, channels[0].OperatingHours, 1)
	assert.Equal(t, "02:00", channels[0].OperatingHours[0].Close)
	assert.Empty(t, channels[1].OperatingHours)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChannelRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewChannelRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM channels WHERE tenant_id = $1 AND id = $2")).
		WithArgs("tenant-1", "nope").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "tenant-1", "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChannelRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewChannelRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO channels")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	channel := &models.Channel{TenantID: "tenant-1", Name: "Web", Type: models.ChannelOnline, IsActive: true}
	require.NoError(t, repo.Create(context.Background(), channel))
	assert.NotEmpty(t, channel.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
