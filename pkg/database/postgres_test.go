package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/resto-menu-api/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5432, User: "menu", Password: "pw", Name: "resto", SSLMode: "disable"})
	assert.Equal(t, "host=db port=5432 user=menu password=pw dbname=resto sslmode=disable", dsn)
}

func TestPing(t *testing.T) {
	raw, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer raw.Close()
	db := sqlx.NewDb(raw, "postgres")
	Configure(db, config.DatabaseConfig{MaxOpenConns: 4, MaxIdleConns: 2})

	mock.ExpectPing()
	require.NoError(t, Ping(context.Background(), db))

	mock.ExpectPing().WillReturnError(errors.New("down"))
	assert.Error(t, Ping(context.Background(), db))
	assert.Equal(t, 4, db.Stats().MaxOpenConnections)
	require.NoError(t, mock.ExpectationsWereMet())
}
