package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/resto-menu-api/pkg/errors"
)

type cachedPayload struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func TestMemoryCacheRepositoryRoundTripAndExpiry(t *testing.T) {
	now := time.Date(2024, time.March, 8, 12, 0, 0, 0, time.UTC)
	repo := NewMemoryCacheRepository(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "snapshot:t1", cachedPayload{Name: "Burger", Price: 12}, time.Minute))

	var got cachedPayload
	require.NoError(t, repo.Get(ctx, "snapshot:t1", &got))
	assert.Equal(t, "Burger", got.Name)

	now = now.Add(time.Minute)
	err := repo.Get(ctx, "snapshot:t1", &got)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)
	assert.Equal(t, 0, repo.Len())
}

func TestMemoryCacheRepositoryDeleteByPattern(t *testing.T) {
	repo := NewMemoryCacheRepository(nil)
	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, "snapshot:t1", cachedPayload{}, 0))
	require.NoError(t, repo.Set(ctx, "snapshot:t2", cachedPayload{}, 0))
	require.NoError(t, repo.Set(ctx, "other", cachedPayload{}, 0))

	require.NoError(t, repo.DeleteByPattern(ctx, "snapshot:*"))
	assert.Equal(t, 1, repo.Len())

	require.NoError(t, repo.Delete(ctx, "other"))
	assert.Equal(t, 0, repo.Len())
}
