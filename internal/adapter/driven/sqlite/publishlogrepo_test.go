package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/catalogsync/internal/domain/model"
)

func TestPublishLogRepo_AppendAndList(t *testing.T) {
	repo := NewPublishLogRepo(setupTestDB(t))
	ctx := context.Background()

	base := time.Date(2025, 10, 4, 15, 30, 0, 0, time.UTC)
	entries := []model.PublishLogEntry{
		{DatasetID: "weather-2024", Branch: "add/weather-2024-20251004-1530", PRNumber: 7, PRURL: "https://github.com/acme/catalog/pull/7", CreatedAt: base},
		{DatasetID: "air-quality", Branch: "add/air-quality-20251004-1600", PRNumber: 8, PRURL: "https://github.com/acme/catalog/pull/8", CreatedAt: base.Add(30 * time.Minute)},
		{DatasetID: "traffic", Branch: "add/traffic-20251004-1700", PRNumber: 9, PRURL: "https://github.com/acme/catalog/pull/9", CreatedAt: base.Add(90 * time.Minute)},
	}
	for _, e := range entries {
		require.NoError(t, repo.Append(ctx, e))
	}

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Newest first.
	assert.Equal(t, "traffic", got[0].DatasetID)
	assert.Equal(t, "air-quality", got[1].DatasetID)
	assert.Equal(t, "weather-2024", got[2].DatasetID)

	assert.Equal(t, 9, got[0].PRNumber)
	assert.Equal(t, "https://github.com/acme/catalog/pull/9", got[0].PRURL)
	assert.True(t, got[0].CreatedAt.Equal(base.Add(90*time.Minute)))
	assert.NotZero(t, got[0].ID)
}

func TestPublishLogRepo_ListEmpty(t *testing.T) {
	repo := NewPublishLogRepo(setupTestDB(t))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPublishLogRepo_ZeroTimeDefaultsToNow(t *testing.T) {
	repo := NewPublishLogRepo(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, model.PublishLogEntry{
		DatasetID: "weather-2024",
		Branch:    "add/weather-2024-20251004-1530",
		PRNumber:  7,
		PRURL:     "https://github.com/acme/catalog/pull/7",
	}))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.WithinDuration(t, time.Now().UTC(), got[0].CreatedAt, time.Minute)
}
