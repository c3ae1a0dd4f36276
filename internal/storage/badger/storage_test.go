package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/newslens/internal/common"
	"github.com/ternarybob/newslens/internal/interfaces"
	"github.com/ternarybob/newslens/internal/models"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	manager, err := NewManager(&common.BadgerConfig{Path: t.TempDir()}, arbor.NewLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, manager.Close())
	})
	return manager
}

func TestCacheStorageRoundTrip(t *testing.T) {
	manager := newTestManager(t)
	store := manager.CacheStorage()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)

	require.NoError(t, store.Set(ctx, "k", "value"))

	value, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "value", value)

	// Overwrite is last-write-wins
	require.NoError(t, store.Set(ctx, "k", "updated"))
	value, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "updated", value)
}

func TestReportStorageSaveAndGet(t *testing.T) {
	manager := newTestManager(t)
	store := manager.ReportStorage()
	ctx := context.Background()

	report := &models.CompanyReport{
		Company: "Tesla Motors",
		Articles: []models.ArticleAnalysis{
			{Title: "Deliveries up", SentimentScore: 4.0, Sentiment: models.SentimentPositive},
		},
	}

	require.NoError(t, store.SaveReport(ctx, report))
	assert.Equal(t, "tesla_motors", report.Slug)
	assert.NotEmpty(t, report.ID)
	assert.False(t, report.CreatedAt.IsZero())

	loaded, err := store.GetReport(ctx, "tesla_motors")
	require.NoError(t, err)
	assert.Equal(t, "Tesla Motors", loaded.Company)
	require.Len(t, loaded.Articles, 1)
	assert.Equal(t, "Deliveries up", loaded.Articles[0].Title)
}

func TestReportStoragePreservesCreatedAt(t *testing.T) {
	manager := newTestManager(t)
	store := manager.ReportStorage()
	ctx := context.Background()

	first := &models.CompanyReport{Company: "Tesla"}
	require.NoError(t, store.SaveReport(ctx, first))
	created := first.CreatedAt

	second := &models.CompanyReport{Company: "Tesla", FinalSentiment: "Positive overall."}
	require.NoError(t, store.SaveReport(ctx, second))

	loaded, err := store.GetReport(ctx, "tesla")
	require.NoError(t, err)
	assert.Equal(t, created, loaded.CreatedAt)
	assert.Equal(t, "Positive overall.", loaded.FinalSentiment)
	assert.False(t, loaded.UpdatedAt.Before(created))
}

func TestReportStorageListAndDelete(t *testing.T) {
	manager := newTestManager(t)
	store := manager.ReportStorage()
	ctx := context.Background()

	require.NoError(t, store.SaveReport(ctx, &models.CompanyReport{Company: "Tesla"}))
	require.NoError(t, store.SaveReport(ctx, &models.CompanyReport{Company: "Apple Inc"}))

	slugs, err := store.ListSlugs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"tesla", "apple_inc"}, slugs)

	require.NoError(t, store.DeleteReport(ctx, "tesla"))
	_, err = store.GetReport(ctx, "tesla")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)

	err = store.DeleteReport(ctx, "tesla")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)
}
