package search

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/interntrack/internal/client/repositories/kv"
	"github.com/dmitrijs2005/interntrack/internal/logging"
	"github.com/dmitrijs2005/interntrack/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{ kv.Store }

func (failingStore) Set(context.Context, string, []byte) error { return errors.New("quota exceeded") }

func (failingStore) Get(context.Context, string) ([]byte, error) { return nil, errors.New("io") }

func TestCache_SaveLoad(t *testing.T) {
	c := NewCache(kv.NewMemoryStore(), logging.Nop())
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	assert.Nil(t, c.Load(ctx))

	c.Save(ctx, models.SearchCacheEntry{
		SearchInput: "go",
		Results:     []models.Internship{{ID: "i1", Title: "Go Intern"}},
		CurrentPage: 2,
		OwnerUserID: "u1",
	})

	got := c.Load(ctx)
	require.NotNil(t, got)
	assert.Equal(t, "go", got.SearchInput)
	assert.Equal(t, 2, got.CurrentPage)
	assert.True(t, now.Equal(got.Timestamp))
	require.Len(t, got.Results, 1)
}

func TestCache_CorruptIsMiss(t *testing.T) {
	store := kv.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), CacheKey, []byte("{broken")))

	c := NewCache(store, logging.Nop())
	assert.Nil(t, c.Load(context.Background()))
}

func TestCache_StoreErrorsAreSwallowed(t *testing.T) {
	c := NewCache(failingStore{}, logging.Nop())
	c.Save(context.Background(), models.SearchCacheEntry{OwnerUserID: "u1"})
	assert.Nil(t, c.Load(context.Background()))
}

func TestCache_IsolationAcrossUsers(t *testing.T) {
	c := NewCache(kv.NewMemoryStore(), logging.Nop())
	ctx := context.Background()

	c.Save(ctx, models.SearchCacheEntry{SearchInput: "go", OwnerUserID: "userA"})
	require.NotNil(t, c.Restore(ctx, "userA"))
	assert.Nil(t, c.Restore(ctx, "userB"))

	c.Clear(ctx)
	assert.Nil(t, c.Restore(ctx, "userA"))
	assert.Nil(t, c.Restore(ctx, "userB"))
	assert.Nil(t, c.Restore(ctx, ""))
}

func TestCache_SQLiteBacked(t *testing.T) {
	ctx := context.Background()
	db, err := kv.OpenSQLite(ctx, filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	c := NewCache(kv.NewSQLiteStore(db), logging.Nop())
	c.Save(ctx, models.SearchCacheEntry{SearchInput: "rust", OwnerUserID: "u1"})
	got := c.Restore(ctx, "u1")
	require.NotNil(t, got)
	assert.Equal(t, "rust", got.SearchInput)
}
