package search

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dmitrijs2005/interntrack/internal/client/repositories/kv"
	"github.com/dmitrijs2005/interntrack/internal/logging"
	"github.com/dmitrijs2005/interntrack/internal/models"
)

// CacheKey is the single kv key the last search is stored under.
const CacheKey = "internshipSearchCache"

// Cache keeps the last search of this client instance. It never fails:
// write errors are logged and unreadable entries are treated as absent.
type Cache struct {
	store kv.Store
	log   logging.Logger
	now   func() time.Time
}

func NewCache(store kv.Store, log logging.Logger) *Cache {
	return &Cache{store: store, log: log.With("module", "search.cache"), now: time.Now}
}

// Save stores entry stamped with the current time.
func (c *Cache) Save(ctx context.Context, entry models.SearchCacheEntry) {
	entry.Timestamp = c.now()
	raw, err := json.Marshal(entry)
	if err != nil {
		c.log.Warn(ctx, "encode search cache", "error", err)
		return
	}
	if err := c.store.Set(ctx, CacheKey, raw); err != nil {
		c.log.Warn(ctx, "save search cache", "error", err)
	}
}

// Load returns the stored entry, or nil when there is none or it is corrupt.
func (c *Cache) Load(ctx context.Context) *models.SearchCacheEntry {
	raw, err := c.store.Get(ctx, CacheKey)
	if err != nil {
		c.log.Warn(ctx, "load search cache", "error", err)
		return nil
	}
	if raw == nil {
		return nil
	}
	var e models.SearchCacheEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		c.log.Debug(ctx, "discarding corrupt search cache", "error", err)
		return nil
	}
	return &e
}

func (c *Cache) Clear(ctx context.Context) {
	if err := c.store.Delete(ctx, CacheKey); err != nil {
		c.log.Warn(ctx, "clear search cache", "error", err)
	}
}

// Restore returns the cached entry only if it belongs to userID.
func (c *Cache) Restore(ctx context.Context, userID string) *models.SearchCacheEntry {
	if userID == "" {
		return nil
	}
	e := c.Load(ctx)
	if e == nil || e.OwnerUserID != userID {
		return nil
	}
	return e
}
