package csvsource

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fairyhunter13/candidate-matcher/internal/adapter/observability"
	"github.com/fairyhunter13/candidate-matcher/internal/domain"
)

// Cache is a lazy TTL cache over a Loader. Within the TTL window all callers
// share one immutable catalog snapshot; a stale entry is rebuilt synchronously
// on the next access. Refresh is guarded so concurrent expiry triggers a
// single reload.
type Cache struct {
	loader Loader
	ttl    time.Duration
	now    func() time.Time

	mu         sync.RWMutex
	catalog    domain.JobCatalog
	loadedAt   time.Time
	snapshotID string
}

// NewCache wraps the loader; ttl <= 0 falls back to 5 minutes.
func NewCache(loader Loader, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{loader: loader, ttl: ttl, now: time.Now}
}

// Catalog returns the cached snapshot, rebuilding it first when absent or
// expired. It never fails: a load error is logged and degraded to an empty
// catalog so matching proceeds with zero results.
func (c *Cache) Catalog(_ domain.Context) domain.JobCatalog {
	c.mu.RLock()
	if c.fresh() {
		snapshot := c.catalog
		c.mu.RUnlock()
		return snapshot
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fresh() {
		return c.catalog
	}
	c.reload()
	return c.catalog
}

// SnapshotID identifies the current snapshot in logs; empty before the first
// load.
func (c *Cache) SnapshotID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotID
}

// fresh reports whether the entry exists and is within the TTL. Callers hold
// at least the read lock.
func (c *Cache) fresh() bool {
	return !c.loadedAt.IsZero() && c.now().Sub(c.loadedAt) <= c.ttl
}

// reload rebuilds the snapshot. Callers hold the write lock. The load
// timestamp advances even on failure so a broken source is retried once per
// TTL window rather than on every request.
func (c *Cache) reload() {
	catalog, err := c.loader.Load()
	c.loadedAt = c.now()
	c.snapshotID = uuid.NewString()
	if err != nil {
		slog.Error("catalog load failed; serving empty catalog",
			slog.Any("error", err),
			slog.String("path", c.loader.Path),
			slog.String("snapshot_id", c.snapshotID))
		observability.ObserveCatalogReload("error", 0)
		c.catalog = domain.JobCatalog{}
		return
	}
	slog.Info("catalog reloaded",
		slog.Int("jobs", len(catalog)),
		slog.String("snapshot_id", c.snapshotID))
	observability.ObserveCatalogReload("ok", len(catalog))
	c.catalog = catalog
}
