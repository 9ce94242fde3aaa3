// ABOUTME: Keyed read-through cache between the UI and the API client
// ABOUTME: Coalesces concurrent fetches and invalidates entries after mutations

package query

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/sloobman/ControlSystem/internal/api"
)

// Gateway is the slice of the API client the cache reads and writes through.
// Declared here so tests can substitute a fake backend.
type Gateway interface {
	ListDefects(ctx context.Context) ([]api.Defect, error)
	GetDefect(ctx context.Context, id string) (*api.Defect, error)
	CreateDefect(ctx context.Context, req api.CreateDefectRequest) (*api.Defect, error)
	UpdateDefect(ctx context.Context, id string, req api.UpdateDefectRequest) (*api.Defect, error)
	DeleteDefect(ctx context.Context, id string) error
	AddComment(ctx context.Context, id, content string) (*api.Defect, error)
	GetStats(ctx context.Context) (*api.DefectStats, error)
	ListUsers(ctx context.Context) ([]api.User, error)
}

// entry is one cached value. A stale entry keeps its value but is treated
// as a miss: the next read refetches rather than serving the stale copy.
type entry struct {
	value any
	fresh bool
}

// Cache mediates between views and the API gateway. Reads are served from
// cache when fresh, otherwise fetched; concurrent reads for the same key
// share a single fetch. Mutations go straight through and invalidate the
// entries they affect.
//
// Each key carries a generation counter, bumped on invalidation. A fetch
// records the generation it started under and only populates the cache if
// no invalidation happened while it was in flight, so a slow response can
// never overwrite data that a later mutation made stale.
type Cache struct {
	gw Gateway

	mu      sync.Mutex
	entries map[Key]*entry
	gens    map[Key]uint64
	group   singleflight.Group
}

// NewCache creates an empty cache reading through the given gateway.
func NewCache(gw Gateway) *Cache {
	return &Cache{
		gw:      gw,
		entries: make(map[Key]*entry),
		gens:    make(map[Key]uint64),
	}
}

// load is the read path: serve fresh entries from cache, coalesce everything
// else into one fetch per key.
func (c *Cache) load(ctx context.Context, key Key, fetch func(context.Context) (any, error)) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && e.fresh {
		c.mu.Unlock()
		slog.Debug("cache hit", "key", key.String())
		return e.value, nil
	}
	c.mu.Unlock()
	slog.Debug("cache miss", "key", key.String())

	v, err, shared := c.group.Do(key.String(), func() (any, error) {
		c.mu.Lock()
		gen := c.gens[key]
		c.mu.Unlock()

		val, err := fetch(ctx)
		if err != nil {
			// Entry stays non-fresh; the next read retries.
			return nil, err
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gens[key] == gen {
			c.entries[key] = &entry{value: val, fresh: true}
		} else {
			slog.Debug("dropping superseded fetch result", "key", key.String())
		}
		return val, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		slog.Debug("coalesced read", "key", key.String())
	}
	return v, nil
}

// Invalidate marks the given keys stale. It does not refetch; the next read
// of each key triggers a fresh fetch.
func (c *Cache) Invalidate(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		c.gens[key]++
		if e, ok := c.entries[key]; ok {
			e.fresh = false
		}
		slog.Debug("cache invalidate", "key", key.String())
	}
}

// Reset drops every entry and generation, e.g. on logout.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]*entry)
	c.gens = make(map[Key]uint64)
}

// Defects returns the defect collection, fetching it if not cached fresh.
func (c *Cache) Defects(ctx context.Context) ([]api.Defect, error) {
	v, err := c.load(ctx, DefectsKey(), func(ctx context.Context) (any, error) {
		return c.gw.ListDefects(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]api.Defect), nil
}

// Defect returns a single defect by id.
func (c *Cache) Defect(ctx context.Context, id string) (*api.Defect, error) {
	v, err := c.load(ctx, DefectKey(id), func(ctx context.Context) (any, error) {
		return c.gw.GetDefect(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return v.(*api.Defect), nil
}

// Stats returns aggregate defect statistics.
func (c *Cache) Stats(ctx context.Context) (*api.DefectStats, error) {
	v, err := c.load(ctx, StatsKey(), func(ctx context.Context) (any, error) {
		return c.gw.GetStats(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*api.DefectStats), nil
}

// Users returns the user directory.
func (c *Cache) Users(ctx context.Context) ([]api.User, error) {
	v, err := c.load(ctx, UsersKey(), func(ctx context.Context) (any, error) {
		return c.gw.ListUsers(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]api.User), nil
}

// CreateDefect creates a defect and invalidates the collection and stats.
func (c *Cache) CreateDefect(ctx context.Context, req api.CreateDefectRequest) (*api.Defect, error) {
	defect, err := c.gw.CreateDefect(ctx, req)
	if err != nil {
		return nil, err
	}
	c.Invalidate(DefectsKey(), StatsKey())
	return defect, nil
}

// UpdateDefect applies a partial update and invalidates the defect, the
// collection, and stats.
func (c *Cache) UpdateDefect(ctx context.Context, id string, req api.UpdateDefectRequest) (*api.Defect, error) {
	defect, err := c.gw.UpdateDefect(ctx, id, req)
	if err != nil {
		return nil, err
	}
	c.Invalidate(DefectKey(id), DefectsKey(), StatsKey())
	return defect, nil
}

// DeleteDefect deletes a defect and invalidates the defect, the collection,
// and stats.
func (c *Cache) DeleteDefect(ctx context.Context, id string) error {
	if err := c.gw.DeleteDefect(ctx, id); err != nil {
		return err
	}
	c.Invalidate(DefectKey(id), DefectsKey(), StatsKey())
	return nil
}

// AddComment appends a comment and invalidates the defect and the
// collection. Comments do not change the aggregate counts, so the stats
// entry is left alone.
func (c *Cache) AddComment(ctx context.Context, id, content string) (*api.Defect, error) {
	defect, err := c.gw.AddComment(ctx, id, content)
	if err != nil {
		return nil, err
	}
	c.Invalidate(DefectKey(id), DefectsKey())
	return defect, nil
}
