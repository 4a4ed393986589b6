package schema

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

var ErrDatasetNotConfigured = errors.New("dataset not configured: set a dataset ID in settings")

// Column describes one column of a warehouse table: name plus the
// warehouse-declared type, nothing else.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Set maps table name to its ordered column descriptors.
type Set map[string][]Column

// Lister walks a dataset and returns every table's columns. The walk
// reads table metadata only, never row data.
type Lister interface {
	ListTableSchemas(ctx context.Context, datasetID string) (Set, error)
}

// Cache holds the discovered dataset schema for the life of the process.
// It is populated lazily by Ensure or explicitly by Refresh, and cleared
// as a whole on credential changes. There is no TTL: only an explicit
// invalidation empties it.
type Cache struct {
	mu        sync.RWMutex
	tables    Set
	populated bool
	sf        singleflight.Group // deduplicate concurrent population walks
}

func NewCache() *Cache {
	return &Cache{}
}

// Snapshot returns the cached mapping, or nil when the cache has never
// been populated (or was invalidated). A dataset that was walked and
// holds no tables is an empty, non-nil mapping, not a miss.
func (c *Cache) Snapshot() Set {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.populated {
		return nil
	}
	return c.tables
}

// swap replaces the whole mapping and marks the cache populated. The
// stored mapping is never nil, so Snapshot's nil return stays reserved
// for the unpopulated state.
func (c *Cache) swap(fresh Set) Set {
	if fresh == nil {
		fresh = Set{}
	}
	c.mu.Lock()
	c.tables = fresh
	c.populated = true
	c.mu.Unlock()
	return fresh
}

// Ensure returns the cached mapping, walking the dataset only when the
// cache is unpopulated. Concurrent callers while unpopulated share a
// single walk. On a failed walk the cache is left exactly as it was.
func (c *Cache) Ensure(ctx context.Context, lister Lister, datasetID string) (Set, error) {
	if datasetID == "" {
		return nil, ErrDatasetNotConfigured
	}

	if s := c.Snapshot(); s != nil {
		log.Debug().Str("dataset", datasetID).Msg("schema cache hit")
		return s, nil
	}

	v, err, _ := c.sf.Do(datasetID, func() (interface{}, error) {
		// Double-check inside singleflight in case another goroutine
		// populated the cache while we waited to enter.
		if s := c.Snapshot(); s != nil {
			return s, nil
		}

		log.Debug().Str("dataset", datasetID).Msg("schema cache miss, walking dataset")
		fresh, err := lister.ListTableSchemas(ctx, datasetID)
		if err != nil {
			return nil, err
		}
		fresh = c.swap(fresh)

		log.Info().Str("dataset", datasetID).Int("tables", len(fresh)).Msg("schema cached")
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Set), nil
}

// Refresh walks the dataset unconditionally and swaps the whole mapping
// in on success, returning it with the sorted table names. On failure
// the previous mapping stays in place untouched.
func (c *Cache) Refresh(ctx context.Context, lister Lister, datasetID string) (Set, []string, error) {
	if datasetID == "" {
		return nil, nil, ErrDatasetNotConfigured
	}

	fresh, err := lister.ListTableSchemas(ctx, datasetID)
	if err != nil {
		return nil, nil, err
	}
	fresh = c.swap(fresh)

	names := make([]string, 0, len(fresh))
	for name := range fresh {
		names = append(names, name)
	}
	sort.Strings(names)

	log.Info().Str("dataset", datasetID).Int("tables", len(names)).Msg("schema refreshed")
	return fresh, names, nil
}

// Invalidate empties the cache. Invalidation is always all-or-nothing;
// there is no per-table eviction.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.tables = nil
	c.populated = false
	c.mu.Unlock()
}
