// Package querycache caches query results by key. Reads go through Query;
// the only other writers are Patch, Restore and Invalidate, which the
// optimistic update flow uses in that order.
package querycache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ProNexus-Startup/ProjectHub/backend/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// ErrCancelled is what a fetch cancelled before anything was cached for its
// key resolves to. Query retries on it; Invalidate ignores it.
var ErrCancelled = errors.New("querycache: fetch cancelled")

// Loader fetches the current value of a key.
type Loader func(ctx context.Context) ([]byte, error)

// TasksKey names the task list of a project as seen by one user. Rows are
// filtered per caller by the backend, so lists are never shared between users.
func TasksKey(userID, projectID uuid.UUID) string {
	return "user:" + userID.String() + ":project:" + projectID.String() + ":tasks"
}

// Snapshot is the state of a key before a Patch.
type Snapshot struct {
	Entry   Entry
	Existed bool
}

type Cache struct {
	store  Store
	group  singleflight.Group
	maxAge time.Duration
	now    func() time.Time
	logger zerolog.Logger

	// mu serializes every write to the store and the fetch bookkeeping
	mu          sync.Mutex
	loaders     map[string]Loader
	generations map[string]uint64
	inflight    map[string]context.CancelFunc
	closed      bool

	background sync.WaitGroup
}

type Option func(*Cache)

// WithMaxAge makes entries older than d count as stale. Zero keeps them
// fresh until invalidated.
func WithMaxAge(d time.Duration) Option {
	return func(c *Cache) {
		c.maxAge = d
	}
}

func New(store Store, opts ...Option) *Cache {
	c := &Cache{
		store:       store,
		now:         time.Now,
		logger:      log.With().Str("component", "queryCache").Logger(),
		loaders:     map[string]Loader{},
		generations: map[string]uint64{},
		inflight:    map[string]context.CancelFunc{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) fresh(entry Entry) bool {
	if entry.Stale {
		return false
	}
	return c.maxAge <= 0 || c.now().Sub(entry.UpdatedAt) < c.maxAge
}

// Query returns the cached data for key when it is fresh. Otherwise it
// fetches with loader; concurrent callers share a single fetch. loader is
// remembered and reused by Invalidate.
func (c *Cache) Query(ctx context.Context, key string, loader Loader) ([]byte, error) {
	c.mu.Lock()
	c.loaders[key] = loader
	c.mu.Unlock()

	entry, ok, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		c.logger.Error().Err(err).Str("key", key).Msg("Error reading cache")
		metrics.IncrementCacheLookup("miss")
	case ok && c.fresh(entry):
		metrics.IncrementCacheLookup("hit")
		return entry.Data, nil
	case ok:
		metrics.IncrementCacheLookup("stale")
	default:
		metrics.IncrementCacheLookup("miss")
	}

	// the fetch outlives a caller that gives up, so other waiters still get it
	fetchCtx := context.WithoutCancel(ctx)
	for {
		result := c.group.DoChan(key, func() (any, error) {
			return c.fetch(fetchCtx, key, loader)
		})
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-result:
			if errors.Is(res.Err, ErrCancelled) {
				// nothing cached to fall back on, so load again
				continue
			}
			if res.Err != nil {
				return nil, res.Err
			}
			return res.Val.([]byte), nil
		}
	}
}

func (c *Cache) fetch(storeCtx context.Context, key string, loader Loader) ([]byte, error) {
	ctx, cancel := context.WithCancel(storeCtx)
	defer cancel()

	c.mu.Lock()
	c.generations[key]++
	generation := c.generations[key]
	c.inflight[key] = cancel
	c.mu.Unlock()

	data, err := loader(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[key] != generation {
		// cancelled: whatever was written since wins over this result
		c.logger.Debug().Str("key", key).Msg("Discarding cancelled fetch")
		entry, ok, getErr := c.store.Get(storeCtx, key)
		if getErr != nil || !ok {
			return nil, ErrCancelled
		}
		return entry.Data, nil
	}
	delete(c.inflight, key)
	if err != nil {
		return nil, err
	}
	if err := c.store.Set(storeCtx, key, Entry{Data: data, UpdatedAt: c.now().UTC()}); err != nil {
		c.logger.Error().Err(err).Str("key", key).Msg("Error writing cache")
	}
	return data, nil
}

// Peek returns the cached entry without fetching.
func (c *Cache) Peek(ctx context.Context, key string) (Entry, bool, error) {
	return c.store.Get(ctx, key)
}

// Cancel aborts the in-flight fetch of key, if any. Its result is
// discarded when it arrives.
func (c *Cache) Cancel(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked(key)
}

func (c *Cache) cancelLocked(key string) {
	if cancel, ok := c.inflight[key]; ok {
		cancel()
		delete(c.inflight, key)
		c.generations[key]++
		c.group.Forget(key)
	}
}

// Patch replaces the data of key with fn's result and returns the entry it
// replaced. fn receives nil and false when nothing is cached.
func (c *Cache) Patch(ctx context.Context, key string, fn func(data []byte, ok bool) ([]byte, error)) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok, err := c.store.Get(ctx, key)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read %s: %w", key, err)
	}
	snapshot := Snapshot{Entry: entry.clone(), Existed: ok}

	next, err := fn(entry.Data, ok)
	if err != nil {
		return Snapshot{}, err
	}
	if err := c.store.Set(ctx, key, Entry{Data: next, Stale: entry.Stale, UpdatedAt: c.now().UTC()}); err != nil {
		return Snapshot{}, fmt.Errorf("write %s: %w", key, err)
	}
	return snapshot, nil
}

// Restore puts back the entry captured by Patch exactly as it was, or
// removes key when nothing was cached then.
func (c *Cache) Restore(ctx context.Context, key string, snapshot Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !snapshot.Existed {
		return c.store.Delete(ctx, key)
	}
	return c.store.Set(ctx, key, snapshot.Entry)
}

// Invalidate marks key stale and refetches it in the background with the
// last loader Query saw for it. A fetch already running may have read the
// backend before the change being invalidated, so it is cancelled and never
// joined.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	c.mu.Lock()
	c.cancelLocked(key)
	entry, ok, err := c.store.Get(ctx, key)
	if err == nil && ok && !entry.Stale {
		entry.Stale = true
		err = c.store.Set(ctx, key, entry)
	}
	loader, closed := c.loaders[key], c.closed
	if loader != nil && !closed {
		c.background.Add(1)
	}
	c.mu.Unlock()

	if err != nil {
		return fmt.Errorf("invalidate %s: %w", key, err)
	}
	if loader == nil || closed {
		return nil
	}

	fetchCtx := context.WithoutCancel(ctx)
	go func() {
		defer c.background.Done()
		_, err, _ := c.group.Do(key, func() (any, error) {
			return c.fetch(fetchCtx, key, loader)
		})
		if err != nil && !errors.Is(err, ErrCancelled) {
			c.logger.Error().Err(err).Str("key", key).Msg("Error refetching invalidated query")
		}
	}()
	return nil
}

// Wait blocks until every background refetch started so far has finished.
func (c *Cache) Wait() {
	c.background.Wait()
}

// Close stops scheduling refetches and waits for running ones.
func (c *Cache) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.background.Wait()
}

// QueryJSON is Query for JSON-encoded values.
func QueryJSON[T any](ctx context.Context, c *Cache, key string, load func(ctx context.Context) (T, error)) (T, error) {
	var out T
	data, err := c.Query(ctx, key, func(ctx context.Context) ([]byte, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", key, err)
	}
	return out, nil
}
