package feedcache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pders01/riffle/internal/debuglog"
	"github.com/pders01/riffle/internal/events"
	"github.com/pders01/riffle/internal/storage"
	"github.com/pders01/riffle/internal/tabs"
)

const (
	// DefaultPageSize is the number of articles fetched per page.
	DefaultPageSize = 20
	// DefaultPerSourceLimit caps each source's share of the aggregate
	// tab's first page.
	DefaultPerSourceLimit = 10
)

// Page is one tab's cached slice of its article list. Articles holds
// everything loaded so far in display order, Cursor is the offset the next
// page starts at, and HasMore reports whether such a page is worth asking
// for.
type Page struct {
	Articles    []*storage.Article
	Cursor      int
	HasMore     bool
	LoadingMore bool
	Refreshing  bool
}

// Options configures a Coordinator.
type Options struct {
	PageSize          int
	PerSourceLimit    int
	SyncDebounce      time.Duration
	SyncInterval      time.Duration
	SyncMaxConcurrent int
	// SourceCount gates the background scheduler: with zero configured
	// sources it never starts.
	SourceCount func() int
}

// Coordinator caches one Page per tab key and serializes the transitions
// between loading, loading-more and refreshing. Fetches run on the calling
// goroutine without holding the lock; each tab key carries a generation
// counter, and a fetch that comes home to a bumped generation is discarded
// instead of applied.
type Coordinator struct {
	source ArticleSource
	syncer Syncer

	mu      sync.Mutex
	pages   map[string]*Page
	gens    map[string]uint64
	loading map[string]bool

	pageSize       int
	perSourceLimit int
	maxConcurrent  int

	scheduler   *Scheduler
	unsubscribe func()
	log         *debuglog.Logger
}

// NewCoordinator wires a coordinator to its storage, its syncer and the
// invalidation bus. The subscription is live immediately; Start only arms
// the background scheduler.
func NewCoordinator(source ArticleSource, syncer Syncer, bus *events.Bus, opts Options) *Coordinator {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.PerSourceLimit <= 0 {
		opts.PerSourceLimit = DefaultPerSourceLimit
	}
	if opts.SyncMaxConcurrent <= 0 {
		opts.SyncMaxConcurrent = DefaultSyncMaxConcurrent
	}

	c := &Coordinator{
		source:         source,
		syncer:         syncer,
		pages:          make(map[string]*Page),
		gens:           make(map[string]uint64),
		loading:        make(map[string]bool),
		pageSize:       opts.PageSize,
		perSourceLimit: opts.PerSourceLimit,
		maxConcurrent:  opts.SyncMaxConcurrent,
		log:            debuglog.For("feedcache"),
	}
	c.scheduler = NewScheduler(syncer, bus, opts.SourceCount, SchedulerOptions{
		Debounce:      opts.SyncDebounce,
		Interval:      opts.SyncInterval,
		MaxConcurrent: opts.SyncMaxConcurrent,
	})
	if bus != nil {
		c.unsubscribe = bus.Subscribe(c.Invalidate)
	}
	return c
}

// Start arms the background sync scheduler.
func (c *Coordinator) Start(ctx context.Context) {
	c.scheduler.Start(ctx)
}

// Stop tears down the scheduler and the bus subscription.
func (c *Coordinator) Stop() {
	c.scheduler.Stop()
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// Snapshot returns a copy of the tab's page, or false if the tab has not
// been loaded since the last invalidation.
func (c *Coordinator) Snapshot(key string) (Page, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked(key)
}

func (c *Coordinator) snapshotLocked(key string) (Page, bool) {
	page, ok := c.pages[key]
	if !ok {
		return Page{}, false
	}
	out := *page
	out.Articles = append([]*storage.Article(nil), page.Articles...)
	return out, true
}

// EnsureLoaded fetches the first page for a tab that has none. A tab that
// already has a page, or whose first load is still in flight, is left
// alone.
func (c *Coordinator) EnsureLoaded(ctx context.Context, route tabs.Route) error {
	key := route.Key

	c.mu.Lock()
	if _, ok := c.pages[key]; ok {
		c.mu.Unlock()
		return nil
	}
	if c.loading[key] {
		c.mu.Unlock()
		return nil
	}
	c.loading[key] = true
	gen := c.gens[key]
	c.gens[key] = gen // materialize so invalidation can outdate this load
	c.mu.Unlock()

	articles, err := c.fetchFirstPage(ctx, route)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.loading, key)

	if c.gens[key] != gen {
		c.log.Debugf("discarding stale first page for %s", key)
		return nil
	}
	if err != nil {
		c.log.Errorf("loading %s: %v", key, err)
		return fmt.Errorf("loading %s: %w", key, err)
	}

	c.pages[key] = &Page{
		Articles: articles,
		Cursor:   len(articles),
		HasMore:  len(articles) >= c.pageSize,
	}
	c.log.Debugf("loaded %d articles for %s", len(articles), key)
	return nil
}

// LoadMore appends the tab's next page. It is a no-op while the tab is
// unloaded, refreshing, already loading more, or exhausted. A failed fetch
// clears LoadingMore and leaves HasMore alone so the next scroll retries.
func (c *Coordinator) LoadMore(ctx context.Context, route tabs.Route) error {
	key := route.Key

	c.mu.Lock()
	page, ok := c.pages[key]
	if !ok || page.LoadingMore || page.Refreshing || !page.HasMore {
		c.mu.Unlock()
		return nil
	}
	page.LoadingMore = true
	gen := c.gens[key]
	offset := page.Cursor
	c.mu.Unlock()

	fetched, err := c.source.ArticlePage(ctx, storage.PageQuery{
		SourceID: route.SourceID,
		Limit:    c.pageSize,
		Offset:   offset,
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gens[key] != gen {
		c.log.Debugf("discarding stale load-more for %s", key)
		return nil
	}
	page, ok = c.pages[key]
	if !ok {
		return nil
	}
	page.LoadingMore = false
	if err != nil {
		c.log.Errorf("loading more for %s: %v", key, err)
		return fmt.Errorf("loading more for %s: %w", key, err)
	}

	seen := make(map[int64]struct{}, len(page.Articles))
	for _, a := range page.Articles {
		seen[a.ID] = struct{}{}
	}
	for _, a := range fetched {
		if _, dup := seen[a.ID]; dup {
			continue
		}
		seen[a.ID] = struct{}{}
		page.Articles = append(page.Articles, a)
	}
	page.Cursor = len(page.Articles)
	page.HasMore = len(fetched) >= c.pageSize
	return nil
}

// Refresh syncs the tab's sources and replaces its first page. Starting a
// refresh outdates any load-more still in flight for the same tab; other
// tabs are untouched. On failure the prior page stays servable.
func (c *Coordinator) Refresh(ctx context.Context, route tabs.Route) error {
	key := route.Key

	c.mu.Lock()
	page := c.pages[key]
	if page != nil && page.Refreshing {
		c.mu.Unlock()
		return nil
	}
	c.gens[key]++
	gen := c.gens[key]
	if page != nil {
		page.Refreshing = true
		page.LoadingMore = false
	}
	c.mu.Unlock()

	err := c.syncRoute(ctx, route)
	var articles []*storage.Article
	if err == nil {
		articles, err = c.fetchFirstPage(ctx, route)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gens[key] != gen {
		c.log.Debugf("discarding stale refresh for %s", key)
		return nil
	}
	if err != nil {
		if page := c.pages[key]; page != nil {
			page.Refreshing = false
		}
		c.log.Errorf("refreshing %s: %v", key, err)
		return fmt.Errorf("refreshing %s: %w", key, err)
	}

	c.pages[key] = &Page{
		Articles: articles,
		Cursor:   len(articles),
		HasMore:  len(articles) >= c.pageSize,
	}
	c.log.Debugf("refreshed %s with %d articles", key, len(articles))
	return nil
}

// Invalidate drops cached pages according to the event and outdates their
// generations so in-flight fetches for them land dead.
func (c *Coordinator) Invalidate(event events.CacheEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch event.Kind {
	case events.SourceDeleted, events.SourceUpdated:
		c.dropLocked(tabs.SourceKey(event.SourceID))
		c.dropLocked(tabs.AggregateKey)
	case events.ClearAll, events.ClearArticles, events.BackgroundSyncCompleted:
		for key := range c.gens {
			c.gens[key]++
		}
		c.pages = make(map[string]*Page)
	}
	c.log.Debugf("invalidated on %s", event.Kind)
}

func (c *Coordinator) dropLocked(key string) {
	c.gens[key]++
	delete(c.pages, key)
}

func (c *Coordinator) fetchFirstPage(ctx context.Context, route tabs.Route) ([]*storage.Article, error) {
	if route.IsAggregate() {
		return c.source.InitialAggregate(ctx, c.perSourceLimit)
	}
	return c.source.ArticlePage(ctx, storage.PageQuery{
		SourceID: route.SourceID,
		Limit:    c.pageSize,
	})
}

func (c *Coordinator) syncRoute(ctx context.Context, route tabs.Route) error {
	if route.IsAggregate() {
		return c.syncer.SyncAll(ctx, SyncAllOptions{
			MaxConcurrent: c.maxConcurrent,
			OnError: func(err error, name string) {
				c.log.Warnf("sync %s: %v", name, err)
			},
		})
	}
	_, err := c.syncer.SyncOne(ctx, route.SourceID)
	return err
}
