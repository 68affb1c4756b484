package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pders01/riffle/internal/debuglog"
	"github.com/pders01/riffle/internal/events"
	"github.com/pders01/riffle/internal/feedcache"
	"github.com/pders01/riffle/internal/storage"
	"github.com/pders01/riffle/internal/validation"
)

// Syncer reconciles sources with their remote feeds. Every mutation that
// changes stored rows is announced on the bus so cached pages drop.
type Syncer struct {
	store     *storage.Store
	fetcher   *Fetcher
	parser    *Parser
	validator *validation.FeedURLValidator
	bus       *events.Bus
	log       *debuglog.Logger
}

func NewSyncer(store *storage.Store, bus *events.Bus) *Syncer {
	return &Syncer{
		store:     store,
		fetcher:   NewFetcher(defaultTimeout),
		parser:    NewParser(),
		validator: validation.NewFeedURLValidator(),
		bus:       bus,
		log:       debuglog.For("feed"),
	}
}

// SetForceRefresh makes subsequent syncs ignore ETag/Last-Modified caching.
func (s *Syncer) SetForceRefresh(force bool) {
	s.fetcher.SetIgnoreCache(force)
}

// SetHTTPTimeout adjusts the fetch timeout for subsequent syncs.
func (s *Syncer) SetHTTPTimeout(timeout time.Duration) {
	s.fetcher.SetTimeout(timeout)
}

// SetPermissiveValidation relaxes URL checks so localhost feeds work during
// development.
func (s *Syncer) SetPermissiveValidation(permissive bool) {
	if permissive {
		s.validator = validation.NewPermissiveFeedURLValidator()
	} else {
		s.validator = validation.NewFeedURLValidator()
	}
}

// AddSource validates the URL, fetches the feed once to prove it parses,
// and stores the source together with its first batch of articles.
func (s *Syncer) AddSource(ctx context.Context, rawURL string) (*storage.Source, error) {
	normalized, err := s.validator.ValidateAndNormalize(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid feed URL: %w", err)
	}

	if existing, err := s.findByURL(normalized); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("source already added: %s", normalized)
	}

	source := &storage.Source{
		URL:     normalized,
		AddedAt: time.Now(),
	}
	if err := s.store.SaveSource(source); err != nil {
		return nil, fmt.Errorf("saving source: %w", err)
	}

	parsed, err := s.fetchAndStore(ctx, source)
	if err != nil {
		// Keep the row so the user can retry with a plain sync.
		s.log.Warnf("initial fetch of %s failed: %v", normalized, err)
	} else {
		s.log.Infof("added %s with %d articles", normalized, len(parsed))
	}

	s.publish(events.CacheEvent{Kind: events.SourceUpdated, SourceID: source.ID})
	return source, nil
}

// RemoveSource deletes the source and everything fetched for it.
func (s *Syncer) RemoveSource(id int64) error {
	if err := s.store.DeleteSource(id); err != nil {
		return fmt.Errorf("deleting source: %w", err)
	}
	s.publish(events.CacheEvent{Kind: events.SourceDeleted, SourceID: id})
	return nil
}

// RenameSource replaces the source's display title.
func (s *Syncer) RenameSource(id int64, title string) error {
	source, err := s.store.Source(id)
	if err != nil {
		return err
	}
	source.Title = title
	if err := s.store.SaveSource(source); err != nil {
		return fmt.Errorf("saving source: %w", err)
	}
	s.publish(events.CacheEvent{Kind: events.SourceUpdated, SourceID: id})
	return nil
}

// SyncOne fetches a single source and upserts whatever it returned. A 304
// answer only touches the fetch timestamp.
func (s *Syncer) SyncOne(ctx context.Context, sourceID int64) ([]*storage.Article, error) {
	source, err := s.store.Source(sourceID)
	if err != nil {
		return nil, err
	}
	return s.fetchAndStore(ctx, source)
}

// SyncAll fetches every source through a bounded worker pool. Per-source
// failures go to opts.OnError and never abort the siblings; the pass fails
// as a whole only when the source list cannot be read or the context ends.
func (s *Syncer) SyncAll(ctx context.Context, opts feedcache.SyncAllOptions) error {
	sources, err := s.store.Sources()
	if err != nil {
		return fmt.Errorf("listing sources: %w", err)
	}
	if len(sources) == 0 {
		return nil
	}

	workers := opts.MaxConcurrent
	if workers <= 0 {
		workers = feedcache.DefaultSyncMaxConcurrent
	}
	if workers > len(sources) {
		workers = len(sources)
	}

	type result struct {
		source   *storage.Source
		articles []*storage.Article
		err      error
	}

	jobs := make(chan *storage.Source, len(sources))
	results := make(chan result, len(sources))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for source := range jobs {
				articles, err := s.fetchAndStore(ctx, source)
				results <- result{source: source, articles: articles, err: err}
			}
		}()
	}

	for _, source := range sources {
		jobs <- source
	}
	close(jobs)

	wg.Wait()
	close(results)

	done := 0
	for res := range results {
		done++
		name := res.source.Title
		if name == "" {
			name = res.source.URL
		}
		if res.err != nil {
			s.log.Warnf("syncing %s: %v", name, res.err)
			if opts.OnError != nil {
				opts.OnError(res.err, name)
			}
		} else if len(res.articles) > 0 && opts.OnArticles != nil {
			opts.OnArticles(res.articles, name)
		}
		if opts.OnProgress != nil {
			opts.OnProgress(done, len(sources), name)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.store.SetLastSync(time.Now()); err != nil {
		s.log.Warnf("recording sync time: %v", err)
	}
	return nil
}

// fetchAndStore downloads, parses and persists one source's feed, returning
// the parsed articles.
func (s *Syncer) fetchAndStore(ctx context.Context, source *storage.Source) ([]*storage.Article, error) {
	resp, modified, err := s.fetcher.Fetch(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source.URL, err)
	}

	if !modified {
		source.LastFetched = time.Now()
		if err := s.store.SaveSource(source); err != nil {
			return nil, fmt.Errorf("saving source metadata: %w", err)
		}
		return nil, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	parsed, err := s.parser.Parse(bytes.NewReader(body), source.ID)
	if err != nil {
		return nil, err
	}

	if source.Title == "" && parsed.Title != "" {
		source.Title = parsed.Title
	}
	if source.Description == "" && parsed.Description != "" {
		source.Description = parsed.Description
	}
	s.fetcher.ApplyResponseMetadata(source, resp)
	source.UpdatedAt = time.Now()

	if err := s.store.SaveSource(source); err != nil {
		return nil, fmt.Errorf("saving source: %w", err)
	}
	added, err := s.store.UpsertArticles(parsed.Articles)
	if err != nil {
		return nil, fmt.Errorf("saving articles: %w", err)
	}
	s.log.Debugf("synced %s: %d parsed, %d new", source.URL, len(parsed.Articles), added)
	return parsed.Articles, nil
}

func (s *Syncer) findByURL(url string) (*storage.Source, error) {
	sources, err := s.store.Sources()
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	for _, source := range sources {
		if source.URL == url {
			return source, nil
		}
	}
	return nil, nil
}

func (s *Syncer) publish(event events.CacheEvent) {
	if s.bus != nil {
		s.bus.Publish(event)
	}
}
