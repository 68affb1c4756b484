package feedcache

import (
	"context"

	"github.com/pders01/riffle/internal/storage"
)

// ArticleSource serves stored article pages for tab selectors.
type ArticleSource interface {
	ArticlePage(ctx context.Context, q storage.PageQuery) ([]*storage.Article, error)
	InitialAggregate(ctx context.Context, perSourceLimit int) ([]*storage.Article, error)
}

// SyncAllOptions carries the callback surface of a multi-source sync. All
// callbacks are optional and are invoked per source.
type SyncAllOptions struct {
	MaxConcurrent int
	OnProgress    func(done, total int, name string)
	OnArticles    func(articles []*storage.Article, name string)
	OnError       func(err error, name string)
}

// Syncer reconciles sources with their remote feeds. SyncAll reports
// per-source failures through OnError and keeps going; it returns an error
// only when the whole pass cannot run.
type Syncer interface {
	SyncAll(ctx context.Context, opts SyncAllOptions) error
	SyncOne(ctx context.Context, sourceID int64) ([]*storage.Article, error)
}
