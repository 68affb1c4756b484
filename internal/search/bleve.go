package search

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/riffle/internal/debuglog"
	"github.com/pders01/riffle/internal/events"
	"github.com/pders01/riffle/internal/storage"
)

const articleDocPrefix = "article:"

// BleveEngine keeps a persistent full-text index of every stored article
// and answers queries from it. Attached to the bus, it follows the same
// invalidation events the page cache does, so its answers track the store.
type BleveEngine struct {
	store       *storage.Store
	idx         bleve.Index
	log         *debuglog.Logger
	unsubscribe func()
}

// NewBleveEngine opens or creates the index at indexPath and brings it up
// to date with the store.
func NewBleveEngine(store *storage.Store, indexPath string) (*BleveEngine, error) {
	if err := os.MkdirAll(filepath.Dir(indexPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	idx, err := bleve.Open(indexPath)
	if err != nil {
		idx, err = bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("creating index: %w", err)
		}
	}

	b := &BleveEngine{
		store: store,
		idx:   idx,
		log:   debuglog.For("search"),
	}
	if err := b.ReindexAll(context.Background()); err != nil {
		idx.Close()
		return nil, err
	}
	return b, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.Store = true

	desc := bleve.NewTextFieldMapping()
	desc.Analyzer = standard.Name
	desc.Store = true

	content := bleve.NewTextFieldMapping()
	content.Analyzer = standard.Name
	content.Store = false

	sourceID := bleve.NewTextFieldMapping()
	sourceID.Analyzer = keyword.Name
	sourceID.Store = true

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("description", desc)
	dm.AddFieldMappingsAt("content", content)
	dm.AddFieldMappingsAt("source_id", sourceID)

	im.DefaultMapping = dm
	return im
}

// Attach subscribes the engine to cache events so index maintenance rides
// the same notifications the page cache uses.
func (b *BleveEngine) Attach(bus *events.Bus) {
	b.unsubscribe = bus.Subscribe(b.handleEvent)
}

// Close detaches from the bus and releases the index.
func (b *BleveEngine) Close() error {
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
	return b.idx.Close()
}

func (b *BleveEngine) handleEvent(event events.CacheEvent) {
	ctx := context.Background()
	var err error
	switch event.Kind {
	case events.SourceDeleted:
		err = b.RemoveSource(event.SourceID)
	case events.SourceUpdated:
		err = b.ReindexSource(ctx, event.SourceID)
	case events.ClearAll, events.ClearArticles, events.BackgroundSyncCompleted:
		err = b.ReindexAll(ctx)
	}
	if err != nil {
		b.log.Warnf("index maintenance after %s: %v", event.Kind, err)
	}
}

func (b *BleveEngine) Search(ctx context.Context, query string, limit int) ([]*Result, error) {
	terms := queryTerms(query)
	if len(terms) == 0 {
		return []*Result{}, nil
	}

	fields := []struct {
		name  string
		boost float64
	}{
		{"title", titleWeight},
		{"description", descriptionWeight},
		{"content", contentWeight},
	}

	var qs []bleveQuery.Query
	for _, term := range terms {
		for _, f := range fields {
			match := bleve.NewMatchQuery(term)
			match.SetField(f.name)
			match.SetBoost(f.boost)
			qs = append(qs, match)

			prefix := bleve.NewPrefixQuery(term)
			prefix.SetField(f.name)
			prefix.SetBoost(f.boost * 0.8)
			qs = append(qs, prefix)
		}
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(qs...), limit, 0, false)
	req.Fields = []string{"title", "description", "source_id"}
	res, err := b.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	out := make([]*Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		articleID, err := strconv.ParseInt(strings.TrimPrefix(hit.ID, articleDocPrefix), 10, 64)
		if err != nil {
			continue
		}
		result := &Result{ArticleID: articleID, Score: hit.Score}
		if t, ok := hit.Fields["title"].(string); ok {
			result.Title = t
		}
		if d, ok := hit.Fields["description"].(string); ok {
			result.Snippet = truncate(d, snippetLength)
		}
		if sid, ok := hit.Fields["source_id"].(string); ok {
			result.SourceID, _ = strconv.ParseInt(sid, 10, 64)
		}
		out = append(out, result)
	}
	return out, nil
}

// ReindexAll rebuilds every article document from the store.
func (b *BleveEngine) ReindexAll(ctx context.Context) error {
	articles, err := b.store.ArticlePage(ctx, storage.PageQuery{})
	if err != nil {
		return err
	}
	if err := b.purge(); err != nil {
		return err
	}
	return b.indexBatch(articles)
}

// ReindexSource refreshes the documents of one source.
func (b *BleveEngine) ReindexSource(ctx context.Context, sourceID int64) error {
	if err := b.deleteBySource(sourceID); err != nil {
		return err
	}
	articles, err := b.store.ArticlePage(ctx, storage.PageQuery{SourceID: sourceID})
	if err != nil {
		return err
	}
	return b.indexBatch(articles)
}

// RemoveSource drops every document belonging to the source.
func (b *BleveEngine) RemoveSource(sourceID int64) error {
	return b.deleteBySource(sourceID)
}

// DocCount reports how many documents the index holds.
func (b *BleveEngine) DocCount() (uint64, error) {
	return b.idx.DocCount()
}

func (b *BleveEngine) indexBatch(articles []*storage.Article) error {
	batch := b.idx.NewBatch()
	for _, a := range articles {
		err := batch.Index(articleDocID(a.ID), map[string]any{
			"title":       a.Title,
			"description": a.Description,
			"content":     a.Content,
			"source_id":   strconv.FormatInt(a.SourceID, 10),
		})
		if err != nil {
			return err
		}
	}
	return b.idx.Batch(batch)
}

func (b *BleveEngine) deleteBySource(sourceID int64) error {
	tq := bleve.NewTermQuery(strconv.FormatInt(sourceID, 10))
	tq.SetField("source_id")
	return b.deleteMatching(tq)
}

func (b *BleveEngine) purge() error {
	return b.deleteMatching(bleve.NewMatchAllQuery())
}

func (b *BleveEngine) deleteMatching(q bleveQuery.Query) error {
	const pageSize = 1000
	for {
		req := bleve.NewSearchRequestOptions(q, pageSize, 0, false)
		res, err := b.idx.Search(req)
		if err != nil {
			return err
		}
		if len(res.Hits) == 0 {
			return nil
		}
		batch := b.idx.NewBatch()
		for _, hit := range res.Hits {
			batch.Delete(hit.ID)
		}
		if err := b.idx.Batch(batch); err != nil {
			return err
		}
		if len(res.Hits) < pageSize {
			return nil
		}
	}
}

func articleDocID(id int64) string {
	return articleDocPrefix + strconv.FormatInt(id, 10)
}
