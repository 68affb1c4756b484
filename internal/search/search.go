package search

import (
	"context"
	"strings"

	"github.com/pders01/riffle/internal/debuglog"
	"github.com/pders01/riffle/internal/events"
	"github.com/pders01/riffle/internal/storage"
)

// Result is one scored search hit.
type Result struct {
	ArticleID int64
	SourceID  int64
	Title     string
	Snippet   string
	Score     float64
}

// Searcher is the search API the TUI consumes.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]*Result, error)
}

// New picks the engine named by the config. An unusable bleve index is not
// fatal; the scorer takes over so search still works.
func New(store *storage.Store, bus *events.Bus, engine, indexPath string) Searcher {
	switch strings.ToLower(engine) {
	case "simple":
		return NewScorer(store)
	default:
		bleve, err := NewBleveEngine(store, indexPath)
		if err != nil {
			debuglog.For("search").Warnf("bleve index unavailable, falling back to scorer: %v", err)
			return NewScorer(store)
		}
		if bus != nil {
			bleve.Attach(bus)
		}
		return bleve
	}
}

// minQueryLen filters out accidental single-keystroke searches.
const minQueryLen = 2

func queryTerms(query string) []string {
	if len(strings.TrimSpace(query)) < minQueryLen {
		return nil
	}
	return tokenize(query)
}
