package search

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/riffle/internal/storage"
)

func seedStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "riffle.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.SaveSource(&storage.Source{URL: "https://example.com/go.xml", Title: "Go Blog"}))
	require.NoError(t, store.SaveSource(&storage.Source{URL: "https://example.com/news.xml", Title: "Daily News"}))

	_, err = store.UpsertArticles([]*storage.Article{
		{
			SourceID:    1,
			GUID:        "go-1",
			Title:       "Generics in practice",
			Description: "Using type parameters in production Go code",
			Content:     "A long walk through generics, constraints and inference.",
			Published:   time.Now().Add(-time.Hour),
		},
		{
			SourceID:    1,
			GUID:        "go-2",
			Title:       "Release notes",
			Description: "What changed this cycle",
			Content:     "The runtime got faster. Generics got better error messages.",
			Published:   time.Now().Add(-48 * time.Hour),
		},
		{
			SourceID:    2,
			GUID:        "news-1",
			Title:       "Local elections",
			Description: "Turnout was high",
			Content:     "Nothing about programming languages here.",
			Published:   time.Now().Add(-2 * time.Hour),
		},
	})
	require.NoError(t, err)
	return store
}

func TestScorer_Search(t *testing.T) {
	scorer := NewScorer(seedStore(t))
	ctx := context.Background()

	t.Run("title match outranks content match", func(t *testing.T) {
		results, err := scorer.Search(ctx, "generics", 10)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "Generics in practice", results[0].Title)
		assert.Greater(t, results[0].Score, results[1].Score)
	})

	t.Run("results carry ids for the jump", func(t *testing.T) {
		results, err := scorer.Search(ctx, "elections", 10)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, int64(2), results[0].SourceID)
		assert.NotZero(t, results[0].ArticleID)
	})

	t.Run("limit truncates", func(t *testing.T) {
		results, err := scorer.Search(ctx, "generics", 1)
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("short queries return nothing", func(t *testing.T) {
		results, err := scorer.Search(ctx, "g", 10)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("no match means empty, not error", func(t *testing.T) {
		results, err := scorer.Search(ctx, "zeppelin", 10)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("snippet covers the matched stretch", func(t *testing.T) {
		results, err := scorer.Search(ctx, "constraints", 10)
		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.Contains(t, results[0].Snippet, "constraints")
	})
}

func TestScorer_RecencyBoost(t *testing.T) {
	assert.Zero(t, recencyBoost(time.Time{}))
	assert.Zero(t, recencyBoost(time.Now().Add(-8*24*time.Hour)))
	assert.InDelta(t, 0.1, recencyBoost(time.Now()), 0.001)

	mid := recencyBoost(time.Now().Add(-3*24*time.Hour - 12*time.Hour))
	assert.InDelta(t, 0.05, mid, 0.001)
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Hello, World!", []string{"hello", "world"}},
		{"go1.24 release", []string{"go1", "24", "release"}},
		{"a b c", nil},
		{"", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tokenize(tt.in), tt.in)
	}
}
