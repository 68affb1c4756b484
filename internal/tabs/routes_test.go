package tabs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pders01/riffle/internal/storage"
)

func TestBuildRoutes(t *testing.T) {
	sources := []*storage.Source{
		{ID: 42, Title: "Go Blog", URL: "https://go.dev/blog/feed.atom"},
		{ID: 7, Title: "", URL: "https://example.org/feed.xml"},
	}

	t.Run("aggregate tab leads when enabled", func(t *testing.T) {
		routes := BuildRoutes(sources, true)

		assert.Len(t, routes, 3)
		assert.Equal(t, AggregateKey, routes[0].Key)
		assert.Equal(t, "All", routes[0].Title)
		assert.True(t, routes[0].IsAggregate())
		assert.Equal(t, "source-42", routes[1].Key)
		assert.Equal(t, int64(42), routes[1].SourceID)
		assert.Equal(t, "source-7", routes[2].Key)
	})

	t.Run("no aggregate tab when disabled", func(t *testing.T) {
		routes := BuildRoutes(sources, false)

		assert.Len(t, routes, 2)
		assert.Equal(t, "source-42", routes[0].Key)
		assert.False(t, routes[0].IsAggregate())
	})

	t.Run("untitled sources fall back to URL", func(t *testing.T) {
		routes := BuildRoutes(sources, false)

		assert.Equal(t, "https://example.org/feed.xml", routes[1].Title)
	})

	t.Run("empty source list", func(t *testing.T) {
		assert.Len(t, BuildRoutes(nil, true), 1)
		assert.Empty(t, BuildRoutes(nil, false))
	})

	t.Run("rebuild returns a fresh slice", func(t *testing.T) {
		first := BuildRoutes(sources, true)
		second := BuildRoutes(sources, true)

		second[0].Title = "changed"
		assert.Equal(t, "All", first[0].Title)
	})
}

func TestRouteKeys(t *testing.T) {
	routes := []Route{{Key: "all"}, {Key: "source-1"}, {Key: "source-2"}}
	assert.Equal(t, []string{"all", "source-1", "source-2"}, RouteKeys(routes))
}

func TestSourceKey(t *testing.T) {
	assert.Equal(t, "source-9", SourceKey(9))
}
