package tabs

import (
	"fmt"

	"github.com/pders01/riffle/internal/storage"
)

// AggregateKey is the route key of the all-sources tab.
const AggregateKey = "all"

// Route is one tab position. Slice order defines the index space shared by
// the pager, the indicator math and the cache coordinator.
type Route struct {
	Key      string
	Title    string
	SourceID int64 // zero for the aggregate tab
}

// IsAggregate reports whether the route is the all-sources tab.
func (r Route) IsAggregate() bool {
	return r.Key == AggregateKey
}

// SourceKey returns the tab key for a single-source tab.
func SourceKey(id int64) string {
	return fmt.Sprintf("source-%d", id)
}

// BuildRoutes derives the tab order from the stored source list: the
// aggregate tab first when enabled, then one tab per source in stored order.
// The slice is rebuilt from scratch so existing holders never observe
// mutation.
func BuildRoutes(sources []*storage.Source, showAggregate bool) []Route {
	routes := make([]Route, 0, len(sources)+1)
	if showAggregate {
		routes = append(routes, Route{Key: AggregateKey, Title: "All"})
	}
	for _, source := range sources {
		title := source.Title
		if title == "" {
			title = source.URL
		}
		routes = append(routes, Route{
			Key:      SourceKey(source.ID),
			Title:    title,
			SourceID: source.ID,
		})
	}
	return routes
}

// RouteKeys projects the key list out of a route slice.
func RouteKeys(routes []Route) []string {
	keys := make([]string, len(routes))
	for i, route := range routes {
		keys[i] = route.Key
	}
	return keys
}
