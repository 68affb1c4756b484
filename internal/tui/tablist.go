package tui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/riffle/internal/storage"
	"github.com/pders01/riffle/internal/tabs"
)

// loadMoreThreshold is how close to the bottom of a list the cursor may get
// before the next page is requested.
const loadMoreThreshold = 3

type articleItem struct {
	article *storage.Article
}

func (i articleItem) Title() string {
	title := oneline(i.article.Title)
	if title == "" {
		title = i.article.URL
	}
	if i.article.Starred {
		title = "★ " + title
	}
	if i.article.Read {
		return ReadItemStyle.Render(title)
	}
	return UnreadItemStyle.Render("● " + title)
}

func (i articleItem) Description() string {
	desc := truncateEnd(oneline(i.article.Description), 80)

	timeStr := ""
	if !i.article.Published.IsZero() {
		timeStr = TimeStyle.Render(" • " + i.article.Published.Format("Jan 2, 15:04"))
	}

	return lipgloss.NewStyle().
		Foreground(MutedColor).
		Render(desc) + timeStr
}

func (i articleItem) FilterValue() string { return i.article.Title }

// tabList is one tab's article list. Lists exist only for tabs the pager has
// mounted; idle tabs stay as bare route entries until the user swipes near
// them.
type tabList struct {
	model  list.Model
	loaded bool
}

func newTabList(width, height int) *tabList {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), width, height)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	return &tabList{model: l}
}

// mountTabs creates list models for the committed tab and its direct
// neighbors. Everything else keeps whatever state it already has; the pager
// renders placeholders for unmounted indices anyway.
func (a *App) mountTabs() {
	active := a.pager.Active()
	for i := active - 1; i <= active+1; i++ {
		if i < 0 || i >= len(a.routes) {
			continue
		}
		key := a.routes[i].Key
		if _, ok := a.tabLists[key]; ok {
			continue
		}
		a.tabLists[key] = newTabList(a.width, a.contentHeight())
		a.syncTabList(key)
	}
}

// syncTabList rebuilds a tab's items from the coordinator's snapshot,
// keeping the cursor on the same article where possible. A missing snapshot
// leaves the previous items up; they go stale rather than blank.
func (a *App) syncTabList(key string) {
	tl, ok := a.tabLists[key]
	if !ok {
		return
	}
	page, ok := a.coordinator.Snapshot(key)
	if !ok {
		return
	}

	var selected int64
	if item, ok := tl.model.SelectedItem().(articleItem); ok {
		selected = item.article.ID
	}

	items := make([]list.Item, len(page.Articles))
	for i, article := range page.Articles {
		items[i] = articleItem{article: article}
	}
	tl.model.SetItems(items)
	tl.loaded = true

	if selected != 0 {
		for i, article := range page.Articles {
			if article.ID == selected {
				tl.model.Select(i)
				break
			}
		}
	}
}

// scrollToArticle moves the tab's cursor onto the given article, paging the
// list so the row is on screen.
func (a *App) scrollToArticle(key string, articleID int64) {
	tl, ok := a.tabLists[key]
	if !ok {
		return
	}
	for i, item := range tl.model.Items() {
		if ai, ok := item.(articleItem); ok && ai.article.ID == articleID {
			tl.model.Select(i)
			return
		}
	}
}

func (a *App) activeRoute() (tabs.Route, bool) {
	active := a.pager.Active()
	if active < 0 || active >= len(a.routes) {
		return tabs.Route{}, false
	}
	return a.routes[active], true
}

func (a *App) activeTabList() *tabList {
	route, ok := a.activeRoute()
	if !ok {
		return nil
	}
	return a.tabLists[route.Key]
}

// selectedArticle is the article under the active tab's cursor, or nil.
func (a *App) selectedArticle() *storage.Article {
	tl := a.activeTabList()
	if tl == nil {
		return nil
	}
	if item, ok := tl.model.SelectedItem().(articleItem); ok {
		return item.article
	}
	return nil
}

// shouldLoadMore reports whether the active tab's cursor has drifted close
// enough to the end to warrant fetching the next page.
func (a *App) shouldLoadMore() bool {
	route, ok := a.activeRoute()
	if !ok {
		return false
	}
	tl := a.tabLists[route.Key]
	if tl == nil || !tl.loaded {
		return false
	}
	page, ok := a.coordinator.Snapshot(route.Key)
	if !ok || !page.HasMore || page.LoadingMore || page.Refreshing {
		return false
	}
	return tl.model.Index() >= len(tl.model.Items())-loadMoreThreshold
}

// rebuildRoutes derives the tab order from the current source list and
// pushes it into the strip and the pager. Lists for tabs that no longer
// exist are dropped.
func (a *App) rebuildRoutes() {
	a.routes = tabs.BuildRoutes(a.sources, a.config.Tabs.ShowAggregate)
	if a.config.Tabs.ShowAggregate && a.config.Tabs.AggregateTitle != "" && len(a.routes) > 0 {
		a.routes[0].Title = a.config.Tabs.AggregateTitle
	}

	a.tabBar.SetRoutes(a.routes)
	a.pager = a.pager.SetRoutes(a.routes)

	alive := make(map[string]struct{}, len(a.routes))
	for _, route := range a.routes {
		alive[route.Key] = struct{}{}
	}
	for key := range a.tabLists {
		if _, ok := alive[key]; !ok {
			delete(a.tabLists, key)
		}
	}

	a.mountTabs()
}

// routeIndexFor locates the tab for a deep-linked source, by id first and by
// title as the fallback for name-based links.
func (a *App) routeIndexFor(req navRequest) (int, bool) {
	for i, route := range a.routes {
		if req.sourceID != 0 && route.SourceID == req.sourceID {
			return i, true
		}
	}
	if req.name != "" {
		for i, route := range a.routes {
			if !route.IsAggregate() && route.Title == req.name {
				return i, true
			}
		}
	}
	return 0, false
}

type navRequest struct {
	sourceID int64
	name     string
}
