package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/riffle/internal/search"
	"github.com/pders01/riffle/internal/storage"
	"github.com/pders01/riffle/internal/tabs"
)

const searchResultLimit = 20

func (a *App) loadSources() tea.Cmd {
	return func() tea.Msg {
		sources, err := a.store.Sources()
		if err != nil {
			return failMsg("loading sources", err)
		}
		return sourcesLoadedMsg{sources: sources}
	}
}

// ensureTab asks the coordinator for the tab's first page. Already-loaded
// and in-flight tabs come back immediately; the coordinator holds that
// guard, not the UI.
func (a *App) ensureTab(route tabs.Route) tea.Cmd {
	return func() tea.Msg {
		err := a.coordinator.EnsureLoaded(a.ctx, route)
		return tabLoadedMsg{key: route.Key, err: err}
	}
}

func (a *App) loadMore(route tabs.Route) tea.Cmd {
	return func() tea.Msg {
		err := a.coordinator.LoadMore(a.ctx, route)
		return moreLoadedMsg{key: route.Key, err: err}
	}
}

func (a *App) refreshTab(route tabs.Route) tea.Cmd {
	return func() tea.Msg {
		err := a.coordinator.Refresh(a.ctx, route)
		return tabRefreshedMsg{key: route.Key, title: route.Title, err: err}
	}
}

func (a *App) addSource(rawURL string) tea.Cmd {
	return func() tea.Msg {
		source, err := a.syncer.AddSource(a.ctx, rawURL)
		return sourceAddedMsg{source: source, err: err}
	}
}

func (a *App) renameSource(id int64, title string) tea.Cmd {
	return func() tea.Msg {
		err := retryOperation(func() error { return a.syncer.RenameSource(id, title) })
		return sourceRenamedMsg{err: err}
	}
}

func (a *App) deleteSource(id int64) tea.Cmd {
	return func() tea.Msg {
		err := retryOperation(func() error { return a.syncer.RemoveSource(id) })
		return sourceDeletedMsg{err: err}
	}
}

// markArticleRead persists the read flag and patches the shared article so
// the cached page and every list row agree without a refetch.
func (a *App) markArticleRead(article *storage.Article) tea.Cmd {
	return func() tea.Msg {
		if article.Read {
			return nil
		}
		if err := retryOperation(func() error { return a.store.MarkArticleRead(article.ID, true) }); err != nil {
			return failMsg("marking article read", err)
		}
		article.Read = true
		return nil
	}
}

func (a *App) toggleRead(article *storage.Article, key string) tea.Cmd {
	return func() tea.Msg {
		target := !article.Read
		if err := retryOperation(func() error { return a.store.MarkArticleRead(article.ID, target) }); err != nil {
			return failMsg("toggling read", err)
		}
		article.Read = target
		return tabTouchedMsg{key: key}
	}
}

func (a *App) toggleStar(article *storage.Article, key string) tea.Cmd {
	return func() tea.Msg {
		target := !article.Starred
		if err := retryOperation(func() error { return a.store.MarkArticleStarred(article.ID, target) }); err != nil {
			return failMsg("toggling star", err)
		}
		article.Starred = target
		return tabTouchedMsg{key: key}
	}
}

func (a *App) renderArticle(article *storage.Article) tea.Cmd {
	return func() tea.Msg {
		var content strings.Builder
		fmt.Fprintf(&content, "# %s\n\n", article.Title)
		if !article.Published.IsZero() {
			fmt.Fprintf(&content, "*Published: %s*\n\n", article.Published.Format(time.RFC1123))
		}

		if article.URL != "" {
			fmt.Fprintf(&content, "[Read Online](%s)\n\n", article.URL)
		}

		if len(article.MediaURLs) > 0 {
			content.WriteString("**Media:**\n")
			for _, u := range article.MediaURLs {
				fmt.Fprintf(&content, "- %s\n", u)
			}
			content.WriteString("\n")
		}

		content.WriteString("---\n\n")

		if article.Content != "" {
			content.WriteString(article.Content)
		} else {
			content.WriteString(article.Description)
		}

		r, err := a.getRenderer()
		if err != nil {
			return articleRenderedMsg{articleID: article.ID, content: "Error initializing renderer: " + err.Error()}
		}

		rendered, err := r.Render(content.String())
		if err != nil {
			rendered = fmt.Sprintf("# Error\n\nFailed to render article: %s\n\nPress %s to go back.",
				err.Error(), a.config.Keys.Bindings.Back)
		}

		return articleRenderedMsg{articleID: article.ID, content: rendered}
	}
}

// openSearchResult resolves a search hit back to its stored article before
// the reader opens it; the index only carries ids and snippets.
func (a *App) openSearchResult(result *search.Result) tea.Cmd {
	return func() tea.Msg {
		article, err := a.store.Article(result.ArticleID)
		if err != nil {
			return failMsg("loading search hit", err)
		}
		return searchHitMsg{article: article}
	}
}

func (a *App) performSearch(query string, seq int) tea.Cmd {
	titles := make(map[int64]string, len(a.sources))
	for _, s := range a.sources {
		titles[s.ID] = s.Title
	}
	return func() tea.Msg {
		results, err := a.searcher.Search(a.ctx, query, searchResultLimit)
		if err != nil {
			return searchResultsMsg{seq: seq, err: err}
		}
		items := make([]searchResultItem, len(results))
		for i, r := range results {
			items[i] = searchResultItem{result: r, sourceTitle: titles[r.SourceID]}
		}
		return searchResultsMsg{seq: seq, results: items}
	}
}

func (a *App) openLink(rawURL string) tea.Cmd {
	return func() tea.Msg {
		if err := a.opener.Open(rawURL); err != nil {
			return failMsg("opening link", err)
		}
		return nil
	}
}

// waitForCacheEvent blocks on the bus relay channel and re-arms itself from
// the Update loop after each delivery.
func (a *App) waitForCacheEvent() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-a.busEvents
		if !ok {
			return nil
		}
		return cacheEventMsg{event: event}
	}
}

// retryOperation retries a database operation up to 3 times with exponential
// backoff.
func retryOperation(operation func() error) error {
	maxRetries := 3
	baseDelay := 100 * time.Millisecond

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		if err := operation(); err != nil {
			lastErr = err
			if i < maxRetries-1 {
				delay := baseDelay * time.Duration(1<<i)
				time.Sleep(delay)
				continue
			}
		} else {
			return nil
		}
	}
	return lastErr
}
