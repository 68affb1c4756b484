package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/riffle/internal/storage"
)

func TestKeyHandlerInitialized(t *testing.T) {
	app := newTestApp(t, map[int64][]*storage.Article{})

	require.NotNil(t, app.keyHandler)
	assert.Same(t, app, app.keyHandler.app)
}

func TestTextInputModeDetection(t *testing.T) {
	app := newTestApp(t, map[int64][]*storage.Article{})

	tests := []struct {
		name     string
		view     View
		focus    func(*App)
		expected bool
	}{
		{name: "tabs view is never input mode", view: ViewTabs, expected: false},
		{name: "add source with focused input", view: ViewAddSource,
			focus: func(a *App) { a.textInput.Focus() }, expected: true},
		{name: "add source with blurred input", view: ViewAddSource,
			focus: func(a *App) { a.textInput.Blur() }, expected: false},
		{name: "search with focused input", view: ViewSearch,
			focus: func(a *App) { a.searchInput.Focus() }, expected: true},
		{name: "search with blurred input", view: ViewSearch,
			focus: func(a *App) { a.searchInput.Blur() }, expected: false},
		{name: "reader is never input mode", view: ViewReader, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app.view = tt.view
			if tt.focus != nil {
				tt.focus(app)
			}
			assert.Equal(t, tt.expected, app.keyHandler.isInTextInputMode())
		})
	}
}

func TestJumpIndex(t *testing.T) {
	tests := []struct {
		key      string
		index    int
		expected bool
	}{
		{key: "1", index: 0, expected: true},
		{key: "5", index: 4, expected: true},
		{key: "9", index: 8, expected: true},
		{key: "0", expected: false},
		{key: "a", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(tt.key)}
			index, ok := jumpIndex(msg)
			assert.Equal(t, tt.expected, ok)
			if tt.expected {
				assert.Equal(t, tt.index, index)
			}
		})
	}
}

func TestSanitizeSearchInput(t *testing.T) {
	assert.Equal(t, "two words", sanitizeSearchInput("  two \n words\t"))
	assert.Equal(t, "", sanitizeSearchInput("   "))

	long := strings.Repeat("a", 300)
	assert.Len(t, sanitizeSearchInput(long), 256)
}

func TestSearchTypingDebouncesQueries(t *testing.T) {
	app := newTestApp(t, map[int64][]*storage.Article{})
	app.view = ViewSearch
	app.searchInput.Focus()

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	require.NotNil(t, cmd, "a changed query should schedule a debounce tick")
	seqAfterFirst := app.searchSeq

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'o'}})
	assert.Greater(t, app.searchSeq, seqAfterFirst, "each edit must outdate earlier ticks")
	assert.Equal(t, "go", app.pendingSearch)

	// The stale tick fires and must not start a search.
	_, cmd = app.Update(searchDebounceFireMsg{seq: seqAfterFirst})
	assert.Nil(t, cmd)

	// The current tick fires for a query long enough to run.
	_, cmd = app.Update(searchDebounceFireMsg{seq: app.searchSeq})
	assert.NotNil(t, cmd)
}

func TestShortQueriesDoNotFire(t *testing.T) {
	app := newTestApp(t, map[int64][]*storage.Article{})
	app.view = ViewSearch
	app.searchInput.Focus()

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})

	_, cmd := app.Update(searchDebounceFireMsg{seq: app.searchSeq})
	assert.Nil(t, cmd, "single-character queries stay local")
}

func TestReaderStepStopsAtEnds(t *testing.T) {
	app := newTestApp(t, map[int64][]*storage.Article{1: testArticles(1, 2)})
	seedSources(t, app, 0)

	app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	first := app.currentArticle
	require.NotNil(t, first)

	// Stepping back from the first article goes nowhere.
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	assert.Equal(t, first.ID, app.currentArticle.ID)

	// Forward once, then forward again off the end.
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	second := app.currentArticle
	require.NotEqual(t, first.ID, second.ID)

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	assert.Equal(t, second.ID, app.currentArticle.ID)
}

func TestBackFromSearchReturnsToReader(t *testing.T) {
	app := newTestApp(t, map[int64][]*storage.Article{1: testArticles(1, 2)})
	seedSources(t, app, 0)

	app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ViewReader, app.view)

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	require.Equal(t, ViewSearch, app.view)

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewReader, app.view, "search opened from the reader should fall back to it")
}

func TestBackFromReaderReturnsToSearchHit(t *testing.T) {
	app := newTestApp(t, map[int64][]*storage.Article{
		1: testArticles(1, 2),
		2: testArticles(2, 2),
	})
	seedSources(t, app, 0)

	hit := testArticles(2, 2)[0]
	app.Update(searchHitMsg{article: hit})
	require.Equal(t, ViewReader, app.view)
	require.True(t, app.cameFromSearch)

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewSearch, app.view, "a reader opened from search should return there")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ViewTabs, app.view)
}

func TestHelpToggle(t *testing.T) {
	app := newTestApp(t, map[int64][]*storage.Article{})

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	assert.True(t, app.showHelp)

	// Escape closes the overlay before it would quit the app.
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, app.showHelp)
	assert.Nil(t, cmd)
}

func TestHelpLineMatchesActiveTab(t *testing.T) {
	app := newTestApp(t, map[int64][]*storage.Article{
		1: testArticles(1, 2),
		2: testArticles(2, 2),
	})
	seedSources(t, app, 0)

	aggregate := strings.Join(app.keyHandler.GetHelpForCurrentView(), " ")
	assert.NotContains(t, aggregate, "rename", "the aggregate tab has no source to rename")

	jumpTab(t, app, 1)
	source := strings.Join(app.keyHandler.GetHelpForCurrentView(), " ")
	assert.Contains(t, source, "rename")
	assert.Contains(t, source, "delete")
}

func TestEmptyAddSourceInputIgnored(t *testing.T) {
	app := newTestApp(t, map[int64][]*storage.Article{})
	app.view = ViewAddSource
	app.textInput.Focus()
	app.textInput.SetValue("   ")

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "blank input should not start an add")
	assert.Equal(t, ViewAddSource, app.view)
	assert.Zero(t, app.working)
}
