package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// searchDebounce is how long typing has to pause before a query fires.
const searchDebounce = 250 * time.Millisecond

type KeyHandler struct {
	app  *App
	keys keyMap
}

func NewKeyHandler(app *App, keys keyMap) *KeyHandler {
	return &KeyHandler{app: app, keys: keys}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	if model, cmd, handled := kh.handleCustomKeys(msg); handled {
		return model, cmd
	}

	return kh.delegateToCharm(msg)
}

func (kh *KeyHandler) isInTextInputMode() bool {
	switch kh.app.view {
	case ViewAddSource, ViewRenameSource:
		return kh.app.textInput.Focused()
	case ViewSearch:
		return kh.app.searchInput.Focused()
	default:
		return false
	}
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return kh.navigateBack()
	case "ctrl+c":
		return kh.app, tea.Quit
	case "enter":
		return kh.handleTextInputEnter()
	case "tab", "down":
		if kh.app.view == ViewSearch {
			if len(kh.app.searchList.Items()) > 0 {
				kh.app.searchInput.Blur()
				kh.app.searchList.Select(0)
			}
			return kh.app, nil
		}
		return kh.delegateToTextInput(msg)
	default:
		return kh.delegateToTextInput(msg)
	}
}

func (kh *KeyHandler) handleTextInputEnter() (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewAddSource:
		// Full URL validation happens in the syncer; a failure comes back
		// through sourceAddedMsg as status-line text.
		input := strings.TrimSpace(kh.app.textInput.Value())
		if input == "" {
			return kh.app, nil
		}
		return kh.app, tea.Batch(
			kh.app.setStatus(MsgAddingSource, StatusInfo),
			kh.app.startWork(),
			kh.app.addSource(input),
		)

	case ViewRenameSource:
		input := strings.TrimSpace(kh.app.textInput.Value())
		if input == "" || kh.app.sourceToRename == nil {
			return kh.app, nil
		}
		return kh.app, tea.Batch(
			kh.app.setStatus(MsgRenaming, StatusInfo),
			kh.app.renameSource(kh.app.sourceToRename.ID, input),
		)

	case ViewSearch:
		if items := kh.app.searchList.Items(); len(items) > 0 {
			if item, ok := items[0].(searchResultItem); ok {
				return kh.app, kh.app.openSearchResult(item.result)
			}
		}
		return kh.app, nil

	default:
		return kh.app, nil
	}
}

func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch kh.app.view {
	case ViewAddSource, ViewRenameSource:
		var cmd tea.Cmd
		kh.app.textInput, cmd = kh.app.textInput.Update(msg)
		return kh.app, cmd

	case ViewSearch:
		prev := kh.app.searchInput.Value()
		var cmd tea.Cmd
		kh.app.searchInput, cmd = kh.app.searchInput.Update(msg)

		value := sanitizeSearchInput(kh.app.searchInput.Value())
		if value != prev {
			kh.app.pendingSearch = value
			kh.app.searchSeq++
			seq := kh.app.searchSeq
			return kh.app, tea.Batch(cmd, tea.Tick(searchDebounce, func(time.Time) tea.Msg {
				return searchDebounceFireMsg{seq: seq}
			}))
		}
		return kh.app, cmd

	default:
		return kh.app, nil
	}
}

// handleCustomKeys handles only our own action keys; everything else stays
// with the focused Charm widget.
func (kh *KeyHandler) handleCustomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, kh.keys.Quit):
		return kh.app, tea.Quit, true
	case key.Matches(msg, kh.keys.Back):
		model, cmd := kh.navigateBack()
		return model, cmd, true
	case key.Matches(msg, kh.keys.Help):
		kh.app.showHelp = !kh.app.showHelp
		return kh.app, nil, true
	case key.Matches(msg, kh.keys.Search):
		if kh.app.view == ViewTabs || kh.app.view == ViewReader {
			model, cmd := kh.enterSearchMode()
			return model, cmd, true
		}
	}

	switch kh.app.view {
	case ViewTabs:
		return kh.handleTabsCustomKeys(msg)
	case ViewReader:
		return kh.handleReaderCustomKeys(msg)
	case ViewDeleteConfirm:
		return kh.handleDeleteConfirmKeys(msg)
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleTabsCustomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	a := kh.app

	if index, ok := jumpIndex(msg); ok {
		return a, a.jumpToTab(index), true
	}

	switch {
	case key.Matches(msg, kh.keys.NextTab):
		var cmd tea.Cmd
		a.pager, cmd = a.pager.Next()
		return a, cmd, true

	case key.Matches(msg, kh.keys.PrevTab):
		var cmd tea.Cmd
		a.pager, cmd = a.pager.Prev()
		return a, cmd, true

	case key.Matches(msg, kh.keys.Refresh):
		route, ok := a.activeRoute()
		if !ok {
			return a, nil, true
		}
		return a, tea.Batch(
			a.setStatus(MsgRefreshing, StatusInfo),
			a.startWork(),
			a.refreshTab(route),
		), true

	case key.Matches(msg, kh.keys.AddSource):
		a.view = ViewAddSource
		a.textInput.Reset()
		a.textInput.Placeholder = "Enter feed URL..."
		a.textInput.Focus()
		return a, textinput.Blink, true

	case key.Matches(msg, kh.keys.RenameSource):
		if source := a.activeSource(); source != nil {
			a.sourceToRename = source
			a.view = ViewRenameSource
			a.textInput.Reset()
			a.textInput.Placeholder = "New title..."
			a.textInput.SetValue(source.Title)
			a.textInput.Focus()
			return a, textinput.Blink, true
		}
		return a, nil, true

	case key.Matches(msg, kh.keys.DeleteSource):
		if source := a.activeSource(); source != nil {
			a.sourceToDelete = source
			a.view = ViewDeleteConfirm
		}
		return a, nil, true

	case key.Matches(msg, kh.keys.ToggleRead):
		route, _ := a.activeRoute()
		if article := a.selectedArticle(); article != nil {
			return a, a.toggleRead(article, route.Key), true
		}
		return a, nil, true

	case key.Matches(msg, kh.keys.ToggleStar):
		route, _ := a.activeRoute()
		if article := a.selectedArticle(); article != nil {
			return a, a.toggleStar(article, route.Key), true
		}
		return a, nil, true

	case key.Matches(msg, kh.keys.OpenLink):
		if article := a.selectedArticle(); article != nil && article.URL != "" {
			return a, a.openLink(article.URL), true
		}
		return a, nil, true

	case key.Matches(msg, kh.keys.Select):
		if article := a.selectedArticle(); article != nil {
			model, cmd := a.openReader(article, false)
			return model, cmd, true
		}
		return a, nil, true
	}

	return a, nil, false
}

func (kh *KeyHandler) handleReaderCustomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, kh.keys.OpenLink):
		if article := kh.app.currentArticle; article != nil && article.URL != "" {
			return kh.app, kh.app.openLink(article.URL), true
		}
		return kh.app, nil, true

	case key.Matches(msg, kh.keys.NextArticle):
		model, cmd := kh.readerStep(1)
		return model, cmd, true

	case key.Matches(msg, kh.keys.PrevArticle):
		model, cmd := kh.readerStep(-1)
		return model, cmd, true
	}
	return kh.app, nil, false
}

func (kh *KeyHandler) handleDeleteConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if msg.String() == "enter" && kh.app.sourceToDelete != nil {
		return kh.app, tea.Batch(
			kh.app.setStatus(MsgDeleting, StatusInfo),
			kh.app.deleteSource(kh.app.sourceToDelete.ID),
		), true
	}
	return kh.app, nil, false
}

// readerStep moves the reader to the neighboring article in the active
// tab's cached page. Each step records a visit, which is what arms the
// return-navigation signal.
func (kh *KeyHandler) readerStep(delta int) (tea.Model, tea.Cmd) {
	a := kh.app
	if a.currentArticle == nil {
		return a, nil
	}
	route, ok := a.activeRoute()
	if !ok {
		return a, nil
	}
	page, ok := a.coordinator.Snapshot(route.Key)
	if !ok {
		return a, nil
	}

	index := -1
	for i, article := range page.Articles {
		if article.ID == a.currentArticle.ID {
			index = i
			break
		}
	}
	if index < 0 {
		return a, nil
	}
	next := index + delta
	if next < 0 || next >= len(page.Articles) {
		return a, nil
	}
	return a.openReader(page.Articles[next], a.cameFromSearch)
}

// delegateToCharm lets the focused widget handle all keys we don't
// intercept.
func (kh *KeyHandler) delegateToCharm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app

	switch a.view {
	case ViewTabs:
		route, ok := a.activeRoute()
		if !ok {
			return a, nil
		}
		tl := a.tabLists[route.Key]
		if tl == nil {
			return a, nil
		}
		var cmd tea.Cmd
		tl.model, cmd = tl.model.Update(msg)
		if a.shouldLoadMore() {
			return a, tea.Batch(cmd, a.loadMore(route))
		}
		return a, cmd

	case ViewReader:
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd

	case ViewSearch:
		if !a.searchInput.Focused() {
			switch msg.String() {
			case "tab", "shift+tab":
				a.searchInput.Focus()
				return a, textinput.Blink
			case "up":
				if len(a.searchList.Items()) > 0 && a.searchList.Index() == 0 {
					a.searchInput.Focus()
					return a, textinput.Blink
				}
			case "/", "i":
				a.searchInput.Focus()
				return a, textinput.Blink
			}
		}

		var cmd tea.Cmd
		a.searchList, cmd = a.searchList.Update(msg)
		if msg.String() == "enter" && !a.searchInput.Focused() {
			if item, ok := a.searchList.SelectedItem().(searchResultItem); ok {
				return a, a.openSearchResult(item.result)
			}
		}
		return a, cmd

	default:
		return a, nil
	}
}

func (kh *KeyHandler) enterSearchMode() (tea.Model, tea.Cmd) {
	a := kh.app
	a.previousView = a.view
	a.view = ViewSearch
	a.searchInput.Reset()
	a.searchInput.Focus()
	a.searchHits = nil
	a.searchList.SetItems([]list.Item{})
	a.pendingSearch = ""
	return a, textinput.Blink
}

// navigateBack walks one screen toward the tab strip; leaving the reader or
// search for the tabbed screen consumes the pending navigation signal.
func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	a := kh.app

	switch a.view {
	case ViewAddSource, ViewRenameSource, ViewDeleteConfirm:
		a.view = ViewTabs
		a.sourceToRename = nil
		a.sourceToDelete = nil
		a.textInput.Blur()
		return a, nil

	case ViewSearch:
		target := a.previousView
		a.exitSearch()
		if target == ViewReader && a.currentArticle != nil {
			a.view = ViewReader
			return a, nil
		}
		return a.enterTabsView()

	case ViewReader:
		a.loadingArticle = false
		if a.cameFromSearch {
			a.cameFromSearch = false
			a.view = ViewSearch
			a.searchInput.Blur()
			return a, nil
		}
		a.currentArticle = nil
		return a.enterTabsView()

	case ViewTabs:
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}
		return a, tea.Quit

	default:
		return a, tea.Quit
	}
}

// jumpIndex maps the 1-9 number row onto tab indices.
func jumpIndex(msg tea.KeyMsg) (int, bool) {
	s := msg.String()
	if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		return int(s[0] - '1'), true
	}
	return 0, false
}

// sanitizeSearchInput flattens and bounds a search query.
func sanitizeSearchInput(input string) string {
	input = oneline(input)
	if len(input) > 256 {
		input = input[:256]
	}
	return strings.TrimSpace(input)
}

// GetHelpForCurrentView returns the custom help line; widget-native keys
// stay undocumented here since the widgets render their own hints.
func (kh *KeyHandler) GetHelpForCurrentView() []string {
	b := kh.app.config.Keys.Bindings

	switch kh.app.view {
	case ViewTabs:
		help := []string{
			"enter: read",
			b.PrevTab + "/" + b.NextTab + ": tabs",
			"1-9: jump",
			b.Refresh + ": refresh",
			b.AddSource + ": add",
			b.Search + ": search",
			b.Help + ": help",
		}
		if route, ok := kh.app.activeRoute(); ok && !route.IsAggregate() {
			help = append(help, b.RenameSource+": rename", b.DeleteSource+": delete")
		}
		return help

	case ViewReader:
		return []string{"n/p: next/prev article", b.OpenLink + ": open link", b.Search + ": search", b.Back + ": back"}

	case ViewSearch:
		return []string{"enter: open", "tab: switch focus", b.Back + ": back"}

	case ViewAddSource:
		return []string{"enter: add", b.Back + ": cancel"}

	case ViewRenameSource:
		return []string{"enter: rename", b.Back + ": cancel"}

	case ViewDeleteConfirm:
		return []string{"enter: confirm", b.Back + ": cancel"}

	default:
		return []string{}
	}
}
