package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/riffle/internal/config"
	"github.com/pders01/riffle/internal/debuglog"
	"github.com/pders01/riffle/internal/events"
	"github.com/pders01/riffle/internal/feed"
	"github.com/pders01/riffle/internal/feedcache"
	"github.com/pders01/riffle/internal/navsignal"
	"github.com/pders01/riffle/internal/opener"
	"github.com/pders01/riffle/internal/pager"
	"github.com/pders01/riffle/internal/search"
	"github.com/pders01/riffle/internal/storage"
	"github.com/pders01/riffle/internal/tabs"
)

const (
	// stripHeight is the tab strip's two rows: labels and indicator.
	stripHeight = 2
	// statusHeight is the separator plus the status line.
	statusHeight = 2
)

// Deps carries everything the app model consumes. The cmd layer owns the
// lifecycles; the TUI only borrows them.
type Deps struct {
	Ctx         context.Context
	Config      *config.Config
	Store       *storage.Store
	Syncer      *feed.Syncer
	Coordinator *feedcache.Coordinator
	Bus         *events.Bus
	Bridge      *navsignal.Bridge
	Searcher    search.Searcher
	Opener      *opener.Opener
}

type App struct {
	config      *config.Config
	store       *storage.Store
	syncer      *feed.Syncer
	coordinator *feedcache.Coordinator
	bus         *events.Bus
	bridge      *navsignal.Bridge
	searcher    search.Searcher
	opener      *opener.Opener
	keyHandler  *KeyHandler
	keys        keyMap
	ctx         context.Context

	registry  *tabs.Registry
	scrollBus *tabs.ScrollBus
	tabBar    *tabs.Controller
	pager     pager.Model

	sources  []*storage.Source
	routes   []tabs.Route
	tabLists map[string]*tabList

	viewport       viewport.Model
	currentArticle *storage.Article
	loadingArticle bool
	cameFromSearch bool

	textInput      textinput.Model
	sourceToRename *storage.Source
	sourceToDelete *storage.Source

	searchInput   textinput.Model
	searchList    list.Model
	searchHits    []searchResultItem
	pendingSearch string
	searchSeq     int

	spinner  spinner.Model
	help     help.Model
	showHelp bool
	status   statusState
	working  int

	busEvents   chan events.CacheEvent
	unsubscribe func()

	view         View
	previousView View
	width        int
	height       int

	glamourRenderer *glamour.TermRenderer
	rendererWidth   int

	log *debuglog.Logger
}

func NewApp(deps Deps) *App {
	cfg := deps.Config

	registry := tabs.NewRegistry()
	scrollBus := tabs.NewScrollBus()

	barStyles := tabs.DefaultBarStyles()
	if c := cfg.UI.Colors; c.Text != "" && c.Muted != "" && c.Accent != "" {
		barStyles = tabs.BarStyles{
			Emphasized: lipgloss.Color(c.Text),
			Dimmed:     lipgloss.Color(c.Muted),
			Indicator:  lipgloss.Color(c.Accent),
		}
	}

	ti := textinput.New()
	ti.Placeholder = "Enter feed URL..."

	si := textinput.New()
	si.Placeholder = "Search articles..."

	searchList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	searchList.SetShowTitle(false)
	searchList.SetShowStatusBar(false)
	searchList.SetShowHelp(false)
	searchList.SetFilteringEnabled(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(AccentColor)

	hp := help.New()
	hp.ShowAll = true

	app := &App{
		config:       cfg,
		store:        deps.Store,
		syncer:       deps.Syncer,
		coordinator:  deps.Coordinator,
		bus:          deps.Bus,
		bridge:       deps.Bridge,
		searcher:     deps.Searcher,
		opener:       deps.Opener,
		keys:         newKeyMap(cfg.Keys.Bindings),
		ctx:          context.Background(),
		registry:     registry,
		scrollBus:    scrollBus,
		tabLists:     make(map[string]*tabList),
		viewport:     viewport.New(0, 0),
		textInput:    ti,
		searchInput:  si,
		searchList:   searchList,
		spinner:      sp,
		help:         hp,
		view:         ViewTabs,
		previousView: ViewTabs,
		log:          debuglog.For("tui"),
	}
	if deps.Ctx != nil {
		app.ctx = deps.Ctx
	}
	if app.bridge == nil {
		app.bridge = navsignal.NewBridge()
	}

	app.tabBar = tabs.NewController(registry, scrollBus, barStyles, nil)
	app.pager = pager.New(nil, scrollBus, app.renderTabPage)
	app.keyHandler = NewKeyHandler(app, app.keys)

	if deps.Bus != nil {
		app.busEvents = make(chan events.CacheEvent, 16)
		app.unsubscribe = deps.Bus.Subscribe(func(event events.CacheEvent) {
			select {
			case app.busEvents <- event:
			default:
				// The coordinator already handled the event synchronously;
				// the relay is advisory.
			}
		})
	}

	return app
}

// Close releases the bus subscription. The cmd layer calls it once the
// program has exited.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnterAltScreen, a.loadSources()}
	if a.busEvents != nil {
		cmds = append(cmds, a.waitForCacheEvent())
	}
	return tea.Batch(cmds...)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case tea.MouseMsg:
		return a, a.handleMouse(msg)

	case pager.FrameMsg:
		var cmd tea.Cmd
		a.pager, cmd = a.pager.Update(msg)
		a.tabBar.Tick()
		return a, cmd

	case pager.IndexChangedMsg:
		a.tabBar.SetActive(msg.Index)
		a.mountTabs()
		if route, ok := a.activeRoute(); ok {
			cmds = append(cmds, a.ensureTab(route))
		}

	case spinner.TickMsg:
		if a.working > 0 {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case sourcesLoadedMsg:
		a.sources = msg.sources
		a.rebuildRoutes()
		if req, ok := a.bridge.ConsumePendingSource(); ok {
			if cmd := a.activateSourceTab(navRequest{sourceID: req.SourceID, name: req.Name}); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		if route, ok := a.activeRoute(); ok {
			cmds = append(cmds, a.ensureTab(route))
		}

	case tabLoadedMsg:
		a.syncTabList(msg.key)
		if msg.err != nil {
			cmds = append(cmds, a.setStatus("✗ couldn't load articles", StatusWarn))
		}

	case moreLoadedMsg:
		a.syncTabList(msg.key)
		if msg.err != nil {
			cmds = append(cmds, a.setStatus("✗ couldn't load more", StatusWarn))
		}

	case tabRefreshedMsg:
		a.finishWork()
		a.syncTabList(msg.key)
		if msg.err != nil {
			cmds = append(cmds, a.setStatus("✗ couldn't refresh "+msg.title, StatusWarn))
		} else if page, ok := a.coordinator.Snapshot(msg.key); ok {
			cmds = append(cmds, a.setStatus(MsgRefreshed(msg.title, len(page.Articles)), StatusSuccess))
		}

	case tabTouchedMsg:
		a.syncTabList(msg.key)

	case articleRenderedMsg:
		if a.view == ViewReader && a.currentArticle != nil && a.currentArticle.ID == msg.articleID {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
			a.loadingArticle = false
		}

	case searchHitMsg:
		a.previousView = ViewTabs
		a.bridge.RequestSource(msg.article.SourceID, "")
		if req, ok := a.bridge.ConsumePendingSource(); ok {
			if cmd := a.activateSourceTab(navRequest{sourceID: req.SourceID, name: req.Name}); cmd != nil {
				cmds = append(cmds, cmd)
			}
			if route, ok := a.activeRoute(); ok {
				cmds = append(cmds, a.ensureTab(route))
			}
		}
		model, cmd := a.openReader(msg.article, true)
		cmds = append(cmds, cmd)
		return model, tea.Batch(cmds...)

	case sourceAddedMsg:
		a.finishWork()
		if msg.err != nil {
			cmds = append(cmds, a.setStatus("✗ "+msg.err.Error(), StatusError))
		} else {
			a.view = ViewTabs
			a.textInput.Blur()
			title := msg.source.Title
			if title == "" {
				title = msg.source.URL
			}
			cmds = append(cmds, a.setStatus(MsgAddedSource(title), StatusSuccess), a.loadSources())
		}

	case sourceRenamedMsg:
		a.sourceToRename = nil
		a.textInput.Blur()
		a.view = ViewTabs
		if msg.err != nil {
			cmds = append(cmds, a.setStatus("✗ "+msg.err.Error(), StatusError))
		} else {
			cmds = append(cmds, a.setStatus(MsgSourceRenamed, StatusSuccess), a.loadSources())
		}

	case sourceDeletedMsg:
		a.sourceToDelete = nil
		a.view = ViewTabs
		if msg.err != nil {
			cmds = append(cmds, a.setStatus("✗ "+msg.err.Error(), StatusError))
		} else {
			cmds = append(cmds, a.setStatus(MsgSourceDeleted, StatusSuccess), a.loadSources())
		}

	case searchResultsMsg:
		if msg.seq == a.searchSeq && a.view == ViewSearch {
			if msg.err != nil {
				cmds = append(cmds, a.setStatus("✗ search failed", StatusWarn))
			} else {
				a.searchHits = msg.results
				items := make([]list.Item, len(msg.results))
				for i, r := range msg.results {
					items[i] = r
				}
				a.searchList.SetItems(items)
				cmds = append(cmds, a.setStatus(MsgResultsCount(len(msg.results)), StatusInfo))
			}
		}

	case searchDebounceFireMsg:
		if msg.seq == a.searchSeq && a.view == ViewSearch && len(a.pendingSearch) >= 2 {
			cmds = append(cmds, a.performSearch(a.pendingSearch, msg.seq))
		}

	case statusExpireMsg:
		if msg.seq == a.status.seq {
			a.status.text = ""
		}

	case cacheEventMsg:
		cmds = append(cmds, a.handleCacheEvent(msg.event)...)
		cmds = append(cmds, a.waitForCacheEvent())

	case errorMsg:
		if msg.err != nil {
			a.log.Errorf("%v", msg.err)
			cmds = append(cmds, a.setStatus("✗ "+msg.err.Error(), StatusError))
		}
	}

	cmds = append(cmds, a.updateFocused(msg))

	return a, tea.Batch(cmds...)
}

// updateFocused keeps the focused text input fed with non-key messages such
// as cursor blinks. Key messages never reach here; the key handler owns
// those.
func (a *App) updateFocused(msg tea.Msg) tea.Cmd {
	switch a.view {
	case ViewAddSource, ViewRenameSource:
		var cmd tea.Cmd
		a.textInput, cmd = a.textInput.Update(msg)
		return cmd
	case ViewSearch:
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		return cmd
	default:
		return nil
	}
}

// handleCacheEvent reacts to invalidations published behind the UI's back:
// reload the route list when the source set changed shape and re-kick
// whatever tab is on screen. Idle tabs reload lazily on their next visit.
func (a *App) handleCacheEvent(event events.CacheEvent) []tea.Cmd {
	var cmds []tea.Cmd
	switch event.Kind {
	case events.SourceDeleted, events.SourceUpdated:
		cmds = append(cmds, a.loadSources())
	case events.BackgroundSyncCompleted:
		cmds = append(cmds, a.setStatus(MsgSyncFinished, StatusSuccess))
	}
	if route, ok := a.activeRoute(); ok {
		cmds = append(cmds, a.ensureTab(route))
	}
	return cmds
}

func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft &&
		a.view == ViewTabs && msg.Y < stripHeight {
		if index, ok := a.tabBar.RouteAt(msg.X); ok {
			return a.jumpToTab(index)
		}
		return nil
	}

	switch a.view {
	case ViewTabs:
		if tl := a.activeTabList(); tl != nil {
			var cmd tea.Cmd
			tl.model, cmd = tl.model.Update(msg)
			return cmd
		}
	case ViewReader:
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return cmd
	}
	return nil
}

// jumpToTab activates a tab without a transition animation; the indicator's
// own motion supplies the cue.
func (a *App) jumpToTab(index int) tea.Cmd {
	a.tabBar.Tap(index)
	var cmd tea.Cmd
	a.pager, cmd = a.pager.JumpTo(index)
	return cmd
}

func (a *App) activateSourceTab(req navRequest) tea.Cmd {
	index, ok := a.routeIndexFor(req)
	if !ok {
		return nil
	}
	return a.jumpToTab(index)
}

func (a *App) activeSource() *storage.Source {
	route, ok := a.activeRoute()
	if !ok || route.IsAggregate() {
		return nil
	}
	for _, source := range a.sources {
		if source.ID == route.SourceID {
			return source
		}
	}
	return nil
}

// openReader shows an article and records the visit with the navigation
// bridge; that record is what decides the scroll-back and refresh when the
// tabbed screen regains focus.
func (a *App) openReader(article *storage.Article, fromSearch bool) (tea.Model, tea.Cmd) {
	a.currentArticle = article
	a.cameFromSearch = fromSearch
	a.loadingArticle = true
	a.view = ViewReader
	a.bridge.RecordVisit(article.ID)
	return a, tea.Batch(
		a.setStatus(MsgLoadingArticle, StatusInfo),
		a.markArticleRead(article),
		a.renderArticle(article),
	)
}

// enterTabsView returns to the tabbed screen and consumes the pending
// navigation signal. The bridge clears it in the same step, so a second
// return is a no-op.
func (a *App) enterTabsView() (tea.Model, tea.Cmd) {
	a.view = ViewTabs
	return a, a.consumeNavSignal()
}

func (a *App) consumeNavSignal() tea.Cmd {
	sig := a.bridge.ConsumePendingSignal()
	route, ok := a.activeRoute()
	if !ok {
		return nil
	}
	var cmds []tea.Cmd
	if sig.ShouldRefresh {
		cmds = append(cmds,
			a.setStatus(MsgRefreshing, StatusInfo),
			a.startWork(),
			a.refreshTab(route),
		)
	}
	if sig.ShouldScroll {
		a.scrollToArticle(route.Key, sig.ArticleID)
	}
	return tea.Batch(cmds...)
}

func (a *App) exitSearch() {
	a.searchInput.Reset()
	a.searchInput.Blur()
	a.searchHits = nil
	a.searchList.SetItems([]list.Item{})
	a.pendingSearch = ""
}

func (a *App) startWork() tea.Cmd {
	a.working++
	if a.working == 1 {
		return a.spinner.Tick
	}
	return nil
}

func (a *App) finishWork() {
	if a.working > 0 {
		a.working--
	}
}

func (a *App) contentHeight() int {
	h := a.height - stripHeight - statusHeight
	if h < 1 {
		h = 1
	}
	return h
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height

	a.tabBar.SetWidth(width)
	a.pager = a.pager.SetSize(width, a.contentHeight())
	for _, tl := range a.tabLists {
		tl.model.SetSize(width, a.contentHeight())
	}

	a.viewport.Width = width
	a.viewport.Height = height - statusHeight

	searchListHeight := height - 10
	if searchListHeight < 5 {
		searchListHeight = 5
	}
	a.searchList.SetSize(width, searchListHeight)

	inputWidth := width - 8
	if inputWidth < 20 {
		inputWidth = width - 4
	}
	a.textInput.Width = inputWidth
	a.searchInput.Width = inputWidth

	a.help.Width = width
}

// renderTabPage is the pager's render callback for one mounted tab.
func (a *App) renderTabPage(route tabs.Route, _, width, height int) string {
	tl, ok := a.tabLists[route.Key]
	if !ok || !tl.loaded {
		return renderCentered(width, height, renderMuted("Loading…"))
	}
	if len(tl.model.Items()) == 0 {
		if route.IsAggregate() && len(a.sources) == 0 {
			return renderCentered(width, height, GetWelcomeMessage(a.config.Keys.Bindings.AddSource))
		}
		return renderCentered(width, height,
			renderMuted("No articles yet • "+a.config.Keys.Bindings.Refresh+" to refresh"))
	}
	return tl.model.View()
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	maxWidth := a.config.UI.Reader.MaxWidth
	if maxWidth <= 0 {
		maxWidth = 100
	}
	minWidth := a.config.UI.Reader.MinWidth
	if minWidth <= 0 {
		minWidth = 40
	}

	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > maxWidth {
		wordWrapWidth = maxWidth
	}
	if wordWrapWidth < minWidth {
		wordWrapWidth = minWidth
	}
	if a.width < 50 {
		wordWrapWidth = a.width - 4
		if wordWrapWidth < 20 {
			wordWrapWidth = 20
		}
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) View() string {
	if a.width <= 0 || a.height <= 0 {
		return ""
	}

	var content string

	switch a.view {
	case ViewTabs:
		switch {
		case a.showHelp:
			content = renderCentered(a.width, a.height-statusHeight, a.help.View(a.keys))
		case len(a.routes) == 0:
			content = renderCentered(a.width, a.height-statusHeight,
				GetWelcomeMessage(a.config.Keys.Bindings.AddSource))
		default:
			content = lipgloss.JoinVertical(lipgloss.Top, a.tabBar.View(), a.pager.View())
		}

	case ViewReader:
		if a.loadingArticle {
			content = renderCentered(a.width, a.height-statusHeight, renderMuted(MsgLoadingArticle))
		} else {
			content = a.viewport.View()
		}

	case ViewAddSource:
		content = renderCentered(a.width, a.height-statusHeight,
			lipgloss.JoinVertical(
				lipgloss.Center,
				TitleStyle.Render("› add source"),
				"",
				renderInputFrame(a.textInput.View(), a.textInput.Focused(), a.textInput.Width),
				"",
				renderHelp("Press Enter to add, Esc to cancel"),
			),
		)

	case ViewRenameSource:
		subtitle := ""
		if a.sourceToRename != nil {
			subtitle = truncateMiddle(a.sourceToRename.URL, a.width-8)
		}
		content = renderCentered(a.width, a.height-statusHeight,
			lipgloss.JoinVertical(
				lipgloss.Center,
				TitleStyle.Render("› rename source"),
				"",
				renderMuted(subtitle),
				"",
				renderInputFrame(a.textInput.View(), a.textInput.Focused(), a.textInput.Width),
				"",
				renderHelp("Press Enter to rename, Esc to cancel"),
			),
		)

	case ViewDeleteConfirm:
		content = a.renderDeleteConfirm()

	case ViewSearch:
		content = a.renderSearch()
	}

	status := a.statusLine()
	if status == "" {
		return content
	}

	separatorWidth := a.width - 2
	if separatorWidth < 0 {
		separatorWidth = 0
	}
	separator := SeparatorStyle.Render("─" + strings.Repeat("─", separatorWidth))

	return lipgloss.JoinVertical(lipgloss.Top, content, separator, status)
}

func (a *App) renderDeleteConfirm() string {
	name := "Unknown source"
	detail := ""
	if a.sourceToDelete != nil {
		name = a.sourceToDelete.Title
		if name == "" {
			name = a.sourceToDelete.URL
		}
		detail = truncateMiddle(a.sourceToDelete.URL, a.width-8)
	}

	modalWidth := (a.width * 4) / 5
	if modalWidth < 20 {
		modalWidth = a.width - 4
		if modalWidth < 15 {
			modalWidth = a.width
		}
	}
	name = truncateEnd(name, modalWidth-4)

	return renderCentered(a.width, a.height-statusHeight,
		lipgloss.JoinVertical(
			lipgloss.Center,
			StatusErrorStyle.Render("⚠ Delete Source"),
			"",
			lipgloss.NewStyle().
				Foreground(TextColor).
				Width(modalWidth).
				Align(lipgloss.Center).
				Render("Delete this source and all of its articles?"),
			"",
			lipgloss.NewStyle().
				Foreground(UnreadColor).
				Bold(true).
				Width(modalWidth).
				Align(lipgloss.Center).
				Render(name),
			renderMuted(detail),
			"",
			"",
			renderHelp("Enter: confirm • Esc: cancel"),
		),
	)
}

func (a *App) renderSearch() string {
	inputWidth := a.width - 8
	if inputWidth < 10 {
		inputWidth = a.width - 4
	}
	a.searchInput.Width = inputWidth

	header := "› search"
	if a.previousView == ViewReader && a.currentArticle != nil {
		header = "› search from: " + truncateEnd(a.currentArticle.Title, a.width-24)
	}

	var helpText string
	switch {
	case a.searchInput.Focused():
		helpText = "Type to search • Tab/↓: results • Esc: back"
	case len(a.searchList.Items()) > 0:
		helpText = "↑↓: navigate • Enter: open • Tab/↑: search box • Esc: back"
	default:
		helpText = "No results • Tab/↑: search box • Esc: back"
	}

	searchContent := lipgloss.JoinVertical(
		lipgloss.Top,
		renderHeader(header, "", a.width),
		"",
		renderInputFrame(a.searchInput.View(), a.searchInput.Focused(), inputWidth),
		renderMuted(helpText),
		"",
		a.searchList.View(),
	)

	return lipgloss.NewStyle().
		Width(a.width).
		Height(a.height - statusHeight).
		MaxHeight(a.height - statusHeight).
		Render(searchContent)
}

func (a *App) statusLine() string {
	if a.status.text != "" {
		text := truncateEnd(a.status.text, a.width-4)
		if a.working > 0 {
			text = a.spinner.View() + " " + text
		}
		return lipgloss.NewStyle().
			Width(a.width).
			Padding(0, 1).
			Render(a.statusStyle(a.status.kind)(text))
	}

	commands := a.keyHandler.GetHelpForCurrentView()
	if len(commands) == 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Width(a.width).
		Padding(0, 1).
		Foreground(MutedColor).
		Render(truncateEnd(strings.Join(commands, " • "), a.width-2))
}

type searchResultItem struct {
	result      *search.Result
	sourceTitle string
}

func (i searchResultItem) Title() string {
	return lipgloss.NewStyle().Foreground(TextColor).Render(oneline(i.result.Title))
}

func (i searchResultItem) Description() string {
	desc := truncateEnd(oneline(i.result.Snippet), 60)
	from := i.sourceTitle
	if from == "" {
		from = "unknown source"
	}
	return lipgloss.NewStyle().
		Foreground(MutedColor).
		Render(desc + " • from " + from)
}

func (i searchResultItem) FilterValue() string { return i.result.Title }

type sourcesLoadedMsg struct {
	sources []*storage.Source
}

type tabLoadedMsg struct {
	key string
	err error
}

type moreLoadedMsg struct {
	key string
	err error
}

type tabRefreshedMsg struct {
	key   string
	title string
	err   error
}

type tabTouchedMsg struct {
	key string
}

type articleRenderedMsg struct {
	articleID int64
	content   string
}

type searchHitMsg struct {
	article *storage.Article
}

type sourceAddedMsg struct {
	source *storage.Source
	err    error
}

type sourceRenamedMsg struct {
	err error
}

type sourceDeletedMsg struct {
	err error
}

type searchResultsMsg struct {
	seq     int
	results []searchResultItem
	err     error
}

type searchDebounceFireMsg struct {
	seq int
}

type statusExpireMsg struct {
	seq int
}

type cacheEventMsg struct {
	event events.CacheEvent
}

type errorMsg struct {
	err error
}
