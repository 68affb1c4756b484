package pager

import (
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/pders01/riffle/internal/tabs"
)

const (
	fps = 60

	// easeFactor is the per-frame fraction of the remaining distance an
	// animated swipe covers. Snap once the remainder drops under half a cell.
	easeFactor   = 0.35
	snapDistance = 0.5
)

// RenderFunc renders one page's content at the given size.
type RenderFunc func(route tabs.Route, index, width, height int) string

// FrameMsg advances an in-flight swipe animation by one frame.
type FrameMsg struct{}

// IndexChangedMsg reports a committed page change: the offset crossed the
// halfway point to another index. Mid-drag jitter never produces one.
type IndexChangedMsg struct {
	Index int
}

type Styles struct {
	Placeholder lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{Placeholder: lipgloss.NewStyle()}
}

// Model is a horizontal snap pager over the tab routes. Only the committed
// page and its direct neighbors render real content; everything farther
// renders a cheap placeholder. The frame step is the single writer of the
// scroll bus.
type Model struct {
	routes []tabs.Route
	bus    *tabs.ScrollBus
	render RenderFunc
	styles Styles

	width  int
	height int

	active    int
	offset    float64
	target    float64
	animating bool
}

func New(routes []tabs.Route, bus *tabs.ScrollBus, render RenderFunc) Model {
	return Model{
		routes: routes,
		bus:    bus,
		render: render,
		styles: DefaultStyles(),
	}
}

func (m Model) SetStyles(styles Styles) Model {
	m.styles = styles
	return m
}

// SetRoutes swaps the route list, snapping to the clamped active index.
func (m Model) SetRoutes(routes []tabs.Route) Model {
	m.routes = routes
	if clamped := m.clamp(m.active); clamped >= 0 {
		m.active = clamped
	} else {
		m.active = 0
	}
	m.animating = false
	m.offset = float64(m.active * m.width)
	m.target = m.offset
	m.bus.Set(m.offset)
	return m
}

// SetSize resizes the viewport, keeping the committed page in place.
func (m Model) SetSize(width, height int) Model {
	if width == m.width && height == m.height {
		return m
	}
	var targetIndex int
	if m.animating && m.width > 0 {
		targetIndex = m.clamp(int(math.Round(m.target / float64(m.width))))
	}
	m.width = width
	m.height = height
	m.offset = float64(m.active * width)
	if m.animating {
		m.target = float64(targetIndex * width)
		if m.target == m.offset {
			m.animating = false
		}
	} else {
		m.target = m.offset
	}
	m.bus.Set(m.offset)
	return m
}

func (m Model) Active() int { return m.active }

func (m Model) Animating() bool { return m.animating }

// Progress is the fractional page index of the current offset.
func (m Model) Progress() float64 {
	if m.width <= 0 {
		return 0
	}
	return m.offset / float64(m.width)
}

// JumpTo snaps to index with no transition, for tap-driven navigation.
// Out-of-range indices clamp.
func (m Model) JumpTo(index int) (Model, tea.Cmd) {
	index = m.clamp(index)
	if index < 0 {
		return m, nil
	}
	m.animating = false
	m.offset = float64(index * m.width)
	m.target = m.offset
	m.bus.Set(m.offset)
	return m, m.commitIndex()
}

// AnimateTo eases toward index. If an animation is already running it is
// retargeted rather than layered.
func (m Model) AnimateTo(index int) (Model, tea.Cmd) {
	index = m.clamp(index)
	if index < 0 {
		return m, nil
	}
	m.target = float64(index * m.width)
	if m.animating {
		return m, nil
	}
	if m.target == m.offset {
		return m, nil
	}
	m.animating = true
	return m, frameTick()
}

// Next animates one page rightward; at the last page it stays put.
func (m Model) Next() (Model, tea.Cmd) {
	return m.AnimateTo(m.active + 1)
}

// Prev animates one page leftward; at the first page it stays put.
func (m Model) Prev() (Model, tea.Cmd) {
	return m.AnimateTo(m.active - 1)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if _, ok := msg.(FrameMsg); !ok {
		return m, nil
	}
	if !m.animating {
		return m, nil
	}
	return m.step()
}

func (m Model) step() (Model, tea.Cmd) {
	m.offset += (m.target - m.offset) * easeFactor

	var cmds []tea.Cmd
	if math.Abs(m.target-m.offset) < snapDistance {
		m.offset = m.target
		m.animating = false
	} else {
		cmds = append(cmds, frameTick())
	}
	m.bus.Set(m.offset)

	if cmd := m.commitIndex(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// commitIndex emits an IndexChangedMsg when the rounded progress has moved
// to a different page since the last commit.
func (m *Model) commitIndex() tea.Cmd {
	index := m.clamp(int(math.Round(m.Progress())))
	if index < 0 || index == m.active {
		return nil
	}
	m.active = index
	return func() tea.Msg {
		return IndexChangedMsg{Index: index}
	}
}

func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 || len(m.routes) == 0 {
		return ""
	}

	pos := int(math.Round(m.offset))
	lo := pos / m.width
	if lo > len(m.routes)-1 {
		lo = len(m.routes) - 1
	}
	if lo < 0 {
		lo = 0
	}
	cut := pos - lo*m.width
	if cut <= 0 || lo >= len(m.routes)-1 {
		return m.renderPage(lo)
	}
	if cut > m.width {
		cut = m.width
	}

	// Mid swipe the window straddles two pages; splice them column-exact.
	left := m.pageLines(lo)
	right := m.pageLines(lo + 1)
	rows := make([]string, m.height)
	for i := 0; i < m.height; i++ {
		rows[i] = ansi.Cut(left[i], cut, m.width) + ansi.Cut(right[i], 0, cut)
	}
	return strings.Join(rows, "\n")
}

// renderPage renders one page, or the placeholder if the page sits outside
// the mounted window around the committed index.
func (m Model) renderPage(index int) string {
	if index < 0 || index >= len(m.routes) || m.render == nil {
		return m.placeholder()
	}
	if index < m.active-1 || index > m.active+1 {
		return m.placeholder()
	}
	return m.render(m.routes[index], index, m.width, m.height)
}

func (m Model) placeholder() string {
	return m.styles.Placeholder.Width(m.width).Height(m.height).Render("")
}

// pageLines renders a page and squares it off to exactly width x height.
func (m Model) pageLines(index int) []string {
	lines := strings.Split(m.renderPage(index), "\n")
	rows := make([]string, m.height)
	for i := 0; i < m.height; i++ {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		line = ansi.Truncate(line, m.width, "")
		if gap := m.width - ansi.StringWidth(line); gap > 0 {
			line += strings.Repeat(" ", gap)
		}
		rows[i] = line
	}
	return rows
}

func (m Model) clamp(index int) int {
	if len(m.routes) == 0 {
		return -1
	}
	if index < 0 {
		return 0
	}
	if index > len(m.routes)-1 {
		return len(m.routes) - 1
	}
	return index
}

func frameTick() tea.Cmd {
	return tea.Tick(time.Second/fps, func(time.Time) tea.Msg {
		return FrameMsg{}
	})
}
