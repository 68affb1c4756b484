package tabs

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// scrollEpsilon gates strip auto-scroll on bus movement, in columns. Moves
// below half a cell are churn, not motion.
const scrollEpsilon = 0.5

// BarStyles parameterizes the strip's colors so the caller keeps palette
// ownership.
type BarStyles struct {
	Emphasized lipgloss.Color
	Dimmed     lipgloss.Color
	Indicator  lipgloss.Color
}

func DefaultBarStyles() BarStyles {
	return BarStyles{
		Emphasized: lipgloss.Color("#EAEAEA"),
		Dimmed:     lipgloss.Color("#94A3B8"),
		Indicator:  lipgloss.Color("#95E1D3"),
	}
}

// Indicator is the pill geometry under the labels, in unscrolled strip
// columns.
type Indicator struct {
	X     float64
	Width float64
}

// Controller renders the tab strip and keeps its scroll offset, indicator
// transform and label emphasis in step with the pager through the scroll
// bus. It reacts to scroll position only; cache state never flows through
// here.
type Controller struct {
	registry *Registry
	bus      *ScrollBus
	styles   BarStyles

	routes     []Route
	width      int
	active     int
	offset     float64
	lastPos    float64
	stripWidth float64

	onTap func(index int)
}

func NewController(registry *Registry, bus *ScrollBus, styles BarStyles, onTap func(index int)) *Controller {
	return &Controller{
		registry: registry,
		bus:      bus,
		styles:   styles,
		lastPos:  math.Inf(-1),
		onTap:    onTap,
	}
}

// SetRoutes replaces the tab order wholesale and drops stale measurements.
func (c *Controller) SetRoutes(routes []Route) {
	c.routes = routes
	c.registry.Reset()
	c.offset = 0
	c.stripWidth = 0
	c.lastPos = math.Inf(-1)
	if clamped := c.clampIndex(c.active); clamped >= 0 {
		c.active = clamped
	} else {
		c.active = 0
	}
}

func (c *Controller) SetWidth(width int) {
	if width == c.width {
		return
	}
	c.width = width
	c.lastPos = math.Inf(-1)
}

// SetActive records a committed index change from the pager.
func (c *Controller) SetActive(index int) {
	if clamped := c.clampIndex(index); clamped >= 0 {
		c.active = clamped
	}
}

func (c *Controller) Active() int { return c.active }

func (c *Controller) Routes() []Route { return c.routes }

// Offset returns the strip's current scroll offset in columns.
func (c *Controller) Offset() float64 { return c.offset }

// Tap activates the tapped tab and tells the pager to jump there without a
// transition animation. The indicator's own motion supplies the cue;
// animating both reads as judder.
func (c *Controller) Tap(index int) {
	index = c.clampIndex(index)
	if index < 0 {
		return
	}
	c.active = index
	if c.onTap != nil {
		c.onTap(index)
	}
}

// RouteAt hit-tests a click column against the measured labels, taking the
// strip's scroll offset into account.
func (c *Controller) RouteAt(x int) (int, bool) {
	full := float64(x) + c.offset
	for i, route := range c.routes {
		layout, ok := c.registry.Layout(route.Key)
		if !ok {
			continue
		}
		if full >= layout.X && full < layout.X+layout.Width {
			return i, true
		}
	}
	return 0, false
}

// Tick folds the latest bus position into the strip's auto-scroll. Call once
// per frame step.
func (c *Controller) Tick() {
	pos := c.bus.Position()
	if math.Abs(pos-c.lastPos) < scrollEpsilon {
		return
	}
	c.lastPos = pos
	c.autoScroll(c.bus.Progress(float64(c.width)))
}

// IndicatorAt interpolates the pill geometry at fractional progress p,
// piecewise-linear between adjacent label layouts and clamped at both ends
// of the index range. Hidden until every label has been measured.
func (c *Controller) IndicatorAt(p float64) (Indicator, bool) {
	n := len(c.routes)
	if n == 0 || !c.registry.IsReady(RouteKeys(c.routes), float64(c.width)) {
		return Indicator{}, false
	}

	if p < 0 {
		p = 0
	}
	if limit := float64(n - 1); p > limit {
		p = limit
	}

	lo := int(math.Floor(p))
	hi := lo + 1
	if hi > n-1 {
		hi = n - 1
	}
	frac := p - float64(lo)

	from, _ := c.registry.Layout(c.routes[lo].Key)
	to, _ := c.registry.Layout(c.routes[hi].Key)
	return Indicator{
		X:     lerp(from.X, to.X, frac),
		Width: lerp(from.Width, to.Width, frac),
	}, true
}

// View renders the two strip rows: labels on top, indicator underneath.
// Rendering doubles as measurement; each label's geometry is recorded as it
// is laid out, which is what eventually flips the registry to ready.
func (c *Controller) View() string {
	if c.width <= 0 || len(c.routes) == 0 {
		return ""
	}

	progress := c.bus.Progress(float64(c.width))

	labels := make([]string, 0, len(c.routes))
	x := 0.0
	for i, route := range c.routes {
		rendered := c.renderLabel(labelText(i, route.Title), EmphasisWeight(i, progress))
		w := float64(ansi.StringWidth(rendered))
		c.registry.Record(route.Key, x, w)
		labels = append(labels, rendered)
		x += w
	}
	c.stripWidth = x

	offset := int(math.Round(c.offset))
	return c.window(strings.Join(labels, ""), offset) + "\n" + c.window(c.indicatorRow(progress), offset)
}

func (c *Controller) renderLabel(text string, weight float64) string {
	style := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(blendColor(c.styles.Dimmed, c.styles.Emphasized, weight))
	if weight > 0.5 {
		style = style.Bold(true)
	}
	return style.Render(text)
}

func (c *Controller) indicatorRow(progress float64) string {
	indicator, ok := c.IndicatorAt(progress)
	if !ok {
		return ""
	}
	width := int(math.Round(indicator.Width))
	if width <= 0 {
		return ""
	}
	start := int(math.Round(indicator.X))
	if start < 0 {
		start = 0
	}
	pill := lipgloss.NewStyle().Foreground(c.styles.Indicator).Render(strings.Repeat("─", width))
	return strings.Repeat(" ", start) + pill
}

// window slices the visible columns out of a full-width strip row and pads
// it back out to the container.
func (c *Controller) window(row string, offset int) string {
	if offset > 0 {
		row = ansi.TruncateLeft(row, offset, "")
	}
	row = ansi.Truncate(row, c.width, "")
	if gap := c.width - ansi.StringWidth(row); gap > 0 {
		row += strings.Repeat(" ", gap)
	}
	return row
}

// autoScroll blends the centering offsets of the two labels bracketing the
// current progress, keeping the emphasized label near the middle of the
// container while a swipe is in flight.
func (c *Controller) autoScroll(p float64) {
	n := len(c.routes)
	if n == 0 || c.width <= 0 {
		return
	}

	current := int(math.Floor(p))
	if current < 0 {
		current = 0
	}
	if current > n-1 {
		current = n - 1
	}
	next := current + 1
	if next > n-1 {
		next = n - 1
	}
	frac := p - float64(current)

	fromCenter, okFrom := c.centerOffset(current)
	toCenter, okTo := c.centerOffset(next)
	if !okFrom || !okTo {
		return
	}

	target := lerp(fromCenter, toCenter, frac)
	if target < 0 {
		target = 0
	}
	if limit := c.maxOffset(); target > limit {
		target = limit
	}
	c.offset = target
}

// centerOffset is the strip offset that puts label i's midpoint in the
// middle of the container.
func (c *Controller) centerOffset(i int) (float64, bool) {
	layout, ok := c.registry.Layout(c.routes[i].Key)
	if !ok {
		return 0, false
	}
	return layout.X + layout.Width/2 - float64(c.width)/2, true
}

func (c *Controller) maxOffset() float64 {
	if c.stripWidth <= float64(c.width) {
		return 0
	}
	return c.stripWidth - float64(c.width)
}

func (c *Controller) clampIndex(index int) int {
	if len(c.routes) == 0 {
		return -1
	}
	if index < 0 {
		return 0
	}
	if index > len(c.routes)-1 {
		return len(c.routes) - 1
	}
	return index
}

// EmphasisWeight fades a label's emphasis linearly within one tab of the
// current progress. Outside the ±1 window it is exactly zero, so the cost
// per label stays O(1) however many tabs exist.
func EmphasisWeight(index int, progress float64) float64 {
	d := math.Abs(progress - float64(index))
	if d >= 1 {
		return 0
	}
	return 1 - d
}

// labelText prefixes the first nine tabs with their jump key.
func labelText(index int, title string) string {
	if index < 9 {
		return fmt.Sprintf("%d:%s", index+1, title)
	}
	return title
}

func blendColor(from, to lipgloss.Color, t float64) lipgloss.Color {
	if t <= 0 {
		return from
	}
	if t >= 1 {
		return to
	}
	fr, fg, fb, okFrom := hexRGB(string(from))
	tr, tg, tb, okTo := hexRGB(string(to))
	if !okFrom || !okTo {
		if t > 0.5 {
			return to
		}
		return from
	}
	r := uint8(math.Round(lerp(float64(fr), float64(tr), t)))
	g := uint8(math.Round(lerp(float64(fg), float64(tg), t)))
	b := uint8(math.Round(lerp(float64(fb), float64(tb), t)))
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r, g, b))
}

func hexRGB(s string) (r, g, b uint8, ok bool) {
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

func lerp(from, to, t float64) float64 {
	return from + (to-from)*t
}
