package tabs

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeTabController() *Controller {
	c := NewController(NewRegistry(), NewScrollBus(), DefaultBarStyles(), nil)
	c.SetRoutes([]Route{{Key: "a", Title: "A"}, {Key: "b", Title: "B"}, {Key: "c", Title: "C"}})
	c.SetWidth(120)
	return c
}

func TestController_IndicatorInterpolation(t *testing.T) {
	c := threeTabController()
	c.registry.Record("a", 0, 40)
	c.registry.Record("b", 40, 60)
	c.registry.Record("c", 100, 80)

	t.Run("halfway between two tabs", func(t *testing.T) {
		indicator, ok := c.IndicatorAt(1.5)
		require.True(t, ok)
		assert.InDelta(t, 70.0, indicator.Width, 1e-9)
		assert.InDelta(t, 70.0, indicator.X, 1e-9)
	})

	t.Run("exactly on a tab", func(t *testing.T) {
		indicator, ok := c.IndicatorAt(1)
		require.True(t, ok)
		assert.InDelta(t, 60.0, indicator.Width, 1e-9)
		assert.InDelta(t, 40.0, indicator.X, 1e-9)
	})

	t.Run("clamps below the first tab", func(t *testing.T) {
		indicator, ok := c.IndicatorAt(-0.7)
		require.True(t, ok)
		assert.InDelta(t, 40.0, indicator.Width, 1e-9)
		assert.InDelta(t, 0.0, indicator.X, 1e-9)
	})

	t.Run("clamps past the last tab", func(t *testing.T) {
		indicator, ok := c.IndicatorAt(9)
		require.True(t, ok)
		assert.InDelta(t, 80.0, indicator.Width, 1e-9)
		assert.InDelta(t, 100.0, indicator.X, 1e-9)
	})
}

func TestController_IndicatorHiddenUntilMeasured(t *testing.T) {
	c := threeTabController()

	_, ok := c.IndicatorAt(0)
	assert.False(t, ok, "no measurements yet")

	c.registry.Record("a", 0, 40)
	c.registry.Record("b", 40, 60)

	_, ok = c.IndicatorAt(0)
	assert.False(t, ok, "one unmeasured label keeps the pill hidden")

	c.registry.Record("c", 100, 80)

	_, ok = c.IndicatorAt(0)
	assert.True(t, ok)
}

func TestEmphasisWeight(t *testing.T) {
	assert.Equal(t, 1.0, EmphasisWeight(1, 1.0))
	assert.Equal(t, 0.5, EmphasisWeight(1, 0.5))
	assert.Equal(t, 0.5, EmphasisWeight(1, 1.5))
	assert.Equal(t, 0.25, EmphasisWeight(2, 1.25))
	assert.Equal(t, 0.0, EmphasisWeight(1, 2.0))
	assert.Equal(t, 0.0, EmphasisWeight(0, 1.5), "labels outside the window carry zero weight")
	assert.Equal(t, 0.0, EmphasisWeight(5, 1.5))
}

func TestController_Tap(t *testing.T) {
	var tapped []int
	c := NewController(NewRegistry(), NewScrollBus(), DefaultBarStyles(), func(i int) {
		tapped = append(tapped, i)
	})
	c.SetRoutes([]Route{{Key: "a"}, {Key: "b"}, {Key: "c"}})

	c.Tap(1)
	assert.Equal(t, 1, c.Active())

	c.Tap(99)
	assert.Equal(t, 2, c.Active(), "out-of-range tap clamps to the last tab")

	c.Tap(-3)
	assert.Equal(t, 0, c.Active(), "negative tap clamps to the first tab")

	assert.Equal(t, []int{1, 2, 0}, tapped)
}

func TestController_TapWithoutRoutes(t *testing.T) {
	called := false
	c := NewController(NewRegistry(), NewScrollBus(), DefaultBarStyles(), func(int) { called = true })

	c.Tap(0)
	assert.False(t, called)
}

func TestController_AutoScroll(t *testing.T) {
	buildStrip := func() *Controller {
		c := threeTabController()
		c.SetWidth(40)
		c.registry.Record("a", 0, 30)
		c.registry.Record("b", 30, 30)
		c.registry.Record("c", 60, 30)
		c.stripWidth = 90
		return c
	}

	t.Run("blends the centering offsets mid swipe", func(t *testing.T) {
		c := buildStrip()
		// Progress 0.5: halfway between centering a (-5) and centering b (25).
		c.bus.Set(0.5 * 40)
		c.Tick()
		assert.InDelta(t, 10.0, c.Offset(), 1e-9)
	})

	t.Run("clamps at zero", func(t *testing.T) {
		c := buildStrip()
		c.bus.Set(0)
		c.Tick()
		assert.Equal(t, 0.0, c.Offset())
	})

	t.Run("clamps at the right edge", func(t *testing.T) {
		c := buildStrip()
		// Progress 2 wants offset 55, but only 50 columns are hidden.
		c.bus.Set(2 * 40)
		c.Tick()
		assert.InDelta(t, 50.0, c.Offset(), 1e-9)
	})

	t.Run("ignores sub-cell bus movement", func(t *testing.T) {
		c := buildStrip()
		c.bus.Set(20)
		c.Tick()
		require.InDelta(t, 10.0, c.Offset(), 1e-9)

		c.bus.Set(20.3)
		c.Tick()
		assert.InDelta(t, 10.0, c.Offset(), 1e-9, "movement under half a cell should not rescroll")

		c.bus.Set(22)
		c.Tick()
		assert.Greater(t, c.Offset(), 10.0)
	})
}

func TestController_ViewMeasuresLabels(t *testing.T) {
	c := NewController(NewRegistry(), NewScrollBus(), DefaultBarStyles(), nil)
	c.SetRoutes([]Route{{Key: "all", Title: "All"}, {Key: "source-1", Title: "News"}})
	c.SetWidth(60)

	view := c.View()
	lines := strings.Split(view, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, 60, ansi.StringWidth(lines[0]))
	assert.Equal(t, 60, ansi.StringWidth(lines[1]))

	// "1:All" plus one cell of padding each side.
	layout, ok := c.registry.Layout("all")
	require.True(t, ok)
	assert.Equal(t, 0.0, layout.X)
	assert.Equal(t, 7.0, layout.Width)

	second, ok := c.registry.Layout("source-1")
	require.True(t, ok)
	assert.Equal(t, 7.0, second.X)

	// Rendering is the measurement path, so one pass makes the pill visible.
	_, ready := c.IndicatorAt(0)
	assert.True(t, ready)
	assert.Contains(t, lines[1], "─")
}

func TestController_ViewWithoutSize(t *testing.T) {
	c := NewController(NewRegistry(), NewScrollBus(), DefaultBarStyles(), nil)
	c.SetRoutes([]Route{{Key: "all", Title: "All"}})

	assert.Equal(t, "", c.View())
}

func TestController_RouteAt(t *testing.T) {
	c := threeTabController()
	c.registry.Record("a", 0, 30)
	c.registry.Record("b", 30, 30)
	c.registry.Record("c", 60, 30)

	index, ok := c.RouteAt(5)
	require.True(t, ok)
	assert.Equal(t, 0, index)

	index, ok = c.RouteAt(30)
	require.True(t, ok)
	assert.Equal(t, 1, index)

	c.offset = 40
	index, ok = c.RouteAt(25)
	require.True(t, ok)
	assert.Equal(t, 2, index, "hit test should account for the strip offset")

	_, ok = c.RouteAt(500)
	assert.False(t, ok)
}

func TestController_SetActiveClamps(t *testing.T) {
	c := threeTabController()

	c.SetActive(7)
	assert.Equal(t, 2, c.Active())

	c.SetActive(-1)
	assert.Equal(t, 0, c.Active())
}

func TestController_SetRoutesResetsMeasurements(t *testing.T) {
	c := threeTabController()
	c.registry.Record("a", 0, 30)
	c.SetActive(2)

	c.SetRoutes([]Route{{Key: "x"}, {Key: "y"}})

	_, ok := c.registry.Layout("a")
	assert.False(t, ok, "stale layouts should be dropped")
	assert.Equal(t, 1, c.Active(), "active index clamps into the new route range")
	assert.Equal(t, 0.0, c.Offset())
}

func TestBlendColor(t *testing.T) {
	assert.Equal(t, lipgloss.Color("#000000"), blendColor(lipgloss.Color("#000000"), lipgloss.Color("#FFFFFF"), 0))
	assert.Equal(t, lipgloss.Color("#FFFFFF"), blendColor(lipgloss.Color("#000000"), lipgloss.Color("#FFFFFF"), 1))
	assert.Equal(t, lipgloss.Color("#808080"), blendColor(lipgloss.Color("#000000"), lipgloss.Color("#FFFFFF"), 0.5))
}

func TestLabelText(t *testing.T) {
	assert.Equal(t, "1:All", labelText(0, "All"))
	assert.Equal(t, "9:News", labelText(8, "News"))
	assert.Equal(t, "Late", labelText(9, "Late"))
}
