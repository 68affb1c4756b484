package tabs

import (
	"math"
	"sync"
)

// layoutEpsilon is half a terminal cell. Re-measurements that move less than
// this are jitter, not layout changes.
const layoutEpsilon = 0.5

// Layout is the measured geometry of one tab label, in columns relative to
// the unscrolled strip.
type Layout struct {
	X     float64
	Width float64
}

// Registry collects label geometry as the strip renders. Labels are measured
// asynchronously (a label's layout exists only after its first render), so
// consumers gate on IsReady instead of assuming presence.
type Registry struct {
	mu      sync.RWMutex
	layouts map[string]Layout
}

func NewRegistry() *Registry {
	return &Registry{layouts: make(map[string]Layout)}
}

// Record stores the measured geometry for key. Recording the same geometry
// again, within half a cell, is a no-op.
func (r *Registry) Record(key string, x, width float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.layouts[key]; ok {
		if math.Abs(old.X-x) < layoutEpsilon && math.Abs(old.Width-width) < layoutEpsilon {
			return
		}
	}
	r.layouts[key] = Layout{X: x, Width: width}
}

// Layout returns the recorded geometry for key, if any.
func (r *Registry) Layout(key string) (Layout, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	layout, ok := r.layouts[key]
	return layout, ok
}

// IsReady reports whether every given key has been measured and the container
// width is known. All or nothing: a single unmeasured label keeps the
// indicator hidden.
func (r *Registry) IsReady(keys []string, containerWidth float64) bool {
	if containerWidth <= 0 {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, key := range keys {
		if _, ok := r.layouts[key]; !ok {
			return false
		}
	}
	return true
}

// Reset drops every recorded layout, for wholesale route changes.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.layouts = make(map[string]Layout)
}
