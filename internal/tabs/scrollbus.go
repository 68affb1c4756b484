package tabs

import (
	"math"
	"sync/atomic"
)

// ScrollBus carries the pager's continuous scroll offset to the tab bar. The
// pager's frame step is the single writer; the bar reads during render. Last
// write wins, and neither side ever blocks the other.
type ScrollBus struct {
	bits atomic.Uint64
}

func NewScrollBus() *ScrollBus {
	return &ScrollBus{}
}

// Set publishes the current offset in columns.
func (b *ScrollBus) Set(position float64) {
	b.bits.Store(math.Float64bits(position))
}

// Position returns the most recently published offset.
func (b *ScrollBus) Position() float64 {
	return math.Float64frombits(b.bits.Load())
}

// Progress converts the offset into a fractional tab index.
func (b *ScrollBus) Progress(pageWidth float64) float64 {
	if pageWidth <= 0 {
		return 0
	}
	return b.Position() / pageWidth
}
