package navsignal

import "sync"

// Signal is what the feed screen learns when it regains focus after the
// reader closes. ArticleID is only meaningful when ShouldScroll is set.
type Signal struct {
	ShouldScroll  bool
	ArticleID     int64
	ShouldRefresh bool
}

// SourceRequest asks the feed screen to activate a specific source's tab.
type SourceRequest struct {
	SourceID int64
	Name     string
}

// Bridge carries navigation intent across screen boundaries. Visits are
// recorded while the reader is up; the feed screen consumes the pending
// signal exactly once when it regains focus. Safe for concurrent use.
type Bridge struct {
	mu           sync.Mutex
	visited      bool
	lastViewed   int64
	didSwitch    bool
	needsRefresh bool

	pendingSource *SourceRequest
}

func NewBridge() *Bridge { return &Bridge{} }

// RecordVisit notes that the reader showed an article. The first visit of a
// session pins the starting article; moving to a different one afterwards
// marks the session as switched and the feed as needing a refresh.
func (b *Bridge) RecordVisit(articleID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.visited {
		b.visited = true
		b.lastViewed = articleID
		return
	}
	if articleID != b.lastViewed {
		b.lastViewed = articleID
		b.didSwitch = true
		b.needsRefresh = true
	}
}

// ConsumePendingSignal hands back the session's outcome and clears it in the
// same step, so only the first caller per focus acts on it. Further calls
// return the zero Signal until a new visit session starts.
func (b *Bridge) ConsumePendingSignal() Signal {
	b.mu.Lock()
	defer b.mu.Unlock()

	var sig Signal
	if b.didSwitch {
		sig = Signal{ShouldScroll: true, ArticleID: b.lastViewed, ShouldRefresh: b.needsRefresh}
	}
	b.visited = false
	b.lastViewed = 0
	b.didSwitch = false
	b.needsRefresh = false
	return sig
}

// RequestSource parks a deep link to a source tab, replacing any earlier
// one that was never picked up.
func (b *Bridge) RequestSource(sourceID int64, name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pendingSource = &SourceRequest{SourceID: sourceID, Name: name}
}

// ConsumePendingSource pops the parked deep link, if any.
func (b *Bridge) ConsumePendingSource() (SourceRequest, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pendingSource == nil {
		return SourceRequest{}, false
	}
	req := *b.pendingSource
	b.pendingSource = nil
	return req, true
}
