package events

import "sync"

// Kind tags a cache event.
type Kind int

const (
	ClearAll Kind = iota
	ClearArticles
	SourceDeleted
	SourceUpdated
	BackgroundSyncCompleted
)

func (k Kind) String() string {
	switch k {
	case ClearAll:
		return "clear_all"
	case ClearArticles:
		return "clear_articles"
	case SourceDeleted:
		return "source_deleted"
	case SourceUpdated:
		return "source_updated"
	case BackgroundSyncCompleted:
		return "background_sync_completed"
	default:
		return "unknown"
	}
}

// CacheEvent announces that stored articles changed underneath whoever is
// holding cached copies. SourceID is set for the per-source kinds and zero
// otherwise.
type CacheEvent struct {
	Kind     Kind
	SourceID int64
}

type subscriber struct {
	id int
	fn func(CacheEvent)
}

// Bus fans cache events out to subscribers in subscription order. Delivery
// is synchronous on the publishing goroutine, so handlers must be quick and
// must not call back into the bus while holding their own locks.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   []subscriber
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn and returns the matching unsubscribe func, which is
// safe to call more than once.
func (b *Bus) Subscribe(fn func(CacheEvent)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs = append(b.subs, subscriber{id: id, fn: fn})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, sub := range b.subs {
			if sub.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

func (b *Bus) Publish(event CacheEvent) {
	b.mu.Lock()
	subs := make([]subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, sub := range subs {
		if sub.fn == nil {
			continue
		}
		sub.fn(event)
	}
}
