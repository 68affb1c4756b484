package feedcache

import (
	"context"
	"sync"
	"time"

	"github.com/pders01/riffle/internal/debuglog"
	"github.com/pders01/riffle/internal/events"
)

const (
	// DefaultSyncDebounce delays the first background sync past startup
	// so it never competes with the initial page loads.
	DefaultSyncDebounce = 500 * time.Millisecond
	// DefaultSyncInterval is the steady-state cadence between passes.
	DefaultSyncInterval = 10 * time.Minute
	// DefaultSyncMaxConcurrent bounds how many sources sync at once.
	DefaultSyncMaxConcurrent = 3
)

// SchedulerOptions configures the background sync cadence.
type SchedulerOptions struct {
	Debounce      time.Duration
	Interval      time.Duration
	MaxConcurrent int
}

// Scheduler drives the background sync: one debounced pass shortly after
// Start, then a fixed-interval cadence until Stop. Each completed pass is
// announced on the bus so cached pages get rebuilt from fresh rows.
type Scheduler struct {
	syncer      Syncer
	bus         *events.Bus
	sourceCount func() int
	opts        SchedulerOptions
	log         *debuglog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler builds a stopped scheduler. Zero or negative option fields
// fall back to the package defaults.
func NewScheduler(syncer Syncer, bus *events.Bus, sourceCount func() int, opts SchedulerOptions) *Scheduler {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultSyncDebounce
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultSyncInterval
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = DefaultSyncMaxConcurrent
	}
	return &Scheduler{
		syncer:      syncer,
		bus:         bus,
		sourceCount: sourceCount,
		opts:        opts,
		log:         debuglog.For("sync"),
	}
}

// Start arms the debounce timer and the interval. With zero configured
// sources nothing starts. Starting an already running scheduler is a
// no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	if s.sourceCount == nil || s.sourceCount() == 0 {
		s.log.Debugf("no sources configured, scheduler stays idle")
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx, s.done)
}

// Stop cancels the debounce and the interval and waits for the runner to
// exit. A stopped scheduler can be started again.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	debounce := time.NewTimer(s.opts.Debounce)
	defer debounce.Stop()
	select {
	case <-ctx.Done():
		return
	case <-debounce.C:
		s.sync(ctx)
	}

	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sync(ctx)
		}
	}
}

// sync runs one bounded multi-source pass. Failures are logged and
// swallowed; cached pages stay servable either way.
func (s *Scheduler) sync(ctx context.Context) {
	err := s.syncer.SyncAll(ctx, SyncAllOptions{
		MaxConcurrent: s.opts.MaxConcurrent,
		OnProgress: func(done, total int, name string) {
			s.log.Debugf("background sync %d/%d: %s", done, total, name)
		},
		OnError: func(err error, name string) {
			s.log.Warnf("background sync %s: %v", name, err)
		},
	})
	if err != nil {
		s.log.Errorf("background sync failed: %v", err)
		return
	}
	if s.bus != nil {
		s.bus.Publish(events.CacheEvent{Kind: events.BackgroundSyncCompleted})
	}
	s.log.Infof("background sync completed")
}
