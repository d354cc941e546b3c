package watch

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/pfrederiksen/vax-slots/internal/filter"
	"github.com/pfrederiksen/vax-slots/internal/location"
	"github.com/pfrederiksen/vax-slots/internal/logger"
	"github.com/pfrederiksen/vax-slots/internal/notifier"
)

// Source produces the current locations, typically by fetching the booking page
type Source interface {
	FetchLocations(ctx context.Context) ([]location.Location, error)
}

// Cycle is the outcome of one poll
type Cycle struct {
	CheckedAt time.Time      `json:"checked_at"`
	Fetched   int            `json:"fetched"`
	Ranking   filter.Ranking `json:"ranking"`
	FirstRun  bool           `json:"first_run"`
	Notified  bool           `json:"notified"`
}

// Options configures a Watcher
type Options struct {
	Allow       *filter.AllowList
	Notifier    notifier.Notifier // nil disables the action hook
	MinInterval time.Duration
	MaxInterval time.Duration
}

// Watcher owns the snapshot across poll cycles. It is not safe for concurrent use.
type Watcher struct {
	source   Source
	opts     Options
	snapshot *location.Snapshot
	firstRun bool
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

// New creates a Watcher with an empty snapshot
func New(source Source, opts Options) *Watcher {
	return &Watcher{
		source:   source,
		opts:     opts,
		snapshot: location.NewSnapshot(),
		firstRun: true,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Snapshot returns the watcher's current snapshot
func (w *Watcher) Snapshot() *location.Snapshot {
	return w.snapshot
}

// RunCycle performs one poll. A fetch or extraction error aborts the cycle and leaves
// the snapshot and first-run flag untouched.
func (w *Watcher) RunCycle(ctx context.Context) (*Cycle, error) {
	logger.IncrCounter("poll.cycles")

	start := w.now()
	locations, err := w.source.FetchLocations(ctx)
	logger.RecordTiming("poll.fetch", w.now().Sub(start))
	if err != nil {
		logger.IncrCounter("poll.failures")
		return nil, fmt.Errorf("fetching locations: %w", err)
	}

	var changed []location.Location
	w.snapshot, changed = location.Reconcile(w.snapshot, locations)
	logger.SetGauge("snapshot.size", float64(w.snapshot.Len()))
	logger.AddCounter("poll.changes", int64(len(changed)))

	cycle := &Cycle{
		CheckedAt: start,
		Fetched:   len(locations),
		Ranking:   filter.Rank(changed, w.opts.Allow),
		FirstRun:  w.firstRun,
	}

	logger.Debug("Poll cycle complete", logger.Fields{
		"fetched":      cycle.Fetched,
		"changed":      len(changed),
		"shown":        len(cycle.Ranking.Locations),
		"filtered_out": cycle.Ranking.FilteredOut,
		"first_run":    cycle.FirstRun,
	})

	w.firstRun = false

	if cycle.FirstRun || cycle.Ranking.Candidate == nil || w.opts.Notifier == nil {
		return cycle, nil
	}

	if err := w.opts.Notifier.Notify(*cycle.Ranking.Candidate); err != nil {
		return cycle, fmt.Errorf("notifying %s: %w", cycle.Ranking.Candidate.Key(), err)
	}
	cycle.Notified = true
	logger.IncrCounter("poll.notified")

	return cycle, nil
}

// Run polls until ctx is cancelled, calling handle after every cycle. A failed cycle is
// handed to handle with its error and the next cycle runs after the usual pause.
// Run returns nil on cancellation, or the first error returned by handle.
func (w *Watcher) Run(ctx context.Context, handle func(*Cycle, error) error) error {
	for {
		cycle, err := w.RunCycle(ctx)
		if ctx.Err() != nil {
			return nil
		}

		if herr := handle(cycle, err); herr != nil {
			return herr
		}

		if err := w.sleep(ctx, w.nextInterval()); err != nil {
			return nil
		}
	}
}

// nextInterval picks a random pause in [MinInterval, MaxInterval)
func (w *Watcher) nextInterval() time.Duration {
	lo, hi := w.opts.MinInterval, w.opts.MaxInterval
	if hi <= lo {
		return lo
	}
	return lo + rand.N(hi-lo)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
