package watch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pfrederiksen/vax-slots/internal/filter"
	"github.com/pfrederiksen/vax-slots/internal/location"
)

// fakeSource returns one scripted response per call, repeating the last one
type fakeSource struct {
	responses [][]location.Location
	errs      []error
	calls     int
}

func (f *fakeSource) FetchLocations(ctx context.Context) ([]location.Location, error) {
	i := f.calls
	f.calls++

	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	return f.responses[i], nil
}

type recordingNotifier struct {
	notified []location.Location
	err      error
}

func (r *recordingNotifier) Notify(loc location.Location) error {
	r.notified = append(r.notified, loc)
	return r.err
}

func loc(region, org string, available uint64) location.Location {
	return location.Location{Region: region, Organization: org, BookingLink: "/boka/" + org, Available: available}
}

func newTestWatcher(source Source, n *recordingNotifier) *Watcher {
	opts := Options{Allow: filter.NewAllowList(filter.DefaultRegions...)}
	if n != nil {
		opts.Notifier = n
	}
	return New(source, opts)
}

func TestRunCycle_FirstRunSuppression(t *testing.T) {
	source := &fakeSource{responses: [][]location.Location{
		{loc("Ale", "A", 12), loc("Göteborg", "B", 3)},
		{loc("Ale", "A", 12), loc("Göteborg", "B", 1)},
	}}
	n := &recordingNotifier{}
	w := newTestWatcher(source, n)

	first, err := w.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}
	if !first.FirstRun {
		t.Error("first cycle should report FirstRun")
	}
	if first.Ranking.Candidate == nil {
		t.Fatal("first cycle should still have a candidate")
	}
	if first.Notified || len(n.notified) != 0 {
		t.Errorf("first cycle notified %v, want nothing", n.notified)
	}

	second, err := w.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}
	if second.FirstRun {
		t.Error("second cycle should not report FirstRun")
	}
	if !second.Notified || len(n.notified) != 1 {
		t.Fatalf("second cycle notified %v, want one notification", n.notified)
	}
	if n.notified[0] != loc("Göteborg", "B", 1) {
		t.Errorf("notified %+v, want the changed Göteborg location", n.notified[0])
	}
}

func TestRunCycle_NoCandidateNoNotification(t *testing.T) {
	same := []location.Location{loc("Ale", "A", 12)}
	source := &fakeSource{responses: [][]location.Location{same, same}}
	n := &recordingNotifier{}
	w := newTestWatcher(source, n)

	w.RunCycle(context.Background())
	cycle, err := w.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}

	if cycle.Ranking.Candidate != nil {
		t.Errorf("unchanged cycle has candidate %+v", cycle.Ranking.Candidate)
	}
	if len(n.notified) != 0 {
		t.Errorf("notified %v, want nothing", n.notified)
	}
}

func TestRunCycle_FilteredChangesDoNotNotify(t *testing.T) {
	source := &fakeSource{responses: [][]location.Location{
		{loc("Borås", "X", 4)},
		{loc("Borås", "X", 9), loc("Lerum", "Y", 1)},
	}}
	n := &recordingNotifier{}
	w := newTestWatcher(source, n)

	w.RunCycle(context.Background())
	cycle, err := w.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}

	if cycle.Ranking.FilteredOut != 2 {
		t.Errorf("FilteredOut = %d, want 2", cycle.Ranking.FilteredOut)
	}
	if len(n.notified) != 0 {
		t.Errorf("notified %v, want nothing", n.notified)
	}
}

func TestRunCycle_FetchErrorKeepsState(t *testing.T) {
	fetchErr := errors.New("connection refused")
	source := &fakeSource{
		responses: [][]location.Location{nil, {loc("Ale", "A", 12)}},
		errs:      []error{fetchErr},
	}
	n := &recordingNotifier{}
	w := newTestWatcher(source, n)

	if _, err := w.RunCycle(context.Background()); !errors.Is(err, fetchErr) {
		t.Fatalf("RunCycle() error = %v, want %v", err, fetchErr)
	}
	if w.Snapshot().Len() != 0 {
		t.Errorf("snapshot size = %d after failed cycle, want 0", w.Snapshot().Len())
	}

	cycle, err := w.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}
	if !cycle.FirstRun {
		t.Error("first successful cycle should still be FirstRun")
	}
	if len(n.notified) != 0 {
		t.Errorf("notified %v, want nothing", n.notified)
	}
}

func TestRunCycle_NotifierError(t *testing.T) {
	source := &fakeSource{responses: [][]location.Location{
		{loc("Ale", "A", 12)},
		{loc("Ale", "A", 2)},
	}}
	notifyErr := errors.New("no browser")
	n := &recordingNotifier{err: notifyErr}
	w := newTestWatcher(source, n)

	w.RunCycle(context.Background())
	cycle, err := w.RunCycle(context.Background())

	if !errors.Is(err, notifyErr) {
		t.Errorf("RunCycle() error = %v, want %v", err, notifyErr)
	}
	if cycle == nil || cycle.Notified {
		t.Errorf("cycle = %+v, want non-nil and not notified", cycle)
	}
}

func TestRunCycle_NilNotifier(t *testing.T) {
	source := &fakeSource{responses: [][]location.Location{
		{loc("Ale", "A", 12)},
		{loc("Ale", "A", 2)},
	}}
	w := newTestWatcher(source, nil)

	w.RunCycle(context.Background())
	cycle, err := w.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}
	if cycle.Notified {
		t.Error("cycle without notifier should not report Notified")
	}
}

func TestRun(t *testing.T) {
	source := &fakeSource{
		responses: [][]location.Location{{loc("Ale", "A", 1)}, nil, {loc("Ale", "A", 2)}},
		errs:      []error{nil, errors.New("temporary")},
	}
	w := newTestWatcher(source, &recordingNotifier{})

	var slept []time.Duration
	w.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	var cycles, failures int
	stop := errors.New("stop")

	err := w.Run(context.Background(), func(c *Cycle, err error) error {
		if err != nil {
			failures++
		} else {
			cycles++
		}
		if cycles+failures == 3 {
			return stop
		}
		return nil
	})

	if !errors.Is(err, stop) {
		t.Fatalf("Run() error = %v, want stop", err)
	}
	if cycles != 2 || failures != 1 {
		t.Errorf("cycles/failures = %d/%d, want 2/1", cycles, failures)
	}
	if len(slept) != 2 {
		t.Errorf("slept %d times, want 2", len(slept))
	}
}

func TestRun_Cancelled(t *testing.T) {
	source := &fakeSource{responses: [][]location.Location{{loc("Ale", "A", 1)}}}
	w := newTestWatcher(source, nil)

	ctx, cancel := context.WithCancel(context.Background())
	w.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(*Cycle, error) error { return nil })
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v, want nil on cancellation", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancellation")
	}
}

func TestNextInterval(t *testing.T) {
	w := New(&fakeSource{}, Options{MinInterval: 50 * time.Second, MaxInterval: 120 * time.Second})

	for i := 0; i < 100; i++ {
		d := w.nextInterval()
		if d < 50*time.Second || d >= 120*time.Second {
			t.Fatalf("nextInterval() = %v, want within [50s, 120s)", d)
		}
	}

	fixed := New(&fakeSource{}, Options{MinInterval: time.Second, MaxInterval: time.Second})
	if d := fixed.nextInterval(); d != time.Second {
		t.Errorf("nextInterval() = %v, want 1s", d)
	}
}

func TestSleepContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := sleepContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("sleepContext() = %v, want context.Canceled", err)
	}
	if err := sleepContext(context.Background(), time.Millisecond); err != nil {
		t.Errorf("sleepContext() = %v, want nil", err)
	}
}
