package snapshot

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"gitlab.com/tinyland/lab/qqbar/pkg/providers"
)

// Aggregator owns the current snapshot. Updates are applied one at a time;
// every change publishes a new snapshot to all subscribers.
type Aggregator struct {
	logger  *slog.Logger
	current atomic.Pointer[Snapshot]

	mu   sync.Mutex
	subs []func(*Snapshot)
	last map[string]uint64
}

// New creates an aggregator whose current snapshot is empty. A nil logger
// discards output.
func New(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	a := &Aggregator{logger: logger, last: make(map[string]uint64)}
	a.current.Store(Empty())
	return a
}

// Subscribe registers fn to receive every new snapshot. fn runs on the
// goroutine that applied the update, after the aggregator's lock is
// released; a slow fn delays only that goroutine's next Apply.
func (a *Aggregator) Subscribe(fn func(*Snapshot)) {
	a.mu.Lock()
	a.subs = append(a.subs, fn)
	a.mu.Unlock()
}

// Current returns the latest snapshot without blocking.
func (a *Aggregator) Current() *Snapshot {
	return a.current.Load()
}

// Apply merges one update and reports whether a new snapshot was published.
// Subscribers see snapshots in order only when Apply is called from a single
// goroutine, as Run does.
//
// An update whose Seq is not newer than the last applied one for its source
// is dropped. An error keeps the previous value and marks it stale. A nil
// value removes the source; removing an absent source changes nothing.
func (a *Aggregator) Apply(u providers.Update) bool {
	next, subs := a.apply(u)
	if next == nil {
		return false
	}
	for _, fn := range subs {
		fn(next)
	}
	return true
}

// apply stores the merged snapshot and returns it with the subscribers to
// notify, or nil when nothing changed.
func (a *Aggregator) apply(u providers.Update) (*Snapshot, []func(*Snapshot)) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if u.Seq != 0 {
		if u.Seq <= a.last[u.Source] {
			a.logger.Debug("dropping out-of-order update", "source", u.Source, "seq", u.Seq, "last", a.last[u.Source])
			return nil, nil
		}
		a.last[u.Source] = u.Seq
	}

	cur := a.current.Load()
	prev, present := cur.entries[u.Source]

	var next *Snapshot
	switch {
	case u.Error != nil:
		if !present || prev.Stale {
			return nil, nil
		}
		prev.Stale = true
		a.logger.Warn("source is stale", "source", u.Source, "error", u.Error)
		next = cur.with(u.Source, prev, true)
	case u.Value == nil:
		if !present {
			return nil, nil
		}
		next = cur.with(u.Source, Entry{}, false)
	default:
		next = cur.with(u.Source, Entry{Value: u.Value, Seq: u.Seq, Updated: u.Timestamp}, true)
	}

	a.current.Store(next)
	return next, slices.Clone(a.subs)
}

// Run applies updates until ctx is cancelled or the channel is closed.
func (a *Aggregator) Run(ctx context.Context, updates <-chan providers.Update) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			if u.Error != nil {
				a.logger.Debug("source reported error", "source", u.Source, "error", u.Error)
			}
			a.Apply(u)
		}
	}
}
