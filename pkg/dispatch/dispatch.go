// Package dispatch delivers commands from the UI to the sources that accept
// them. Delivery is fire-and-forget: Dispatch never blocks the caller, a
// single worker preserves submission order, and failures are only logged.
// The effect of a command becomes visible through the source's next
// emission, not through a reply.
package dispatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"gitlab.com/tinyland/lab/qqbar/pkg/providers"
)

const (
	// DefaultQueueSize is the number of commands buffered ahead of the worker.
	DefaultQueueSize = 32

	// DefaultTimeout bounds a single delivery.
	DefaultTimeout = 5 * time.Second
)

type job struct {
	source string
	cmd    providers.Command
}

// Stats counts what happened to dispatched commands.
type Stats struct {
	Queued    int64 `json:"queued"`
	Delivered int64 `json:"delivered"`
	Failed    int64 `json:"failed"`
	Dropped   int64 `json:"dropped"`
}

// Dispatcher routes commands by capability and delivers them on a single
// worker goroutine.
type Dispatcher struct {
	registry *providers.Registry
	logger   *slog.Logger
	timeout  time.Duration
	queue    chan job

	mu      sync.Mutex
	cancel  context.CancelFunc
	started bool
	wg      sync.WaitGroup

	queued    atomic.Int64
	delivered atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger for delivery failures.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// WithQueueSize sets the queue capacity. Values below 1 are ignored.
func WithQueueSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.queue = make(chan job, n)
		}
	}
}

// WithTimeout bounds each delivery.
func WithTimeout(t time.Duration) Option {
	return func(d *Dispatcher) {
		if t > 0 {
			d.timeout = t
		}
	}
}

// New creates a dispatcher over the sources in r. Commands are accepted
// immediately but only delivered once Start has been called.
func New(r *providers.Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: r,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		timeout:  DefaultTimeout,
		queue:    make(chan job, DefaultQueueSize),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start launches the delivery worker.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return fmt.Errorf("dispatcher already started")
	}
	d.started = true
	ctx, d.cancel = context.WithCancel(ctx)

	d.wg.Add(1)
	go d.work(ctx)
	return nil
}

// Stop cancels the worker and waits for it to exit. Commands still queued
// are discarded.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	cancel := d.cancel
	d.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	d.wg.Wait()
}

// Route returns the source a command of the given kind is sent to: the first
// healthy source in name order that accepts it, or failing that the first
// unhealthy one.
func (d *Dispatcher) Route(kind providers.CommandKind) (string, bool) {
	fallback := ""
	for _, name := range d.registry.List() {
		if !slices.Contains(d.registry.Capabilities(name), kind) {
			continue
		}
		if p, ok := d.registry.Get(name); ok && p.Healthy() {
			return name, true
		}
		if fallback == "" {
			fallback = name
		}
	}
	return fallback, fallback != ""
}

// Dispatch routes cmd by capability and queues it. It reports false when
// no source accepts the command or the queue is full.
func (d *Dispatcher) Dispatch(cmd providers.Command) bool {
	source, ok := d.Route(cmd.Kind())
	if !ok {
		d.dropped.Add(1)
		d.logger.Warn("no source accepts command", "command", cmd.Kind().String())
		return false
	}
	return d.enqueue(job{source: source, cmd: cmd})
}

// DispatchAll queues cmds in order. It stops at the first command that
// cannot be queued so that a later command never overtakes an earlier one.
func (d *Dispatcher) DispatchAll(cmds []providers.Command) bool {
	for _, cmd := range cmds {
		if !d.Dispatch(cmd) {
			return false
		}
	}
	return true
}

// SendTo queues cmd for the named source, bypassing capability routing.
func (d *Dispatcher) SendTo(source string, cmd providers.Command) bool {
	if _, ok := d.registry.Commander(source); !ok {
		d.dropped.Add(1)
		d.logger.Warn("source does not take commands", "source", source, "command", cmd.Kind().String())
		return false
	}
	return d.enqueue(job{source: source, cmd: cmd})
}

// Stats returns a snapshot of the delivery counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Queued:    d.queued.Load(),
		Delivered: d.delivered.Load(),
		Failed:    d.failed.Load(),
		Dropped:   d.dropped.Load(),
	}
}

func (d *Dispatcher) enqueue(j job) bool {
	select {
	case d.queue <- j:
		d.queued.Add(1)
		return true
	default:
		d.dropped.Add(1)
		d.logger.Warn("command queue full, dropping",
			"source", j.source, "command", j.cmd.Kind().String())
		return false
	}
}

func (d *Dispatcher) work(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-d.queue:
			d.deliver(ctx, j)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, j job) {
	c, ok := d.registry.Commander(j.source)
	if !ok {
		d.failed.Add(1)
		d.logger.Warn("source vanished before delivery", "source", j.source)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	if err := c.Command(ctx, j.cmd); err != nil {
		d.failed.Add(1)
		d.logger.Warn("command failed",
			"source", j.source,
			"command", j.cmd.Kind().String(),
			"error", err,
		)
		return
	}
	d.delivered.Add(1)
	d.logger.Debug("command delivered",
		"source", j.source,
		"command", j.cmd.Kind().String(),
		"latency", time.Since(start),
	)
}
