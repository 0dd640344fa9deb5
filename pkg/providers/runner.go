package providers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultUpdateBufferSize is the recommended capacity of the updates channel.
const DefaultUpdateBufferSize = 64

// minRestartDelay bounds how quickly a failed stream is restarted.
const minRestartDelay = time.Second

// Runner drives every registered provider in its own goroutine and fans
// their emissions into one channel. A slow or dead provider only stalls its
// own goroutine.
type Runner struct {
	registry *Registry
	updates  chan<- Update
	logger   *slog.Logger

	mu      sync.Mutex
	seqs    map[string]*atomic.Uint64
	cancel  context.CancelFunc
	started bool

	wg       sync.WaitGroup
	stopOnce sync.Once
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger used for provider failures.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// NewRunner creates a runner that publishes to updates. The channel is never
// closed by the runner.
func NewRunner(r *Registry, updates chan<- Update, opts ...RunnerOption) *Runner {
	rn := &Runner{
		registry: r,
		updates:  updates,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		seqs:     make(map[string]*atomic.Uint64),
	}
	for _, opt := range opts {
		opt(rn)
	}
	return rn
}

// Start launches one goroutine per registered provider. Providers that
// implement Streamer are streamed; all others are polled at their Interval,
// starting immediately.
func (rn *Runner) Start(ctx context.Context) error {
	rn.mu.Lock()
	if rn.started {
		rn.mu.Unlock()
		return fmt.Errorf("runner already started")
	}
	rn.started = true
	ctx, rn.cancel = context.WithCancel(ctx)
	rn.mu.Unlock()

	for _, name := range rn.registry.List() {
		p, ok := rn.registry.Get(name)
		if !ok {
			continue
		}
		rn.wg.Add(1)
		if s, ok := p.(Streamer); ok {
			go rn.runStream(ctx, name, p, s)
		} else {
			go rn.runPoll(ctx, name, p)
		}
	}
	return nil
}

// Stop tears down every provider goroutine and waits for them to exit. It is
// safe to call more than once; only the first call has an effect.
func (rn *Runner) Stop() {
	rn.stopOnce.Do(func() {
		rn.mu.Lock()
		cancel := rn.cancel
		rn.mu.Unlock()
		if cancel != nil {
			cancel()
		}
		rn.wg.Wait()
	})
}

// RunOnce collects from the named provider immediately, publishes the result
// and returns it.
func (rn *Runner) RunOnce(ctx context.Context, name string) (Value, error) {
	p, ok := rn.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("provider %q not registered", name)
	}
	v, err := rn.collect(ctx, name, p)
	rn.publish(ctx, name, v, err)
	return v, err
}

// Health returns the healthy flag of every registered provider.
func (rn *Runner) Health() map[string]bool {
	statuses := rn.registry.AllStatus()
	health := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		health[s.Name] = s.Healthy
	}
	return health
}

func (rn *Runner) runPoll(ctx context.Context, name string, p Provider) {
	defer rn.wg.Done()

	interval := p.Interval()
	if interval <= 0 {
		interval = minRestartDelay
	}

	v, err := rn.collect(ctx, name, p)
	rn.publish(ctx, name, v, err)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			v, err := rn.collect(ctx, name, p)
			if ctx.Err() != nil {
				return
			}
			rn.publish(ctx, name, v, err)
		}
	}
}

func (rn *Runner) runStream(ctx context.Context, name string, p Provider, s Streamer) {
	defer rn.wg.Done()

	delay := p.Interval()
	if delay < minRestartDelay {
		delay = minRestartDelay
	}

	emit := func(v Value) {
		rn.registry.updateStatus(name, func(st *ProviderStatus) {
			st.Healthy = true
			st.LastRun = time.Now()
			st.RunCount++
			st.LastError = nil
		})
		rn.publish(ctx, name, v, nil)
	}

	for {
		err := s.Stream(ctx, emit)
		if ctx.Err() != nil {
			return
		}
		if err == nil {
			err = fmt.Errorf("stream ended")
		}
		rn.registry.updateStatus(name, func(st *ProviderStatus) {
			st.Healthy = false
			st.LastError = err
			st.ErrorCount++
		})
		rn.logger.Warn("provider stream failed", "source", name, "error", err, "retry_in", delay)
		rn.publish(ctx, name, nil, err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}

func (rn *Runner) collect(ctx context.Context, name string, p Provider) (Value, error) {
	start := time.Now()
	v, err := p.Collect(ctx)
	latency := time.Since(start)
	if latency <= 0 {
		latency = time.Nanosecond
	}

	rn.registry.updateStatus(name, func(s *ProviderStatus) {
		s.LastRun = start
		s.LastLatency = latency
		s.RunCount++
		if err != nil {
			s.Healthy = false
			s.LastError = err
			s.ErrorCount++
		} else {
			s.Healthy = true
			s.LastError = nil
		}
	})

	if err != nil && ctx.Err() == nil {
		rn.logger.Debug("provider collect failed", "source", name, "error", err)
	}
	return v, err
}

// publish stamps the next sequence number for name and delivers the update,
// giving up only when ctx is cancelled.
func (rn *Runner) publish(ctx context.Context, name string, v Value, err error) {
	u := Update{
		Source:    name,
		Value:     v,
		Seq:       rn.nextSeq(name),
		Timestamp: time.Now(),
		Error:     err,
	}
	select {
	case rn.updates <- u:
	case <-ctx.Done():
	}
}

func (rn *Runner) nextSeq(name string) uint64 {
	rn.mu.Lock()
	c, ok := rn.seqs[name]
	if !ok {
		c = new(atomic.Uint64)
		rn.seqs[name] = c
	}
	rn.mu.Unlock()
	return c.Add(1)
}
