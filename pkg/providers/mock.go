package providers

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// MockProvider implements Provider and Commander for tests and the
// -use-mocks demo mode. It tracks how many times Collect has been called and
// records every command it receives.
type MockProvider struct {
	name     string
	interval time.Duration
	value    Value
	err      error
	healthy  bool
	accepts  []CommandKind
	cmdErr   error

	mu        sync.RWMutex
	callCount atomic.Int64
	commands  []Command

	// CollectFunc, if set, overrides the default Collect behavior.
	CollectFunc func(ctx context.Context) (Value, error)

	// OnCommand, if set, is called after a command is recorded.
	OnCommand func(cmd Command)
}

// MockOption configures a MockProvider.
type MockOption func(*MockProvider)

// WithValue sets the value returned by Collect.
func WithValue(v Value) MockOption {
	return func(m *MockProvider) { m.value = v }
}

// WithError sets the error returned by Collect.
func WithError(err error) MockOption {
	return func(m *MockProvider) { m.err = err }
}

// WithHealthy sets the Healthy() return value.
func WithHealthy(healthy bool) MockOption {
	return func(m *MockProvider) { m.healthy = healthy }
}

// WithCollectFunc sets a custom function for Collect.
func WithCollectFunc(fn func(ctx context.Context) (Value, error)) MockOption {
	return func(m *MockProvider) { m.CollectFunc = fn }
}

// WithAccepts sets the command kinds the mock accepts.
func WithAccepts(kinds ...CommandKind) MockOption {
	return func(m *MockProvider) { m.accepts = kinds }
}

// WithCommandError makes every Command call fail with err.
func WithCommandError(err error) MockOption {
	return func(m *MockProvider) { m.cmdErr = err }
}

// NewMockProvider creates a mock provider with the given name, interval,
// and options.
func NewMockProvider(name string, interval time.Duration, opts ...MockOption) *MockProvider {
	m := &MockProvider{
		name:     name,
		interval: interval,
		healthy:  true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name returns the source name.
func (m *MockProvider) Name() string { return m.name }

// Interval returns the configured collection interval.
func (m *MockProvider) Interval() time.Duration { return m.interval }

// Healthy returns the configured health status.
func (m *MockProvider) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.healthy
}

// SetHealthy updates the health status (thread-safe).
func (m *MockProvider) SetHealthy(h bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthy = h
}

// SetValue updates the returned value (thread-safe).
func (m *MockProvider) SetValue(v Value) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = v
}

// SetError updates the returned error (thread-safe).
func (m *MockProvider) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Collect increments the call counter and returns the configured value and
// error, or delegates to CollectFunc if set.
func (m *MockProvider) Collect(ctx context.Context) (Value, error) {
	m.callCount.Add(1)

	if m.CollectFunc != nil {
		return m.CollectFunc(ctx)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.value, m.err
}

// CallCount returns how many times Collect has been called.
func (m *MockProvider) CallCount() int64 {
	return m.callCount.Load()
}

// Accepts returns the configured command kinds.
func (m *MockProvider) Accepts() []CommandKind {
	return m.accepts
}

// Command records cmd. Commands of a kind the mock does not accept are
// rejected.
func (m *MockProvider) Command(_ context.Context, cmd Command) error {
	if !slices.Contains(m.accepts, cmd.Kind()) {
		return fmt.Errorf("%s: command %s not supported", m.name, cmd.Kind())
	}
	m.mu.Lock()
	m.commands = append(m.commands, cmd)
	err := m.cmdErr
	fn := m.OnCommand
	m.mu.Unlock()

	if fn != nil {
		fn(cmd)
	}
	return err
}

// Commands returns a copy of every command received so far.
func (m *MockProvider) Commands() []Command {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.commands)
}

// MockStreamer is a push-based mock: every value sent on Feed is emitted
// until the stream's context ends or Feed is closed.
type MockStreamer struct {
	*MockProvider
	Feed chan Value
}

// NewMockStreamer creates a streaming mock with an unbuffered feed.
func NewMockStreamer(name string, opts ...MockOption) *MockStreamer {
	return &MockStreamer{
		MockProvider: NewMockProvider(name, minRestartDelay, opts...),
		Feed:         make(chan Value),
	}
}

// Stream emits values from Feed. It returns an error when Feed is closed.
func (s *MockStreamer) Stream(ctx context.Context, emit func(Value)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case v, ok := <-s.Feed:
			if !ok {
				return fmt.Errorf("%s: feed closed", s.name)
			}
			emit(v)
		}
	}
}
