// Package providers defines the interfaces, registry, and runner for qqbar
// data sources. Each source (cpu, network, glazewm, audio, ...) implements
// Provider and is driven by a Runner that fans every emission into a single
// updates channel consumed by the snapshot aggregator.
package providers

import (
	"context"
	"time"
)

// Provider is the interface all data sources implement. Adapters live in
// sub-packages (e.g., pkg/providers/sysmetrics) and are registered with the
// Registry at startup.
type Provider interface {
	// Name returns the unique source name (e.g., "network").
	Name() string

	// Collect performs one collection cycle. A nil Value with a nil error
	// reports the source as absent.
	Collect(ctx context.Context) (Value, error)

	// Interval returns how often the runner polls this provider. Streaming
	// providers use it as the restart delay after a failed stream.
	Interval() time.Duration

	// Healthy returns whether the provider is functioning.
	Healthy() bool
}

// Streamer is implemented by push-based providers. Stream blocks until ctx is
// cancelled or the underlying feed fails, calling emit for every new value.
// Calls to emit are serialized by the provider.
type Streamer interface {
	Stream(ctx context.Context, emit func(Value)) error
}

// Commander is implemented by providers that accept commands. Delivery is
// best-effort; callers do not wait for the effect, which shows up in a later
// emission.
type Commander interface {
	Command(ctx context.Context, cmd Command) error

	// Accepts lists the command kinds this provider understands.
	Accepts() []CommandKind
}

// ProviderStatus tracks the runtime state of a single provider. The runner
// updates it after every collection cycle.
type ProviderStatus struct {
	Name        string        `json:"name"`
	Healthy     bool          `json:"healthy"`
	LastRun     time.Time     `json:"lastRun"`
	LastError   error         `json:"-"`
	RunCount    int64         `json:"runCount"`
	ErrorCount  int64         `json:"errorCount"`
	LastLatency time.Duration `json:"lastLatency"`
}

// Update carries one emission from a provider goroutine to the aggregator.
// Seq increases monotonically per source; a consumer must drop an update whose
// Seq is not greater than the last one applied for that source.
type Update struct {
	Source    string
	Value     Value
	Seq       uint64
	Timestamp time.Time
	Error     error
}
