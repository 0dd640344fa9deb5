// Package sysmetrics provides the cpu and memory sources. It uses gopsutil
// so the same code runs on Linux and Darwin without /proc dependencies.
package sysmetrics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"

	"gitlab.com/tinyland/lab/qqbar/pkg/providers"
)

// Config controls the polling cadence of both sources.
type Config struct {
	// CPUInterval is the polling rate for CPU usage (default 2s).
	CPUInterval time.Duration

	// MemoryInterval is the polling rate for memory usage (default 5s).
	MemoryInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		CPUInterval:    2 * time.Second,
		MemoryInterval: 5 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.CPUInterval <= 0 {
		c.CPUInterval = d.CPUInterval
	}
	if c.MemoryInterval <= 0 {
		c.MemoryInterval = d.MemoryInterval
	}
	return c
}

// health is the shared healthy flag both providers embed.
type health struct {
	mu      sync.Mutex
	healthy bool
}

func (h *health) Healthy() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.healthy
}

func (h *health) set(ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.healthy = ok
}

// CPU reports total CPU usage.
type CPU struct {
	health
	interval time.Duration

	// percent is swapped out in tests.
	percent func(ctx context.Context) ([]float64, error)
}

// NewCPU creates the "cpu" source.
func NewCPU(cfg Config) *CPU {
	cfg = cfg.withDefaults()
	return &CPU{
		health:   health{healthy: true},
		interval: cfg.CPUInterval,
		percent: func(ctx context.Context) ([]float64, error) {
			// interval=0 compares against the previous call.
			return cpu.PercentWithContext(ctx, 0, false)
		},
	}
}

// Name returns the source name.
func (c *CPU) Name() string { return "cpu" }

// Interval returns the polling interval.
func (c *CPU) Interval() time.Duration { return c.interval }

// Collect samples aggregate CPU usage.
func (c *CPU) Collect(ctx context.Context) (providers.Value, error) {
	total, err := c.percent(ctx)
	if err != nil {
		c.set(false)
		return nil, fmt.Errorf("cpu: %w", err)
	}
	if len(total) == 0 {
		c.set(false)
		return nil, fmt.Errorf("cpu: no samples")
	}
	c.set(true)
	return providers.CPU{Usage: clampPercent(total[0])}, nil
}

// Memory reports used physical memory.
type Memory struct {
	health
	interval time.Duration

	virtual func(ctx context.Context) (*mem.VirtualMemoryStat, error)
}

// NewMemory creates the "memory" source.
func NewMemory(cfg Config) *Memory {
	cfg = cfg.withDefaults()
	return &Memory{
		health:   health{healthy: true},
		interval: cfg.MemoryInterval,
		virtual:  mem.VirtualMemoryWithContext,
	}
}

// Name returns the source name.
func (m *Memory) Name() string { return "memory" }

// Interval returns the polling interval.
func (m *Memory) Interval() time.Duration { return m.interval }

// Collect samples physical memory usage.
func (m *Memory) Collect(ctx context.Context) (providers.Value, error) {
	vm, err := m.virtual(ctx)
	if err != nil {
		m.set(false)
		return nil, fmt.Errorf("memory: %w", err)
	}
	m.set(true)
	return providers.Memory{Usage: clampPercent(vm.UsedPercent)}, nil
}

func clampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
