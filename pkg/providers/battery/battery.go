// Package battery reads battery state from the Linux power_supply class.
// Hosts without a battery report the source as absent.
package battery

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"gitlab.com/tinyland/lab/qqbar/pkg/providers"
)

// DefaultRoot is the sysfs power_supply directory.
const DefaultRoot = "/sys/class/power_supply"

// Provider is the "battery" source.
type Provider struct {
	fsys     fs.FS
	interval time.Duration
	failed   atomic.Bool
}

// New creates a battery source reading from root (DefaultRoot when empty).
func New(root string, interval time.Duration) *Provider {
	if root == "" {
		root = DefaultRoot
	}
	return NewFS(os.DirFS(root), interval)
}

// NewFS creates a battery source reading from fsys.
func NewFS(fsys fs.FS, interval time.Duration) *Provider {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Provider{fsys: fsys, interval: interval}
}

// Name returns the source name.
func (p *Provider) Name() string { return "battery" }

// Interval returns the polling interval.
func (p *Provider) Interval() time.Duration { return p.interval }

// Healthy reports whether the last read succeeded.
func (p *Provider) Healthy() bool { return !p.failed.Load() }

// Collect averages the capacity of every battery. Any battery reporting
// "Charging" marks the whole reading as charging.
func (p *Provider) Collect(ctx context.Context) (providers.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := fs.ReadDir(p.fsys, ".")
	if err != nil {
		p.failed.Store(true)
		return nil, fmt.Errorf("battery: %w", err)
	}
	p.failed.Store(false)

	var (
		total    float64
		count    int
		charging bool
	)
	for _, e := range entries {
		if kind, _ := p.readString(e.Name(), "type"); kind != "Battery" {
			continue
		}
		capText, err := p.readString(e.Name(), "capacity")
		if err != nil {
			continue
		}
		capacity, err := strconv.ParseFloat(capText, 64)
		if err != nil {
			continue
		}
		total += capacity
		count++
		if status, _ := p.readString(e.Name(), "status"); status == "Charging" {
			charging = true
		}
	}

	if count == 0 {
		return nil, nil
	}
	return providers.Battery{
		ChargePercent: total / float64(count),
		IsCharging:    charging,
	}, nil
}

func (p *Provider) readString(dir, file string) (string, error) {
	b, err := fs.ReadFile(p.fsys, path.Join(dir, file))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
