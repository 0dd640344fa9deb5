// Package clock emits the formatted local date and time.
package clock

import (
	"context"
	"time"

	"gitlab.com/tinyland/lab/qqbar/pkg/providers"
)

// DefaultLayout renders e.g. "Mon 19 Oct 14:05".
const DefaultLayout = "Mon 2 Jan 15:04"

// Provider is the "date" source.
type Provider struct {
	layout   string
	interval time.Duration
	loc      *time.Location
	now      func() time.Time
}

// New creates the date source. An empty layout uses DefaultLayout; a nil
// location uses time.Local.
func New(layout string, interval time.Duration, loc *time.Location) *Provider {
	if layout == "" {
		layout = DefaultLayout
	}
	if interval <= 0 {
		interval = time.Second
	}
	if loc == nil {
		loc = time.Local
	}
	return &Provider{layout: layout, interval: interval, loc: loc, now: time.Now}
}

// Name returns the source name.
func (p *Provider) Name() string { return "date" }

// Interval returns the polling interval.
func (p *Provider) Interval() time.Duration { return p.interval }

// Healthy always returns true.
func (p *Provider) Healthy() bool { return true }

// Collect formats the current time.
func (p *Provider) Collect(ctx context.Context) (providers.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := p.now().In(p.loc)
	return providers.Date{Formatted: now.Format(p.layout), Now: now}, nil
}
