// Package keyboard reports the active XKB layout via setxkbmap.
package keyboard

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync/atomic"
	"time"

	"gitlab.com/tinyland/lab/qqbar/pkg/providers"
)

// Provider is the "keyboard" source.
type Provider struct {
	interval time.Duration
	failed   atomic.Bool
	query    func(ctx context.Context) (string, error)
}

// New creates the keyboard source.
func New(interval time.Duration) *Provider {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Provider{interval: interval, query: setxkbmapQuery}
}

func (p *Provider) Name() string            { return "keyboard" }
func (p *Provider) Interval() time.Duration { return p.interval }
func (p *Provider) Healthy() bool           { return !p.failed.Load() }

// Collect returns the first configured layout. Output without a layout line
// reports the source as absent.
func (p *Provider) Collect(ctx context.Context) (providers.Value, error) {
	out, err := p.query(ctx)
	p.failed.Store(err != nil)
	if err != nil {
		return nil, fmt.Errorf("keyboard: %w", err)
	}
	layout, ok := parseLayout(out)
	if !ok {
		return nil, nil
	}
	return providers.Keyboard{Layout: layout}, nil
}

func parseLayout(out string) (string, bool) {
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		key, val, ok := strings.Cut(sc.Text(), ":")
		if !ok || strings.TrimSpace(key) != "layout" {
			continue
		}
		first, _, _ := strings.Cut(strings.TrimSpace(val), ",")
		if first == "" {
			return "", false
		}
		return first, true
	}
	return "", false
}

func setxkbmapQuery(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	out, err := exec.CommandContext(ctx, "setxkbmap", "-query").Output()
	return string(out), err
}
