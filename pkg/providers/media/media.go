// Package media reports the current MPRIS session via playerctl.
package media

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync/atomic"
	"time"

	"gitlab.com/tinyland/lab/qqbar/pkg/providers"
)

const format = "{{status}}\t{{artist}}\t{{title}}"

// errNoPlayer is returned by the metadata query when no player is running.
var errNoPlayer = errors.New("no players found")

// Provider is the "media" source.
type Provider struct {
	interval time.Duration
	failed   atomic.Bool
	metadata func(ctx context.Context) (string, error)
}

// New creates the media source.
func New(interval time.Duration) *Provider {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Provider{interval: interval, metadata: playerctl}
}

func (p *Provider) Name() string            { return "media" }
func (p *Provider) Interval() time.Duration { return p.interval }
func (p *Provider) Healthy() bool           { return !p.failed.Load() }

// Collect returns the active session. No running player, or a stopped one,
// reports the source as absent.
func (p *Provider) Collect(ctx context.Context) (providers.Value, error) {
	out, err := p.metadata(ctx)
	if errors.Is(err, errNoPlayer) {
		p.failed.Store(false)
		return nil, nil
	}
	p.failed.Store(err != nil)
	if err != nil {
		return nil, fmt.Errorf("media: %w", err)
	}
	m, ok := parseMetadata(out)
	if !ok {
		return nil, nil
	}
	return m, nil
}

func parseMetadata(out string) (providers.Media, bool) {
	fields := strings.SplitN(strings.TrimRight(out, "\n"), "\t", 3)
	if len(fields) != 3 || fields[0] == "Stopped" || fields[2] == "" {
		return providers.Media{}, false
	}
	return providers.Media{
		IsPlaying: fields[0] == "Playing",
		Artist:    fields[1],
		Title:     fields[2],
	}, true
}

func playerctl(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	out, err := exec.CommandContext(ctx, "playerctl", "metadata", "--format", format).CombinedOutput()
	if err != nil && strings.Contains(strings.ToLower(string(out)), "no players found") {
		return "", errNoPlayer
	}
	return string(out), err
}
