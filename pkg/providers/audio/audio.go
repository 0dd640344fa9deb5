// Package audio reads and controls the default PulseAudio/PipeWire sink
// through pactl.
package audio

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"gitlab.com/tinyland/lab/qqbar/pkg/providers"
)

const defaultSink = "@DEFAULT_SINK@"

// commandTimeout bounds every pactl invocation.
const commandTimeout = 2 * time.Second

var volumeRe = regexp.MustCompile(`(\d+)%`)

// Provider is the "audio" source. It accepts set-mute and set-volume.
type Provider struct {
	interval time.Duration
	failed   atomic.Bool

	// run executes pactl; swapped out in tests.
	run func(ctx context.Context, args ...string) (string, error)
}

// New creates the audio source.
func New(interval time.Duration) *Provider {
	if interval <= 0 {
		interval = time.Second
	}
	return &Provider{interval: interval, run: pactl}
}

// Name returns the source name.
func (p *Provider) Name() string { return "audio" }

// Interval returns the polling interval.
func (p *Provider) Interval() time.Duration { return p.interval }

// Healthy reports whether pactl answered last time.
func (p *Provider) Healthy() bool { return !p.failed.Load() }

// Accepts lists the audio commands.
func (p *Provider) Accepts() []providers.CommandKind {
	return []providers.CommandKind{providers.CmdSetMute, providers.CmdSetVolume}
}

// Collect reads the default sink's name, volume and mute state. A server
// without a default sink reports an Audio value with no playback device.
func (p *Provider) Collect(ctx context.Context) (providers.Value, error) {
	v, err := p.collect(ctx)
	p.failed.Store(err != nil)
	return v, err
}

func (p *Provider) collect(ctx context.Context) (providers.Value, error) {
	name, err := p.run(ctx, "get-default-sink")
	if err != nil {
		return nil, fmt.Errorf("audio: %w", err)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return providers.Audio{}, nil
	}

	volOut, err := p.run(ctx, "get-sink-volume", defaultSink)
	if err != nil {
		return nil, fmt.Errorf("audio: volume: %w", err)
	}
	volume, err := parseVolume(volOut)
	if err != nil {
		return nil, fmt.Errorf("audio: %w", err)
	}

	muteOut, err := p.run(ctx, "get-sink-mute", defaultSink)
	if err != nil {
		return nil, fmt.Errorf("audio: mute: %w", err)
	}

	return providers.Audio{
		DefaultPlaybackDevice: &providers.AudioDevice{
			Name:   name,
			Volume: volume,
			Muted:  parseMute(muteOut),
		},
	}, nil
}

// Command applies set-mute or set-volume to the default sink.
func (p *Provider) Command(ctx context.Context, cmd providers.Command) error {
	var err error
	switch c := cmd.(type) {
	case providers.SetMute:
		flag := "0"
		if c.Muted {
			flag = "1"
		}
		_, err = p.run(ctx, "set-sink-mute", defaultSink, flag)
	case providers.SetVolume:
		pct := strconv.Itoa(providers.ClampVolume(c.Volume)) + "%"
		_, err = p.run(ctx, "set-sink-volume", defaultSink, pct)
	default:
		return fmt.Errorf("audio: command %s not supported", cmd.Kind())
	}
	if err != nil {
		return fmt.Errorf("audio: %s: %w", cmd.Kind(), err)
	}
	return nil
}

// parseVolume returns the first channel's percentage from
// `pactl get-sink-volume` output.
func parseVolume(out string) (int, error) {
	m := volumeRe.FindStringSubmatch(out)
	if m == nil {
		return 0, fmt.Errorf("no volume in %q", strings.TrimSpace(out))
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, err
	}
	return providers.ClampVolume(v), nil
}

func parseMute(out string) bool {
	return strings.Contains(strings.ToLower(out), "mute: yes")
}

func pactl(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, "pactl", args...).Output()
	return string(out), err
}
