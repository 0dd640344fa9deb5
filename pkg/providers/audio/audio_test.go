package audio

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gitlab.com/tinyland/lab/qqbar/pkg/providers"
)

type fakePactl struct {
	replies map[string]string
	fail    map[string]error
	calls   []string
}

func (f *fakePactl) run(_ context.Context, args ...string) (string, error) {
	line := strings.Join(args, " ")
	f.calls = append(f.calls, line)
	if err := f.fail[args[0]]; err != nil {
		return "", err
	}
	return f.replies[args[0]], nil
}

func newFake() *fakePactl {
	return &fakePactl{
		replies: map[string]string{
			"get-default-sink": "alsa_output.pci-0000_00_1f.3.analog-stereo\n",
			"get-sink-volume":  "Volume: front-left: 26214 /  40% / -23.88 dB,   front-right: 26214 /  40% / -23.88 dB\n        balance 0.00\n",
			"get-sink-mute":    "Mute: no\n",
		},
		fail: map[string]error{},
	}
}

func TestCollect(t *testing.T) {
	f := newFake()
	p := New(0)
	p.run = f.run

	v, err := p.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	dev := v.(providers.Audio).DefaultPlaybackDevice
	if dev == nil {
		t.Fatal("DefaultPlaybackDevice is nil")
	}
	if dev.Volume != 40 || dev.Muted {
		t.Errorf("device = %+v, want 40%% unmuted", dev)
	}
	if dev.Name != "alsa_output.pci-0000_00_1f.3.analog-stereo" {
		t.Errorf("Name = %q", dev.Name)
	}
}

func TestCollectNoSink(t *testing.T) {
	f := newFake()
	f.replies["get-default-sink"] = "\n"
	p := New(0)
	p.run = f.run

	v, err := p.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if v.(providers.Audio).DefaultPlaybackDevice != nil {
		t.Error("expected no playback device")
	}
}

func TestCollectServerDown(t *testing.T) {
	f := newFake()
	f.fail["get-default-sink"] = errors.New("connection refused")
	p := New(0)
	p.run = f.run

	if _, err := p.Collect(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if p.Healthy() {
		t.Error("provider should be unhealthy")
	}
}

func TestCollectSinkQueryFails(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fakePactl)
	}{
		{"volume", func(f *fakePactl) { f.fail["get-sink-volume"] = errors.New("no such entity") }},
		{"unparsable volume", func(f *fakePactl) { f.replies["get-sink-volume"] = "Volume: n/a\n" }},
		{"mute", func(f *fakePactl) { f.fail["get-sink-mute"] = errors.New("no such entity") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFake()
			tt.setup(f)
			p := New(0)
			p.run = f.run

			if _, err := p.Collect(context.Background()); err == nil {
				t.Fatal("expected error")
			}
			if p.Healthy() {
				t.Error("provider should be unhealthy")
			}

			f = newFake()
			p.run = f.run
			if _, err := p.Collect(context.Background()); err != nil {
				t.Fatalf("Collect after recovery: %v", err)
			}
			if !p.Healthy() {
				t.Error("provider should recover once the sink answers")
			}
		})
	}
}

func TestCommands(t *testing.T) {
	tests := []struct {
		cmd  providers.Command
		want string
	}{
		{providers.SetMute{Muted: true}, "set-sink-mute @DEFAULT_SINK@ 1"},
		{providers.SetMute{Muted: false}, "set-sink-mute @DEFAULT_SINK@ 0"},
		{providers.SetVolume{Volume: 37}, "set-sink-volume @DEFAULT_SINK@ 37%"},
		{providers.SetVolume{Volume: 180}, "set-sink-volume @DEFAULT_SINK@ 100%"},
	}
	for _, tt := range tests {
		f := newFake()
		p := New(0)
		p.run = f.run
		if err := p.Command(context.Background(), tt.cmd); err != nil {
			t.Fatalf("Command(%v): %v", tt.cmd, err)
		}
		if len(f.calls) != 1 || f.calls[0] != tt.want {
			t.Errorf("pactl calls = %v, want [%s]", f.calls, tt.want)
		}
	}
}

func TestCommandUnsupported(t *testing.T) {
	p := New(0)
	p.run = newFake().run
	if err := p.Command(context.Background(), providers.TogglePause{}); err == nil {
		t.Fatal("expected error for window-manager command")
	}
}

func TestParseVolume(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"Volume: mono: 65536 / 100% / 0.00 dB", 100, false},
		{"Volume: front-left: 0 /   0% / -inf dB", 0, false},
		{"Volume: front-left: 98304 / 150% / 10.57 dB", 100, false},
		{"garbage", 0, true},
	}
	for _, tt := range tests {
		got, err := parseVolume(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseVolume(%q) = %d, %v", tt.in, got, err)
		}
	}
}

func TestParseMute(t *testing.T) {
	if !parseMute("Mute: yes\n") || parseMute("Mute: no\n") {
		t.Error("parseMute mismatch")
	}
}
