package dispatch

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/qqbar/pkg/providers"
)

var wmKinds = []providers.CommandKind{
	providers.CmdFocusWorkspace,
	providers.CmdTogglePause,
	providers.CmdDisableBindingMode,
	providers.CmdToggleTilingDirection,
}

func setup(t *testing.T, mocks ...*providers.MockProvider) *providers.Registry {
	t.Helper()
	r := providers.NewRegistry()
	for _, m := range mocks {
		if err := r.Register(m); err != nil {
			t.Fatalf("Register(%s): %v", m.Name(), err)
		}
	}
	return r
}

func start(t *testing.T, d *Dispatcher) {
	t.Helper()
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(d.Stop)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestDispatchRoutesByCapability(t *testing.T) {
	wm := providers.NewMockProvider("glazewm", time.Second, providers.WithAccepts(wmKinds...))
	audio := providers.NewMockProvider("audio", time.Second,
		providers.WithAccepts(providers.CmdSetMute, providers.CmdSetVolume))
	d := New(setup(t, wm, audio))
	start(t, d)

	if !d.Dispatch(providers.FocusWorkspace{Name: "2"}) {
		t.Error("FocusWorkspace was not queued")
	}
	if !d.Dispatch(providers.SetVolume{Volume: 30}) {
		t.Error("SetVolume was not queued")
	}

	waitFor(t, func() bool {
		return len(wm.Commands()) == 1 && len(audio.Commands()) == 1
	})

	if got := wm.Commands()[0]; got != (providers.FocusWorkspace{Name: "2"}) {
		t.Errorf("glazewm got %#v", got)
	}
	if got := audio.Commands()[0]; got != (providers.SetVolume{Volume: 30}) {
		t.Errorf("audio got %#v", got)
	}
}

func TestDispatchPreservesOrder(t *testing.T) {
	audio := providers.NewMockProvider("audio", time.Second,
		providers.WithAccepts(providers.CmdSetMute, providers.CmdSetVolume))
	d := New(setup(t, audio))
	start(t, d)

	cmds := []providers.Command{
		providers.SetMute{Muted: false},
		providers.SetVolume{Volume: 37},
		providers.SetMute{Muted: true},
	}
	if !d.DispatchAll(cmds) {
		t.Fatal("DispatchAll dropped a command")
	}

	waitFor(t, func() bool { return len(audio.Commands()) == 3 })
	if got := audio.Commands(); !slices.Equal(got, cmds) {
		t.Errorf("delivered %v, want %v", got, cmds)
	}
}

func TestDispatchUnroutable(t *testing.T) {
	d := New(setup(t, providers.NewMockProvider("cpu", time.Second)))

	if d.Dispatch(providers.TogglePause{}) {
		t.Error("TogglePause should have no route")
	}
	s := d.Stats()
	if s.Dropped != 1 || s.Queued != 0 {
		t.Errorf("Stats = %+v, want 1 dropped 0 queued", s)
	}
}

func TestRoutePrefersHealthySource(t *testing.T) {
	ewmh := providers.NewMockProvider("ewmh", time.Second,
		providers.WithAccepts(providers.CmdFocusWorkspace), providers.WithHealthy(false))
	glaze := providers.NewMockProvider("glazewm", time.Second, providers.WithAccepts(wmKinds...))
	d := New(setup(t, ewmh, glaze))

	if src, ok := d.Route(providers.CmdFocusWorkspace); !ok || src != "glazewm" {
		t.Errorf("Route = %q, %v; want glazewm", src, ok)
	}

	// With every candidate unhealthy the first accepting source wins.
	glaze.SetHealthy(false)
	if src, ok := d.Route(providers.CmdFocusWorkspace); !ok || src != "ewmh" {
		t.Errorf("Route = %q, %v; want ewmh", src, ok)
	}

	if _, ok := d.Route(providers.CmdSetVolume); ok {
		t.Error("SetVolume should have no route")
	}
}

func TestSendTo(t *testing.T) {
	ewmh := providers.NewMockProvider("ewmh", time.Second, providers.WithAccepts(providers.CmdFocusWorkspace))
	glaze := providers.NewMockProvider("glazewm", time.Second, providers.WithAccepts(wmKinds...))
	d := New(setup(t, ewmh, glaze, providers.NewMockProvider("cpu", time.Second)))
	start(t, d)

	if !d.SendTo("glazewm", providers.FocusWorkspace{Name: "3"}) {
		t.Fatal("SendTo glazewm was not queued")
	}
	if d.SendTo("missing", providers.TogglePause{}) {
		t.Error("SendTo an unknown source should fail")
	}

	waitFor(t, func() bool { return len(glaze.Commands()) == 1 })
	if n := len(ewmh.Commands()); n != 0 {
		t.Errorf("ewmh got %d commands, want 0", n)
	}
}

func TestFullQueueDrops(t *testing.T) {
	audio := providers.NewMockProvider("audio", time.Second, providers.WithAccepts(providers.CmdSetMute))
	d := New(setup(t, audio), WithQueueSize(1))

	// Not started: nothing drains the queue.
	if !d.Dispatch(providers.SetMute{Muted: true}) {
		t.Error("first command should fit the queue")
	}
	if d.Dispatch(providers.SetMute{Muted: false}) {
		t.Error("second command should be dropped")
	}

	s := d.Stats()
	if s.Queued != 1 || s.Dropped != 1 {
		t.Errorf("Stats = %+v, want 1 queued 1 dropped", s)
	}
}

func TestDispatchAllStopsAtFirstDrop(t *testing.T) {
	audio := providers.NewMockProvider("audio", time.Second,
		providers.WithAccepts(providers.CmdSetMute, providers.CmdSetVolume))
	d := New(setup(t, audio), WithQueueSize(1))

	ok := d.DispatchAll([]providers.Command{
		providers.SetMute{Muted: false},
		providers.SetVolume{Volume: 10},
		providers.SetVolume{Volume: 20},
	})
	if ok {
		t.Error("DispatchAll should report the drop")
	}
	s := d.Stats()
	if s.Queued != 1 || s.Dropped != 1 {
		t.Errorf("Stats = %+v, want 1 queued 1 dropped", s)
	}
}

func TestFailureIsCountedNotReturned(t *testing.T) {
	audio := providers.NewMockProvider("audio", time.Second,
		providers.WithAccepts(providers.CmdSetMute),
		providers.WithCommandError(errors.New("pactl: connection refused")))
	d := New(setup(t, audio))
	start(t, d)

	if !d.Dispatch(providers.SetMute{Muted: true}) {
		t.Fatal("SetMute was not queued")
	}
	waitFor(t, func() bool { return d.Stats().Failed == 1 })
	if n := d.Stats().Delivered; n != 0 {
		t.Errorf("Delivered = %d, want 0", n)
	}
}

func TestStartTwice(t *testing.T) {
	d := New(providers.NewRegistry())
	start(t, d)
	if err := d.Start(context.Background()); err == nil {
		t.Error("second Start should fail")
	}
}

func TestStopWithoutStart(t *testing.T) {
	d := New(providers.NewRegistry())
	d.Stop()
}
