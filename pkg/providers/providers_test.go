package providers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// --- Registry Tests ---

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	p := NewMockProvider("test", time.Second)

	if err := r.Register(p); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got, ok := r.Get("test")
	if !ok {
		t.Fatal("Get returned false for registered provider")
	}
	if got.Name() != "test" {
		t.Errorf("Name = %q, want %q", got.Name(), "test")
	}
}

func TestRegistryDuplicateNameError(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(NewMockProvider("dup", time.Second)); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if err := r.Register(NewMockProvider("dup", time.Second)); err == nil {
		t.Fatal("second Register should have returned an error for duplicate name")
	}
}

func TestRegistryEmptyNameError(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(NewMockProvider("", time.Second)); err == nil {
		t.Fatal("Register should reject an empty name")
	}
}

func TestRegistryList(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(NewMockProvider("network", time.Second))
	_ = r.Register(NewMockProvider("audio", time.Second))
	_ = r.Register(NewMockProvider("cpu", time.Second))

	names := r.List()
	expected := []string{"audio", "cpu", "network"}

	if len(names) != len(expected) {
		t.Fatalf("List returned %d names, want %d", len(names), len(expected))
	}
	for i, name := range names {
		if name != expected[i] {
			t.Errorf("List[%d] = %q, want %q", i, name, expected[i])
		}
	}
}

func TestRegistryStatus(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(NewMockProvider("memory", time.Second))

	s, ok := r.Status("memory")
	if !ok {
		t.Fatal("Status returned false for registered provider")
	}
	if s.Name != "memory" {
		t.Errorf("Status.Name = %q, want %q", s.Name, "memory")
	}
	if !s.Healthy {
		t.Error("initial status should be healthy")
	}
	if s.RunCount != 0 {
		t.Errorf("initial RunCount = %d, want 0", s.RunCount)
	}

	statuses := r.AllStatus()
	if len(statuses) != 1 || statuses[0].Name != "memory" {
		t.Errorf("AllStatus = %+v", statuses)
	}
}

func TestRegistryCapabilities(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(NewMockProvider("audio", time.Second, WithAccepts(CmdSetMute, CmdSetVolume)))
	_ = r.Register(NewMockProvider("cpu", time.Second))

	caps := r.Capabilities("audio")
	if len(caps) != 2 || caps[0] != CmdSetMute || caps[1] != CmdSetVolume {
		t.Errorf("Capabilities(audio) = %v", caps)
	}
	if caps := r.Capabilities("cpu"); len(caps) != 0 {
		t.Errorf("Capabilities(cpu) = %v, want none", caps)
	}
	if caps := r.Capabilities("missing"); caps != nil {
		t.Errorf("Capabilities(missing) = %v, want nil", caps)
	}
	if _, ok := r.Commander("missing"); ok {
		t.Error("Commander(missing) should be false")
	}
}

// --- Mock Provider Tests ---

func TestMockProviderWithOptions(t *testing.T) {
	testErr := errors.New("fail")
	m := NewMockProvider("opts", time.Second,
		WithValue(CPU{Usage: 12}),
		WithError(testErr),
		WithHealthy(false),
	)

	if m.Healthy() {
		t.Error("Healthy should be false")
	}

	v, err := m.Collect(context.Background())
	if v != (CPU{Usage: 12}) {
		t.Errorf("Value = %v, want CPU{12}", v)
	}
	if !errors.Is(err, testErr) {
		t.Errorf("Error = %v, want %v", err, testErr)
	}
	if m.CallCount() != 1 {
		t.Errorf("CallCount = %d, want 1", m.CallCount())
	}
}

func TestMockProviderRejectsUnacceptedCommand(t *testing.T) {
	m := NewMockProvider("audio", time.Second, WithAccepts(CmdSetMute))

	if err := m.Command(context.Background(), SetMute{Muted: true}); err != nil {
		t.Fatalf("SetMute: %v", err)
	}
	if err := m.Command(context.Background(), SetVolume{Volume: 10}); err == nil {
		t.Fatal("SetVolume should be rejected")
	}
	cmds := m.Commands()
	if len(cmds) != 1 || cmds[0] != (SetMute{Muted: true}) {
		t.Errorf("Commands = %v", cmds)
	}
}

// --- Command and Value Tests ---

func TestWMCommandWireFormat(t *testing.T) {
	tests := []struct {
		cmd  WMCommand
		want string
	}{
		{FocusWorkspace{Name: "3"}, "focus --workspace 3"},
		{TogglePause{}, "wm-toggle-pause"},
		{DisableBindingMode{Name: "resize"}, "wm-disable-binding-mode --name resize"},
		{ToggleTilingDirection{}, "toggle-tiling-direction"},
	}
	for _, tt := range tests {
		if got := tt.cmd.WMString(); got != tt.want {
			t.Errorf("%s: WMString = %q, want %q", tt.cmd.Kind(), got, tt.want)
		}
	}
}

func TestClampVolume(t *testing.T) {
	tests := []struct{ in, want int }{{-5, 0}, {0, 0}, {37, 37}, {100, 100}, {140, 100}}
	for _, tt := range tests {
		if got := ClampVolume(tt.in); got != tt.want {
			t.Errorf("ClampVolume(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestKindStrings(t *testing.T) {
	if KindNetwork.String() != "network" || KindWindowManager.String() != "window-manager" {
		t.Errorf("unexpected kind names: %s %s", KindNetwork, KindWindowManager)
	}
	if Kind(99).String() != "unknown" {
		t.Errorf("Kind(99) = %s", Kind(99))
	}
	if (Battery{}).Kind() != KindBattery || (Weather{}).Kind() != KindWeather {
		t.Error("variant Kind() mismatch")
	}
}

// --- Runner Tests ---

func TestRunnerReceivesUpdates(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(NewMockProvider("cpu", 50*time.Millisecond, WithValue(CPU{Usage: 40})))

	updates := make(chan Update, DefaultUpdateBufferSize)
	runner := NewRunner(r, updates)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	if err := runner.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer runner.Stop()

	select {
	case u := <-updates:
		if u.Source != "cpu" {
			t.Errorf("Source = %q, want %q", u.Source, "cpu")
		}
		if u.Value != (CPU{Usage: 40}) {
			t.Errorf("Value = %v, want CPU{40}", u.Value)
		}
		if u.Error != nil {
			t.Errorf("unexpected error: %v", u.Error)
		}
		if u.Seq != 1 {
			t.Errorf("Seq = %d, want 1", u.Seq)
		}
		if u.Timestamp.IsZero() {
			t.Error("Timestamp should not be zero")
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for update")
	}
}

func TestRunnerStartTwice(t *testing.T) {
	r := NewRegistry()
	runner := NewRunner(r, make(chan Update, 1))
	defer runner.Stop()

	if err := runner.Start(context.Background()); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if err := runner.Start(context.Background()); err == nil {
		t.Fatal("second Start should fail")
	}
}

func TestRunnerSequencePerSourceIncreases(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(NewMockProvider("a", 20*time.Millisecond, WithValue(CPU{})))
	_ = r.Register(NewMockProvider("b", 20*time.Millisecond, WithValue(Memory{})))

	updates := make(chan Update, DefaultUpdateBufferSize)
	runner := NewRunner(r, updates)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_ = runner.Start(ctx)

	last := map[string]uint64{}
	for i := 0; i < 10; i++ {
		select {
		case u := <-updates:
			if u.Seq <= last[u.Source] {
				t.Fatalf("%s: seq %d after %d", u.Source, u.Seq, last[u.Source])
			}
			last[u.Source] = u.Seq
		case <-ctx.Done():
			t.Fatal("timed out waiting for updates")
		}
	}
	runner.Stop()
}

func TestRunnerGracefulDegradation(t *testing.T) {
	r := NewRegistry()
	testErr := errors.New("broken")
	_ = r.Register(NewMockProvider("failing", 50*time.Millisecond, WithError(testErr)))
	_ = r.Register(NewMockProvider("working", 50*time.Millisecond, WithValue(Memory{Usage: 10})))

	updates := make(chan Update, DefaultUpdateBufferSize)
	runner := NewRunner(r, updates)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	_ = runner.Start(ctx)
	defer runner.Stop()

	var sawFailing, sawWorking bool
	deadline := time.After(400 * time.Millisecond)

	for !sawFailing || !sawWorking {
		select {
		case u := <-updates:
			switch u.Source {
			case "failing":
				sawFailing = true
				if u.Error == nil {
					t.Error("failing provider should report error")
				}
			case "working":
				sawWorking = true
				if u.Error != nil {
					t.Errorf("working provider had error: %v", u.Error)
				}
			}
		case <-deadline:
			t.Fatalf("timed out; sawFailing=%v sawWorking=%v", sawFailing, sawWorking)
		}
	}
}

func TestRunnerBlockedProviderDoesNotBlockOthers(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(NewMockProvider("stuck", 10*time.Millisecond,
		WithCollectFunc(func(ctx context.Context) (Value, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}),
	))
	_ = r.Register(NewMockProvider("alive", 10*time.Millisecond, WithValue(CPU{Usage: 1})))

	updates := make(chan Update, DefaultUpdateBufferSize)
	runner := NewRunner(r, updates)

	ctx, cancel := context.WithCancel(context.Background())
	_ = runner.Start(ctx)

	alive := 0
	deadline := time.After(time.Second)
	for alive < 3 {
		select {
		case u := <-updates:
			if u.Source == "alive" {
				alive++
			}
		case <-deadline:
			t.Fatalf("alive emitted %d times, want 3", alive)
		}
	}

	cancel()
	runner.Stop()
}

func TestRunnerContextCancellation(t *testing.T) {
	r := NewRegistry()

	blocked := make(chan struct{})
	_ = r.Register(NewMockProvider("slow", 50*time.Millisecond,
		WithCollectFunc(func(ctx context.Context) (Value, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case blocked <- struct{}{}:
				return CPU{}, nil
			}
		}),
	))

	updates := make(chan Update, DefaultUpdateBufferSize)
	runner := NewRunner(r, updates)

	ctx, cancel := context.WithCancel(context.Background())
	_ = runner.Start(ctx)

	select {
	case <-blocked:
	case <-time.After(2 * time.Second):
		t.Fatal("provider never ran")
	}

	cancel()

	done := make(chan struct{})
	go func() {
		runner.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Stop did not return after context cancellation")
	}
}

func TestRunnerStopWaitsForGoroutines(t *testing.T) {
	r := NewRegistry()

	var collectCount int64
	var mu sync.Mutex

	_ = r.Register(NewMockProvider("tracked", 30*time.Millisecond,
		WithCollectFunc(func(ctx context.Context) (Value, error) {
			mu.Lock()
			collectCount++
			mu.Unlock()
			return nil, nil
		}),
	))

	updates := make(chan Update, DefaultUpdateBufferSize)
	runner := NewRunner(r, updates)

	ctx, cancel := context.WithCancel(context.Background())
	_ = runner.Start(ctx)

	time.Sleep(150 * time.Millisecond)
	cancel()
	runner.Stop()
	runner.Stop()

	mu.Lock()
	count := collectCount
	mu.Unlock()

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	countAfter := collectCount
	mu.Unlock()

	if countAfter != count {
		t.Errorf("collections continued after Stop: before=%d, after=%d", count, countAfter)
	}
}

func TestRunnerRunOnce(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(NewMockProvider("manual", time.Hour, WithValue(Keyboard{Layout: "us"})))

	updates := make(chan Update, DefaultUpdateBufferSize)
	runner := NewRunner(r, updates)

	v, err := runner.RunOnce(context.Background(), "manual")
	if err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	if v != (Keyboard{Layout: "us"}) {
		t.Errorf("Value = %v", v)
	}

	select {
	case u := <-updates:
		if u.Source != "manual" || u.Seq != 1 {
			t.Errorf("published update = %+v", u)
		}
	default:
		t.Error("RunOnce should publish its result")
	}

	s, ok := r.Status("manual")
	if !ok {
		t.Fatal("Status not found after RunOnce")
	}
	if s.RunCount != 1 {
		t.Errorf("RunCount = %d, want 1", s.RunCount)
	}
	if s.LastRun.IsZero() {
		t.Error("LastRun should not be zero after RunOnce")
	}
	if s.LastLatency <= 0 {
		t.Error("LastLatency should be positive")
	}
}

func TestRunnerRunOnceNotFound(t *testing.T) {
	runner := NewRunner(NewRegistry(), make(chan Update, 1))
	if _, err := runner.RunOnce(context.Background(), "ghost"); err == nil {
		t.Fatal("RunOnce should error for unregistered provider")
	}
}

func TestRunnerHealth(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(NewMockProvider("good", time.Hour, WithValue(CPU{})))
	_ = r.Register(NewMockProvider("bad", time.Hour, WithError(errors.New("fail"))))

	updates := make(chan Update, DefaultUpdateBufferSize)
	runner := NewRunner(r, updates)

	health := runner.Health()
	if !health["good"] || !health["bad"] {
		t.Errorf("initial health should all be true: %v", health)
	}

	_, _ = runner.RunOnce(context.Background(), "bad")

	health = runner.Health()
	if !health["good"] {
		t.Error("good should still be healthy")
	}
	if health["bad"] {
		t.Error("bad should be unhealthy after error")
	}

	s, _ := r.Status("bad")
	if s.ErrorCount != 1 {
		t.Errorf("ErrorCount = %d, want 1", s.ErrorCount)
	}
}

func TestRunnerStreamsPushProviders(t *testing.T) {
	r := NewRegistry()
	s := NewMockStreamer("glazewm")
	_ = r.Register(s)

	updates := make(chan Update, DefaultUpdateBufferSize)
	runner := NewRunner(r, updates)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = runner.Start(ctx)
	defer runner.Stop()

	want := []WindowManager{
		{TilingDirection: TilingHorizontal},
		{TilingDirection: TilingVertical},
	}
	go func() {
		for _, v := range want {
			s.Feed <- v
		}
	}()

	for i, w := range want {
		select {
		case u := <-updates:
			got, ok := u.Value.(WindowManager)
			if !ok || got.TilingDirection != w.TilingDirection {
				t.Errorf("update %d = %+v, want %+v", i, u.Value, w)
			}
			if u.Seq != uint64(i+1) {
				t.Errorf("update %d seq = %d", i, u.Seq)
			}
		case <-ctx.Done():
			t.Fatal("timed out waiting for streamed value")
		}
	}
	if s.CallCount() != 0 {
		t.Errorf("streaming provider should not be polled, CallCount = %d", s.CallCount())
	}
}

func TestRunnerConcurrentRegistrySafety(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = r.Register(NewMockProvider(fmt.Sprintf("concurrent-%d", n), time.Second))
		}(i)
	}
	wg.Wait()

	if got := len(r.List()); got != 10 {
		t.Errorf("List returned %d providers, want 10", got)
	}
}
