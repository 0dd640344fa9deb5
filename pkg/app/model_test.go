package app

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/qqbar/pkg/components"
	"gitlab.com/tinyland/lab/qqbar/pkg/config"
	"gitlab.com/tinyland/lab/qqbar/pkg/layout"
	"gitlab.com/tinyland/lab/qqbar/pkg/providers"
)

type fakeDispatcher struct {
	cmds []providers.Command
	full bool
}

func (f *fakeDispatcher) Dispatch(cmd providers.Command) bool {
	if f.full {
		return false
	}
	f.cmds = append(f.cmds, cmd)
	return true
}

func (f *fakeDispatcher) DispatchAll(cmds []providers.Command) bool {
	for _, c := range cmds {
		if !f.Dispatch(c) {
			return false
		}
	}
	return true
}

// fakeLocator places click targets at fixed spans on row 0.
type fakeLocator map[string]layout.Span

func (f fakeLocator) locate(id string, msg tea.MouseMsg) (int, bool, bool) {
	s, ok := f[id]
	if !ok {
		return 0, false, false
	}
	return msg.X - s.X, s.Contains(msg.X), true
}

// helper to create a model over the full snapshot.
func newTestModel() (*Model, *fakeDispatcher) {
	d := &fakeDispatcher{}
	m := New(config.ZonePreset("default"), asciiRenderer(), d)
	m.loc = fakeLocator{
		"workspace:1": {X: 0, Width: 1},
		"workspace:2": {X: 2, Width: 3},
		IDAudioSlider: {X: 80, Width: 14},
		IDAudio:       {X: 100, Width: 5},
	}
	m.SetSnapshot(fullSnapshot())
	return m, d
}

// helper to send a message through Update and return the command.
func send(m *Model, msg tea.Msg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(x int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func TestWindowSizeAndView(t *testing.T) {
	m, _ := newTestModel()
	send(m, tea.WindowSizeMsg{Width: 160, Height: 1})

	if m.Width() != 160 {
		t.Fatalf("width = %d", m.Width())
	}
	view := m.View()
	if w := components.VisibleLen(view); w != 160 {
		t.Errorf("view width = %d, want 160", w)
	}
	for _, want := range []string{"Mon 2 Jan 15:04", "+ [####] 91%", "clear_day 14°C", "web"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestSnapshotEventRecomposes(t *testing.T) {
	m, _ := newTestModel()
	send(m, SnapshotEvent{Snapshot: build(set("cpu", providers.CPU{Usage: 99}))})

	items := m.Bar().Items()
	if len(items) != 1 || items[0].ID != "cpu" {
		t.Errorf("items = %v", ids(items))
	}
	send(m, SnapshotEvent{})
	if n := len(m.Bar().Items()); n != 0 {
		t.Errorf("nil snapshot should compose nothing, got %d items", n)
	}
}

func TestWindowManagerKeys(t *testing.T) {
	m, d := newTestModel()
	send(m, runes("2"))
	send(m, runes("9"))
	send(m, runes("p"))
	send(m, runes("t"))

	want := []providers.Command{
		providers.FocusWorkspace{Name: "2"},
		providers.TogglePause{},
		providers.ToggleTilingDirection{},
	}
	if len(d.cmds) != len(want) {
		t.Fatalf("dispatched %v, want %v", d.cmds, want)
	}
	for i := range want {
		if d.cmds[i] != want[i] {
			t.Errorf("cmd[%d] = %v, want %v", i, d.cmds[i], want[i])
		}
	}
}

func TestVolumeEditorKeys(t *testing.T) {
	m, d := newTestModel()

	send(m, runes("v"))
	if !m.Editor().IsOpen() || m.Editor().Value() != 40 {
		t.Fatalf("editor open=%v value=%d, want open at 40", m.Editor().IsOpen(), m.Editor().Value())
	}
	if _, ok := m.Bar().Find(IDAudioSlider); !ok {
		t.Fatal("slider not shown while open")
	}

	send(m, tea.KeyMsg{Type: tea.KeyRight})
	send(m, tea.KeyMsg{Type: tea.KeyRight})

	// An upstream push while open does not move the edit.
	send(m, SnapshotEvent{Snapshot: build(set("audio", providers.Audio{
		DefaultPlaybackDevice: &providers.AudioDevice{Volume: 90},
	}))})
	if v := m.Editor().Value(); v != 50 {
		t.Errorf("edited = %d after upstream push, want 50", v)
	}
	if len(d.cmds) != 0 {
		t.Fatalf("provider touched before commit: %v", d.cmds)
	}

	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(d.cmds) != 2 || d.cmds[0] != (providers.SetMute{Muted: false}) || d.cmds[1] != (providers.SetVolume{Volume: 50}) {
		t.Errorf("commit dispatched %v", d.cmds)
	}
	if !m.Editor().IsOpen() {
		t.Error("commit must not close the editor")
	}

	send(m, runes("v"))
	if m.Editor().IsOpen() {
		t.Error("second toggle should close the editor")
	}
	if _, ok := m.Bar().Find(IDAudioSlider); ok {
		t.Error("slider shown while closed")
	}
}

func TestVolumeCommitZeroMutes(t *testing.T) {
	m, d := newTestModel()
	send(m, runes("v"))
	for i := 0; i < 10; i++ {
		send(m, tea.KeyMsg{Type: tea.KeyLeft})
	}
	send(m, tea.KeyMsg{Type: tea.KeyEnter})

	if len(d.cmds) != 1 || d.cmds[0] != (providers.SetMute{Muted: true}) {
		t.Errorf("commit at 0 dispatched %v, want only mute(true)", d.cmds)
	}
}

func TestVolumeKeysIgnoredWhileClosed(t *testing.T) {
	m, d := newTestModel()
	send(m, tea.KeyMsg{Type: tea.KeyRight})
	if m.Editor().Value() != 40 || len(d.cmds) != 0 {
		t.Errorf("closed editor moved to %d, dispatched %v", m.Editor().Value(), d.cmds)
	}
}

func TestMouseDragCommitsOnRelease(t *testing.T) {
	m, d := newTestModel()

	send(m, press(101))
	if !m.Editor().IsOpen() {
		t.Fatal("click on audio should open the editor")
	}

	send(m, press(84))
	if v := m.Editor().Value(); v != 50 {
		t.Errorf("press at track cell 4: volume = %d, want 50", v)
	}
	send(m, tea.MouseMsg{X: 86, Action: tea.MouseActionMotion})
	if v := m.Editor().Value(); v != 70 {
		t.Errorf("drag to cell 6: volume = %d, want 70", v)
	}
	if len(d.cmds) != 0 {
		t.Fatalf("dispatched during drag: %v", d.cmds)
	}

	send(m, tea.MouseMsg{X: 86, Action: tea.MouseActionRelease})
	if len(d.cmds) != 2 || d.cmds[1] != (providers.SetVolume{Volume: 70}) {
		t.Errorf("release dispatched %v", d.cmds)
	}

	// Motion after release is not a drag.
	send(m, tea.MouseMsg{X: 82, Action: tea.MouseActionMotion})
	if v := m.Editor().Value(); v != 70 {
		t.Errorf("motion after release moved volume to %d", v)
	}
}

func TestMouseClickWorkspace(t *testing.T) {
	m, d := newTestModel()
	send(m, press(3))
	send(m, press(50))

	if len(d.cmds) != 1 || d.cmds[0] != (providers.FocusWorkspace{Name: "2"}) {
		t.Errorf("dispatched %v", d.cmds)
	}
}

func TestMouseWheelNudges(t *testing.T) {
	m, _ := newTestModel()
	wheel := tea.MouseMsg{X: 101, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp}

	send(m, wheel)
	if m.Editor().Value() != 40 {
		t.Error("wheel must not move a closed editor")
	}
	send(m, press(101))
	send(m, wheel)
	if v := m.Editor().Value(); v != 45 {
		t.Errorf("wheel up: volume = %d, want 45", v)
	}
}

func TestFocusCycling(t *testing.T) {
	m, d := newTestModel()

	want := []string{"workspace:1", "workspace:2", IDPaused, "binding:resize", IDTiling, IDAudio, "workspace:1"}
	for i, id := range want {
		send(m, tea.KeyMsg{Type: tea.KeyTab})
		if got := m.FocusedID(); got != id {
			t.Fatalf("tab %d: focus = %q, want %q", i+1, got, id)
		}
	}

	send(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if got := m.FocusedID(); got != IDAudio {
		t.Errorf("shift+tab wrap: focus = %q", got)
	}

	send(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	send(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	send(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if got := m.FocusedID(); got != IDPaused {
		t.Fatalf("focus = %q, want paused", got)
	}
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(d.cmds) != 1 || d.cmds[0] != (providers.TogglePause{}) {
		t.Errorf("enter on paused dispatched %v", d.cmds)
	}
}

func TestFocusDroppedWhenItemLeaves(t *testing.T) {
	m, _ := newTestModel()
	send(m, tea.KeyMsg{Type: tea.KeyTab})
	send(m, SnapshotEvent{Snapshot: build(set("cpu", providers.CPU{Usage: 1}))})
	if m.FocusedID() != "" {
		t.Errorf("focus = %q after workspaces vanished", m.FocusedID())
	}
	send(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.FocusedID() != "" {
		t.Errorf("nothing interactive, focus = %q", m.FocusedID())
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel()
	cmd := send(m, runes("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("q returned %T, want tea.QuitMsg", cmd())
	}
}

func TestDispatchFailureDoesNotPanic(t *testing.T) {
	m, d := newTestModel()
	d.full = true
	send(m, runes("p"))
	send(m, runes("v"))
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(d.cmds) != 0 {
		t.Errorf("dispatched %v through a full queue", d.cmds)
	}
}
