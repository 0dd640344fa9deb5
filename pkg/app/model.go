package app

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/qqbar/pkg/config"
	"gitlab.com/tinyland/lab/qqbar/pkg/control"
	"gitlab.com/tinyland/lab/qqbar/pkg/providers"
	"gitlab.com/tinyland/lab/qqbar/pkg/snapshot"
	"gitlab.com/tinyland/lab/qqbar/pkg/widgets"
)

// volumeStep is how far one key press or wheel notch moves the slider.
const volumeStep = 5

// Dispatcher sends commands to sources without waiting for their effect.
type Dispatcher interface {
	Dispatch(cmd providers.Command) bool
	DispatchAll(cmds []providers.Command) bool
}

// KeyMap holds the bar's key bindings.
type KeyMap struct {
	Workspace  key.Binding
	Pause      key.Binding
	Tiling     key.Binding
	Volume     key.Binding
	VolumeUp   key.Binding
	VolumeDown key.Binding
	Activate   key.Binding
	Next       key.Binding
	Prev       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Workspace:  key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "focus workspace")),
		Pause:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "toggle pause")),
		Tiling:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle tiling")),
		Volume:     key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "volume editor")),
		VolumeUp:   key.NewBinding(key.WithKeys("right", "l", "+"), key.WithHelp("→", "volume up")),
		VolumeDown: key.NewBinding(key.WithKeys("left", "h", "-"), key.WithHelp("←", "volume down")),
		Activate:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "commit / activate")),
		Next:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next item")),
		Prev:       key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous item")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// locator resolves a click target for a mouse event: the column relative to
// the target's first cell, whether the event is inside it, and whether the
// target was drawn at all.
type locator interface {
	locate(id string, msg tea.MouseMsg) (x int, inBounds, known bool)
}

type zoneLocator struct {
	zm *zone.Manager
}

func (l zoneLocator) locate(id string, msg tea.MouseMsg) (int, bool, bool) {
	info := l.zm.Get(id)
	if info == nil || info.IsZero() {
		return 0, false, false
	}
	return msg.X - info.StartX, info.InBounds(msg), true
}

// Model is the bubbletea model for the bar. It owns the volume editor and
// recomposes the bar on every snapshot.
type Model struct {
	zones      config.ZoneConfig
	renderer   *widgets.Renderer
	frame      *Frame
	dispatcher Dispatcher
	editor     *control.VolumeEditor
	keys       KeyMap
	logger     *slog.Logger

	zm  *zone.Manager
	loc locator

	snap     *snapshot.Snapshot
	bar      Bar
	width    int
	focused  string
	dragging bool
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger for interaction events.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// WithKeyMap replaces the default key bindings.
func WithKeyMap(k KeyMap) Option {
	return func(m *Model) { m.keys = k }
}

// New creates the bar model. It starts from an empty snapshot; feed it
// SnapshotEvents.
func New(zc config.ZoneConfig, r *widgets.Renderer, d Dispatcher, opts ...Option) *Model {
	zm := zone.New()
	m := &Model{
		zones:      zc,
		renderer:   r,
		frame:      NewFrame(r),
		dispatcher: d,
		editor:     control.NewVolumeEditor(),
		keys:       DefaultKeyMap(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		zm:         zm,
		loc:        zoneLocator{zm: zm},
		snap:       snapshot.Empty(),
	}
	m.frame.Mark = zm.Mark
	for _, opt := range opts {
		opt(m)
	}
	m.recompose()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case SnapshotEvent:
		m.SetSnapshot(msg.Snapshot)
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	m.frame.Selected = m.focused
	return m.zm.Scan(m.frame.Render(m.bar, m.width))
}

// SetSnapshot replaces the current snapshot and feeds the audio reading to
// the volume editor.
func (m *Model) SetSnapshot(s *snapshot.Snapshot) {
	if s == nil {
		s = snapshot.Empty()
	}
	m.snap = s
	v, ok := AudioVolume(s)
	m.editor.Observe(v, ok)
	m.recompose()
}

// Bar returns the current composition.
func (m *Model) Bar() Bar { return m.bar }

// Editor returns the volume editor.
func (m *Model) Editor() *control.VolumeEditor { return m.editor }

// Width returns the terminal width, zero before the first resize.
func (m *Model) Width() int { return m.width }

func (m *Model) recompose() {
	m.bar = Compose(m.snap, m.editor, m.zones)
	m.dropStaleFocus()
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Workspace):
		m.focusWorkspace(int(msg.String()[0] - '1'))
	case key.Matches(msg, m.keys.Pause):
		m.dispatch(providers.TogglePause{})
	case key.Matches(msg, m.keys.Tiling):
		m.dispatch(providers.ToggleTilingDirection{})
	case key.Matches(msg, m.keys.Volume):
		m.toggleAudio()
	case key.Matches(msg, m.keys.VolumeUp):
		m.nudge(volumeStep)
	case key.Matches(msg, m.keys.VolumeDown):
		m.nudge(-volumeStep)
	case key.Matches(msg, m.keys.Activate):
		if m.editor.IsOpen() {
			m.commit()
		} else if m.focused != "" {
			m.activate(m.focused)
		}
	case key.Matches(msg, m.keys.Next):
		m.CycleFocusForward()
	case key.Matches(msg, m.keys.Prev):
		m.CycleFocusBackward()
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch {
	case m.dragging && msg.Action == tea.MouseActionMotion:
		if x, _, known := m.loc.locate(IDAudioSlider, msg); known {
			m.slideTo(x)
		}

	case m.dragging && msg.Action == tea.MouseActionRelease:
		m.dragging = false
		if x, _, known := m.loc.locate(IDAudioSlider, msg); known {
			m.slideTo(x)
		}
		m.commit()

	case msg.Action == tea.MouseActionPress:
		it, x, ok := m.hit(msg)
		if !ok {
			return
		}
		switch msg.Button {
		case tea.MouseButtonLeft:
			if it.Action.Kind == ActionSlide {
				m.dragging = true
				m.slideTo(x)
				return
			}
			m.activate(it.ID)
		case tea.MouseButtonWheelUp:
			if it.ID == IDAudio || it.ID == IDAudioSlider {
				m.nudge(volumeStep)
			}
		case tea.MouseButtonWheelDown:
			if it.ID == IDAudio || it.ID == IDAudioSlider {
				m.nudge(-volumeStep)
			}
		}
	}
}

// hit returns the interactive item under the pointer.
func (m *Model) hit(msg tea.MouseMsg) (Item, int, bool) {
	for _, it := range m.bar.Items() {
		if !it.Interactive() {
			continue
		}
		if x, in, known := m.loc.locate(it.ID, msg); known && in {
			return it, x, true
		}
	}
	return Item{}, 0, false
}

func (m *Model) activate(id string) {
	it, ok := m.bar.Find(id)
	if !ok {
		return
	}
	switch it.Action.Kind {
	case ActionCommand:
		m.dispatch(it.Action.Command)
	case ActionToggleAudio:
		m.toggleAudio()
	}
}

func (m *Model) focusWorkspace(n int) {
	wm, ok := snapshot.Lookup[providers.WindowManager](m.snap)
	if !ok || n < 0 || n >= len(wm.CurrentWorkspaces) {
		return
	}
	m.dispatch(providers.FocusWorkspace{Name: wm.CurrentWorkspaces[n].Name})
}

func (m *Model) toggleAudio() {
	v, ok := AudioVolume(m.snap)
	state := m.editor.Toggle(v, ok)
	m.dragging = false
	m.logger.Debug("volume editor", "state", state.String(), "volume", m.editor.Value())
	m.recompose()
}

func (m *Model) nudge(delta int) {
	if !m.editor.IsOpen() {
		return
	}
	m.editor.Nudge(delta)
	m.recompose()
}

func (m *Model) slideTo(x int) {
	m.editor.Slide(m.renderer.VolumeAt(x))
	m.recompose()
}

func (m *Model) commit() {
	cmds := m.editor.Commit()
	if len(cmds) == 0 {
		return
	}
	if !m.dispatcher.DispatchAll(cmds) {
		m.logger.Warn("volume commit not fully queued", "volume", m.editor.Value())
	}
	m.recompose()
}

func (m *Model) dispatch(cmd providers.Command) {
	if !m.dispatcher.Dispatch(cmd) {
		m.logger.Debug("command not queued", "command", cmd.Kind().String())
	}
}
