package app

import (
	"gitlab.com/tinyland/lab/qqbar/pkg/config"
	"gitlab.com/tinyland/lab/qqbar/pkg/control"
	"gitlab.com/tinyland/lab/qqbar/pkg/providers"
	"gitlab.com/tinyland/lab/qqbar/pkg/snapshot"
	"gitlab.com/tinyland/lab/qqbar/pkg/widgets"
)

// ActionKind is what activating an item does.
type ActionKind int

const (
	ActionNone ActionKind = iota
	// ActionCommand dispatches Action.Command.
	ActionCommand
	// ActionToggleAudio opens or closes the volume editor.
	ActionToggleAudio
	// ActionSlide moves the open volume editor.
	ActionSlide
)

// Action is attached to an interactive item.
type Action struct {
	Kind    ActionKind
	Command providers.Command
}

// Item is one drawable element of a zone.
type Item struct {
	// ID is unique within a bar and names the click target.
	ID     string
	Rep    widgets.Representation
	Action Action
}

// Interactive reports whether activating the item does anything.
func (it Item) Interactive() bool {
	return it.Action.Kind != ActionNone
}

// Bar is the composed content of the three zones.
type Bar struct {
	Left, Center, Right []Item
}

// Items returns every item, left to right.
func (b Bar) Items() []Item {
	out := make([]Item, 0, len(b.Left)+len(b.Center)+len(b.Right))
	out = append(out, b.Left...)
	out = append(out, b.Center...)
	return append(out, b.Right...)
}

// Find returns the item with the given ID.
func (b Bar) Find(id string) (Item, bool) {
	for _, it := range b.Items() {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Item IDs that are not derived from source data.
const (
	IDAudio       = "audio"
	IDAudioSlider = "audio-slider"
	IDPaused      = "paused"
	IDTiling      = "tiling"
)

// Compose projects s onto the zones in zc. Every item whose source is
// absent is omitted; items from a stale source carry the stale tag. editor
// may be nil, in which case the slider is never shown.
func Compose(s *snapshot.Snapshot, editor *control.VolumeEditor, zc config.ZoneConfig) Bar {
	c := composer{s: s, editor: editor}
	return Bar{
		Left:   c.zone(zc.Left),
		Center: c.zone(zc.Center),
		Right:  c.zone(zc.Right),
	}
}

type composer struct {
	s      *snapshot.Snapshot
	editor *control.VolumeEditor
}

func (c composer) zone(items []config.Item) []Item {
	var out []Item
	for _, it := range items {
		out = append(out, c.item(it)...)
	}
	return out
}

func (c composer) item(it config.Item) []Item {
	switch it {
	case config.ItemWorkspaces:
		wm, e, ok := snapshot.LookupEntry[providers.WindowManager](c.s)
		if !ok {
			return nil
		}
		out := make([]Item, 0, len(wm.CurrentWorkspaces))
		for _, ws := range wm.CurrentWorkspaces {
			out = append(out, Item{
				ID:     "workspace:" + ws.Name,
				Rep:    stale(widgets.Workspace(ws), e),
				Action: command(providers.FocusWorkspace{Name: ws.Name}),
			})
		}
		return out

	case config.ItemPaused:
		wm, e, ok := snapshot.LookupEntry[providers.WindowManager](c.s)
		if !ok || !wm.IsPaused {
			return nil
		}
		return []Item{{ID: IDPaused, Rep: stale(widgets.Paused(), e), Action: command(providers.TogglePause{})}}

	case config.ItemBindingModes:
		wm, e, ok := snapshot.LookupEntry[providers.WindowManager](c.s)
		if !ok {
			return nil
		}
		out := make([]Item, 0, len(wm.BindingModes))
		for _, b := range wm.BindingModes {
			out = append(out, Item{
				ID:     "binding:" + b.Name,
				Rep:    stale(widgets.BindingMode(b), e),
				Action: command(providers.DisableBindingMode{Name: b.Name}),
			})
		}
		return out

	case config.ItemTiling:
		wm, e, ok := snapshot.LookupEntry[providers.WindowManager](c.s)
		if !ok {
			return nil
		}
		return []Item{{ID: IDTiling, Rep: stale(widgets.Tiling(wm.TilingDirection), e), Action: command(providers.ToggleTilingDirection{})}}

	case config.ItemAudio:
		return c.audio()

	case config.ItemNetwork:
		return single[providers.Network](c.s, string(it), widgets.Network)
	case config.ItemMemory:
		return single[providers.Memory](c.s, string(it), widgets.Memory)
	case config.ItemCPU:
		return single[providers.CPU](c.s, string(it), widgets.CPU)
	case config.ItemBattery:
		return single[providers.Battery](c.s, string(it), widgets.Battery)
	case config.ItemWeather:
		return single[providers.Weather](c.s, string(it), widgets.Weather)
	case config.ItemDate:
		return single[providers.Date](c.s, string(it), widgets.Date)
	case config.ItemKeyboard:
		return single[providers.Keyboard](c.s, string(it), widgets.Keyboard)
	case config.ItemMedia:
		return single[providers.Media](c.s, string(it), widgets.Media)
	}
	return nil
}

// audio draws the slider (while the editor is open) followed by the volume
// icon. A source without a playback device is treated as absent.
func (c composer) audio() []Item {
	a, e, ok := snapshot.LookupEntry[providers.Audio](c.s)
	if !ok || a.DefaultPlaybackDevice == nil {
		return nil
	}
	dev := a.DefaultPlaybackDevice

	var out []Item
	if c.editor != nil && c.editor.IsOpen() {
		out = append(out, Item{
			ID:     IDAudioSlider,
			Rep:    widgets.VolumeSlider(c.editor.Value()),
			Action: Action{Kind: ActionSlide},
		})
	}
	return append(out, Item{
		ID:     IDAudio,
		Rep:    stale(widgets.Audio(dev.Volume, dev.Muted), e),
		Action: Action{Kind: ActionToggleAudio},
	})
}

// AudioVolume returns the default playback device's volume, or false when
// there is none.
func AudioVolume(s *snapshot.Snapshot) (int, bool) {
	a, ok := snapshot.Lookup[providers.Audio](s)
	if !ok || a.DefaultPlaybackDevice == nil {
		return 0, false
	}
	return a.DefaultPlaybackDevice.Volume, true
}

func single[T providers.Value](s *snapshot.Snapshot, id string, mapper func(T) widgets.Representation) []Item {
	v, e, ok := snapshot.LookupEntry[T](s)
	if !ok {
		return nil
	}
	return []Item{{ID: id, Rep: stale(mapper(v), e)}}
}

func stale(r widgets.Representation, e snapshot.Entry) widgets.Representation {
	if e.Stale {
		return r.WithState(widgets.StateStale)
	}
	return r
}

func command(cmd providers.Command) Action {
	return Action{Kind: ActionCommand, Command: cmd}
}
