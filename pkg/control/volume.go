// Package control holds the bar's only local interaction state: the audio
// volume editor. The editor decouples an in-progress edit from the audio
// source, which keeps pushing readings while the user drags.
package control

import "gitlab.com/tinyland/lab/qqbar/pkg/providers"

// State is the editor's open/closed state.
type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// VolumeEditor is a two-state machine.
//
// Closed: every observed volume overwrites the mirror.
// Open: the slider edits a pending value; observed volumes are ignored until
// the edit is committed. Toggling into Open seeds the pending value from the
// current reading; toggling out re-seeds the mirror.
//
// A VolumeEditor is not safe for concurrent use; the UI loop owns it.
type VolumeEditor struct {
	state  State
	mirror int
	edited int

	// synced is set by Commit. While Open and synced, observed volumes
	// update the pending value again.
	synced bool
}

// NewVolumeEditor returns a closed editor with a zero mirror.
func NewVolumeEditor() *VolumeEditor {
	return &VolumeEditor{}
}

// State returns the current state.
func (e *VolumeEditor) State() State { return e.state }

// IsOpen reports whether the slider is shown.
func (e *VolumeEditor) IsOpen() bool { return e.state == Open }

// Value returns the pending value while open and the mirror while closed.
func (e *VolumeEditor) Value() int {
	if e.state == Open {
		return e.edited
	}
	return e.mirror
}

// Observe feeds the latest volume reading from the snapshot. ok is false
// when the audio source or its device is absent, which leaves the editor
// untouched.
func (e *VolumeEditor) Observe(volume int, ok bool) {
	if !ok {
		return
	}
	volume = providers.ClampVolume(volume)
	switch {
	case e.state == Closed:
		e.mirror = volume
	case e.synced:
		e.edited = volume
	}
}

// Toggle flips between Closed and Open. current is the snapshot's volume;
// ok is false when audio is absent, in which case an attempt to open is
// ignored. It returns the new state.
func (e *VolumeEditor) Toggle(current int, ok bool) State {
	if e.state == Open {
		e.state = Closed
		if ok {
			e.mirror = providers.ClampVolume(current)
		}
		return e.state
	}
	if !ok {
		return e.state
	}
	e.state = Open
	e.edited = providers.ClampVolume(current)
	e.synced = false
	return e.state
}

// Slide moves the pending value to v, clamped to 0-100. It is ignored while
// closed.
func (e *VolumeEditor) Slide(v int) {
	if e.state != Open {
		return
	}
	e.edited = providers.ClampVolume(v)
	e.synced = false
}

// Nudge moves the pending value by delta.
func (e *VolumeEditor) Nudge(delta int) {
	e.Slide(e.edited + delta)
}

// Commit returns the commands that apply the pending value: mute for zero,
// otherwise unmute followed by set-volume. The editor stays open. Commit
// while closed returns nil.
func (e *VolumeEditor) Commit() []providers.Command {
	if e.state != Open {
		return nil
	}
	e.synced = true
	if e.edited == 0 {
		return []providers.Command{providers.SetMute{Muted: true}}
	}
	return []providers.Command{
		providers.SetMute{Muted: false},
		providers.SetVolume{Volume: e.edited},
	}
}
