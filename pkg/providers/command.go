package providers

import "fmt"

// CommandKind identifies a Command variant.
type CommandKind int

const (
	CmdFocusWorkspace CommandKind = iota
	CmdTogglePause
	CmdDisableBindingMode
	CmdToggleTilingDirection
	CmdSetMute
	CmdSetVolume
)

var commandNames = [...]string{
	CmdFocusWorkspace:        "focus-workspace",
	CmdTogglePause:           "toggle-pause",
	CmdDisableBindingMode:    "disable-binding-mode",
	CmdToggleTilingDirection: "toggle-tiling-direction",
	CmdSetMute:               "set-mute",
	CmdSetVolume:             "set-volume",
}

func (k CommandKind) String() string {
	if k < 0 || int(k) >= len(commandNames) {
		return "unknown"
	}
	return commandNames[k]
}

// Command is the closed set of instructions the bar sends to a source.
type Command interface {
	Kind() CommandKind
	isCommand()
}

// WMCommand is implemented by commands addressed to the window manager. The
// returned string is the window manager's wire format and must not change.
type WMCommand interface {
	Command
	WMString() string
}

// FocusWorkspace focuses the named workspace.
type FocusWorkspace struct{ Name string }

// TogglePause toggles the window manager's paused state.
type TogglePause struct{}

// DisableBindingMode leaves the named binding mode.
type DisableBindingMode struct{ Name string }

// ToggleTilingDirection flips the tiling direction.
type ToggleTilingDirection struct{}

// SetMute mutes or unmutes the default playback device.
type SetMute struct{ Muted bool }

// SetVolume sets the default playback device volume (0-100).
type SetVolume struct{ Volume int }

func (FocusWorkspace) Kind() CommandKind        { return CmdFocusWorkspace }
func (TogglePause) Kind() CommandKind           { return CmdTogglePause }
func (DisableBindingMode) Kind() CommandKind    { return CmdDisableBindingMode }
func (ToggleTilingDirection) Kind() CommandKind { return CmdToggleTilingDirection }
func (SetMute) Kind() CommandKind               { return CmdSetMute }
func (SetVolume) Kind() CommandKind             { return CmdSetVolume }

func (FocusWorkspace) isCommand()        {}
func (TogglePause) isCommand()           {}
func (DisableBindingMode) isCommand()    {}
func (ToggleTilingDirection) isCommand() {}
func (SetMute) isCommand()               {}
func (SetVolume) isCommand()             {}

func (c FocusWorkspace) WMString() string      { return "focus --workspace " + c.Name }
func (TogglePause) WMString() string           { return "wm-toggle-pause" }
func (c DisableBindingMode) WMString() string  { return "wm-disable-binding-mode --name " + c.Name }
func (ToggleTilingDirection) WMString() string { return "toggle-tiling-direction" }

func (c SetMute) String() string   { return fmt.Sprintf("set-mute %t", c.Muted) }
func (c SetVolume) String() string { return fmt.Sprintf("set-volume %d", c.Volume) }

// ClampVolume limits v to the 0-100 range accepted by SetVolume.
func ClampVolume(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
