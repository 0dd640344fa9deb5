package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/qqbar/pkg/dispatch"
	"gitlab.com/tinyland/lab/qqbar/pkg/providers"
	"gitlab.com/tinyland/lab/qqbar/pkg/snapshot"
)

// Dispatcher is the part of the command dispatcher the socket uses.
type Dispatcher interface {
	Dispatch(cmd providers.Command) bool
	SendTo(source string, cmd providers.Command) bool
	Stats() dispatch.Stats
}

// Refresher triggers an immediate collection.
type Refresher interface {
	RunOnce(ctx context.Context, name string) (providers.Value, error)
}

// SnapshotSource returns the latest snapshot.
type SnapshotSource interface {
	Current() *snapshot.Snapshot
}

// Controller answers control-socket commands. Mutating commands go through
// the dispatcher exactly like clicks do.
//
//	PING
//	FOCUS <workspace>
//	PAUSE
//	TILING
//	BINDING <mode>
//	MUTE on|off
//	VOLUME <0-100>
//	SEND <source> <command...>
//	REFRESH <source>
//	STATUS
//	SNAPSHOT
type Controller struct {
	registry   *providers.Registry
	dispatcher Dispatcher
	refresher  Refresher
	snapshots  SnapshotSource
	started    time.Time
}

// NewController wires a controller to the running bar.
func NewController(r *providers.Registry, d Dispatcher, rf Refresher, s SnapshotSource) *Controller {
	return &Controller{
		registry:   r,
		dispatcher: d,
		refresher:  rf,
		snapshots:  s,
		started:    time.Now(),
	}
}

// HandleCommand implements IPCHandler.
func (c *Controller) HandleCommand(ctx context.Context, cmd string, args []string) (string, error) {
	switch cmd {
	case "PING":
		return `{"ok":true}`, nil
	case "STATUS":
		h := BuildHealth(c.registry.AllStatus(), c.dispatcher.Stats(), c.snapshots.Current().Version(), c.started)
		return healthStatusToJSON(h)
	case "SNAPSHOT":
		return c.snapshotJSON()
	case "REFRESH":
		if len(args) != 1 {
			return "", fmt.Errorf("usage: REFRESH <source>")
		}
		if _, err := c.refresher.RunOnce(ctx, args[0]); err != nil {
			return "", err
		}
		return marshal(map[string]any{"ok": true, "source": args[0]})
	case "SEND":
		if len(args) < 2 {
			return "", fmt.Errorf("usage: SEND <source> <command...>")
		}
		command, err := ParseCommand(strings.ToUpper(args[1]), args[2:])
		if err != nil {
			return "", err
		}
		return c.queued(command, c.dispatcher.SendTo(args[0], command))
	}

	command, err := ParseCommand(cmd, args)
	if err != nil {
		return "", err
	}
	return c.queued(command, c.dispatcher.Dispatch(command))
}

// ParseCommand turns a socket command into a provider command.
func ParseCommand(cmd string, args []string) (providers.Command, error) {
	switch cmd {
	case "FOCUS":
		if len(args) != 1 {
			return nil, fmt.Errorf("usage: FOCUS <workspace>")
		}
		return providers.FocusWorkspace{Name: args[0]}, nil
	case "PAUSE":
		return providers.TogglePause{}, nil
	case "TILING":
		return providers.ToggleTilingDirection{}, nil
	case "BINDING":
		if len(args) != 1 {
			return nil, fmt.Errorf("usage: BINDING <mode>")
		}
		return providers.DisableBindingMode{Name: args[0]}, nil
	case "MUTE":
		if len(args) != 1 {
			return nil, fmt.Errorf("usage: MUTE on|off")
		}
		switch strings.ToLower(args[0]) {
		case "on", "true", "1":
			return providers.SetMute{Muted: true}, nil
		case "off", "false", "0":
			return providers.SetMute{Muted: false}, nil
		}
		return nil, fmt.Errorf("MUTE: %q is not on or off", args[0])
	case "VOLUME":
		if len(args) != 1 {
			return nil, fmt.Errorf("usage: VOLUME <0-100>")
		}
		v, err := strconv.Atoi(strings.TrimSuffix(args[0], "%"))
		if err != nil || v < 0 || v > 100 {
			return nil, fmt.Errorf("VOLUME: %q is not an integer between 0 and 100", args[0])
		}
		return providers.SetVolume{Volume: v}, nil
	case "":
		return nil, fmt.Errorf("empty command")
	}
	return nil, fmt.Errorf("unknown command %q", cmd)
}

func (c *Controller) queued(cmd providers.Command, ok bool) (string, error) {
	if !ok {
		return "", fmt.Errorf("%s: no source took the command", cmd.Kind())
	}
	return marshal(map[string]any{"queued": true, "command": cmd.Kind().String()})
}

type snapshotEntry struct {
	Kind    string          `json:"kind"`
	Seq     uint64          `json:"seq"`
	Updated time.Time       `json:"updated"`
	Stale   bool            `json:"stale,omitempty"`
	Value   providers.Value `json:"value"`
}

func (c *Controller) snapshotJSON() (string, error) {
	s := c.snapshots.Current()
	out := struct {
		Version uint64                   `json:"version"`
		Sources map[string]snapshotEntry `json:"sources"`
	}{
		Version: s.Version(),
		Sources: make(map[string]snapshotEntry, s.Len()),
	}
	for _, name := range s.Sources() {
		e, _ := s.Entry(name)
		out.Sources[name] = snapshotEntry{
			Kind:    e.Value.Kind().String(),
			Seq:     e.Seq,
			Updated: e.Updated,
			Stale:   e.Stale,
			Value:   e.Value,
		}
	}
	return marshal(out)
}

func marshal(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
