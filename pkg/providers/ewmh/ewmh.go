// Package ewmh reads virtual desktops from any EWMH-compliant X11 window
// manager and exposes them as workspaces. It is the window-manager source
// for hosts without GlazeWM.
package ewmh

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/pkg/errors"

	"gitlab.com/tinyland/lab/qqbar/pkg/providers"
)

var atomNames = []string{
	"_NET_CURRENT_DESKTOP",
	"_NET_NUMBER_OF_DESKTOPS",
	"_NET_DESKTOP_NAMES",
	"UTF8_STRING",
}

// Provider is the "ewmh" source. It streams on root-window property changes
// and accepts focus-workspace.
type Provider struct {
	display string
	delay   time.Duration
	failed  atomic.Bool

	mu    sync.Mutex
	conn  *xgb.Conn
	root  xproto.Window
	atoms map[string]xproto.Atom
}

// New creates the source for display; empty uses $DISPLAY.
func New(display string, restartDelay time.Duration) *Provider {
	if restartDelay <= 0 {
		restartDelay = 5 * time.Second
	}
	return &Provider{display: display, delay: restartDelay}
}

// Name returns the source name.
func (p *Provider) Name() string { return "ewmh" }

// Interval returns the restart delay for the event stream.
func (p *Provider) Interval() time.Duration { return p.delay }

// Healthy reports whether the X server answered last time.
func (p *Provider) Healthy() bool { return !p.failed.Load() }

// Accepts lists the supported commands.
func (p *Provider) Accepts() []providers.CommandKind {
	return []providers.CommandKind{providers.CmdFocusWorkspace}
}

func (p *Provider) connect() error {
	if p.conn != nil {
		return nil
	}
	var (
		conn *xgb.Conn
		err  error
	)
	if p.display == "" {
		conn, err = xgb.NewConn()
	} else {
		conn, err = xgb.NewConnDisplay(p.display)
	}
	if err != nil {
		return errors.Wrap(err, "ewmh: connect to X server")
	}

	atoms := make(map[string]xproto.Atom, len(atomNames))
	for _, name := range atomNames {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			conn.Close()
			return errors.Wrapf(err, "ewmh: intern %s", name)
		}
		atoms[name] = reply.Atom
	}

	p.conn = conn
	p.root = xproto.Setup(conn).DefaultScreen(conn).Root
	p.atoms = atoms
	return nil
}

func (p *Provider) reset() {
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
	}
}

// Collect reads the desktop list once.
func (p *Provider) Collect(ctx context.Context) (providers.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	wm, err := p.read()
	p.failed.Store(err != nil)
	if err != nil {
		p.reset()
		return nil, err
	}
	return wm, nil
}

func (p *Provider) read() (providers.WindowManager, error) {
	if err := p.connect(); err != nil {
		return providers.WindowManager{}, err
	}
	count, err := p.cardinal("_NET_NUMBER_OF_DESKTOPS")
	if err != nil {
		return providers.WindowManager{}, err
	}
	current, err := p.cardinal("_NET_CURRENT_DESKTOP")
	if err != nil {
		return providers.WindowManager{}, err
	}
	names, err := p.property("_NET_DESKTOP_NAMES", p.atoms["UTF8_STRING"])
	if err != nil {
		return providers.WindowManager{}, err
	}
	return buildState(parseNames(names), count, current), nil
}

func (p *Provider) property(name string, typ xproto.Atom) ([]byte, error) {
	reply, err := xproto.GetProperty(p.conn, false, p.root, p.atoms[name], typ, 0, 1024).Reply()
	if err != nil {
		return nil, errors.Wrapf(err, "ewmh: read %s", name)
	}
	return reply.Value, nil
}

func (p *Provider) cardinal(name string) (uint32, error) {
	data, err := p.property(name, xproto.AtomCardinal)
	if err != nil {
		return 0, err
	}
	if len(data) < 4 {
		return 0, errors.Errorf("ewmh: %s not set", name)
	}
	return binary.LittleEndian.Uint32(data), nil
}

// Stream emits the desktop list on start and after every root-window
// property change.
func (p *Provider) Stream(ctx context.Context, emit func(providers.Value)) error {
	p.mu.Lock()
	if err := p.connect(); err != nil {
		p.failed.Store(true)
		p.mu.Unlock()
		return err
	}
	conn, root := p.conn, p.root
	watched := map[xproto.Atom]bool{
		p.atoms["_NET_CURRENT_DESKTOP"]:    true,
		p.atoms["_NET_NUMBER_OF_DESKTOPS"]: true,
		p.atoms["_NET_DESKTOP_NAMES"]:      true,
	}
	err := xproto.ChangeWindowAttributesChecked(conn, root, xproto.CwEventMask,
		[]uint32{xproto.EventMaskPropertyChange}).Check()
	p.mu.Unlock()
	if err != nil {
		return errors.Wrap(err, "ewmh: select property events")
	}

	stop := context.AfterFunc(ctx, func() {
		p.mu.Lock()
		p.reset()
		p.mu.Unlock()
	})
	defer stop()

	if v, err := p.Collect(ctx); err == nil {
		emit(v)
	}

	for {
		ev, xerr := conn.WaitForEvent()
		if ev == nil && xerr == nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.failed.Store(true)
			return errors.New("ewmh: X connection closed")
		}
		if xerr != nil {
			continue
		}
		pn, ok := ev.(xproto.PropertyNotifyEvent)
		if !ok || !watched[pn.Atom] {
			continue
		}
		v, err := p.Collect(ctx)
		if err != nil {
			return err
		}
		emit(v)
	}
}

// Command switches to the named desktop.
func (p *Provider) Command(ctx context.Context, cmd providers.Command) error {
	fw, ok := cmd.(providers.FocusWorkspace)
	if !ok {
		return fmt.Errorf("ewmh: command %s not supported", cmd.Kind())
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	wm, err := p.read()
	if err != nil {
		p.reset()
		return err
	}
	idx, ok := desktopIndex(wm, fw.Name)
	if !ok {
		return errors.Errorf("ewmh: no desktop named %q", fw.Name)
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: p.root,
		Type:   p.atoms["_NET_CURRENT_DESKTOP"],
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{idx, 0, 0, 0, 0}),
	}
	mask := uint32(xproto.EventMaskSubstructureNotify | xproto.EventMaskSubstructureRedirect)
	if err := xproto.SendEventChecked(p.conn, false, p.root, mask, string(ev.Bytes())).Check(); err != nil {
		return errors.Wrap(err, "ewmh: switch desktop")
	}
	return nil
}

// parseNames splits a NUL-separated UTF8_STRING list.
func parseNames(data []byte) []string {
	data = bytes.TrimRight(data, "\x00")
	if len(data) == 0 {
		return nil
	}
	parts := bytes.Split(data, []byte{0})
	names := make([]string, len(parts))
	for i, part := range parts {
		names[i] = string(part)
	}
	return names
}

// buildState turns the desktop properties into a WindowManager value. The
// workspace name is the 1-based desktop number; a configured desktop name
// becomes its display name.
func buildState(names []string, count, current uint32) providers.WindowManager {
	wm := providers.WindowManager{
		CurrentWorkspaces: make([]providers.Workspace, 0, count),
		BindingModes:      []providers.BindingMode{},
		TilingDirection:   providers.TilingHorizontal,
	}
	for i := uint32(0); i < count; i++ {
		ws := providers.Workspace{
			Name:        strconv.Itoa(int(i) + 1),
			HasFocus:    i == current,
			IsDisplayed: i == current,
		}
		if int(i) < len(names) && names[i] != "" && names[i] != ws.Name {
			name := names[i]
			ws.DisplayName = &name
		}
		wm.CurrentWorkspaces = append(wm.CurrentWorkspaces, ws)
	}
	return wm
}

func desktopIndex(wm providers.WindowManager, name string) (uint32, bool) {
	for i, ws := range wm.CurrentWorkspaces {
		if ws.Name == name || (ws.DisplayName != nil && *ws.DisplayName == name) {
			return uint32(i), true
		}
	}
	return 0, false
}
