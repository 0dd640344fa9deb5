// Package glazewm connects to the GlazeWM IPC server. It streams window
// manager state on every WM event and forwards workspace, pause, binding-mode
// and tiling commands.
package glazewm

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"gitlab.com/tinyland/lab/qqbar/pkg/providers"
)

// Config controls the GlazeWM source.
type Config struct {
	URL          string
	ReadTimeout  time.Duration
	RestartDelay time.Duration
}

// Provider is the "glazewm" source. It implements providers.Streamer and
// providers.Commander.
type Provider struct {
	cfg    Config
	client *Client
	failed atomic.Bool
}

// New creates the GlazeWM source.
func New(cfg Config) *Provider {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.RestartDelay <= 0 {
		cfg.RestartDelay = 3 * time.Second
	}
	return &Provider{cfg: cfg, client: NewClient(cfg.URL, cfg.ReadTimeout)}
}

// Name returns the source name.
func (p *Provider) Name() string { return "glazewm" }

// Interval returns the delay before a dropped subscription is retried.
func (p *Provider) Interval() time.Duration { return p.cfg.RestartDelay }

// Healthy reports whether the IPC server answered last time.
func (p *Provider) Healthy() bool { return !p.failed.Load() }

// Accepts lists the window-manager commands.
func (p *Provider) Accepts() []providers.CommandKind {
	return []providers.CommandKind{
		providers.CmdFocusWorkspace,
		providers.CmdTogglePause,
		providers.CmdDisableBindingMode,
		providers.CmdToggleTilingDirection,
	}
}

// Collect queries the full window-manager state once.
func (p *Provider) Collect(ctx context.Context) (providers.Value, error) {
	wm, err := p.state(ctx)
	p.failed.Store(err != nil)
	if err != nil {
		return nil, err
	}
	return wm, nil
}

// Stream subscribes to all WM events and emits fresh state after each one.
func (p *Provider) Stream(ctx context.Context, emit func(providers.Value)) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, p.cfg.URL, nil)
	if err != nil {
		p.failed.Store(true)
		return fmt.Errorf("%w: %v", ErrNoConnection, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if err := conn.WriteMessage(websocket.TextMessage, []byte("sub -e all")); err != nil {
		p.failed.Store(true)
		return fmt.Errorf("glazewm: subscribe: %w", err)
	}

	if v, err := p.Collect(ctx); err == nil {
		emit(v)
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.failed.Store(true)
			return fmt.Errorf("glazewm: subscription: %w", err)
		}
		var m message
		if err := json.Unmarshal(raw, &m); err != nil || m.MessageType != messageEventSubscription {
			continue
		}
		v, err := p.Collect(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		emit(v)
	}
}

// Command forwards a window-manager command.
func (p *Provider) Command(ctx context.Context, cmd providers.Command) error {
	wc, ok := cmd.(providers.WMCommand)
	if !ok {
		return fmt.Errorf("glazewm: command %s not supported", cmd.Kind())
	}
	_, err := p.client.Request(ctx, "command "+wc.WMString())
	return err
}

// Close releases the request connection.
func (p *Provider) Close() error { return p.client.Close() }

type workspaceJSON struct {
	Name        string  `json:"name"`
	DisplayName *string `json:"displayName"`
	HasFocus    bool    `json:"hasFocus"`
	IsDisplayed bool    `json:"isDisplayed"`
}

type bindingModeJSON struct {
	Name        string  `json:"name"`
	DisplayName *string `json:"displayName"`
}

func (p *Provider) state(ctx context.Context) (providers.WindowManager, error) {
	var wm providers.WindowManager

	var ws struct {
		Workspaces []workspaceJSON `json:"workspaces"`
	}
	if err := p.query(ctx, "query workspaces", &ws); err != nil {
		return wm, err
	}
	var bm struct {
		BindingModes []bindingModeJSON `json:"bindingModes"`
	}
	if err := p.query(ctx, "query binding-modes", &bm); err != nil {
		return wm, err
	}
	var paused struct {
		Paused bool `json:"paused"`
	}
	if err := p.query(ctx, "query paused", &paused); err != nil {
		return wm, err
	}
	var td struct {
		TilingDirection string `json:"tilingDirection"`
	}
	if err := p.query(ctx, "query tiling-direction", &td); err != nil {
		return wm, err
	}

	wm.CurrentWorkspaces = make([]providers.Workspace, 0, len(ws.Workspaces))
	for _, w := range ws.Workspaces {
		wm.CurrentWorkspaces = append(wm.CurrentWorkspaces, providers.Workspace(w))
	}
	wm.BindingModes = make([]providers.BindingMode, 0, len(bm.BindingModes))
	for _, b := range bm.BindingModes {
		wm.BindingModes = append(wm.BindingModes, providers.BindingMode(b))
	}
	wm.IsPaused = paused.Paused
	wm.TilingDirection = providers.TilingVertical
	if td.TilingDirection == string(providers.TilingHorizontal) {
		wm.TilingDirection = providers.TilingHorizontal
	}
	return wm, nil
}

func (p *Provider) query(ctx context.Context, msg string, out any) error {
	data, err := p.client.Request(ctx, msg)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("glazewm: decode %q: %w", msg, err)
	}
	return nil
}
