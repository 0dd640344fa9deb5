package main

import (
	"fmt"
	"strconv"
	"time"

	"gitlab.com/tinyland/lab/qqbar/pkg/config"
	"gitlab.com/tinyland/lab/qqbar/pkg/providers"
	"gitlab.com/tinyland/lab/qqbar/pkg/providers/audio"
	"gitlab.com/tinyland/lab/qqbar/pkg/providers/battery"
	"gitlab.com/tinyland/lab/qqbar/pkg/providers/clock"
	"gitlab.com/tinyland/lab/qqbar/pkg/providers/ewmh"
	"gitlab.com/tinyland/lab/qqbar/pkg/providers/glazewm"
	"gitlab.com/tinyland/lab/qqbar/pkg/providers/keyboard"
	"gitlab.com/tinyland/lab/qqbar/pkg/providers/media"
	"gitlab.com/tinyland/lab/qqbar/pkg/providers/network"
	"gitlab.com/tinyland/lab/qqbar/pkg/providers/sysmetrics"
	"gitlab.com/tinyland/lab/qqbar/pkg/providers/weather"
)

// buildRegistry registers every enabled source.
func buildRegistry(cfg *config.Config) (*providers.Registry, error) {
	src := cfg.Sources
	metrics := sysmetrics.Config{
		CPUInterval:    src.CPU.Interval.Duration,
		MemoryInterval: src.Memory.Interval.Duration,
	}

	var ps []providers.Provider
	if src.CPU.Enabled {
		ps = append(ps, sysmetrics.NewCPU(metrics))
	}
	if src.Memory.Enabled {
		ps = append(ps, sysmetrics.NewMemory(metrics))
	}
	if src.Battery.Enabled {
		ps = append(ps, battery.New("", src.Battery.Interval.Duration))
	}
	if src.Audio.Enabled {
		ps = append(ps, audio.New(src.Audio.Interval.Duration))
	}
	if src.Keyboard.Enabled {
		ps = append(ps, keyboard.New(src.Keyboard.Interval.Duration))
	}
	if src.Media.Enabled {
		ps = append(ps, media.New(src.Media.Interval.Duration))
	}
	if src.Network.Enabled {
		nc := network.DefaultConfig()
		if src.Network.Interval.Duration > 0 {
			nc.Interval = src.Network.Interval.Duration
		}
		nc.SSIDCommand = src.Network.SSIDCommand
		ps = append(ps, network.New(nc))
	}
	if src.Clock.Enabled {
		ps = append(ps, clock.New(src.Clock.Format, src.Clock.Interval.Duration, time.Local))
	}
	if src.Weather.Enabled {
		wc := weather.DefaultConfig()
		wc.Latitude = src.Weather.Latitude
		wc.Longitude = src.Weather.Longitude
		if src.Weather.Interval.Duration > 0 {
			wc.Interval = src.Weather.Interval.Duration
		}
		ps = append(ps, weather.New(wc))
	}
	if src.GlazeWM.Enabled {
		ps = append(ps, glazewm.New(glazewm.Config{
			URL:          src.GlazeWM.URL,
			RestartDelay: src.GlazeWM.RestartDelay.Duration,
		}))
	}
	if src.EWMH.Enabled {
		ps = append(ps, ewmh.New(src.EWMH.Display, 0))
	}

	r := providers.NewRegistry()
	for _, p := range ps {
		if err := r.Register(p); err != nil {
			return nil, fmt.Errorf("register %s: %w", p.Name(), err)
		}
	}
	return r, nil
}

// buildMockRegistry registers in-memory sources with fixed readings. The
// window manager and audio mocks react to commands so the bar can be driven
// interactively.
func buildMockRegistry() (*providers.Registry, error) {
	ssid := "home"
	signal := 72.0

	wm := providers.NewMockProvider("glazewm", 250*time.Millisecond,
		providers.WithValue(mockWindowManager("1", false, providers.TilingHorizontal)),
		providers.WithAccepts(
			providers.CmdFocusWorkspace,
			providers.CmdTogglePause,
			providers.CmdDisableBindingMode,
			providers.CmdToggleTilingDirection,
		))
	focused, paused, tiling := "1", false, providers.TilingHorizontal
	wm.OnCommand = func(cmd providers.Command) {
		switch c := cmd.(type) {
		case providers.FocusWorkspace:
			focused = c.Name
		case providers.TogglePause:
			paused = !paused
		case providers.ToggleTilingDirection:
			if tiling == providers.TilingHorizontal {
				tiling = providers.TilingVertical
			} else {
				tiling = providers.TilingHorizontal
			}
		}
		wm.SetValue(mockWindowManager(focused, paused, tiling))
	}

	dev := providers.AudioDevice{Name: "mock-sink", Volume: 40}
	snd := providers.NewMockProvider("audio", 250*time.Millisecond,
		providers.WithValue(providers.Audio{DefaultPlaybackDevice: &dev}),
		providers.WithAccepts(providers.CmdSetMute, providers.CmdSetVolume))
	snd.OnCommand = func(cmd providers.Command) {
		switch c := cmd.(type) {
		case providers.SetMute:
			dev.Muted = c.Muted
		case providers.SetVolume:
			dev.Volume = providers.ClampVolume(c.Volume)
		}
		d := dev
		snd.SetValue(providers.Audio{DefaultPlaybackDevice: &d})
	}

	ps := []providers.Provider{
		wm,
		snd,
		providers.NewMockProvider("cpu", 2*time.Second, providers.WithValue(providers.CPU{Usage: 23})),
		providers.NewMockProvider("memory", 5*time.Second, providers.WithValue(providers.Memory{Usage: 61})),
		providers.NewMockProvider("battery", 10*time.Second, providers.WithValue(providers.Battery{ChargePercent: 87, IsCharging: true})),
		providers.NewMockProvider("network", 5*time.Second, providers.WithValue(providers.Network{
			DefaultInterface: &providers.NetworkInterface{Name: "wlan0", Type: providers.InterfaceWifi},
			DefaultGateway:   &providers.Gateway{SSID: &ssid, SignalStrength: &signal},
		})),
		providers.NewMockProvider("weather", time.Minute, providers.WithValue(providers.Weather{Status: providers.WeatherClearDay, CelsiusTemp: 14})),
		providers.NewMockProvider("keyboard", 5*time.Second, providers.WithValue(providers.Keyboard{Layout: "us"})),
		providers.NewMockProvider("media", 5*time.Second, providers.WithValue(providers.Media{Title: "Blue in Green", Artist: "Miles Davis", IsPlaying: true})),
		clock.New("", time.Second, time.Local),
	}

	r := providers.NewRegistry()
	for _, p := range ps {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func mockWindowManager(focused string, paused bool, tiling providers.TilingDirection) providers.WindowManager {
	wm := providers.WindowManager{IsPaused: paused, TilingDirection: tiling}
	for i := 1; i <= 4; i++ {
		name := strconv.Itoa(i)
		wm.CurrentWorkspaces = append(wm.CurrentWorkspaces, providers.Workspace{
			Name:        name,
			HasFocus:    name == focused,
			IsDisplayed: name == focused,
		})
	}
	return wm
}
