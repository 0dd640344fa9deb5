// qqbar is a terminal status bar.
//
// It polls and streams system sources (cpu, memory, battery, audio, network,
// weather, clock, keyboard layout, media and the window manager), folds their
// readings into one snapshot and renders it as a three-zone bar, either as an
// interactive full-screen TUI or as a stream of plain lines for lemonbar-style
// bars.
//
// Usage:
//
//	qqbar [flags]
//
// Flags:
//
//	-config string    Path to configuration file (default: $XDG_CONFIG_HOME/qqbar/config.{toml,yaml})
//	-theme string     Override the configured theme
//	-preset string    Override the configured zone preset (default|minimal)
//	-plain            Stream one line per snapshot to stdout instead of the TUI
//	-once             Collect every source once, print one line and exit
//	-send string      Send a command to a running bar's control socket and print the reply
//	-list-themes      Print the available themes and exit
//	-dump-theme       Print the selected theme as TOML and exit
//	-use-mocks        Use in-memory mock sources instead of the real system
//	-verbose          Enable verbose logging
//	-version          Print version and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/natefinch/lumberjack"

	"gitlab.com/tinyland/lab/qqbar/pkg/app"
	"gitlab.com/tinyland/lab/qqbar/pkg/config"
	"gitlab.com/tinyland/lab/qqbar/pkg/control"
	"gitlab.com/tinyland/lab/qqbar/pkg/daemon"
	"gitlab.com/tinyland/lab/qqbar/pkg/dispatch"
	"gitlab.com/tinyland/lab/qqbar/pkg/providers"
	"gitlab.com/tinyland/lab/qqbar/pkg/snapshot"
	"gitlab.com/tinyland/lab/qqbar/pkg/theme"
	"gitlab.com/tinyland/lab/qqbar/pkg/widgets"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

// onceTimeout bounds the single collection round of -once.
const onceTimeout = 10 * time.Second

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		themeName   = flag.String("theme", "", "Override the configured theme")
		presetName  = flag.String("preset", "", "Override the configured zone preset")
		plain       = flag.Bool("plain", false, "Stream one line per snapshot to stdout")
		once        = flag.Bool("once", false, "Collect every source once, print one line and exit")
		send        = flag.String("send", "", "Send a command to a running bar and print the reply")
		listThemes  = flag.Bool("list-themes", false, "Print the available themes and exit")
		dumpTheme   = flag.Bool("dump-theme", false, "Print the selected theme as TOML and exit")
		useMocks    = flag.Bool("use-mocks", false, "Use in-memory mock sources (for demos and testing)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("qqbar %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *themeName != "" {
		cfg.General.Theme = *themeName
	}
	if *presetName != "" {
		cfg.General.Preset = *presetName
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	if *send != "" {
		os.Exit(runSend(socketPath(cfg), *send))
	}

	tui := !*plain && !*once
	logger, closeLog := setupLogger(cfg, *verbose, !tui)
	defer closeLog()

	if names, err := theme.LoadDir(config.ThemeDir()); err != nil {
		logger.Warn("some user themes failed to load", "error", err)
	} else if len(names) > 0 {
		logger.Debug("loaded user themes", "themes", names)
	}
	if !theme.Has(cfg.General.Theme) {
		logger.Warn("unknown theme, using default", "theme", cfg.General.Theme, "available", theme.Names())
	}

	switch {
	case *listThemes:
		for _, name := range theme.Names() {
			fmt.Println(name)
		}
		return
	case *dumpTheme:
		data, err := theme.SaveToTOML(theme.Get(cfg.General.Theme))
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(data)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	var registry *providers.Registry
	if *useMocks {
		logger.Info("using mock sources")
		registry, err = buildMockRegistry()
	} else {
		registry, err = buildRegistry(cfg)
	}
	if err != nil {
		logger.Error("failed to build sources", "error", err)
		os.Exit(1)
	}
	logger.Info("sources registered", "sources", registry.List())

	renderer := newRenderer(cfg)
	zones := config.ZonePreset(cfg.General.Preset)

	if *once {
		if err := runOnce(ctx, registry, renderer, zones, logger); err != nil {
			logger.Error("collection failed", "error", err)
			os.Exit(1)
		}
		return
	}

	updates := make(chan providers.Update, 64)
	runner := providers.NewRunner(registry, updates, providers.WithLogger(logger))
	agg := snapshot.New(logger)
	dispatcher := dispatch.New(registry, dispatch.WithLogger(logger))

	if cfg.Control.Enabled {
		stop, err := startControl(cfg, registry, dispatcher, runner, agg, logger)
		if err != nil {
			logger.Error("control socket unavailable", "error", err)
			os.Exit(1)
		}
		defer stop()
	}

	var program *tea.Program
	if tui {
		model := app.New(zones, renderer, dispatcher, app.WithLogger(logger))
		program = tea.NewProgram(model,
			tea.WithContext(ctx),
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
		)
		agg.Subscribe(func(s *snapshot.Snapshot) {
			program.Send(app.SnapshotEvent{Snapshot: s})
		})
	} else {
		agg.Subscribe(plainPrinter(renderer, zones))
	}

	if err := dispatcher.Start(ctx); err != nil {
		logger.Error("dispatcher failed to start", "error", err)
		os.Exit(1)
	}
	defer dispatcher.Stop()

	if err := runner.Start(ctx); err != nil {
		logger.Error("runner failed to start", "error", err)
		os.Exit(1)
	}
	defer runner.Stop()

	aggDone := make(chan struct{})
	go func() {
		defer close(aggDone)
		agg.Run(ctx, updates)
	}()

	if program != nil {
		if _, err := program.Run(); err != nil && ctx.Err() == nil {
			logger.Error("TUI error", "error", err)
		}
		cancel()
	} else {
		<-ctx.Done()
	}
	<-aggDone
	logger.Info("qqbar stopped")
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func socketPath(cfg *config.Config) string {
	if cfg.Control.Socket != "" {
		return cfg.Control.Socket
	}
	return daemon.DefaultSocketPath()
}

// setupLogger logs to the rotating file, and also to stderr when the screen
// is not owned by the TUI.
func setupLogger(cfg *config.Config, verbose, toStderr bool) (*slog.Logger, func()) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.SlogLevelName(verbose))); err != nil {
		level = slog.LevelInfo
	}

	var (
		w       io.Writer = io.Discard
		closeFn           = func() {}
	)
	if cfg.General.LogFile != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.General.LogFile,
			MaxSize:    5,
			MaxBackups: 3,
			MaxAge:     14,
		}
		w = lj
		closeFn = func() { lj.Close() }
	}
	if toStderr {
		w = io.MultiWriter(os.Stderr, w)
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return logger, closeFn
}

// newRenderer builds a renderer for stdout's color capabilities.
func newRenderer(cfg *config.Config) *widgets.Renderer {
	out := termenv.NewOutput(os.Stdout)
	profile := out.EnvColorProfile()
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		profile = termenv.Ascii
	}

	lr := lipgloss.NewRenderer(os.Stdout)
	lr.SetColorProfile(profile)

	opts := []widgets.RenderOption{
		widgets.WithLipgloss(lr),
		widgets.WithMaxLabel(cfg.General.MaxLabel),
	}
	if !cfg.General.NerdFont {
		opts = append(opts, widgets.WithASCII())
	}
	return widgets.NewRenderer(theme.Adapt(theme.Get(cfg.General.Theme), profile), opts...)
}

// plainWidth is the terminal width for colored plain output, or zero for the
// bar's natural width.
func plainWidth() int {
	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}

// plainPrinter writes one line per snapshot, skipping repeats.
func plainPrinter(r *widgets.Renderer, zones config.ZoneConfig) func(*snapshot.Snapshot) {
	frame := app.NewFrame(r)
	editor := control.NewVolumeEditor()
	tty := isatty.IsTerminal(os.Stdout.Fd())
	var last string
	return func(s *snapshot.Snapshot) {
		bar := app.Compose(s, editor, zones)
		line := frame.Plain(bar)
		if tty {
			line = frame.Render(bar, plainWidth())
		}
		if line == last {
			return
		}
		last = line
		fmt.Fprintln(os.Stdout, line)
	}
}

// runOnce collects every source once and prints a single line.
func runOnce(ctx context.Context, registry *providers.Registry, r *widgets.Renderer, zones config.ZoneConfig, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, onceTimeout)
	defer cancel()

	names := registry.List()
	updates := make(chan providers.Update, len(names))
	runner := providers.NewRunner(registry, updates, providers.WithLogger(logger))
	for _, name := range names {
		if _, err := runner.RunOnce(ctx, name); err != nil {
			logger.Warn("source failed", "source", name, "error", err)
		}
	}
	close(updates)

	agg := snapshot.New(logger)
	if err := agg.Run(ctx, updates); err != nil {
		return err
	}

	bar := app.Compose(agg.Current(), control.NewVolumeEditor(), zones)
	fmt.Fprintln(os.Stdout, app.NewFrame(r).Plain(bar))
	return nil
}

// startControl claims the single-instance lock and opens the control socket.
func startControl(cfg *config.Config, registry *providers.Registry, d *dispatch.Dispatcher, runner *providers.Runner, agg *snapshot.Aggregator, logger *slog.Logger) (func(), error) {
	pidPath := daemon.DefaultPIDPath()
	if err := daemon.AcquirePID(pidPath); err != nil {
		return nil, err
	}

	ctl := daemon.NewController(registry, d, runner, agg)
	srv := daemon.NewIPCServer(socketPath(cfg), ctl, logger)
	if err := srv.Start(); err != nil {
		daemon.ReleasePID(pidPath)
		return nil, err
	}
	return func() {
		srv.Stop()
		if err := daemon.ReleasePID(pidPath); err != nil {
			logger.Warn("failed to release PID file", "error", err)
		}
	}, nil
}

func runSend(path, line string) int {
	resp, err := daemon.NewIPCClient(path).SendCommand(line)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	fmt.Println(resp)
	if strings.HasPrefix(resp, `{"error"`) {
		return 1
	}
	return 0
}
