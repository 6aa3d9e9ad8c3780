package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Danondso/menumic/internal/app"
	"github.com/Danondso/menumic/internal/audiodev"
	"github.com/Danondso/menumic/internal/chime"
	"github.com/Danondso/menumic/internal/config"
	"github.com/Danondso/menumic/internal/hotkey"
	"github.com/Danondso/menumic/internal/loginitem"
	"github.com/Danondso/menumic/internal/notify"
	"github.com/Danondso/menumic/internal/prefs"
	"github.com/Danondso/menumic/internal/tray"
	"github.com/Danondso/menumic/internal/tui"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Println(config.AppName, version)
			return
		case "devices":
			handleDevices(os.Args[2:])
			return
		}
	}

	debug := flag.Bool("debug", false, "enable debug logging")
	useTUI := flag.Bool("tui", false, "run in the terminal instead of the menu bar")
	backend := flag.String("backend", "", "audio backend: auto, coreaudio, pactl or portaudio (overrides config)")
	flag.Parse()

	var dbg *log.Logger
	if *debug {
		dbg = log.New(os.Stderr, "[DEBUG] ", log.Ltime|log.Lmicroseconds)
	} else {
		dbg = log.New(io.Discard, "", 0)
	}

	cfg := loadConfig(*backend)

	sys, name, closeBackend, err := openBackend(cfg.Backend)
	if err != nil {
		log.Fatalf("open audio backend: %v", err)
	}
	defer closeBackend()
	dbg.Printf("device: backend %s", name)

	notifier := notify.New(cfg.Feedback.NotifyEnabled, dbg)
	ctrl := newController(cfg, sys, notifier, dbg)

	if *useTUI {
		runOnMainThread(func() { runTUI(cfg, ctrl, name, dbg, *debug) })
	} else {
		runTray(cfg, ctrl, dbg)
	}
	notifier.Wait()
}

func loadConfig(backendOverride string) *config.Config {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if backendOverride != "" {
		cfg.Backend = backendOverride
		if err := cfg.Validate(); err != nil {
			log.Fatalf("invalid -backend: %v", err)
		}
	}
	return cfg
}

func newController(cfg *config.Config, sys audiodev.System, notifier *notify.Notifier, dbg *log.Logger) *app.Controller {
	opts := app.Options{Logger: dbg, Notifier: notifier}

	login, err := loginitem.New(cfg.Login.Label)
	if err != nil {
		dbg.Printf("login: unavailable: %v", err)
	} else {
		opts.Login = login
	}

	chimePlayer, err := chime.New(cfg.Feedback.ChimePath, cfg.Feedback.ChimeEnabled, dbg)
	if err != nil {
		log.Fatalf("create chime player: %v", err)
	}
	opts.Chime = chimePlayer

	return app.New(sys, prefs.NewFile(prefs.DefaultPath()), opts)
}

// startHotkey registers the cycle hotkey, if configured. The listener stops
// when ctx is done.
func startHotkey(ctx context.Context, cfg *config.Config, ctrl *app.Controller, dbg *log.Logger) {
	if cfg.Hotkey.Key == "" {
		return
	}
	listener, err := hotkey.New(cfg.Hotkey.Key, cfg.Hotkey.Device)
	if err != nil {
		dbg.Printf("hotkey: %v", err)
		return
	}
	dbg.Printf("hotkey: %s cycles input devices", listener.KeyName())

	go func() {
		err := listener.Start(ctx, func() {
			dbg.Printf("hotkey: pressed %s", listener.KeyName())
			err := ctrl.Submit(func() {
				if _, err := ctrl.CycleInputDevice(); err != nil {
					dbg.Printf("hotkey: cycle: %v", err)
				}
			})
			if err != nil && !errors.Is(err, app.ErrStopped) {
				dbg.Printf("hotkey: %v", err)
			}
		})
		if err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "hotkey listener error: %v\n", err)
		}
	}()
}

func runTray(cfg *config.Config, ctrl *app.Controller, dbg *log.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	startHotkey(ctx, cfg, ctrl, dbg)
	tray.New(ctrl, cfg.PollInterval(), dbg).Run(ctx)
}

func runTUI(cfg *config.Config, ctrl *app.Controller, backend string, dbg *log.Logger, debug bool) {
	tui.RegisterCustomThemes(cfg.CustomThemes)
	model := tui.NewModel(ctrl, backend, cfg.Hotkey.Key, cfg.Theme, dbg, debug)
	p := tea.NewProgram(model, tea.WithAltScreen())

	// When debug is enabled, redirect logger output into the TUI debug panel
	if debug {
		dbg.SetOutput(tui.NewLogWriter(p))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	startHotkey(ctx, cfg, ctrl, dbg)

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		err := ctrl.Run(ctx, cfg.PollInterval(), func(s app.Snapshot) {
			p.Send(tui.SnapshotMsg{Snapshot: s})
		})
		if err != nil && ctx.Err() == nil {
			dbg.Printf("tick loop: %v", err)
		}
	}()

	if _, err := p.Run(); err != nil {
		log.Fatalf("TUI error: %v", err)
	}

	cancel()
	<-loopDone
}

// handleDevices prints the input devices and the current defaults, then exits.
func handleDevices(args []string) {
	fs := flag.NewFlagSet("devices", flag.ExitOnError)
	backend := fs.String("backend", "", "audio backend (overrides config)")
	_ = fs.Parse(args)

	cfg := loadConfig(*backend)
	sys, name, closeBackend, err := openBackend(cfg.Backend)
	if err != nil {
		log.Fatalf("open audio backend: %v", err)
	}
	defer closeBackend()

	printDevices(os.Stdout, sys, name)
}

func printDevices(out io.Writer, sys audiodev.System, backend string) {
	active, hasActive := audiodev.ActiveInputDevice(sys)

	fmt.Fprintf(out, "Backend: %s\n\n", backend)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tNAME")
	for _, d := range audiodev.ListInputDevices(sys) {
		mark := ""
		if hasActive && d.ID == active.ID {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", mark, d.ID, d.Name())
	}
	_ = tw.Flush()

	if outID, err := sys.DefaultOutput(); err == nil {
		if pan, err := sys.StereoPan(outID); err == nil {
			fmt.Fprintf(out, "\nOutput balance: %.2f\n", pan)
		}
	}
}
