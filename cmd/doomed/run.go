package main

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/wasm-doom/bridge"
	"github.com/wippyai/wasm-doom/config"
	"github.com/wippyai/wasm-doom/demo"
	"github.com/wippyai/wasm-doom/engine"
	"github.com/wippyai/wasm-doom/errors"
	"github.com/wippyai/wasm-doom/host/headless"
	termhost "github.com/wippyai/wasm-doom/host/term"
	"github.com/wippyai/wasm-doom/host/window"
)

var (
	flagMode     string
	flagWADDir   string
	flagTPS      int
	flagFrames   uint64
	flagSnapshot string
	flagWidth    int
	flagHeight   int
)

var runCmd = &cobra.Command{
	Use:   "run [guest.wasm] [-- guest args...]",
	Short: "Run a doomgeneric guest",
	Long: `Run a doomgeneric guest on the selected host.

Without a guest file the built-in demo guest runs, which paints a test
pattern tinted by the last key pressed.

Terminal controls:
  arrows, letters  - forwarded to the game
  ctrl+f           - fire
  ctrl+s / ctrl+r  - strafe / run
  ctrl+t           - toggle help
  ctrl+c           - quit`,
	Args: cobra.ArbitraryArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagMode, "mode", "", "Host: term, window or headless")
	runCmd.Flags().StringVar(&flagWADDir, "wad-dir", "", "Directory mounted at / in the guest")
	runCmd.Flags().IntVar(&flagTPS, "tps", 0, "Engine ticks per second")
	runCmd.Flags().Uint64Var(&flagFrames, "frames", 0, "Headless: stop after this many frames")
	runCmd.Flags().StringVar(&flagSnapshot, "snapshot", "", "Headless: write the last frame to this PNG")
	runCmd.Flags().IntVar(&flagWidth, "width", 0, "Override frame width")
	runCmd.Flags().IntVar(&flagHeight, "height", 0, "Override frame height")
}

func applyRunFlags(cmd *cobra.Command, args []string) (wasmPath string, guestArgs []string, err error) {
	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Host.Mode = flagMode
	}
	if flags.Changed("wad-dir") {
		cfg.Engine.WADDir = flagWADDir
	}
	if flags.Changed("tps") {
		cfg.Host.TPS = flagTPS
	}
	if flags.Changed("frames") {
		cfg.Headless.MaxFrames = flagFrames
	}
	if flags.Changed("snapshot") {
		cfg.Headless.Snapshot = flagSnapshot
	}
	if flags.Changed("width") || flags.Changed("height") {
		cfg.Engine.Width, cfg.Engine.Height = flagWidth, flagHeight
	}

	wasmPath = cfg.Engine.Wasm
	guestArgs = cfg.Engine.Args
	dash := cmd.ArgsLenAtDash()
	positional := args
	if dash >= 0 {
		positional = args[:dash]
		guestArgs = append([]string{"doom"}, args[dash:]...)
	}
	if len(positional) > 1 {
		return "", nil, errors.InvalidInput(errors.PhaseConfig, "run takes at most one guest file")
	}
	if len(positional) == 1 {
		wasmPath = positional[0]
	}
	return wasmPath, guestArgs, cfg.Validate()
}

func runRun(cmd *cobra.Command, args []string) error {
	wasmPath, guestArgs, err := applyRunFlags(cmd, args)
	if err != nil {
		return err
	}

	l, err := newLogger(cfg.Log, cfg.Host.Mode)
	if err != nil {
		return err
	}
	installLogger(l)

	if cfg.Host.Mode == config.ModeTerm && !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.Unavailable(errors.PhaseHost, "terminal host needs a terminal; use --mode headless")
	}

	wasmBytes, err := readGuest(wasmPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	eng, err := engine.New(ctx, engine.Config{
		Wasm:             wasmBytes,
		WADDir:           cfg.Engine.WADDir,
		Env:              cfg.Engine.Env,
		MemoryLimitPages: cfg.Engine.MemoryLimitPages,
		Geometry: bridge.Geometry{
			Width:         cfg.Engine.Width,
			Height:        cfg.Engine.Height,
			BytesPerPixel: 4,
		},
	})
	if err != nil {
		return err
	}
	defer eng.Close(context.Background())

	log.Info("guest ready",
		zap.String("config", cfgPath),
		zap.String("wasm", displayPath(wasmPath)),
		zap.String("mode", cfg.Host.Mode),
		zap.Strings("args", guestArgs))

	err = drive(ctx, eng, guestArgs)
	if code, ok := engine.ExitCode(err); ok {
		log.Info("guest exited", zap.Uint32("code", code))
		if code == 0 {
			return nil
		}
	}
	if ctx.Err() != nil && err != nil {
		log.Info("interrupted", zap.Error(err))
		return nil
	}
	return err
}

// drive creates the bridge on the configured host and ticks until the host
// or the guest stops.
func drive(ctx context.Context, eng *engine.WazeroEngine, guestArgs []string) error {
	geom := eng.Geometry()
	args := bridge.Args(guestArgs)

	switch cfg.Host.Mode {
	case config.ModeWindow:
		panel := window.NewPanel(geom)
		if _, err := bridge.Create(ctx, len(args), panel, args, eng); err != nil {
			return err
		}
		return window.Run(ctx, panel, bridge.Tick, window.Options{
			Scale:      cfg.Host.Scale,
			TPS:        cfg.Host.TPS,
			Status:     cfg.Host.Status,
			Fullscreen: cfg.Host.Fullscreen,
		})

	case config.ModeHeadless:
		panel := headless.New(headless.Options{
			MaxFrames: cfg.Headless.MaxFrames,
			RealTime:  cfg.Headless.RealTime,
		})
		if _, err := bridge.Create(ctx, len(args), panel, args, eng); err != nil {
			return err
		}
		for !panel.Done() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := bridge.Tick(ctx); err != nil {
				return err
			}
		}
		log.Info("headless run finished",
			zap.Uint64("frames", panel.Frames()),
			zap.Duration("guest_time", panel.Elapsed()))
		if cfg.Headless.Snapshot != "" {
			if err := panel.SavePNG(cfg.Headless.Snapshot, geom.Width, geom.Height, cfg.Headless.SnapshotScale); err != nil {
				return err
			}
			log.Info("snapshot written", zap.String("path", cfg.Headless.Snapshot))
		}
		return nil

	default:
		panel := termhost.NewPanel(termhost.Options{
			Geometry:   geom,
			HoldMs:     cfg.Host.HoldMs,
			MaxSleepMs: cfg.Host.MaxSleepMs,
		})
		if _, err := bridge.Create(ctx, len(args), panel, args, eng); err != nil {
			return err
		}
		m := termhost.NewModel(ctx, panel, bridge.Tick, cfg.Host.TPS)
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			m.Resize(w, h)
		}
		return termhost.RunModel(ctx, m)
	}
}

// readGuest loads the guest binary, or builds the demo guest for an empty path.
func readGuest(path string) ([]byte, error) {
	if path == "" {
		opts := demo.DefaultOptions
		if cfg.Engine.Width > 0 {
			opts.Width, opts.Height = cfg.Engine.Width, cfg.Engine.Height
		}
		return demo.Wasm(opts), nil
	}
	data, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		e := errors.NotFound(errors.PhaseLoad, "guest", path)
		e.Cause = err
		return nil, e
	}
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindUnavailable, err, "read guest "+path)
	}
	return data, nil
}

func displayPath(path string) string {
	if path == "" {
		return "(demo)"
	}
	return path
}
