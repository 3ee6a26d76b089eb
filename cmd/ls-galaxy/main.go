// Command ls-galaxy renders a procedural spiral galaxy in the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-galaxy/internal/config"
	"github.com/litescript/ls-galaxy/internal/galaxy"
	"github.com/litescript/ls-galaxy/internal/logging"
	"github.com/litescript/ls-galaxy/internal/render"
	"github.com/litescript/ls-galaxy/internal/scene"
	"github.com/litescript/ls-galaxy/internal/state"
	"github.com/litescript/ls-galaxy/internal/ui"
	"github.com/litescript/ls-galaxy/internal/version"
)

// CLI flags for headless mode
var (
	summaryMode bool
	frameMode   bool
	frameWidth  int
	frameHeight int
	showVersion bool
)

func main() {
	// Configuration flags. Defaults are for -help only; unset flags leave
	// the environment and .env values alone.
	def := config.Default()
	flag.String("preset", def.Preset, "Parameter preset (default, minimal)")
	flag.Int("count", def.Params.Count, "Number of points")
	flag.Float64("size", def.Params.Size, "Point size")
	flag.Float64("radius", def.Params.Radius, "Galaxy radius")
	flag.Int("branches", def.Params.Branches, "Number of spiral arms")
	flag.Float64("spin", def.Params.Spin, "Arm curvature per unit radius")
	flag.Float64("randomness", def.Params.Randomness, "Jitter scale (used with -scale-jitter)")
	flag.Float64("randomness-power", def.Params.RandomnessPower, "Jitter concentration exponent")
	flag.String("inside", def.Params.InsideColor.Hex(), "Core colour (hex)")
	flag.String("outside", def.Params.OutsideColor.Hex(), "Rim colour (hex)")
	flag.Int64("seed", 0, "Random seed (0 = time-seeded)")
	flag.Bool("scale-jitter", false, "Multiply jitter offsets by -randomness")
	flag.String("log-level", def.LogLevel, "Log level (debug, info, warn, error)")
	flag.String("log-file", "", "Log file (the TUI discards logs otherwise)")

	flag.BoolVar(&summaryMode, "summary", false, "Print a parameter and shape summary instead of the TUI")
	flag.BoolVar(&frameMode, "frame", false, "Print one rendered frame instead of the TUI")
	flag.IntVar(&frameWidth, "width", 0, "Frame width in cells for -frame (default: terminal width or 80)")
	flag.IntVar(&frameHeight, "height", 0, "Frame height in cells for -frame (default: terminal height or 30)")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("ls-galaxy v%s\n", version.Version)
		return
	}

	// Resolve configuration: flags > environment > .env > defaults
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	set := make(map[string]string)
	flag.Visit(func(f *flag.Flag) {
		for _, k := range config.Keys {
			if k.Flag == f.Name {
				set[f.Name] = f.Value.String()
			}
		}
	})
	if err := cfg.Apply(set); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	headless := summaryMode || frameMode

	// Set up logging
	logger, err := newLogger(cfg, headless)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	logger.Debug("config: preset=%s count=%d branches=%d seed=%d jitter=%s",
		cfg.Preset, cfg.Params.Count, cfg.Params.Branches, cfg.Seed, galaxy.JitterMode(cfg.Params))

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	// Initialize components
	sc := scene.New()
	binder := scene.NewBinder(sc, galaxy.NewSource(cfg.Seed), logger.Named("scene"))
	defer binder.Dispose()
	stateMgr := state.NewManager(state.DefaultConfig(), cfg.Params)

	// Headless mode: no TUI
	if headless {
		if err := runHeadless(sc, binder, stateMgr, cfg.Params, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Create TUI model
	model := ui.New(stateMgr, sc, binder, logger)

	// Create Bubble Tea program
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	// Run TUI (blocks until quit)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// newLogger logs to stderr in headless modes. The TUI owns the terminal,
// so interactive sessions log to -log-file or nowhere.
func newLogger(cfg *config.Config, headless bool) (*logging.Logger, error) {
	level := logging.ParseLevel(cfg.LogLevel)
	switch {
	case cfg.LogFile != "":
		return logging.NewFile(cfg.LogFile, level)
	case headless:
		return logging.New(level), nil
	default:
		return logging.Discard(), nil
	}
}

// runHeadless generates the galaxy once and prints a summary and/or a
// single rendered frame.
func runHeadless(sc *scene.Scene, binder *scene.Binder, stateMgr *state.Manager, params galaxy.Parameters, logger *logging.Logger) error {
	start := time.Now()
	err := binder.Regenerate(params)
	stateMgr.RecordRegeneration(params, time.Since(start), err)
	if err != nil {
		return err
	}
	stateMgr.SetSummary(galaxy.Summarize(cloudOf(binder.Current())))

	snap := stateMgr.Snapshot()
	logger.Info("generated %d points in %s", snap.Summary.Points, snap.LastDuration.Round(time.Millisecond))

	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	if summaryMode {
		galaxy.WriteSummary(os.Stdout, snap.Committed, snap.Summary)
	}

	if frameMode {
		if summaryMode {
			fmt.Println()
		}
		w, h := frameSize(isTTY)
		r := render.NewRenderer(w, h)
		cam := render.NewCamera(r.Aspect())
		frame := r.Render(sc.Objects(), cam)
		if isTTY {
			fmt.Println(frame.Styled())
		} else {
			fmt.Println(frame.String())
		}
	}
	return nil
}

// cloudOf wraps the buffers of an attached cloud for summarizing.
func cloudOf(p *scene.Points) *galaxy.PointCloud {
	pc := &galaxy.PointCloud{}
	if p == nil || p.Geometry == nil {
		return pc
	}
	if a, ok := p.Geometry.Attribute(scene.AttrPosition); ok {
		pc.Positions = a.Data
	}
	if a, ok := p.Geometry.Attribute(scene.AttrColor); ok {
		pc.Colors = a.Data
	}
	return pc
}

// frameSize picks the -frame size: flags first, then the terminal size.
func frameSize(isTTY bool) (int, int) {
	w, h := 80, 30
	if isTTY {
		if tw, th, err := term.GetSize(int(os.Stdout.Fd())); err == nil && tw > 0 && th > 1 {
			w, h = tw, th-1
		}
	}
	if frameWidth > 0 {
		w = frameWidth
	}
	if frameHeight > 0 {
		h = frameHeight
	}
	return w, h
}
