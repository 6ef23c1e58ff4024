package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/integrii/flaggy"

	"github.com/sheikhrachel/go-universe/model"
	"github.com/sheikhrachel/go-universe/utils"
	"github.com/sheikhrachel/go-universe/view"
)

// flagValues holds command line overrides; zero values leave the config untouched
type flagValues struct {
	configFile  string
	width       int
	height      int
	interval    time.Duration
	maxSteps    int
	density     float64
	seed        int64
	workers     int
	statsFile   string
	interactive bool
	autoRestart bool
	noGlider    bool
	color       bool
	quiet       bool
}

func parseFlags() flagValues {
	fv := flagValues{workers: -1, density: -1}

	flaggy.SetName("go-universe")
	flaggy.SetDescription("Conway's Game of Life on a toroidal grid")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.String(&fv.configFile, "c", "config", "Path to a JSON or YAML config file")
	flaggy.Int(&fv.width, "x", "width", "Width of the universe")
	flaggy.Int(&fv.height, "y", "height", "Height of the universe")
	flaggy.Duration(&fv.interval, "i", "interval", "Interval between generations, for example 150ms")
	flaggy.Int(&fv.maxSteps, "s", "maxSteps", "Stop after maxSteps generations")
	flaggy.Float64(&fv.density, "d", "density", "Probability of a cell starting alive")
	flaggy.Int64(&fv.seed, "", "seed", "Random seed, 0 seeds from the clock")
	flaggy.Int(&fv.workers, "p", "workers", "Row bands computed in parallel, 0 uses every CPU")
	flaggy.String(&fv.statsFile, "o", "stats", "Write per-generation stats to this CSV file")
	flaggy.Bool(&fv.interactive, "n", "interactive", "Start interactive mode")
	flaggy.Bool(&fv.autoRestart, "a", "autoRestart", "Restart on extinction or stagnation")
	flaggy.Bool(&fv.noGlider, "", "noGlider", "Do not seed the glider")
	flaggy.Bool(&fv.color, "", "color", "Colour the headless output")
	flaggy.Bool(&fv.quiet, "q", "quiet", "Do not render the universe")
	flaggy.Parse()

	return fv
}

// apply overlays the set flags on config
func (fv flagValues) apply(config utils.Config) utils.Config {
	if fv.width > 0 {
		config.Width = fv.width
	}
	if fv.height > 0 {
		config.Height = fv.height
	}
	if fv.interval > 0 {
		config.FrameRate = fv.interval
	}
	if fv.maxSteps > 0 {
		config.MaxGenerations = fv.maxSteps
	}
	if fv.density >= 0 {
		config.RandomDensity = fv.density
	}
	if fv.seed != 0 {
		config.Seed = fv.seed
	}
	if fv.workers >= 0 {
		config.Workers = fv.workers
	}
	if fv.statsFile != "" {
		config.StatsFile = fv.statsFile
	}
	if fv.interactive {
		config.Interactive = true
	}
	if fv.autoRestart {
		config.AutoRestart = true
	}
	if fv.noGlider {
		config.Glider = false
	}
	return config
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	fv := parseFlags()

	config := utils.DefaultConfig()
	if fv.configFile != "" {
		var err error
		if config, err = utils.LoadConfig(fv.configFile); err != nil {
			logger.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}
	config = fv.apply(config)
	if err := config.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if config.Interactive {
		if err := runInteractive(config); err != nil {
			logger.Error("interactive mode failed", "error", err)
			os.Exit(1)
		}
		return
	}

	sink, err := utils.CreateStatsSink(config.StatsFile)
	if err != nil {
		logger.Error("failed to open stats file", "error", err)
		os.Exit(1)
	}
	defer sink.Close()

	var renderer model.Renderer
	switch {
	case fv.quiet:
	case fv.color:
		renderer = model.NewColorRenderer(os.Stdout)
	default:
		renderer = &model.TerminalRenderer{Out: os.Stdout}
	}

	// Handle Ctrl+C gracefully
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	result, err := runHeadless(ctx, config, renderer, sink, logger)
	if err != nil {
		logger.Error("simulation failed", "error", err)
		return
	}
	logger.Info("finished",
		"generations", result.Generations,
		"restarts", result.Restarts,
		"runtime", time.Since(start).Round(time.Millisecond),
	)
}

func runInteractive(config utils.Config) error {
	u, err := buildUniverse(config, newRand(config.Seed), nil)
	if err != nil {
		return err
	}
	c, err := view.NewConsole(u, config.FrameRate)
	if err != nil {
		return err
	}
	return c.Run()
}
