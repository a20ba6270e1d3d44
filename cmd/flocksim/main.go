package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/san-kum/flocksim/internal/config"
	"github.com/san-kum/flocksim/internal/flock"
	"github.com/san-kum/flocksim/internal/metrics"
	"github.com/san-kum/flocksim/internal/render"
	"github.com/san-kum/flocksim/internal/sim"
	"github.com/san-kum/flocksim/internal/snapshot"
	"github.com/san-kum/flocksim/internal/storage"
	"github.com/san-kum/flocksim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string
	logger   *slog.Logger

	// run configuration
	configFile string
	preset     string
	overrides  []string
	boids      int
	frames     int
	seed       int64
	workers    int
	metricList string

	// run outputs
	loadSnapshot string
	saveSnapshot string
	framesDir    string
	every        int
	sampleEvery  int
	progress     int
	noStore      bool
	runName      string

	// live view
	frameRate int
	theme     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "flocksim",
		Short:         "boids flocking simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			logger, err = newLogger(logLevel)
			return err
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".flocksim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store its metrics",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd, "default")
	runCmd.Flags().StringVar(&loadSnapshot, "load", "", "start from a snapshot (.json or .pb)")
	runCmd.Flags().StringVar(&saveSnapshot, "save-snapshot", "", "write the final state to a snapshot (.json or .pb)")
	runCmd.Flags().StringVar(&framesDir, "frames-dir", "", "write PNG frames into this directory")
	runCmd.Flags().IntVar(&every, "every", 1, "write every n-th frame")
	runCmd.Flags().IntVar(&sampleEvery, "sample", 1, "sample metrics every n-th frame")
	runCmd.Flags().IntVar(&progress, "progress", 100, "log progress every n frames (0 disables)")
	runCmd.Flags().BoolVar(&noStore, "no-store", false, "do not persist the run")
	runCmd.Flags().StringVar(&runName, "name", "flock", "run name")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addConfigFlags(liveCmd, "terminal")
	liveCmd.Flags().StringVar(&loadSnapshot, "load", "", "start from a snapshot (.json or .pb)")
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	liveCmd.Flags().StringVar(&theme, "theme", viz.ThemeNames()[0], "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	rootCmd.AddCommand(runCmd, liveCmd)
	rootCmd.AddCommand(runsCommands()...)
	rootCmd.AddCommand(toolCommands()...)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

const setUsage = "override a setting, key=value (repeatable); " +
	"legacy_speed=true measures the clamp speed from the pre-force velocity (preset \"legacy\")"

// addConfigFlags registers the configuration flags on cmd. The flag variables are shared
// between commands, so per-command defaults live in the command's annotations.
func addConfigFlags(cmd *cobra.Command, defaultPreset string) {
	cmd.Annotations = map[string]string{"preset": defaultPreset}
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	cmd.Flags().StringVar(&preset, "preset", "", fmt.Sprintf("use preset configuration (default %q)", defaultPreset))
	cmd.Flags().StringArrayVar(&overrides, "set", nil, setUsage)
	cmd.Flags().IntVar(&boids, "boids", 0, "number of boids")
	cmd.Flags().IntVar(&frames, "frames", 0, "number of frames")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 uses GOMAXPROCS)")
	cmd.Flags().StringVar(&metricList, "metrics", "", "comma-separated metrics ("+strings.Join(metrics.Names, ", ")+")")
}

// resolveConfig builds the run configuration: preset or config file, then flags, then
// --set overrides. With --load the population and area come from the snapshot.
func resolveConfig(cmd *cobra.Command) (*config.Config, []flock.Boid, error) {
	var cfg *config.Config
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	} else {
		name := presetName(cmd)
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
	}

	flags := cmd.Flags()
	if flags.Changed("boids") {
		cfg.Boids = boids
	}
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if err := cfg.ApplyOverrides(overrides); err != nil {
		return nil, nil, err
	}

	var population []flock.Boid
	if loadSnapshot != "" {
		doc, err := snapshot.Read(loadSnapshot)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load snapshot: %w", err)
		}
		cfg.Width, cfg.Height = doc.Width, doc.Height
		cfg.Boids = len(doc.Boids)
		population = doc.ToBoids()
	}

	for _, w := range cfg.Warnings() {
		logger.Warn("suspicious configuration", "reason", w)
	}
	return cfg, population, nil
}

func presetName(cmd *cobra.Command) string {
	if preset != "" {
		return preset
	}
	return cmd.Annotations["preset"]
}

func selectedMetrics() ([]sim.Metric, error) {
	if metricList == "" {
		return metrics.All(), nil
	}
	return metrics.Parse(metricList)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, population, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	f, err := sim.NewFlock(cfg, population)
	if err != nil {
		return err
	}
	ms, err := selectedMetrics()
	if err != nil {
		return err
	}

	s := sim.New(f, sim.WithLogger(logger), sim.WithMetrics(ms...))
	if progress > 0 {
		s.AddObserver(sim.NewProgress(logger, cfg.Frames, progress))
	}
	var frameWriter *render.FrameWriter
	if framesDir != "" {
		frameWriter, err = render.NewFrameWriter(framesDir, cfg.Width, cfg.Height, cfg.DrawRadius, render.WithEvery(every))
		if err != nil {
			return err
		}
		s.AddObserver(frameWriter)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("running simulation", "boids", cfg.Boids, "frames", cfg.Frames, "size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height))
	result, err := s.Run(ctx, sim.Config{Frames: cfg.Frames, SampleEvery: sampleEvery})
	if err != nil {
		if !errors.Is(err, context.Canceled) || result == nil {
			return err
		}
		logger.Warn("interrupted", "frames", result.Frames)
	}

	final := snapshot.FromBoids(f.Boids(), cfg.Width, cfg.Height, f.Frame())
	if saveSnapshot != "" {
		if err := snapshot.Write(saveSnapshot, final); err != nil {
			return err
		}
		logger.Info("snapshot written", "path", saveSnapshot)
	}

	runID := "-"
	if !noStore {
		st := storage.New(dataDir)
		if runID, err = st.Save(runName, cfg, result, final); err != nil {
			return err
		}
	}

	fmt.Printf("completed in %v (%.1f frames/s)\n", result.Elapsed.Round(time.Millisecond), result.FPS())
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", result.Frames)
	if frameWriter != nil {
		fmt.Printf("images: %d in %s\n", frameWriter.Written(), framesDir)
	}
	fmt.Println("\nmetrics:")
	for _, m := range ms {
		fmt.Printf("  %s: %.6f\n", m.Name(), result.Metrics[m.Name()])
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, population, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	f, err := sim.NewFlock(cfg, population)
	if err != nil {
		return err
	}
	ms, err := selectedMetrics()
	if err != nil {
		return err
	}
	if frameRate <= 0 {
		return fmt.Errorf("fps must be positive, got %d", frameRate)
	}

	name := presetName(cmd)
	if configFile != "" {
		name = configFile
	}
	m := viz.NewModel(f, name,
		viz.WithMetrics(ms...),
		viz.WithTickRate(time.Second/time.Duration(frameRate)),
		viz.WithTheme(theme))
	return viz.Run(m)
}
