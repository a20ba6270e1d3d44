package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/san-kum/flocksim/internal/automation"
	"github.com/san-kum/flocksim/internal/config"
	"github.com/san-kum/flocksim/internal/export"
	"github.com/san-kum/flocksim/internal/render"
	"github.com/san-kum/flocksim/internal/sim"
	"github.com/san-kum/flocksim/internal/snapshot"
	"github.com/san-kum/flocksim/internal/storage"
	"github.com/spf13/cobra"
)

var (
	benchWorkers string
	benchFrames  int

	renderOut    string
	renderRadius int

	ensembleRuns     int
	ensembleParallel int
)

func toolCommands() []*cobra.Command {
	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure frames per second per worker count",
		Args:  cobra.NoArgs,
		RunE:  benchFlock,
	}
	addConfigFlags(benchCmd, "default")
	benchCmd.Flags().StringVar(&benchWorkers, "worker-counts", "1,2,4,8", "comma-separated worker counts")
	benchCmd.Flags().IntVar(&benchFrames, "bench-frames", 50, "frames timed per worker count")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&noStore, "no-store", false, "do not persist the runs")
	scenarioCmd.Flags().IntVar(&ensembleParallel, "parallel", 0, "repeat members run at once (0 means no limit)")

	renderCmd := &cobra.Command{
		Use:   "render [snapshot]",
		Short: "draw a snapshot as PNG or SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  renderSnapshot,
	}
	renderCmd.Flags().StringVarP(&renderOut, "output", "o", "flock.png", "output file (.png or .svg)")
	renderCmd.Flags().IntVar(&renderRadius, "radius", config.DefaultDrawRadius, "boid radius in pixels")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run one configuration over consecutive seeds and summarize the metrics",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	addConfigFlags(ensembleCmd, "small")
	ensembleCmd.Flags().IntVar(&ensembleRuns, "runs", 8, "number of seeds")
	ensembleCmd.Flags().IntVar(&ensembleParallel, "parallel", 0, "members run at once (0 means no limit)")

	return []*cobra.Command{presetsCmd, benchCmd, scenarioCmd, renderCmd, ensembleCmd}
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tBOIDS\tFRAMES\tVISIBLE\tPROTECTED\tLEGACY")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%dx%d\t%d\t%d\t%g\t%g\t%t\n",
			name,
			cfg.Width, cfg.Height,
			cfg.Boids,
			cfg.Frames,
			cfg.Flock.VisibleRange,
			cfg.Flock.ProtectedRange,
			cfg.Flock.LegacySpeed,
		)
	}
	return w.Flush()
}

func parseWorkerCounts(list string) ([]int, error) {
	var counts []int
	for _, field := range strings.Split(list, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid worker count %q", field)
		}
		counts = append(counts, n)
	}
	return counts, nil
}

func benchFlock(cmd *cobra.Command, args []string) error {
	cfg, population, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	counts, err := parseWorkerCounts(benchWorkers)
	if err != nil {
		return err
	}
	if benchFrames < 1 {
		return fmt.Errorf("bench-frames must be positive, got %d", benchFrames)
	}

	fmt.Printf("benchmarking %d boids on %dx%d\n\n", cfg.Boids, cfg.Width, cfg.Height)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WORKERS\tFRAMES\tTIME\tFRAMES/SEC\tSPEEDUP")

	var baseline float64
	for _, n := range counts {
		c := *cfg
		c.Workers = n
		f, err := sim.NewFlock(&c, population)
		if err != nil {
			return err
		}
		f.Step()

		start := time.Now()
		for i := 0; i < benchFrames; i++ {
			f.Step()
		}
		elapsed := time.Since(start)

		fps := float64(benchFrames) / elapsed.Seconds()
		if baseline == 0 {
			baseline = fps
		}
		fmt.Fprintf(w, "%d\t%d\t%v\t%.1f\t%.2fx\n",
			n, benchFrames, elapsed.Round(time.Millisecond), fps, fps/baseline)
	}

	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	opts := []automation.Option{
		automation.WithLogger(logger),
		automation.WithParallel(ensembleParallel),
	}
	if !noStore {
		opts = append(opts, automation.WithStore(storage.New(dataDir)))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, runErr := automation.NewRunner(opts...).Run(ctx, scenario)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tRUN\tBOIDS\tFRAMES\tFPS")
	for _, r := range results {
		runID := r.RunID
		if runID == "" {
			runID = "-"
		}
		frames, fps := 0, 0.0
		if r.Result != nil {
			frames, fps = r.Result.Frames, r.Result.FPS()
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.1f\n", r.Step, runID, r.Config.Boids, frames, fps)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}

func renderSnapshot(cmd *cobra.Command, args []string) error {
	doc, err := snapshot.Read(args[0])
	if err != nil {
		return err
	}
	boids := doc.ToBoids()

	switch ext := strings.ToLower(filepath.Ext(renderOut)); ext {
	case ".png":
		img := render.Rasterize(boids, doc.Width, doc.Height, renderRadius)
		if err := render.WritePNG(renderOut, img); err != nil {
			return err
		}
	case ".svg":
		svg := export.SnapshotSVG(boids, doc.Width, doc.Height, float64(renderRadius))
		if err := os.WriteFile(renderOut, []byte(svg), 0644); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported output format %q (.png, .svg)", ext)
	}

	fmt.Printf("wrote %s (%d boids, frame %d)\n", renderOut, len(boids), doc.Frame)
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if ensembleRuns < 1 {
		return fmt.Errorf("runs must be positive, got %d", ensembleRuns)
	}
	if _, err := selectedMetrics(); err != nil {
		return err
	}

	ensemble := sim.NewEnsemble(func(seed int64) (*sim.Simulator, error) {
		c := *cfg
		c.Seed = seed
		f, err := sim.NewFlock(&c, nil)
		if err != nil {
			return nil, err
		}
		ms, _ := selectedMetrics()
		return sim.New(f, sim.WithLogger(logger), sim.WithMetrics(ms...)), nil
	}, ensembleRuns, cfg.Seed)
	ensemble.SetLimit(ensembleParallel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("running ensemble", "runs", ensembleRuns, "boids", cfg.Boids, "frames", cfg.Frames, "seed", cfg.Seed)
	start := time.Now()
	results, err := ensemble.Run(ctx, sim.Config{Frames: cfg.Frames})
	if err != nil {
		return err
	}

	fmt.Printf("%d runs in %v\n\n", len(results), time.Since(start).Round(time.Millisecond))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTD\tMIN\tMAX")
	for _, st := range sim.Summarize(results) {
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\t%.6f\t%.6f\n", st.Name, st.Mean, st.Std, st.Min, st.Max)
	}
	return w.Flush()
}
