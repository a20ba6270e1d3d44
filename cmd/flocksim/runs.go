package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/flocksim/internal/export"
	"github.com/san-kum/flocksim/internal/storage"
	"github.com/spf13/cobra"
)

var (
	plotMetric string
	plotHeight int
	plotWidth  int
	svgDir     string

	exportFormat string
	exportOut    string
)

func runsCommands() []*cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the metric series of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotMetric, "metric", "", "plot only this metric")
	plotCmd.Flags().IntVar(&plotHeight, "height", 10, "plot height")
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	plotCmd.Flags().StringVar(&svgDir, "svg", "", "also write one SVG chart per metric into this directory")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata and metric series",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "output format (json, csv)")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file (default stdout)")

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := storage.New(dataDir).Delete(args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		},
	}

	return []*cobra.Command{listCmd, plotCmd, exportCmd, deleteCmd}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tBOIDS\tFRAMES\tSIZE\tFPS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%dx%d\t%.1f\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Config.Boids,
			run.Frames,
			run.Config.Width, run.Config.Height,
			run.FPS,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series.Frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	names := series.Names()
	if plotMetric != "" {
		if _, ok := series.Values[plotMetric]; !ok {
			return fmt.Errorf("run %s has no metric %q (available: %v)", runID, plotMetric, names)
		}
		names = []string{plotMetric}
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("boids: %d\n", meta.Config.Boids)
	fmt.Printf("samples: %d\n\n", len(series.Frames))

	if svgDir != "" {
		if err := os.MkdirAll(svgDir, 0755); err != nil {
			return err
		}
	}

	for _, name := range names {
		data := series.Values[name]
		graph := asciigraph.Plot(data,
			asciigraph.Height(plotHeight),
			asciigraph.Width(plotWidth),
			asciigraph.Caption(fmt.Sprintf("%s vs frame", name)),
		)
		fmt.Println(graph)
		fmt.Println()

		if svgDir != "" {
			svg := export.SeriesSVG(series.Frames, data, 800, 300, "#4aa3df")
			path := filepath.Join(svgDir, fmt.Sprintf("%s_%s.svg", runID, name))
			if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
		}
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	if exportOut == "" {
		return st.Export(os.Stdout, args[0], exportFormat)
	}

	f, err := os.Create(exportOut)
	if err != nil {
		return err
	}
	if err := st.Export(f, args[0], exportFormat); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
