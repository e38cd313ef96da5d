package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sells-group/watchstats/internal/export"
	"github.com/sells-group/watchstats/internal/stats"
)

var (
	exportEnrich  bool
	exportDir     string
	exportFormats []string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the viewing table and statistics as CSV, XLSX, JSON and SQLite",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := interruptible(cmd)
		defer stop()

		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		state, err := loadState(ctx)
		if farewell(ctx, cmd.OutOrStdout(), cat) {
			return nil
		}
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		renderStages(w, cat, state.Stages, state.Merge.Duplicates)

		if exportEnrich {
			src, err := durationSource(cmd.InOrStdin(), w)
			if err != nil {
				return err
			}
			report := enrichState(ctx, state, src, cfg.Enrich.SampleSize)
			if report.Interrupted {
				farewell(ctx, w, cat)
				return nil
			}
			renderReport(w, cat, report)
			if report.Enriched > 0 {
				notifyDone(cat, state)
			}
		}

		durations := state.Tracker.Durations()
		b := &export.Bundle{
			Rows:        state.Rows,
			Stages:      state.Stages,
			Duplicates:  state.Merge.Duplicates,
			Durations:   durations,
			Progression: state.Tracker.Progression(),
			Snapshots:   state.Tracker.Snapshots(),
			Coverage:    state.Coverage(),
			Summary:     stats.Compute(state.Rows, stats.DefaultTopN),
			DurationSum: stats.Durations(durations),
			Catalog:     cat,
			GeneratedAt: time.Now().UTC(),
		}

		paths, err := export.WriteAll(ctx, cfg.Export.Dir, cfg.Export.Formats, b)
		if farewell(ctx, w, cat) {
			return nil
		}
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintln(w, p)
		}
		return nil
	},
}

func init() {
	f := exportCmd.Flags()
	f.BoolVar(&exportEnrich, "enrich", false, "look up durations for a sample before exporting")
	f.StringVar(&exportDir, "out", "", "output directory")
	f.StringSliceVar(&exportFormats, "format", nil, "formats to write: csv, xlsx, json, sqlite")
	rootCmd.AddCommand(exportCmd)
}
