package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/watchstats/internal/pipeline"
	"github.com/sells-group/watchstats/internal/stats"
)

var (
	enrichSample  int
	enrichBackend string
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Look up durations for a random sample and estimate total watch time",
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
		renderDurations(w, cat, stats.Durations(state.Tracker.Durations()))
		renderCoverage(w, cat, state.Coverage())
		if report.Enriched > 0 {
			notifyDone(cat, state)
		}
		if report.Aborted && report.Enriched == 0 {
			return eris.Wrap(report.Err, "enrich: no durations found")
		}
		return nil
	},
}

func init() {
	f := enrichCmd.Flags()
	f.IntVar(&enrichSample, "sample", pipeline.DefaultSampleSize, "number of videos to look up")
	f.StringVar(&enrichBackend, "backend", "", "duration source: api, scrape or manual")
	rootCmd.AddCommand(enrichCmd)
}
