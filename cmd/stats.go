package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/watchstats/internal/stats"
)

var statsTop int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print viewing statistics for the merged history",
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
		renderStats(w, cat, stats.Compute(state.Rows, statsTop))
		return nil
	},
}

func init() {
	statsCmd.Flags().IntVar(&statsTop, "top", stats.DefaultTopN, "number of top channels to show")
	rootCmd.AddCommand(statsCmd)
}
