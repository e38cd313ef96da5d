package main

import (
	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load, merge and normalize the history files and report stage counts",
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

		renderStages(cmd.OutOrStdout(), cat, state.Stages, state.Merge.Duplicates)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}
