package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/watchstats/internal/config"
)

var cfg *config.Config

var (
	flagTakeout  string
	flagHistory  string
	flagActivity string
	flagLang     string
)

var rootCmd = &cobra.Command{
	Use:   "watchstats",
	Short: "Watch-history analytics for personal data exports",
	Long: "Loads watch-history and activity files from a personal data export, removes duplicates, " +
		"normalizes them into one viewing table, estimates total watch time from a sample of video " +
		"durations and writes CSV, XLSX, JSON and SQLite exports.",
	SilenceUsage: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// persistentPreRun loads configuration, applies flags, initializes logging
// and validates the configuration of run-mode commands.
func persistentPreRun(cmd *cobra.Command, args []string) error {
	c, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlags(cmd, c)
	cfg = c

	if err := config.InitLogger(cfg.Log); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	if !modeCommand(cmd) {
		return nil
	}
	return cfg.Validate(cmd.Name())
}

// modeCommand reports whether cmd is one of the run modes whose
// configuration must validate before it runs.
func modeCommand(cmd *cobra.Command) bool {
	return cmd.Parent() == rootCmd && slices.Contains(config.Modes, cmd.Name())
}

// applyFlags overrides config values with flags the user set explicitly.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("takeout") {
		c.Takeout.Dir = flagTakeout
	}
	if flags.Changed("history") {
		c.Takeout.HistoryPath = flagHistory
	}
	if flags.Changed("activity") {
		c.Takeout.ActivityPath = flagActivity
	}
	if flags.Changed("lang") {
		c.Locale.Lang = flagLang
	}
	if flags.Changed("sample") {
		c.Enrich.SampleSize = enrichSample
	}
	if flags.Changed("backend") {
		c.YouTube.Backend = enrichBackend
	}
	if flags.Changed("out") {
		c.Export.Dir = exportDir
	}
	if flags.Changed("format") {
		c.Export.Formats = exportFormats
	}
}

func init() {
	// Assigned here rather than in the literal to avoid an initialization
	// cycle: modeCommand refers to rootCmd.
	rootCmd.PersistentPreRunE = persistentPreRun

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagTakeout, "takeout", "", "export bundle directory to search for history files")
	pf.StringVar(&flagHistory, "history", "", "path to watch-history.json")
	pf.StringVar(&flagActivity, "activity", "", "path to MyActivity.json")
	pf.StringVar(&flagLang, "lang", "", "output language (en or ru)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
