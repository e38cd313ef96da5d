package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/watchstats/internal/locale"
	"github.com/sells-group/watchstats/internal/model"
	"github.com/sells-group/watchstats/internal/notify"
	"github.com/sells-group/watchstats/internal/pipeline"
	"github.com/sells-group/watchstats/internal/resilience"
	"github.com/sells-group/watchstats/internal/takeout"
	"github.com/sells-group/watchstats/pkg/youtube"
)

// resolveInputs lists the export files to load. Explicit paths win over the
// files discovered under the takeout directory.
func resolveInputs() ([]takeout.Input, error) {
	found := map[model.SourceTag]string{}
	if cfg.Takeout.Dir != "" {
		for _, in := range takeout.Discover(cfg.Takeout.Dir) {
			found[in.Source] = in.Path
		}
	}
	if cfg.Takeout.HistoryPath != "" {
		found[model.SourceWatchHistory] = cfg.Takeout.HistoryPath
	}
	if cfg.Takeout.ActivityPath != "" {
		found[model.SourceMyActivity] = cfg.Takeout.ActivityPath
	}

	var inputs []takeout.Input
	for _, tag := range model.SourceOrder {
		if p, ok := found[tag]; ok {
			inputs = append(inputs, takeout.Input{Source: tag, Path: p})
		}
	}
	if len(inputs) == 0 {
		return nil, eris.Errorf("no history files found under %q; use --history or --activity", cfg.Takeout.Dir)
	}
	return inputs, nil
}

// loadState runs the ingestion pipeline over the configured inputs.
func loadState(ctx context.Context) (*pipeline.State, error) {
	inputs, err := resolveInputs()
	if err != nil {
		return nil, err
	}
	state, err := pipeline.New(inputs).Run(ctx)
	if err != nil {
		return state, eris.Wrap(err, "load history")
	}
	return state, nil
}

func loadCatalog() (*locale.Catalog, error) {
	return locale.Load(cfg.Locale.Lang)
}

// interruptible returns a context cancelled on SIGINT or SIGTERM.
func interruptible(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
}

// farewell prints the goodbye line when ctx was interrupted. Partial results
// are not saved.
func farewell(ctx context.Context, w io.Writer, cat *locale.Catalog) bool {
	if ctx.Err() == nil {
		return false
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, cat.Label("goodbye"))
	return true
}

// durationSource builds the configured duration backend.
func durationSource(in io.Reader, out io.Writer) (pipeline.DurationSource, error) {
	retry := resilience.PolicyFromConfig(cfg.Enrich)

	switch cfg.YouTube.Backend {
	case "api":
		key, err := cfg.ResolveAPIKey()
		if err != nil {
			return nil, err
		}
		if key == "" {
			return nil, eris.Errorf("youtube api key not set: set youtube.api_key or create %s", cfg.YouTube.APIKeyFile)
		}
		client := youtube.NewClient(key, youtube.WithBaseURL(cfg.YouTube.BaseURL))
		return pipeline.Retrying(client, retry), nil
	case "scrape":
		scraper := youtube.NewScraper(youtube.WithWatchBaseURL(cfg.YouTube.WatchURL))
		return pipeline.Retrying(scraper, retry), nil
	case "manual":
		return pipeline.NewManualSource(in, out), nil
	default:
		return nil, eris.Errorf("unknown duration backend %q", cfg.YouTube.Backend)
	}
}

// enrichState samples the table and records durations into state.Tracker.
func enrichState(ctx context.Context, state *pipeline.State, src pipeline.DurationSource, sampleSize int) pipeline.EnrichReport {
	seed := uint64(cfg.Enrich.Seed)
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))

	sample := pipeline.Sample(state.Rows, sampleSize, rng)
	zap.L().Info("enrich: sample selected",
		zap.Int("sample", len(sample)),
		zap.Int("table", len(state.Rows)),
	)

	opts := pipeline.EnrichOptions{
		Interval:    time.Duration(cfg.Enrich.IntervalMs) * time.Millisecond,
		CallTimeout: time.Duration(cfg.Enrich.CallTimeoutSecs) * time.Second,
	}
	return pipeline.Enrich(ctx, sample, src, state.Tracker, opts)
}

// notifyDone sends the completion notification if enabled.
func notifyDone(cat *locale.Catalog, state *pipeline.State) {
	n := notify.New(cfg.Notify.Enabled)
	_ = n.EnrichmentDone(cat, state.Tracker.Len(), state.Tracker.Average())
}
