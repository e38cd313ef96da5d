package pipeline

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/watchstats/internal/duration"
	"github.com/sells-group/watchstats/internal/model"
	"github.com/sells-group/watchstats/pkg/youtube"
)

// DefaultSampleSize is the number of rows enriched when none is configured.
const DefaultSampleSize = 100

const (
	averageLogEvery  = 5
	progressLogEvery = 10
)

// DurationSource looks up the length of one video in seconds.
type DurationSource interface {
	Duration(ctx context.Context, videoID string) (int, error)
}

// EnrichOptions paces the lookups of Enrich.
type EnrichOptions struct {
	// Interval is the minimum delay between two lookups. Zero disables pacing.
	Interval time.Duration
	// CallTimeout bounds each lookup. A lookup that times out counts as a
	// miss for that video and the loop moves on.
	CallTimeout time.Duration
}

// DefaultEnrichOptions returns 100ms pacing and a 10s per-call timeout.
func DefaultEnrichOptions() EnrichOptions {
	return EnrichOptions{
		Interval:    100 * time.Millisecond,
		CallTimeout: 10 * time.Second,
	}
}

// EnrichReport summarizes one enrichment run.
type EnrichReport struct {
	Sampled   int                         `json:"sampled"`
	Attempted int                         `json:"attempted"`
	Enriched  int                         `json:"enriched"`
	Failures  map[youtube.FailureKind]int `json:"failures"`
	// Aborted is set when a fatal failure stopped the run early.
	Aborted bool `json:"aborted"`
	// Interrupted is set when ctx was cancelled before the sample was done.
	Interrupted bool  `json:"interrupted"`
	Err         error `json:"-"`
}

// Failed returns the number of lookups that did not yield a duration.
func (r EnrichReport) Failed() int {
	n := 0
	for _, c := range r.Failures {
		n += c
	}
	return n
}

// Sample picks up to n random rows whose channel is known, at most one per
// video id. Rows of deleted or private videos carry the Unknown channel and
// cannot be looked up.
func Sample(rows []model.ViewingRow, n int, rng *rand.Rand) []model.ViewingRow {
	available := make([]model.ViewingRow, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		if row.Channel != model.Unknown && !seen[row.VideoID] {
			seen[row.VideoID] = true
			available = append(available, row)
		}
	}
	if n <= 0 || len(available) == 0 {
		return nil
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	rng.Shuffle(len(available), func(i, j int) {
		available[i], available[j] = available[j], available[i]
	})
	return available[:min(n, len(available))]
}

// Enrich looks up the duration of every sampled row, one at a time, and
// records each hit in tracker. Failures are counted per kind and skipped,
// except fatal ones (an exhausted quota, or a source that ran out of input)
// which stop the run. Cancelling ctx stops the run as well; durations
// recorded up to that point stay in tracker.
func Enrich(ctx context.Context, sample []model.ViewingRow, src DurationSource, tracker *duration.Tracker, opts EnrichOptions) EnrichReport {
	report := EnrichReport{
		Sampled:  len(sample),
		Failures: make(map[youtube.FailureKind]int),
	}
	log := zap.L().With(zap.Int("sample", len(sample)))

	limit := rate.Inf
	if opts.Interval > 0 {
		limit = rate.Every(opts.Interval)
	}
	limiter := rate.NewLimiter(limit, 1)

	for i, row := range sample {
		if err := limiter.Wait(ctx); err != nil {
			report.Interrupted = true
			break
		}

		report.Attempted++
		seconds, err := lookup(ctx, src, row.VideoID, opts.CallTimeout)
		if err != nil {
			if ctx.Err() != nil {
				report.Interrupted = true
				break
			}
			kind := youtube.KindOf(err)
			if errors.Is(err, ErrSourceExhausted) {
				kind = youtube.NotFound
			}
			report.Failures[kind]++
			if youtube.IsFatal(err) || errors.Is(err, ErrSourceExhausted) {
				report.Aborted = true
				report.Err = err
				log.Error("pipeline: enrichment aborted",
					zap.String("video_id", row.VideoID),
					zap.Int("attempted", report.Attempted),
					zap.Error(err),
				)
				break
			}
			log.Debug("pipeline: duration not found",
				zap.String("video_id", row.VideoID),
				zap.String("kind", string(kind)),
				zap.Error(err),
			)
		} else if known := tracker.Len(); !tracker.Record(row.VideoID, row.Title, seconds) {
			report.Failures[youtube.NotFound]++
		} else if tracker.Len() > known {
			// a repeated id only overwrites, so count new ids alone
			report.Enriched++
			if tracker.Len()%averageLogEvery == 0 {
				log.Info("pipeline: current average",
					zap.Int("durations", tracker.Len()),
					zap.String("average", duration.Clock(int(tracker.Average()))),
				)
			}
		}

		if (i+1)%progressLogEvery == 0 {
			log.Info("pipeline: enrichment progress",
				zap.Int("processed", i+1),
				zap.Int("enriched", report.Enriched),
			)
		}
	}

	if report.Interrupted {
		log.Warn("pipeline: enrichment interrupted",
			zap.Int("attempted", report.Attempted),
			zap.Int("enriched", report.Enriched),
		)
	}
	log.Info("pipeline: enrichment complete",
		zap.Int("attempted", report.Attempted),
		zap.Int("enriched", report.Enriched),
		zap.Int("failed", report.Failed()),
	)
	return report
}

func lookup(ctx context.Context, src DurationSource, videoID string, timeout time.Duration) (int, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return src.Duration(ctx, videoID)
}
