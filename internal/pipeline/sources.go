package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/watchstats/internal/duration"
	"github.com/sells-group/watchstats/internal/resilience"
	"github.com/sells-group/watchstats/internal/videoid"
	"github.com/sells-group/watchstats/pkg/youtube"
)

// ErrSourceExhausted is returned by a DurationSource that cannot answer any
// further lookups, such as manual entry after its input closed.
var ErrSourceExhausted = eris.New("pipeline: duration source exhausted")

type retryingSource struct {
	src    DurationSource
	policy resilience.Policy
}

// Retrying wraps src so that transient failures (HTTP 429 and 5xx, dropped
// connections) are retried with backoff. Other failures return at once.
func Retrying(src DurationSource, policy resilience.Policy) DurationSource {
	if policy.Before == nil {
		policy.Before = resilience.LogRetries("youtube.duration")
	}
	return &retryingSource{src: src, policy: policy}
}

func (r *retryingSource) Duration(ctx context.Context, videoID string) (int, error) {
	return resilience.Call(ctx, r.policy, func(ctx context.Context) (int, error) {
		return r.src.Duration(ctx, videoID)
	})
}

// ManualSource asks the user for each duration. Answers are read line by line
// in MM:SS or H:MM:SS form; a blank line skips the video.
type ManualSource struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewManualSource creates a ManualSource reading answers from in and writing
// prompts to out.
func NewManualSource(in io.Reader, out io.Writer) *ManualSource {
	return &ManualSource{in: bufio.NewScanner(in), out: out}
}

// Duration prompts for videoID until a valid answer or a blank line is read.
func (m *ManualSource) Duration(ctx context.Context, videoID string) (int, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		fmt.Fprintf(m.out, "%s  duration (MM:SS or H:MM:SS, blank to skip): ", videoid.WatchURL(videoID))
		if !m.in.Scan() {
			if err := m.in.Err(); err != nil {
				return 0, eris.Wrap(err, "pipeline: read manual duration")
			}
			return 0, ErrSourceExhausted
		}

		answer := strings.TrimSpace(m.in.Text())
		if answer == "" {
			return 0, &youtube.FetchError{Kind: youtube.NotFound, VideoID: videoID, Err: eris.New("skipped")}
		}
		seconds, err := duration.ParseClock(answer)
		if err != nil || seconds <= 0 {
			fmt.Fprintf(m.out, "  unrecognized duration %q\n", answer)
			continue
		}
		return seconds, nil
	}
}
