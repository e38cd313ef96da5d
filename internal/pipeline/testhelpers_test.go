package pipeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/watchstats/internal/duration"
	"github.com/sells-group/watchstats/internal/model"
)

func strPtr(s string) *string { return &s }

type recOpt func(*model.RawRecord)

func withHeader(h string) recOpt {
	return func(r *model.RawRecord) { r.Header = h }
}

func withTitle(t string) recOpt {
	return func(r *model.RawRecord) { r.Title = strPtr(t) }
}

func withChannel(c string) recOpt {
	return func(r *model.RawRecord) { r.Subtitles = []model.Subtitle{{Name: c}} }
}

func withURL(u string) recOpt {
	return func(r *model.RawRecord) { r.TitleURL = strPtr(u) }
}

func withoutURL() recOpt {
	return func(r *model.RawRecord) { r.TitleURL = nil }
}

func withoutTime() recOpt {
	return func(r *model.RawRecord) { r.Time = nil }
}

// watchRec builds a watch_history record for id watched at rawTime.
func watchRec(id, rawTime string, opts ...recOpt) model.RawRecord {
	rec := model.RawRecord{
		Header:    "YouTube",
		Title:     strPtr("Watched video " + id),
		TitleURL:  strPtr("https://www.youtube.com/watch?v=" + id),
		Time:      strPtr(rawTime),
		Subtitles: []model.Subtitle{{Name: "Channel " + id[:3]}},
		Source:    model.SourceWatchHistory,
	}
	for _, o := range opts {
		o(&rec)
	}
	return rec
}

// activityRec builds a my_activity record; its title starts with "Watched"
// unless overridden.
func activityRec(id, rawTime string, opts ...recOpt) model.RawRecord {
	rec := watchRec(id, rawTime, opts...)
	rec.Source = model.SourceMyActivity
	return rec
}

// newTrackerWith returns a tracker holding n videos of the given length.
func newTrackerWith(t *testing.T, n, seconds int) *duration.Tracker {
	t.Helper()
	tr := duration.NewTracker()
	for i := range n {
		require.True(t, tr.Record(fmt.Sprintf("vid%08d", i), "title", seconds))
	}
	return tr
}
