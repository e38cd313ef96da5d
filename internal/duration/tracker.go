// Package duration tracks measured video durations and estimates total
// watch time from them.
package duration

import (
	"math"

	"github.com/sells-group/watchstats/internal/model"
)

const maxTitleRunes = 50

// Tracker accumulates durations per video id and records how the running
// mean evolves. The zero value is not usable; call NewTracker.
type Tracker struct {
	durations   map[string]int
	sum         int
	progression []model.ProgressPoint
	snapshots   []model.Snapshot
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{durations: make(map[string]int)}
}

// Record stores seconds for videoID. Non-positive durations are ignored and
// Record returns false. A new id appends one progression point and one
// snapshot; re-recording a known id replaces its value without appending.
func (t *Tracker) Record(videoID, title string, seconds int) bool {
	if seconds <= 0 {
		return false
	}

	prev, seen := t.durations[videoID]
	t.durations[videoID] = seconds
	t.sum += seconds - prev
	if seen {
		return true
	}

	mean := t.Average()
	t.progression = append(t.progression, model.ProgressPoint{
		Count: len(t.durations),
		Mean:  mean,
	})
	t.snapshots = append(t.snapshots, model.Snapshot{
		VideoCount:       len(t.durations),
		VideoID:          videoID,
		AverageSeconds:   mean,
		AverageMinutes:   math.Round(mean/60*10) / 10,
		AverageFormatted: Clock(int(mean)),
		TotalSeconds:     t.sum,
		VideoSeconds:     seconds,
		VideoTitle:       truncate(title, maxTitleRunes),
	})
	return true
}

// Average returns the arithmetic mean of all recorded durations, or 0.
func (t *Tracker) Average() float64 {
	if len(t.durations) == 0 {
		return 0
	}
	return float64(t.sum) / float64(len(t.durations))
}

// Len returns the number of videos with a recorded duration.
func (t *Tracker) Len() int {
	return len(t.durations)
}

// Total returns the sum of all recorded durations in seconds.
func (t *Tracker) Total() int {
	return t.sum
}

// Lookup returns the recorded duration of videoID.
func (t *Tracker) Lookup(videoID string) (int, bool) {
	s, ok := t.durations[videoID]
	return s, ok
}

// Durations returns a copy of the duration map.
func (t *Tracker) Durations() map[string]int {
	out := make(map[string]int, len(t.durations))
	for k, v := range t.durations {
		out[k] = v
	}
	return out
}

// Progression returns the running-mean history in recording order.
func (t *Tracker) Progression() []model.ProgressPoint {
	return append([]model.ProgressPoint(nil), t.progression...)
}

// Snapshots returns the detailed progression history in recording order.
func (t *Tracker) Snapshots() []model.Snapshot {
	return append([]model.Snapshot(nil), t.snapshots...)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
