package duration

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/watchstats/internal/model"
)

func TestTracker_Progression(t *testing.T) {
	tr := NewTracker()
	require.True(t, tr.Record("aaaaaaaaaaa", "first", 120))
	require.True(t, tr.Record("bbbbbbbbbbb", "second", 180))
	require.True(t, tr.Record("ccccccccccc", "third", 300))

	assert.Equal(t, []model.ProgressPoint{
		{Count: 1, Mean: 120},
		{Count: 2, Mean: 150},
		{Count: 3, Mean: 200},
	}, tr.Progression())
	assert.Equal(t, 600, tr.Total())
	assert.InDelta(t, 200.0, tr.Average(), 0)
}

func TestTracker_RejectsNonPositive(t *testing.T) {
	tr := NewTracker()
	assert.False(t, tr.Record("aaaaaaaaaaa", "zero", 0))
	assert.False(t, tr.Record("aaaaaaaaaaa", "negative", -5))

	assert.Equal(t, 0, tr.Len())
	assert.Empty(t, tr.Progression())
	assert.Empty(t, tr.Snapshots())
	assert.Zero(t, tr.Average())
}

func TestTracker_OverwriteKeepsOnePointPerID(t *testing.T) {
	tr := NewTracker()
	tr.Record("aaaaaaaaaaa", "a", 100)
	tr.Record("bbbbbbbbbbb", "b", 200)
	tr.Record("aaaaaaaaaaa", "a again", 400)

	assert.Equal(t, 2, tr.Len())
	assert.Len(t, tr.Progression(), 2)
	assert.Len(t, tr.Snapshots(), 2)
	assert.Equal(t, 600, tr.Total())
	assert.InDelta(t, 300.0, tr.Average(), 0)

	s, ok := tr.Lookup("aaaaaaaaaaa")
	require.True(t, ok)
	assert.Equal(t, 400, s)
}

func TestTracker_MeanMatchesMapExactly(t *testing.T) {
	tr := NewTracker()
	values := []int{7, 13, 1, 999, 42, 3, 3600, 61, 17, 5}
	for i, v := range values {
		tr.Record(fmt.Sprintf("id%09d", i), "", v)

		durations := tr.Durations()
		sum := 0
		for _, d := range durations {
			sum += d
		}
		want := float64(sum) / float64(len(durations))

		prog := tr.Progression()
		assert.Len(t, prog, i+1)
		assert.Equal(t, len(durations), len(prog))
		assert.Equal(t, want, prog[len(prog)-1].Mean)
	}
}

func TestTracker_Snapshots(t *testing.T) {
	tr := NewTracker()
	long := strings.Repeat("é", 80)
	tr.Record("aaaaaaaaaaa", long, 125)
	tr.Record("bbbbbbbbbbb", "short", 200)

	snaps := tr.Snapshots()
	require.Len(t, snaps, 2)

	assert.Equal(t, 1, snaps[0].VideoCount)
	assert.Equal(t, "aaaaaaaaaaa", snaps[0].VideoID)
	assert.Equal(t, 125, snaps[0].VideoSeconds)
	assert.Equal(t, 125, snaps[0].TotalSeconds)
	assert.Equal(t, "2:05", snaps[0].AverageFormatted)
	assert.InDelta(t, 2.1, snaps[0].AverageMinutes, 1e-9)
	assert.Equal(t, 50, len([]rune(snaps[0].VideoTitle)))

	assert.Equal(t, 2, snaps[1].VideoCount)
	assert.Equal(t, 325, snaps[1].TotalSeconds)
	assert.InDelta(t, 162.5, snaps[1].AverageSeconds, 0)
	assert.Equal(t, "2:42", snaps[1].AverageFormatted)
	assert.Equal(t, "short", snaps[1].VideoTitle)
}

func TestTracker_DurationsIsCopy(t *testing.T) {
	tr := NewTracker()
	tr.Record("aaaaaaaaaaa", "", 10)
	m := tr.Durations()
	m["aaaaaaaaaaa"] = 99
	s, _ := tr.Lookup("aaaaaaaaaaa")
	assert.Equal(t, 10, s)
}
