package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/watchstats/internal/model"
	"github.com/sells-group/watchstats/internal/takeout"
)

const (
	idA = "dQw4w9WgXcQ"
	idB = "9bZkp7q19f0"
	idC = "kJQP7kiw5Fk"
	t1  = "2024-01-15T10:30:00.123Z"
	t2  = "2024-01-16T22:05:10Z"
)

func sources(history, activity []model.RawRecord) *takeout.Sources {
	s := takeout.NewSources()
	if history != nil {
		s.Set(model.SourceWatchHistory, history)
	}
	if activity != nil {
		s.Set(model.SourceMyActivity, activity)
	}
	return s
}

func TestExcluded(t *testing.T) {
	tests := []struct {
		name string
		rec  model.RawRecord
		want bool
	}{
		{"plain watch", watchRec(idA, t1), false},
		{"music header", watchRec(idA, t1, withHeader(MusicHeader)), true},
		{"music url", watchRec(idA, t1, withURL("https://music.youtube.com/watch?v="+idA)), true},
		{"activity watched", activityRec(idA, t1, withTitle("Watched something")), false},
		{"activity liked", activityRec(idA, t1, withTitle("Liked something")), true},
		{"activity without title", activityRec(idA, t1, func(r *model.RawRecord) { r.Title = nil }), true},
		{"history title not checked", watchRec(idA, t1, withTitle("Liked something")), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Excluded(tt.rec))
		})
	}
}

func TestKey(t *testing.T) {
	key, ok := Key(watchRec(idA, t1))
	require.True(t, ok)
	assert.Equal(t, idA+"_"+t1, key)

	_, ok = Key(watchRec(idA, t1, withoutURL()))
	assert.False(t, ok)
	_, ok = Key(watchRec(idA, t1, withoutTime()))
	assert.False(t, ok)
	_, ok = Key(watchRec(idA, t1, withURL("https://example.com/video")))
	assert.False(t, ok)
}

func TestKey_RawTimeIsLiteral(t *testing.T) {
	a, _ := Key(watchRec(idA, "2024-01-15T10:30:00Z"))
	b, _ := Key(watchRec(idA, "2024-01-15T10:30:00.000Z"))
	assert.NotEqual(t, a, b)
}

func TestMerge_SameKeyAcrossSources(t *testing.T) {
	src := sources(
		[]model.RawRecord{watchRec(idA, t1)},
		[]model.RawRecord{activityRec(idA, t1)},
	)

	res := Merge(src)

	require.Len(t, res.Records, 1)
	assert.Equal(t, 1, res.Duplicates)
	assert.True(t, res.Merged)
	assert.Equal(t, model.SourceWatchHistory, res.Records[0].Source, "first registered source wins")
}

func TestMerge_FirstSeenWinsWithinSource(t *testing.T) {
	first := watchRec(idA, t1, withTitle("first"))
	second := watchRec(idA, t1, withTitle("second"))
	src := sources([]model.RawRecord{first, second}, []model.RawRecord{activityRec(idB, t2)})

	res := Merge(src)

	require.Len(t, res.Records, 2)
	assert.Equal(t, "first", *res.Records[0].Title)
	assert.Equal(t, 1, res.Duplicates)
}

func TestMerge_OrderAndCounts(t *testing.T) {
	history := []model.RawRecord{
		watchRec(idA, t1),
		watchRec(idB, t1, withHeader(MusicHeader)),
		watchRec(idC, t1, withoutURL()),
		watchRec(idC, t2),
		watchRec(idA, t1),
	}
	activity := []model.RawRecord{
		activityRec(idB, t2),
		activityRec(idC, t2),
		activityRec(idA, t2, withTitle("Searched for cats")),
		activityRec(idA, t2, withURL("https://music.youtube.com/watch?v="+idA)),
		activityRec(idB, t2, withURL("https://example.com/x")),
	}

	res := Merge(sources(history, activity))

	ids := make([]string, 0, len(res.Records))
	for _, r := range res.Records {
		key, _ := Key(r)
		ids = append(ids, key)
	}
	assert.Equal(t, []string{idA + "_" + t1, idC + "_" + t2, idB + "_" + t2}, ids)
	assert.Equal(t, 10, res.Input)
	assert.Equal(t, 3, res.Excluded)
	assert.Equal(t, 2, res.Incomplete)
	assert.Equal(t, 2, res.Duplicates)

	// Every record passing the filters with an id is either kept or a duplicate.
	assert.Equal(t, res.Input-res.Excluded-res.Incomplete, len(res.Records)+res.Duplicates)
}

func TestMerge_SingleSourcePassesThrough(t *testing.T) {
	history := []model.RawRecord{
		watchRec(idA, t1),
		watchRec(idA, t1),
		watchRec(idB, t1, withHeader(MusicHeader)),
	}

	res := Merge(sources(history, nil))

	assert.False(t, res.Merged)
	assert.Len(t, res.Records, 3)
	assert.Zero(t, res.Duplicates)

	rows := Project(res.Records)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, idA, row.VideoID)
	}
}

func TestMerge_SingleActivitySourceStillFiltered(t *testing.T) {
	activity := []model.RawRecord{
		activityRec(idA, t1),
		activityRec(idB, t1, withTitle("Liked a video")),
	}

	rows := Project(Merge(sources(nil, activity)).Records)

	require.Len(t, rows, 1)
	assert.Equal(t, idA, rows[0].VideoID)
	assert.Equal(t, model.SourceMyActivity, rows[0].Source)
}

func TestMerge_NothingLoaded(t *testing.T) {
	res := Merge(takeout.NewSources())
	assert.Empty(t, res.Records)
	assert.Zero(t, res.Input)
}
