package export

import (
	"math"
	"strconv"
	"time"

	"github.com/sells-group/watchstats/internal/duration"
	"github.com/sells-group/watchstats/internal/locale"
	"github.com/sells-group/watchstats/internal/model"
)

// historyHeader returns the history column headers. Duration columns are
// only present when at least one duration is known.
func historyHeader(c *locale.Catalog, withDurations bool) []string {
	cols := c.Columns
	h := []string{
		cols.VideoID,
		cols.Title,
		cols.Channel,
		cols.URL,
		cols.Date,
		cols.Time,
		cols.YearMonth,
		cols.DayOfWeek,
		cols.Hour,
		cols.Source,
		cols.DateTimeUTC,
	}
	if withDurations {
		h = append(h, cols.DurationSeconds, cols.DurationFormatted, cols.DurationMinutes)
	}
	return h
}

// historyRecord returns the cells of one history row, matching historyHeader.
func historyRecord(c *locale.Catalog, r model.ViewingRow, durations map[string]int, withDurations bool) []string {
	ts := r.Timestamp.UTC()
	rec := []string{
		r.VideoID,
		r.Title,
		r.Channel,
		r.URL,
		ts.Format(time.DateOnly),
		ts.Format(time.TimeOnly),
		ts.Format("2006-01"),
		c.Weekday(ts.Weekday()),
		strconv.Itoa(r.Hour),
		string(r.Source),
		ts.Format(time.RFC3339),
	}
	if withDurations {
		if sec, ok := durations[r.VideoID]; ok {
			rec = append(rec,
				strconv.Itoa(sec),
				c.Duration(float64(sec)),
				strconv.FormatFloat(minutes(sec), 'f', 1, 64),
			)
		} else {
			rec = append(rec, "", c.Unknown, "")
		}
	}
	return rec
}

var durationsHeader = []string{
	"video_id", "title", "channel", "url",
	"duration_seconds", "duration_formatted", "timestamp", "source",
}

func durationsRecord(r model.ViewingRow, sec int) []string {
	return []string{
		r.VideoID,
		r.Title,
		r.Channel,
		r.URL,
		strconv.Itoa(sec),
		duration.Clock(sec),
		r.Timestamp.UTC().Format(time.RFC3339),
		string(r.Source),
	}
}

var progressionHeader = []string{
	"video_count", "video_id", "average_duration_seconds", "average_duration_minutes",
	"average_duration_formatted", "total_duration_seconds", "current_video_duration",
	"current_video_title",
}

func progressionRecord(s model.Snapshot) []string {
	return []string{
		strconv.Itoa(s.VideoCount),
		s.VideoID,
		strconv.FormatFloat(s.AverageSeconds, 'f', -1, 64),
		strconv.FormatFloat(s.AverageMinutes, 'f', 1, 64),
		s.AverageFormatted,
		strconv.Itoa(s.TotalSeconds),
		strconv.Itoa(s.VideoSeconds),
		s.VideoTitle,
	}
}

func minutes(sec int) float64 {
	return math.Round(float64(sec)/60*10) / 10
}
