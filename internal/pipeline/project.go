package pipeline

import (
	"time"

	"github.com/sells-group/watchstats/internal/model"
	"github.com/sells-group/watchstats/internal/videoid"
)

// DateLayout is the format of ViewingRow.Date.
const DateLayout = "2006-01-02"

// timeLayouts are tried in order. Layouts without a zone are read as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
}

// ParseTime parses an export timestamp into a UTC instant.
func ParseTime(raw string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Project converts records into viewing rows, preserving input order.
// Records that are excluded, incomplete or carry an unparseable timestamp are
// skipped silently.
func Project(records []model.RawRecord) []model.ViewingRow {
	rows := make([]model.ViewingRow, 0, len(records))
	for _, rec := range records {
		if row, ok := projectRecord(rec); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

func projectRecord(rec model.RawRecord) (model.ViewingRow, bool) {
	if Excluded(rec) {
		return model.ViewingRow{}, false
	}
	url, hasURL := rec.URL()
	raw, hasTime := rec.RawTime()
	if !hasURL || !hasTime {
		return model.ViewingRow{}, false
	}
	id, ok := videoid.Extract(url)
	if !ok {
		return model.ViewingRow{}, false
	}
	ts, ok := ParseTime(raw)
	if !ok {
		return model.ViewingRow{}, false
	}

	row := model.ViewingRow{
		Timestamp: ts,
		RawTime:   raw,
		VideoID:   id,
		Title:     rec.TitleText(),
		URL:       url,
		Channel:   rec.Channel(),
		Source:    rec.Source,
	}
	Derive(&row)
	return row, true
}

// Derive fills the calendar fields of row from its timestamp, in UTC.
func Derive(row *model.ViewingRow) {
	ts := row.Timestamp.UTC()
	row.Date = ts.Format(DateLayout)
	row.Hour = ts.Hour()
	row.Weekday = ts.Weekday().String()
	row.Month = int(ts.Month())
	row.Year = ts.Year()
}
