package model

import "time"

// Unknown is the placeholder used for missing titles and deleted channels.
const Unknown = "Unknown"

// SourceTag identifies which export file a record came from.
type SourceTag string

const (
	SourceWatchHistory SourceTag = "watch_history"
	SourceMyActivity   SourceTag = "my_activity"
)

// SourceOrder is the registration order of sources. Merging iterates sources
// in this order, so it decides which duplicate survives.
var SourceOrder = []SourceTag{SourceWatchHistory, SourceMyActivity}

// Valid reports whether s is one of the known source tags.
func (s SourceTag) Valid() bool {
	return s == SourceWatchHistory || s == SourceMyActivity
}

// Subtitle is a channel descriptor attached to an export record.
type Subtitle struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// RawRecord is one entry of an export file. Optional fields are pointers so
// that an absent field can be told apart from an empty one.
type RawRecord struct {
	Header    string     `json:"header,omitempty"`
	Title     *string    `json:"title,omitempty"`
	TitleURL  *string    `json:"titleUrl,omitempty"`
	Time      *string    `json:"time,omitempty"`
	Subtitles []Subtitle `json:"subtitles,omitempty"`

	// Source is set by the loader, never by the export file.
	Source SourceTag `json:"-"`
}

// URL returns the record's titleUrl and whether the field was present.
func (r RawRecord) URL() (string, bool) {
	if r.TitleURL == nil {
		return "", false
	}
	return *r.TitleURL, true
}

// RawTime returns the record's time string and whether the field was present.
func (r RawRecord) RawTime() (string, bool) {
	if r.Time == nil {
		return "", false
	}
	return *r.Time, true
}

// TitleText returns the record title, or Unknown when the field is absent.
func (r RawRecord) TitleText() string {
	if r.Title == nil {
		return Unknown
	}
	return *r.Title
}

// Channel returns the first subtitle name, or Unknown when the channel is
// missing (deleted or private videos carry no subtitles).
func (r RawRecord) Channel() string {
	if len(r.Subtitles) == 0 || r.Subtitles[0].Name == "" {
		return Unknown
	}
	return r.Subtitles[0].Name
}

// ViewingRow is one normalized viewing event. Calendar fields are derived
// from Timestamp in UTC.
type ViewingRow struct {
	Timestamp time.Time `json:"timestamp"`
	RawTime   string    `json:"raw_time"`
	VideoID   string    `json:"video_id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Channel   string    `json:"channel"`
	Source    SourceTag `json:"source"`

	Date    string `json:"date"`
	Hour    int    `json:"hour"`
	Weekday string `json:"day_of_week"`
	Month   int    `json:"month"`
	Year    int    `json:"year"`
}

// StageResult records the counts and timing of one ingestion stage.
type StageResult struct {
	Name     string `json:"name"`
	Input    int    `json:"input"`
	Output   int    `json:"output"`
	Dropped  int    `json:"dropped"`
	Duration int64  `json:"duration_ms"`
}
