// Package stats computes descriptive statistics over the viewing table.
package stats

import (
	"cmp"
	"slices"
	"time"

	"github.com/sells-group/watchstats/internal/model"
)

// DefaultTopN is the number of channels reported by Compute.
const DefaultTopN = 10

// ChannelCount is the number of viewings of one channel.
type ChannelCount struct {
	Channel string `json:"channel"`
	Count   int    `json:"count"`
}

// Summary describes the viewing table.
type Summary struct {
	TotalVideos    int                     `json:"total_videos"`
	StartDate      string                  `json:"start_date,omitempty"`
	EndDate        string                  `json:"end_date,omitempty"`
	TotalDays      int                     `json:"total_days"`
	AveragePerDay  float64                 `json:"avg_videos_per_day"`
	UniqueChannels int                     `json:"unique_channels"`
	TopChannels    []ChannelCount          `json:"top_channels"`
	BySource       map[model.SourceTag]int `json:"by_source"`
	ByHour         [24]int                 `json:"by_hour"`
	// ByWeekday is indexed Monday first.
	ByWeekday [7]int      `json:"by_weekday"`
	ByYear    map[int]int `json:"by_year"`
}

// WeekdayIndex maps a weekday to its Monday-first position.
func WeekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// Compute summarizes rows. TotalDays is the number of whole days between the
// first and last viewing; AveragePerDay is zero when that span is under a day.
func Compute(rows []model.ViewingRow, topN int) Summary {
	s := Summary{
		TotalVideos: len(rows),
		BySource:    make(map[model.SourceTag]int),
		ByYear:      make(map[int]int),
	}
	if len(rows) == 0 {
		return s
	}

	channels := make(map[string]int)
	first, last := rows[0].Timestamp, rows[0].Timestamp
	for _, row := range rows {
		channels[row.Channel]++
		s.BySource[row.Source]++
		s.ByHour[row.Hour]++
		s.ByWeekday[WeekdayIndex(row.Timestamp.UTC().Weekday())]++
		s.ByYear[row.Year]++
		if row.Timestamp.Before(first) {
			first = row.Timestamp
		}
		if row.Timestamp.After(last) {
			last = row.Timestamp
		}
	}

	s.StartDate = first.UTC().Format(time.DateOnly)
	s.EndDate = last.UTC().Format(time.DateOnly)
	s.TotalDays = int(last.Sub(first) / (24 * time.Hour))
	if s.TotalDays > 0 {
		s.AveragePerDay = float64(s.TotalVideos) / float64(s.TotalDays)
	}
	s.UniqueChannels = len(channels)
	s.TopChannels = TopChannels(channels, topN)
	return s
}

// TopChannels returns the n most watched channels, most viewings first.
// Ties are broken by channel name.
func TopChannels(counts map[string]int, n int) []ChannelCount {
	out := make([]ChannelCount, 0, len(counts))
	for ch, c := range counts {
		out = append(out, ChannelCount{Channel: ch, Count: c})
	}
	slices.SortFunc(out, func(a, b ChannelCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Channel, b.Channel)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// PeakHour returns the hour with the most viewings, the earliest on ties.
func (s Summary) PeakHour() int {
	peak := 0
	for h, c := range s.ByHour {
		if c > s.ByHour[peak] {
			peak = h
		}
	}
	return peak
}
