package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/sells-group/watchstats/internal/locale"
	"github.com/sells-group/watchstats/internal/model"
	"github.com/sells-group/watchstats/internal/pipeline"
	"github.com/sells-group/watchstats/internal/stats"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	noteStyle   = lipgloss.NewStyle().Italic(true).Faint(true)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// channelName shows the placeholder channel of deleted or private videos in
// the output language.
func channelName(cat *locale.Catalog, name string) string {
	if name == model.Unknown {
		return cat.Unknown
	}
	return name
}

func printTitle(w io.Writer, title string) {
	fmt.Fprintln(w, titleStyle.Render(title))
}

func printTable(w io.Writer, t *table.Table) {
	fmt.Fprintln(w, t.Render())
}

func renderStages(w io.Writer, cat *locale.Catalog, stages []model.StageResult, duplicates int) {
	t := newTable(cat.Label("stage"), cat.Label("input"), cat.Label("output"), cat.Label("dropped"), "ms")
	for _, s := range stages {
		t.Row(s.Name, cat.Int(s.Input), cat.Int(s.Output), cat.Int(s.Dropped), strconv.FormatInt(s.Duration, 10))
	}
	printTable(w, t)
	fmt.Fprintf(w, "%s: %s\n", cat.Label("duplicates"), cat.Int(duplicates))
}

func renderStats(w io.Writer, cat *locale.Catalog, s stats.Summary) {
	t := newTable(cat.Label("parameter"), cat.Label("value"))
	t.Row(cat.Label("total_videos"), cat.Int(s.TotalVideos))
	if s.TotalVideos > 0 {
		t.Row(cat.Label("period"), s.StartDate+" - "+s.EndDate)
		t.Row(cat.Label("total_days"), cat.Int(s.TotalDays))
		t.Row(cat.Label("avg_per_day"), cat.Float(s.AveragePerDay))
		t.Row(cat.Label("unique_channels"), cat.Int(s.UniqueChannels))
		t.Row(cat.Label("peak_hour"), fmt.Sprintf("%02d:00", s.PeakHour()))
	}
	for _, tag := range model.SourceOrder {
		if n, ok := s.BySource[tag]; ok {
			t.Row(cat.Label("by_source")+": "+string(tag), cat.Int(n))
		}
	}
	printTable(w, t)

	if len(s.TopChannels) > 0 {
		printTitle(w, cat.Label("top_channels"))
		ch := newTable("#", cat.Label("channel"), cat.Label("count"))
		for i, c := range s.TopChannels {
			ch.Row(strconv.Itoa(i+1), channelName(cat, c.Channel), cat.Int(c.Count))
		}
		printTable(w, ch)
	}

	if s.TotalVideos > 0 {
		printTitle(w, cat.Label("by_weekday"))
		wd := newTable(cat.Label("by_weekday"), cat.Label("count"))
		for i, n := range s.ByWeekday {
			wd.Row(cat.WeekdayAt(i), cat.Int(n))
		}
		printTable(w, wd)
	}
}

func renderDurations(w io.Writer, cat *locale.Catalog, d stats.DurationSummary) {
	if d.Count == 0 {
		return
	}
	printTitle(w, cat.Label("duration_stats"))
	t := newTable(cat.Label("parameter"), cat.Label("value"))
	t.Row(cat.Label("videos_with_duration"), cat.Int(d.Count))
	t.Row(cat.Label("total_watch_time"), cat.Duration(float64(d.TotalSeconds)))
	t.Row(cat.Label("average_duration"), cat.Duration(d.AverageSeconds))
	t.Row(cat.Label("shortest_video"), cat.Duration(float64(d.ShortestSeconds)))
	t.Row(cat.Label("longest_video"), cat.Duration(float64(d.LongestSeconds)))
	printTable(w, t)

	printTitle(w, cat.Label("distribution"))
	dist := newTable(cat.Units.Minutes, cat.Label("count"), "%")
	for _, b := range d.Buckets {
		span := fmt.Sprintf("%d-%d", b.MinMinutes, b.MaxMinutes)
		if b.MaxMinutes == 0 {
			span = fmt.Sprintf("%d+", b.MinMinutes)
		}
		dist.Row(span, cat.Int(b.Count), cat.Float(b.Percent))
	}
	printTable(w, dist)
}

func renderCoverage(w io.Writer, cat *locale.Catalog, c model.Coverage) {
	printTitle(w, cat.Label("watch_time_summary"))
	t := newTable(cat.Label("parameter"), cat.Label("value"))
	t.Row(cat.Label("videos_in_history"), cat.Int(c.TotalVideos))
	t.Row(cat.Label("videos_with_duration"), cat.Int(c.KnownVideos))
	t.Row(cat.Label("videos_without_duration"), cat.Int(c.TotalVideos-c.KnownVideos))
	t.Row(cat.Label("total_time_known"), cat.Duration(float64(c.TotalKnownSeconds)))
	t.Row(cat.Label("average_duration"), cat.Duration(c.AverageSeconds))
	t.Row(cat.Label("estimated_total_time"), cat.Duration(c.EstimatedTotalSeconds))
	t.Row(cat.Label("data_coverage"), cat.Float(c.CoveragePercent)+"%")
	printTable(w, t)
	if c.KnownVideos > 0 && c.KnownVideos < c.TotalVideos {
		fmt.Fprintln(w, noteStyle.Render(cat.Label("estimated_note")))
	}
}

func renderReport(w io.Writer, cat *locale.Catalog, r pipeline.EnrichReport) {
	t := newTable(cat.Label("parameter"), cat.Label("value"))
	t.Row(cat.Label("sampled"), cat.Int(r.Sampled))
	t.Row(cat.Label("attempted"), cat.Int(r.Attempted))
	t.Row(cat.Label("enriched"), cat.Int(r.Enriched))
	t.Row(cat.Label("failed"), cat.Int(r.Failed()))
	for _, kind := range slices.Sorted(maps.Keys(r.Failures)) {
		t.Row("  "+string(kind), cat.Int(r.Failures[kind]))
	}
	if r.Aborted {
		reason := ""
		if r.Err != nil {
			reason = r.Err.Error()
		}
		t.Row(cat.Label("aborted"), reason)
	}
	printTable(w, t)
}
