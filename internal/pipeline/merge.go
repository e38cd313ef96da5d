package pipeline

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/watchstats/internal/model"
	"github.com/sells-group/watchstats/internal/takeout"
	"github.com/sells-group/watchstats/internal/videoid"
)

const (
	// MusicHeader marks export records that belong to the music service.
	MusicHeader = "YouTube Music"
	// MusicDomain is the host of music-service URLs.
	MusicDomain = "music.youtube.com"
	// WatchedPrefix starts the title of every my_activity viewing entry.
	WatchedPrefix = "Watched"
)

// MergeResult is the output of Merge.
type MergeResult struct {
	Records []model.RawRecord
	// Input is the number of records across all loaded sources.
	Input int
	// Excluded counts records dropped by the exclusion rules.
	Excluded int
	// Incomplete counts records without a URL, a time or an extractable id.
	Incomplete int
	// Duplicates counts records discarded because their key was already seen.
	Duplicates int
	// Merged is false when a single source was passed through unmerged.
	Merged bool
}

// Excluded reports whether rec is dropped by the exclusion rules. The rules
// are checked in order: music header, music URL, then non-viewing entries of
// the my_activity source.
func Excluded(rec model.RawRecord) bool {
	if rec.Header == MusicHeader {
		return true
	}
	if url, ok := rec.URL(); ok && strings.Contains(url, MusicDomain) {
		return true
	}
	if rec.Source == model.SourceMyActivity {
		title := ""
		if rec.Title != nil {
			title = *rec.Title
		}
		if !strings.HasPrefix(title, WatchedPrefix) {
			return true
		}
	}
	return false
}

// Key returns the uniqueness key of rec, "<video id>_<raw time>". The raw
// time string is used as-is, so equal instants written differently do not
// collide. ok is false when rec lacks a URL, a time or an extractable id.
func Key(rec model.RawRecord) (key string, ok bool) {
	url, hasURL := rec.URL()
	raw, hasTime := rec.RawTime()
	if !hasURL || !hasTime {
		return "", false
	}
	id, found := videoid.Extract(url)
	if !found {
		return "", false
	}
	return id + "_" + raw, true
}

// Merge combines the loaded sources into one sequence of unique records.
// Sources are visited in registration order and records in file order; the
// first record of a key wins and later ones are counted as duplicates.
//
// With a single loaded source no merging happens: its records pass through
// unfiltered and Project applies the same rules.
func Merge(sources *takeout.Sources) MergeResult {
	loaded := sources.Loaded()
	res := MergeResult{Input: sources.Total()}

	if len(loaded) == 1 {
		res.Records = append([]model.RawRecord(nil), sources.Records(loaded[0])...)
		zap.L().Info("pipeline: single source, merge skipped",
			zap.String("source", string(loaded[0])),
			zap.Int("records", len(res.Records)),
		)
		return res
	}

	res.Merged = true
	seen := make(map[string]struct{}, res.Input)
	for _, tag := range loaded {
		for _, rec := range sources.Records(tag) {
			if Excluded(rec) {
				res.Excluded++
				continue
			}
			key, ok := Key(rec)
			if !ok {
				res.Incomplete++
				continue
			}
			if _, dup := seen[key]; dup {
				res.Duplicates++
				continue
			}
			seen[key] = struct{}{}
			res.Records = append(res.Records, rec)
		}
	}

	zap.L().Info("pipeline: sources merged",
		zap.Int("input", res.Input),
		zap.Int("unique", len(res.Records)),
		zap.Int("duplicates", res.Duplicates),
		zap.Int("excluded", res.Excluded),
		zap.Int("incomplete", res.Incomplete),
	)
	return res
}
