// Package export writes the viewing table, the measured durations and the
// summary figures to files. Every file is written fresh; nothing is read back.
package export

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/watchstats/internal/locale"
	"github.com/sells-group/watchstats/internal/model"
	"github.com/sells-group/watchstats/internal/stats"
)

// Output file names.
const (
	HistoryCSV      = "history.csv"
	HistoryXLSX     = "history.xlsx"
	DurationsCSV    = "durations.csv"
	ProgressionCSV  = "average_progression.csv"
	ProgressionJSON = "average_progression.json"
	SummaryJSON     = "summary.json"
	HistoryDB       = "history.db"
)

// Format names accepted by WriteAll.
const (
	FormatCSV    = "csv"
	FormatXLSX   = "xlsx"
	FormatJSON   = "json"
	FormatSQLite = "sqlite"
)

// Bundle is everything an export run writes.
type Bundle struct {
	Rows        []model.ViewingRow
	Stages      []model.StageResult
	Duplicates  int
	Durations   map[string]int
	Progression []model.ProgressPoint
	Snapshots   []model.Snapshot
	Coverage    model.Coverage
	Summary     stats.Summary
	DurationSum stats.DurationSummary
	Catalog     *locale.Catalog
	GeneratedAt time.Time
}

type writerFunc func(ctx context.Context, dir string, b *Bundle) ([]string, error)

var writers = map[string]writerFunc{
	FormatCSV:    writeCSVFiles,
	FormatXLSX:   writeXLSXFile,
	FormatJSON:   writeJSONFiles,
	FormatSQLite: writeSQLiteFile,
}

// WriteAll writes the requested formats into dir concurrently and returns the
// paths written, sorted. Formats are independent: one failing does not stop
// the others from finishing, and the first error is returned.
func WriteAll(ctx context.Context, dir string, formats []string, b *Bundle) ([]string, error) {
	if b.Catalog == nil {
		return nil, eris.New("export: bundle has no catalog")
	}
	for _, f := range formats {
		if _, ok := writers[f]; !ok {
			return nil, eris.Errorf("export: unknown format %q", f)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "export: create dir %s", dir)
	}

	var (
		mu      sync.Mutex
		written []string
		g       errgroup.Group
	)
	for _, format := range formats {
		write := writers[format]
		g.Go(func() error {
			start := time.Now()
			paths, err := write(ctx, dir, b)
			if err != nil {
				zap.L().Error("export: format failed", zap.String("format", format), zap.Error(err))
				return err
			}
			zap.L().Info("export: format written",
				zap.String("format", format),
				zap.Strings("files", paths),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			)
			mu.Lock()
			written = append(written, paths...)
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	slices.Sort(written)
	return written, err
}

// firstRows maps each video id to its first row in table order.
func firstRows(rows []model.ViewingRow) map[string]model.ViewingRow {
	out := make(map[string]model.ViewingRow, len(rows))
	for _, r := range rows {
		if _, ok := out[r.VideoID]; !ok {
			out[r.VideoID] = r
		}
	}
	return out
}

// durationIDs lists the ids of durations in table order. Ids missing from
// the table come last, sorted.
func durationIDs(rows []model.ViewingRow, durations map[string]int) []string {
	ids := make([]string, 0, len(durations))
	seen := make(map[string]bool, len(durations))
	for _, r := range rows {
		if _, ok := durations[r.VideoID]; ok && !seen[r.VideoID] {
			seen[r.VideoID] = true
			ids = append(ids, r.VideoID)
		}
	}
	var rest []string
	for id := range durations {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	slices.Sort(rest)
	return append(ids, rest...)
}

func outPath(dir, name string) string {
	return filepath.Join(dir, name)
}
