package export

import (
	"context"
	"encoding/csv"
	"os"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// writeCSVFiles writes the history table, the measured durations and the
// average progression. Files carry a UTF-8 byte order mark so spreadsheet
// applications detect the encoding of non-ASCII titles.
func writeCSVFiles(ctx context.Context, dir string, b *Bundle) ([]string, error) {
	withDur := len(b.Durations) > 0
	history := make([][]string, 0, len(b.Rows)+1)
	history = append(history, historyHeader(b.Catalog, withDur))
	for _, r := range b.Rows {
		history = append(history, historyRecord(b.Catalog, r, b.Durations, withDur))
	}
	paths := []string{outPath(dir, HistoryCSV)}
	if err := writeCSV(ctx, paths[0], history); err != nil {
		return nil, err
	}

	if !withDur {
		return paths, nil
	}

	first := firstRows(b.Rows)
	durs := [][]string{durationsHeader}
	for _, id := range durationIDs(b.Rows, b.Durations) {
		r, ok := first[id]
		if !ok {
			r.VideoID = id
		}
		durs = append(durs, durationsRecord(r, b.Durations[id]))
	}
	p := outPath(dir, DurationsCSV)
	if err := writeCSV(ctx, p, durs); err != nil {
		return nil, err
	}
	paths = append(paths, p)

	prog := [][]string{progressionHeader}
	for _, s := range b.Snapshots {
		prog = append(prog, progressionRecord(s))
	}
	p = outPath(dir, ProgressionCSV)
	if err := writeCSV(ctx, p, prog); err != nil {
		return nil, err
	}
	return append(paths, p), nil
}

// writeCSV writes records to a new BOM-prefixed UTF-8 file at path.
func writeCSV(ctx context.Context, path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close()

	bw := transform.NewWriter(f, unicode.UTF8BOM.NewEncoder())
	w := csv.NewWriter(bw)
	for i, rec := range records {
		if i%1000 == 0 && ctx.Err() != nil {
			return eris.Wrap(ctx.Err(), "export: csv cancelled")
		}
		if err := w.Write(rec); err != nil {
			return eris.Wrapf(err, "export: write row %d of %s", i, path)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrapf(err, "export: flush %s", path)
	}
	if err := bw.Close(); err != nil {
		return eris.Wrapf(err, "export: close encoder for %s", path)
	}
	return eris.Wrapf(f.Close(), "export: close %s", path)
}
