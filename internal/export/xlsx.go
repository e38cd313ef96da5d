package export

import (
	"context"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Sheet names of history.xlsx.
const (
	SheetHistory     = "History"
	SheetDurations   = "Durations"
	SheetProgression = "Progression"
)

// writeXLSXFile writes history.xlsx with one sheet per table. Numeric
// columns are stored as numbers.
func writeXLSXFile(ctx context.Context, dir string, b *Bundle) ([]string, error) {
	f := xlsx.NewFile()
	withDur := len(b.Durations) > 0

	history, err := f.AddSheet(SheetHistory)
	if err != nil {
		return nil, eris.Wrap(err, "export: add history sheet")
	}
	addRow(history, historyHeader(b.Catalog, withDur))
	for i, r := range b.Rows {
		if i%1000 == 0 && ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "export: xlsx cancelled")
		}
		addRow(history, historyRecord(b.Catalog, r, b.Durations, withDur))
	}

	if withDur {
		sheet, err := f.AddSheet(SheetDurations)
		if err != nil {
			return nil, eris.Wrap(err, "export: add durations sheet")
		}
		addRow(sheet, durationsHeader)
		first := firstRows(b.Rows)
		for _, id := range durationIDs(b.Rows, b.Durations) {
			r, ok := first[id]
			if !ok {
				r.VideoID = id
			}
			addRow(sheet, durationsRecord(r, b.Durations[id]))
		}

		sheet, err = f.AddSheet(SheetProgression)
		if err != nil {
			return nil, eris.Wrap(err, "export: add progression sheet")
		}
		addRow(sheet, progressionHeader)
		for _, s := range b.Snapshots {
			addRow(sheet, progressionRecord(s))
		}
	}

	p := outPath(dir, HistoryXLSX)
	if err := f.Save(p); err != nil {
		return nil, eris.Wrapf(err, "export: save %s", p)
	}
	return []string{p}, nil
}

// addRow appends values to sheet, storing integers as numeric cells.
// Values with a leading zero stay text so ids keep their digits.
func addRow(sheet *xlsx.Sheet, values []string) {
	row := sheet.AddRow()
	for _, v := range values {
		cell := row.AddCell()
		if isInteger(v) {
			n, _ := strconv.Atoi(v)
			cell.SetInt(n)
			continue
		}
		cell.SetString(v)
	}
}

func isInteger(v string) bool {
	if v == "" || len(v) > 15 || (len(v) > 1 && v[0] == '0') {
		return false
	}
	_, err := strconv.Atoi(v)
	return err == nil
}
