package export

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE exports (
	id                       TEXT PRIMARY KEY,
	created_at               DATETIME NOT NULL,
	language                 TEXT NOT NULL,
	total_videos             INTEGER NOT NULL,
	known_videos             INTEGER NOT NULL,
	total_known_seconds      INTEGER NOT NULL,
	average_seconds          REAL NOT NULL,
	estimated_total_seconds  REAL NOT NULL,
	coverage_percent         REAL NOT NULL
);

CREATE TABLE viewings (
	export_id  TEXT NOT NULL REFERENCES exports(id),
	seq        INTEGER NOT NULL,
	video_id   TEXT NOT NULL,
	raw_time   TEXT NOT NULL,
	watched_at DATETIME NOT NULL,
	title      TEXT NOT NULL,
	channel    TEXT NOT NULL,
	url        TEXT NOT NULL,
	source     TEXT NOT NULL,
	date       TEXT NOT NULL,
	hour       INTEGER NOT NULL,
	weekday    TEXT NOT NULL,
	month      INTEGER NOT NULL,
	year       INTEGER NOT NULL,
	PRIMARY KEY (export_id, seq)
);

CREATE TABLE durations (
	export_id TEXT NOT NULL REFERENCES exports(id),
	video_id  TEXT NOT NULL,
	seconds   INTEGER NOT NULL CHECK (seconds > 0),
	PRIMARY KEY (export_id, video_id)
);

CREATE TABLE progression (
	export_id       TEXT NOT NULL REFERENCES exports(id),
	video_count     INTEGER NOT NULL,
	video_id        TEXT NOT NULL,
	average_seconds REAL NOT NULL,
	total_seconds   INTEGER NOT NULL,
	video_seconds   INTEGER NOT NULL,
	video_title     TEXT NOT NULL,
	PRIMARY KEY (export_id, video_count)
);

CREATE INDEX idx_viewings_video_id ON viewings(video_id);
CREATE INDEX idx_viewings_channel ON viewings(channel);
`

// writeSQLiteFile dumps the bundle into a new history.db. An existing file is
// replaced; the database is never read back by this tool.
func writeSQLiteFile(ctx context.Context, dir string, b *Bundle) ([]string, error) {
	p := outPath(dir, HistoryDB)
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(p + suffix); err != nil && !os.IsNotExist(err) {
			return nil, eris.Wrapf(err, "export: remove old %s", p+suffix)
		}
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return nil, eris.Wrap(err, "export: open sqlite")
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, eris.Wrap(err, "export: create sqlite schema")
	}

	exportID, err := dumpSQLite(ctx, db, b)
	if err != nil {
		return nil, err
	}
	if err := db.Close(); err != nil {
		return nil, eris.Wrap(err, "export: close sqlite")
	}
	zap.L().Debug("export: sqlite dump written", zap.String("export_id", exportID), zap.String("path", p))
	return []string{p}, nil
}

// dumpSQLite inserts the bundle in one transaction and returns the export id.
func dumpSQLite(ctx context.Context, db *sql.DB, b *Bundle) (string, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", eris.Wrap(err, "export: begin sqlite tx")
	}
	defer tx.Rollback() //nolint:errcheck

	id := uuid.New().String()
	cov := b.Coverage
	created := b.GeneratedAt
	if created.IsZero() {
		created = time.Now()
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO exports (id, created_at, language, total_videos, known_videos, total_known_seconds,
			average_seconds, estimated_total_seconds, coverage_percent) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, created.UTC(), b.Catalog.Tag, cov.TotalVideos, cov.KnownVideos, cov.TotalKnownSeconds,
		cov.AverageSeconds, cov.EstimatedTotalSeconds, cov.CoveragePercent,
	); err != nil {
		return "", eris.Wrap(err, "export: insert export")
	}

	viewStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO viewings (export_id, seq, video_id, raw_time, watched_at, title, channel, url, source,
			date, hour, weekday, month, year) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", eris.Wrap(err, "export: prepare viewings insert")
	}
	defer viewStmt.Close()
	for i, r := range b.Rows {
		if _, err := viewStmt.ExecContext(ctx,
			id, i, r.VideoID, r.RawTime, r.Timestamp.UTC(), r.Title, r.Channel, r.URL, string(r.Source),
			r.Date, r.Hour, r.Weekday, r.Month, r.Year,
		); err != nil {
			return "", eris.Wrapf(err, "export: insert viewing %d", i)
		}
	}

	for _, videoID := range durationIDs(b.Rows, b.Durations) {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO durations (export_id, video_id, seconds) VALUES (?, ?, ?)`,
			id, videoID, b.Durations[videoID],
		); err != nil {
			return "", eris.Wrapf(err, "export: insert duration %s", videoID)
		}
	}

	for _, s := range b.Snapshots {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO progression (export_id, video_count, video_id, average_seconds, total_seconds,
				video_seconds, video_title) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, s.VideoCount, s.VideoID, s.AverageSeconds, s.TotalSeconds, s.VideoSeconds, s.VideoTitle,
		); err != nil {
			return "", eris.Wrapf(err, "export: insert progression %d", s.VideoCount)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", eris.Wrap(err, "export: commit sqlite tx")
	}
	return id, nil
}
