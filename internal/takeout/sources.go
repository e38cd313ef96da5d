package takeout

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/watchstats/internal/model"
)

// Sources holds the records loaded per source tag. A source that failed to
// load contributes zero records; its error is kept for reporting.
type Sources struct {
	records map[model.SourceTag][]model.RawRecord
	errs    map[model.SourceTag]error
}

// NewSources creates an empty source set.
func NewSources() *Sources {
	return &Sources{
		records: make(map[model.SourceTag][]model.RawRecord),
		errs:    make(map[model.SourceTag]error),
	}
}

// Load reads the export file at path into the given source slot and returns
// the number of records loaded. On failure the slot is left empty and the
// error is returned so the caller can report it and carry on.
func (s *Sources) Load(path string, source model.SourceTag) (int, error) {
	if !source.Valid() {
		return 0, eris.Errorf("takeout: unknown source %q", source)
	}
	records, err := LoadFile(path, source)
	if err != nil {
		s.errs[source] = err
		delete(s.records, source)
		zap.L().Warn("takeout: source not loaded",
			zap.String("source", string(source)),
			zap.String("path", path),
			zap.Error(err),
		)
		return 0, err
	}
	s.Set(source, records)
	zap.L().Info("takeout: source loaded",
		zap.String("source", string(source)),
		zap.String("path", path),
		zap.Int("records", len(records)),
	)
	return len(records), nil
}

// Set stores records under source, tagging each copy with it.
func (s *Sources) Set(source model.SourceTag, records []model.RawRecord) {
	tagged := make([]model.RawRecord, len(records))
	for i, rec := range records {
		rec.Source = source
		tagged[i] = rec
	}
	s.records[source] = tagged
	delete(s.errs, source)
}

// Records returns the records of one source.
func (s *Sources) Records(source model.SourceTag) []model.RawRecord {
	return s.records[source]
}

// Err returns the load error of a source, if any.
func (s *Sources) Err(source model.SourceTag) error {
	return s.errs[source]
}

// Loaded returns the sources holding at least one record, in registration order.
func (s *Sources) Loaded() []model.SourceTag {
	var tags []model.SourceTag
	for _, tag := range model.SourceOrder {
		if len(s.records[tag]) > 0 {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Total returns the number of records across all sources.
func (s *Sources) Total() int {
	n := 0
	for _, tag := range model.SourceOrder {
		n += len(s.records[tag])
	}
	return n
}
