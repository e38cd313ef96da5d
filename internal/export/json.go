package export

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/watchstats/internal/model"
	"github.com/sells-group/watchstats/internal/stats"
)

// Summary is the document written to summary.json.
type Summary struct {
	GeneratedAt time.Time             `json:"generated_at"`
	Language    string                `json:"language"`
	Stages      []model.StageResult   `json:"stages"`
	Duplicates  int                   `json:"duplicates_removed"`
	Statistics  stats.Summary         `json:"statistics"`
	Durations   stats.DurationSummary `json:"durations"`
	Coverage    model.Coverage        `json:"coverage"`
}

func writeJSONFiles(_ context.Context, dir string, b *Bundle) ([]string, error) {
	doc := Summary{
		GeneratedAt: b.GeneratedAt.UTC(),
		Language:    b.Catalog.Tag,
		Stages:      b.Stages,
		Duplicates:  b.Duplicates,
		Statistics:  b.Summary,
		Durations:   b.DurationSum,
		Coverage:    b.Coverage,
	}
	paths := []string{outPath(dir, SummaryJSON)}
	if err := writeJSON(paths[0], doc); err != nil {
		return nil, err
	}

	if len(b.Snapshots) > 0 {
		p := outPath(dir, ProgressionJSON)
		if err := writeJSON(p, b.Snapshots); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrapf(err, "export: marshal %s", path)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return eris.Wrapf(err, "export: write %s", path)
	}
	return nil
}
