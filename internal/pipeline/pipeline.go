// Package pipeline turns export files into the viewing table and drives
// duration enrichment over a sample of it.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/watchstats/internal/duration"
	"github.com/sells-group/watchstats/internal/model"
	"github.com/sells-group/watchstats/internal/takeout"
)

// ErrNoRecords is returned by Run when no source produced a single record.
var ErrNoRecords = eris.New("pipeline: no records loaded")

// Stage names reported in State.Stages.
const (
	StageLoad    = "load"
	StageMerge   = "merge"
	StageProject = "project"
)

// State is everything one run accumulates. It is owned by the caller and
// handed from stage to stage; nothing in it is shared globally.
type State struct {
	Sources *takeout.Sources
	Merge   MergeResult
	Rows    []model.ViewingRow
	Stages  []model.StageResult
	Tracker *duration.Tracker
}

// Coverage estimates total watch time over the whole table from the
// durations recorded so far.
func (s *State) Coverage() model.Coverage {
	return duration.Estimate(len(s.Rows), s.Tracker.Durations())
}

// Pipeline loads and normalizes a set of export files.
type Pipeline struct {
	inputs []takeout.Input
}

// New creates a Pipeline over the given inputs. Inputs are loaded in the
// order given; a later input for the same source replaces an earlier one.
func New(inputs []takeout.Input) *Pipeline {
	return &Pipeline{inputs: inputs}
}

// Run loads every input, merges the sources and projects the result into
// viewing rows. A source that fails to load is logged and skipped; Run only
// fails when nothing was loaded at all or ctx is cancelled.
func (p *Pipeline) Run(ctx context.Context) (*State, error) {
	state := &State{
		Sources: takeout.NewSources(),
		Tracker: duration.NewTracker(),
	}

	trackStage := func(name string, input int, fn func() int) {
		start := time.Now()
		output := fn()
		res := model.StageResult{
			Name:     name,
			Input:    input,
			Output:   output,
			Dropped:  max(input-output, 0),
			Duration: time.Since(start).Milliseconds(),
		}
		state.Stages = append(state.Stages, res)
		zap.L().Info("pipeline: stage complete",
			zap.String("stage", name),
			zap.Int("input", res.Input),
			zap.Int("output", res.Output),
			zap.Int("dropped", res.Dropped),
			zap.Int64("duration_ms", res.Duration),
		)
	}

	trackStage(StageLoad, len(p.inputs), func() int {
		for _, in := range p.inputs {
			if ctx.Err() != nil {
				break
			}
			_, _ = state.Sources.Load(in.Path, in.Source)
		}
		return len(state.Sources.Loaded())
	})
	if err := ctx.Err(); err != nil {
		return state, eris.Wrap(err, "pipeline: load")
	}
	if state.Sources.Total() == 0 {
		return state, ErrNoRecords
	}

	trackStage(StageMerge, state.Sources.Total(), func() int {
		state.Merge = Merge(state.Sources)
		return len(state.Merge.Records)
	})

	trackStage(StageProject, len(state.Merge.Records), func() int {
		state.Rows = Project(state.Merge.Records)
		return len(state.Rows)
	})

	return state, nil
}
