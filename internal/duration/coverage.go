package duration

import "github.com/sells-group/watchstats/internal/model"

// Estimate extrapolates total watch time for a table of tableSize rows, of
// which the entries of durations were measured. Unmeasured rows are assumed
// to last the sampled average. An empty durations map yields all zeros.
func Estimate(tableSize int, durations map[string]int) model.Coverage {
	if len(durations) == 0 {
		return model.Coverage{}
	}

	known := 0
	for _, s := range durations {
		known += s
	}
	avg := float64(known) / float64(len(durations))
	unknown := tableSize - len(durations)

	cov := model.Coverage{
		TotalVideos:           tableSize,
		KnownVideos:           len(durations),
		TotalKnownSeconds:     known,
		AverageSeconds:        avg,
		EstimatedTotalSeconds: float64(known) + float64(unknown)*avg,
	}
	if tableSize > 0 {
		cov.CoveragePercent = float64(len(durations)) / float64(tableSize) * 100
	}
	return cov
}
