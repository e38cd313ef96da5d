package stats

// Bucket is one range of the duration distribution, in whole minutes.
// MaxMinutes is exclusive; zero means unbounded.
type Bucket struct {
	MinMinutes int     `json:"min_minutes"`
	MaxMinutes int     `json:"max_minutes,omitempty"`
	Count      int     `json:"count"`
	Percent    float64 `json:"percent"`
}

// BucketBounds are the lower bounds of the distribution buckets.
var BucketBounds = []int{0, 5, 15, 30, 60}

// DurationSummary describes the measured durations.
type DurationSummary struct {
	Count           int      `json:"count"`
	TotalSeconds    int      `json:"total_seconds"`
	AverageSeconds  float64  `json:"average_seconds"`
	ShortestSeconds int      `json:"shortest_seconds"`
	LongestSeconds  int      `json:"longest_seconds"`
	Buckets         []Bucket `json:"buckets"`
}

// Durations summarizes a map of video id to seconds. An empty map yields a
// zero summary with empty buckets.
func Durations(durations map[string]int) DurationSummary {
	s := DurationSummary{Buckets: make([]Bucket, len(BucketBounds))}
	for i, lo := range BucketBounds {
		s.Buckets[i].MinMinutes = lo
		if i+1 < len(BucketBounds) {
			s.Buckets[i].MaxMinutes = BucketBounds[i+1]
		}
	}
	if len(durations) == 0 {
		return s
	}

	first := true
	for _, sec := range durations {
		s.Count++
		s.TotalSeconds += sec
		if first || sec < s.ShortestSeconds {
			s.ShortestSeconds = sec
		}
		if first || sec > s.LongestSeconds {
			s.LongestSeconds = sec
		}
		first = false
		s.Buckets[bucketOf(sec/60)].Count++
	}
	s.AverageSeconds = float64(s.TotalSeconds) / float64(s.Count)
	for i := range s.Buckets {
		s.Buckets[i].Percent = float64(s.Buckets[i].Count) / float64(s.Count) * 100
	}
	return s
}

func bucketOf(minutes int) int {
	for i := len(BucketBounds) - 1; i > 0; i-- {
		if minutes >= BucketBounds[i] {
			return i
		}
	}
	return 0
}
