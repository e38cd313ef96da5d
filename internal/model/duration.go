package model

// ProgressPoint is the running mean after a duration was recorded.
type ProgressPoint struct {
	Count int     `json:"video_count"`
	Mean  float64 `json:"average_duration_seconds"`
}

// Snapshot is the detailed progression entry written alongside each
// ProgressPoint.
type Snapshot struct {
	VideoCount       int     `json:"video_count"`
	VideoID          string  `json:"video_id"`
	AverageSeconds   float64 `json:"average_duration_seconds"`
	AverageMinutes   float64 `json:"average_duration_minutes"`
	AverageFormatted string  `json:"average_duration_formatted"`
	TotalSeconds     int     `json:"total_duration_seconds"`
	VideoSeconds     int     `json:"current_video_duration"`
	VideoTitle       string  `json:"current_video_title"`
}

// Coverage summarizes how much of the table has a measured duration and the
// extrapolated total watch time.
type Coverage struct {
	TotalVideos           int     `json:"total_videos"`
	KnownVideos           int     `json:"known_videos"`
	TotalKnownSeconds     int     `json:"total_known_duration"`
	AverageSeconds        float64 `json:"average_known_duration"`
	EstimatedTotalSeconds float64 `json:"estimated_total_duration"`
	CoveragePercent       float64 `json:"coverage_percent"`
}
