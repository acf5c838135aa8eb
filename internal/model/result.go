package model

import "time"

// AnalysisResult is what one render pass of the landing view knows about the
// requested URL: either Data or a non-empty Error, never both. No data is
// ever fabricated on failure.
type AnalysisResult struct {
	URL       string        `json:"url"`
	Data      *AnalysisData `json:"data"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// Failed reports whether the analysis could not be obtained.
func (r AnalysisResult) Failed() bool {
	return r.Error != ""
}

// HealthReport is what one render pass of the status view knows about the
// backend. Status is always renderable; when Fallback is set it holds the
// fallback values and Error explains why.
type HealthReport struct {
	Status    HealthStatus `json:"data"`
	Error     string       `json:"error,omitempty"`
	Fallback  bool         `json:"fallback"`
	Timestamp time.Time    `json:"timestamp"`
}
