package model

import (
	"strings"
	"time"
)

// Status is the coarse health state shown on the status view.
type Status int

const (
	// StatusUnknown is reported for any status string not recognised below.
	StatusUnknown Status = iota
	// StatusHealthy means the backend reports itself as serving.
	StatusHealthy
	// StatusUnhealthy means the backend is degraded or could not be reached.
	StatusUnhealthy
)

func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "Healthy"
	case StatusUnhealthy:
		return "Unhealthy"
	default:
		return "Unknown"
	}
}

// unknownField fills every string field of the fallback health status.
const unknownField = "unknown"

// HealthStatus is the backend health payload.
type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	BuildDate string `json:"build_date"`
	GitCommit string `json:"git_commit,omitempty"`
	Uptime    string `json:"uptime,omitempty"`
}

// State maps the free-form status string onto Status.
func (h HealthStatus) State() Status {
	switch strings.ToLower(strings.TrimSpace(h.Status)) {
	case "healthy", "ok", "up":
		return StatusHealthy
	case "unhealthy", "down", "degraded":
		return StatusUnhealthy
	default:
		return StatusUnknown
	}
}

// FallbackHealth is substituted when the backend cannot be asked. It is
// unhealthy, every descriptive field reads "unknown", and the timestamp is
// the moment of construction.
func FallbackHealth(now time.Time) HealthStatus {
	return HealthStatus{
		Status:    "unhealthy",
		Timestamp: now.UTC().Format(time.RFC3339),
		Version:   unknownField,
		BuildDate: unknownField,
		GitCommit: unknownField,
		Uptime:    unknownField,
	}
}
