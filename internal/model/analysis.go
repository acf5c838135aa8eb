package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// HeadingLevels lists the heading tags reported by the backend, in order.
var HeadingLevels = []string{"h1", "h2", "h3", "h4", "h5", "h6"}

// AnalysisData holds the analysis of a single page as returned by the backend.
type AnalysisData struct {
	HTMLVersion    string         `json:"html_version"`
	PageTitle      string         `json:"page_title"`
	Headings       map[string]int `json:"headings"`
	Links          LinkStats      `json:"links"`
	HasLoginForm   bool           `json:"has_login_form"`
	AnalysisTimeMs int64          `json:"analysis_time_ms"`
}

// LinkStats breaks down the links found on a page.
type LinkStats struct {
	Internal     int `json:"internal"`
	External     int `json:"external"`
	Inaccessible int `json:"inaccessible"`
}

// Total is the number of internal and external links.
func (l LinkStats) Total() int {
	return l.Internal + l.External
}

// HeadingCount is one row of the headings table.
type HeadingCount struct {
	Level string
	Count int
}

// Normalize fills in heading levels the backend omitted with zero so that
// all six levels are always present.
func (a *AnalysisData) Normalize() {
	if a.Headings == nil {
		a.Headings = make(map[string]int, len(HeadingLevels))
	}
	for _, lvl := range HeadingLevels {
		if _, ok := a.Headings[lvl]; !ok {
			a.Headings[lvl] = 0
		}
	}
}

// HeadingRows returns the heading counts ordered h1 through h6.
func (a *AnalysisData) HeadingRows() []HeadingCount {
	rows := make([]HeadingCount, 0, len(HeadingLevels))
	for _, lvl := range HeadingLevels {
		rows = append(rows, HeadingCount{Level: lvl, Count: a.Headings[lvl]})
	}
	return rows
}

// TotalHeadings sums all heading levels.
func (a *AnalysisData) TotalHeadings() int {
	var n int
	for _, lvl := range HeadingLevels {
		n += a.Headings[lvl]
	}
	return n
}

// ErrorResponse is the JSON shape the backend returns on failure.
// Older backends send a numeric code, newer ones a string such as "INVALID_URL".
type ErrorResponse struct {
	Message string          `json:"message"`
	Code    json.RawMessage `json:"code,omitempty"`
	Details any             `json:"details,omitempty"`
}

// CodeString returns the error code as text regardless of its JSON type.
func (e ErrorResponse) CodeString() string {
	raw := strings.TrimSpace(string(e.Code))
	if raw == "" || raw == "null" {
		return ""
	}
	if s, err := strconv.Unquote(raw); err == nil {
		return s
	}
	return raw
}
