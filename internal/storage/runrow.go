package storage

import "time"

// RunRow is a lightweight listing row for /runs.
type RunRow struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	WindowDays int       `json:"window_days"`
	QueryType  string    `json:"query_type,omitempty"`
	Violations int       `json:"violations"`
}

// ViolationRow is one flattened violation as stored per run.
type ViolationRow struct {
	ProjectKey string `json:"project_key"`
	IssueKey   string `json:"issue_key"`
	Code       string `json:"code"`
	Position   int    `json:"position"`
}
