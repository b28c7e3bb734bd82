package model

import "time"

// ViolationIndex maps issue key -> ordered violation list for one
// project. Issues with zero violations are never stored.
type ViolationIndex map[string][]Violation

// Project is a configured audit target plus its responsible contact.
type Project struct {
	Name         string `json:"name" yaml:"name"`
	Key          string `json:"key" yaml:"key"`
	Manager      string `json:"manager" yaml:"manager"`
	ManagerPhone string `json:"manager_phone" yaml:"manager_phone"`
}

// ProjectResult is the audit outcome for one project in one run.
type ProjectResult struct {
	Project    Project        `json:"project"`
	IssueCount int            `json:"issue_count"`
	Exempted   int            `json:"exempted,omitempty"`
	Violations ViolationIndex `json:"violations,omitempty"`
}

// Run is one complete audit: every configured project evaluated against
// a single captured timestamp.
type Run struct {
	ID         string          `json:"id"`
	StartedAt  time.Time       `json:"started_at"`
	WindowDays int             `json:"window_days"`
	QueryType  string          `json:"query_type,omitempty"`
	Projects   []ProjectResult `json:"projects"`
}

// TotalViolations counts violation codes across every project.
func (r *Run) TotalViolations() int {
	n := 0
	for _, pr := range r.Projects {
		for _, vs := range pr.Violations {
			n += len(vs)
		}
	}
	return n
}
