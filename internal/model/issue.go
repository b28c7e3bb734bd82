package model

import "time"

// IssueType classifies an issue and selects which check set applies.
// Anything the tracker reports outside the known set maps to TypeOther,
// which carries no checks.
type IssueType int

const (
	TypeOther IssueType = iota
	TypeStory
	TypeBug
	TypeReview
)

func (t IssueType) String() string {
	switch t {
	case TypeStory:
		return "Story"
	case TypeBug:
		return "Bug"
	case TypeReview:
		return "Review"
	default:
		return "Other"
	}
}

// ParseIssueType maps a tracker type name to an IssueType. The Chinese
// names appear on localized Jira deployments.
func ParseIssueType(name string) IssueType {
	switch name {
	case "Story", "故事":
		return TypeStory
	case "Bug", "缺陷":
		return TypeBug
	case "Review":
		return TypeReview
	default:
		return TypeOther
	}
}

// IssueRecord is the normalized, read-only snapshot of one tracker
// issue. It is built once by the adapter and never mutated; optional
// fields are pointers (nil = absent on the tracker side, including
// values the adapter could not parse).
type IssueRecord struct {
	Key            string     `json:"key"`
	Type           IssueType  `json:"type"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	ResolutionDate *time.Time `json:"resolution_date,omitempty"`
	FixVersions    []string   `json:"fix_versions,omitempty"`
	Components     []string   `json:"components,omitempty"`
	Labels         []string   `json:"labels,omitempty"` // nil means the field is absent; an empty set is present
	Implementer    *string    `json:"implementer,omitempty"`
	SecurityLevel  *string    `json:"security_level,omitempty"`
	StoryPoints    *float64   `json:"story_points,omitempty"`
	Subtask        bool       `json:"subtask"`
	CommentBodies  []string   `json:"comment_bodies,omitempty"`
}
