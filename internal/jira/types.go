package jira

import "encoding/json"

// Raw wire types for the Jira REST v2 search API. Only the fields the
// compliance checks consume are declared; everything else rides along in
// the raw fields blob for the adapter's custom-field lookups.

type SearchResponse struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

// Issue keeps fields raw so the adapter can read both the typed schema
// and deployment-specific custom fields from one payload.
type Issue struct {
	Key    string          `json:"key"`
	Fields json.RawMessage `json:"fields"`
}

type issueFields struct {
	IssueType      issueType `json:"issuetype"`
	DueDate        string    `json:"duedate"`
	ResolutionDate string    `json:"resolutiondate"`
	FixVersions    []named   `json:"fixVersions"`
	Components     []named   `json:"components"`
	Labels         []string  `json:"labels"`
	Security       *named    `json:"security"`
	Comment        comments  `json:"comment"`
}

type issueType struct {
	Name    string `json:"name"`
	Subtask bool   `json:"subtask"`
}

type named struct {
	Name string `json:"name"`
}

type comments struct {
	Comments []comment `json:"comments"`
}

type comment struct {
	Body string `json:"body"`
}
