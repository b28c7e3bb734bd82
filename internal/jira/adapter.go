package jira

import (
	"encoding/json"
	"time"

	"github.com/be-Happy2/JiraCheckTool/internal/model"
)

// Adapter maps raw Jira issues to IssueRecords. It is the one place
// that knows deployment-specific custom field identifiers; when a field
// is renamed on the server, remapping happens here (via config) and
// nowhere else. Malformed or missing values become absent fields, never
// errors: surfacing missing compliance data is the whole point of the
// checks downstream.
type Adapter struct {
	StoryPointsField string // e.g. "customfield_10408"
	ImplementerField string // e.g. "customfield_11807"
}

// Jira writes resolution timestamps like "2023-05-12T09:30:00.000+0800";
// due dates are bare dates.
var resolutionLayouts = []string{
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05.999999999-07:00",
	time.RFC3339,
}

// ToRecord builds the normalized snapshot for one raw issue.
func (a Adapter) ToRecord(is Issue) model.IssueRecord {
	var f issueFields
	_ = json.Unmarshal(is.Fields, &f)
	var custom map[string]json.RawMessage
	_ = json.Unmarshal(is.Fields, &custom)

	rec := model.IssueRecord{
		Key:     is.Key,
		Type:    model.ParseIssueType(f.IssueType.Name),
		Subtask: f.IssueType.Subtask,
		Labels:  f.Labels,
	}

	if t, err := time.Parse("2006-01-02", f.DueDate); err == nil {
		rec.DueDate = &t
	}
	for _, layout := range resolutionLayouts {
		if t, err := time.Parse(layout, f.ResolutionDate); err == nil {
			rec.ResolutionDate = &t
			break
		}
	}

	for _, v := range f.FixVersions {
		rec.FixVersions = append(rec.FixVersions, v.Name)
	}
	for _, c := range f.Components {
		rec.Components = append(rec.Components, c.Name)
	}
	if f.Security != nil {
		name := f.Security.Name
		rec.SecurityLevel = &name
	}
	for _, c := range f.Comment.Comments {
		rec.CommentBodies = append(rec.CommentBodies, c.Body)
	}

	if raw, ok := custom[a.StoryPointsField]; ok && !isJSONNull(raw) {
		var pts float64
		if err := json.Unmarshal(raw, &pts); err == nil {
			rec.StoryPoints = &pts
		}
	}
	if raw, ok := custom[a.ImplementerField]; ok && !isJSONNull(raw) {
		// Presence is what the check cares about; render whatever the
		// field holds as its display string.
		s := string(raw)
		var str string
		if err := json.Unmarshal(raw, &str); err == nil {
			s = str
		}
		rec.Implementer = &s
	}

	return rec
}

// ToRecords maps a whole search result.
func (a Adapter) ToRecords(issues []Issue) []model.IssueRecord {
	out := make([]model.IssueRecord, 0, len(issues))
	for _, is := range issues {
		out = append(out, a.ToRecord(is))
	}
	return out
}

func isJSONNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
