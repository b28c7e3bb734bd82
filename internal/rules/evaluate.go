package rules

import (
	"time"

	"github.com/be-Happy2/JiraCheckTool/internal/model"
)

// EvaluateProject runs the catalog over every issue of one project and
// builds the violation index. Issues with zero violations never enter
// the index. now must be captured once per run and shared across
// projects so every delay check sees the same instant.
func EvaluateProject(issues []model.IssueRecord, now time.Time) model.ViolationIndex {
	index := make(model.ViolationIndex)
	for i := range issues {
		if vs := CheckIssue(&issues[i], now); len(vs) > 0 {
			index[issues[i].Key] = vs
		}
	}
	return index
}
