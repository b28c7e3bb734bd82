package rules

import (
	"time"

	"github.com/be-Happy2/JiraCheckTool/internal/model"
)

// checkDueDate emits NoDueDate when the field is absent; otherwise it
// looks for a delay. A due date is the precondition for delay detection,
// so the two codes never appear together. Delay compares calendar dates:
// an unresolved issue is delayed once now passes the due date, a
// resolved one when its resolution day is after the due day.
func checkDueDate(rec *model.IssueRecord, now time.Time) []model.Violation {
	if rec.DueDate == nil {
		return []model.Violation{model.NoDueDate}
	}
	due := *rec.DueDate
	if rec.ResolutionDate == nil {
		if now.After(due) {
			return []model.Violation{model.Delay}
		}
		return nil
	}
	if dateOnly(*rec.ResolutionDate).After(dateOnly(due)) {
		return []model.Violation{model.Delay}
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
