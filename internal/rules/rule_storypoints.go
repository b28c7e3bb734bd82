package rules

import (
	"time"

	"github.com/be-Happy2/JiraCheckTool/internal/model"
)

// subtaskThreshold is the largest estimate allowed without splitting the
// issue into subtasks. Exactly 3 points is still fine.
const subtaskThreshold = 3

// checkStoryPoints covers Story and Bug: a missing estimate is both a
// missing-points and a missing-subtask violation, and an estimate above
// the threshold on a non-subtask issue must have been split.
func checkStoryPoints(rec *model.IssueRecord, _ time.Time) []model.Violation {
	if rec.StoryPoints == nil {
		return []model.Violation{model.NoStoryPoints, model.NoSubTask}
	}
	if *rec.StoryPoints > subtaskThreshold && !rec.Subtask {
		return []model.Violation{model.NoSubTask}
	}
	return nil
}

// checkReviewStoryPoints is the Review variant: only the estimate itself
// is required, with no subtask rule.
func checkReviewStoryPoints(rec *model.IssueRecord, _ time.Time) []model.Violation {
	if rec.StoryPoints == nil {
		return []model.Violation{model.NoStoryPoints}
	}
	return nil
}
