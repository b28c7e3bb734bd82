package rules

import (
	"strings"
	"time"

	"github.com/be-Happy2/JiraCheckTool/internal/model"
)

// allComments joins every comment body for marker scanning. Markers are
// matched case-insensitively, so the blob is lowercased once here.
func allComments(rec *model.IssueRecord) string {
	var b strings.Builder
	for _, c := range rec.CommentBodies {
		b.WriteString(c)
		b.WriteString("\n")
	}
	return strings.ToLower(b.String())
}

func checkCommitLink(rec *model.IssueRecord, _ time.Time) []model.Violation {
	if !strings.Contains(allComments(rec), "[commitlink]") {
		return []model.Violation{model.NoCode}
	}
	return nil
}

// checkVerification requires all three self-verification markers. A
// single combined code is emitted however many are missing.
func checkVerification(rec *model.IssueRecord, _ time.Time) []model.Violation {
	c := allComments(rec)
	if !strings.Contains(c, "[version]") ||
		!strings.Contains(c, "[steps]") ||
		!strings.Contains(c, "[result]") {
		return []model.Violation{model.NoVerification}
	}
	return nil
}

func checkAnalyse(rec *model.IssueRecord, _ time.Time) []model.Violation {
	if !strings.Contains(allComments(rec), "[analyse]") {
		return []model.Violation{model.NoAnalyse}
	}
	return nil
}

func checkSolution(rec *model.IssueRecord, _ time.Time) []model.Violation {
	if !strings.Contains(allComments(rec), "[solution]") {
		return []model.Violation{model.NoSolution}
	}
	return nil
}
