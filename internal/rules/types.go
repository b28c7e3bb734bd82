package rules

import (
	"time"

	"github.com/be-Happy2/JiraCheckTool/internal/model"
)

// Check inspects one issue and returns the violations it detects. Checks
// are pure: the only clock they may consult is the now argument, so a
// whole run is judged against a single captured timestamp.
type Check func(rec *model.IssueRecord, now time.Time) []model.Violation

// Rule is the catalog inventory entry for one check, used by the API to
// describe what the tool enforces.
type Rule struct {
	Codes     []model.Violation `json:"codes"`
	Summary   string            `json:"summary"`
	AppliesTo []model.IssueType `json:"-"`
}
