package rules

import (
	"time"

	"github.com/be-Happy2/JiraCheckTool/internal/model"
)

// Check sets per issue type. Slice order is the order codes appear in an
// issue's violation list; common checks always run after the
// type-specific set so reports keep a stable shape.
var (
	storyChecks = []Check{
		checkCommitLink,
		checkVerification,
		checkStoryPoints,
	}

	bugChecks = []Check{
		checkAnalyse,
		checkSolution,
		checkCommitLink,
		checkVerification,
		checkStoryPoints,
	}

	reviewChecks = []Check{
		checkReviewStoryPoints,
	}

	commonChecks = []Check{
		checkDueDate,
		checkFixVersions,
		checkComponentChengdu,
		checkLabels,
		checkImplementer,
		checkSecurityLevel,
	}
)

// checksFor selects the check set for an issue type. Unknown types get
// no checks at all; that is current policy, not an error.
func checksFor(t model.IssueType) []Check {
	switch t {
	case model.TypeStory:
		return storyChecks
	case model.TypeBug:
		return bugChecks
	case model.TypeReview:
		return reviewChecks
	default:
		return nil
	}
}

// CheckIssue runs the full catalog against one issue and returns its
// ordered violation list (type-specific codes first, common codes
// last). The result is empty for a compliant issue or an unknown type.
func CheckIssue(rec *model.IssueRecord, now time.Time) []model.Violation {
	typed := checksFor(rec.Type)
	if typed == nil {
		return nil
	}
	var out []model.Violation
	for _, c := range typed {
		out = append(out, c(rec, now)...)
	}
	for _, c := range commonChecks {
		out = append(out, c(rec, now)...)
	}
	return out
}

// Catalog returns the inventory of enforced rules in evaluation order.
func Catalog() []Rule {
	storyBug := []model.IssueType{model.TypeStory, model.TypeBug}
	all := []model.IssueType{model.TypeStory, model.TypeBug, model.TypeReview}
	return []Rule{
		{Codes: []model.Violation{model.NoAnalyse}, Summary: "Bug comments must contain an [analyse] section.", AppliesTo: []model.IssueType{model.TypeBug}},
		{Codes: []model.Violation{model.NoSolution}, Summary: "Bug comments must contain a [solution] section.", AppliesTo: []model.IssueType{model.TypeBug}},
		{Codes: []model.Violation{model.NoCode}, Summary: "Comments must link the implementing commit via [commitlink].", AppliesTo: storyBug},
		{Codes: []model.Violation{model.NoVerification}, Summary: "Comments must record self-verification: [version], [steps] and [result].", AppliesTo: storyBug},
		{Codes: []model.Violation{model.NoStoryPoints, model.NoSubTask}, Summary: "Issues need story points; estimates above 3 points must be split into subtasks.", AppliesTo: all},
		{Codes: []model.Violation{model.NoDueDate, model.Delay}, Summary: "Issues need a due date and must be resolved by it.", AppliesTo: all},
		{Codes: []model.Violation{model.NoFixVersions}, Summary: "Issues must carry at least one fix version.", AppliesTo: all},
		{Codes: []model.Violation{model.NoComponentChengdu}, Summary: "Issues must include the chengdu component.", AppliesTo: all},
		{Codes: []model.Violation{model.NoLabels}, Summary: "Issues must have the labels field set.", AppliesTo: all},
		{Codes: []model.Violation{model.NoImplementer}, Summary: "Issues must name an implementer.", AppliesTo: all},
		{Codes: []model.Violation{model.NoAskeySecure}, Summary: "Issue security level must be Askey-Secure.", AppliesTo: all},
	}
}
