package rules

import (
	"reflect"
	"testing"
	"time"

	"github.com/be-Happy2/JiraCheckTool/internal/model"
)

var testNow = time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// compliantStory passes every check at testNow.
func compliantStory() model.IssueRecord {
	return model.IssueRecord{
		Key:            "AL-0",
		Type:           model.TypeStory,
		DueDate:        datePtr(2024, 6, 1),
		ResolutionDate: nil,
		FixVersions:    []string{"v1.2"},
		Components:     []string{"chengdu"},
		Labels:         []string{},
		Implementer:    strPtr("dev1"),
		SecurityLevel:  strPtr("Askey-Secure"),
		StoryPoints:    f64Ptr(2),
		CommentBodies:  []string{"[commitlink] abc123", "[version] 1.0 [steps] run it [result] pass"},
	}
}

func TestCompliantStoryHasNoViolations(t *testing.T) {
	rec := compliantStory()
	if got := CheckIssue(&rec, testNow); len(got) != 0 {
		t.Fatalf("expected no violations, got %v", got)
	}
}

func TestCheckIssueIsDeterministic(t *testing.T) {
	rec := model.IssueRecord{Key: "AL-1", Type: model.TypeBug}
	a := CheckIssue(&rec, testNow)
	b := CheckIssue(&rec, testNow)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("two evaluations differ: %v vs %v", a, b)
	}
}

func TestUnknownTypeHasNoChecks(t *testing.T) {
	rec := model.IssueRecord{Key: "AL-2", Type: model.TypeOther}
	if got := CheckIssue(&rec, testNow); len(got) != 0 {
		t.Fatalf("expected empty list for unknown type, got %v", got)
	}
}

func TestFullyNonCompliantStoryOrdering(t *testing.T) {
	security := "Askey-Secure"
	pts := 5.0
	rec := model.IssueRecord{
		Key:           "AL-1",
		Type:          model.TypeStory,
		Components:    []string{"other"},
		SecurityLevel: &security,
		StoryPoints:   &pts,
	}
	want := []model.Violation{
		model.NoCode, model.NoVerification, model.NoSubTask,
		model.NoDueDate, model.NoFixVersions, model.NoComponentChengdu,
		model.NoLabels, model.NoImplementer,
	}
	got := CheckIssue(&rec, testNow)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ordering mismatch:\n got  %v\n want %v", got, want)
	}
}

func TestDueDateChecks(t *testing.T) {
	cases := []struct {
		name      string
		due, res  *time.Time
		wantNoDue bool
		wantDelay bool
	}{
		{"absent due date", nil, nil, true, false},
		{"past due, unresolved", datePtr(2024, 5, 1), nil, false, true},
		{"future due, unresolved", datePtr(2024, 6, 1), nil, false, false},
		{"resolved after due", datePtr(2024, 5, 1), datePtr(2024, 5, 2), false, true},
		{"resolved on due day", datePtr(2024, 5, 1), datePtr(2024, 5, 1), false, false},
		{"resolved before due", datePtr(2024, 5, 10), datePtr(2024, 5, 1), false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := compliantStory()
			rec.DueDate = tc.due
			rec.ResolutionDate = tc.res
			got := CheckIssue(&rec, testNow)
			if has(got, model.NoDueDate) != tc.wantNoDue {
				t.Fatalf("NoDueDate presence = %v, want %v (got %v)", !tc.wantNoDue, tc.wantNoDue, got)
			}
			if has(got, model.Delay) != tc.wantDelay {
				t.Fatalf("Delay presence = %v, want %v (got %v)", !tc.wantDelay, tc.wantDelay, got)
			}
		})
	}
}

func TestNoDueDateNeverDelays(t *testing.T) {
	rec := compliantStory()
	rec.DueDate = nil
	rec.ResolutionDate = nil
	got := CheckIssue(&rec, testNow)
	if !has(got, model.NoDueDate) || has(got, model.Delay) {
		t.Fatalf("want NoDueDate without Delay, got %v", got)
	}
}

func TestStoryPointRules(t *testing.T) {
	cases := []struct {
		name       string
		points     *float64
		subtask    bool
		wantPoints bool
		wantSub    bool
	}{
		{"missing points", nil, false, true, true},
		{"4 points, no subtask", f64Ptr(4), false, false, true},
		{"4 points, subtask", f64Ptr(4), true, false, false},
		{"exactly 3, no subtask", f64Ptr(3), false, false, false},
		{"exactly 3, subtask", f64Ptr(3), true, false, false},
	}
	for _, typ := range []model.IssueType{model.TypeStory, model.TypeBug} {
		for _, tc := range cases {
			t.Run(typ.String()+"/"+tc.name, func(t *testing.T) {
				rec := compliantStory()
				rec.Type = typ
				rec.StoryPoints = tc.points
				rec.Subtask = tc.subtask
				if typ == model.TypeBug {
					rec.CommentBodies = append(rec.CommentBodies, "[analyse] root cause [solution] patched")
				}
				got := CheckIssue(&rec, testNow)
				if has(got, model.NoStoryPoints) != tc.wantPoints {
					t.Fatalf("NoStoryPoints presence wrong, got %v", got)
				}
				if has(got, model.NoSubTask) != tc.wantSub {
					t.Fatalf("NoSubTask presence wrong, got %v", got)
				}
			})
		}
	}
}

func TestMarkerScanIsCaseInsensitive(t *testing.T) {
	rec := compliantStory()
	rec.CommentBodies = []string{"[COMMITLINK] abc", "[Version] x [STEPS] y [Result] z"}
	got := CheckIssue(&rec, testNow)
	if has(got, model.NoCode) || has(got, model.NoVerification) {
		t.Fatalf("uppercase markers should satisfy the scan, got %v", got)
	}
}

func TestVerificationIsOneCombinedViolation(t *testing.T) {
	rec := compliantStory()
	rec.CommentBodies = []string{"[commitlink] abc"} // all three verification markers missing
	got := CheckIssue(&rec, testNow)
	n := 0
	for _, v := range got {
		if v == model.NoVerification {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("want exactly one NoVerification, got %d in %v", n, got)
	}
}

func TestEmptyCommentsFireAllMarkerChecks(t *testing.T) {
	rec := compliantStory()
	rec.Type = model.TypeBug
	rec.CommentBodies = nil
	got := CheckIssue(&rec, testNow)
	for _, want := range []model.Violation{model.NoAnalyse, model.NoSolution, model.NoCode, model.NoVerification} {
		if !has(got, want) {
			t.Fatalf("missing %s in %v", want, got)
		}
	}
}

func TestBugChecksIncludeAnalyseAndSolution(t *testing.T) {
	rec := compliantStory()
	rec.Type = model.TypeBug
	got := CheckIssue(&rec, testNow)
	if !has(got, model.NoAnalyse) || !has(got, model.NoSolution) {
		t.Fatalf("bug without [analyse]/[solution] comments must violate both, got %v", got)
	}
	if got[0] != model.NoAnalyse || got[1] != model.NoSolution {
		t.Fatalf("bug-specific codes must lead the list, got %v", got)
	}
}

func TestReviewOnlyChecksStoryPoints(t *testing.T) {
	rec := compliantStory()
	rec.Type = model.TypeReview
	rec.StoryPoints = nil
	rec.CommentBodies = nil // no comment scan for reviews
	got := CheckIssue(&rec, testNow)
	if !has(got, model.NoStoryPoints) {
		t.Fatalf("review without points must violate NoStoryPoints, got %v", got)
	}
	for _, v := range got {
		switch v {
		case model.NoCode, model.NoVerification, model.NoSubTask, model.NoAnalyse, model.NoSolution:
			t.Fatalf("review must not run comment/subtask checks, got %v", got)
		}
	}
}

func TestSecurityLevelMismatchAndAbsence(t *testing.T) {
	rec := compliantStory()
	rec.SecurityLevel = strPtr("Public")
	if got := CheckIssue(&rec, testNow); !has(got, model.NoAskeySecure) {
		t.Fatalf("wrong security level must violate, got %v", got)
	}
	rec.SecurityLevel = nil
	if got := CheckIssue(&rec, testNow); !has(got, model.NoAskeySecure) {
		t.Fatalf("absent security level must violate, got %v", got)
	}
}

func TestComponentMatchIsCaseSensitive(t *testing.T) {
	rec := compliantStory()
	rec.Components = []string{"Chengdu"}
	if got := CheckIssue(&rec, testNow); !has(got, model.NoComponentChengdu) {
		t.Fatalf("capitalized component must not satisfy the check, got %v", got)
	}
}

func TestLabelsPresenceNotContents(t *testing.T) {
	rec := compliantStory()
	rec.Labels = []string{}
	if got := CheckIssue(&rec, testNow); has(got, model.NoLabels) {
		t.Fatalf("empty but present labels must pass, got %v", got)
	}
	rec.Labels = nil
	if got := CheckIssue(&rec, testNow); !has(got, model.NoLabels) {
		t.Fatalf("absent labels must violate, got %v", got)
	}
}

func has(vs []model.Violation, want model.Violation) bool {
	for _, v := range vs {
		if v == want {
			return true
		}
	}
	return false
}
