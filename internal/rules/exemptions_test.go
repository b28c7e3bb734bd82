package rules

import (
	"testing"

	"github.com/be-Happy2/JiraCheckTool/internal/model"
	"github.com/be-Happy2/JiraCheckTool/internal/storage"
)

func TestApplyExemptionsFiltersMatchingCode(t *testing.T) {
	index := model.ViolationIndex{
		"AL-1": {model.NoDueDate, model.NoLabels},
		"AL-2": {model.NoLabels},
	}
	exs := []storage.Exemption{{Code: "No Labels", ProjectKey: "AL"}}

	out, removed := ApplyExemptions(index, "AL", exs)
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	if got := out["AL-1"]; len(got) != 1 || got[0] != model.NoDueDate {
		t.Fatalf("AL-1 = %v, want [No DueDate]", got)
	}
	if _, ok := out["AL-2"]; ok {
		t.Fatalf("fully exempted issue must drop out of the index: %v", out)
	}
}

func TestApplyExemptionsScopes(t *testing.T) {
	index := model.ViolationIndex{"AL-1": {model.NoLabels}}

	// Wrong project: nothing removed.
	out, removed := ApplyExemptions(index, "AL", []storage.Exemption{{Code: "No Labels", ProjectKey: "ZZ"}})
	if removed != 0 || len(out["AL-1"]) != 1 {
		t.Fatalf("exemption for another project must not apply: %v", out)
	}

	// Issue-scoped, case-insensitive match.
	out, removed = ApplyExemptions(index, "AL", []storage.Exemption{{Code: "no labels", IssueKey: "al-1"}})
	if removed != 1 || len(out) != 0 {
		t.Fatalf("issue-scoped exemption should match case-insensitively: %v", out)
	}
}

func TestApplyExemptionsNoopWithoutExemptions(t *testing.T) {
	index := model.ViolationIndex{"AL-1": {model.NoLabels}}
	out, removed := ApplyExemptions(index, "AL", nil)
	if removed != 0 || len(out["AL-1"]) != 1 {
		t.Fatalf("no exemptions must be a no-op: %v", out)
	}
}
