package rules

import (
	"time"

	"github.com/be-Happy2/JiraCheckTool/internal/model"
)

// requiredComponent is matched case-sensitively against the issue's
// component names.
const requiredComponent = "chengdu"

// requiredSecurityLevel is the only accepted security level name.
const requiredSecurityLevel = "Askey-Secure"

func checkFixVersions(rec *model.IssueRecord, _ time.Time) []model.Violation {
	if len(rec.FixVersions) == 0 {
		return []model.Violation{model.NoFixVersions}
	}
	return nil
}

func checkComponentChengdu(rec *model.IssueRecord, _ time.Time) []model.Violation {
	for _, c := range rec.Components {
		if c == requiredComponent {
			return nil
		}
	}
	return []model.Violation{model.NoComponentChengdu}
}

// checkLabels cares about presence of the labels field, not its
// contents; an empty but set label list passes.
func checkLabels(rec *model.IssueRecord, _ time.Time) []model.Violation {
	if rec.Labels == nil {
		return []model.Violation{model.NoLabels}
	}
	return nil
}

func checkImplementer(rec *model.IssueRecord, _ time.Time) []model.Violation {
	if rec.Implementer == nil {
		return []model.Violation{model.NoImplementer}
	}
	return nil
}

// checkSecurityLevel treats an absent level the same as a wrong one.
func checkSecurityLevel(rec *model.IssueRecord, _ time.Time) []model.Violation {
	if rec.SecurityLevel == nil || *rec.SecurityLevel != requiredSecurityLevel {
		return []model.Violation{model.NoAskeySecure}
	}
	return nil
}
