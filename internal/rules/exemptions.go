package rules

import (
	"strings"

	"github.com/be-Happy2/JiraCheckTool/internal/model"
	"github.com/be-Happy2/JiraCheckTool/internal/storage"
)

// ApplyExemptions filters violations matched by an active exemption and
// returns the filtered index plus the count removed. An issue whose
// violations are all exempted drops out of the index entirely; the
// catalog itself never sees exemptions, they are a boundary concern.
func ApplyExemptions(index model.ViolationIndex, projectKey string, exemptions []storage.Exemption) (model.ViolationIndex, int) {
	if len(exemptions) == 0 || len(index) == 0 {
		return index, 0
	}
	out := make(model.ViolationIndex, len(index))
	removed := 0
	for key, vs := range index {
		var kept []model.Violation
	nextViolation:
		for _, v := range vs {
			for _, ex := range exemptions {
				if !eqCI(string(v), ex.Code) {
					continue
				}
				if ex.ProjectKey != "" && !eqCI(projectKey, ex.ProjectKey) {
					continue
				}
				if ex.IssueKey != "" && !eqCI(key, ex.IssueKey) {
					continue
				}
				removed++
				continue nextViolation
			}
			kept = append(kept, v)
		}
		if len(kept) > 0 {
			out[key] = kept
		}
	}
	return out, removed
}

func eqCI(a, b string) bool { return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) }
