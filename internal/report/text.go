package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/be-Happy2/JiraCheckTool/internal/model"
)

// Render turns one project's violation index into the text block sent to
// the notification robot. The tag must match the robot's keyword filter
// or the channel drops the message. Issue keys are sorted so two renders
// of the same index are byte-identical. Callers must not render an empty
// index; empty reports are never sent.
func Render(projectName, tag string, index model.ViolationIndex) string {
	var b strings.Builder
	fmt.Fprintf(&b, "---------- %s ----------\n", tag)
	b.WriteString(projectName)
	b.WriteString("\n")

	keys := make([]string, 0, len(index))
	for k := range index {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		codes := index[k]
		parts := make([]string, len(codes))
		for i, c := range codes {
			parts[i] = string(c)
		}
		fmt.Fprintf(&b, "    %s: %s\n", k, strings.Join(parts, ", "))
	}
	return b.String()
}
