package report

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/be-Happy2/JiraCheckTool/internal/model"
)

// WriteJSON writes the full run as <runID>.json into outDir.
func WriteJSON(runID, outDir string, run *model.Run) (string, error) {
	path := filepath.Join(outDir, runID+".json")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(run); err != nil {
		return "", err
	}
	return path, nil
}

// WriteText writes the concatenated per-project text reports as
// <runID>.txt into outDir. Compliant projects are skipped, same as the
// notification path.
func WriteText(runID, outDir, tag string, run *model.Run) (string, error) {
	path := filepath.Join(outDir, runID+".txt")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	for _, pr := range run.Projects {
		if len(pr.Violations) == 0 {
			continue
		}
		if _, err := f.WriteString(Render(pr.Project.Name, tag, pr.Violations)); err != nil {
			return "", err
		}
	}
	return path, nil
}
