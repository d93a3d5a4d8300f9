package session

import "strings"

// ChangeSummary aggregates every change to one file path.
type ChangeSummary struct {
	Path    string
	Edits   int
	Created bool
}

// SummarizeChanges groups file changes by project-relative path, preserving
// first-seen order.
func SummarizeChanges(data *SessionData) []ChangeSummary {
	var out []ChangeSummary
	idx := map[string]int{}

	for _, change := range data.FileChanges {
		rel := RelativePath(change.FilePath, data.ProjectPath)
		i, ok := idx[rel]
		if !ok {
			i = len(out)
			idx[rel] = i
			out = append(out, ChangeSummary{Path: rel})
		}
		if change.ChangeType == "create" {
			out[i].Created = true
		} else {
			out[i].Edits++
		}
	}

	return out
}

// RelativePath strips the project path prefix from a file path.
func RelativePath(filePath, projectPath string) string {
	if projectPath != "" && strings.HasPrefix(filePath, projectPath) {
		return strings.TrimLeft(filePath[len(projectPath):], "/")
	}
	return filePath
}
