package index

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/trajectory-cli/trajectory/internal/discover"
	"github.com/trajectory-cli/trajectory/internal/session"
)

const maxSummaryLen = 200

// Stats summarizes one cache refresh.
type Stats struct {
	Scanned int
	Updated int
	Skipped int
	Pruned  int
	Errors  int
}

func (s Stats) String() string {
	return fmt.Sprintf("scanned=%d updated=%d skipped=%d pruned=%d errors=%d",
		s.Scanned, s.Updated, s.Skipped, s.Pruned, s.Errors)
}

// Refresh scans the Claude projects root and brings the cache up to date:
// sessions whose file mtime/size changed are re-parsed, rows for deleted
// files are pruned.
func Refresh(db *DB, claudeRoot string) (Stats, error) {
	var stats Stats

	files, err := discover.ScanRoot(claudeRoot)
	if err != nil {
		return stats, fmt.Errorf("scan: %w", err)
	}
	stats.Scanned = len(files)

	seen := make(map[string]struct{})

	for _, fi := range files {
		sessionID := strings.TrimSuffix(filepath.Base(fi.Path), ".jsonl")
		seen[sessionID] = struct{}{}

		info, err := db.GetFileInfo(sessionID)
		if err != nil {
			stats.Errors++
			continue
		}
		if info != nil && info.Mtime == fi.Mtime && info.Size == fi.Size {
			stats.Skipped++
			continue
		}

		data, err := session.ParseFile(fi.Path)
		if err != nil {
			stats.Errors++
			fmt.Fprintf(os.Stderr, "  WARN: parse %s: %v\n", fi.Path, err)
			continue
		}

		if err := db.Upsert(SessionRow{
			SessionID:  sessionID,
			ProjectDir: fi.ProjectDir,
			FilePath:   fi.Path,
			Branch:     data.GitBranch,
			Summary:    summarize(data),
			StartedAt:  data.StartTime,
			UpdatedAt:  data.EndTime,
			Prompts:    len(data.UserPrompts),
			Changes:    len(data.FileChanges),
			Mtime:      fi.Mtime,
			Size:       fi.Size,
		}); err != nil {
			stats.Errors++
			fmt.Fprintf(os.Stderr, "  WARN: cache %s: %v\n", fi.Path, err)
			continue
		}
		stats.Updated++
	}

	pruned, err := prune(db, seen)
	if err != nil {
		return stats, fmt.Errorf("prune: %w", err)
	}
	stats.Pruned = pruned

	return stats, nil
}

// summarize derives a one-line summary: the first user prompt, flattened.
func summarize(data *session.SessionData) string {
	if len(data.UserPrompts) == 0 {
		return ""
	}
	s := session.ClipRunes(data.UserPrompts[0].Text, maxSummaryLen)
	return strings.ReplaceAll(s, "\n", " ")
}

func prune(db *DB, seen map[string]struct{}) (int, error) {
	all, err := db.AllSessionIDs()
	if err != nil {
		return 0, err
	}

	pruned := 0
	for id := range all {
		if _, ok := seen[id]; !ok {
			if err := db.Delete(id); err != nil {
				return pruned, err
			}
			pruned++
		}
	}
	return pruned, nil
}
