package discover

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrNoSession is returned when no session log matches the request. It is the
// one hard failure of the pipeline boundary.
var ErrNoSession = errors.New("no session found")

// Session describes one session log file on disk.
type Session struct {
	ID       string
	Path     string
	Modified time.Time
	Size     int64
}

// ProjectDirName converts a project path to the dashed directory name Claude
// Code uses under its projects root.
func ProjectDirName(projectPath string) string {
	return strings.TrimLeft(strings.ReplaceAll(projectPath, "/", "-"), "-")
}

// projectDir finds the projects-root subdirectory for a project path: exact
// name first, then a substring match in either direction.
func projectDir(root, projectPath string) (string, error) {
	name := ProjectDirName(projectPath)

	direct := filepath.Join(root, name)
	if info, err := os.Stat(direct); err == nil && info.IsDir() {
		return direct, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return "", ErrNoSession
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if strings.Contains(e.Name(), name) || strings.Contains(name, e.Name()) {
			return filepath.Join(root, e.Name()), nil
		}
	}

	return "", ErrNoSession
}

// FindLatest returns the most recently modified session log for a project.
func FindLatest(root, projectPath string) (string, error) {
	sessions, err := List(root, projectPath, 1)
	if err != nil {
		return "", err
	}
	if len(sessions) == 0 {
		return "", ErrNoSession
	}
	return sessions[0].Path, nil
}

// Resolve maps a full or partial session ID to its log file.
func Resolve(root, sessionID, projectPath string) (string, error) {
	dir, err := projectDir(root, projectPath)
	if err != nil {
		return "", err
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.jsonl"))
	if err != nil {
		return "", err
	}
	for _, m := range matches {
		stem := strings.TrimSuffix(filepath.Base(m), ".jsonl")
		if strings.HasPrefix(stem, sessionID) || strings.Contains(stem, sessionID) {
			return m, nil
		}
	}

	return "", ErrNoSession
}

// List returns a project's sessions sorted newest first. limit <= 0 means
// no limit.
func List(root, projectPath string, limit int) ([]Session, error) {
	dir, err := projectDir(root, projectPath)
	if err != nil {
		return nil, err
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.jsonl"))
	if err != nil {
		return nil, err
	}

	var sessions []Session
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		sessions = append(sessions, Session{
			ID:       strings.TrimSuffix(filepath.Base(m), ".jsonl"),
			Path:     m,
			Modified: info.ModTime(),
			Size:     info.Size(),
		})
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Modified.After(sessions[j].Modified)
	})

	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

// LogFile is one session log found by a full scan of the projects root.
type LogFile struct {
	Path       string
	ProjectDir string // directory name under the root
	Mtime      int64
	Size       int64
}

// ScanRoot walks the whole projects root, skipping subagent logs and index
// files. Used to refresh the session cache.
func ScanRoot(root string) ([]LogFile, error) {
	var files []LogFile
	err := filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable dirs
		}
		if info.IsDir() {
			if filepath.Base(p) == "subagents" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(p) != ".jsonl" {
			return nil
		}
		if strings.Contains(filepath.Base(p), "sessions-index") {
			return nil
		}

		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			rel = p
		}
		projDir := ""
		if i := strings.IndexByte(rel, filepath.Separator); i > 0 {
			projDir = rel[:i]
		}

		files = append(files, LogFile{
			Path:       p,
			ProjectDir: projDir,
			Mtime:      info.ModTime().Unix(),
			Size:       info.Size(),
		})
		return nil
	})
	if err != nil && os.IsNotExist(err) {
		return nil, nil
	}
	return files, err
}
