package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS sessions (
    session_id  TEXT PRIMARY KEY,
    project_dir TEXT NOT NULL DEFAULT '',
    file_path   TEXT NOT NULL,
    branch      TEXT NOT NULL DEFAULT '',
    summary     TEXT NOT NULL DEFAULT '',
    started_at  TEXT NOT NULL DEFAULT '',
    updated_at  TEXT NOT NULL DEFAULT '',
    prompts     INTEGER NOT NULL DEFAULT 0,
    changes     INTEGER NOT NULL DEFAULT 0,
    mtime       INTEGER NOT NULL DEFAULT 0,
    size        INTEGER NOT NULL DEFAULT 0
);
`

// DB is the session metadata cache backing list and the picker. It stores
// derived metadata only; the rendering pipeline never reads it.
type DB struct {
	db *sql.DB
}

func OpenDB(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// FileInfo is the change-detection pair for one cached session.
type FileInfo struct {
	Mtime int64
	Size  int64
}

func (d *DB) GetFileInfo(sessionID string) (*FileInfo, error) {
	var info FileInfo
	err := d.db.QueryRow(
		"SELECT mtime, size FROM sessions WHERE session_id = ?",
		sessionID,
	).Scan(&info.Mtime, &info.Size)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// SessionRow is one cached session.
type SessionRow struct {
	SessionID  string
	ProjectDir string
	FilePath   string
	Branch     string
	Summary    string
	StartedAt  string
	UpdatedAt  string
	Prompts    int
	Changes    int
	Mtime      int64
	Size       int64
}

func (d *DB) Upsert(row SessionRow) error {
	_, err := d.db.Exec(
		`INSERT OR REPLACE INTO sessions
		 (session_id, project_dir, file_path, branch, summary, started_at, updated_at, prompts, changes, mtime, size)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.SessionID, row.ProjectDir, row.FilePath, row.Branch, row.Summary,
		row.StartedAt, row.UpdatedAt, row.Prompts, row.Changes, row.Mtime, row.Size,
	)
	return err
}

func (d *DB) Delete(sessionID string) error {
	_, err := d.db.Exec("DELETE FROM sessions WHERE session_id = ?", sessionID)
	return err
}

func (d *DB) AllSessionIDs() (map[string]struct{}, error) {
	rows, err := d.db.Query("SELECT session_id FROM sessions")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

func (d *DB) SessionCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&n)
	return n, err
}

// ListOptions narrows ListSessions. Filter is a substring match over branch,
// summary, and project directory.
type ListOptions struct {
	ProjectDir string
	Filter     string
	Limit      int
}

func (d *DB) ListSessions(opts ListOptions) ([]SessionRow, error) {
	query := `SELECT session_id, project_dir, file_path, branch, summary, started_at, updated_at, prompts, changes, mtime, size
	          FROM sessions WHERE 1=1`
	var args []any

	if opts.ProjectDir != "" {
		query += " AND project_dir = ?"
		args = append(args, opts.ProjectDir)
	}
	if opts.Filter != "" {
		query += " AND (branch LIKE ? OR summary LIKE ? OR project_dir LIKE ?)"
		pat := "%" + opts.Filter + "%"
		args = append(args, pat, pat, pat)
	}

	query += " ORDER BY mtime DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []SessionRow
	for rows.Next() {
		var r SessionRow
		if err := rows.Scan(&r.SessionID, &r.ProjectDir, &r.FilePath, &r.Branch, &r.Summary,
			&r.StartedAt, &r.UpdatedAt, &r.Prompts, &r.Changes, &r.Mtime, &r.Size); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
