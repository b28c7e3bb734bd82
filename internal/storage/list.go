package storage

import (
	"database/sql"
	"time"
)

// ListRuns returns a lightweight list of runs with violation counts.
func (db *DB) ListRuns(limit, offset int) ([]RunRow, error) {
	const q = `
		SELECT r.id, r.started_at, r.window_days, r.query_type,
		       (SELECT COUNT(1) FROM violations v WHERE v.run_id = r.id) AS violations
		  FROM runs r
		 ORDER BY r.started_at DESC, r.id DESC
		 LIMIT ? OFFSET ?`
	rows, err := db.conn.Query(q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var rr RunRow
		var startedAtStr string
		if err := rows.Scan(&rr.ID, &startedAtStr, &rr.WindowDays, &rr.QueryType, &rr.Violations); err != nil {
			return nil, err
		}
		rr.StartedAt = parseStoredTime(startedAtStr)
		out = append(out, rr)
	}
	return out, rows.Err()
}

// ListViolations returns the flattened violations for a run, optionally
// filtered to one project key.
func (db *DB) ListViolations(runID, projectKey string) ([]ViolationRow, error) {
	q := `
		SELECT project_key, issue_key, code, position
		  FROM violations
		 WHERE run_id = ?`
	args := []any{runID}
	if projectKey != "" {
		q += ` AND project_key = ?`
		args = append(args, projectKey)
	}
	q += ` ORDER BY project_key, issue_key, position`
	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ViolationRow
	for rows.Next() {
		var v ViolationRow
		if err := rows.Scan(&v.ProjectKey, &v.IssueKey, &v.Code, &v.Position); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// HasRun reports whether a run exists.
func (db *DB) HasRun(id string) (bool, error) {
	const q = `SELECT 1 FROM runs WHERE id = ? LIMIT 1`
	var one int
	err := db.conn.QueryRow(q, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// parseStoredTime accepts RFC3339Nano first, then RFC3339; zero time if
// neither parses (shouldn't happen).
func parseStoredTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
