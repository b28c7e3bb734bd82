package storage

import (
	"database/sql"
	"time"
)

// Exemption suppresses one violation code, optionally narrowed to a
// project and/or a single issue, until it expires or is revoked.
type Exemption struct {
	ID         int64      `json:"id"`
	Code       string     `json:"code"`
	ProjectKey string     `json:"project_key,omitempty"`
	IssueKey   string     `json:"issue_key,omitempty"`
	Reason     string     `json:"reason"`
	ExpiresAt  time.Time  `json:"expires_at"`
	CreatedBy  string     `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
}

func (db *DB) CreateExemption(code, projectKey, issueKey, reason, createdBy string, expires time.Time) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := db.conn.Exec(`
INSERT INTO exemptions(code, project_key, issue_key, reason, expires_at, created_by, created_at)
VALUES(?,?,?,?,?,?,?)`,
		code, nz(projectKey), nz(issueKey), reason, expires.UTC().Format(time.RFC3339Nano), createdBy, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (db *DB) RevokeExemption(id int64) error {
	_, err := db.conn.Exec(`UPDATE exemptions SET revoked_at=? WHERE id=? AND revoked_at IS NULL`,
		time.Now().UTC().Format(time.RFC3339Nano), id)
	return err
}

func (db *DB) ListExemptions(activeOnly bool) ([]Exemption, error) {
	q := `
SELECT id, code, COALESCE(project_key,''), COALESCE(issue_key,''),
       reason, expires_at, created_by, created_at, revoked_at
FROM exemptions`
	args := []any{}
	if activeOnly {
		q += ` WHERE (revoked_at IS NULL) AND (expires_at > ?)`
		args = append(args, time.Now().UTC().Format(time.RFC3339Nano))
	}
	q += ` ORDER BY id DESC`
	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Exemption
	for rows.Next() {
		var (
			ex      Exemption
			exp, ca sql.NullString
			ra      sql.NullString
		)
		if err := rows.Scan(&ex.ID, &ex.Code, &ex.ProjectKey, &ex.IssueKey, &ex.Reason, &exp, &ex.CreatedBy, &ca, &ra); err != nil {
			return nil, err
		}
		if exp.Valid {
			ex.ExpiresAt = parseStoredTime(exp.String)
		}
		if ca.Valid {
			ex.CreatedAt = parseStoredTime(ca.String)
		}
		if ra.Valid {
			t := parseStoredTime(ra.String)
			ex.RevokedAt = &t
		}
		out = append(out, ex)
	}
	return out, rows.Err()
}

func nz(s string) any {
	if s == "" {
		return nil
	}
	return s
}
