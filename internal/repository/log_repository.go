package repository

import (
	"context"
	"database/sql"

	"github.com/veladapass/ticketops/internal/model"
)

// LogRepo persists the audit trail. Rows are insert-only; nothing in
// the application path ever updates or deletes them.
type LogRepo struct{ DB *sql.DB }

func NewLogRepo(db *sql.DB) *LogRepo { return &LogRepo{DB: db} }

// Insert appends one activity entry.
func (r *LogRepo) Insert(ctx context.Context, e model.ActivityLog) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO activity_logs (action, user_email, user_full_name, type, event_id, details)
		 VALUES (?,?,?,?,?,?)`,
		e.Action, e.UserEmail, e.UserFullName, e.Type, e.EventID, e.Details)
	return err
}

// ListRecent returns the newest entries, most recent first.
func (r *LogRepo) ListRecent(ctx context.Context, limit int) ([]model.ActivityLog, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, created_at, action, user_email, user_full_name, type, event_id, details
		 FROM activity_logs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	logs := make([]model.ActivityLog, 0, limit)
	for rows.Next() {
		var e model.ActivityLog
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Action, &e.UserEmail,
			&e.UserFullName, &e.Type, &e.EventID, &e.Details); err != nil {
			return nil, err
		}
		logs = append(logs, e)
	}
	return logs, rows.Err()
}
