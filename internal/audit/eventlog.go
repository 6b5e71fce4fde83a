package audit

import (
	"context"
	"database/sql"
	"time"
)

// Event is one append-only audit record: who did what to which submission.
type Event struct {
	Offset    int64
	Type      string // submission.received | submission.scored | submission.insufficient | submission.failed
	Key       string // submission id
	Detail    string
	CreatedAt int64
}

type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

func (r *EventRepo) Record(ctx context.Context, typ, key, detail string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (typ, key, detail, created_at)
		 VALUES ($1,$2,$3,$4)`,
		typ, key, detail, time.Now().Unix())
	return err
}

// Tail returns the most recent events, newest first.
func (r *EventRepo) Tail(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT offset_id, typ, key, detail, created_at FROM audit_log ORDER BY offset_id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Offset, &e.Type, &e.Key, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
