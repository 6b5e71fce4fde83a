package testbank

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hirelens/hirelens-assess/internal/assess"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) PutTest(ctx context.Context, t Test) error {
	qj, err := json.Marshal(t.Questions)
	if err != nil {
		return err
	}
	nj := []byte("")
	if t.Norms != nil {
		if nj, err = json.Marshal(t.Norms); err != nil {
			return err
		}
	}
	created := t.CreatedAt
	if created == 0 {
		created = time.Now().Unix()
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO tests (id,instrument,title,questions_json,norms_json,created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET instrument=EXCLUDED.instrument, title=EXCLUDED.title, questions_json=EXCLUDED.questions_json, norms_json=EXCLUDED.norms_json`,
		t.ID, t.Instrument, t.Title, string(qj), string(nj), created)
	return err
}

func (s *SQLStore) GetTest(ctx context.Context, id string) (Test, error) {
	t, err := s.GetTestAdmin(ctx, id)
	if err != nil {
		return Test{}, err
	}
	return sanitize(t), nil
}

func (s *SQLStore) GetTestAdmin(ctx context.Context, id string) (Test, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,instrument,title,questions_json,norms_json,created_at FROM tests WHERE id=$1`, id)
	var t Test
	var qjson, njson string
	if err := row.Scan(&t.ID, &t.Instrument, &t.Title, &qjson, &njson, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Test{}, ErrTestNotFound
		}
		return Test{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &t.Questions); err != nil {
		return Test{}, fmt.Errorf("decode questions for test %s: %w", id, err)
	}
	if njson != "" {
		if err := json.Unmarshal([]byte(njson), &t.Norms); err != nil {
			return Test{}, fmt.Errorf("decode norms for test %s: %w", id, err)
		}
	}
	return t, nil
}

func (s *SQLStore) ListTests(ctx context.Context, opts ListOpts) ([]TestSummary, error) {
	limit, offset := opts.Limit, opts.Offset
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT id,instrument,title,questions_json,created_at FROM tests`
	args := []interface{}{}
	if opts.Instrument != "" {
		q += ` WHERE instrument=$1`
		args = append(args, opts.Instrument)
	}
	q += fmt.Sprintf(` ORDER BY created_at DESC, id LIMIT %d OFFSET %d`, limit, offset)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []TestSummary{}
	for rows.Next() {
		var sum TestSummary
		var qjson string
		if err := rows.Scan(&sum.ID, &sum.Instrument, &sum.Title, &qjson, &sum.CreatedAt); err != nil {
			return nil, err
		}
		var qs []assess.Question
		if err := json.Unmarshal([]byte(qjson), &qs); err == nil {
			sum.Questions = len(qs)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *SQLStore) CreateSubmission(ctx context.Context, rec SubmissionRecord) error {
	// ensure test exists
	var exist int
	if err := s.db.QueryRowContext(ctx, `SELECT 1 FROM tests WHERE id=$1`, rec.TestID).Scan(&exist); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTestNotFound
		}
		return err
	}
	aj, err := json.Marshal(rec.Answers)
	if err != nil {
		return err
	}
	mj := []byte("")
	if rec.Metadata != nil {
		if mj, err = json.Marshal(rec.Metadata); err != nil {
			return err
		}
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO submissions (id,test_id,worker_id,worker_process_id,status,answers_json,metadata_json,started_at,completed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		rec.ID, rec.TestID, rec.WorkerID, rec.WorkerProcessID, rec.Status,
		string(aj), string(mj), rec.StartedAt.Unix(), rec.CompletedAt.Unix())
	return err
}

func (s *SQLStore) GetSubmission(ctx context.Context, id string) (SubmissionRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,test_id,worker_id,worker_process_id,status,answers_json,metadata_json,started_at,completed_at FROM submissions WHERE id=$1`, id)
	return scanSubmission(row.Scan)
}

func (s *SQLStore) SetSubmissionStatus(ctx context.Context, id, status string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE submissions SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSubmissionNotFound
	}
	return nil
}

func (s *SQLStore) ListSubmissions(ctx context.Context, opts SubmissionListOpts) ([]SubmissionRecord, error) {
	limit, offset := opts.Limit, opts.Offset
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT id,test_id,worker_id,worker_process_id,status,answers_json,metadata_json,started_at,completed_at FROM submissions WHERE 1=1`
	args := []interface{}{}
	n := 0
	add := func(clause, val string) {
		n++
		q += fmt.Sprintf(" AND %s=$%d", clause, n)
		args = append(args, val)
	}
	if opts.TestID != "" {
		add("test_id", opts.TestID)
	}
	if opts.WorkerID != "" {
		add("worker_id", opts.WorkerID)
	}
	if opts.Status != "" {
		add("status", opts.Status)
	}
	q += fmt.Sprintf(` ORDER BY completed_at DESC, id LIMIT %d OFFSET %d`, limit, offset)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []SubmissionRecord{}
	for rows.Next() {
		rec, err := scanSubmission(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLStore) PutResult(ctx context.Context, rec ResultRecord) error {
	rawJSON, err := json.Marshal(rec.Result.RawScores)
	if err != nil {
		return err
	}
	scaledJSON, err := json.Marshal(rec.Result.ScaledScores)
	if err != nil {
		return err
	}
	interpJSON, err := json.Marshal(rec.Result.Interpretation)
	if err != nil {
		return err
	}
	created := rec.CreatedAt
	if created == 0 {
		created = time.Now().Unix()
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO results (submission_id,raw_json,scaled_json,interpretation_json,completion_time_ms,created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (submission_id) DO UPDATE SET raw_json=EXCLUDED.raw_json, scaled_json=EXCLUDED.scaled_json, interpretation_json=EXCLUDED.interpretation_json, completion_time_ms=EXCLUDED.completion_time_ms`,
		rec.SubmissionID, string(rawJSON), string(scaledJSON), string(interpJSON), rec.Result.CompletionTimeMs, created)
	return err
}

func (s *SQLStore) GetResult(ctx context.Context, submissionID string) (ResultRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT submission_id,raw_json,scaled_json,interpretation_json,completion_time_ms,created_at FROM results WHERE submission_id=$1`, submissionID)
	var rec ResultRecord
	var rawJSON, scaledJSON, interpJSON string
	if err := row.Scan(&rec.SubmissionID, &rawJSON, &scaledJSON, &interpJSON, &rec.Result.CompletionTimeMs, &rec.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ResultRecord{}, ErrResultNotFound
		}
		return ResultRecord{}, err
	}
	if err := json.Unmarshal([]byte(rawJSON), &rec.Result.RawScores); err != nil {
		return ResultRecord{}, err
	}
	if err := json.Unmarshal([]byte(scaledJSON), &rec.Result.ScaledScores); err != nil {
		return ResultRecord{}, err
	}
	if err := json.Unmarshal([]byte(interpJSON), &rec.Result.Interpretation); err != nil {
		return ResultRecord{}, err
	}
	return rec, nil
}

func scanSubmission(scan func(dest ...interface{}) error) (SubmissionRecord, error) {
	var rec SubmissionRecord
	var ajson, mjson string
	var started, completed int64
	if err := scan(&rec.ID, &rec.TestID, &rec.WorkerID, &rec.WorkerProcessID, &rec.Status,
		&ajson, &mjson, &started, &completed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SubmissionRecord{}, ErrSubmissionNotFound
		}
		return SubmissionRecord{}, err
	}
	if err := json.Unmarshal([]byte(ajson), &rec.Answers); err != nil {
		return SubmissionRecord{}, err
	}
	if mjson != "" {
		if err := json.Unmarshal([]byte(mjson), &rec.Metadata); err != nil {
			return SubmissionRecord{}, err
		}
	}
	rec.StartedAt = time.Unix(started, 0).UTC()
	rec.CompletedAt = time.Unix(completed, 0).UTC()
	return rec, nil
}
