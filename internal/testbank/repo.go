package testbank

import "context"

type ListOpts struct {
	Instrument string // filter by instrument code
	Limit      int
	Offset     int
}

type SubmissionListOpts struct {
	TestID   string // filter by test
	WorkerID string // filter by worker
	Status   string // optional: received|scored|insufficient|failed
	Limit    int
	Offset   int
}

type TestSummary struct {
	ID         string `json:"id"`
	Instrument string `json:"instrument"`
	Title      string `json:"title"`
	Questions  int    `json:"questions"`
	CreatedAt  int64  `json:"created_at,omitempty"`
}

// Store persists tests, submissions and results. GetTest is worker-safe: it
// strips scoring maps, answer keys and norms. GetTestAdmin returns the full
// configuration for scoring and HR review.
type Store interface {
	PutTest(ctx context.Context, t Test) error
	GetTest(ctx context.Context, id string) (Test, error)
	GetTestAdmin(ctx context.Context, id string) (Test, error)
	ListTests(ctx context.Context, opts ListOpts) ([]TestSummary, error)

	CreateSubmission(ctx context.Context, rec SubmissionRecord) error
	GetSubmission(ctx context.Context, id string) (SubmissionRecord, error)
	SetSubmissionStatus(ctx context.Context, id, status string) error
	ListSubmissions(ctx context.Context, opts SubmissionListOpts) ([]SubmissionRecord, error)

	PutResult(ctx context.Context, rec ResultRecord) error
	GetResult(ctx context.Context, submissionID string) (ResultRecord, error)
}
