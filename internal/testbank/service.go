package testbank

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/hirelens/hirelens-assess/internal/assess"
)

// Scorer is the engine-side contract the service depends on.
type Scorer interface {
	Score(ctx context.Context, code string, sub assess.Submission, bank assess.Bank) (assess.ScoringResult, error)
}

// AuditSink receives one record per submission lifecycle transition. A nil
// sink disables auditing.
type AuditSink interface {
	Record(ctx context.Context, typ, key, detail string) error
}

// Service ties submissions to the scoring engine: it ingests raw submissions,
// runs the instrument's strategy and persists the outcome.
type Service struct {
	store  Store
	scorer Scorer
	audit  AuditSink
	log    *log.Logger
}

type ServiceOption func(*Service)

func WithAudit(sink AuditSink) ServiceOption {
	return func(s *Service) { s.audit = sink }
}

func NewService(store Store, scorer Scorer, logger *log.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = log.Default()
	}
	s := &Service{store: store, scorer: scorer, log: logger}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) record(ctx context.Context, typ, key, detail string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, typ, key, detail); err != nil {
		s.log.Printf("testbank: audit %s %s: %v", typ, key, err)
	}
}

// Ingest stores a raw submission and returns its record in the received state.
func (s *Service) Ingest(ctx context.Context, sub assess.Submission) (SubmissionRecord, error) {
	rec := SubmissionRecord{
		ID:         uuid.NewString(),
		Status:     StatusReceived,
		Submission: sub,
	}
	if err := s.store.CreateSubmission(ctx, rec); err != nil {
		return SubmissionRecord{}, err
	}
	s.record(ctx, "submission.received", rec.ID, "test="+sub.TestID+" worker="+sub.WorkerID)
	return rec, nil
}

// Score runs the instrument strategy for a stored submission and persists the
// result. An incomplete submission is marked insufficient rather than failed;
// configuration and clock errors mark it failed. Both surface the underlying
// error to the caller.
func (s *Service) Score(ctx context.Context, submissionID string) (ResultRecord, error) {
	rec, err := s.store.GetSubmission(ctx, submissionID)
	if err != nil {
		return ResultRecord{}, err
	}
	test, err := s.store.GetTestAdmin(ctx, rec.TestID)
	if err != nil {
		return ResultRecord{}, err
	}

	result, err := s.scorer.Score(ctx, test.Instrument, rec.Submission, test.Bank())
	if err != nil {
		status := StatusFailed
		var incomplete *assess.IncompleteError
		if errors.As(err, &incomplete) {
			status = StatusInsufficient
		}
		if serr := s.store.SetSubmissionStatus(ctx, submissionID, status); serr != nil {
			s.log.Printf("testbank: mark submission %s %s: %v", submissionID, status, serr)
		}
		s.record(ctx, "submission."+status, submissionID, err.Error())
		return ResultRecord{}, fmt.Errorf("score submission %s: %w", submissionID, err)
	}

	out := ResultRecord{SubmissionID: submissionID, Result: result}
	if err := s.store.PutResult(ctx, out); err != nil {
		return ResultRecord{}, err
	}
	if err := s.store.SetSubmissionStatus(ctx, submissionID, StatusScored); err != nil {
		return ResultRecord{}, err
	}
	s.record(ctx, "submission.scored", submissionID, "instrument="+test.Instrument)
	return out, nil
}

// Result returns the persisted outcome for a scored submission.
func (s *Service) Result(ctx context.Context, submissionID string) (ResultRecord, error) {
	return s.store.GetResult(ctx, submissionID)
}
