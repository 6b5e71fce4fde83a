package testbank

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/hirelens/hirelens-assess/internal/assess"
)

var (
	ErrTestNotFound       = errors.New("test not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrResultNotFound     = errors.New("result not found")
	ErrDuplicateID        = errors.New("duplicate id")
)

type memoryStore struct {
	mu          sync.RWMutex
	tests       map[string]Test
	submissions map[string]SubmissionRecord
	results     map[string]ResultRecord
}

func NewInMemoryStore() Store {
	return &memoryStore{
		tests:       map[string]Test{},
		submissions: map[string]SubmissionRecord{},
		results:     map[string]ResultRecord{},
	}
}

func (m *memoryStore) PutTest(_ context.Context, t Test) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.CreatedAt == 0 {
		t.CreatedAt = time.Now().Unix()
	}
	m.tests[t.ID] = t
	return nil
}

func (m *memoryStore) GetTest(_ context.Context, id string) (Test, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tests[id]
	if !ok {
		return Test{}, ErrTestNotFound
	}
	return sanitize(t), nil
}

func (m *memoryStore) GetTestAdmin(_ context.Context, id string) (Test, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tests[id]
	if !ok {
		return Test{}, ErrTestNotFound
	}
	return t, nil
}

func (m *memoryStore) ListTests(_ context.Context, opts ListOpts) ([]TestSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]TestSummary, 0, len(m.tests))
	for _, t := range m.tests {
		if opts.Instrument != "" && t.Instrument != opts.Instrument {
			continue
		}
		out = append(out, TestSummary{
			ID:         t.ID,
			Instrument: t.Instrument,
			Title:      t.Title,
			Questions:  len(t.Questions),
			CreatedAt:  t.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return window(out, opts.Limit, opts.Offset), nil
}

func (m *memoryStore) CreateSubmission(_ context.Context, rec SubmissionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.submissions[rec.ID]; ok {
		return ErrDuplicateID
	}
	if _, ok := m.tests[rec.TestID]; !ok {
		return ErrTestNotFound
	}
	m.submissions[rec.ID] = rec
	return nil
}

func (m *memoryStore) GetSubmission(_ context.Context, id string) (SubmissionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.submissions[id]
	if !ok {
		return SubmissionRecord{}, ErrSubmissionNotFound
	}
	return rec, nil
}

func (m *memoryStore) SetSubmissionStatus(_ context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.submissions[id]
	if !ok {
		return ErrSubmissionNotFound
	}
	rec.Status = status
	m.submissions[id] = rec
	return nil
}

func (m *memoryStore) ListSubmissions(_ context.Context, opts SubmissionListOpts) ([]SubmissionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]SubmissionRecord, 0, len(m.submissions))
	for _, rec := range m.submissions {
		if opts.TestID != "" && rec.TestID != opts.TestID {
			continue
		}
		if opts.WorkerID != "" && rec.WorkerID != opts.WorkerID {
			continue
		}
		if opts.Status != "" && rec.Status != opts.Status {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return window(out, opts.Limit, opts.Offset), nil
}

func (m *memoryStore) PutResult(_ context.Context, rec ResultRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.submissions[rec.SubmissionID]; !ok {
		return ErrSubmissionNotFound
	}
	if rec.CreatedAt == 0 {
		rec.CreatedAt = time.Now().Unix()
	}
	m.results[rec.SubmissionID] = rec
	return nil
}

func (m *memoryStore) GetResult(_ context.Context, submissionID string) (ResultRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.results[submissionID]
	if !ok {
		return ResultRecord{}, ErrResultNotFound
	}
	return rec, nil
}

// sanitize strips everything a worker taking the test must not see: scoring
// maps, answer keys, polarity flags and norms.
func sanitize(t Test) Test {
	qs := make([]assess.Question, len(t.Questions))
	copy(qs, t.Questions)
	for i := range qs {
		qs[i].ScoringMap = nil
		qs[i].CorrectAnswer = nil
		qs[i].Meta.Polarity = 0
		qs[i].Meta.Reversed = false
	}
	t.Questions = qs
	t.Norms = nil
	return t
}

func window[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return []T{}
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
