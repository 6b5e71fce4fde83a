package testbank

import (
	"github.com/hirelens/hirelens-assess/internal/assess"
)

// Submission lifecycle states.
const (
	StatusReceived     = "received"
	StatusScored       = "scored"
	StatusInsufficient = "insufficient" // answer count did not match the form
	StatusFailed       = "failed"       // configuration or clock error
)

// Test is a configured instrument: the question bank plus the instrument code
// that selects its scoring strategy.
type Test struct {
	ID         string                `json:"id"`
	Instrument string                `json:"instrument"` // 16pf|cfr|disc|wonderlic|ic|tac
	Title      string                `json:"title"`
	Questions  []assess.Question     `json:"questions"`
	Norms      assess.NormativeTable `json:"norms,omitempty"`

	CreatedAt int64 `json:"created_at,omitempty"`
}

// Bank returns the engine-facing view of the test.
func (t Test) Bank() assess.Bank {
	return assess.Bank{Questions: t.Questions, Norms: t.Norms}
}

// SubmissionRecord is a stored submission plus its lifecycle status.
type SubmissionRecord struct {
	ID     string `json:"id"`
	Status string `json:"status"`

	assess.Submission
}

// ResultRecord is a scored submission's persisted outcome.
type ResultRecord struct {
	SubmissionID string               `json:"submission_id"`
	Result       assess.ScoringResult `json:"result"`
	CreatedAt    int64                `json:"created_at,omitempty"`
}
