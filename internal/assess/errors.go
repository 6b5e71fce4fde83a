package assess

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownInstrument is returned when no strategy is registered for the
// requested instrument code.
var ErrUnknownInstrument = errors.New("unknown instrument code")

// ConfigError means the question bank or normative table is missing something
// the instrument requires. Fatal for the submission: the engine never
// substitutes a default that would change the meaning of the result.
type ConfigError struct {
	Detail     string
	Factor     string // set when a normative row is involved
	QuestionID string // set when a specific question is involved
}

func (e *ConfigError) Error() string {
	switch {
	case e.Factor != "":
		return fmt.Sprintf("bank configuration: %s (factor %q)", e.Detail, e.Factor)
	case e.QuestionID != "":
		return fmt.Sprintf("bank configuration: %s (question %q)", e.Detail, e.QuestionID)
	default:
		return "bank configuration: " + e.Detail
	}
}

// IncompleteError means the answer count does not match the instrument's
// expected question count. Surfaced distinctly so callers can record the
// submission as insufficient rather than scored.
type IncompleteError struct {
	Expected int
	Got      int
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("incomplete submission: %d answers, expected %d", e.Got, e.Expected)
}

// ClockOrderingError means completedAt precedes startedAt. That is a caller
// bug, so it is surfaced instead of clamped.
type ClockOrderingError struct {
	StartedAt   time.Time
	CompletedAt time.Time
}

func (e *ClockOrderingError) Error() string {
	return fmt.Sprintf("completed_at %s precedes started_at %s",
		e.CompletedAt.Format(time.RFC3339), e.StartedAt.Format(time.RFC3339))
}
