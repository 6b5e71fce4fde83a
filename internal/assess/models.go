package assess

import "time"

type QuestionType string

const (
	QuestionTernary        QuestionType = "ternary_choice"
	QuestionLikert         QuestionType = "likert"
	QuestionForcedChoice   QuestionType = "forced_choice_quad"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTableCheckbox  QuestionType = "table_checkbox"
)

// Word pairs a forced-choice option with the dimension it loads on.
type Word struct {
	Text      string `json:"text"`
	Dimension string `json:"dimension"`
}

// QuestionMeta carries per-question scoring modifiers.
type QuestionMeta struct {
	Polarity    float64  `json:"polarity,omitempty"` // sign multiplier for ternary items; 0 means +1
	Reversed    bool     `json:"reversed,omitempty"` // likert item contributes 6-v instead of v
	ScaleLabels []string `json:"scale_labels,omitempty"`
}

// AnswerKey is the expected answer for objectively scored question types.
type AnswerKey struct {
	Choices []string         `json:"choices,omitempty"` // multiple_choice: accepted values
	Table   map[string][]int `json:"table,omitempty"`   // table_checkbox: column key -> expected row indices
}

// Question is immutable configuration owned by the test-configuration store;
// the engine only reads it.
type Question struct {
	ID            string             `json:"id"`
	Number        int                `json:"number"`
	Text          string             `json:"text"`
	Type          QuestionType       `json:"type"`
	Factor        string             `json:"factor,omitempty"`      // dimension code ("A", "D", "D3", ...)
	ScoringMap    map[string]float64 `json:"scoring_map,omitempty"` // ternary: option key -> points
	Words         []Word             `json:"words,omitempty"`       // forced-choice option set
	CorrectAnswer *AnswerKey         `json:"correct_answer,omitempty"`
	Points        float64            `json:"points,omitempty"` // default weight; 0 means 1
	Meta          QuestionMeta       `json:"meta,omitempty"`
}

// Answer is one raw response as recorded by the submission collaborator.
type Answer struct {
	QuestionID string      `json:"question_id"`
	Value      AnswerValue `json:"value"`
}

// Submission is the unit of work: one worker's completed attempt at one test.
type Submission struct {
	TestID          string            `json:"test_id"`
	WorkerID        string            `json:"worker_id"`
	WorkerProcessID string            `json:"worker_process_id,omitempty"`
	Answers         []Answer          `json:"answers"`
	StartedAt       time.Time         `json:"started_at"`
	CompletedAt     time.Time         `json:"completed_at"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// NormativeEntry holds the population mean/stddev for one factor.
type NormativeEntry struct {
	Factor string  `json:"factor"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

type NormativeTable map[string]NormativeEntry

// Bank is the question bank resolved for a submission's test, passed in by the
// caller. The engine never fetches anything itself.
type Bank struct {
	Questions []Question
	Norms     NormativeTable // 16-factor instruments only
}

func (b Bank) question(id string) (Question, bool) {
	for i := range b.Questions {
		if b.Questions[i].ID == id {
			return b.Questions[i], true
		}
	}
	return Question{}, false
}

// Interpretation is the human-readable half of a scoring result.
type Interpretation struct {
	Categories      map[string]string `json:"categories"`   // dimension -> qualitative level
	Descriptions    map[string]string `json:"descriptions"` // dimension -> text
	Recommendations []string          `json:"recommendations,omitempty"`
	Strengths       []string          `json:"strengths,omitempty"`
	GrowthAreas     []string          `json:"growth_areas,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// ScoringResult is the engine's sole output: a plain serializable value with
// no references back into the bank or submission. Constructed once, never
// mutated afterwards.
type ScoringResult struct {
	RawScores        map[string]float64 `json:"raw_scores"`
	ScaledScores     map[string]float64 `json:"scaled_scores"`
	Interpretation   Interpretation     `json:"interpretation"`
	CompletionTimeMs int64              `json:"completion_time_ms"`
}
