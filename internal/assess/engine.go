package assess

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/hirelens/hirelens-assess/internal/assess/interp"
)

// Instrument codes the built-in strategies register under.
const (
	InstrumentTrait16    = "16pf"      // ternary-choice trait inventory
	InstrumentRisk       = "cfr"       // reversible likert risk inventory
	InstrumentDisc       = "disc"      // forced-choice quad profile
	InstrumentAptitude   = "wonderlic" // multiple-choice aptitude test
	InstrumentTable      = "ic"        // criteria-matching table test
	InstrumentCompetency = "tac"       // multi-dimension likert competency test
)

// Strategy scores one complete submission against its question bank. A
// strategy is pure: same submission and bank in, same result out, no I/O.
type Strategy interface {
	Score(ctx context.Context, sub Submission, bank Bank) (ScoringResult, error)
}

// Engine routes by instrument code to the matching Strategy.
type Engine struct {
	strategies map[string]Strategy
	logger     *log.Logger
}

type Option func(*engineConfig)

type engineConfig struct {
	logger *log.Logger
	tables *interp.Tables
}

// WithLogger sets the logger malformed-answer records go to.
func WithLogger(l *log.Logger) Option { return func(c *engineConfig) { c.logger = l } }

// WithTables overrides the embedded interpretation tables.
func WithTables(t *interp.Tables) Option { return func(c *engineConfig) { c.tables = t } }

// NewEngine installs the six built-in strategies.
func NewEngine(opts ...Option) *Engine {
	cfg := &engineConfig{
		logger: log.Default(),
		tables: interp.Default(),
	}
	for _, o := range opts {
		o(cfg)
	}
	return &Engine{
		logger: cfg.logger,
		strategies: map[string]Strategy{
			InstrumentTrait16:    &trait16Strategy{tables: cfg.tables, log: cfg.logger},
			InstrumentRisk:       &riskStrategy{tables: cfg.tables, log: cfg.logger},
			InstrumentDisc:       &discStrategy{tables: cfg.tables, log: cfg.logger},
			InstrumentAptitude:   &aptitudeStrategy{tables: cfg.tables, log: cfg.logger},
			InstrumentTable:      &tableStrategy{tables: cfg.tables, log: cfg.logger},
			InstrumentCompetency: &competencyStrategy{tables: cfg.tables, log: cfg.logger},
		},
	}
}

// Register adds or replaces a strategy for an instrument code.
func (e *Engine) Register(code string, s Strategy) { e.strategies[code] = s }

// Score dispatches the submission to the strategy registered for code.
func (e *Engine) Score(ctx context.Context, code string, sub Submission, bank Bank) (ScoringResult, error) {
	s, ok := e.strategies[code]
	if !ok {
		return ScoringResult{}, fmt.Errorf("%w: %q", ErrUnknownInstrument, code)
	}
	return s.Score(ctx, sub, bank)
}

// validate runs the checks shared by every strategy: a non-empty bank, a
// sane clock, an answer count matching the expected question count, and
// every answer resolving to a bank question.
func validate(sub Submission, bank Bank) error {
	if len(bank.Questions) == 0 {
		return &ConfigError{Detail: "empty question bank"}
	}
	if sub.CompletedAt.Before(sub.StartedAt) {
		return &ClockOrderingError{StartedAt: sub.StartedAt, CompletedAt: sub.CompletedAt}
	}
	if len(sub.Answers) != len(bank.Questions) {
		return &IncompleteError{Expected: len(bank.Questions), Got: len(sub.Answers)}
	}
	for _, a := range sub.Answers {
		if _, ok := bank.question(a.QuestionID); !ok {
			return &ConfigError{Detail: "answer references question not in bank", QuestionID: a.QuestionID}
		}
	}
	return nil
}

// assemble builds the immutable result value handed to the caller.
func assemble(sub Submission, raw, scaled map[string]float64, in Interpretation) ScoringResult {
	return ScoringResult{
		RawScores:        raw,
		ScaledScores:     scaled,
		Interpretation:   in,
		CompletionTimeMs: sub.CompletedAt.Sub(sub.StartedAt).Milliseconds(),
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
