package assess

import (
	"context"
	"log"
	"strconv"

	"github.com/hirelens/hirelens-assess/internal/assess/interp"
)

// tableStrategy scores the criteria-matching table test: the answer is a map
// of column key -> selected row indices compared against an expected map of
// the same shape. Only (column, row) pairs present in both count toward the
// score; missed and extra marks are reported but never subtract.
type tableStrategy struct {
	tables *interp.Tables
	log    *log.Logger
}

func (s *tableStrategy) Score(_ context.Context, sub Submission, bank Bank) (ScoringResult, error) {
	if err := validate(sub, bank); err != nil {
		return ScoringResult{}, err
	}

	score, expectedTotal := 0, 0
	missed, extra := 0, 0
	malformed := 0
	for _, a := range sub.Answers {
		q, _ := bank.question(a.QuestionID)
		if q.CorrectAnswer == nil || len(q.CorrectAnswer.Table) == 0 {
			return ScoringResult{}, &ConfigError{Detail: "question has no expected marks table", QuestionID: q.ID}
		}
		expected := q.CorrectAnswer.Table

		sel, ok := a.Value.table()
		if !ok {
			if a.Value.Kind != ValueEmpty {
				malformed++
				s.log.Printf("assess: malformed table answer for question %s", q.ID)
			}
			sel = nil // contributes zero; expected marks still count
		}

		for _, col := range sortedKeys(expected) {
			rows := expected[col]
			expectedTotal += len(rows)
			selRows := intSet(sel[col])
			for _, r := range rows {
				if _, hit := selRows[r]; hit {
					score++
				} else {
					missed++
				}
			}
		}
		for _, col := range sortedKeys(sel) {
			expRows := intSet(expected[col])
			for _, r := range sel[col] {
				if _, want := expRows[r]; !want {
					extra++
				}
			}
		}
	}

	if expectedTotal == 0 {
		return ScoringResult{}, &ConfigError{Detail: "expected marks table is empty"}
	}

	pct := round2(100 * float64(score) / float64(expectedTotal))
	band := interp.BandFor(s.tables.TableTest.Bands, pct)

	meta := map[string]string{
		"expected_marks": strconv.Itoa(expectedTotal),
		"missed_marks":   strconv.Itoa(missed),
		"extra_marks":    strconv.Itoa(extra),
	}
	if malformed > 0 {
		meta["malformed_answers"] = strconv.Itoa(malformed)
	}

	return assemble(sub,
		map[string]float64{"score": float64(score)},
		map[string]float64{"percentage": pct},
		Interpretation{
			Categories:      map[string]string{"accuracy": band.Level},
			Descriptions:    map[string]string{"accuracy": band.Description},
			Recommendations: band.Recommendations,
			Metadata:        meta,
		}), nil
}

func intSet(rows []int) map[int]struct{} {
	m := make(map[int]struct{}, len(rows))
	for _, r := range rows {
		m[r] = struct{}{}
	}
	return m
}
