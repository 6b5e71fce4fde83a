package assess

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/hirelens/hirelens-assess/internal/assess/interp"
)

// competencyStrategy scores the multi-dimension likert competency test.
// Per-dimension scaled score is the arithmetic mean of that dimension's
// answers; the global scaled score is the mean over ALL answers, not the mean
// of dimension means, so dimensions with fewer questions don't bias it.
type competencyStrategy struct {
	tables *interp.Tables
	log    *log.Logger
}

func (s *competencyStrategy) Score(_ context.Context, sub Submission, bank Bank) (ScoringResult, error) {
	if err := validate(sub, bank); err != nil {
		return ScoringResult{}, err
	}

	dimSum := map[string]float64{}
	dimCount := map[string]int{}
	globalSum := 0.0
	malformed := 0

	for _, a := range sub.Answers {
		q, _ := bank.question(a.QuestionID)
		if q.Factor == "" {
			return ScoringResult{}, &ConfigError{Detail: "question has no dimension tag", QuestionID: q.ID}
		}
		v, ok := a.Value.likert()
		if !ok {
			// Contributes zero but stays in the denominator.
			s.log.Printf("assess: malformed likert answer for question %s, scored as 0", q.ID)
			malformed++
			v = 0
		}
		dimSum[q.Factor] += float64(v)
		dimCount[q.Factor]++
		globalSum += float64(v)
	}

	raw := map[string]float64{}
	scaled := map[string]float64{}
	categories := map[string]string{}
	descriptions := map[string]string{}
	var strengths, growth []string

	for _, dim := range sortedKeys(dimSum) {
		mean := round2(dimSum[dim] / float64(dimCount[dim]))
		raw[dim] = dimSum[dim]
		scaled[dim] = mean
		categories[dim] = s.tables.Competency.TierFor(mean).Level

		dt := s.tables.Competency.Dimensions[dim]
		descriptions[dim] = dt.Description
		name := dt.Name
		if name == "" {
			name = dim
		}
		if mean >= 4.0 {
			strengths = append(strengths, name)
		}
		if mean < 3.0 {
			growth = append(growth, name)
		}
	}

	global := round2(globalSum / float64(len(sub.Answers)))
	raw["global"] = globalSum
	scaled["global"] = global

	band := interp.BandFor(s.tables.Competency.GlobalBands, global)
	categories["global"] = band.Level
	descriptions["global"] = band.Description

	recs := append([]string(nil), s.tables.Competency.Recommendations[band.Level]...)
	if s.tables.Competency.GrowthTemplate != "" {
		for _, g := range growth {
			recs = append(recs, fmt.Sprintf(s.tables.Competency.GrowthTemplate, g))
		}
	}

	meta := map[string]string{}
	if malformed > 0 {
		meta["malformed_answers"] = strconv.Itoa(malformed)
	}

	return assemble(sub, raw, scaled, Interpretation{
		Categories:      categories,
		Descriptions:    descriptions,
		Recommendations: recs,
		Strengths:       strengths,
		GrowthAreas:     growth,
		Metadata:        meta,
	}), nil
}
