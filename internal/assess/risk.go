package assess

import (
	"context"
	"log"
	"strconv"

	"github.com/hirelens/hirelens-assess/internal/assess/interp"
)

// riskStrategy scores the reversible likert risk inventory: fixed-count 1..5
// answers summed into a single total, with reversed items contributing 6-v.
// A non-numeric or out-of-range value contributes zero and is logged; one bad
// answer never aborts the submission.
type riskStrategy struct {
	tables *interp.Tables
	log    *log.Logger
}

func (s *riskStrategy) Score(_ context.Context, sub Submission, bank Bank) (ScoringResult, error) {
	if err := validate(sub, bank); err != nil {
		return ScoringResult{}, err
	}

	total := 0
	malformed := 0
	for _, a := range sub.Answers {
		q, _ := bank.question(a.QuestionID)
		v, ok := a.Value.likert()
		if !ok {
			s.log.Printf("assess: malformed likert answer for question %s, scored as 0", q.ID)
			malformed++
			continue
		}
		if q.Meta.Reversed {
			v = 6 - v
		}
		total += v
	}

	band := s.tables.Risk.BandFor(total)

	meta := map[string]string{
		"severity":            band.Severity,
		"safety_critical_fit": strconv.FormatBool(band.SafetyCritical),
		"training_required":   strconv.FormatBool(band.TrainingRequired),
		"theoretical_min":     strconv.Itoa(len(bank.Questions)),
		"theoretical_max":     strconv.Itoa(len(bank.Questions) * 5),
	}
	if malformed > 0 {
		meta["malformed_answers"] = strconv.Itoa(malformed)
	}

	return assemble(sub,
		map[string]float64{"total": float64(total)},
		map[string]float64{"total": float64(total)},
		Interpretation{
			Categories:      map[string]string{"risk": band.Level},
			Descriptions:    map[string]string{"risk": band.Profile},
			Recommendations: band.Recommendations,
			Metadata:        meta,
		}), nil
}
