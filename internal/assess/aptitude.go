package assess

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/hirelens/hirelens-assess/internal/assess/interp"
)

// aptitudeStrategy scores the multiple-choice aptitude test: exact
// case-insensitive match against the question's answer key (set-equality for
// multi-select), raw score = correct count, scaled = percentage.
type aptitudeStrategy struct {
	tables *interp.Tables
	log    *log.Logger
}

func (s *aptitudeStrategy) Score(_ context.Context, sub Submission, bank Bank) (ScoringResult, error) {
	if err := validate(sub, bank); err != nil {
		return ScoringResult{}, err
	}

	correct := 0
	malformed := 0
	for _, a := range sub.Answers {
		q, _ := bank.question(a.QuestionID)
		if q.CorrectAnswer == nil || len(q.CorrectAnswer.Choices) == 0 {
			return ScoringResult{}, &ConfigError{Detail: "question has no answer key", QuestionID: q.ID}
		}
		key := q.CorrectAnswer.Choices

		if a.Value.Kind == ValueList && len(a.Value.List) > 1 {
			got, ok := a.Value.choiceSet()
			if !ok {
				malformed++
				s.log.Printf("assess: malformed multi-select answer for question %s", q.ID)
				continue
			}
			if foldSetEqual(got, key) {
				correct++
			}
			continue
		}

		got, ok := a.Value.choice()
		if !ok {
			if a.Value.Kind != ValueEmpty {
				malformed++
				s.log.Printf("assess: malformed choice answer for question %s", q.ID)
			}
			continue // blank or unusable: scores zero
		}
		if len(key) == 1 {
			if strings.EqualFold(got, key[0]) {
				correct++
			}
		} else if foldSetEqual([]string{got}, key) {
			correct++
		}
	}

	total := len(bank.Questions)
	pct := round2(100 * float64(correct) / float64(total))
	band := interp.BandFor(s.tables.Aptitude.Bands, pct)

	meta := map[string]string{
		"correct": strconv.Itoa(correct),
		"total":   strconv.Itoa(total),
	}
	if malformed > 0 {
		meta["malformed_answers"] = strconv.Itoa(malformed)
	}

	return assemble(sub,
		map[string]float64{"correct": float64(correct)},
		map[string]float64{"percentage": pct},
		Interpretation{
			Categories:      map[string]string{"aptitude": band.Level},
			Descriptions:    map[string]string{"aptitude": band.Description},
			Recommendations: band.Recommendations,
			Metadata:        meta,
		}), nil
}

// foldSetEqual compares two string sets case-insensitively.
func foldSetEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := map[string]int{}
	for _, s := range a {
		seen[strings.ToLower(strings.TrimSpace(s))]++
	}
	for _, s := range b {
		seen[strings.ToLower(strings.TrimSpace(s))]--
	}
	for _, v := range seen {
		if v != 0 {
			return false
		}
	}
	return true
}
