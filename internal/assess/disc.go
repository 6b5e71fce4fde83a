package assess

import (
	"context"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/hirelens/hirelens-assess/internal/assess/interp"
)

// discDimensions is the canonical dimension order used for iteration and
// tie-breaking.
var discDimensions = []string{"D", "I", "S", "C"}

// discStrategy scores the forced-choice quad profile: each answer names a
// "most like me" and a "least like me" word from the question's option set,
// adding +1 to the most word's dimension and -1 to the least word's. Raw
// scores are shifted by the question count and expressed as percentages of
// the four-dimension total.
type discStrategy struct {
	tables *interp.Tables
	log    *log.Logger
}

func (s *discStrategy) Score(_ context.Context, sub Submission, bank Bank) (ScoringResult, error) {
	if err := validate(sub, bank); err != nil {
		return ScoringResult{}, err
	}

	raw := map[string]float64{}
	for _, d := range discDimensions {
		raw[d] = 0
	}

	malformed := 0
	for _, a := range sub.Answers {
		q, _ := bank.question(a.QuestionID)
		if q.Type != QuestionForcedChoice || len(q.Words) == 0 {
			return ScoringResult{}, &ConfigError{Detail: "question has no forced-choice word set", QuestionID: q.ID}
		}
		most, least, ok := a.Value.pair()
		if !ok {
			s.log.Printf("assess: malformed forced-choice answer for question %s", q.ID)
			malformed++
			continue
		}
		md := wordDimension(q, most)
		ld := wordDimension(q, least)
		if md == "" || ld == "" {
			// Applying only half the pair would break the +1/-1 balance, so
			// the whole answer is skipped.
			s.log.Printf("assess: forced-choice answer for question %s names unknown word", q.ID)
			malformed++
			continue
		}
		raw[md]++
		raw[ld]--
	}

	// Shift to [0, 2n] and convert to percentages of the combined total,
	// which is 4n regardless of skipped answers.
	n := float64(len(bank.Questions))
	scaled := map[string]float64{}
	for _, d := range discDimensions {
		scaled[d] = round2((raw[d] + n) / (4 * n) * 100)
	}

	order := append([]string(nil), discDimensions...)
	sort.SliceStable(order, func(i, j int) bool {
		return scaled[order[i]] > scaled[order[j]]
	})
	primary := order[0]
	combined := order[0] + order[1]

	profile, ok := s.tables.Disc.Profiles[combined]
	if !ok {
		profile = s.tables.Disc.FallbackProfile
	}

	categories := map[string]string{}
	descriptions := map[string]string{"profile": profile}
	var strengths []string
	for _, d := range discDimensions {
		categories[d] = discLevel(scaled[d], s.tables.Disc.StrengthThreshold)
		descriptions[d] = s.tables.Disc.Dimensions[d]
		if scaled[d] > s.tables.Disc.StrengthThreshold {
			strengths = append(strengths, s.tables.Disc.Strengths[d])
		}
	}

	meta := map[string]string{
		"primary_dimension": primary,
		"combined_profile":  combined,
	}
	if malformed > 0 {
		meta["malformed_answers"] = strconv.Itoa(malformed)
	}

	return assemble(sub, raw, scaled, Interpretation{
		Categories:   categories,
		Descriptions: descriptions,
		Strengths:    strengths,
		GrowthAreas:  []string{s.tables.Disc.Growth[primary]},
		Metadata:     meta,
	}), nil
}

func wordDimension(q Question, word string) string {
	for _, w := range q.Words {
		if strings.EqualFold(w.Text, word) {
			return w.Dimension
		}
	}
	return ""
}

func discLevel(pct, threshold float64) string {
	switch {
	case pct > threshold:
		return "ELEVADO"
	case pct >= 25:
		return "PROMEDIO"
	default:
		return "BAJO"
	}
}
