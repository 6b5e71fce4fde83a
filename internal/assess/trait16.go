package assess

import (
	"context"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/hirelens/hirelens-assess/internal/assess/interp"
)

// trait16Strategy scores the ternary-choice 16-factor trait inventory. Each
// answer maps through its question's own scoring table to 0/1/2 points,
// optionally sign-flipped by the question's polarity, summed per factor and
// standardized to a 1..10 decatipo against the normative table.
type trait16Strategy struct {
	tables *interp.Tables
	log    *log.Logger
}

func (s *trait16Strategy) Score(_ context.Context, sub Submission, bank Bank) (ScoringResult, error) {
	if err := validate(sub, bank); err != nil {
		return ScoringResult{}, err
	}

	raw := map[string]float64{}
	for _, q := range bank.Questions {
		if q.Type != QuestionTernary {
			return ScoringResult{}, &ConfigError{Detail: "non-ternary question in trait inventory bank", QuestionID: q.ID}
		}
		if q.Factor == "" {
			return ScoringResult{}, &ConfigError{Detail: "question has no factor tag", QuestionID: q.ID}
		}
		if len(q.ScoringMap) == 0 {
			return ScoringResult{}, &ConfigError{Detail: "question has no scoring map", QuestionID: q.ID}
		}
		raw[q.Factor] += 0 // every tagged factor appears in the result, even if all zero
	}

	malformed := 0
	for _, a := range sub.Answers {
		q, _ := bank.question(a.QuestionID)
		key, ok := a.Value.choice()
		if !ok {
			s.log.Printf("assess: malformed ternary answer for question %s", q.ID)
			malformed++
			continue
		}
		pts, ok := q.ScoringMap[strings.ToUpper(key)]
		if !ok {
			s.log.Printf("assess: unmapped option %q for question %s", key, q.ID)
			malformed++
			continue
		}
		mult := q.Meta.Polarity
		if mult == 0 {
			mult = 1
		}
		raw[q.Factor] += pts * mult
	}

	// Raw -> decatipo. A factor without a (valid) normative row is a bank
	// defect and aborts the submission; scoring it to a midpoint would change
	// what the result means.
	scaled := map[string]float64{}
	categories := map[string]string{}
	descriptions := map[string]string{}
	for _, f := range sortedKeys(raw) {
		ne, ok := bank.Norms[f]
		if !ok {
			return ScoringResult{}, &ConfigError{Detail: "missing normative entry", Factor: f}
		}
		if ne.StdDev <= 0 {
			return ScoringResult{}, &ConfigError{Detail: "normative stddev must be positive", Factor: f}
		}
		z := (raw[f] - ne.Mean) / ne.StdDev
		dec := math.Round(z*2 + 5.5)
		if dec < 1 {
			dec = 1
		}
		if dec > 10 {
			dec = 10
		}
		scaled[f] = dec
		categories[f] = decatipoLevel5(dec)
		descriptions[f] = s.factorText(f, dec)
	}

	var highlights []string
	var recs []string
	for _, f := range sortedKeys(scaled) {
		if scaled[f] <= 2 || scaled[f] >= 9 {
			highlights = append(highlights, f)
		}
	}
	for _, rule := range s.tables.Trait16.Recommendations {
		dec, ok := scaled[rule.Factor]
		if !ok {
			continue
		}
		if rule.Max != nil && dec <= float64(*rule.Max) {
			recs = append(recs, rule.Text)
		} else if rule.Min != nil && dec >= float64(*rule.Min) {
			recs = append(recs, rule.Text)
		}
	}

	meta := map[string]string{}
	if len(highlights) > 0 {
		meta["highlights"] = strings.Join(highlights, ",")
	}
	if malformed > 0 {
		meta["malformed_answers"] = strconv.Itoa(malformed)
	}

	return assemble(sub, raw, scaled, Interpretation{
		Categories:      categories,
		Descriptions:    descriptions,
		Recommendations: recs,
		Metadata:        meta,
	}), nil
}

func (s *trait16Strategy) factorText(factor string, dec float64) string {
	ft, ok := s.tables.Trait16.Factors[factor]
	if !ok {
		return ""
	}
	switch {
	case dec <= 3:
		return ft.Name + ": " + ft.Low
	case dec >= 8:
		return ft.Name + ": " + ft.High
	default:
		return ft.Name + ": dentro del rango promedio."
	}
}

// decatipoLevel5 maps a decatipo onto the five-level scale with 3/4/7/8
// boundaries.
func decatipoLevel5(dec float64) string {
	switch {
	case dec <= 3:
		return "BAJO"
	case dec <= 4:
		return "MEDIO_BAJO"
	case dec <= 7:
		return "PROMEDIO"
	case dec <= 8:
		return "MEDIO_ALTO"
	default:
		return "ALTO"
	}
}
