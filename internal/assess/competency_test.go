package assess

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// competencyBank builds likert questions per dimension with the given counts.
func competencyBank(counts map[string]int) Bank {
	var b Bank
	for _, dim := range sortedKeys(counts) {
		for i := 0; i < counts[dim]; i++ {
			b.Questions = append(b.Questions, Question{
				ID:     fmt.Sprintf("%s-%d", dim, i+1),
				Number: len(b.Questions) + 1,
				Type:   QuestionLikert,
				Factor: dim,
			})
		}
	}
	return b
}

// The global score is the mean over all answers, not the mean of dimension
// means; a small dimension must not pull the global score its way.
func TestCompetencyGlobalMeanIsNotMeanOfDimensionMeans(t *testing.T) {
	e := quietEngine()
	bank := competencyBank(map[string]int{"COM": 4, "RES": 6})
	sub := submissionFor(bank, func(q Question) AnswerValue {
		if q.Factor == "COM" {
			return NumberValue(5)
		}
		return NumberValue(2)
	})

	res, err := e.Score(context.Background(), InstrumentCompetency, sub, bank)
	require.NoError(t, err)

	assert.Equal(t, 5.0, res.ScaledScores["COM"])
	assert.Equal(t, 2.0, res.ScaledScores["RES"])
	// (4*5 + 6*2) / 10 = 3.2 — the mean of means would be 3.5.
	assert.Equal(t, 3.2, res.ScaledScores["global"])
	assert.Equal(t, "REGULAR", res.Interpretation.Categories["global"])
}

func TestCompetencyDimensionMeansRoundedToTwoDecimals(t *testing.T) {
	e := quietEngine()
	bank := competencyBank(map[string]int{"EMP": 3})
	vals := []float64{5, 4, 4} // mean 4.333...
	i := 0
	sub := submissionFor(bank, func(Question) AnswerValue {
		v := vals[i]
		i++
		return NumberValue(v)
	})

	res, err := e.Score(context.Background(), InstrumentCompetency, sub, bank)
	require.NoError(t, err)
	assert.Equal(t, 4.33, res.ScaledScores["EMP"])
	assert.Equal(t, 13.0, res.RawScores["EMP"])
}

func TestCompetencyStrengthsAndGrowthAreas(t *testing.T) {
	e := quietEngine()
	bank := competencyBank(map[string]int{"COM": 2, "EMP": 2, "TOL": 2})
	sub := submissionFor(bank, func(q Question) AnswerValue {
		switch q.Factor {
		case "COM":
			return NumberValue(5) // strength (>= 4.0)
		case "EMP":
			return NumberValue(3) // neither
		default:
			return NumberValue(2) // growth area (< 3.0)
		}
	})

	res, err := e.Score(context.Background(), InstrumentCompetency, sub, bank)
	require.NoError(t, err)

	assert.Equal(t, []string{"Comunicación"}, res.Interpretation.Strengths)
	assert.Equal(t, []string{"Tolerancia a la presión"}, res.Interpretation.GrowthAreas)

	// Growth areas append a targeted recommendation after the band's list.
	require.NotEmpty(t, res.Interpretation.Recommendations)
	assert.Contains(t, res.Interpretation.Recommendations[len(res.Interpretation.Recommendations)-1],
		"Tolerancia a la presión")
}

func TestCompetencySevenTierLabels(t *testing.T) {
	e := quietEngine()
	cases := []struct {
		value float64
		tier  string
	}{
		{1, "MUY_DEFICIENTE"},
		{2, "INSUFICIENTE"},
		{3, "ACEPTABLE"},
		{4, "SOBRESALIENTE"},
	}
	for _, tc := range cases {
		bank := competencyBank(map[string]int{"ORI": 4})
		sub := submissionFor(bank, func(Question) AnswerValue { return NumberValue(tc.value) })
		res, err := e.Score(context.Background(), InstrumentCompetency, sub, bank)
		require.NoError(t, err)
		assert.Equal(t, tc.tier, res.Interpretation.Categories["ORI"], "all-%v submission", tc.value)
	}
}

func TestCompetencyMalformedAnswerStaysInDenominator(t *testing.T) {
	e := quietEngine()
	bank := competencyBank(map[string]int{"COM": 4})
	sub := submissionFor(bank, func(Question) AnswerValue { return NumberValue(4) })
	sub.Answers[0].Value = StringValue("n/a")

	res, err := e.Score(context.Background(), InstrumentCompetency, sub, bank)
	require.NoError(t, err)
	// (0 + 4 + 4 + 4) / 4 = 3.0
	assert.Equal(t, 3.0, res.ScaledScores["COM"])
	assert.Equal(t, 3.0, res.ScaledScores["global"])
}

func TestCompetencyUntaggedQuestionFails(t *testing.T) {
	e := quietEngine()
	bank := competencyBank(map[string]int{"COM": 2})
	bank.Questions[1].Factor = ""
	sub := submissionFor(bank, func(Question) AnswerValue { return NumberValue(3) })

	if _, err := e.Score(context.Background(), InstrumentCompetency, sub, bank); err == nil {
		t.Fatalf("untagged question must be a configuration error")
	}
}
