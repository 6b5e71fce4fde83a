package assess

import (
	"context"
	"testing"
)

func tableBank(expected map[string][]int) Bank {
	return Bank{Questions: []Question{{
		ID:            "q1",
		Number:        1,
		Type:          QuestionTableCheckbox,
		CorrectAnswer: &AnswerKey{Table: expected},
	}}}
}

func TestTableMatchingPairsOnly(t *testing.T) {
	e := quietEngine()
	bank := tableBank(map[string][]int{"col1": {1, 3}, "col2": {2}})
	sub := submissionFor(bank, func(Question) AnswerValue {
		return TableValue(map[string][]int{"col1": {1, 2}, "col2": {2}})
	})

	res, err := e.Score(context.Background(), InstrumentTable, sub, bank)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	// col1 row 1 and col2 row 2 match; col1 row 3 missing and col1 row 2
	// extra count as errors but never subtract.
	if res.RawScores["score"] != 2 {
		t.Fatalf("score: got %v, want 2", res.RawScores["score"])
	}
	if res.Interpretation.Metadata["missed_marks"] != "1" {
		t.Fatalf("missed: got %q, want 1", res.Interpretation.Metadata["missed_marks"])
	}
	if res.Interpretation.Metadata["extra_marks"] != "1" {
		t.Fatalf("extra: got %q, want 1", res.Interpretation.Metadata["extra_marks"])
	}
}

func TestTablePercentageAndBands(t *testing.T) {
	e := quietEngine()
	expected := map[string][]int{"c1": {1, 2, 3, 4, 5}, "c2": {1, 2, 3, 4, 5}}

	cases := []struct {
		name  string
		sel   map[string][]int
		pct   float64
		level string
	}{
		{"perfect", expected, 100, "MUY_ALTO"},
		{"half", map[string][]int{"c1": {1, 2, 3, 4, 5}}, 50, "MEDIO"},
		{"one", map[string][]int{"c2": {3}}, 10, "MUY_BAJO"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bank := tableBank(expected)
			sub := submissionFor(bank, func(Question) AnswerValue { return TableValue(tc.sel) })
			res, err := e.Score(context.Background(), InstrumentTable, sub, bank)
			if err != nil {
				t.Fatalf("score: %v", err)
			}
			if res.ScaledScores["percentage"] != tc.pct {
				t.Fatalf("percentage: got %v, want %v", res.ScaledScores["percentage"], tc.pct)
			}
			if got := res.Interpretation.Categories["accuracy"]; got != tc.level {
				t.Fatalf("band: got %q, want %q", got, tc.level)
			}
		})
	}
}

func TestTableBlankAnswerScoresZero(t *testing.T) {
	e := quietEngine()
	bank := tableBank(map[string][]int{"c1": {1, 2}})
	sub := submissionFor(bank, func(Question) AnswerValue { return AnswerValue{} })

	res, err := e.Score(context.Background(), InstrumentTable, sub, bank)
	if err != nil {
		t.Fatalf("blank answer must not abort: %v", err)
	}
	if res.RawScores["score"] != 0 || res.ScaledScores["percentage"] != 0 {
		t.Fatalf("blank answer should score 0, got %+v", res.RawScores)
	}
}

func TestTableMissingExpectedMarksFails(t *testing.T) {
	e := quietEngine()
	bank := tableBank(nil)
	sub := submissionFor(bank, func(Question) AnswerValue {
		return TableValue(map[string][]int{"c1": {1}})
	})

	if _, err := e.Score(context.Background(), InstrumentTable, sub, bank); err == nil {
		t.Fatalf("empty expected marks table must be a configuration error")
	}
}
