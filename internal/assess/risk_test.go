package assess

import (
	"context"
	"testing"
)

func TestRiskSixtyMiddleAnswersClassifyMedio(t *testing.T) {
	e := quietEngine()
	bank := likertBank(60, "")
	sub := submissionFor(bank, func(Question) AnswerValue { return NumberValue(3) })

	res, err := e.Score(context.Background(), InstrumentRisk, sub, bank)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if res.RawScores["total"] != 180 {
		t.Fatalf("total: got %v, want 180", res.RawScores["total"])
	}
	if got := res.Interpretation.Categories["risk"]; got != "MEDIO" {
		t.Fatalf("risk level: got %q, want MEDIO", got)
	}
	if res.Interpretation.Metadata["training_required"] != "true" {
		t.Fatalf("MEDIO band should require training")
	}
}

func TestRiskTotalInvariantUnderReordering(t *testing.T) {
	e := quietEngine()
	bank := likertBank(10, "", 1, 4, 7)
	sub := submissionFor(bank, func(q Question) AnswerValue {
		return NumberValue(float64(1 + q.Number%5))
	})

	forward, err := e.Score(context.Background(), InstrumentRisk, sub, bank)
	if err != nil {
		t.Fatalf("score: %v", err)
	}

	reversed := sub
	reversed.Answers = make([]Answer, len(sub.Answers))
	for i, a := range sub.Answers {
		reversed.Answers[len(sub.Answers)-1-i] = a
	}
	backward, err := e.Score(context.Background(), InstrumentRisk, reversed, bank)
	if err != nil {
		t.Fatalf("score reversed: %v", err)
	}

	if forward.RawScores["total"] != backward.RawScores["total"] {
		t.Fatalf("total changed under reordering: %v vs %v",
			forward.RawScores["total"], backward.RawScores["total"])
	}
}

func TestRiskReversedItemContributesComplement(t *testing.T) {
	e := quietEngine()
	bank := likertBank(2, "", 1) // second question reversed
	sub := submissionFor(bank, func(Question) AnswerValue { return NumberValue(5) })

	res, err := e.Score(context.Background(), InstrumentRisk, sub, bank)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	// 5 + (6-5) = 6
	if res.RawScores["total"] != 6 {
		t.Fatalf("total: got %v, want 6", res.RawScores["total"])
	}
}

func TestRiskMalformedValueScoresZero(t *testing.T) {
	e := quietEngine()
	bank := likertBank(3, "")
	sub := submissionFor(bank, func(Question) AnswerValue { return NumberValue(4) })
	sub.Answers[0].Value = NumberValue(9) // out of likert range
	sub.Answers[1].Value = StringValue("abc")

	res, err := e.Score(context.Background(), InstrumentRisk, sub, bank)
	if err != nil {
		t.Fatalf("malformed values must not abort scoring: %v", err)
	}
	if res.RawScores["total"] != 4 {
		t.Fatalf("total: got %v, want 4", res.RawScores["total"])
	}
	if res.Interpretation.Metadata["malformed_answers"] != "2" {
		t.Fatalf("malformed counter: got %q, want 2", res.Interpretation.Metadata["malformed_answers"])
	}
}

func TestRiskBandEdges(t *testing.T) {
	e := quietEngine()
	bank := likertBank(60, "")

	cases := []struct {
		value float64
		level string
	}{
		{1, "BAJO"},  // total 60
		{2, "BAJO"},  // total 120, band edge
		{3, "MEDIO"}, // total 180
		{5, "ALTO"},  // total 300
	}
	for _, tc := range cases {
		sub := submissionFor(bank, func(Question) AnswerValue { return NumberValue(tc.value) })
		res, err := e.Score(context.Background(), InstrumentRisk, sub, bank)
		if err != nil {
			t.Fatalf("score: %v", err)
		}
		if got := res.Interpretation.Categories["risk"]; got != tc.level {
			t.Fatalf("all-%v submission: got %q, want %q", tc.value, got, tc.level)
		}
	}
}
