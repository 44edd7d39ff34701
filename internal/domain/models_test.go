package domain

import (
	"errors"
	"testing"
	"time"
)

func sampleRecords() []QuestionRecord {
	return []QuestionRecord{
		{ID: "1", Text: "2 + 2?", Options: []string{"A. 3", "B. 4", "C. 5"}, Correct: "B", TimeLimit: 15},
		{ID: "2", Text: "Capital of France?", Options: []string{"A. Paris", "B. Rome"}, Correct: "A"},
	}
}

func TestNewQuestionSetAppliesDefaultTimeLimit(t *testing.T) {
	set, err := NewQuestionSet("js", sampleRecords())
	if err != nil {
		t.Fatalf("new set: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", set.Len())
	}
	if got := set.At(0).Duration(); got != 15*time.Second {
		t.Fatalf("expected 15s, got %v", got)
	}
	if got := set.At(1).TimeLimit; got != DefaultTimeLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if set.Topic() != "js" {
		t.Fatalf("unexpected topic %q", set.Topic())
	}
}

func TestNewQuestionSetRejectsEmpty(t *testing.T) {
	if _, err := NewQuestionSet("js", nil); !errors.Is(err, ErrEmptySet) {
		t.Fatalf("expected ErrEmptySet, got %v", err)
	}
}

func TestNewQuestionSetRejectsInvalidRecords(t *testing.T) {
	cases := map[string]QuestionRecord{
		"missing id":        {Text: "q", Options: []string{"A. x", "B. y"}, Correct: "A"},
		"no letter prefix":  {ID: "1", Text: "q", Options: []string{"x", "B. y"}, Correct: "B"},
		"duplicate code":    {ID: "1", Text: "q", Options: []string{"A. x", "A. y"}, Correct: "A"},
		"correct not found": {ID: "1", Text: "q", Options: []string{"A. x", "B. y"}, Correct: "D"},
		"single option":     {ID: "1", Text: "q", Options: []string{"A. x"}, Correct: "A"},
	}
	for name, rec := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewQuestionSet("js", []QuestionRecord{rec})
			if !errors.Is(err, ErrInvalidQuestion) {
				t.Fatalf("expected ErrInvalidQuestion, got %v", err)
			}
		})
	}

	dup := sampleRecords()
	dup[1].ID = dup[0].ID
	if _, err := NewQuestionSet("js", dup); !errors.Is(err, ErrInvalidQuestion) {
		t.Fatalf("expected duplicate id rejection, got %v", err)
	}
}

func TestQuestionSetIsImmutable(t *testing.T) {
	records := sampleRecords()
	set, err := NewQuestionSet("js", records)
	if err != nil {
		t.Fatalf("new set: %v", err)
	}
	records[0].Options[0] = "Z. mutated"
	got := set.At(0)
	got.Options[1] = "Z. mutated"
	if set.At(0).Options[0] != "A. 3" || set.At(0).Options[1] != "B. 4" {
		t.Fatalf("set was mutated: %+v", set.At(0).Options)
	}
}

func TestOffersAndParseCode(t *testing.T) {
	q := sampleRecords()[0]
	if !q.Offers("C") || q.Offers("D") || q.Offers(NoCode) {
		t.Fatalf("unexpected offers result for %v", q.Codes())
	}
	if code, ok := ParseCode(" b "); !ok || code != "B" {
		t.Fatalf("expected B, got %q %v", code, ok)
	}
	for _, raw := range []string{"", "AB", "1", "?"} {
		if _, ok := ParseCode(raw); ok {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}

func TestVerdictBands(t *testing.T) {
	cases := []struct {
		pct  int
		tier string
	}{
		{100, "great"}, {81, "great"}, {80, "good"}, {60, "good"}, {59, "practice"}, {0, "practice"},
	}
	for _, tc := range cases {
		if got := VerdictFor(tc.pct).Tier; got != tc.tier {
			t.Fatalf("percentage %d: expected %s, got %s", tc.pct, tc.tier, got)
		}
	}
}

func TestLoadErrorWrapping(t *testing.T) {
	err := AsLoadError("js", ErrTopicNotFound)
	var le *LoadError
	if !errors.As(err, &le) || le.Topic != "js" {
		t.Fatalf("expected LoadError for js, got %v", err)
	}
	if !errors.Is(err, ErrTopicNotFound) {
		t.Fatalf("expected wrapped ErrTopicNotFound")
	}
	if again := AsLoadError("other", err); again != err {
		t.Fatalf("expected existing LoadError to pass through unmodified")
	}
	if AsLoadError("js", nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
}
