package app

import (
	"testing"

	"timed-quiz/internal/domain"
)

func TestEvaluate(t *testing.T) {
	cases := []struct {
		selected domain.Code
		correct  domain.Code
		want     bool
	}{
		{"B", "B", true},
		{"A", "B", false},
		{domain.NoCode, "B", false},
		{domain.NoCode, domain.NoCode, false},
	}
	for _, tc := range cases {
		got := Evaluate(tc.selected, tc.correct)
		if got.IsCorrect != tc.want {
			t.Fatalf("Evaluate(%q, %q) = %v, want %v", tc.selected, tc.correct, got.IsCorrect, tc.want)
		}
		if got.Selected != tc.selected || got.Correct != tc.correct {
			t.Fatalf("unexpected outcome %+v", got)
		}
	}
}

func TestPercentage(t *testing.T) {
	cases := []struct{ correct, total, want int }{
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
		{1, 1, 100},
		{0, 5, 0},
		{0, 0, 0},
	}
	for _, tc := range cases {
		if got := Percentage(tc.correct, tc.total); got != tc.want {
			t.Fatalf("Percentage(%d, %d) = %d, want %d", tc.correct, tc.total, got, tc.want)
		}
	}
}
