package app

import (
	"math"

	"timed-quiz/internal/domain"
)

// Evaluate compares a selection with the correct code. A missing selection
// is never correct. Scoring is left to the caller.
func Evaluate(selected, correct domain.Code) domain.Outcome {
	return domain.Outcome{
		Selected:  selected,
		Correct:   correct,
		IsCorrect: selected != domain.NoCode && selected == correct,
	}
}

// Percentage returns round(correct/total*100), or 0 for an empty total.
func Percentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}
