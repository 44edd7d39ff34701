package terminal

import (
	"bytes"
	"strings"
	"testing"

	"timed-quiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuestion() domain.QuestionRecord {
	return domain.QuestionRecord{
		ID:        "1",
		Text:      "What does typeof null return?",
		Options:   []string{"A. object", "B. null", "C. undefined"},
		Correct:   "A",
		TimeLimit: 10,
	}
}

func TestPresenterRendersQuestion(t *testing.T) {
	var buf bytes.Buffer
	p := NewPresenter(&buf, true)

	p.RenderQuestion(sampleQuestion(), 1, 3)

	out := buf.String()
	assert.Contains(t, out, "Question 2/3")
	assert.Contains(t, out, "What does typeof null return?")
	assert.Contains(t, out, "  C. undefined")
}

func TestPresenterThrottlesTimer(t *testing.T) {
	var buf bytes.Buffer
	p := NewPresenter(&buf, true)
	p.RenderQuestion(sampleQuestion(), 0, 1)
	buf.Reset()

	p.SetTimerDisplay(10, 0)
	p.SetTimerDisplay(10, 0.01)
	p.SetTimerDisplay(10, 0.05)
	p.SetTimerDisplay(9, 0.15)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "10s left", lines[0])
	assert.Equal(t, "9s left", lines[1])
}

func TestPresenterMarksOptionsByCode(t *testing.T) {
	var buf bytes.Buffer
	p := NewPresenter(&buf, true)
	p.RenderQuestion(sampleQuestion(), 0, 1)
	buf.Reset()

	p.LockOptions()
	p.MarkCorrect("A")
	p.MarkIncorrect("B")

	out := buf.String()
	assert.Contains(t, out, "Answer locked.")
	assert.Contains(t, out, "✓ A. object")
	assert.Contains(t, out, "✗ B. null")
}

func TestPresenterCompletionVerdict(t *testing.T) {
	var buf bytes.Buffer
	p := NewPresenter(&buf, true)

	p.ShowCompletion(67, 2, 3)

	out := buf.String()
	assert.Contains(t, out, "Score: 67% (2 of 3 correct)")
	assert.Contains(t, out, domain.VerdictFor(67).Message)
}

func TestPresenterResetClearsThrottle(t *testing.T) {
	var buf bytes.Buffer
	p := NewPresenter(&buf, true)
	p.SetTimerDisplay(5, 0)
	p.ResetDisplay()
	buf.Reset()

	p.SetTimerDisplay(5, 0)
	assert.Equal(t, "5s left\n", buf.String())
}
