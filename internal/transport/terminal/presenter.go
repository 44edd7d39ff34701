package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"timed-quiz/internal/domain"

	"github.com/charmbracelet/lipgloss"
)

// Presenter renders a quiz session as plain lines on a terminal.
type Presenter struct {
	mu      sync.Mutex
	out     io.Writer
	noColor bool

	options     []string
	lastSeconds int
}

func NewPresenter(out io.Writer, noColor bool) *Presenter {
	return &Presenter{out: out, noColor: noColor, lastSeconds: -1}
}

func (p *Presenter) RenderQuestion(q domain.QuestionRecord, index, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.options = q.Options
	p.lastSeconds = -1

	p.println("")
	p.println(p.style(fmt.Sprintf("Question %d/%d", index+1, total), lipgloss.Color("242")))
	p.println(p.bold(q.Text))
	for _, opt := range q.Options {
		p.println("  " + opt)
	}
	p.println(p.style("Type a letter to answer, enter to skip, r to restart.", lipgloss.Color("240")))
}

// SetTimerDisplay prints only when the whole-second value changes.
func (p *Presenter) SetTimerDisplay(remaining int, _ float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if remaining == p.lastSeconds {
		return
	}
	p.lastSeconds = remaining
	color := lipgloss.Color("33")
	if remaining <= 3 {
		color = lipgloss.Color("208")
	}
	p.println(p.style(fmt.Sprintf("%ds left", remaining), color))
}

func (p *Presenter) LockOptions() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.println(p.style("Answer locked.", lipgloss.Color("244")))
}

func (p *Presenter) MarkCorrect(code domain.Code) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.println(p.style("✓ "+p.option(code), lipgloss.Color("42")))
}

func (p *Presenter) MarkIncorrect(code domain.Code) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.println(p.style("✗ "+p.option(code), lipgloss.Color("196")))
}

func (p *Presenter) ShowCompletion(percentage, correct, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	verdict := domain.VerdictFor(percentage)
	p.println("")
	p.println(p.bold(fmt.Sprintf("Score: %d%% (%d of %d correct)", percentage, correct, total)))
	p.println(verdict.Message)
	p.println(p.style("Press r to retake or q to quit.", lipgloss.Color("240")))
}

func (p *Presenter) ResetDisplay() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.options = nil
	p.lastSeconds = -1
}

func (p *Presenter) option(code domain.Code) string {
	for _, opt := range p.options {
		if c, ok := domain.OptionCode(opt); ok && c == code {
			return opt
		}
	}
	return string(code)
}

func (p *Presenter) println(line string) {
	fmt.Fprintln(p.out, strings.TrimRight(line, " "))
}

func (p *Presenter) style(text string, color lipgloss.Color) string {
	if p.noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

func (p *Presenter) bold(text string) string {
	if p.noColor {
		return text
	}
	return lipgloss.NewStyle().Bold(true).Render(text)
}
