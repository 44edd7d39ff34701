package app

import "timed-quiz/internal/domain"

// Presenter receives display commands from a Session. Implementations must
// not call back into the session synchronously; they run on the session's
// event loop.
type Presenter interface {
	RenderQuestion(q domain.QuestionRecord, index, total int)
	SetTimerDisplay(remaining int, elapsed float64)
	LockOptions()
	MarkCorrect(code domain.Code)
	MarkIncorrect(code domain.Code)
	ShowCompletion(percentage, correct, total int)
	ResetDisplay()
}

// NopPresenter discards every command.
type NopPresenter struct{}

func (NopPresenter) RenderQuestion(domain.QuestionRecord, int, int) {}
func (NopPresenter) SetTimerDisplay(int, float64)                   {}
func (NopPresenter) LockOptions()                                   {}
func (NopPresenter) MarkCorrect(domain.Code)                        {}
func (NopPresenter) MarkIncorrect(domain.Code)                      {}
func (NopPresenter) ShowCompletion(int, int, int)                   {}
func (NopPresenter) ResetDisplay()                                  {}
