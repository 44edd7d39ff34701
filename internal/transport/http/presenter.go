package http

import (
	"sync"

	"timed-quiz/internal/domain"
)

type questionPayload struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	Options   []string `json:"options"`
	Index     int      `json:"index"`
	Total     int      `json:"total"`
	TimeLimit int      `json:"timeLimit"`
}

type timerPayload struct {
	Remaining int     `json:"remaining"`
	Elapsed   float64 `json:"elapsed"`
}

type codePayload struct {
	Code domain.Code `json:"code"`
}

type completedPayload struct {
	Percentage int    `json:"percentage"`
	Correct    int    `json:"correct"`
	Total      int    `json:"total"`
	Tier       string `json:"tier"`
	Message    string `json:"message"`
}

// wsPresenter turns session display commands into outbound messages. It runs
// on the session loop and never blocks. Messages are queued in order; a timer
// message replaces a timer still waiting at the tail, so a slow client only
// loses superseded countdown updates.
type wsPresenter struct {
	mu     sync.Mutex
	queue  []outboundMessage
	closed bool
	wake   chan struct{}
}

func newWSPresenter() *wsPresenter {
	return &wsPresenter{wake: make(chan struct{}, 1)}
}

func (p *wsPresenter) emit(msg outboundMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	if n := len(p.queue); msg.Type == "timer" && n > 0 && p.queue[n-1].Type == "timer" {
		p.queue[n-1] = msg
	} else {
		p.queue = append(p.queue, msg)
	}
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// drain takes every queued message.
func (p *wsPresenter) drain() []outboundMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.queue
	p.queue = nil
	return out
}

// close stops accepting messages and ends the writer's wake loop.
func (p *wsPresenter) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.wake)
}

func (p *wsPresenter) emitError(message, topic string) {
	p.emit(outboundMessage{Type: "error", Payload: errorPayload{Message: message, Topic: topic}})
}

func (p *wsPresenter) RenderQuestion(q domain.QuestionRecord, index, total int) {
	p.emit(outboundMessage{Type: "question", Payload: questionPayload{
		ID:        q.ID,
		Text:      q.Text,
		Options:   q.Options,
		Index:     index,
		Total:     total,
		TimeLimit: q.TimeLimit,
	}})
}

func (p *wsPresenter) SetTimerDisplay(remaining int, elapsed float64) {
	p.emit(outboundMessage{Type: "timer", Payload: timerPayload{Remaining: remaining, Elapsed: elapsed}})
}

func (p *wsPresenter) LockOptions() {
	p.emit(outboundMessage{Type: "lock"})
}

func (p *wsPresenter) MarkCorrect(code domain.Code) {
	p.emit(outboundMessage{Type: "correct", Payload: codePayload{Code: code}})
}

func (p *wsPresenter) MarkIncorrect(code domain.Code) {
	p.emit(outboundMessage{Type: "incorrect", Payload: codePayload{Code: code}})
}

func (p *wsPresenter) ShowCompletion(percentage, correct, total int) {
	verdict := domain.VerdictFor(percentage)
	p.emit(outboundMessage{Type: "completed", Payload: completedPayload{
		Percentage: percentage,
		Correct:    correct,
		Total:      total,
		Tier:       verdict.Tier,
		Message:    verdict.Message,
	}})
}

func (p *wsPresenter) ResetDisplay() {
	p.emit(outboundMessage{Type: "reset"})
}
