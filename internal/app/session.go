package app

import (
	"time"

	"timed-quiz/internal/clock"
	"timed-quiz/internal/domain"
)

// State is the lifecycle phase of a Session.
type State int

const (
	StateIdle       State = iota // No active run
	StatePresenting              // Question shown, countdown running
	StateLocked                  // Answer fixed, reveal pause running
	StateCompleted               // Every question locked, score final
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePresenting:
		return "presenting"
	case StateLocked:
		return "locked"
	case StateCompleted:
		return "completed"
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// LockCause records which event froze a question.
type LockCause int

const (
	CauseSelected LockCause = iota + 1
	CauseAdvanced
	CauseExpired
)

func (c LockCause) String() string {
	switch c {
	case CauseSelected:
		return "selected"
	case CauseAdvanced:
		return "advanced"
	case CauseExpired:
		return "expired"
	}
	return "unknown"
}

func (c LockCause) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

const (
	// DefaultRevealPause is how long correctness stays visible before advancing.
	DefaultRevealPause = 800 * time.Millisecond
	// DefaultAdvancePause applies when the user explicitly asked for the next question.
	DefaultAdvancePause = 400 * time.Millisecond
)

// Options tunes session timing. Zero values fall back to the defaults.
type Options struct {
	TickInterval time.Duration
	RevealPause  time.Duration
	AdvancePause time.Duration
}

func (o Options) withDefaults() Options {
	if o.TickInterval <= 0 {
		o.TickInterval = clock.DefaultTickInterval
	}
	if o.RevealPause <= 0 {
		o.RevealPause = DefaultRevealPause
	}
	if o.AdvancePause <= 0 {
		o.AdvancePause = DefaultAdvancePause
	}
	return o
}

// Result is the locked outcome of one question in the current run.
type Result struct {
	QuestionID string         `json:"questionId"`
	Index      int            `json:"index"`
	Outcome    domain.Outcome `json:"outcome"`
	Cause      LockCause      `json:"cause"`
	After      time.Duration  `json:"after"`
}

// Snapshot is a read-only view of the session state.
type Snapshot struct {
	State       State         `json:"state"`
	Topic       string        `json:"topic,omitempty"`
	Index       int           `json:"index"`
	Total       int           `json:"total"`
	Correct     int           `json:"correct"`
	Locked      bool          `json:"locked"`
	Selected    domain.Code   `json:"selected,omitempty"`
	Remaining   int           `json:"remaining"`
	Elapsed     float64       `json:"elapsed"`
	LockedAfter time.Duration `json:"lockedAfter"`
	Percentage  int           `json:"percentage"`
}

// Session is the quiz state machine. It owns the question position, the lock
// flag, the score and every timer of a run. It is not safe for concurrent
// use: all calls and all scheduler callbacks must arrive on one goroutine
// (see Loop and Runner).
type Session struct {
	sched     clock.Scheduler
	presenter Presenter
	opts      Options

	set         domain.QuestionSet
	state       State
	index       int
	correct     int
	locked      bool
	selected    domain.Code
	remaining   int
	elapsed     float64
	lockedAfter time.Duration
	history     []Result

	countdown *clock.Countdown
	pause     clock.Timer
	// gen changes whenever the current question changes; timer callbacks
	// carry the gen they were scheduled under and are dropped on mismatch.
	gen uint64
}

func NewSession(sched clock.Scheduler, presenter Presenter, opts Options) *Session {
	if presenter == nil {
		presenter = NopPresenter{}
	}
	return &Session{
		sched:     sched,
		presenter: presenter,
		opts:      opts.withDefaults(),
	}
}

// Start begins a run over set. An empty set is rejected with
// domain.ErrEmptySet and leaves the session untouched. Starting from any
// state other than Idle resets the previous run first.
func (s *Session) Start(set domain.QuestionSet) error {
	if set.Len() == 0 {
		return domain.ErrEmptySet
	}
	if s.state != StateIdle {
		s.Reset()
	}
	s.set = set
	s.index = 0
	s.correct = 0
	s.history = nil
	s.present()
	return nil
}

// Select records code as the answer to the current question and locks it.
// It is a no-op, returning false, unless the question is presenting,
// unlocked, and offers code.
func (s *Session) Select(code domain.Code) bool {
	if s.state != StatePresenting || s.locked {
		return false
	}
	if !s.set.At(s.index).Offers(code) {
		return false
	}
	s.selected = code
	s.lock(CauseSelected)
	return true
}

// AdvanceNow locks the current question with whatever is selected (nothing)
// and schedules the move to the next one. It is a no-op once locked.
func (s *Session) AdvanceNow() bool {
	if s.state != StatePresenting || s.locked {
		return false
	}
	s.lock(CauseAdvanced)
	return true
}

// Reset cancels every timer and returns the session to Idle.
func (s *Session) Reset() {
	s.gen++
	s.stopTimers()
	s.set = domain.QuestionSet{}
	s.state = StateIdle
	s.index = 0
	s.correct = 0
	s.locked = false
	s.selected = domain.NoCode
	s.remaining = 0
	s.elapsed = 0
	s.lockedAfter = 0
	s.history = nil
	s.presenter.ResetDisplay()
}

// Snapshot returns the current session state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		State:       s.state,
		Topic:       s.set.Topic(),
		Index:       s.index,
		Total:       s.set.Len(),
		Correct:     s.correct,
		Locked:      s.locked,
		Selected:    s.selected,
		Remaining:   s.remaining,
		Elapsed:     s.elapsed,
		LockedAfter: s.lockedAfter,
	}
	if s.state == StateCompleted {
		snap.Percentage = Percentage(s.correct, s.set.Len())
	}
	return snap
}

// History returns the locked results of the current run in order.
func (s *Session) History() []Result {
	return append([]Result(nil), s.history...)
}

func (s *Session) present() {
	q := s.set.At(s.index)
	s.gen++
	gen := s.gen
	s.state = StatePresenting
	s.locked = false
	s.selected = domain.NoCode
	s.remaining = q.TimeLimit
	s.elapsed = 0
	s.lockedAfter = 0

	s.presenter.RenderQuestion(q, s.index, s.set.Len())
	s.presenter.SetTimerDisplay(q.TimeLimit, 0)
	s.countdown = clock.Start(s.sched, q.Duration(), s.opts.TickInterval,
		func(remaining int, elapsed float64) { s.onTick(gen, remaining, elapsed) },
		func() { s.onExpire(gen) },
	)
}

func (s *Session) onTick(gen uint64, remaining int, elapsed float64) {
	if gen != s.gen || s.locked {
		return
	}
	s.remaining = remaining
	s.elapsed = elapsed
	s.presenter.SetTimerDisplay(remaining, elapsed)
}

func (s *Session) onExpire(gen uint64) {
	if gen != s.gen || s.state != StatePresenting || s.locked {
		return
	}
	s.lock(CauseExpired)
}

// lock is the single scoring point of a question.
func (s *Session) lock(cause LockCause) {
	q := s.set.At(s.index)
	s.locked = true
	s.state = StateLocked
	s.countdown.Cancel()
	s.lockedAfter = s.countdown.Elapsed()
	s.countdown = nil

	outcome := Evaluate(s.selected, q.Correct)
	if outcome.IsCorrect {
		s.correct++
	}
	s.history = append(s.history, Result{
		QuestionID: q.ID,
		Index:      s.index,
		Outcome:    outcome,
		Cause:      cause,
		After:      s.lockedAfter,
	})

	s.presenter.LockOptions()
	s.presenter.MarkCorrect(q.Correct)
	if outcome.Answered() && !outcome.IsCorrect {
		s.presenter.MarkIncorrect(outcome.Selected)
	}

	pause := s.opts.RevealPause
	if cause == CauseAdvanced {
		pause = s.opts.AdvancePause
	}
	gen := s.gen
	s.pause = s.sched.AfterFunc(pause, func() { s.advance(gen) })
}

func (s *Session) advance(gen uint64) {
	if gen != s.gen || s.state != StateLocked {
		return
	}
	s.pause = nil
	s.index++
	if s.index < s.set.Len() {
		s.present()
		return
	}

	s.gen++
	s.state = StateCompleted
	s.locked = false
	s.selected = domain.NoCode
	s.remaining = 0
	s.elapsed = 0
	total := s.set.Len()
	s.presenter.ShowCompletion(Percentage(s.correct, total), s.correct, total)
}

func (s *Session) stopTimers() {
	if s.countdown != nil {
		s.countdown.Cancel()
		s.countdown = nil
	}
	if s.pause != nil {
		s.pause.Stop()
		s.pause = nil
	}
}
