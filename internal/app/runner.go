package app

import (
	"timed-quiz/internal/clock"
	"timed-quiz/internal/domain"
)

// SchedulerFactory builds the scheduler for a runner; post delivers timer
// callbacks onto the runner's loop.
type SchedulerFactory func(post func(func())) clock.Scheduler

// RealtimeScheduler is the production SchedulerFactory.
func RealtimeScheduler(post func(func())) clock.Scheduler {
	return clock.NewRealtime(post)
}

// Runner owns a Session and the Loop it runs on, and exposes goroutine-safe
// entry points for transports.
type Runner struct {
	id      string
	loop    *Loop
	session *Session
}

func NewRunner(id string, presenter Presenter, opts Options, newScheduler SchedulerFactory) *Runner {
	if newScheduler == nil {
		newScheduler = RealtimeScheduler
	}
	loop := NewLoop(64)
	sched := newScheduler(func(fn func()) { loop.Post(fn) })
	return &Runner{
		id:      id,
		loop:    loop,
		session: NewSession(sched, presenter, opts),
	}
}

// ID is the session identifier.
func (r *Runner) ID() string { return r.id }

func (r *Runner) Start(set domain.QuestionSet) error {
	var err error
	if !r.loop.Do(func() { err = r.session.Start(set) }) {
		return domain.ErrSessionNotFound
	}
	return err
}

func (r *Runner) Select(code domain.Code) bool {
	var ok bool
	r.loop.Do(func() { ok = r.session.Select(code) })
	return ok
}

func (r *Runner) AdvanceNow() bool {
	var ok bool
	r.loop.Do(func() { ok = r.session.AdvanceNow() })
	return ok
}

func (r *Runner) Reset() {
	r.loop.Do(r.session.Reset)
}

func (r *Runner) Snapshot() Snapshot {
	var snap Snapshot
	r.loop.Do(func() { snap = r.session.Snapshot() })
	return snap
}

func (r *Runner) History() []Result {
	var out []Result
	r.loop.Do(func() { out = r.session.History() })
	return out
}

// Close cancels the session's timers and stops its loop.
func (r *Runner) Close() {
	r.loop.Do(r.session.stopTimers)
	r.loop.Close()
}
