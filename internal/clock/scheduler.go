package clock

import "time"

// Timer is a pending callback that can be stopped before it fires.
type Timer interface {
	Stop() bool
}

// Scheduler creates one-shot timers. Implementations decide on which
// goroutine callbacks run.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// Realtime is a wall-clock Scheduler. When post is set, fired callbacks are
// handed to it instead of running on the timer goroutine, which lets a
// single event loop own every state transition.
type Realtime struct {
	post func(func())
}

func NewRealtime(post func(func())) *Realtime {
	return &Realtime{post: post}
}

func (r *Realtime) Now() time.Time {
	return time.Now()
}

func (r *Realtime) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, func() {
		if r.post != nil {
			r.post(fn)
			return
		}
		fn()
	})
}
