package app

import "sync"

// Loop runs posted tasks one at a time on a dedicated goroutine. It is the
// event queue that serializes user input and timer callbacks for a Session.
type Loop struct {
	tasks   chan func()
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

func NewLoop(buffer int) *Loop {
	l := &Loop{
		tasks:   make(chan func(), buffer),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.stopped)
	for {
		select {
		case fn := <-l.tasks:
			fn()
		case <-l.done:
			return
		}
	}
}

// Post queues fn without waiting for it. It reports false once the loop is closed.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Do runs fn on the loop and waits for it to finish. It must not be called
// from the loop goroutine.
func (l *Loop) Do(fn func()) bool {
	ran := make(chan struct{})
	if !l.Post(func() {
		defer close(ran)
		fn()
	}) {
		return false
	}
	select {
	case <-ran:
		return true
	case <-l.stopped:
		select {
		case <-ran:
			return true
		default:
			return false
		}
	}
}

// Close stops the loop after the task in progress. Queued tasks are dropped.
func (l *Loop) Close() {
	l.once.Do(func() { close(l.done) })
	<-l.stopped
}
