package clock

import "time"

// DefaultTickInterval is the display refresh rate of a countdown.
const DefaultTickInterval = 50 * time.Millisecond

// TickFunc receives the whole seconds left (rounded up) and the elapsed
// fraction of the countdown in [0,1].
type TickFunc func(remaining int, elapsed float64)

// Countdown is a cancelable timer that ticks at a fixed interval and expires
// exactly once. It is not safe for concurrent use: create, cancel and receive
// callbacks on the goroutine the Scheduler delivers to.
type Countdown struct {
	sched     Scheduler
	total     time.Duration
	interval  time.Duration
	startedAt time.Time
	stoppedAt time.Time
	onTick    TickFunc
	onExpire  func()
	tick      Timer
	expire    Timer
	done      bool
	expired   bool
}

// Start begins a countdown of total length. onExpire fires once unless the
// countdown is canceled first; it is preceded by a final onTick(0, 1).
func Start(s Scheduler, total, interval time.Duration, onTick TickFunc, onExpire func()) *Countdown {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	if total < 0 {
		total = 0
	}
	c := &Countdown{
		sched:     s,
		total:     total,
		interval:  interval,
		startedAt: s.Now(),
		onTick:    onTick,
		onExpire:  onExpire,
	}
	c.expire = s.AfterFunc(total, c.fireExpire)
	c.tick = s.AfterFunc(interval, c.fireTick)
	return c
}

// Cancel stops all future notifications. It is idempotent and a no-op after expiry.
func (c *Countdown) Cancel() {
	if c == nil || c.done {
		return
	}
	c.done = true
	c.stoppedAt = c.sched.Now()
	c.tick.Stop()
	c.expire.Stop()
}

// Expired reports whether onExpire has been delivered.
func (c *Countdown) Expired() bool {
	return c != nil && c.expired
}

// Elapsed is the time since Start, frozen once the countdown is canceled or expired.
func (c *Countdown) Elapsed() time.Duration {
	if c == nil {
		return 0
	}
	if c.done {
		return c.stoppedAt.Sub(c.startedAt)
	}
	return c.sched.Now().Sub(c.startedAt)
}

func (c *Countdown) fireTick() {
	if c.done {
		return
	}
	elapsed := c.sched.Now().Sub(c.startedAt)
	if elapsed >= c.total {
		// expiry delivers the final tick
		return
	}
	if c.onTick != nil {
		c.onTick(Remaining(c.total, elapsed), Fraction(c.total, elapsed))
	}
	if c.done {
		return
	}
	c.tick = c.sched.AfterFunc(c.interval, c.fireTick)
}

func (c *Countdown) fireExpire() {
	if c.done {
		return
	}
	c.done = true
	c.expired = true
	c.stoppedAt = c.startedAt.Add(c.total)
	c.tick.Stop()
	if c.onTick != nil {
		c.onTick(0, 1)
	}
	if c.onExpire != nil {
		c.onExpire()
	}
}

// Remaining returns the whole seconds left, rounded up.
func Remaining(total, elapsed time.Duration) int {
	left := total - elapsed
	if left <= 0 {
		return 0
	}
	return int((left + time.Second - 1) / time.Second)
}

// Fraction returns elapsed/total clamped to [0,1].
func Fraction(total, elapsed time.Duration) float64 {
	if total <= 0 {
		return 1
	}
	f := float64(elapsed) / float64(total)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
