package engine

import (
	"runtime"
	"time"
)

// IdleStrategy controls how the framer behaves on an empty duty cycle and
// how admin callers wait for their response slot.
type IdleStrategy interface {
	// Idle is called with the amount of work the last cycle found. Any
	// work resets the strategy.
	Idle(workCount int)
}

// BackoffIdle yields first, then sleeps with a doubling pause up to Max.
// The zero value is usable.
type BackoffIdle struct {
	Min   time.Duration
	Max   time.Duration
	pause time.Duration
}

func (b *BackoffIdle) Idle(workCount int) {
	if workCount > 0 {
		b.pause = 0
		return
	}
	if b.pause == 0 {
		runtime.Gosched()
		b.pause = b.min()
		return
	}
	time.Sleep(b.pause)
	b.pause *= 2
	if max := b.max(); b.pause > max {
		b.pause = max
	}
}

func (b *BackoffIdle) min() time.Duration {
	if b.Min > 0 {
		return b.Min
	}
	return 50 * time.Microsecond
}

func (b *BackoffIdle) max() time.Duration {
	if b.Max > 0 {
		return b.Max
	}
	return time.Millisecond
}
