package logic

import "time"

// breather produces the reflecting triangle wave that animates the status
// LED while the panel is locked. Brightness stays within [0, max] inclusive;
// the step is negated at both bounds.
type breather struct {
	brightness int
	step       int
	max        int
	delay      time.Duration
	lastStep   time.Time
	started    bool
}

func newBreather(max, step int, delay time.Duration) *breather {
	return &breather{max: max, step: step, delay: delay}
}

// advance steps the wave if at least delay has elapsed since the last step,
// measured against the injected monotonic-ish clock. Multiple elapsed
// intervals coalesce into a single step, so a stalled tick loop does not
// fast-forward the animation.
func (b *breather) advance(now time.Time) int {
	if !b.started {
		b.started = true
		b.lastStep = now
		return b.brightness
	}
	if now.Sub(b.lastStep) < b.delay {
		return b.brightness
	}
	b.lastStep = now

	b.brightness += b.step
	if b.brightness >= b.max {
		b.brightness = b.max
		b.step = -b.step
	} else if b.brightness <= 0 {
		b.brightness = 0
		if b.step < 0 {
			b.step = -b.step
		}
	}
	return b.brightness
}
