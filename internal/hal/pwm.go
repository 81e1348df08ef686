//go:build linux

package hal

import (
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// pwmPeriod is the software PWM period (500 Hz). Fast enough for LED
// dimming and DC motor drive, slow enough for the scheduler to keep up.
const pwmPeriod = 2 * time.Millisecond

// softPWM bit-bangs a PWM waveform on a GPIO line from its own goroutine.
// The pins the panel uses have no hardware PWM channel behind them.
type softPWM struct {
	line *gpiocdev.Line
	duty chan int
	done chan struct{}
	wg   sync.WaitGroup
}

// newSoftPWM starts the waveform goroutine at duty 0.
// The caller retains ownership of the line and closes it after Close.
func newSoftPWM(line *gpiocdev.Line) *softPWM {
	p := &softPWM{
		line: line,
		duty: make(chan int, 1),
		done: make(chan struct{}),
	}
	p.wg.Add(1)
	go p.run()
	return p
}

// SetDuty sets the duty level, 0..255. Never blocks: a pending unread
// update is replaced by the newer one.
func (p *softPWM) SetDuty(level int) {
	if level < 0 {
		level = 0
	}
	if level > 255 {
		level = 255
	}
	for {
		select {
		case p.duty <- level:
			return
		case <-p.duty:
			// Drop the stale pending level and retry.
		}
	}
}

// Close stops the waveform, leaving the line low.
func (p *softPWM) Close() {
	close(p.done)
	p.wg.Wait()
}

func (p *softPWM) run() {
	defer p.wg.Done()

	level := 0
	for {
		select {
		case <-p.done:
			p.line.SetValue(0)
			return
		case level = <-p.duty:
		default:
		}

		on := pwmPeriod * time.Duration(level) / 255
		if level > 0 {
			p.line.SetValue(1)
			time.Sleep(on)
		}
		if level < 255 {
			p.line.SetValue(0)
			time.Sleep(pwmPeriod - on)
		}
	}
}
