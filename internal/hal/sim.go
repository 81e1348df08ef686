package hal

import (
	"fmt"
	"io"
	"os"
	"time"
)

// SimInputs replays a canned operator session against the wall clock, for
// running the daemon without hardware: the pot is left high, then zeroed,
// then the arm button is pressed, then the speed ramps up slowly.
type SimInputs struct {
	start time.Time
	now   func() time.Time
}

// NewSimInputs creates a SimInputs using the given clock.
func NewSimInputs(now func() time.Time) *SimInputs {
	return &SimInputs{start: now(), now: now}
}

// Read returns the scripted sample for the current elapsed time.
func (s *SimInputs) Read() (Sample, error) {
	elapsed := s.now().Sub(s.start)
	switch {
	case elapsed < 3*time.Second:
		// Operator forgot the pot at mid-range.
		return Sample{Speed: 500}, nil
	case elapsed < 5*time.Second:
		// Pot zeroed, button not yet pressed.
		return Sample{Speed: 5}, nil
	case elapsed < 6*time.Second:
		// Button held with the pot zeroed: arms.
		return Sample{Speed: 5, Pressed: true}, nil
	default:
		// Slow ramp to full speed over 20 seconds.
		ramp := int((elapsed - 6*time.Second) / (20 * time.Millisecond))
		if ramp > 1023 {
			ramp = 1023
		}
		return Sample{Speed: ramp}, nil
	}
}

// Close is a no-op.
func (s *SimInputs) Close() error {
	return nil
}

// ConsoleDisplay renders the two panel lines to a writer, for -sim runs.
// A nil W writes to stdout.
type ConsoleDisplay struct {
	W io.Writer

	last [2]string
}

// WriteLines prints the panel content when it changes.
func (d *ConsoleDisplay) WriteLines(line1, line2 string) error {
	l1, l2 := padLine(line1), padLine(line2)
	if d.last[0] == l1 && d.last[1] == l2 {
		return nil
	}
	d.last = [2]string{l1, l2}
	_, err := fmt.Fprintf(writerOr(d.W), "+%s+\n|%s|\n|%s|\n", dashes(), l1, l2)
	return err
}

// Close is a no-op.
func (d *ConsoleDisplay) Close() error {
	return nil
}

// ConsoleOutputs logs actuator changes to a writer, for -sim runs.
// A nil W writes to stdout.
type ConsoleOutputs struct {
	W io.Writer

	motor     MotorWrite
	motorSet  bool
	heater    bool
	heaterSet bool
	status    int
	statusSet bool
}

// SetMotor logs the motor command when it changes.
func (o *ConsoleOutputs) SetMotor(duty int, forward bool) error {
	mw := MotorWrite{Duty: duty, Forward: forward}
	if o.motorSet && mw == o.motor {
		return nil
	}
	o.motor = mw
	o.motorSet = true
	dir := "stopped"
	if forward {
		dir = "forward"
	}
	_, err := fmt.Fprintf(writerOr(o.W), "motor: duty=%d %s\n", duty, dir)
	return err
}

// SetHeater logs the heater state when it changes.
func (o *ConsoleOutputs) SetHeater(on bool) error {
	if o.heaterSet && on == o.heater {
		return nil
	}
	o.heater = on
	o.heaterSet = true
	_, err := fmt.Fprintf(writerOr(o.W), "heater: %v\n", on)
	return err
}

// SetStatusBrightness logs the LED level when it changes.
func (o *ConsoleOutputs) SetStatusBrightness(level int) error {
	if o.statusSet && level == o.status {
		return nil
	}
	o.status = level
	o.statusSet = true
	_, err := fmt.Fprintf(writerOr(o.W), "status led: %d\n", level)
	return err
}

// Close is a no-op.
func (o *ConsoleOutputs) Close() error {
	return nil
}

func writerOr(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}

func dashes() string {
	b := make([]byte, DisplayWidth)
	for i := range b {
		b[i] = '-'
	}
	return string(b)
}
