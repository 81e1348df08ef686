package logic

import (
	"fmt"
	"time"
)

// Params configures a Controller. The temperatures are fixed assumptions in
// this design, not live sensor readings; they are injected so tests and
// deployments can vary them without a rebuild.
type Params struct {
	// TargetTempC is the nozzle target temperature shown on the display
	// and compared against RoomTempC for the heater decision.
	TargetTempC float64
	// RoomTempC is the assumed ambient temperature.
	RoomTempC float64
	// PotZeroThreshold is the raw dead zone below which the speed command
	// counts as zeroed for the arm sequence.
	PotZeroThreshold int
	// MaxBrightness is the top of the breathing wave and the level the
	// status LED latches to once armed.
	MaxBrightness int
	// FadeAmount is the breathing step size.
	FadeAmount int
	// FadeDelay is the minimum interval between breathing steps.
	FadeDelay time.Duration
}

// Controller is the arming state machine. It owns all persistent panel
// state; one instance is created at startup and driven once per tick.
// Not safe for concurrent use; the control loop is single-threaded.
type Controller struct {
	params Params
	armed  bool
	breath *breather
}

// NewController creates a Controller in the locked state with the breathing
// animation at brightness zero.
func NewController(p Params) *Controller {
	return &Controller{
		params: p,
		breath: newBreather(p.MaxBrightness, p.FadeAmount, p.FadeDelay),
	}
}

// State returns the current interlock state.
func (c *Controller) State() ArmState {
	if c.armed {
		return StateArmed
	}
	return StateLocked
}

// Tick consumes one normalized command and the current time, and decides
// the full actuator tuple and display content for this tick. The tuple is
// always complete: callers apply all five actuator fields as a group.
func (c *Controller) Tick(cmd Command, now time.Time) Output {
	if c.armed {
		return c.armedTick(cmd)
	}
	return c.lockedTick(cmd, now)
}

// lockedTick enforces the interlock: every power actuator is forced off,
// the status LED breathes, and the display walks the operator through the
// arm sequence (zero the speed command, then press the button).
func (c *Controller) lockedTick(cmd Command, now time.Time) Output {
	brightness := c.breath.advance(now)

	// The arm check is the terminal action of the locked branch: on the
	// transition tick the actuators are computed under armed rules, not
	// the forced-off values below. The interlock guarantees the duty is
	// inside the dead zone at that moment.
	if cmd.Raw < c.params.PotZeroThreshold && cmd.ArmRequested {
		c.armed = true
		out := c.armedTick(cmd)
		out.Event = &Event{
			Timestamp:   now,
			Type:        EventArmed,
			TargetSpeed: cmd.TargetSpeed,
		}
		return out
	}

	line2 := PhrasePressArm
	if cmd.Raw >= c.params.PotZeroThreshold {
		line2 = PhraseSetZero
	}

	return Output{
		State: StateLocked,
		Actuators: Actuators{
			// Motor duty zero, direction pins low, heater and lamp off.
			StatusBrightness: brightness,
		},
		Line1: c.line1(cmd),
		Line2: line2,
	}
}

// armedTick tracks the live speed command and drives the heater from the
// fixed temperature comparison. There is no path back to locked.
func (c *Controller) armedTick(cmd Command) Output {
	heaterOn := c.params.RoomTempC < c.params.TargetTempC

	return Output{
		State: StateArmed,
		Actuators: Actuators{
			MotorDuty:        cmd.DriveDuty,
			MotorForward:     true,
			HeaterOn:         heaterOn,
			HeaterLampOn:     heaterOn,
			StatusBrightness: c.params.MaxBrightness,
		},
		Line1: c.line1(cmd),
		Line2: PhraseActive,
	}
}

// line1 formats the target temperature and target speed for the 20-column
// display, e.g. "T:190C S: 2.50".
func (c *Controller) line1(cmd Command) string {
	return fmt.Sprintf("T:%3.0fC S:%5.2f", c.params.TargetTempC, cmd.TargetSpeed)
}
