// Package logic contains the pure control core for the extruder panel:
// input normalization, the arming state machine, and the actuator decision.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// ArmState is the state of the safety interlock.
type ArmState string

const (
	StateLocked ArmState = "LOCKED"
	StateArmed  ArmState = "ARMED"
)

// Fixed ranges of the panel hardware.
const (
	// RawMax is the full-scale speed pot reading (10-bit ADC).
	RawMax = 1023
	// DutyMax is the full-scale PWM level for the motor and status LED.
	DutyMax = 255
	// SpeedScale is the raw target-speed range before division by 100,
	// giving a display quantity of 0.00..10.00.
	SpeedScale = 1000
)

// Status phrases shown on line 2 of the panel display. These are part of
// the observable contract; the display layer only pads or truncates them.
const (
	PhraseSetZero  = "Set speed to zero"
	PhrasePressArm = "Press button..."
	PhraseActive   = "System Active"
)

// Sample is one raw reading of the operator controls.
type Sample struct {
	// Raw is the speed pot position, 0..RawMax.
	Raw int
	// ButtonPressed is true while the arm button is held.
	// The active-low inversion happens in the hardware layer.
	ButtonPressed bool
}

// Command is the normalized view of a Sample.
type Command struct {
	// Raw is the pot reading after defensive clamping to 0..RawMax.
	Raw int
	// TargetSpeed is the display quantity, 0.00..10.00.
	TargetSpeed float64
	// DriveDuty is the motor PWM level, 0..DutyMax.
	DriveDuty int
	// ArmRequested is true while the arm button is held.
	ArmRequested bool
}

// Actuators is the output tuple for one tick. All five fields are decided
// together; the output layer applies them as a group before the tick returns.
type Actuators struct {
	MotorDuty        int
	MotorForward     bool
	HeaterOn         bool
	HeaterLampOn     bool
	StatusBrightness int
}

// EventType identifies a state transition event.
type EventType string

// EventArmed is emitted once, on the tick the interlock opens.
const EventArmed EventType = "ARMED"

// Event represents a state transition to be published.
type Event struct {
	Timestamp   time.Time
	Type        EventType
	TargetSpeed float64
}

// Output is everything one tick decides: the actuator tuple, the two
// display lines, and an optional transition event.
type Output struct {
	State     ArmState
	Actuators Actuators
	Line1     string
	Line2     string
	Event     *Event
}
