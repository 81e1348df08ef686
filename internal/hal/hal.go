// Package hal provides the panel's hardware abstraction.
// The real implementation drives Raspberry Pi GPIO, SPI and I2C.
// The fake implementations allow testing and simulation without hardware.
package hal

// DisplayWidth is the character width of the panel display (20x2 LCD).
const DisplayWidth = 20

// Sample is one reading of the operator controls.
type Sample struct {
	// Speed is the pot position, 0..1023.
	Speed int
	// Pressed is true while the arm button is held. The button is wired
	// active-low; the inversion happens in the hardware layer.
	Pressed bool
}

// Inputs reads the operator controls.
type Inputs interface {
	// Read returns the current control sample.
	// Polled; the read is expected to be cheap and non-blocking.
	Read() (Sample, error)

	// Close releases input resources.
	Close() error
}

// Outputs drives the panel's actuators.
type Outputs interface {
	// SetMotor applies a PWM duty (0..255) and direction to the driver.
	// duty 0 with forward=false is the stopped combination used while
	// locked: EN low and both direction pins low.
	SetMotor(duty int, forward bool) error

	// SetHeater drives the heater relay and the heater lamp in lockstep.
	SetHeater(on bool) error

	// SetStatusBrightness sets the status LED level, 0..255.
	SetStatusBrightness(level int) error

	// Close releases output resources, driving every actuator off first.
	Close() error
}

// Display is a two-line fixed-width text surface.
type Display interface {
	// WriteLines replaces both lines. Longer lines are truncated and
	// shorter lines padded to DisplayWidth.
	WriteLines(line1, line2 string) error

	// Close releases display resources.
	Close() error
}

// Default pin assignments (BCM numbering).
const (
	DefaultPinButton     = 17 // arm button, input, pull-up, active-low
	DefaultPinHeater     = 22 // heater relay
	DefaultPinHeaterLamp = 23 // heater indicator
	DefaultPinStatusLED  = 12 // status LED, software PWM
	DefaultPinMotorEN    = 13 // motor driver enable, software PWM
	DefaultPinMotorIN1   = 5  // motor driver direction
	DefaultPinMotorIN2   = 6  // motor driver direction
)

// OutputPins holds the BCM pin assignments for the actuators.
type OutputPins struct {
	Heater     int
	HeaterLamp int
	StatusLED  int
	MotorEN    int
	MotorIN1   int
	MotorIN2   int
}

// DefaultOutputPins returns the standard panel wiring.
func DefaultOutputPins() OutputPins {
	return OutputPins{
		Heater:     DefaultPinHeater,
		HeaterLamp: DefaultPinHeaterLamp,
		StatusLED:  DefaultPinStatusLED,
		MotorEN:    DefaultPinMotorEN,
		MotorIN1:   DefaultPinMotorIN1,
		MotorIN2:   DefaultPinMotorIN2,
	}
}

// padLine fits s to DisplayWidth, truncating or right-padding with spaces.
func padLine(s string) string {
	if len(s) > DisplayWidth {
		return s[:DisplayWidth]
	}
	for len(s) < DisplayWidth {
		s += " "
	}
	return s
}
