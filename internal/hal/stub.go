//go:build !linux

package hal

import "errors"

var errUnsupported = errors.New("hal: not supported on this platform (requires Linux)")

// RealInputs is not available on non-Linux platforms.
type RealInputs struct{}

// NewRealInputs returns an error on non-Linux platforms.
func NewRealInputs(buttonPin int, spiDev string, potChannel int) (*RealInputs, error) {
	return nil, errUnsupported
}

// Read is not implemented on non-Linux platforms.
func (r *RealInputs) Read() (Sample, error) {
	return Sample{}, errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (r *RealInputs) Close() error {
	return nil
}

// RealOutputs is not available on non-Linux platforms.
type RealOutputs struct{}

// NewRealOutputs returns an error on non-Linux platforms.
func NewRealOutputs(pins OutputPins) (*RealOutputs, error) {
	return nil, errUnsupported
}

func (o *RealOutputs) SetMotor(duty int, forward bool) error { return errUnsupported }
func (o *RealOutputs) SetHeater(on bool) error               { return errUnsupported }
func (o *RealOutputs) SetStatusBrightness(level int) error   { return errUnsupported }
func (o *RealOutputs) Close() error                          { return nil }

// RealDisplay is not available on non-Linux platforms.
type RealDisplay struct{}

// NewRealDisplay returns an error on non-Linux platforms.
func NewRealDisplay(busName string, addr uint16) (*RealDisplay, error) {
	return nil, errUnsupported
}

// WriteLines is not implemented on non-Linux platforms.
func (d *RealDisplay) WriteLines(line1, line2 string) error {
	return errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (d *RealDisplay) Close() error {
	return nil
}

// DefaultDisplayAddr is the usual PCF8574 backpack address.
const DefaultDisplayAddr = 0x27
