package hal

import "errors"

// FakeInputs is a test double that returns scripted control readings.
type FakeInputs struct {
	// Samples contains scripted readings. Each call to Read() consumes
	// the next sample; when exhausted, the last sample repeats.
	Samples []Sample

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeInputs creates a FakeInputs with the given samples.
func NewFakeInputs(samples []Sample) *FakeInputs {
	return &FakeInputs{Samples: samples}
}

// Read returns the next scripted sample.
func (f *FakeInputs) Read() (Sample, error) {
	if f.ReadError != nil {
		return Sample{}, f.ReadError
	}

	if len(f.Samples) == 0 {
		return Sample{}, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample, nil
}

// Close marks the inputs as closed.
func (f *FakeInputs) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the inputs to the beginning of samples.
func (f *FakeInputs) Reset() {
	f.index = 0
	f.Closed = false
}

// MotorWrite records one SetMotor call.
type MotorWrite struct {
	Duty    int
	Forward bool
}

// FakeOutputs records every actuator write for test assertions.
type FakeOutputs struct {
	// Motor contains every SetMotor call in order.
	Motor []MotorWrite

	// Heater contains every SetHeater call in order.
	Heater []bool

	// Status contains every SetStatusBrightness call in order.
	Status []int

	// WriteError, if set, will be returned by every setter.
	WriteError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeOutputs creates a FakeOutputs for testing.
func NewFakeOutputs() *FakeOutputs {
	return &FakeOutputs{}
}

// SetMotor records the motor command.
func (f *FakeOutputs) SetMotor(duty int, forward bool) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Motor = append(f.Motor, MotorWrite{Duty: duty, Forward: forward})
	return nil
}

// SetHeater records the heater command.
func (f *FakeOutputs) SetHeater(on bool) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Heater = append(f.Heater, on)
	return nil
}

// SetStatusBrightness records the status LED level.
func (f *FakeOutputs) SetStatusBrightness(level int) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Status = append(f.Status, level)
	return nil
}

// Close marks the outputs as closed.
func (f *FakeOutputs) Close() error {
	f.Closed = true
	return nil
}

// LastMotor returns the most recent motor write, or a zero write.
func (f *FakeOutputs) LastMotor() MotorWrite {
	if len(f.Motor) == 0 {
		return MotorWrite{}
	}
	return f.Motor[len(f.Motor)-1]
}

// LastHeater returns the most recent heater state, or false.
func (f *FakeOutputs) LastHeater() bool {
	if len(f.Heater) == 0 {
		return false
	}
	return f.Heater[len(f.Heater)-1]
}

// FakeDisplay records written lines for test assertions.
type FakeDisplay struct {
	// Lines contains every WriteLines call as [line1, line2], after
	// padding to DisplayWidth.
	Lines [][2]string

	// WriteError, if set, will be returned by WriteLines.
	WriteError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeDisplay creates a FakeDisplay for testing.
func NewFakeDisplay() *FakeDisplay {
	return &FakeDisplay{}
}

// WriteLines records both lines.
func (f *FakeDisplay) WriteLines(line1, line2 string) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Lines = append(f.Lines, [2]string{padLine(line1), padLine(line2)})
	return nil
}

// Close marks the display as closed.
func (f *FakeDisplay) Close() error {
	f.Closed = true
	return nil
}

// LastLines returns the most recent display content, or empty lines.
func (f *FakeDisplay) LastLines() (string, string) {
	if len(f.Lines) == 0 {
		return "", ""
	}
	last := f.Lines[len(f.Lines)-1]
	return last[0], last[1]
}
