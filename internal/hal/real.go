//go:build linux

package hal

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
	"periph.io/x/periph/conn/spi/spireg"
	"periph.io/x/periph/host"
)

// RealInputs reads the speed pot through an MCP3008 ADC on SPI and the arm
// button through the Linux GPIO character device.
type RealInputs struct {
	chip    *gpiocdev.Chip
	button  *gpiocdev.Line
	spiPort spi.PortCloser
	spiConn spi.Conn
	channel int
}

// NewRealInputs opens the input hardware. spiDev selects the SPI port
// ("" for the first available); potChannel is the MCP3008 channel the pot
// wiper is on.
func NewRealInputs(buttonPin int, spiDev string, potChannel int) (*RealInputs, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}

	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	// The arm button shorts the line to ground when pressed.
	button, err := chip.RequestLine(buttonPin, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request button pin %d: %w", buttonPin, err)
	}

	port, err := spireg.Open(spiDev)
	if err != nil {
		button.Close()
		chip.Close()
		return nil, fmt.Errorf("open spi port %q: %w", spiDev, err)
	}

	conn, err := port.Connect(physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		port.Close()
		button.Close()
		chip.Close()
		return nil, fmt.Errorf("connect mcp3008: %w", err)
	}

	return &RealInputs{
		chip:    chip,
		button:  button,
		spiPort: port,
		spiConn: conn,
		channel: potChannel,
	}, nil
}

// Read samples the pot and the arm button level.
func (r *RealInputs) Read() (Sample, error) {
	raw, err := r.readPot()
	if err != nil {
		return Sample{}, fmt.Errorf("read pot: %w", err)
	}

	lvl, err := r.button.Value()
	if err != nil {
		return Sample{}, fmt.Errorf("read button: %w", err)
	}

	// Active-low: pressed pulls the line to ground.
	return Sample{Speed: raw, Pressed: lvl == 0}, nil
}

// readPot performs one single-ended MCP3008 conversion.
func (r *RealInputs) readPot() (int, error) {
	tx := []byte{0x01, byte(0x80 | r.channel<<4), 0x00}
	rx := make([]byte, 3)
	if err := r.spiConn.Tx(tx, rx); err != nil {
		return 0, err
	}
	return int(rx[1]&0x03)<<8 | int(rx[2]), nil
}

// Close releases the input hardware.
func (r *RealInputs) Close() error {
	var errs []error
	if r.spiPort != nil {
		if err := r.spiPort.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close spi: %w", err))
		}
	}
	if r.button != nil {
		if err := r.button.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close button: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealOutputs drives the actuators: relay and direction lines directly,
// motor enable and status LED through software PWM.
type RealOutputs struct {
	chip    *gpiocdev.Chip
	heater  *gpiocdev.Line
	lamp    *gpiocdev.Line
	in1     *gpiocdev.Line
	in2     *gpiocdev.Line
	enLine  *gpiocdev.Line
	ledLine *gpiocdev.Line
	motor   *softPWM
	led     *softPWM
}

// NewRealOutputs requests every actuator line, all driven low initially.
func NewRealOutputs(pins OutputPins) (*RealOutputs, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	o := &RealOutputs{chip: chip}
	for _, req := range []struct {
		name string
		pin  int
		dst  **gpiocdev.Line
	}{
		{"heater", pins.Heater, &o.heater},
		{"heater lamp", pins.HeaterLamp, &o.lamp},
		{"motor in1", pins.MotorIN1, &o.in1},
		{"motor in2", pins.MotorIN2, &o.in2},
		{"motor en", pins.MotorEN, &o.enLine},
		{"status led", pins.StatusLED, &o.ledLine},
	} {
		line, err := chip.RequestLine(req.pin, gpiocdev.AsOutput(0))
		if err != nil {
			o.closeLines()
			return nil, fmt.Errorf("request %s pin %d: %w", req.name, req.pin, err)
		}
		*req.dst = line
	}

	o.motor = newSoftPWM(o.enLine)
	o.led = newSoftPWM(o.ledLine)
	return o, nil
}

// SetMotor applies duty and direction. The direction pair is IN1 high /
// IN2 low for forward and both low for stopped.
func (o *RealOutputs) SetMotor(duty int, forward bool) error {
	in1 := 0
	if forward {
		in1 = 1
	}
	if err := o.in1.SetValue(in1); err != nil {
		return fmt.Errorf("set motor in1: %w", err)
	}
	if err := o.in2.SetValue(0); err != nil {
		return fmt.Errorf("set motor in2: %w", err)
	}
	o.motor.SetDuty(duty)
	return nil
}

// SetHeater drives the relay and the lamp in lockstep.
func (o *RealOutputs) SetHeater(on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := o.heater.SetValue(v); err != nil {
		return fmt.Errorf("set heater relay: %w", err)
	}
	if err := o.lamp.SetValue(v); err != nil {
		return fmt.Errorf("set heater lamp: %w", err)
	}
	return nil
}

// SetStatusBrightness sets the status LED level.
func (o *RealOutputs) SetStatusBrightness(level int) error {
	o.led.SetDuty(level)
	return nil
}

// Close drives every actuator off, stops the PWM goroutines and releases
// the lines. Safe to call on a partially constructed value.
func (o *RealOutputs) Close() error {
	if o.motor != nil {
		o.motor.Close()
	}
	if o.led != nil {
		o.led.Close()
	}
	for _, line := range []*gpiocdev.Line{o.heater, o.lamp, o.in1, o.in2} {
		if line != nil {
			line.SetValue(0)
		}
	}
	return o.closeLines()
}

func (o *RealOutputs) closeLines() error {
	var errs []error
	for _, line := range []*gpiocdev.Line{o.heater, o.lamp, o.in1, o.in2, o.enLine, o.ledLine} {
		if line == nil {
			continue
		}
		if err := line.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if o.chip != nil {
		if err := o.chip.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
