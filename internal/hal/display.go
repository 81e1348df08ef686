//go:build linux

package hal

import (
	"fmt"
	"time"

	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
)

// PCF8574 backpack bit assignments: P0=RS, P1=RW, P2=EN, P3=backlight,
// P4..P7 = data nibble.
const (
	lcdRS        = 0x01
	lcdEN        = 0x04
	lcdBacklight = 0x08
)

// DefaultDisplayAddr is the usual PCF8574 backpack address.
const DefaultDisplayAddr = 0x27

// RealDisplay drives a 20x2 HD44780 LCD behind a PCF8574 I2C backpack in
// 4-bit mode.
type RealDisplay struct {
	bus  i2c.BusCloser
	dev  *i2c.Dev
	last [2]string
}

// NewRealDisplay opens the I2C bus ("" for the first available) and runs
// the HD44780 initialization sequence.
func NewRealDisplay(busName string, addr uint16) (*RealDisplay, error) {
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}

	d := &RealDisplay{bus: bus, dev: &i2c.Dev{Bus: bus, Addr: addr}}
	if err := d.init(); err != nil {
		bus.Close()
		return nil, fmt.Errorf("init lcd: %w", err)
	}
	return d, nil
}

// WriteLines replaces both lines, skipping the bus traffic when the
// content has not changed since the last write.
func (d *RealDisplay) WriteLines(line1, line2 string) error {
	l1, l2 := padLine(line1), padLine(line2)
	if d.last[0] == l1 && d.last[1] == l2 {
		return nil
	}

	if err := d.writeLine(0x80, l1); err != nil {
		return fmt.Errorf("write line 1: %w", err)
	}
	if err := d.writeLine(0xc0, l2); err != nil {
		return fmt.Errorf("write line 2: %w", err)
	}
	d.last = [2]string{l1, l2}
	return nil
}

// Close clears the display and turns off the backlight.
func (d *RealDisplay) Close() error {
	var errs []error
	if err := d.command(0x01); err != nil {
		errs = append(errs, err)
	}
	if err := d.tx(0x00); err != nil {
		errs = append(errs, err)
	}
	if err := d.bus.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// init runs the standard 4-bit wake-up sequence, then configures the
// controller. Delays follow the HD44780 datasheet.
func (d *RealDisplay) init() error {
	time.Sleep(50 * time.Millisecond)
	for _, v := range []byte{0x30, 0x30, 0x30, 0x20} {
		if err := d.pulse(v); err != nil {
			return err
		}
		time.Sleep(5 * time.Millisecond)
	}

	for _, cmd := range []byte{
		0x28, // 4-bit, 2 lines, 5x8 font
		0x0c, // display on, cursor off
		0x06, // entry mode: increment, no shift
		0x01, // clear
	} {
		if err := d.command(cmd); err != nil {
			return err
		}
		time.Sleep(2 * time.Millisecond)
	}
	return nil
}

func (d *RealDisplay) writeLine(addrCmd byte, s string) error {
	if err := d.command(addrCmd); err != nil {
		return err
	}
	for i := 0; i < len(s); i++ {
		if err := d.writeByte(s[i], lcdRS); err != nil {
			return err
		}
	}
	return nil
}

func (d *RealDisplay) command(b byte) error {
	return d.writeByte(b, 0)
}

// writeByte sends one byte as two nibbles with the given register-select.
func (d *RealDisplay) writeByte(b, rs byte) error {
	if err := d.pulse(b&0xf0 | rs); err != nil {
		return err
	}
	return d.pulse(b<<4&0xf0 | rs)
}

// pulse latches one nibble by strobing EN. The I2C byte time alone far
// exceeds the controller's 450 ns minimum EN pulse width, so no extra
// delay is needed.
func (d *RealDisplay) pulse(v byte) error {
	v |= lcdBacklight
	if err := d.tx(v | lcdEN); err != nil {
		return err
	}
	return d.tx(v &^ lcdEN)
}

func (d *RealDisplay) tx(v byte) error {
	return d.dev.Tx([]byte{v}, nil)
}
