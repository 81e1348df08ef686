// Package config loads the daemon configuration from a YAML file.
// Missing files and missing fields fall back to defaults, so the daemon
// runs with no config file at all.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/extruder-ctl/internal/hal"
)

// Config represents the daemon configuration.
type Config struct {
	Control ControlConfig `yaml:"control"`
	Pins    PinsConfig    `yaml:"pins"`
	Pot     PotConfig     `yaml:"pot"`
	Display DisplayConfig `yaml:"display"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	HTTP    HTTPConfig    `yaml:"http"`
}

// ControlConfig contains the control-loop parameters. The temperatures are
// fixed assumptions, not sensor readings; keeping them here lets tests and
// deployments vary them without a rebuild.
type ControlConfig struct {
	TargetTempC      float64       `yaml:"target_temp_c"`
	RoomTempC        float64       `yaml:"room_temp_c"`
	PotZeroThreshold int           `yaml:"pot_zero_threshold"`
	MaxBrightness    int           `yaml:"max_brightness"`
	FadeAmount       int           `yaml:"fade_amount"`
	FadeDelay        time.Duration `yaml:"fade_delay"`
	TickDelay        time.Duration `yaml:"tick_delay"`
}

// PinsConfig contains BCM pin assignments.
type PinsConfig struct {
	Button     int `yaml:"button"`
	Heater     int `yaml:"heater"`
	HeaterLamp int `yaml:"heater_lamp"`
	StatusLED  int `yaml:"status_led"`
	MotorEN    int `yaml:"motor_en"`
	MotorIN1   int `yaml:"motor_in1"`
	MotorIN2   int `yaml:"motor_in2"`
}

// PotConfig contains the speed pot ADC configuration.
type PotConfig struct {
	// SPIDev selects the SPI port; empty means the first available.
	SPIDev string `yaml:"spi_dev"`
	// Channel is the MCP3008 channel the pot wiper is on.
	Channel int `yaml:"channel"`
}

// DisplayConfig contains the character display configuration.
type DisplayConfig struct {
	// I2CBus selects the bus; empty means the first available.
	I2CBus string `yaml:"i2c_bus"`
	// Addr is the PCF8574 backpack address.
	Addr uint16 `yaml:"addr"`
}

// MQTTConfig contains the telemetry broker configuration.
type MQTTConfig struct {
	Broker    string        `yaml:"broker"`
	Heartbeat time.Duration `yaml:"heartbeat"`
}

// HTTPConfig contains the status server configuration.
type HTTPConfig struct {
	// Addr is the listen address; empty disables the server.
	Addr string `yaml:"addr"`
}

// Default returns the standard panel configuration.
func Default() *Config {
	return &Config{
		Control: ControlConfig{
			TargetTempC:      190.0,
			RoomTempC:        27.0,
			PotZeroThreshold: 20,
			MaxBrightness:    250,
			FadeAmount:       2,
			FadeDelay:        30 * time.Millisecond,
			TickDelay:        20 * time.Millisecond,
		},
		Pins: PinsConfig{
			Button:     hal.DefaultPinButton,
			Heater:     hal.DefaultPinHeater,
			HeaterLamp: hal.DefaultPinHeaterLamp,
			StatusLED:  hal.DefaultPinStatusLED,
			MotorEN:    hal.DefaultPinMotorEN,
			MotorIN1:   hal.DefaultPinMotorIN1,
			MotorIN2:   hal.DefaultPinMotorIN2,
		},
		Pot: PotConfig{
			SPIDev:  "",
			Channel: 0,
		},
		Display: DisplayConfig{
			I2CBus: "",
			Addr:   hal.DefaultDisplayAddr,
		},
		MQTT: MQTTConfig{
			Broker:    "tcp://192.168.1.200:1883",
			Heartbeat: 15 * time.Minute,
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist,
// it returns defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges the control loop depends on.
func (c *Config) Validate() error {
	ctl := c.Control
	if ctl.PotZeroThreshold <= 0 || ctl.PotZeroThreshold > 1023 {
		return fmt.Errorf("pot_zero_threshold %d outside 1..1023", ctl.PotZeroThreshold)
	}
	if ctl.MaxBrightness < 1 || ctl.MaxBrightness > 255 {
		return fmt.Errorf("max_brightness %d outside 1..255", ctl.MaxBrightness)
	}
	if ctl.FadeAmount < 1 || ctl.FadeAmount > ctl.MaxBrightness {
		return fmt.Errorf("fade_amount %d outside 1..max_brightness", ctl.FadeAmount)
	}
	if ctl.FadeDelay <= 0 {
		return fmt.Errorf("fade_delay %v must be positive", ctl.FadeDelay)
	}
	if ctl.TickDelay <= 0 {
		return fmt.Errorf("tick_delay %v must be positive", ctl.TickDelay)
	}
	if c.Pot.Channel < 0 || c.Pot.Channel > 7 {
		return fmt.Errorf("pot channel %d outside 0..7", c.Pot.Channel)
	}
	return nil
}

// OutputPins converts the pin config for the hardware layer.
func (c *Config) OutputPins() hal.OutputPins {
	return hal.OutputPins{
		Heater:     c.Pins.Heater,
		HeaterLamp: c.Pins.HeaterLamp,
		StatusLED:  c.Pins.StatusLED,
		MotorEN:    c.Pins.MotorEN,
		MotorIN1:   c.Pins.MotorIN1,
		MotorIN2:   c.Pins.MotorIN2,
	}
}
