// Command extruderd runs the extruder control panel: it polls the speed pot
// and arm button, drives the motor, heater and status LED, updates the
// character display, and publishes state transitions to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/extruder-ctl/internal/config"
	"github.com/sweeney/extruder-ctl/internal/hal"
	"github.com/sweeney/extruder-ctl/internal/logic"
	"github.com/sweeney/extruder-ctl/internal/mqtt"
	"github.com/sweeney/extruder-ctl/internal/status"
	"github.com/sweeney/extruder-ctl/internal/web"
)

func main() {
	configPath := flag.String("config", "/etc/extruderd.yaml", "Config file path (missing file uses defaults)")
	tickDelay := flag.Duration("tick", -1, "Control loop tick interval (overrides config)")
	broker := flag.String("broker", "", "MQTT broker address (overrides config)")
	heartbeat := flag.Duration("heartbeat", -1, "Heartbeat interval, 0 to disable (overrides config)")
	httpAddr := flag.String("http", "", "HTTP status address (overrides config)")
	sim := flag.Bool("sim", false, "Run against simulated hardware on the console")
	verbose := flag.Bool("verbose", false, "Log a telemetry line every tick")
	printState := flag.Bool("print-state", false, "Read the controls once, print them, and exit")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if *tickDelay > 0 {
		cfg.Control.TickDelay = *tickDelay
	}
	if *broker != "" {
		cfg.MQTT.Broker = *broker
	}
	if *heartbeat >= 0 {
		cfg.MQTT.Heartbeat = *heartbeat
	}
	if *httpAddr != "" {
		cfg.HTTP.Addr = *httpAddr
	}

	if err := run(cfg, *sim, *verbose, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg *config.Config, sim, verbose, printState bool) error {
	inputs, outputs, display, err := openHardware(cfg, sim)
	if err != nil {
		return err
	}
	defer inputs.Close()
	defer outputs.Close()
	defer display.Close()

	if printState {
		s, err := inputs.Read()
		if err != nil {
			return fmt.Errorf("read controls: %w", err)
		}
		fmt.Printf("pot: %d, button: %s\n", s.Speed, pressedString(s.Pressed))
		return nil
	}

	publisher := mqtt.NewRealPublisher(cfg.MQTT.Broker)
	defer publisher.Close()

	tracker := status.NewTracker(time.Now(), status.Config{
		TickMs:      cfg.Control.TickDelay.Milliseconds(),
		FadeMs:      cfg.Control.FadeDelay.Milliseconds(),
		HeartbeatMs: cfg.MQTT.Heartbeat.Milliseconds(),
		TargetTempC: cfg.Control.TargetTempC,
		RoomTempC:   cfg.Control.RoomTempC,
		Broker:      cfg.MQTT.Broker,
		HTTPAddr:    cfg.HTTP.Addr,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP.Addr)
	}

	log.Printf("started: tick=%v fade=%v broker=%s heartbeat=%v sim=%v",
		cfg.Control.TickDelay, cfg.Control.FadeDelay, cfg.MQTT.Broker, cfg.MQTT.Heartbeat, sim)

	ticker := time.NewTicker(cfg.Control.TickDelay)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	lp := loopParams{
		control:   cfg.Control,
		heartbeat: cfg.MQTT.Heartbeat,
		verbose:   verbose,
	}
	return runLoop(lp, inputs, outputs, display, publisher, publisher, tracker, time.Now, ticker.C, sigCh)
}

// openHardware returns the real panel hardware, or the console simulation
// when sim is set.
func openHardware(cfg *config.Config, sim bool) (hal.Inputs, hal.Outputs, hal.Display, error) {
	if sim {
		return hal.NewSimInputs(time.Now), &hal.ConsoleOutputs{}, &hal.ConsoleDisplay{}, nil
	}

	inputs, err := hal.NewRealInputs(cfg.Pins.Button, cfg.Pot.SPIDev, cfg.Pot.Channel)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init inputs: %w", err)
	}
	outputs, err := hal.NewRealOutputs(cfg.OutputPins())
	if err != nil {
		inputs.Close()
		return nil, nil, nil, fmt.Errorf("init outputs: %w", err)
	}
	display, err := hal.NewRealDisplay(cfg.Display.I2CBus, cfg.Display.Addr)
	if err != nil {
		outputs.Close()
		inputs.Close()
		return nil, nil, nil, fmt.Errorf("init display: %w", err)
	}
	return inputs, outputs, display, nil
}

// loopParams bundles the knobs runLoop needs so tests can build them directly.
type loopParams struct {
	control   config.ControlConfig
	heartbeat time.Duration
	verbose   bool
}

func runLoop(lp loopParams, inputs hal.Inputs, outputs hal.Outputs, display hal.Display, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	ctrl := logic.NewController(logic.Params{
		TargetTempC:      lp.control.TargetTempC,
		RoomTempC:        lp.control.RoomTempC,
		PotZeroThreshold: lp.control.PotZeroThreshold,
		MaxBrightness:    lp.control.MaxBrightness,
		FadeAmount:       lp.control.FadeAmount,
		FadeDelay:        lp.control.FadeDelay,
	})
	lastHeartbeat := now()

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			// Leave the panel dark and stopped on the way out.
			if err := outputs.SetMotor(0, false); err != nil {
				log.Printf("motor off: %v", err)
			}
			if err := outputs.SetHeater(false); err != nil {
				log.Printf("heater off: %v", err)
			}
			if err := outputs.SetStatusBrightness(0); err != nil {
				log.Printf("status led off: %v", err)
			}
			return nil

		case <-tick:
			t := now()
			s, err := inputs.Read()
			if err != nil {
				log.Printf("input read error: %v", err)
				continue
			}

			cmd := logic.Normalize(logic.Sample{Raw: s.Speed, ButtonPressed: s.Pressed})
			out := ctrl.Tick(cmd, t)

			// Apply the whole actuator tuple before anything else this tick.
			if err := outputs.SetMotor(out.Actuators.MotorDuty, out.Actuators.MotorForward); err != nil {
				log.Printf("set motor: %v", err)
			}
			if err := outputs.SetHeater(out.Actuators.HeaterOn); err != nil {
				log.Printf("set heater: %v", err)
			}
			if err := outputs.SetStatusBrightness(out.Actuators.StatusBrightness); err != nil {
				log.Printf("set status led: %v", err)
			}
			if err := display.WriteLines(out.Line1, out.Line2); err != nil {
				log.Printf("write display: %v", err)
			}

			if out.Event != nil {
				log.Printf("event: %s (speed=%.2f)", out.Event.Type, out.Event.TargetSpeed)
				if err := publisher.Publish(*out.Event); err != nil {
					log.Printf("publish error: %v", err)
					// Don't crash on publish failure
				}
			}

			if lp.verbose {
				log.Printf("tick: state=%s raw=%d button=%v speed=%.2f duty=%d heater=%v led=%d",
					out.State, cmd.Raw, cmd.ArmRequested, cmd.TargetSpeed,
					out.Actuators.MotorDuty, out.Actuators.HeaterOn, out.Actuators.StatusBrightness)
			}

			if tracker != nil {
				tracker.Update(out, cmd)
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}

			if lp.heartbeat > 0 && t.Sub(lastHeartbeat) >= lp.heartbeat {
				lastHeartbeat = t
				hbEvent := mqtt.SystemEvent{
					Timestamp: t,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					// Refresh network info for heartbeat
					if net := readNetworkInfo(); net != nil {
						tracker.SetNetwork(net)
					}
					snap := tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
					log.Printf("heartbeat: uptime=%v state=%s ticks=%d", snap.Uptime(), snap.State, snap.Ticks)
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

func pressedString(pressed bool) string {
	if pressed {
		return "PRESSED"
	}
	return "RELEASED"
}
