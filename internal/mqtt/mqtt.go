// Package mqtt provides telemetry publishing with abstraction for testing.
// The broker is a write-only observer: nothing in the control path reads
// anything back from it.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/extruder-ctl/internal/logic"
)

// Topic is the MQTT topic for panel state transitions.
const Topic = "workshop/extruder/panel/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "workshop/extruder/panel/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a panel event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event logic.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure for panel events.
type Payload struct {
	Panel PanelPayload `json:"panel"`
}

// PanelPayload contains the panel event details.
type PanelPayload struct {
	Timestamp   string  `json:"timestamp"`
	Event       string  `json:"event"`
	State       string  `json:"state"`
	TargetSpeed float64 `json:"target_speed"`
}

// FormatPayload creates the JSON payload for a panel event.
func FormatPayload(event logic.Event) ([]byte, error) {
	payload := Payload{
		Panel: PanelPayload{
			Timestamp:   event.Timestamp.UTC().Format(time.RFC3339),
			Event:       string(event.Type),
			State:       string(stateForEvent(event.Type)),
			TargetSpeed: event.TargetSpeed,
		},
	}
	return json.Marshal(payload)
}

// stateForEvent maps a transition event to the state it lands in.
func stateForEvent(t logic.EventType) logic.ArmState {
	switch t {
	case logic.EventArmed:
		return logic.StateArmed
	default:
		return logic.StateLocked
	}
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
