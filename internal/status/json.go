package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event            string       `json:"event,omitempty"`
	Reason           string       `json:"reason,omitempty"`
	State            string       `json:"state"`
	TargetSpeed      float64      `json:"target_speed"`
	DriveDuty        int          `json:"drive_duty"`
	StatusBrightness int          `json:"status_brightness"`
	HeaterOn         bool         `json:"heater_on"`
	Display          [2]string    `json:"display"`
	Ticks            uint64       `json:"ticks"`
	UptimeSeconds    int64        `json:"uptime_seconds"`
	StartTime        string       `json:"start_time"`
	Timestamp        string       `json:"timestamp"`
	MQTT             MQTTStatus   `json:"mqtt"`
	Network          *NetworkJSON `json:"network,omitempty"`
	Config           ConfigJSON   `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TickMs      int64   `json:"tick_ms"`
	FadeMs      int64   `json:"fade_ms"`
	HeartbeatMs int64   `json:"heartbeat_ms"`
	TargetTempC float64 `json:"target_temp_c"`
	RoomTempC   float64 `json:"room_temp_c"`
	Broker      string  `json:"broker"`
	HTTPAddr    string  `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	state := string(snap.State)
	if state == "" {
		state = "UNKNOWN"
	}

	return StatusInner{
		State:            state,
		TargetSpeed:      snap.TargetSpeed,
		DriveDuty:        snap.DriveDuty,
		StatusBrightness: snap.StatusBrightness,
		HeaterOn:         snap.HeaterOn,
		Display:          [2]string{snap.Line1, snap.Line2},
		Ticks:            snap.Ticks,
		UptimeSeconds:    int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:        snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:        snap.Now.UTC().Format(time.RFC3339),
		MQTT:             MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Config: ConfigJSON{
			TickMs:      snap.Config.TickMs,
			FadeMs:      snap.Config.FadeMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			TargetTempC: snap.Config.TargetTempC,
			RoomTempC:   snap.Config.RoomTempC,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
		},
	}
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
