// Package status provides a thread-safe status tracker for the extruderd
// daemon. It is read by the HTTP handlers and by the MQTT heartbeat.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/extruder-ctl/internal/logic"
)

// NetworkInfo contains network state reported by pi-helper.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	TickMs      int64
	FadeMs      int64
	HeartbeatMs int64
	TargetTempC float64
	RoomTempC   float64
	Broker      string
	HTTPAddr    string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	State            logic.ArmState
	TargetSpeed      float64
	DriveDuty        int
	StatusBrightness int
	HeaterOn         bool
	Line1            string
	Line2            string
	Ticks            uint64
	StartTime        time.Time
	Now              time.Time
	MQTTConnected    bool
	Network          *NetworkInfo
	Config           Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			State:     logic.StateLocked,
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update records the latest tick's decision. Called from the control loop
// on every tick.
func (t *Tracker) Update(out logic.Output, cmd logic.Command) {
	t.mu.Lock()
	t.snap.State = out.State
	t.snap.TargetSpeed = cmd.TargetSpeed
	t.snap.DriveDuty = out.Actuators.MotorDuty
	t.snap.StatusBrightness = out.Actuators.StatusBrightness
	t.snap.HeaterOn = out.Actuators.HeaterOn
	t.snap.Line1 = out.Line1
	t.snap.Line2 = out.Line2
	t.snap.Ticks++
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
