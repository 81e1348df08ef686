package logic

import (
	"testing"
	"time"
)

func testParams() Params {
	return Params{
		TargetTempC:      20.0,
		RoomTempC:        27.0,
		PotZeroThreshold: 20,
		MaxBrightness:    50,
		FadeAmount:       2,
		FadeDelay:        30 * time.Millisecond,
	}
}

func TestNewControllerStartsLocked(t *testing.T) {
	c := NewController(testParams())
	if c.State() != StateLocked {
		t.Errorf("initial state: got %s, want %s", c.State(), StateLocked)
	}
}

func TestLockedForcesActuatorsOff(t *testing.T) {
	c := NewController(testParams())
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	// Whatever the pot does, the power actuators stay off while locked.
	raws := []int{0, 5, 19, 20, 100, 500, 1023}
	for i, raw := range raws {
		now = now.Add(20 * time.Millisecond)
		out := c.Tick(Normalize(Sample{Raw: raw}), now)

		if out.State != StateLocked {
			t.Fatalf("raw=%d: state %s, want LOCKED", raw, out.State)
		}
		if out.Actuators.MotorDuty != 0 {
			t.Errorf("raw=%d: motor duty %d, want 0", raw, out.Actuators.MotorDuty)
		}
		if out.Actuators.MotorForward {
			t.Errorf("raw=%d: motor direction set while locked", raw)
		}
		if out.Actuators.HeaterOn || out.Actuators.HeaterLampOn {
			t.Errorf("raw=%d: heater energized while locked", raw)
		}
		if out.Event != nil {
			t.Errorf("sample %d: unexpected event %v", i, out.Event)
		}
	}
}

func TestLockedDisplayPhrases(t *testing.T) {
	c := NewController(testParams())
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	out := c.Tick(Normalize(Sample{Raw: 500}), now)
	if out.Line2 != PhraseSetZero {
		t.Errorf("pot high: line2 %q, want %q", out.Line2, PhraseSetZero)
	}

	out = c.Tick(Normalize(Sample{Raw: 10}), now.Add(20*time.Millisecond))
	if out.Line2 != PhrasePressArm {
		t.Errorf("pot zeroed: line2 %q, want %q", out.Line2, PhrasePressArm)
	}

	// Threshold is exclusive: raw at the threshold is not zeroed.
	out = c.Tick(Normalize(Sample{Raw: 20}), now.Add(40*time.Millisecond))
	if out.Line2 != PhraseSetZero {
		t.Errorf("pot at threshold: line2 %q, want %q", out.Line2, PhraseSetZero)
	}
}

func TestArmRequiresZeroedSpeed(t *testing.T) {
	c := NewController(testParams())
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	// Holding the button with the pot off zero never arms.
	for i := 0; i < 50; i++ {
		now = now.Add(20 * time.Millisecond)
		out := c.Tick(Normalize(Sample{Raw: 50, ButtonPressed: true}), now)
		if out.State != StateArmed && c.State() == StateArmed {
			t.Fatal("state accessor disagrees with output")
		}
		if c.State() != StateLocked {
			t.Fatalf("tick %d: armed with raw=50", i)
		}
		if out.Line2 != PhraseSetZero {
			t.Fatalf("tick %d: line2 %q, want %q", i, out.Line2, PhraseSetZero)
		}
	}
}

func TestArmRequiresButton(t *testing.T) {
	c := NewController(testParams())
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 50; i++ {
		now = now.Add(20 * time.Millisecond)
		c.Tick(Normalize(Sample{Raw: 5}), now)
		if c.State() != StateLocked {
			t.Fatalf("tick %d: armed without button press", i)
		}
	}
}

func TestArmTransition(t *testing.T) {
	c := NewController(testParams())
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	out := c.Tick(Normalize(Sample{Raw: 5, ButtonPressed: true}), now)

	if out.State != StateArmed {
		t.Fatalf("state: got %s, want ARMED", out.State)
	}
	if c.State() != StateArmed {
		t.Error("controller did not latch armed state")
	}
	if out.Event == nil {
		t.Fatal("expected arm event on transition tick")
	}
	if out.Event.Type != EventArmed {
		t.Errorf("event type: got %s, want %s", out.Event.Type, EventArmed)
	}
	if !out.Event.Timestamp.Equal(now) {
		t.Errorf("event timestamp: got %v, want %v", out.Event.Timestamp, now)
	}
	if out.Actuators.StatusBrightness != 50 {
		t.Errorf("brightness: got %d, want 50", out.Actuators.StatusBrightness)
	}
	if out.Line2 != PhraseActive {
		t.Errorf("line2: got %q, want %q", out.Line2, PhraseActive)
	}
}

// TestArmTickActuatesUnderArmedRules pins down the transition ordering: the
// arming tick's actuators are computed under armed rules, not the locked
// branch's forced-off values.
func TestArmTickActuatesUnderArmedRules(t *testing.T) {
	p := testParams()
	p.RoomTempC = 15.0 // below target, heater should run once armed
	c := NewController(p)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	out := c.Tick(Normalize(Sample{Raw: 10, ButtonPressed: true}), now)

	if !out.Actuators.MotorForward {
		t.Error("transition tick: motor direction not forward")
	}
	if want := Normalize(Sample{Raw: 10}).DriveDuty; out.Actuators.MotorDuty != want {
		t.Errorf("transition tick: duty %d, want %d", out.Actuators.MotorDuty, want)
	}
	if !out.Actuators.HeaterOn || !out.Actuators.HeaterLampOn {
		t.Error("transition tick: heater not energized under armed rules")
	}
}

func TestArmedTracksLiveSpeed(t *testing.T) {
	c := armedController(t)
	now := time.Date(2026, 1, 1, 12, 1, 0, 0, time.UTC)

	cases := []struct {
		raw      int
		wantDuty int
	}{
		{1023, 255},
		{512, 127},
		{0, 0},
		{1023, 255},
	}
	for _, tc := range cases {
		now = now.Add(20 * time.Millisecond)
		out := c.Tick(Normalize(Sample{Raw: tc.raw}), now)
		if out.Actuators.MotorDuty != tc.wantDuty {
			t.Errorf("raw=%d: duty %d, want %d", tc.raw, out.Actuators.MotorDuty, tc.wantDuty)
		}
		if !out.Actuators.MotorForward {
			t.Errorf("raw=%d: direction not forward", tc.raw)
		}
		if out.Actuators.StatusBrightness != 50 {
			t.Errorf("raw=%d: brightness %d, want 50", tc.raw, out.Actuators.StatusBrightness)
		}
	}
}

func TestHeaterDecisionIsDeterministic(t *testing.T) {
	// Room at or above target: heater and lamp off on every armed tick.
	c := armedController(t) // target 20.0, room 27.0
	now := time.Date(2026, 1, 1, 12, 1, 0, 0, time.UTC)
	for i := 0; i < 20; i++ {
		now = now.Add(20 * time.Millisecond)
		out := c.Tick(Normalize(Sample{Raw: 1023}), now)
		if out.Actuators.HeaterOn || out.Actuators.HeaterLampOn {
			t.Fatalf("tick %d: heater on with room 27.0 >= target 20.0", i)
		}
	}

	// Room below target: heater and lamp on, relay and lamp in lockstep.
	p := testParams()
	p.TargetTempC = 190.0
	c2 := NewController(p)
	c2.Tick(Normalize(Sample{Raw: 0, ButtonPressed: true}), now)
	for i := 0; i < 20; i++ {
		now = now.Add(20 * time.Millisecond)
		out := c2.Tick(Normalize(Sample{Raw: 100}), now)
		if !out.Actuators.HeaterOn || !out.Actuators.HeaterLampOn {
			t.Fatalf("tick %d: heater off with room 27.0 < target 190.0", i)
		}
	}
}

func TestNoDisarm(t *testing.T) {
	c := armedController(t)
	now := time.Date(2026, 1, 1, 12, 1, 0, 0, time.UTC)

	samples := []Sample{
		{Raw: 0, ButtonPressed: false},
		{Raw: 0, ButtonPressed: true},
		{Raw: 1023, ButtonPressed: true},
		{Raw: 1023, ButtonPressed: false},
		{Raw: 5, ButtonPressed: true},
	}
	for _, s := range samples {
		for i := 0; i < 10; i++ {
			now = now.Add(20 * time.Millisecond)
			out := c.Tick(Normalize(s), now)
			if out.State != StateArmed || c.State() != StateArmed {
				t.Fatalf("disarmed by sample %+v", s)
			}
			if out.Line2 != PhraseActive {
				t.Fatalf("line2 %q after arming, want %q", out.Line2, PhraseActive)
			}
		}
	}
}

func TestArmedBrightnessDoesNotBreathe(t *testing.T) {
	c := armedController(t)
	now := time.Date(2026, 1, 1, 12, 1, 0, 0, time.UTC)

	for i := 0; i < 100; i++ {
		now = now.Add(30 * time.Millisecond)
		out := c.Tick(Normalize(Sample{Raw: 0}), now)
		if out.Actuators.StatusBrightness != 50 {
			t.Fatalf("tick %d: brightness %d, want latched 50", i, out.Actuators.StatusBrightness)
		}
	}
}

func TestLine1Format(t *testing.T) {
	c := NewController(testParams())
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	out := c.Tick(Normalize(Sample{Raw: 1023}), now)
	if want := "T: 20C S:10.00"; out.Line1 != want {
		t.Errorf("line1: got %q, want %q", out.Line1, want)
	}
}

// TestOperatorScenario walks the full arm sequence from the panel's point
// of view: pot left high, pot zeroed, button pressed, then full speed.
func TestOperatorScenario(t *testing.T) {
	c := NewController(testParams())
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	// Pot at 500, button released: locked, duty forced zero.
	out := c.Tick(Normalize(Sample{Raw: 500}), now)
	if out.Actuators.MotorDuty != 0 || out.Line2 != PhraseSetZero {
		t.Fatalf("step 1: %+v", out)
	}

	// Pot zeroed, button still released: prompt for the button.
	now = now.Add(20 * time.Millisecond)
	out = c.Tick(Normalize(Sample{Raw: 10}), now)
	if out.State != StateLocked || out.Line2 != PhrasePressArm {
		t.Fatalf("step 2: %+v", out)
	}

	// Button pressed with pot zeroed: arms, brightness snaps to max.
	now = now.Add(20 * time.Millisecond)
	out = c.Tick(Normalize(Sample{Raw: 10, ButtonPressed: true}), now)
	if out.State != StateArmed || out.Event == nil {
		t.Fatalf("step 3: %+v", out)
	}
	if out.Actuators.StatusBrightness != 50 {
		t.Fatalf("step 3: brightness %d, want 50", out.Actuators.StatusBrightness)
	}

	// Full speed: duty 255 forward, heater off (room 27.0 >= target 20.0).
	now = now.Add(20 * time.Millisecond)
	out = c.Tick(Normalize(Sample{Raw: 1023}), now)
	if out.Actuators.MotorDuty != 255 || !out.Actuators.MotorForward {
		t.Fatalf("step 4: motor %+v", out.Actuators)
	}
	if out.Actuators.HeaterOn {
		t.Fatal("step 4: heater on with room above target")
	}
}

// armedController returns a controller already through the arm sequence.
func armedController(t *testing.T) *Controller {
	t.Helper()
	c := NewController(testParams())
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	out := c.Tick(Normalize(Sample{Raw: 0, ButtonPressed: true}), now)
	if out.State != StateArmed {
		t.Fatalf("setup: failed to arm, state %s", out.State)
	}
	return c
}
