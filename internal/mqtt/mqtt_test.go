package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/extruder-ctl/internal/logic"
)

func TestFormatPayload(t *testing.T) {
	event := logic.Event{
		Timestamp:   time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		Type:        logic.EventArmed,
		TargetSpeed: 0.09775171065493646,
	}

	data, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got Payload
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if got.Panel.Timestamp != "2026-03-14T09:26:53Z" {
		t.Errorf("timestamp: got %q", got.Panel.Timestamp)
	}
	if got.Panel.Event != "ARMED" {
		t.Errorf("event: got %q, want ARMED", got.Panel.Event)
	}
	if got.Panel.State != "ARMED" {
		t.Errorf("state: got %q, want ARMED", got.Panel.State)
	}
	if got.Panel.TargetSpeed != event.TargetSpeed {
		t.Errorf("target_speed: got %v, want %v", got.Panel.TargetSpeed, event.TargetSpeed)
	}
}

func TestFormatPayloadTimestampIsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	event := logic.Event{
		Timestamp: time.Date(2026, 3, 14, 14, 0, 0, 0, loc),
		Type:      logic.EventArmed,
	}

	data, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got Payload
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Panel.Timestamp != "2026-03-14T09:00:00Z" {
		t.Errorf("timestamp not normalized to UTC: %q", got.Panel.Timestamp)
	}
}

func TestFormatSystemPayload(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	data, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got SystemPayload
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.System.Event != "SHUTDOWN" {
		t.Errorf("event: got %q", got.System.Event)
	}
	if got.System.Reason != "SIGTERM" {
		t.Errorf("reason: got %q", got.System.Reason)
	}
}

func TestFormatSystemPayloadOmitsEmptyReason(t *testing.T) {
	data, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Now(),
		Event:     "HEARTBEAT",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var raw map[string]map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, present := raw["system"]["reason"]; present {
		t.Error("empty reason should be omitted")
	}
}

func TestFormatSystemPayloadRawPassthrough(t *testing.T) {
	raw := []byte(`{"system":{"custom":true}}`)
	data, err := FormatSystemPayload(SystemEvent{RawPayload: raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != string(raw) {
		t.Errorf("raw payload not passed through: %s", data)
	}
}

func TestFakePublisherRecords(t *testing.T) {
	f := NewFakePublisher()

	event := logic.Event{
		Timestamp: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		Type:      logic.EventArmed,
	}
	if err := f.Publish(event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Events) != 1 || f.Events[0].Type != logic.EventArmed {
		t.Errorf("events: got %+v", f.Events)
	}
	if len(f.Payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(f.Payloads))
	}

	if err := f.PublishSystem(SystemEvent{Event: "STARTUP"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.SystemEvents) != 1 || f.SystemEvents[0].Event != "STARTUP" {
		t.Errorf("system events: got %+v", f.SystemEvents)
	}
}

func TestFakePublisherErrors(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("publish failed")
	f.PublishSystemError = errors.New("system failed")

	if err := f.Publish(logic.Event{}); err == nil {
		t.Error("expected Publish error")
	}
	if err := f.PublishSystem(SystemEvent{}); err == nil {
		t.Error("expected PublishSystem error")
	}
	if len(f.Events) != 0 || len(f.SystemEvents) != 0 {
		t.Error("failed publishes should not be recorded")
	}
}

func TestFakePublisherReset(t *testing.T) {
	f := NewFakePublisher()
	f.Publish(logic.Event{Type: logic.EventArmed})
	f.Close()

	f.Reset()
	if len(f.Events) != 0 || len(f.Payloads) != 0 || f.Closed {
		t.Error("Reset did not clear state")
	}
}
