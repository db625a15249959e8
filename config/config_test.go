package config

import (
	"errors"
	"testing"

	"avrtimers/core"
)

func TestLoadDefaults(t *testing.T) {
	plan, err := Load([]byte(`{
		"channels": [
			{"timer": 0, "rate": 1000, "millis": true},
			{"timer": 2, "rate": 100, "async": true}
		]
	}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if plan.CPUClock != DefaultCPUClock {
		t.Errorf("CPUClock = %d, want %d", plan.CPUClock, DefaultCPUClock)
	}
	if got := plan.Channels[0].Clock; got != DefaultCPUClock {
		t.Errorf("timer0 clock = %d, want CPU clock", got)
	}
	if got := plan.Channels[0].TickRate; got != 1000 {
		t.Errorf("timer0 tick rate = %d, want 1000", got)
	}
	if got := plan.Channels[1].Clock; got != CrystalClock {
		t.Errorf("async timer2 clock = %d, want %d", got, CrystalClock)
	}
}

func TestLoadTimer2ClockDefaults(t *testing.T) {
	tests := []struct {
		json string
		want uint32
	}{
		{`{"cpu_clock": 16000000, "channels": [{"timer": 2, "rate": 100, "async": true}]}`, CrystalClock},
		{`{"cpu_clock": 16000000, "channels": [{"timer": 2, "rate": 100}]}`, 16000000},
		{`{"cpu_clock": 16000000, "channels": [{"timer": 2, "rate": 100, "async": true, "clock": 32000}]}`, 32000},
	}

	for _, tt := range tests {
		plan, err := Load([]byte(tt.json))
		if err != nil {
			t.Fatalf("Load(%s): %v", tt.json, err)
		}
		if got := plan.Channels[0].Clock; got != tt.want {
			t.Errorf("Load(%s): clock = %d, want %d", tt.json, got, tt.want)
		}
	}
}

func TestLoadKeepsExplicitValues(t *testing.T) {
	plan, err := Load([]byte(`{
		"cpu_clock": 16000000,
		"channels": [{"timer": 2, "rate": 1000, "tick_rate": 100, "clock": 1000000}]
	}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ch := plan.Channels[0]
	if ch.Clock != 1000000 || ch.TickRate != 100 {
		t.Errorf("channel = %+v, explicit values overwritten", ch)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		json string
		want error
	}{
		{"bad json", `{"channels": [`, nil},
		{"unknown timer", `{"channels": [{"timer": 3, "rate": 10}]}`, nil},
		{"duplicate timer", `{"channels": [{"timer": 1, "rate": 10}, {"timer": 1, "rate": 20}]}`, nil},
		{"async timer0", `{"channels": [{"timer": 0, "rate": 10, "async": true}]}`, nil},
		{"two millis drivers", `{"channels": [
			{"timer": 0, "rate": 1000, "millis": true},
			{"timer": 1, "rate": 1000, "millis": true}]}`, core.ErrMillisDriverTaken},
		{"too many tasks", `{"channels": [{"timer": 0, "rate": 1000, "tasks": [1, 2, 3, 4, 5]}]}`, core.ErrCapacityExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.json))
			if err == nil {
				t.Fatal("Load succeeded, want error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestChannelPlanCalculate(t *testing.T) {
	tests := []struct {
		ch      ChannelPlan
		cs      core.ClockSelect
		compare uint32
	}{
		{ChannelPlan{Timer: 0, Rate: 1000, Clock: 8000000}, 3, 125},
		{ChannelPlan{Timer: 1, Rate: 500, Clock: 8000000}, 1, 16000},
		{ChannelPlan{Timer: 2, Rate: 100, Clock: CrystalClock}, 2, 41},
	}

	for _, tt := range tests {
		cfg := tt.ch.Calculate()
		if cfg.CS != tt.cs || cfg.Compare != tt.compare {
			t.Errorf("timer %d @ %d Hz: CS=%d compare=%d, want CS=%d compare=%d",
				tt.ch.Timer, tt.ch.Rate, cfg.CS, cfg.Compare, tt.cs, tt.compare)
		}
	}
}

func TestDefaultPlanIsValid(t *testing.T) {
	plan := DefaultPlan()
	if err := plan.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	for _, ch := range plan.Channels {
		if !ch.Calculate().OK() {
			t.Errorf("timer %d: rate %d Hz unachievable", ch.Timer, ch.Rate)
		}
	}
}
