// Package config loads the board's timer plan, the list of channels and
// rates the firmware will Begin, so it can be checked before flashing.
package config

import (
	"encoding/json"
	"fmt"

	"avrtimers/core"
)

// DefaultCPUClock is the clock of a bare ATmega328P on its internal
// oscillator.
const DefaultCPUClock = 8000000

// CrystalClock is the usual TOSC watch crystal for Timer2.
const CrystalClock = 32768

// Plan describes one board.
type Plan struct {
	Name     string        `json:"name"`
	CPUClock uint32        `json:"cpu_clock"`
	Channels []ChannelPlan `json:"channels"`
}

// ChannelPlan describes one timer channel.
type ChannelPlan struct {
	Timer    uint8  `json:"timer"`     // 0, 1 or 2
	Rate     uint32 `json:"rate"`      // interrupt rate in Hz
	TickRate uint32 `json:"tick_rate"` // Timer2 only: task rate in Hz
	Clock    uint32 `json:"clock"`     // timer input clock in Hz
	Async    bool   `json:"async"`     // Timer2 only: clock from TOSC
	Millis   bool   `json:"millis"`    // drives the millisecond clock

	// Tasks lists task periods in ticks.
	Tasks []uint16 `json:"tasks"`
}

// Load parses a JSON plan and fills in defaults.
func Load(jsonData []byte) (*Plan, error) {
	var plan Plan

	if err := json.Unmarshal(jsonData, &plan); err != nil {
		return nil, err
	}

	applyDefaults(&plan)

	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}

// applyDefaults fills in missing values
func applyDefaults(plan *Plan) {
	if plan.CPUClock == 0 {
		plan.CPUClock = DefaultCPUClock
	}

	for i := range plan.Channels {
		ch := &plan.Channels[i]
		if ch.Clock == 0 {
			if ch.Async {
				ch.Clock = CrystalClock
			} else {
				ch.Clock = plan.CPUClock
			}
		}
		if ch.TickRate == 0 {
			ch.TickRate = ch.Rate
		}
	}
}

// Validate checks what the firmware would reject at run time: unknown
// timers, a timer used twice, more than one millis driver and too many
// tasks on one channel.
func (p *Plan) Validate() error {
	var seen [3]bool
	drivers := 0

	for _, ch := range p.Channels {
		if ch.Timer > 2 {
			return fmt.Errorf("timer %d: no such timer", ch.Timer)
		}
		if seen[ch.Timer] {
			return fmt.Errorf("timer %d: planned twice", ch.Timer)
		}
		seen[ch.Timer] = true

		if ch.Timer != 2 && (ch.Async || ch.TickRate != ch.Rate) {
			return fmt.Errorf("timer %d: async and tick_rate are Timer2 only", ch.Timer)
		}
		if ch.Millis {
			drivers++
		}
		if len(ch.Tasks) > core.MaxTimerTasks {
			return fmt.Errorf("timer %d: %w", ch.Timer, core.ErrCapacityExceeded)
		}
	}

	if drivers > 1 {
		return core.ErrMillisDriverTaken
	}
	return nil
}

// Dividers returns the divider table of ch's timer.
func (ch ChannelPlan) Dividers() core.DividerTable {
	switch ch.Timer {
	case 1:
		return core.Timer1Dividers
	case 2:
		return core.Timer2Dividers
	default:
		return core.Timer0Dividers
	}
}

// Calculate evaluates the channel with the same calculator Begin uses.
func (ch ChannelPlan) Calculate() core.Config {
	return core.Calculate(ch.Rate, ch.Clock, ch.Dividers())
}

// DefaultPlan mirrors the demo firmware in targets/atmega328p/demo.
func DefaultPlan() *Plan {
	return &Plan{
		Name:     "atmega328p-demo",
		CPUClock: 16000000,
		Channels: []ChannelPlan{
			{Timer: 0, Rate: 1000, TickRate: 1000, Clock: 16000000, Millis: true, Tasks: []uint16{1000}},
			{Timer: 1, Rate: 500, TickRate: 500, Clock: 16000000},
			{Timer: 2, Rate: 100, TickRate: 100, Clock: CrystalClock, Async: true},
		},
	}
}
