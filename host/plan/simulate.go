package plan

import (
	"fmt"

	"avrtimers/config"
	"avrtimers/core"
	"avrtimers/sim"
)

// SimResult is the outcome of running one channel on simulated registers.
type SimResult struct {
	Timer      uint8
	Interrupts uint64   // interrupts in the simulated wall time
	Millis     uint32   // the channel's millisecond count afterwards
	DriftMs    int64    // Millis minus the simulated wall time
	TaskRuns   []uint32 // per planned task
	Violations int      // async writes that would have been corrupted
}

// Simulate runs every channel of p for the given wall time in seconds. It
// fires exactly as many interrupts as the programmed divider and compare
// value produce from the channel's clock. The millisecond count then lags
// wall time by at most the part of one period that has not completed.
//
// Channels count their own milliseconds; the process-wide clock is left
// alone.
func Simulate(p *config.Plan, seconds uint32) ([]SimResult, error) {
	results := make([]SimResult, 0, len(p.Channels))
	for _, ch := range p.Channels {
		res, err := simulateChannel(ch, seconds)
		if err != nil {
			return nil, fmt.Errorf("timer %d: %w", ch.Timer, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func simulateChannel(ch config.ChannelPlan, seconds uint32) (SimResult, error) {
	regs := sim.NewRegisters()
	regs.SyncPolls = 2
	hw := core.TimerHW{
		Regs:  regs,
		GPIO:  sim.NewGPIO(),
		Clock: ch.Clock,
		PinA:  core.NoPin,
		PinB:  core.NoPin,
	}

	var (
		timer core.Channel
		err   error
	)
	switch ch.Timer {
	case 0:
		t := core.NewTimer0(hw)
		_, err = t.Begin(ch.Rate, core.Disabled)
		timer = t
	case 1:
		t := core.NewTimer1(hw)
		_, err = t.Begin(ch.Rate, core.Disabled, core.Disabled)
		timer = t
	case 2:
		t := core.NewTimer2(hw)
		_, err = t.Begin(core.Timer2Config{
			Rate:     ch.Rate,
			TickRate: ch.TickRate,
			Clock:    ch.Clock,
			Async:    ch.Async,
		})
		timer = t
	default:
		return SimResult{}, fmt.Errorf("no such timer")
	}
	if err != nil {
		return SimResult{}, err
	}

	res := SimResult{Timer: ch.Timer, TaskRuns: make([]uint32, len(ch.Tasks))}
	for i, period := range ch.Tasks {
		if err := timer.AddTask(period, countRun, &res.TaskRuns[i]); err != nil {
			return SimResult{}, err
		}
	}
	timer.Start()

	cfg := ch.Calculate()
	res.Interrupts = uint64(ch.Clock) * uint64(seconds) / (uint64(cfg.Divider) * uint64(cfg.Compare))
	violations := 0
	for i := uint64(0); i < res.Interrupts; i++ {
		timer.HandleInterrupt()
		if len(regs.Writes) > 1024 {
			violations += regs.Violations
			regs.ResetLog()
		}
	}

	res.Millis = timer.Millis()
	res.DriftMs = int64(res.Millis) - int64(seconds)*1000
	res.Violations = violations + regs.Violations
	return res, nil
}

func countRun(arg interface{}) {
	*arg.(*uint32)++
}
