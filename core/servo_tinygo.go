//go:build tinygo && avr

package core

import "machine"

// ServoPWM adapts Timer1 to the PWM interface of tinygo.org/x/drivers/servo
// and similar drivers that expect a machine.PWM-style peripheral. Channel 0
// is OC1A, channel 1 is OC1B. Configure calls Begin, which drops any tasks
// registered on the timer, so configure the peripheral first.
type ServoPWM struct {
	timer      *Timer1
	pinA, pinB machine.Pin
	polarity   Polarity
}

// NewServoPWM wraps t. Outputs are active high.
func NewServoPWM(t *Timer1, pinA, pinB machine.Pin) *ServoPWM {
	return &ServoPWM{timer: t, pinA: pinA, pinB: pinB, polarity: ActiveHigh}
}

// Configure sets the PWM period. A zero period selects 20 ms, the usual
// hobby servo frame.
func (p *ServoPWM) Configure(config machine.PWMConfig) error {
	return p.SetPeriod(config.Period)
}

// SetPeriod re-runs Begin with the rate matching period (nanoseconds).
func (p *ServoPWM) SetPeriod(period uint64) error {
	if period == 0 {
		period = 20e6
	}
	_, err := p.timer.Begin(uint32(1e9/period), p.polarity, p.polarity)
	if err != nil {
		return err
	}
	p.timer.Start()
	return nil
}

// Channel returns the compare output connected to pin.
func (p *ServoPWM) Channel(pin machine.Pin) (uint8, error) {
	switch pin {
	case p.pinA:
		return uint8(OutputA), nil
	case p.pinB:
		return uint8(OutputB), nil
	}
	return 0, machine.ErrInvalidOutputPin
}

// Top returns the largest compare value, i.e. 100% duty.
func (p *ServoPWM) Top() uint32 {
	return uint32(p.timer.Top())
}

// Set sets the compare value of a channel directly, 0..Top.
func (p *ServoPWM) Set(channel uint8, value uint32) {
	if p.timer.State() == Unconfigured {
		return
	}
	top := p.timer.Top()
	if value > uint32(top) {
		value = uint32(top)
	}
	p.timer.SetPWM(Output(channel), uint16(value), top)
}
