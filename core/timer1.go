package core

// DefaultPWMRange is the duty range SetPWM callers use when they have no
// natural range of their own.
const DefaultPWMRange = 32767

// Timer1 drives the 16-bit Timer/Counter1 in fast PWM mode 14: ICR1 holds
// the period, OC1A and OC1B are two PWM outputs sharing it, and the overflow
// interrupt runs the tasks once per period.
type Timer1 struct {
	channel
	outA PWMOutput
	outB PWMOutput
}

// NewTimer1 returns Timer1 bound to hw. Bind it to VectorTimer1Ovf.
func NewTimer1(hw TimerHW) *Timer1 {
	return &Timer1{channel: channel{id: 1, hw: hw}}
}

// Begin configures the timer for rate interrupts per second without starting
// it and returns the achieved rate. Outputs with a polarity other than
// Disabled are connected immediately, with a compare value of 0.
func (t *Timer1) Begin(rate uint32, polA, polB Polarity) (uint32, error) {
	t.reset()

	cfg := Calculate(rate, t.hw.Clock, Timer1Dividers)
	if !cfg.OK() {
		t.failed(rate)
		return 0, ErrRateUnachievable
	}
	t.hw.Regs.PowerUp()

	t.outA.configure(polA, t.hw.PinA)
	t.outB.configure(polB, t.hw.PinB)

	t.setCR()
	t.hw.Regs.Set(TCCRB, uint16(wgmFastPWMICR>>2)<<bitWGMn2|uint16(cfg.CS)<<bitCSn0)
	t.hw.Regs.Set(ICR, cfg.TopValue())
	t.hw.Regs.Set(TIFR, 0xFF)
	t.parkPin(&t.outA)
	t.parkPin(&t.outB)

	t.configured(cfg, t.hw.Clock, 1)
	return t.rate, nil
}

func (t *Timer1) Start() {
	t.start(bit(bitTOV), bit(bitTOIE))
}

func (t *Timer1) Stop() {
	t.stop(bit(bitTOIE))
}

func (t *Timer1) DriveMillis() error {
	return t.driveMillis(t)
}

// Top returns the value in ICR1, the largest meaningful compare value.
func (t *Timer1) Top() uint16 {
	return t.cfg.TopValue()
}

// SetPWM sets the duty cycle of out to duty/top.
func (t *Timer1) SetPWM(out Output, duty, top uint16) {
	if t.state == Unconfigured {
		return
	}
	o, reg := &t.outA, OCRA
	if out == OutputB {
		o, reg = &t.outB, OCRB
	}
	if o.set(duty, top, t.cfg.TopValue(), t.hw.GPIO) {
		t.hw.Regs.Set(reg, o.Compare)
	}
	t.setCR()
}

// PWM returns the state of one compare output.
func (t *Timer1) PWM(out Output) PWMOutput {
	if out == OutputB {
		return t.outB
	}
	return t.outA
}

// HandleInterrupt is the TIMER1_OVF handler.
func (t *Timer1) HandleInterrupt() {
	t.sched.Dispatch()
}

func (t *Timer1) setCR() {
	t.hw.Regs.Set(TCCRA, uint16(t.outA.com())<<bitCOMA0|
		uint16(t.outB.com())<<bitCOMB0|
		uint16(wgmFastPWMICR&3)<<bitWGMn0)
}
