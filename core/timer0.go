package core

// Timer0 drives the 8-bit Timer/Counter0: periodic interrupts on compare
// match A and one PWM output on OC0B. OCR0A holds the period, so OC0A is not
// available for PWM.
type Timer0 struct {
	channel
	wgm  uint8
	outB PWMOutput
}

// NewTimer0 returns Timer0 bound to hw. Bind it to VectorTimer0CompA.
func NewTimer0(hw TimerHW) *Timer0 {
	return &Timer0{channel: channel{id: 0, hw: hw}}
}

// Begin configures the timer for rate interrupts per second without starting
// it. polB selects the OC0B output; anything but Disabled switches the timer
// from CTC to fast PWM with OCR0A as top. It returns the achieved rate.
func (t *Timer0) Begin(rate uint32, polB Polarity) (uint32, error) {
	t.reset()

	cfg := Calculate(rate, t.hw.Clock, Timer0Dividers)
	if !cfg.OK() {
		t.failed(rate)
		return 0, ErrRateUnachievable
	}
	t.hw.Regs.PowerUp()

	t.outB.configure(polB, t.hw.PinB)
	t.wgm = wgmCTC
	if polB != Disabled {
		t.wgm = wgmFastPWMOCR
	}

	t.setCR()
	t.hw.Regs.Set(TCCRB, uint16(cfg.CS)<<bitCSn0|uint16(t.wgm>>2)<<bitWGMn2)
	t.hw.Regs.Set(OCRA, cfg.TopValue())
	t.hw.Regs.Set(TIFR, bit(bitTOV)|bit(bitOCFA)|bit(bitOCFB))
	t.parkPin(&t.outB)

	t.configured(cfg, t.hw.Clock, 1)
	return t.rate, nil
}

func (t *Timer0) Start() {
	t.start(bit(bitOCFA), bit(bitOCIEA))
}

func (t *Timer0) Stop() {
	t.stop(bit(bitOCIEA))
}

func (t *Timer0) DriveMillis() error {
	return t.driveMillis(t)
}

// SetPWM sets the OC0B duty cycle to duty/top. OutputA is ignored.
func (t *Timer0) SetPWM(out Output, duty, top uint16) {
	if out != OutputB || t.state == Unconfigured {
		return
	}
	if t.outB.set(duty, top, t.cfg.TopValue(), t.hw.GPIO) {
		t.hw.Regs.Set(OCRB, t.outB.Compare)
	}
	t.setCR()
}

// PWM returns the state of OC0B.
func (t *Timer0) PWM() PWMOutput {
	return t.outB
}

// HandleInterrupt is the TIMER0_COMPA handler.
func (t *Timer0) HandleInterrupt() {
	t.sched.Dispatch()
}

// setCR programs the compare output mode for the current PWM state.
func (t *Timer0) setCR() {
	t.hw.Regs.Set(TCCRA, uint16(t.outB.com())<<bitCOMB0|uint16(t.wgm&3)<<bitWGMn0)
}
