package core

import "avrtimers/x/mathx"

// asyncSpinLimit bounds waitForAsyncWriteCompletion. A register update
// takes about two crystal periods, but a freshly enabled 32.768 kHz crystal
// may need up to a second to start, which is roughly this many polls on a
// 16 MHz core.
const asyncSpinLimit = 2000000

// Timer2Config holds the Begin parameters of Timer2.
type Timer2Config struct {
	Rate     uint32 // interrupt rate in Hz
	TickRate uint32 // task and millis rate in Hz, 0 for Rate
	ISR      func() // optional, runs on every interrupt before the tasks
	Clock    uint32 // timer clock in Hz, 0 for the CPU clock
	Async    bool   // clock from a watch crystal on TOSC1/TOSC2
}

// Timer2 drives the 8-bit Timer/Counter2 in CTC mode. It can run from an
// asynchronous 32.768 kHz crystal, in which case it keeps counting in power
// save sleep and every register write has to be synchronized into the
// crystal's clock domain.
type Timer2 struct {
	channel
	async    bool
	isr      func()
	prescale uint16 // interrupts per task tick
	precount uint16
}

// NewTimer2 returns Timer2 bound to hw. Bind it to VectorTimer2CompA.
func NewTimer2(hw TimerHW) *Timer2 {
	return &Timer2{channel: channel{id: 2, hw: hw}}
}

// Begin configures the timer without starting it and returns the achieved
// interrupt rate. The compare value is rounded to nearest, unlike Timer0 and
// Timer1 which truncate.
func (t *Timer2) Begin(c Timer2Config) (uint32, error) {
	t.reset()

	clock := c.Clock
	if clock == 0 {
		clock = t.hw.Clock
	}
	cfg := Calculate(c.Rate, clock, Timer2Dividers)
	if !cfg.OK() {
		t.failed(c.Rate)
		return 0, ErrRateUnachievable
	}
	t.hw.Regs.PowerUp()

	tickRate := c.TickRate
	if tickRate == 0 {
		tickRate = c.Rate
	}
	t.prescale = uint16(mathx.Clamp(c.Rate/tickRate, 1, 0xFFFF))
	t.precount = t.prescale
	t.isr = c.ISR
	t.async = c.Async

	assr := t.hw.Regs.Get(ASSR)
	if c.Async {
		t.hw.Regs.Set(ASSR, assr|bit(bitAS2))
	} else if assr&bit(bitAS2) != 0 {
		t.hw.Regs.Set(ASSR, assr&^bit(bitAS2))
	}

	writes := [...]struct {
		reg   Register
		value uint16
		busy  uint16
	}{
		{TCCRA, uint16(wgmCTC&3) << bitWGMn0, bit(bitTCR2AUB)},
		{TCCRB, uint16(cfg.CS) << bitCSn0, bit(bitTCR2BUB)},
		{OCRA, cfg.TopValue(), bit(bitOCR2AUB)},
	}
	for _, w := range writes {
		t.hw.Regs.Set(w.reg, w.value)
		if t.async && !t.waitForAsyncWriteCompletion(w.busy) {
			t.async = false
			return 0, ErrAsyncWriteTimeout
		}
	}
	t.hw.Regs.Set(TIFR, bit(bitTOV)|bit(bitOCFA)|bit(bitOCFB))

	t.configured(cfg, clock, t.prescale)
	return t.rate, nil
}

func (t *Timer2) Start() {
	t.start(bit(bitOCFA), bit(bitOCIEA))
}

func (t *Timer2) Stop() {
	t.stop(bit(bitOCIEA))
}

func (t *Timer2) DriveMillis() error {
	return t.driveMillis(t)
}

// Async reports whether the timer runs from the asynchronous crystal.
func (t *Timer2) Async() bool {
	return t.async
}

// HandleInterrupt is the TIMER2_COMPA handler. In async mode it rewrites
// OCR2A and waits for the write to land before returning, so that entering
// power save right after the interrupt cannot wake up early.
func (t *Timer2) HandleInterrupt() {
	if t.async {
		t.hw.Regs.Set(OCRA, t.cfg.TopValue())
	}
	if t.isr != nil {
		t.isr()
	}
	t.precount--
	if t.precount == 0 {
		t.precount = t.prescale
		t.sched.Dispatch()
	}
	if t.async {
		t.waitForAsyncWriteCompletion(bit(bitOCR2AUB))
	}
}

// waitForAsyncWriteCompletion spins until none of the ASSR busy bits in mask
// is set, i.e. the last write reached the crystal clock domain. Writing a
// register again before that corrupts it. It gives up after asyncSpinLimit
// polls and reports false; that only happens with a dead crystal.
func (t *Timer2) waitForAsyncWriteCompletion(mask uint16) bool {
	for i := uint32(0); i < asyncSpinLimit; i++ {
		if t.hw.Regs.Get(ASSR)&mask == 0 {
			return true
		}
	}
	RecordEvent(EvtAsyncTimeout, t.id, uint32(t.hw.Regs.Get(ASSR)&mask))
	DebugPrintln("T2: async register write timeout")
	return false
}
