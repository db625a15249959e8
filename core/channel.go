package core

// ChannelState tracks the lifecycle of a timer channel.
type ChannelState uint8

const (
	Unconfigured ChannelState = iota
	Configured                // Begin succeeded, interrupt disabled
	Running                   // Start called
)

func (s ChannelState) String() string {
	switch s {
	case Configured:
		return "configured"
	case Running:
		return "running"
	default:
		return "unconfigured"
	}
}

// Channel is the part of a timer channel that does not depend on its
// register layout. Begin differs per variant and is not part of it.
type Channel interface {
	// Start enables the channel's interrupt. It has no effect before a
	// successful Begin.
	Start()
	// Stop disables the channel's interrupt.
	Stop()
	// AddTask registers fn to run every period interrupts.
	AddTask(period uint16, fn TaskFunc, arg interface{}) error
	// Millis returns milliseconds counted by this channel.
	Millis() uint32
	// DriveMillis makes this channel the writer of the process-wide Millis.
	DriveMillis() error
	State() ChannelState
	InterruptHandler
}

// PWMChannel is implemented by timers with PWM compare outputs.
type PWMChannel interface {
	SetPWM(out Output, duty, top uint16)
}

var (
	_ Channel    = (*Timer0)(nil)
	_ Channel    = (*Timer1)(nil)
	_ Channel    = (*Timer2)(nil)
	_ PWMChannel = (*Timer0)(nil)
	_ PWMChannel = (*Timer1)(nil)
)

// TimerHW binds a channel to its register block, its compare output pins and
// its input clock. PinA and PinB may be NoPin.
type TimerHW struct {
	Regs  Registers
	GPIO  GPIODriver
	Clock uint32 // timer input clock in Hz, usually the CPU clock
	PinA  GPIOPin
	PinB  GPIOPin
}

// channel is the state every timer variant carries by composition.
type channel struct {
	id    uint8 // timer number, for diagnostics
	hw    TimerHW
	sched Scheduler
	cfg   Config
	state ChannelState
	rate  uint32 // achieved interrupt rate in Hz
}

func (c *channel) AddTask(period uint16, fn TaskFunc, arg interface{}) error {
	return c.sched.Add(period, fn, arg)
}

func (c *channel) Millis() uint32 {
	return c.sched.Millis()
}

func (c *channel) State() ChannelState {
	return c.state
}

// Rate returns the achieved interrupt rate, 0 while unconfigured.
func (c *channel) Rate() uint32 {
	return c.rate
}

// Config returns the divider and compare value of the last Begin.
func (c *channel) Config() Config {
	return c.cfg
}

// driveMillis claims the process-wide clock for self.
func (c *channel) driveMillis(self Channel) error {
	if err := systemMillis.claim(self); err != nil {
		return err
	}
	c.sched.clock = &systemMillis
	return nil
}

// reset masks the interrupt and forgets the previous configuration. Every
// Begin starts here.
func (c *channel) reset() {
	c.hw.Regs.Set(TIMSK, 0)
	c.state = Unconfigured
	c.rate = 0
	c.cfg = Config{}
	c.sched.Reset()
}

// configured records a successful Begin and prints the diagnostic line.
// A task tick spans prescale interrupts of divider*compare timer clocks, so
// it lasts 1000*divider*compare*prescale/clock milliseconds; the scheduler
// counts that fraction exactly instead of the rounded achieved rate.
func (c *channel) configured(cfg Config, clock uint32, prescale uint16) {
	c.cfg = cfg
	c.rate = cfg.Rate(clock)
	c.state = Configured
	num := 1000 * uint64(cfg.Divider) * uint64(cfg.Compare) * uint64(prescale)
	c.sched.setTickPeriod(num, clock)
	RecordEvent(EvtBegin, c.id, c.rate)

	if !IsDebugEnabled() {
		return
	}
	msg := "T" + utoa(uint32(c.id)) + ": F=" + utoa(clock) +
		", CS=" + utoa(uint32(cfg.CS)) +
		", OCR=" + utoa(cfg.Compare) +
		", rate " + utoa(c.rate)
	if c.sched.msPerTick != 0 {
		msg += ", " + utoa(c.sched.msPerTick) + " ms/t"
	} else if num != 0 {
		msg += ", " + utoa(uint32(uint64(clock)/num)) + " t/ms"
	}
	DebugPrintln(msg)
}

func (c *channel) failed(rate uint32) {
	RecordEvent(EvtRateUnachievable, c.id, rate)
	if IsDebugEnabled() {
		DebugPrintln("T" + utoa(uint32(c.id)) + ": rate " + utoa(rate) + " Hz unachievable")
	}
}

// start clears a stale pending flag and enables the interrupt bits in mask.
func (c *channel) start(flag, mask uint16) {
	if c.state == Unconfigured {
		return
	}
	c.hw.Regs.Set(TIFR, flag)
	c.hw.Regs.Set(TIMSK, mask)
	c.state = Running
	RecordEvent(EvtStart, c.id, c.rate)
}

func (c *channel) stop(mask uint16) {
	if c.state == Unconfigured {
		return
	}
	c.hw.Regs.Set(TIMSK, c.hw.Regs.Get(TIMSK)&^mask)
	c.state = Configured
	RecordEvent(EvtStop, c.id, c.rate)
}

// parkPin makes a compare output pin a GPIO output at its idle level.
func (c *channel) parkPin(o *PWMOutput) {
	if c.hw.GPIO == nil || o.Pin == NoPin || o.Polarity == Disabled {
		return
	}
	_ = c.hw.GPIO.ConfigureOutput(o.Pin)
	_ = c.hw.GPIO.SetPin(o.Pin, o.Polarity.idleLevel())
}
