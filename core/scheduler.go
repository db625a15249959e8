package core

// MaxTimerTasks is the number of task slots per timer channel.
const MaxTimerTasks = 4

// TaskFunc is a callback run from timer interrupt context. It must be short
// and must not block.
type TaskFunc func(arg interface{})

// task is one scheduler slot. count stays in [0, period).
type task struct {
	fn     TaskFunc
	arg    interface{}
	period uint16
	count  uint16
}

// Scheduler calls a fixed set of tasks at sub-multiples of the tick rate and
// keeps the channel's millisecond count. It is owned by one timer channel and
// mutated only from that channel's interrupt handler once the channel runs.
type Scheduler struct {
	tasks  [MaxTimerTasks]task
	nTasks uint8

	// millisecond accounting, see setTickPeriod
	tickDen    uint32
	msPerTick  uint32
	remPerTick uint32
	remainder  uint32
	millis     uint32

	clock *MillisClock // non-nil when this scheduler drives Millis()
}

// Add appends a task that fires every period ticks, starting period ticks
// from now. A period of 0 behaves like 1. Nothing is changed when the slots
// are used up.
func (s *Scheduler) Add(period uint16, fn TaskFunc, arg interface{}) error {
	if fn == nil {
		return ErrNilTask
	}
	if s.nTasks >= MaxTimerTasks {
		RecordEvent(EvtTaskRejected, 0, uint32(period))
		DebugPrintln("too many timer tasks")
		return ErrCapacityExceeded
	}
	if period == 0 {
		period = 1
	}
	state := disableInterrupts()
	s.tasks[s.nTasks] = task{fn: fn, arg: arg, period: period}
	s.nTasks++
	restoreInterrupts(state)
	return nil
}

// Len returns the number of registered tasks.
func (s *Scheduler) Len() int {
	return int(s.nTasks)
}

// Reset drops all tasks. Only a channel's Begin calls it.
func (s *Scheduler) Reset() {
	state := disableInterrupts()
	s.tasks = [MaxTimerTasks]task{}
	s.nTasks = 0
	s.remainder = 0
	restoreInterrupts(state)
}

// setTickPeriod prepares millisecond accounting for ticks lasting num/den
// milliseconds. Every tick adds num/den milliseconds and the num%den
// remainder is carried as a fraction of den, so after T ticks exactly
// floor(T*num/den) milliseconds have been counted and no division runs in
// interrupt context.
func (s *Scheduler) setTickPeriod(num uint64, den uint32) {
	s.tickDen = den
	s.remainder = 0
	if den == 0 {
		s.msPerTick, s.remPerTick = 0, 0
		return
	}
	s.msPerTick = uint32(num / uint64(den))
	s.remPerTick = uint32(num % uint64(den))
}

// Dispatch runs once per tick: it advances the millisecond counters and
// fires every task whose counter reaches its period, in registration order.
func (s *Scheduler) Dispatch() {
	delta := s.msPerTick
	if s.remPerTick != 0 {
		s.remainder += s.remPerTick
		if s.remainder >= s.tickDen {
			s.remainder -= s.tickDen
			delta++
		}
	}
	if delta != 0 {
		s.millis += delta
		if s.clock != nil {
			s.clock.advance(delta)
		}
	}

	for i := uint8(0); i < s.nTasks; i++ {
		t := &s.tasks[i]
		t.count++
		if t.count >= t.period {
			t.count = 0
			t.fn(t.arg)
		}
	}
}

// Millis returns milliseconds counted by this scheduler since power-up.
func (s *Scheduler) Millis() uint32 {
	state := disableInterrupts()
	v := s.millis
	restoreInterrupts(state)
	return v
}
