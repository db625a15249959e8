package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// Event is one entry of the post-mortem event ring.
type Event struct {
	Kind   uint8
	Timer  uint8  // timer number
	Millis uint32 // Millis() when recorded
	Value  uint32 // kind-dependent: rate, period
}

// Event kinds
const (
	EvtBegin            = 1 // Value: achieved rate
	EvtRateUnachievable = 2 // Value: requested rate
	EvtStart            = 3
	EvtStop             = 4
	EvtTaskRejected     = 5 // Value: period of the rejected task
	EvtAsyncTimeout     = 6 // Value: ASSR busy bits still set
)

const EventRingSize = 16

var (
	// debugPrintln is the global debug print function (set by platform code)
	debugPrintln DebugWriter = func(s string) {}

	// debugEnabled gates all diagnostic output. Off by default so a build
	// without a sink pays only for the flag test.
	debugEnabled bool

	eventRing     [EventRingSize]Event
	eventRingHead uint8
)

// SetDebugWriter sets the platform-specific debug output function, e.g. a
// UART writer.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// RecordEvent captures a timer event in the ring buffer. Safe to call from
// interrupt context.
func RecordEvent(kind, timer uint8, value uint32) {
	state := disableInterrupts()
	idx := eventRingHead
	eventRing[idx] = Event{
		Kind:   kind,
		Timer:  timer,
		Millis: systemMillis.value,
		Value:  value,
	}
	eventRingHead = (idx + 1) % EventRingSize
	restoreInterrupts(state)
}

// Events returns the recorded events, oldest first.
func Events() []Event {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	out := make([]Event, 0, EventRingSize)
	for i := uint8(0); i < EventRingSize; i++ {
		evt := eventRing[(eventRingHead+i)%EventRingSize]
		if evt.Kind != 0 {
			out = append(out, evt)
		}
	}
	return out
}

func eventName(kind uint8) string {
	switch kind {
	case EvtBegin:
		return "BEGIN"
	case EvtRateUnachievable:
		return "RATE_UNACHIEVABLE"
	case EvtStart:
		return "START"
	case EvtStop:
		return "STOP"
	case EvtTaskRejected:
		return "TASK_REJECTED"
	case EvtAsyncTimeout:
		return "ASYNC_TIMEOUT"
	default:
		return "UNKNOWN"
	}
}

// DumpEvents writes the event ring to the debug writer, oldest first.
// It ignores the enabled flag so it can be called from a fault handler.
func DumpEvents() {
	if debugPrintln == nil {
		return
	}
	debugPrintln("[TIMERS] === event dump ===")
	for _, evt := range Events() {
		debugPrintln("[TIMERS] " + eventName(evt.Kind) +
			" t=" + utoa(uint32(evt.Timer)) +
			" ms=" + utoa(evt.Millis) +
			" v=" + utoa(evt.Value))
	}
	debugPrintln("[TIMERS] === end ===")
}

// ClearEvents empties the event ring.
func ClearEvents() {
	state := disableInterrupts()
	eventRing = [EventRingSize]Event{}
	eventRingHead = 0
	restoreInterrupts(state)
}
