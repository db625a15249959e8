package monitor

import (
	"fmt"
	"regexp"
	"strconv"

	"avrtimers/core"
)

// Kind classifies a line of the board's diagnostic stream.
type Kind uint8

const (
	KindText        Kind = iota // anything the timers did not print
	KindBegin                   // "T0: F=8000000, CS=3, OCR=125, rate 1000, 1 ms/t"
	KindUnachievable            // "T0: rate 70000 Hz unachievable"
	KindEvent                   // "[TIMERS] BEGIN t=0 ms=12 v=1000"
	KindDumpMarker              // "[TIMERS] === event dump ==="
	KindTaskRejected            // "too many timer tasks"
)

// Begin is a parsed Begin report.
type Begin struct {
	Timer   uint8
	Clock   uint32
	CS      core.ClockSelect
	Compare uint32
	Rate    uint32
}

// Event is a parsed event ring entry.
type Event struct {
	Name   string
	Timer  uint8
	Millis uint32
	Value  uint32
}

// Line is one parsed diagnostic line. Only the field matching Kind is set.
type Line struct {
	Kind  Kind
	Raw   string
	Begin Begin
	Event Event
	Rate  uint32 // KindUnachievable: requested rate
}

var (
	beginRe        = regexp.MustCompile(`^T(\d): F=(\d+), CS=(\d+), OCR=(\d+), rate (\d+)`)
	unachievableRe = regexp.MustCompile(`^T(\d): rate (\d+) Hz unachievable$`)
	eventRe        = regexp.MustCompile(`^\[TIMERS\] ([A-Z_]+) t=(\d+) ms=(\d+) v=(\d+)$`)
	markerRe       = regexp.MustCompile(`^\[TIMERS\] === .* ===$`)
)

// Parse classifies one line without its line terminator.
func Parse(raw string) Line {
	line := Line{Kind: KindText, Raw: raw}

	if m := beginRe.FindStringSubmatch(raw); m != nil {
		line.Kind = KindBegin
		line.Begin = Begin{
			Timer:   uint8(atou(m[1])),
			Clock:   atou(m[2]),
			CS:      core.ClockSelect(atou(m[3])),
			Compare: atou(m[4]),
			Rate:    atou(m[5]),
		}
		return line
	}
	if m := unachievableRe.FindStringSubmatch(raw); m != nil {
		line.Kind = KindUnachievable
		line.Begin.Timer = uint8(atou(m[1]))
		line.Rate = atou(m[2])
		return line
	}
	if m := eventRe.FindStringSubmatch(raw); m != nil {
		line.Kind = KindEvent
		line.Event = Event{
			Name:   m[1],
			Timer:  uint8(atou(m[2])),
			Millis: atou(m[3]),
			Value:  atou(m[4]),
		}
		return line
	}
	if markerRe.MatchString(raw) {
		line.Kind = KindDumpMarker
		return line
	}
	if raw == core.ErrCapacityExceeded.Error() {
		line.Kind = KindTaskRejected
	}
	return line
}

// atou parses a decimal field the regexps already matched as digits. Values
// beyond 32 bits saturate.
func atou(s string) uint32 {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return ^uint32(0)
	}
	return uint32(v)
}

// Verify checks that a reported configuration is one the calculator can
// produce: the clock select exists for the timer, the compare value fits
// its register and the reported rate matches clock / (divider × compare).
func (b Begin) Verify() error {
	var t core.DividerTable
	switch b.Timer {
	case 0:
		t = core.Timer0Dividers
	case 1:
		t = core.Timer1Dividers
	case 2:
		t = core.Timer2Dividers
	default:
		return fmt.Errorf("T%d: no such timer", b.Timer)
	}

	if b.CS == core.ClockOff || int(b.CS) > len(t.Dividers) {
		return fmt.Errorf("T%d: clock select %d out of range", b.Timer, b.CS)
	}
	if b.Compare == 0 || b.Compare > t.MaxCompare {
		return fmt.Errorf("T%d: compare %d out of range 1..%d", b.Timer, b.Compare, t.MaxCompare)
	}

	cfg := core.Config{CS: b.CS, Divider: t.Dividers[b.CS-1], Compare: b.Compare, Width: t.Width}
	if want := cfg.Rate(b.Clock); want != b.Rate {
		return fmt.Errorf("T%d: reported rate %d Hz, registers give %d Hz", b.Timer, b.Rate, want)
	}
	return nil
}
