package core

import "avrtimers/x/mathx"

// ClockSelect is the value of the CSn[2:0] bits of a timer. Zero stops the
// timer and doubles as the "rate unachievable" sentinel.
type ClockSelect uint8

const ClockOff ClockSelect = 0

// Width is the compare register width of a timer channel in bits.
type Width uint8

const (
	Width8  Width = 8
	Width16 Width = 16
)

// Rounding selects how the compare value quotient is formed.
type Rounding uint8

const (
	// RoundDown truncates the quotient (Timer0, Timer1).
	RoundDown Rounding = iota
	// RoundNearest rounds the quotient half up (Timer2). Timer2 typically runs
	// from a 32.768 kHz crystal where truncation costs several percent.
	RoundNearest
)

// DividerTable describes the prescaler options of one timer. Dividers[i] is
// the prescaler selected by clock select i+1.
type DividerTable struct {
	Width      Width
	Dividers   []uint32
	MaxCompare uint32 // inclusive
	Rounding   Rounding
}

// Divider tables per timer, see the ATmega328P datasheet.
var (
	Timer0Dividers = DividerTable{
		Width:      Width8,
		Dividers:   []uint32{1, 8, 64, 256, 1024},
		MaxCompare: 255,
		Rounding:   RoundDown,
	}
	// Timer1 compare values stay below 32767 so PWM duty products with the
	// default 15-bit range never leave 32 bits.
	Timer1Dividers = DividerTable{
		Width:      Width16,
		Dividers:   []uint32{1, 8, 64, 256, 1024},
		MaxCompare: 32766,
		Rounding:   RoundDown,
	}
	Timer2Dividers = DividerTable{
		Width:      Width8,
		Dividers:   []uint32{1, 8, 32, 64, 128, 256, 1024},
		MaxCompare: 255,
		Rounding:   RoundNearest,
	}
)

// Config is the result of a rate calculation: which prescaler to use and how
// many prescaled clocks make up one interrupt period. The value written to
// the compare (or top) register is Compare-1.
type Config struct {
	CS      ClockSelect
	Divider uint32
	Compare uint32
	Width   Width
}

// OK reports whether the configuration describes an achievable rate.
func (c Config) OK() bool {
	return c.CS != ClockOff && c.Compare != 0
}

// Rate returns the interrupt rate in Hz the configuration achieves with the
// given input clock, or 0 for the sentinel.
func (c Config) Rate(clock uint32) uint32 {
	if !c.OK() {
		return 0
	}
	return uint32(uint64(clock) / (uint64(c.Divider) * uint64(c.Compare)))
}

// TopValue is the register value for the compare or top register.
func (c Config) TopValue() uint16 {
	if c.Compare == 0 {
		return 0
	}
	return uint16(c.Compare - 1)
}

// Calculate picks the smallest divider from t for which clock/(divider*rate)
// fits in t.MaxCompare. It returns the ClockOff sentinel if the rate is zero,
// above the input clock, or too low for the largest divider.
//
// The function is pure, so a board with fixed rates can evaluate it ahead of
// time (see host/cmd/timercalc) and compare Begin's result with the
// generated constants.
func Calculate(rate, clock uint32, t DividerTable) Config {
	if rate == 0 {
		return Config{Width: t.Width}
	}
	for i, div := range t.Dividers {
		d := uint64(div) * uint64(rate)
		var q uint64
		if t.Rounding == RoundNearest {
			q = mathx.DivRound(uint64(clock), d)
		} else {
			q = uint64(clock) / d
		}
		if q == 0 {
			// larger dividers only make the quotient smaller
			break
		}
		if q <= uint64(t.MaxCompare) {
			return Config{
				CS:      ClockSelect(i + 1),
				Divider: div,
				Compare: uint32(q),
				Width:   t.Width,
			}
		}
	}
	return Config{Width: t.Width}
}
