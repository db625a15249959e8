// Package mathx holds small integer helpers shared by the timer code.
// Everything here is integer-only so it stays cheap on an 8-bit core.
package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. If lo > hi, the bounds are swapped.
func Clamp[T constraints.Integer](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Scale maps v from the range [0, from] onto [0, to], rounding toward zero.
// The product is formed in 64 bits so 16-bit operands never overflow.
// from == 0 yields 0.
func Scale[T constraints.Unsigned](v, to, from T) T {
	if from == 0 {
		return 0
	}
	return T(uint64(v) * uint64(to) / uint64(from))
}

// DivRound divides n by d rounding half away from zero. d must be non-zero.
func DivRound[T constraints.Unsigned](n, d T) T {
	return (n + d/2) / d
}
