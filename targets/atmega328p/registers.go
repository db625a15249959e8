//go:build atmega328p

package atmega328p

import (
	"runtime/interrupt"
	"runtime/volatile"

	"device/avr"

	"avrtimers/core"
)

// Power reduction bits in PRR.
const (
	prTim1 = 3
	prTim0 = 5
	prTim2 = 6
)

// timerRegs maps the core register names onto one ATmega328P timer block.
// Registers a timer does not have are nil and read as zero.
type timerRegs struct {
	r8  [core.NumRegisters]*volatile.Register8
	r16 [core.NumRegisters][2]*volatile.Register8 // {low, high}
	prr uint8
}

func (t *timerRegs) Get(r core.Register) uint16 {
	if lo := t.r16[r][0]; lo != nil {
		state := interrupt.Disable()
		l := lo.Get() // reading the low byte latches the high byte
		h := t.r16[r][1].Get()
		interrupt.Restore(state)
		return uint16(h)<<8 | uint16(l)
	}
	if reg := t.r8[r]; reg != nil {
		return uint16(reg.Get())
	}
	return 0
}

func (t *timerRegs) Set(r core.Register, value uint16) {
	if hi := t.r16[r][1]; hi != nil {
		// high byte goes to TEMP first, the low byte write commits both
		state := interrupt.Disable()
		hi.Set(uint8(value >> 8))
		t.r16[r][0].Set(uint8(value))
		interrupt.Restore(state)
		return
	}
	if reg := t.r8[r]; reg != nil {
		reg.Set(uint8(value))
	}
}

func (t *timerRegs) PowerUp() {
	avr.PRR.ClearBits(1 << t.prr)
}

var (
	timer0Regs = &timerRegs{
		r8: [core.NumRegisters]*volatile.Register8{
			core.TCCRA: avr.TCCR0A,
			core.TCCRB: avr.TCCR0B,
			core.OCRA:  avr.OCR0A,
			core.OCRB:  avr.OCR0B,
			core.TIMSK: avr.TIMSK0,
			core.TIFR:  avr.TIFR0,
		},
		prr: prTim0,
	}

	timer1Regs = &timerRegs{
		r8: [core.NumRegisters]*volatile.Register8{
			core.TCCRA: avr.TCCR1A,
			core.TCCRB: avr.TCCR1B,
			core.TIMSK: avr.TIMSK1,
			core.TIFR:  avr.TIFR1,
		},
		r16: [core.NumRegisters][2]*volatile.Register8{
			core.OCRA: {avr.OCR1AL, avr.OCR1AH},
			core.OCRB: {avr.OCR1BL, avr.OCR1BH},
			core.ICR:  {avr.ICR1L, avr.ICR1H},
		},
		prr: prTim1,
	}

	timer2Regs = &timerRegs{
		r8: [core.NumRegisters]*volatile.Register8{
			core.TCCRA: avr.TCCR2A,
			core.TCCRB: avr.TCCR2B,
			core.OCRA:  avr.OCR2A,
			core.OCRB:  avr.OCR2B,
			core.TIMSK: avr.TIMSK2,
			core.TIFR:  avr.TIFR2,
			core.ASSR:  avr.ASSR,
		},
		prr: prTim2,
	}
)
