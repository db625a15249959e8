// Package sim provides in-memory stand-ins for a timer's register block and
// for GPIO pins, so the timer channels can run on the host.
package sim

import "avrtimers/core"

// ASSR bits as laid out on the ATmega328P.
const (
	assrTCR2BUB uint16 = 1 << 0
	assrTCR2AUB uint16 = 1 << 1
	assrOCR2BUB uint16 = 1 << 2
	assrOCR2AUB uint16 = 1 << 3
	assrTCN2UB  uint16 = 1 << 4
	assrAS2     uint16 = 1 << 5
	assrEXCLK   uint16 = 1 << 6

	assrWritable = assrAS2 | assrEXCLK
)

// busyBit maps registers that are buffered in async mode to their
// update-busy flag.
var busyBit = map[core.Register]uint16{
	core.TCCRA: assrTCR2AUB,
	core.TCCRB: assrTCR2BUB,
	core.OCRA:  assrOCR2AUB,
	core.OCRB:  assrOCR2BUB,
}

// Write is one logged register write.
type Write struct {
	Reg   core.Register
	Value uint16
}

// Registers simulates one timer register block. In async mode (AS2 set in
// ASSR) a write to a buffered register sets its busy flag for SyncPolls reads
// of ASSR. Writing any buffered register while a flag is still set counts as
// a violation: on silicon that write would be corrupted.
type Registers struct {
	regs    [core.NumRegisters]uint16
	pending map[core.Register]int

	// SyncPolls is the number of ASSR reads a buffered write stays busy.
	SyncPolls int
	// Stuck keeps busy flags set forever, like a crystal that never starts.
	Stuck bool

	Writes     []Write
	PowerUps   int
	Violations int
}

// NewRegisters returns a register block with all registers zero.
func NewRegisters() *Registers {
	return &Registers{pending: make(map[core.Register]int)}
}

func (r *Registers) async() bool {
	return r.regs[core.ASSR]&assrAS2 != 0
}

func (r *Registers) busy() uint16 {
	var b uint16
	for reg, n := range r.pending {
		if n > 0 || r.Stuck {
			b |= busyBit[reg]
		}
	}
	return b
}

// Get returns a register. Reading ASSR advances pending async writes by one
// poll.
func (r *Registers) Get(reg core.Register) uint16 {
	if reg != core.ASSR {
		return r.regs[reg]
	}
	v := r.regs[core.ASSR] | r.busy()
	if !r.Stuck {
		for k, n := range r.pending {
			if n <= 1 {
				delete(r.pending, k)
			} else {
				r.pending[k] = n - 1
			}
		}
	}
	return v
}

// Set writes a register with the side effects of the real hardware: TIFR is
// write-one-to-clear and the ASSR busy flags are read only.
func (r *Registers) Set(reg core.Register, value uint16) {
	r.Writes = append(r.Writes, Write{Reg: reg, Value: value})

	switch reg {
	case core.TIFR:
		r.regs[reg] &^= value
		return
	case core.ASSR:
		r.regs[reg] = value & assrWritable
		return
	}

	if _, buffered := busyBit[reg]; buffered && r.async() {
		if r.busy() != 0 {
			r.Violations++
		}
		if r.SyncPolls > 0 || r.Stuck {
			r.pending[reg] = r.SyncPolls
		}
	}
	r.regs[reg] = value
}

// PowerUp counts power reduction releases.
func (r *Registers) PowerUp() {
	r.PowerUps++
}

// Raise sets interrupt flags in TIFR the way the counter hardware would.
func (r *Registers) Raise(flags uint16) {
	r.regs[core.TIFR] |= flags
}

// Peek returns a register without any read side effects.
func (r *Registers) Peek(reg core.Register) uint16 {
	if reg == core.ASSR {
		return r.regs[reg] | r.busy()
	}
	return r.regs[reg]
}

// WritesTo returns the logged values written to reg, oldest first.
func (r *Registers) WritesTo(reg core.Register) []uint16 {
	var out []uint16
	for _, w := range r.Writes {
		if w.Reg == reg {
			out = append(out, w.Value)
		}
	}
	return out
}

// ResetLog forgets the write log and the violation count.
func (r *Registers) ResetLog() {
	r.Writes = nil
	r.Violations = 0
}
