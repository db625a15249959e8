package core

// Register names one register of a timer/counter block. Not every timer has
// every register: Timer0 and Timer2 have no ICR, only Timer2 has ASSR.
type Register uint8

const (
	TCCRA Register = iota // control register A: COMnA, COMnB, WGMn[1:0]
	TCCRB                 // control register B: WGMn[3:2], CSn[2:0]
	OCRA                  // output compare A
	OCRB                  // output compare B
	ICR                   // input capture, used as TOP by Timer1 mode 14
	TIMSK                 // interrupt mask
	TIFR                  // interrupt flags, write 1 to clear
	ASSR                  // asynchronous status (Timer2)
	NumRegisters
)

var registerNames = [NumRegisters]string{"TCCRA", "TCCRB", "OCRA", "OCRB", "ICR", "TIMSK", "TIFR", "ASSR"}

func (r Register) String() string {
	if r < NumRegisters {
		return registerNames[r]
	}
	return "REG?"
}

// Registers is the register block of one timer/counter. 8-bit registers use
// the low byte; Timer1's 16-bit registers are written high byte first by the
// platform implementation.
type Registers interface {
	Get(r Register) uint16
	Set(r Register, value uint16)

	// PowerUp clears the timer's power reduction bit.
	PowerUp()
}

// Bit positions shared by the ATmega timers.
const (
	bitWGMn0 = 0 // TCCRnA
	bitCOMB0 = 4 // TCCRnA
	bitCOMA0 = 6 // TCCRnA
	bitCSn0  = 0 // TCCRnB
	bitWGMn2 = 3 // TCCRnB, WGM12 on Timer1

	bitTOIE  = 0 // TIMSKn
	bitOCIEA = 1 // TIMSKn
	bitTOV   = 0 // TIFRn
	bitOCFA  = 1 // TIFRn
	bitOCFB  = 2 // TIFRn

	// ASSR
	bitTCR2BUB = 0
	bitTCR2AUB = 1
	bitOCR2BUB = 2
	bitOCR2AUB = 3
	bitTCN2UB  = 4
	bitAS2     = 5
)

// Waveform generation modes.
const (
	wgmCTC        uint8 = 2  // TOP = OCRA
	wgmFastPWMOCR uint8 = 7  // TOP = OCRA (8-bit timers)
	wgmFastPWMICR uint8 = 14 // TOP = ICR1 (Timer1)
)

// ASSRBusyMask covers all Timer2 update-busy flags.
const ASSRBusyMask uint16 = 1<<bitTCN2UB | 1<<bitOCR2AUB | 1<<bitOCR2BUB | 1<<bitTCR2AUB | 1<<bitTCR2BUB

func bit(n uint8) uint16 { return 1 << n }
