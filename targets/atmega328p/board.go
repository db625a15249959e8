//go:build atmega328p

// Package atmega328p binds the timer channels to the ATmega328P: register
// blocks, compare output pins, interrupt vectors and a UART debug sink.
package atmega328p

import (
	"machine"
	"runtime/interrupt"

	"device/avr"

	"avrtimers/core"
)

// CPUClock is F_CPU of an Arduino Uno. Boards with another crystal change it
// here; the divider tables are evaluated against it.
const CPUClock = 16000000

// Board holds the three timer channels of the chip.
type Board struct {
	Timer0 *core.Timer0
	Timer1 *core.Timer1
	Timer2 *core.Timer2
}

// Setup creates the timer channels and binds them to their vectors. Call it
// once, before starting any timer.
func Setup() (*Board, error) {
	gpio := GPIODriver{}
	b := &Board{
		Timer0: core.NewTimer0(core.TimerHW{Regs: timer0Regs, GPIO: gpio, Clock: CPUClock, PinA: core.NoPin, PinB: PinOC0B}),
		Timer1: core.NewTimer1(core.TimerHW{Regs: timer1Regs, GPIO: gpio, Clock: CPUClock, PinA: PinOC1A, PinB: PinOC1B}),
		Timer2: core.NewTimer2(core.TimerHW{Regs: timer2Regs, GPIO: gpio, Clock: CPUClock, PinA: core.NoPin, PinB: core.NoPin}),
	}
	if err := core.Vectors.Bind(core.VectorTimer0CompA, b.Timer0); err != nil {
		return nil, err
	}
	if err := core.Vectors.Bind(core.VectorTimer1Ovf, b.Timer1); err != nil {
		return nil, err
	}
	if err := core.Vectors.Bind(core.VectorTimer2CompA, b.Timer2); err != nil {
		return nil, err
	}

	interrupt.New(avr.IRQ_TIMER0_COMPA, handleTimer0CompA)
	interrupt.New(avr.IRQ_TIMER1_OVF, handleTimer1Ovf)
	interrupt.New(avr.IRQ_TIMER2_COMPA, handleTimer2CompA)

	return b, nil
}

// The handlers re-enable interrupts first so a slow task list cannot hold
// off the UART or the other timers. A task list that runs longer than one
// period therefore re-enters its own handler.

func handleTimer0CompA(interrupt.Interrupt) {
	avr.Asm("sei")
	core.Vectors.Dispatch(core.VectorTimer0CompA)
}

func handleTimer1Ovf(interrupt.Interrupt) {
	avr.Asm("sei")
	core.Vectors.Dispatch(core.VectorTimer1Ovf)
}

func handleTimer2CompA(interrupt.Interrupt) {
	avr.Asm("sei")
	core.Vectors.Dispatch(core.VectorTimer2CompA)
}

// EnableDebugUART routes core diagnostics to the hardware UART.
func EnableDebugUART(baud uint32) {
	uart := machine.Serial
	uart.Configure(machine.UARTConfig{BaudRate: baud})
	core.SetDebugWriter(func(s string) {
		uart.Write([]byte(s))
		uart.Write([]byte("\r\n"))
	})
	core.SetDebugEnabled(true)
}
