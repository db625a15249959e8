//go:build atmega328p

// Command demo exercises all three timers of an ATmega328P: Timer0 at 1 kHz
// drives Millis and a once-per-second task, Timer1 runs 500 Hz PWM on OC1A,
// and Timer2 counts 10 ms steps from a 32.768 kHz watch crystal.
//
// Timer0 is also used by the TinyGo runtime for time.Sleep, so this program
// does not sleep.
package main

import (
	"runtime/interrupt"

	"avrtimers/core"
	"avrtimers/targets/atmega328p"
)

var (
	seconds     uint32
	crystalTime uint32
)

func countSecond(interface{}) {
	seconds++
}

// onCrystalTick runs every 10 ms from Timer2.
func onCrystalTick() {
	crystalTime += 10
}

func main() {
	atmega328p.EnableDebugUART(9600)

	board, err := atmega328p.Setup()
	if err != nil {
		println("setup:", err.Error())
		return
	}

	// Timer0: 1000 Hz interrupt, no PWM
	if _, err := board.Timer0.Begin(1000, core.Disabled); err != nil {
		println("timer0:", err.Error())
		return
	}
	if err := board.Timer0.DriveMillis(); err != nil {
		println("timer0 millis:", err.Error())
	}
	if err := board.Timer0.AddTask(1000, countSecond, nil); err != nil {
		println("timer0 task:", err.Error())
	}
	board.Timer0.Start()

	// Timer1: 500 Hz, PWM on OC1A
	if _, err := board.Timer1.Begin(500, core.ActiveHigh, core.Disabled); err != nil {
		println("timer1:", err.Error())
		return
	}
	board.Timer1.Start()
	board.Timer1.SetPWM(core.OutputA, 1024, 2048) // 50% duty cycle

	// Timer2: 100 Hz from the watch crystal
	if _, err := board.Timer2.Begin(core.Timer2Config{
		Rate:  100,
		ISR:   onCrystalTick,
		Clock: 32768,
		Async: true,
	}); err != nil {
		println("timer2:", err.Error())
	}
	board.Timer2.Start()

	last := uint32(0)
	for {
		state := interrupt.Disable()
		s, ct := seconds, crystalTime
		interrupt.Restore(state)

		if s != last {
			last = s
			core.DebugPrintln("uptime " + itoa(core.Millis()) + " ms, crystal " + itoa(ct) + " ms")
		}
	}
}

func itoa(n uint32) string {
	var buf [10]byte
	i := len(buf)
	for {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
		if n == 0 {
			return string(buf[i:])
		}
	}
}
