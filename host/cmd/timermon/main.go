// Command timermon follows the debug UART of a board running the timer
// driver, logs what it reports and flags timer configurations that do not
// match the rate calculator.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"avrtimers/host/logs"
	"avrtimers/host/monitor"
	"avrtimers/host/serial"
)

var (
	device  = flag.String("device", "/dev/ttyUSB0", "Serial device path")
	baud    = flag.Int("baud", 9600, "Baud rate of the board's debug UART")
	verbose = flag.Bool("verbose", false, "Log event ring entries")
)

func main() {
	flag.Parse()
	logger := logs.NewLogger("timermon", *verbose)

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud

	logger.WithField("device", *device).Info("connecting")
	m, err := monitor.Open(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to connect: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	if err := m.Run(ctx); err != nil {
		logger.WithError(err).Error("monitor stopped")
	}
	stop()
	m.Close()

	s := m.Stats()
	fmt.Printf("\n%d lines, %d timer configurations (%d mismatched), %d unachievable, %d rejected tasks, %d events\n",
		s.Lines, s.Begins, s.Mismatches, s.Unachievable, s.Rejected, s.Events)
	if s.Mismatches > 0 {
		os.Exit(1)
	}
}
