// Package monitor follows the diagnostic stream a board prints on its debug
// UART and checks every timer configuration it reports.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"avrtimers/host/serial"
)

// maxLineLength bounds a line without terminator, e.g. noise at a wrong baud
// rate.
const maxLineLength = 256

// Stats counts what the monitor has seen.
type Stats struct {
	Lines        int
	Begins       int
	Mismatches   int
	Unachievable int
	Rejected     int
	Events       int
}

// Monitor reads lines from a board.
type Monitor struct {
	port   io.ReadCloser
	logger *log.Logger

	// OnLine, if set, is called for every parsed line after logging.
	OnLine func(Line)

	stats Stats
	buf   []byte
}

// New returns a monitor reading from port.
func New(port io.ReadCloser, logger *log.Logger) *Monitor {
	return &Monitor{
		port:   port,
		logger: logger,
		buf:    make([]byte, 0, maxLineLength),
	}
}

// Open opens the serial port described by cfg and discards stale input.
func Open(cfg *serial.Config, logger *log.Logger) (*Monitor, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := port.Flush(); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to flush %s: %w", cfg.Device, err)
	}

	// Give the board time to reset if opening the port toggled DTR
	time.Sleep(100 * time.Millisecond)

	return New(port, logger), nil
}

// Close closes the underlying port.
func (m *Monitor) Close() error {
	return m.port.Close()
}

// Stats returns the counters so far.
func (m *Monitor) Stats() Stats {
	return m.stats
}

// Run reads until ctx is done or the port fails. tarm/serial reports a read
// timeout with no data as io.EOF, so an empty EOF read only means the board
// was quiet and Run goes back to checking ctx. A pending partial line is
// logged before Run returns.
func (m *Monitor) Run(ctx context.Context) error {
	chunk := make([]byte, 64)
	for {
		if ctx.Err() != nil {
			m.flushPartial()
			return nil
		}

		n, err := m.port.Read(chunk)
		m.feed(chunk[:n])
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read: %w", err)
		}
	}
}

// feed splits data into lines. Both "\n" and "\r\n" end a line.
func (m *Monitor) feed(data []byte) {
	for _, b := range data {
		switch {
		case b == '\n':
			m.emit()
		case b == '\r':
		case len(m.buf) == maxLineLength:
			m.logger.Warn("line too long, discarding")
			m.buf = m.buf[:0]
		default:
			m.buf = append(m.buf, b)
		}
	}
}

func (m *Monitor) flushPartial() {
	if len(m.buf) > 0 {
		m.emit()
	}
}

func (m *Monitor) emit() {
	raw := strings.TrimSpace(string(m.buf))
	m.buf = m.buf[:0]
	if raw == "" {
		return
	}

	line := Parse(raw)
	m.stats.Lines++
	m.handle(line)
	if m.OnLine != nil {
		m.OnLine(line)
	}
}

func (m *Monitor) handle(line Line) {
	switch line.Kind {
	case KindBegin:
		m.stats.Begins++
		b := line.Begin
		fields := log.Fields{
			"timer":   b.Timer,
			"clock":   b.Clock,
			"cs":      b.CS,
			"compare": b.Compare,
			"rate":    b.Rate,
		}
		if err := b.Verify(); err != nil {
			m.stats.Mismatches++
			m.logger.WithFields(fields).WithError(err).Error("timer configuration mismatch")
			return
		}
		m.logger.WithFields(fields).Info("timer configured")

	case KindUnachievable:
		m.stats.Unachievable++
		m.logger.WithFields(log.Fields{
			"timer": line.Begin.Timer,
			"rate":  line.Rate,
		}).Warn("rate unachievable")

	case KindTaskRejected:
		m.stats.Rejected++
		m.logger.Warn("task rejected, all slots in use")

	case KindEvent:
		m.stats.Events++
		m.logger.WithFields(log.Fields{
			"event":  line.Event.Name,
			"timer":  line.Event.Timer,
			"millis": line.Event.Millis,
			"value":  line.Event.Value,
		}).Debug("event")

	case KindDumpMarker:
		m.logger.Debug(line.Raw)

	default:
		m.logger.Info(line.Raw)
	}
}
