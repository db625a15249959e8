package monitor

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"avrtimers/core"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw  string
		kind Kind
	}{
		{"T0: F=8000000, CS=3, OCR=125, rate 1000, 1 ms/t", KindBegin},
		{"T2: F=1000000, CS=3, OCR=250, rate 4000, 4 t/ms", KindBegin},
		{"T1: rate 1 Hz unachievable", KindUnachievable},
		{"[TIMERS] TASK_REJECTED t=0 ms=5 v=10", KindEvent},
		{"[TIMERS] === event dump ===", KindDumpMarker},
		{"too many timer tasks", KindTaskRejected},
		{"uptime 1000 ms, crystal 1000 ms", KindText},
	}

	for _, tt := range tests {
		if got := Parse(tt.raw).Kind; got != tt.kind {
			t.Errorf("Parse(%q).Kind = %d, want %d", tt.raw, got, tt.kind)
		}
	}
}

func TestParseFields(t *testing.T) {
	line := Parse("T0: F=8000000, CS=3, OCR=125, rate 1000, 1 ms/t")
	want := Begin{Timer: 0, Clock: 8000000, CS: 3, Compare: 125, Rate: 1000}
	if line.Begin != want {
		t.Errorf("Begin = %+v, want %+v", line.Begin, want)
	}

	line = Parse("[TIMERS] ASYNC_TIMEOUT t=2 ms=300 v=2")
	wantEvt := Event{Name: "ASYNC_TIMEOUT", Timer: 2, Millis: 300, Value: 2}
	if line.Event != wantEvt {
		t.Errorf("Event = %+v, want %+v", line.Event, wantEvt)
	}

	line = Parse("T1: rate 1 Hz unachievable")
	if line.Begin.Timer != 1 || line.Rate != 1 {
		t.Errorf("unachievable line = %+v", line)
	}
}

func TestBeginVerify(t *testing.T) {
	tests := []struct {
		name string
		b    Begin
		ok   bool
	}{
		{"timer0 1kHz", Begin{0, 8000000, 3, 125, 1000}, true},
		{"timer1 500Hz", Begin{1, 8000000, 1, 16000, 500}, true},
		{"timer2 crystal", Begin{2, 32768, 2, 41, 99}, true},
		{"timer2 1024", Begin{2, 1000000, 7, 244, 4}, true},
		{"wrong rate", Begin{0, 8000000, 3, 125, 999}, false},
		{"compare too large", Begin{0, 8000000, 1, 300, 26666}, false},
		{"clock select off", Begin{1, 8000000, 0, 100, 0}, false},
		{"timer0 has no CS7", Begin{0, 1000000, 7, 244, 4}, false},
		{"no such timer", Begin{4, 8000000, 1, 1, 8000000}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.b.Verify()
			if tt.ok && err != nil {
				t.Errorf("Verify: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("Verify succeeded, want error")
			}
		})
	}
}

func TestBeginVerifyMatchesCalculator(t *testing.T) {
	for _, rate := range []uint32{1, 50, 100, 1000, 4000, 20000} {
		cfg := core.Calculate(rate, 16000000, core.Timer1Dividers)
		if !cfg.OK() {
			continue
		}
		b := Begin{Timer: 1, Clock: 16000000, CS: cfg.CS, Compare: cfg.Compare, Rate: cfg.Rate(16000000)}
		if err := b.Verify(); err != nil {
			t.Errorf("rate %d: %v", rate, err)
		}
	}
}

// timeoutPort replays chunks the way tarm/serial reads a tty: an empty chunk
// is a read timeout, reported as (0, io.EOF). Once the chunks run out it
// cancels the context and keeps timing out.
type timeoutPort struct {
	chunks []string
	cancel context.CancelFunc
}

func newTimeoutPort(chunks ...string) (context.Context, *timeoutPort) {
	ctx, cancel := context.WithCancel(context.Background())
	return ctx, &timeoutPort{chunks: chunks, cancel: cancel}
}

func (p *timeoutPort) Read(b []byte) (int, error) {
	if len(p.chunks) == 0 {
		p.cancel()
		return 0, io.EOF
	}
	c := p.chunks[0]
	if c == "" {
		p.chunks = p.chunks[1:]
		return 0, io.EOF
	}
	n := copy(b, c)
	if n == len(c) {
		p.chunks = p.chunks[1:]
	} else {
		p.chunks[0] = c[n:]
	}
	return n, nil
}

func (p *timeoutPort) Close() error {
	return nil
}

type brokenPort struct{}

func (brokenPort) Read([]byte) (int, error) { return 0, errors.New("device unplugged") }
func (brokenPort) Close() error             { return nil }

func TestMonitorRun(t *testing.T) {
	stream := "boot\r\n" +
		"T0: F=16000000, CS=3, OCR=250, rate 1000, 1 ms/t\r\n" +
		"T1: F=16000000, CS=1, OCR=32000, rate 400, 2 ms/t\r\n" +
		"T2: rate 1 Hz unachievable\r\n" +
		"too many timer tasks\r\n" +
		"[TIMERS] === event dump ===\r\n" +
		"[TIMERS] BEGIN t=0 ms=0 v=1000\r\n" +
		"[TIMERS] === end ===\r\n" +
		"\r\n" +
		"uptime 1000 ms" // no terminator

	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)

	ctx, port := newTimeoutPort("", stream)
	m := New(port, logger)
	var kinds []Kind
	m.OnLine = func(l Line) { kinds = append(kinds, l.Kind) }

	if err := m.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := Stats{Lines: 9, Begins: 2, Mismatches: 1, Unachievable: 1, Rejected: 1, Events: 1}
	if got := m.Stats(); got != want {
		t.Errorf("Stats = %+v, want %+v", got, want)
	}
	if len(kinds) != 9 || kinds[len(kinds)-1] != KindText {
		t.Errorf("kinds = %v", kinds)
	}

	mismatches := 0
	for _, e := range hook.AllEntries() {
		if e.Level == log.ErrorLevel {
			mismatches++
			if e.Data["timer"] != uint8(1) {
				t.Errorf("mismatch logged for timer %v, want 1", e.Data["timer"])
			}
		}
	}
	if mismatches != 1 {
		t.Errorf("%d error entries, want 1", mismatches)
	}
}

func TestMonitorDiscardsLongLines(t *testing.T) {
	stream := strings.Repeat("x", maxLineLength+10) + "\nok\n"
	logger, hook := test.NewNullLogger()

	ctx, port := newTimeoutPort(stream)
	m := New(port, logger)
	if err := m.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if hook.LastEntry() == nil || hook.LastEntry().Message != "ok" {
		t.Errorf("last entry = %+v, want ok", hook.LastEntry())
	}
	if got := m.Stats().Lines; got != 2 {
		// the bytes after the discard form their own line
		t.Errorf("Lines = %d, want 2", got)
	}
}

func TestMonitorStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	logger, _ := test.NewNullLogger()
	m := New(io.NopCloser(strings.NewReader("T0: rate 1 Hz unachievable\n")), logger)
	if err := m.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if m.Stats().Lines != 0 {
		t.Error("Run read after cancellation")
	}
}

func TestMonitorKeepsReadingAfterTimeouts(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ctx, port := newTimeoutPort("", "", "T0: F=8000000, CS=3, ", "", "OCR=125, rate 1000, 1 ms/t\n", "", "", "uptime 1000 ms\n")
	m := New(port, logger)

	if err := m.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := m.Stats(); got.Lines != 2 || got.Begins != 1 || got.Mismatches != 0 {
		t.Errorf("Stats = %+v, want 2 lines with one matching Begin", got)
	}
	if len(port.chunks) != 0 {
		t.Errorf("Run stopped with %d chunks unread", len(port.chunks))
	}
}

func TestMonitorReturnsReadErrors(t *testing.T) {
	logger, _ := test.NewNullLogger()
	m := New(brokenPort{}, logger)

	err := m.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "device unplugged") {
		t.Errorf("Run = %v, want the read error", err)
	}
}
