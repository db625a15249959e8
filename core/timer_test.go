package core

import (
	"errors"
	"testing"
)

type fakeChannel struct{ Channel }

func TestMillisClockClaim(t *testing.T) {
	var c MillisClock
	a, b := &fakeChannel{}, &fakeChannel{}

	if err := c.claim(a); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if err := c.claim(a); err != nil {
		t.Errorf("repeated claim by the same channel: %v", err)
	}
	if err := c.claim(b); !errors.Is(err, ErrMillisDriverTaken) {
		t.Errorf("second driver claim = %v, want ErrMillisDriverTaken", err)
	}
}

func TestMillisClockMonotonic(t *testing.T) {
	var c MillisClock
	last := c.Snapshot()
	for i := uint32(0); i < 100; i++ {
		c.advance(i % 3)
		now := c.Snapshot()
		if now < last {
			t.Fatalf("clock went backwards: %d after %d", now, last)
		}
		last = now
	}
	if last != 99 {
		t.Errorf("sum of deltas = %d, want 99", last)
	}
}

func TestUtoa(t *testing.T) {
	for n, want := range map[uint32]string{0: "0", 7: "7", 1000: "1000", 4294967295: "4294967295"} {
		if got := utoa(n); got != want {
			t.Errorf("utoa(%d) = %q, want %q", n, got, want)
		}
	}
}
