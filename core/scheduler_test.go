package core

import (
	"errors"
	"testing"
)

func TestSchedulerFiresOnMultiples(t *testing.T) {
	var s Scheduler
	fired := map[int][]int{}
	tick := 0
	record := func(arg interface{}) {
		id := arg.(int)
		fired[id] = append(fired[id], tick)
	}

	periods := []uint16{1, 3, 7, 10}
	for i, p := range periods {
		if err := s.Add(p, record, i); err != nil {
			t.Fatalf("Add(%d) failed: %v", p, err)
		}
	}

	for tick = 1; tick <= 70; tick++ {
		s.Dispatch()
	}

	for i, p := range periods {
		got := fired[i]
		if len(got) != 70/int(p) {
			t.Errorf("period %d fired %d times, want %d", p, len(got), 70/int(p))
		}
		for n, at := range got {
			if at != (n+1)*int(p) {
				t.Errorf("period %d: firing %d at tick %d, want %d", p, n, at, (n+1)*int(p))
				break
			}
		}
	}
}

func TestSchedulerDispatchOrder(t *testing.T) {
	var s Scheduler
	var order []string
	for _, name := range []string{"a", "b", "c"} {
		if err := s.Add(1, func(arg interface{}) { order = append(order, arg.(string)) }, name); err != nil {
			t.Fatal(err)
		}
	}
	s.Dispatch()
	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Errorf("dispatch order = %v, want [a b c]", order)
	}
}

func TestSchedulerCapacity(t *testing.T) {
	var s Scheduler
	counts := make([]int, MaxTimerTasks+1)
	inc := func(arg interface{}) { counts[arg.(int)]++ }

	for i := 0; i < MaxTimerTasks; i++ {
		if err := s.Add(2, inc, i); err != nil {
			t.Fatalf("Add %d failed: %v", i, err)
		}
	}
	s.Dispatch() // existing counters at 1

	err := s.Add(1, inc, MaxTimerTasks)
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("Add beyond capacity = %v, want ErrCapacityExceeded", err)
	}
	if s.Len() != MaxTimerTasks {
		t.Errorf("Len = %d, want %d", s.Len(), MaxTimerTasks)
	}

	s.Dispatch()
	for i := 0; i < MaxTimerTasks; i++ {
		if counts[i] != 1 {
			t.Errorf("task %d fired %d times after 2 ticks, want 1", i, counts[i])
		}
	}
	if counts[MaxTimerTasks] != 0 {
		t.Error("rejected task ran")
	}
}

func TestSchedulerRejectsNil(t *testing.T) {
	var s Scheduler
	if err := s.Add(1, nil, nil); !errors.Is(err, ErrNilTask) {
		t.Errorf("Add(nil) = %v, want ErrNilTask", err)
	}
	if s.Len() != 0 {
		t.Error("nil task was stored")
	}
}

func TestSchedulerZeroPeriod(t *testing.T) {
	var s Scheduler
	n := 0
	_ = s.Add(0, func(interface{}) { n++ }, nil)
	for i := 0; i < 5; i++ {
		s.Dispatch()
	}
	if n != 5 {
		t.Errorf("period 0 fired %d times in 5 ticks, want 5", n)
	}
}

func TestSchedulerReset(t *testing.T) {
	var s Scheduler
	n := 0
	_ = s.Add(1, func(interface{}) { n++ }, nil)
	s.Reset()
	s.Dispatch()
	if n != 0 || s.Len() != 0 {
		t.Errorf("after Reset: fired %d, Len %d", n, s.Len())
	}
}

func TestSchedulerMillis(t *testing.T) {
	rates := []uint32{1, 7, 100, 300, 500, 1000, 1024, 3000, 4000, 31250}
	for _, hz := range rates {
		var s Scheduler
		s.setTickPeriod(1000, hz)
		ticks := uint32(3*hz + 11)
		for i := uint32(0); i < ticks; i++ {
			s.Dispatch()
		}
		want := uint32(uint64(ticks) * 1000 / uint64(hz))
		if got := s.Millis(); got != want {
			t.Errorf("%d Hz: %d ticks gave %d ms, want %d", hz, ticks, got, want)
		}
	}
}

func TestSchedulerFractionalPeriod(t *testing.T) {
	// 8 * 41 clocks of a 32768 Hz crystal: 10.009765625 ms per tick
	var s Scheduler
	s.setTickPeriod(1000*8*41, 32768)
	for i := 0; i < 999; i++ {
		s.Dispatch()
	}
	if got := s.Millis(); got != 9999 {
		t.Errorf("999 ticks gave %d ms, want 9999", got)
	}

	var zero Scheduler
	zero.setTickPeriod(1000, 0)
	zero.Dispatch()
	if got := zero.Millis(); got != 0 {
		t.Errorf("unset period counted %d ms", got)
	}
}

func TestSchedulerDrivesClock(t *testing.T) {
	ResetMillis()
	defer ResetMillis()

	var s Scheduler
	s.setTickPeriod(1000, 500)
	s.clock = &systemMillis
	for i := 0; i < 250; i++ {
		s.Dispatch()
	}
	if got := Millis(); got != 500 {
		t.Errorf("Millis = %d, want 500", got)
	}

	var other Scheduler
	other.setTickPeriod(1000, 500)
	other.Dispatch()
	if got := Millis(); got != 500 {
		t.Errorf("non-driving scheduler moved Millis to %d", got)
	}
}
