package core

// MillisClock is the process-wide millisecond counter, the equivalent of
// Arduino's millis(). Exactly one timer channel writes it (see DriveMillis);
// any context may read it through Snapshot.
//
// The counter is 32 bits wide and wraps after about 49.7 days.
type MillisClock struct {
	value  uint32
	driver Channel
}

// systemMillis is the single instance behind Millis.
var systemMillis MillisClock

// Millis returns milliseconds counted by the timer designated with
// DriveMillis. It returns 0 until such a timer is running.
func Millis() uint32 {
	return systemMillis.Snapshot()
}

// Snapshot reads the counter with interrupts masked so the multi-byte load
// cannot interleave with the interrupt-context write on an 8-bit core.
func (c *MillisClock) Snapshot() uint32 {
	state := disableInterrupts()
	v := c.value
	restoreInterrupts(state)
	return v
}

// advance is called from the driving channel's interrupt handler only.
func (c *MillisClock) advance(delta uint32) {
	c.value += delta
}

// claim designates ch as the writer. Claiming again with the same channel is
// harmless; a second channel would double-count and is rejected.
func (c *MillisClock) claim(ch Channel) error {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if c.driver != nil && c.driver != ch {
		return ErrMillisDriverTaken
	}
	c.driver = ch
	return nil
}
