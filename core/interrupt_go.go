//go:build !tinygo

package core

// State is a placeholder for the saved interrupt state on regular Go.
type State uintptr

// disableInterrupts is a no-op on regular Go. Host builds drive interrupts
// synchronously through VectorTable.Dispatch, so there is nothing to mask.
func disableInterrupts() State {
	return 0
}

// restoreInterrupts is a no-op on regular Go.
func restoreInterrupts(state State) {
	_ = state
}
