package core

// Vector identifies a hardware interrupt source.
type Vector uint8

const (
	VectorTimer0CompA Vector = iota // TIMER0_COMPA
	VectorTimer1Ovf                 // TIMER1_OVF
	VectorTimer2CompA               // TIMER2_COMPA
	NumVectors
)

// InterruptHandler is implemented by everything a vector can be bound to.
type InterruptHandler interface {
	HandleInterrupt()
}

// VectorTable routes each interrupt source to exactly one handler. It is
// filled once at start-up, before any channel is started, and only read
// afterwards.
type VectorTable struct {
	handlers [NumVectors]InterruptHandler
}

// Vectors is the table the platform's interrupt glue dispatches through.
var Vectors VectorTable

// Bind routes v to h. Rebinding a vector to the same handler is allowed;
// binding it to a different one returns ErrVectorBound.
func (t *VectorTable) Bind(v Vector, h InterruptHandler) error {
	if v >= NumVectors || h == nil {
		return ErrInvalidVector
	}
	if cur := t.handlers[v]; cur != nil && cur != h {
		return ErrVectorBound
	}
	t.handlers[v] = h
	return nil
}

// Handler returns the handler bound to v, or nil.
func (t *VectorTable) Handler(v Vector) InterruptHandler {
	if v >= NumVectors {
		return nil
	}
	return t.handlers[v]
}

// Dispatch runs the handler bound to v. Unbound vectors are ignored.
func (t *VectorTable) Dispatch(v Vector) {
	if v >= NumVectors {
		return
	}
	if h := t.handlers[v]; h != nil {
		h.HandleInterrupt()
	}
}
