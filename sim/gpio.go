package sim

import "avrtimers/core"

// GPIO records pin directions and levels.
type GPIO struct {
	outputs map[core.GPIOPin]bool
	levels  map[core.GPIOPin]bool
	Sets    int
}

func NewGPIO() *GPIO {
	return &GPIO{
		outputs: make(map[core.GPIOPin]bool),
		levels:  make(map[core.GPIOPin]bool),
	}
}

func (g *GPIO) ConfigureOutput(pin core.GPIOPin) error {
	g.outputs[pin] = true
	return nil
}

func (g *GPIO) SetPin(pin core.GPIOPin, value bool) error {
	g.levels[pin] = value
	g.Sets++
	return nil
}

// Level returns the last level driven on pin and whether it was ever set.
func (g *GPIO) Level(pin core.GPIOPin) (high, ok bool) {
	high, ok = g.levels[pin]
	return high, ok
}

// IsOutput reports whether pin was configured as an output.
func (g *GPIO) IsOutput(pin core.GPIOPin) bool {
	return g.outputs[pin]
}
