package engine

import "github.com/microrpc/hostlink/internal/prot"

// MockStep describes one scripted engine step.
type MockStep struct {
	// Consume is the number of cursor bytes to consume this step.
	Consume int
	// Emit, when non-empty, is pushed through the mock's write callback
	// before the step returns.
	Emit []byte
	// Status is the status to return from the step.
	Status prot.Status
}

// MockEngine is a scripted implementation of Engine for pump tests. Each
// Step call pops one entry from Script; once the script is exhausted every
// step consumes the whole cursor and reports success.
type MockEngine struct {
	Script []MockStep
	// Write is the outbound callback, when emission is scripted.
	Write WriteFunc

	// Observed is the cursor remaining-count at each Step call.
	Observed []int

	step int
}

var _ Engine = &MockEngine{}

// Step consumes bytes and returns a status per the script.
func (m *MockEngine) Step(c *prot.Cursor) prot.Status {
	m.Observed = append(m.Observed, c.Remaining())
	if m.step >= len(m.Script) {
		c.Advance(c.Remaining())
		return prot.StatusOK
	}
	s := m.Script[m.step]
	m.step++
	if len(s.Emit) > 0 && m.Write != nil {
		m.Write(s.Emit)
	}
	n := s.Consume
	if n > c.Remaining() {
		n = c.Remaining()
	}
	c.Advance(n)
	return s.Status
}

// Steps returns the number of Step calls made so far.
func (m *MockEngine) Steps() int {
	return len(m.Observed)
}
