package prot

import "fmt"

// Cursor is a view into the unconsumed suffix of one inbound read batch. The
// engine's step entry point advances it in place; the remaining count only
// ever decreases within a batch.
type Cursor struct {
	buf []byte
}

// NewCursor returns a cursor over b. The cursor aliases b rather than
// copying it.
func NewCursor(b []byte) *Cursor {
	return &Cursor{buf: b}
}

// Remaining returns the number of unconsumed bytes.
func (c *Cursor) Remaining() int {
	return len(c.buf)
}

// Bytes returns the unconsumed suffix of the batch.
func (c *Cursor) Bytes() []byte {
	return c.buf
}

// Advance marks n bytes as consumed. It panics if n is negative or larger
// than the remaining count, which would break the pump's draining contract.
func (c *Cursor) Advance(n int) {
	if n < 0 || n > len(c.buf) {
		panic(fmt.Sprintf("prot: cursor advance %d outside remaining %d", n, len(c.buf)))
	}
	c.buf = c.buf[n:]
}
