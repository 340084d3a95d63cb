// Package engine defines the protocol engine surface the transport pump
// drives, and a reference engine that frames the inbound byte stream and
// dispatches complete messages to registered module handlers.
package engine

import (
	"github.com/pkg/errors"

	"github.com/microrpc/hostlink/internal/prot"
)

// WriteFunc flushes engine output to the outbound channel. It returns the
// number of bytes durably handed to the channel; the engine uses the count
// to detect short writes.
type WriteFunc func(p []byte) (int, error)

// Engine is the session-based protocol state machine. Step consumes a prefix
// of the cursor, advancing it in place, and returns the step's status. A
// step may consume anywhere from none to all of the remaining bytes; the
// caller keeps stepping until the cursor drains or the status is terminal.
type Engine interface {
	Step(c *prot.Cursor) prot.Status
}

// ErrShutdown is returned by a handler to request clean termination of the
// host process. The engine responds to the message first, then reports the
// shutdown status from the current step.
var ErrShutdown = errors.New("engine shutdown requested")

// Module is a set of message handlers registered once at startup. A
// registration failure aborts startup before the pump runs.
type Module interface {
	Name() string
	Register(mux *Mux) error
}

// RegisterModules registers each module in order, stopping at the first
// failure.
func RegisterModules(mux *Mux, mods ...Module) error {
	for _, m := range mods {
		if err := m.Register(mux); err != nil {
			return errors.Wrapf(err, "failed to register module %s", m.Name())
		}
	}
	return nil
}
