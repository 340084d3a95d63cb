// Package bridge implements the transport pump: the loop that carries bytes
// from the inbound channel into the protocol engine one byte at a time and
// decides when the link continues, terminates cleanly, or fails.
package bridge

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/microrpc/hostlink/internal/engine"
	"github.com/microrpc/hostlink/internal/hosterr"
	"github.com/microrpc/hostlink/internal/prot"
)

// Bridge drives the protocol engine from an inbound byte source. The engine
// handle is exclusively owned by the bridge for its entire lifetime and all
// engine invocations are serialized on the calling goroutine; the outbound
// write callback re-enters synchronously from inside Step.
type Bridge struct {
	// Engine is the protocol engine handle.
	Engine engine.Engine

	log *logrus.Entry
}

// New returns a bridge around eng, logging through log.
func New(eng engine.Engine, log *logrus.Entry) *Bridge {
	return &Bridge{
		Engine: eng,
		log:    log,
	}
}

// Serve pumps src into the engine until the engine signals shutdown or a
// fatal condition occurs. Exactly one byte is fetched per outer iteration,
// and the engine is stepped until that byte's cursor drains before the next
// byte is fetched.
//
// Serve returns nil only for the engine's shutdown signal. Every other
// termination is an error: the inbound source closing (no graceful
// half-close exists in the link protocol), an inbound read failure, or a
// non-shutdown engine status. No termination is retried; the engine's state
// after an error is not considered safely resumable.
func (b *Bridge) Serve(src io.ByteReader) error {
	for {
		c, err := src.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return errors.Wrap(err, "bridge: zero-length read, inbound channel closed")
			}
			return errors.Wrap(err, "bridge: inbound read failed")
		}

		cursor := prot.NewCursor([]byte{c})
		for cursor.Remaining() > 0 {
			status := b.Engine.Step(cursor)
			switch status {
			case prot.StatusOK:
				// The engine consumed some prefix of the batch, possibly
				// none of it while buffering a partial frame. Step again
				// until the cursor drains; the engine owns progress.
			case prot.StatusShutdown:
				b.log.Info("bridge: engine signaled shutdown")
				return nil
			default:
				return hosterr.WrapStatus(errors.New("bridge: engine step failed"), status)
			}
		}
	}
}
