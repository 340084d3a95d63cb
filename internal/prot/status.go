package prot

import "fmt"

// Status is the numeric result of a single engine step. A zero value means
// the step succeeded and the engine is ready for more bytes. StatusShutdown
// is the one non-error terminal value; everything else is fatal to the link.
type Status uint32

// Status values are subdivided: the high bytes select a category and the low
// byte a code within it.
const (
	statusCategoryShift = 8

	categoryPlatform uint32 = 0x01
	categoryFraming  uint32 = 0x02
	categoryDispatch uint32 = 0x03
	categoryChannel  uint32 = 0x04
)

const (
	// StatusOK means the step consumed bytes without error.
	StatusOK Status = 0

	// StatusShutdown means the peer asked the host process to terminate
	// cleanly. It is not an error.
	StatusShutdown Status = Status(categoryPlatform<<statusCategoryShift | 0x01)

	// StatusFrameTooLarge means an inbound header declared a size outside
	// the [MessageHeaderSize, MaxMessageSize] window.
	StatusFrameTooLarge Status = Status(categoryFraming<<statusCategoryShift | 0x01)

	// StatusUnsupportedMessage means no handler is registered for the
	// inbound message type.
	StatusUnsupportedMessage Status = Status(categoryDispatch<<statusCategoryShift | 0x01)

	// StatusDispatchFailed means a handler failed in a way that could not
	// be conveyed back to the peer.
	StatusDispatchFailed Status = Status(categoryDispatch<<statusCategoryShift | 0x02)

	// StatusInvalidJSON means a request payload failed to unmarshal.
	StatusInvalidJSON Status = Status(categoryDispatch<<statusCategoryShift | 0x03)

	// StatusShortWrite means the outbound channel accepted fewer bytes
	// than the engine presented.
	StatusShortWrite Status = Status(categoryChannel<<statusCategoryShift | 0x01)

	// StatusWriteFailed means the outbound channel returned an error.
	StatusWriteFailed Status = Status(categoryChannel<<statusCategoryShift | 0x02)
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusShutdown:
		return "shutdown"
	case StatusFrameTooLarge:
		return "frame-too-large"
	case StatusUnsupportedMessage:
		return "unsupported-message"
	case StatusDispatchFailed:
		return "dispatch-failed"
	case StatusInvalidJSON:
		return "invalid-json"
	case StatusShortWrite:
		return "short-write"
	case StatusWriteFailed:
		return "write-failed"
	default:
		return fmt.Sprintf("0x%08x", uint32(s))
	}
}
