package engine

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/microrpc/hostlink/internal/hosterr"
	"github.com/microrpc/hostlink/internal/prot"
)

// UnknownMessage represents the default handler logic for an unmatched
// request type sent over the link.
func UnknownMessage(r *Request) (RequestResponse, error) {
	return nil, hosterr.WrapStatus(errors.Errorf("engine: function not supported, header type: 0x%x", uint32(r.Header.Type)), prot.StatusUnsupportedMessage)
}

// UnknownMessageHandler creates a default HandlerFunc out of the
// UnknownMessage handler logic.
func UnknownMessageHandler() Handler {
	return HandlerFunc(UnknownMessage)
}

// Handler responds to a link request.
type Handler interface {
	ServeMsg(*Request) (RequestResponse, error)
}

// HandlerFunc is an adapter to use functions as handlers.
type HandlerFunc func(*Request) (RequestResponse, error)

// ServeMsg calls f(r).
func (f HandlerFunc) ServeMsg(r *Request) (RequestResponse, error) {
	return f(r)
}

// Request is a complete inbound message.
type Request struct {
	// Header is the wire format message header that preceded the message
	// for this request.
	Header *prot.MessageHeader
	// Message is the JSON payload that followed Header.
	Message []byte
}

// RequestResponse is the base response for any link message request.
type RequestResponse interface {
	Base() *prot.MessageResponseBase
}

// Mux is a protocol multiplexer for request response pairs following the
// link protocol.
type Mux struct {
	mu sync.Mutex
	m  map[prot.MessageIdentifier]Handler
}

// NewMux creates a default link multiplexer.
func NewMux() *Mux {
	return &Mux{m: make(map[prot.MessageIdentifier]Handler)}
}

// Handle registers the handler for the given message id.
func (mux *Mux) Handle(id prot.MessageIdentifier, handler Handler) {
	mux.mu.Lock()
	defer mux.mu.Unlock()

	if handler == nil {
		panic("engine: nil handler")
	}

	if _, ok := mux.m[id]; ok {
		logrus.WithField("message-type", uint32(id)).Warn("engine: overwriting link handler")
	}

	mux.m[id] = handler
}

// HandleFunc registers the handler function for the given message id.
func (mux *Mux) HandleFunc(id prot.MessageIdentifier, handler func(*Request) (RequestResponse, error)) {
	if handler == nil {
		panic("engine: nil handler func")
	}

	mux.Handle(id, HandlerFunc(handler))
}

// Handler returns the handler to use for the given request type.
func (mux *Mux) Handler(r *Request) Handler {
	mux.mu.Lock()
	defer mux.mu.Unlock()

	if r == nil {
		panic("engine: nil request to handler")
	}

	h, ok := mux.m[r.Header.Type]
	if !ok {
		return UnknownMessageHandler()
	}

	return h
}

// ServeMsg dispatches the request to the handler whose type matches the
// request type.
func (mux *Mux) ServeMsg(r *Request) (RequestResponse, error) {
	h := mux.Handler(r)
	return h.ServeMsg(r)
}
