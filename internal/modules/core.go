// Package modules contains the message handlers registered with the engine
// at startup.
package modules

import (
	"time"

	"github.com/pkg/errors"

	"github.com/microrpc/hostlink/internal/engine"
	"github.com/microrpc/hostlink/internal/prot"
)

// Core serves the link's built-in messages: ping, status, and shutdown.
type Core struct {
	// Version is reported in status responses.
	Version string
	// Start is the process start time used for uptime reporting.
	Start time.Time
}

var _ engine.Module = &Core{}

// Name returns the module name.
func (m *Core) Name() string {
	return "core"
}

// Register installs the core handlers on mux.
func (m *Core) Register(mux *engine.Mux) error {
	if m.Start.IsZero() {
		return errors.New("core module requires a start time")
	}
	mux.HandleFunc(prot.CorePingV1, m.ping)
	mux.HandleFunc(prot.CoreStatusV1, m.status)
	mux.HandleFunc(prot.CoreShutdownV1, m.shutdown)
	return nil
}

func (m *Core) ping(r *engine.Request) (engine.RequestResponse, error) {
	var request prot.PingRequest
	if err := unmarshalRequest(r, &request); err != nil {
		return nil, err
	}
	return &prot.PingResponse{
		MessageResponseBase: &prot.MessageResponseBase{},
		Payload:             request.Payload,
	}, nil
}

func (m *Core) status(r *engine.Request) (engine.RequestResponse, error) {
	var request prot.StatusRequest
	if err := unmarshalRequest(r, &request); err != nil {
		return nil, err
	}
	return &prot.StatusResponse{
		MessageResponseBase: &prot.MessageResponseBase{},
		Version:             m.Version,
		UptimeNS:            int64(time.Since(m.Start)),
	}, nil
}

func (m *Core) shutdown(r *engine.Request) (engine.RequestResponse, error) {
	var request prot.ShutdownRequest
	if err := unmarshalRequest(r, &request); err != nil {
		return nil, err
	}
	return &prot.ShutdownResponse{
		MessageResponseBase: &prot.MessageResponseBase{},
	}, engine.ErrShutdown
}
