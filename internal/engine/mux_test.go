package engine

import (
	"strings"
	"testing"

	"github.com/microrpc/hostlink/internal/hosterr"
	"github.com/microrpc/hostlink/internal/prot"
)

type thandler struct {
	set bool
}

func (h *thandler) ServeMsg(r *Request) (RequestResponse, error) {
	h.set = true
	return &prot.PingResponse{MessageResponseBase: &prot.MessageResponseBase{}}, nil
}

func Test_Mux_New(t *testing.T) {
	m := NewMux()
	if m == nil {
		t.Fatal("Failed to create mux")
	}
	if m.m == nil {
		t.Error("Mux map is not initialized")
	}
}

func Test_Mux_Handle_NilHandler_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("The code did not panic on nil handler")
		}
	}()

	m := NewMux()
	m.Handle(prot.CorePingV1, nil)
}

func Test_Mux_Handle_Succeeds(t *testing.T) {
	th := &thandler{}
	m := NewMux()
	m.Handle(prot.CorePingV1, th)

	hOut, ok := m.m[prot.CorePingV1]
	if !ok {
		t.Fatal("The handler was not successfully added.")
	}

	hOut.ServeMsg(nil)
	if !th.set {
		t.Error("The handler added was not the same handler.")
	}
}

func Test_Mux_HandleFunc_NilHandleFunc_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("The code did not panic on nil handler func")
		}
	}()

	m := NewMux()
	m.HandleFunc(prot.CorePingV1, nil)
}

func Test_Mux_Handler_NilRequest_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("The code did not panic on nil request to handler")
		}
	}()

	m := NewMux()
	m.Handler(nil)
}

func Test_Mux_Handler_NotAdded_Default(t *testing.T) {
	m := NewMux()

	req := &Request{
		Header: &prot.MessageHeader{
			Type: prot.CorePingV1,
			Size: prot.MessageHeaderSize,
			ID:   prot.SequenceID(1),
		},
	}

	resp, err := m.Handler(req).ServeMsg(req)
	if resp != nil {
		t.Error("The default handler returned a response")
	}
	if err == nil {
		t.Fatal("The default handler returned no error")
	}
	if !strings.Contains(err.Error(), "function not supported") {
		t.Errorf("The default handler returned the wrong message: %s", err)
	}
	status, serr := hosterr.GetStatus(err)
	if serr != nil {
		t.Fatalf("The default handler error carries no status: %s", err)
	}
	if status != prot.StatusUnsupportedMessage {
		t.Errorf("got status %s, want unsupported-message", status)
	}
}

func Test_Mux_Handler_Added_NotMatched(t *testing.T) {
	m := NewMux()
	th := &thandler{}
	m.Handle(prot.CorePingV1, th)

	req := &Request{
		Header: &prot.MessageHeader{
			Type: prot.CoreStatusV1,
			Size: prot.MessageHeaderSize,
			ID:   prot.SequenceID(1),
		},
	}

	_, err := m.Handler(req).ServeMsg(req)
	if err == nil {
		t.Error("expected the default handler for an unmatched type")
	}
	if th.set {
		t.Error("the registered handler was called for a different type")
	}
}

func Test_Mux_ServeMsg_Matched(t *testing.T) {
	m := NewMux()
	th := &thandler{}
	m.Handle(prot.CorePingV1, th)

	req := &Request{
		Header: &prot.MessageHeader{
			Type: prot.CorePingV1,
			Size: prot.MessageHeaderSize,
			ID:   prot.SequenceID(1),
		},
	}

	if _, err := m.ServeMsg(req); err != nil {
		t.Errorf("unexpected error from matched handler: %s", err)
	}
	if !th.set {
		t.Error("the registered handler was not called")
	}
}

func Test_RegisterModules_FailureStops(t *testing.T) {
	m := NewMux()
	good := &tmodule{name: "good"}
	bad := &tmodule{name: "bad", fail: true}
	after := &tmodule{name: "after"}

	err := RegisterModules(m, good, bad, after)
	if err == nil {
		t.Fatal("expected registration to fail")
	}
	if !strings.Contains(err.Error(), "bad") {
		t.Errorf("registration error does not name the module: %s", err)
	}
	if !good.registered {
		t.Error("module before the failure was not registered")
	}
	if after.registered {
		t.Error("module after the failure was registered")
	}
}

type tmodule struct {
	name       string
	fail       bool
	registered bool
}

func (m *tmodule) Name() string { return m.name }

func (m *tmodule) Register(mux *Mux) error {
	if m.fail {
		return errTestRegister
	}
	m.registered = true
	return nil
}

var errTestRegister = &registerError{}

type registerError struct{}

func (e *registerError) Error() string { return "scripted registration failure" }
