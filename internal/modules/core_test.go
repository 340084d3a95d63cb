package modules

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/microrpc/hostlink/internal/engine"
	"github.com/microrpc/hostlink/internal/hosterr"
	"github.com/microrpc/hostlink/internal/prot"
)

func request(t *testing.T, typ prot.MessageIdentifier, body interface{}) *engine.Request {
	t.Helper()
	msg, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request: %s", err)
	}
	return &engine.Request{
		Header: &prot.MessageHeader{
			Type: typ,
			Size: uint32(prot.MessageHeaderSize + len(msg)),
			ID:   1,
		},
		Message: msg,
	}
}

func registered(t *testing.T, m engine.Module) *engine.Mux {
	t.Helper()
	mux := engine.NewMux()
	if err := m.Register(mux); err != nil {
		t.Fatalf("failed to register module %s: %s", m.Name(), err)
	}
	return mux
}

func Test_Core_Register_RequiresStartTime(t *testing.T) {
	m := &Core{Version: "test"}
	if err := m.Register(engine.NewMux()); err == nil {
		t.Fatal("register succeeded without a start time")
	}
}

func Test_Core_Ping_EchoesPayload(t *testing.T) {
	mux := registered(t, &Core{Version: "test", Start: time.Now()})

	resp, err := mux.ServeMsg(request(t, prot.CorePingV1, &prot.PingRequest{Payload: "marco"}))
	if err != nil {
		t.Fatalf("ping failed: %s", err)
	}
	pr, ok := resp.(*prot.PingResponse)
	if !ok {
		t.Fatalf("unexpected response type %T", resp)
	}
	if pr.Payload != "marco" {
		t.Errorf("ping echoed %q, want %q", pr.Payload, "marco")
	}
}

func Test_Core_Status_ReportsVersionAndUptime(t *testing.T) {
	start := time.Now().Add(-time.Minute)
	mux := registered(t, &Core{Version: "0.1.0-test", Start: start})

	resp, err := mux.ServeMsg(request(t, prot.CoreStatusV1, &prot.StatusRequest{}))
	if err != nil {
		t.Fatalf("status failed: %s", err)
	}
	sr, ok := resp.(*prot.StatusResponse)
	if !ok {
		t.Fatalf("unexpected response type %T", resp)
	}
	if sr.Version != "0.1.0-test" {
		t.Errorf("status version %q", sr.Version)
	}
	if sr.UptimeNS < int64(time.Minute) {
		t.Errorf("status uptime %d, want at least one minute", sr.UptimeNS)
	}
}

func Test_Core_Shutdown_ReturnsResponseAndSentinel(t *testing.T) {
	mux := registered(t, &Core{Version: "test", Start: time.Now()})

	resp, err := mux.ServeMsg(request(t, prot.CoreShutdownV1, &prot.ShutdownRequest{}))
	if !errors.Is(err, engine.ErrShutdown) {
		t.Fatalf("shutdown returned %v, want the shutdown sentinel", err)
	}
	if _, ok := resp.(*prot.ShutdownResponse); !ok {
		t.Fatalf("unexpected response type %T", resp)
	}
}

func Test_Core_Ping_InvalidJSON(t *testing.T) {
	mux := registered(t, &Core{Version: "test", Start: time.Now()})

	_, err := mux.ServeMsg(&engine.Request{
		Header:  &prot.MessageHeader{Type: prot.CorePingV1, ID: 1},
		Message: []byte("{not json"),
	})
	if err == nil {
		t.Fatal("ping with a malformed payload succeeded")
	}
	status, serr := hosterr.GetStatus(err)
	if serr != nil {
		t.Fatalf("error carries no status: %s", serr)
	}
	if status != prot.StatusInvalidJSON {
		t.Errorf("error status %s, want invalid-json", status)
	}
}
