package prot

import "testing"

func Test_Status_String_Known(t *testing.T) {
	cases := map[Status]string{
		StatusOK:                 "ok",
		StatusShutdown:           "shutdown",
		StatusFrameTooLarge:      "frame-too-large",
		StatusUnsupportedMessage: "unsupported-message",
		StatusDispatchFailed:     "dispatch-failed",
		StatusInvalidJSON:        "invalid-json",
		StatusShortWrite:         "short-write",
		StatusWriteFailed:        "write-failed",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Errorf("Status(0x%08x).String() = %q, want %q", uint32(status), got, want)
		}
	}
}

func Test_Status_String_Unknown_Hex(t *testing.T) {
	s := Status(0xdeadbeef)
	if got := s.String(); got != "0xdeadbeef" {
		t.Errorf("unknown status rendered as %q", got)
	}
}

func Test_GetResponseIdentifier(t *testing.T) {
	cases := map[MessageIdentifier]MessageIdentifier{
		CorePingV1:     CoreResponsePingV1,
		CoreStatusV1:   CoreResponseStatusV1,
		CoreShutdownV1: CoreResponseShutdownV1,
		ExecRunV1:      ExecResponseRunV1,
	}
	for req, want := range cases {
		if got := GetResponseIdentifier(req); got != want {
			t.Errorf("GetResponseIdentifier(0x%08x) = 0x%08x, want 0x%08x", uint32(req), uint32(got), uint32(want))
		}
	}
}
