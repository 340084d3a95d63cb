package hosterr

import (
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/microrpc/hostlink/internal/prot"
)

func Test_NewStatusError_Message(t *testing.T) {
	err := NewStatusError(prot.StatusFrameTooLarge)
	if !strings.Contains(err.Error(), "frame-too-large") {
		t.Errorf("error message %q missing status name", err.Error())
	}
	if !strings.Contains(err.Error(), "0x00000201") {
		t.Errorf("error message %q missing numeric status", err.Error())
	}
}

func Test_GetStatus_Base(t *testing.T) {
	err := NewStatusError(prot.StatusShutdown)
	status, serr := GetStatus(err)
	if serr != nil {
		t.Fatalf("unexpected error getting status: %s", serr)
	}
	if status != prot.StatusShutdown {
		t.Errorf("got status %s, want shutdown", status)
	}
}

func Test_GetStatus_Wrapped(t *testing.T) {
	inner := errors.New("inner failure")
	err := WrapStatus(inner, prot.StatusWriteFailed)
	err = errors.Wrap(err, "outer context")
	status, serr := GetStatus(err)
	if serr != nil {
		t.Fatalf("unexpected error getting status: %s", serr)
	}
	if status != prot.StatusWriteFailed {
		t.Errorf("got status %s, want write-failed", status)
	}
}

func Test_GetStatus_Shadowing(t *testing.T) {
	// A status higher in the cause stack shadows one lower down.
	err := WrapStatus(NewStatusError(prot.StatusShortWrite), prot.StatusWriteFailed)
	status, serr := GetStatus(err)
	if serr != nil {
		t.Fatalf("unexpected error getting status: %s", serr)
	}
	if status != prot.StatusWriteFailed {
		t.Errorf("got status %s, want the shadowing write-failed", status)
	}
}

func Test_GetStatus_NoStatus_Fails(t *testing.T) {
	_, serr := GetStatus(errors.New("plain failure"))
	if serr == nil {
		t.Error("expected an error for a cause stack with no status")
	}
}

func Test_BaseStackTrace_FindsDeepest(t *testing.T) {
	inner := errors.New("origin")
	err := WrapStatus(errors.Wrap(inner, "middle"), prot.StatusDispatchFailed)
	if BaseStackTrace(err) == nil {
		t.Error("expected a stack trace from the error origin")
	}
}

func Test_WrapStatus_Unwrap(t *testing.T) {
	inner := errors.New("inner failure")
	err := WrapStatus(inner, prot.StatusInvalidJSON)
	if !errors.Is(err, inner) {
		t.Error("wrapped error did not unwrap to its cause")
	}
}
