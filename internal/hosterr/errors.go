// Package hosterr carries engine status values through error cause stacks,
// so that the numeric status a failure maps to on the wire (and in the
// process exit diagnostic) survives wrapping.
package hosterr

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/microrpc/hostlink/internal/prot"
)

// StackTracer is an interface originating (but not exported) from the
// github.com/pkg/errors package. It defines something which can return a stack
// trace.
type StackTracer interface {
	StackTrace() errors.StackTrace
}

// BaseStackTrace gets the earliest errors.StackTrace in the given error's
// cause stack. This will be the stack trace which reaches closest to the
// error's actual origin. It returns nil if no stack trace is found in the
// cause stack.
func BaseStackTrace(e error) errors.StackTrace {
	type causer interface {
		Cause() error
	}
	cause := e
	var tracer StackTracer
	for cause != nil {
		serr, ok := cause.(StackTracer)
		if ok {
			tracer = serr
		}
		cerr, ok := cause.(causer)
		if !ok {
			break
		}
		cause = cerr.Cause()
	}
	if tracer == nil {
		return nil
	}
	return tracer.StackTrace()
}

type baseStatusError struct {
	status prot.Status
}

func (e *baseStatusError) Error() string {
	return fmt.Sprintf("engine status %s (0x%08x)", e.Status(), uint32(e.Status()))
}
func (e *baseStatusError) Status() prot.Status {
	return e.status
}

type wrappingStatusError struct {
	cause  error
	status prot.Status
}

func (e *wrappingStatusError) Error() string {
	return fmt.Sprintf("engine status %s (0x%08x)", e.Status(), uint32(e.Status())) + ": " + e.Cause().Error()
}
func (e *wrappingStatusError) Status() prot.Status {
	return e.status
}
func (e *wrappingStatusError) Cause() error {
	return e.cause
}
func (e *wrappingStatusError) Unwrap() error {
	return e.cause
}
func (e *wrappingStatusError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "%+v\n", e.Cause())
			return
		}
		fallthrough
	case 's':
		io.WriteString(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}
func (e *wrappingStatusError) StackTrace() errors.StackTrace {
	serr, ok := e.Cause().(StackTracer)
	if !ok {
		return nil
	}
	return serr.StackTrace()
}

// NewStatusError produces a new error carrying the given status.
func NewStatusError(status prot.Status) error {
	return &baseStatusError{status: status}
}

// WrapStatus produces a new error carrying the given status and wrapping the
// given error.
func WrapStatus(e error, status prot.Status) error {
	return &wrappingStatusError{
		cause:  e,
		status: status,
	}
}

// GetStatus iterates through the error's cause stack (similarly to how the
// Cause function in github.com/pkg/errors operates). At the first error it
// encounters which implements the Status() method, it returns that error's
// status. This allows errors higher up in the cause stack to shadow the
// statuses of errors lower down.
func GetStatus(e error) (prot.Status, error) {
	type statuser interface {
		Status() prot.Status
	}
	type causer interface {
		Cause() error
	}
	cause := e
	for cause != nil {
		serr, ok := cause.(statuser)
		if ok {
			return serr.Status(), nil
		}
		cerr, ok := cause.(causer)
		if !ok {
			break
		}
		cause = cerr.Cause()
	}
	return prot.StatusDispatchFailed, errors.Errorf("no status found in cause stack for error %s", e)
}
