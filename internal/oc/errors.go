package oc

import (
	"context"
	"errors"
	"io"

	"go.opencensus.io/trace"
)

func toStatusCode(err error) int32 {
	switch {
	case checkErrors(err, context.Canceled):
		return trace.StatusCodeCancelled
	case checkErrors(err, context.DeadlineExceeded):
		return trace.StatusCodeDeadlineExceeded
	case checkErrors(err, io.EOF, io.ErrUnexpectedEOF):
		return trace.StatusCodeOutOfRange
	default:
		return trace.StatusCodeUnknown
	}
}

func checkErrors(err error, errs ...error) bool {
	for _, e := range errs {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}
