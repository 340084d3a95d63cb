package oc

import (
	"context"

	"go.opencensus.io/trace"
)

// DefaultSampler samples every span. Span export is off unless the logrus
// exporter has been registered, so always sampling is cheap in the default
// configuration.
var DefaultSampler = trace.AlwaysSample()

// SetSpanStatus sets `span.SetStatus` to the proper status depending on `err`.
// If `err` is `nil` assumes `trace.StatusCodeOk`.
func SetSpanStatus(span *trace.Span, err error) {
	status := trace.Status{}
	if err != nil {
		status.Code = toStatusCode(err)
		status.Message = err.Error()
	}
	span.SetStatus(status)
}

// StartSpan wraps go.opencensus.io/trace.StartSpan.
func StartSpan(ctx context.Context, name string, o ...trace.StartOption) (context.Context, *trace.Span) {
	return trace.StartSpan(ctx, name, o...)
}
