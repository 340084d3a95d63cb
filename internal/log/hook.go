// Package log carries logrus helpers shared by the daemon and its tools.
package log

import (
	"time"

	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"

	"github.com/microrpc/hostlink/internal/logfields"
)

// TimeFormat is the format used for time fields in log output.
const TimeFormat = time.RFC3339Nano

// Hook normalizes a logrus.Entry before it is formatted.
type Hook struct {
	// TimeFormat is passed to time.Time.Format for time fields. An empty
	// string disables formatting.
	TimeFormat string

	// DurationAsSeconds renders time.Duration fields as float seconds
	// instead of Go's default duration string.
	DurationAsSeconds bool

	// AddSpanContext adds trace and span ID fields to the entry from the
	// span context stored in logrus.Entry.Context, if one exists.
	AddSpanContext bool
}

var _ logrus.Hook = &Hook{}

// NewHook returns a hook with the defaults used by the daemon.
func NewHook() *Hook {
	return &Hook{
		TimeFormat:        TimeFormat,
		DurationAsSeconds: true,
		AddSpanContext:    true,
	}
}

func (h *Hook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *Hook) Fire(e *logrus.Entry) error {
	h.encode(e)
	h.addSpanContext(e)
	return nil
}

func (h *Hook) encode(e *logrus.Entry) {
	for k, v := range e.Data {
		switch vv := v.(type) {
		case time.Time:
			if h.TimeFormat != "" {
				e.Data[k] = vv.Format(h.TimeFormat)
			}
		case time.Duration:
			if h.DurationAsSeconds {
				e.Data[k] = vv.Seconds()
			}
		}
	}
}

func (h *Hook) addSpanContext(e *logrus.Entry) {
	if !h.AddSpanContext || e.Context == nil {
		return
	}
	span := trace.FromContext(e.Context)
	if span == nil {
		return
	}
	sctx := span.SpanContext()
	e.Data[logfields.TraceID] = sctx.TraceID.String()
	e.Data[logfields.SpanID] = sctx.SpanID.String()
}
