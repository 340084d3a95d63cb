package log

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"

	"github.com/microrpc/hostlink/internal/logfields"
)

func fired(t *testing.T, h *Hook, entry *logrus.Entry) *logrus.Entry {
	t.Helper()
	if err := h.Fire(entry); err != nil {
		t.Fatalf("hook fire failed: %s", err)
	}
	return entry
}

func Test_Hook_FormatsTimeFields(t *testing.T) {
	when := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	e := fired(t, NewHook(), &logrus.Entry{
		Data: logrus.Fields{logfields.StartTime: when},
	})
	s, ok := e.Data[logfields.StartTime].(string)
	if !ok {
		t.Fatalf("time field was not formatted: %T", e.Data[logfields.StartTime])
	}
	if s != when.Format(TimeFormat) {
		t.Errorf("formatted time %q", s)
	}
}

func Test_Hook_DurationAsSeconds(t *testing.T) {
	e := fired(t, NewHook(), &logrus.Entry{
		Data: logrus.Fields{logfields.Duration: 1500 * time.Millisecond},
	})
	f, ok := e.Data[logfields.Duration].(float64)
	if !ok {
		t.Fatalf("duration field was not converted: %T", e.Data[logfields.Duration])
	}
	if f != 1.5 {
		t.Errorf("duration %v seconds, want 1.5", f)
	}
}

func Test_Hook_AddsSpanContext(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	ctx, span := trace.StartSpan(context.Background(), "test", trace.WithSampler(trace.AlwaysSample()))
	defer span.End()

	e := fired(t, NewHook(), &logrus.Entry{
		Logger:  logger,
		Context: ctx,
		Data:    logrus.Fields{},
	})
	if _, ok := e.Data[logfields.TraceID]; !ok {
		t.Error("entry is missing the trace ID field")
	}
	if _, ok := e.Data[logfields.SpanID]; !ok {
		t.Error("entry is missing the span ID field")
	}
}

func Test_Hook_NoContext_NoSpanFields(t *testing.T) {
	e := fired(t, NewHook(), &logrus.Entry{Data: logrus.Fields{}})
	if len(e.Data) != 0 {
		t.Errorf("entry gained fields without a span context: %v", e.Data)
	}
}
