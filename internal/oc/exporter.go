// Package oc bridges opencensus span export into logrus output, so that the
// link's tracing side channel shares the process's one logging sink instead
// of a fixed temporary file.
package oc

import (
	"time"

	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"

	"github.com/microrpc/hostlink/internal/logfields"
)

const spanMessage = "Span"

var _errorCodeKey = logrus.ErrorKey + "Code"

// LogrusExporter is an OpenCensus `trace.Exporter` that exports
// `trace.SpanData` to logrus output.
type LogrusExporter struct{}

var _ trace.Exporter = &LogrusExporter{}

// ExportSpan exports `s` based on the the following rules:
//
// 1. All output will contain `s.Attributes`, `s.SpanKind`, `s.TraceID`,
// `s.SpanID`, and `s.ParentSpanID` for correlation
//
// 2. Any calls to .Annotate will not be supported.
//
// 3. The span itself will be written at `logrus.InfoLevel` unless
// `s.Status.Code != 0` in which case it will be written at `logrus.ErrorLevel`
// providing `s.Status.Message` as the error value.
func (le *LogrusExporter) ExportSpan(s *trace.SpanData) {
	entry := logrus.WithFields(logrus.Fields(s.Attributes))
	data := make(logrus.Fields, len(entry.Data)+9)
	for k, v := range entry.Data {
		data[k] = v
	}
	data[logfields.Name] = s.Name
	data[logfields.TraceID] = s.TraceID.String()
	data[logfields.SpanID] = s.SpanID.String()
	data[logfields.ParentSpanID] = s.ParentSpanID.String()
	data[logfields.StartTime] = s.StartTime.Format(time.RFC3339Nano)
	data[logfields.EndTime] = s.EndTime.Format(time.RFC3339Nano)
	data[logfields.Duration] = s.EndTime.Sub(s.StartTime).String()

	level := logrus.InfoLevel
	if s.Status.Code != 0 {
		level = logrus.ErrorLevel
		data[logrus.ErrorKey] = s.Status.Message

		if _, ok := data[_errorCodeKey]; !ok {
			data[_errorCodeKey] = s.Status.Code
		}
	}

	entry.Data = data
	entry.Time = s.StartTime
	entry.Log(level, spanMessage)
}
