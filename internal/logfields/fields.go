package logfields

const (
	// Identifiers

	Name      = "name"
	Operation = "operation"
	MessageID = "message-id"
	Module    = "module"

	// networking and IO

	Bytes  = "bytes"
	File   = "file"
	Path   = "path"
	Pipe   = "pipe"
	Status = "status"

	// Common Misc

	Attempt = "attemptNo"
	JSON    = "json"

	// Status

	ExitCode = "exitCode"

	// Time

	Duration  = "duration"
	EndTime   = "endTime"
	StartTime = "startTime"
	Timeout   = "timeout"

	// logging and tracing

	TraceID      = "traceID"
	SpanID       = "spanID"
	ParentSpanID = "parentSpanID"
)
