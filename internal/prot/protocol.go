// Package prot defines the structures used in the communication between the
// link peer and the hostlink engine. The framing here is deliberately small:
// a fixed little-endian header followed by a JSON payload.
package prot

//////////// Code for the Message Header ////////////
// Message Identifiers as present in the message header are subdivided into
// various pieces of information.
//
// +---+----+-----+----+
// | T | CC | III | VV |
// +---+----+-----+----+
//
// T   - 4 Bits    Type
// CC  - 8 Bits    Category
// III - 12 Bits   Message Id
// VV  - 8 Bits    Version

const (
	messageTypeMask = 0xF0000000
)

// MessageType is the type of the message.
type MessageType uint32

const (
	MtNone         = 0
	MtRequest      = 0x10000000
	MtResponse     = 0x20000000
	MtNotification = 0x30000000
)

// MessageCategory allows splitting the identifier namespace to easily route
// similar messages for common processing.
type MessageCategory uint32

const (
	McNone = 0
	McCore = 0x00100000
	McExec = 0x00200000
)

// MessageIdentifier describes the Type field of a MessageHeader struct.
type MessageIdentifier uint32

const (
	MiNone = 0

	// Core requests.
	CorePingV1     = 0x10100101
	CoreStatusV1   = 0x10100201
	CoreShutdownV1 = 0x10100301

	// Core responses.
	CoreResponsePingV1     = 0x20100101
	CoreResponseStatusV1   = 0x20100201
	CoreResponseShutdownV1 = 0x20100301

	// Exec requests.
	ExecRunV1 = 0x10200101

	// Exec responses.
	ExecResponseRunV1 = 0x20200101
)

// GetResponseIdentifier returns the response version of the given request
// identifier. So, for example, an input of CorePingV1 would result in an
// output of CoreResponsePingV1.
func GetResponseIdentifier(identifier MessageIdentifier) MessageIdentifier {
	return MessageIdentifier(MtResponse | (uint32(identifier) & ^uint32(messageTypeMask)))
}

// SequenceID is used to correlate requests and responses.
type SequenceID uint64

// MessageHeader is the common header present in all messages on the link.
type MessageHeader struct {
	Type MessageIdentifier
	Size uint32
	ID   SequenceID
}

// MessageHeaderSize is the size in bytes of the MessageHeader struct.
const MessageHeaderSize = 16

// MaxMessageSize is the maximum size of a message on the link, header
// included. Nothing enforces a bound on the peer's side so some maximum must
// be set to avoid unbounded allocations.
const MaxMessageSize = 0x10000

// ErrorRecord represents a single error passed back to the peer as part of a
// response message.
type ErrorRecord struct {
	Status       uint32
	Message      string
	StackTrace   string `json:",omitempty"`
	ModuleName   string
	FileName     string
	Line         uint32
	FunctionName string `json:",omitempty"`
}

// MessageResponseBase is the base fields of all response messages.
type MessageResponseBase struct {
	// Status is 0 on success and an engine status value on failure.
	Status       uint32
	ErrorRecords []ErrorRecord `json:",omitempty"`
}

// Base returns the response base, allowing responses to be generically
// composed and inspected.
func (b *MessageResponseBase) Base() *MessageResponseBase {
	return b
}

// PingRequest asks the core module to echo a payload back.
type PingRequest struct {
	Payload string
}

// PingResponse is the response to a PingRequest.
type PingResponse struct {
	*MessageResponseBase
	Payload string
}

// StatusRequest asks the core module for link liveness information.
type StatusRequest struct {
}

// StatusResponse reports link liveness information.
type StatusResponse struct {
	*MessageResponseBase
	Version  string
	UptimeNS int64
}

// ShutdownRequest asks the engine to terminate the host process cleanly.
type ShutdownRequest struct {
}

// ShutdownResponse is the response to a ShutdownRequest. It is written to the
// outbound channel before the engine reports the shutdown status.
type ShutdownResponse struct {
	*MessageResponseBase
}

// ExecRunRequest asks the exec module to run a host process.
type ExecRunRequest struct {
	// CommandLine is the full command line to run, split with shell
	// quoting rules.
	CommandLine string
	// TimeoutNS bounds the process runtime. Zero means no timeout.
	TimeoutNS int64
}

// ExecRunResponse reports the result of an ExecRunRequest.
type ExecRunResponse struct {
	*MessageResponseBase
	ExitCode int
	Output   string
}
