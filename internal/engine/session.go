package engine

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/microrpc/hostlink/internal/hosterr"
	"github.com/microrpc/hostlink/internal/logfields"
	"github.com/microrpc/hostlink/internal/oc"
	"github.com/microrpc/hostlink/internal/prot"
)

const (
	hdrOffType = 0
	hdrOffSize = 4
	hdrOffID   = 8
)

// Session is the reference engine: an incremental frame parser over the
// inbound byte stream with request/response dispatch through a Mux. It is
// push-driven; bytes arrive through Step in whatever batch sizes the pump
// reads them, and responses are flushed through the write callback as soon
// as they are produced.
type Session struct {
	mux   *Mux
	write WriteFunc
	log   *logrus.Entry

	// buf accumulates inbound bytes until at least one frame is complete.
	buf []byte
}

var _ Engine = &Session{}

// NewSession returns a session engine dispatching to mux and flushing
// responses through write.
func NewSession(mux *Mux, write WriteFunc, log *logrus.Entry) *Session {
	return &Session{
		mux:   mux,
		write: write,
		log:   log,
	}
}

// Step consumes all bytes remaining in the cursor and dispatches any frames
// they complete. It returns StatusOK when the session is ready for more
// bytes, StatusShutdown when a handler requested clean termination, and an
// error status otherwise.
func (s *Session) Step(c *prot.Cursor) prot.Status {
	b := c.Bytes()
	s.buf = append(s.buf, b...)
	c.Advance(len(b))

	for {
		if len(s.buf) < prot.MessageHeaderSize {
			return prot.StatusOK
		}
		size := binary.LittleEndian.Uint32(s.buf[hdrOffSize:])
		if size < prot.MessageHeaderSize || size > prot.MaxMessageSize {
			s.log.WithField(logfields.Bytes, size).Error("engine: invalid frame size")
			return prot.StatusFrameTooLarge
		}
		if uint32(len(s.buf)) < size {
			return prot.StatusOK
		}
		header := &prot.MessageHeader{
			Type: prot.MessageIdentifier(binary.LittleEndian.Uint32(s.buf[hdrOffType:])),
			Size: size,
			ID:   prot.SequenceID(binary.LittleEndian.Uint64(s.buf[hdrOffID:])),
		}
		message := make([]byte, size-prot.MessageHeaderSize)
		copy(message, s.buf[prot.MessageHeaderSize:size])
		s.buf = s.buf[size:]

		if status := s.dispatch(header, message); status != prot.StatusOK {
			return status
		}
	}
}

// dispatch serves one complete frame and writes its response. Handler errors
// are conveyed to the peer as error responses rather than terminating the
// link; only shutdown requests and outbound channel failures produce a
// non-OK status.
func (s *Session) dispatch(header *prot.MessageHeader, message []byte) (status prot.Status) {
	_, span := oc.StartSpan(context.Background(), "engine::dispatch")
	defer span.End()

	s.log.WithFields(logrus.Fields{
		"payload":           string(message),
		"type":              fmt.Sprintf("0x%08x", uint32(header.Type)),
		logfields.MessageID: uint64(header.ID),
	}).Trace("engine receive")

	resp, err := s.mux.ServeMsg(&Request{Header: header, Message: message})
	shutdown := errors.Is(err, ErrShutdown)
	if shutdown {
		err = nil
	}
	if resp == nil {
		resp = &prot.ShutdownResponse{MessageResponseBase: &prot.MessageResponseBase{}}
		if !shutdown {
			resp = &unhandledResponse{MessageResponseBase: &prot.MessageResponseBase{}}
		}
	}
	if err != nil {
		setErrorForResponse(resp.Base(), err)
	}

	wstatus := s.writeMessage(prot.GetResponseIdentifier(header.Type), header.ID, resp)
	if wstatus != prot.StatusOK {
		oc.SetSpanStatus(span, hosterr.NewStatusError(wstatus))
		return wstatus
	}
	if shutdown {
		s.log.WithField(logfields.MessageID, uint64(header.ID)).Info("engine: shutdown requested")
		return prot.StatusShutdown
	}
	return prot.StatusOK
}

// unhandledResponse is the payload sent back when a handler failed before
// producing a typed response.
type unhandledResponse struct {
	*prot.MessageResponseBase
}

// writeMessage frames and flushes one outbound message. A short write or a
// channel error is fatal to the link; the engine's state past that point is
// not safely resumable.
func (s *Session) writeMessage(typ prot.MessageIdentifier, id prot.SequenceID, resp interface{}) prot.Status {
	body, err := json.Marshal(resp)
	if err != nil {
		s.log.WithError(err).Error("engine: failed to marshal response")
		return prot.StatusDispatchFailed
	}
	msg := make([]byte, prot.MessageHeaderSize+len(body))
	binary.LittleEndian.PutUint32(msg[hdrOffType:], uint32(typ))
	binary.LittleEndian.PutUint32(msg[hdrOffSize:], uint32(len(msg)))
	binary.LittleEndian.PutUint64(msg[hdrOffID:], uint64(id))
	copy(msg[prot.MessageHeaderSize:], body)

	s.log.WithFields(logrus.Fields{
		"payload":           string(body),
		"type":              fmt.Sprintf("0x%08x", uint32(typ)),
		logfields.MessageID: uint64(id),
	}).Trace("engine send")

	n, err := s.write(msg)
	if err != nil {
		s.log.WithError(err).Error("engine: outbound write failed")
		return prot.StatusWriteFailed
	}
	if n != len(msg) {
		s.log.WithFields(logrus.Fields{
			logfields.Bytes: n,
			"expected":      len(msg),
		}).Error("engine: outbound short write")
		return prot.StatusShortWrite
	}
	return prot.StatusOK
}

// setErrorForResponse modifies the passed-in MessageResponseBase to contain
// information pertaining to the given error.
func setErrorForResponse(response *prot.MessageResponseBase, errForResponse error) {
	errorMessage := errForResponse.Error()
	stackString := ""
	fileName := ""
	lineNumber := -1
	functionName := ""
	if stack := hosterr.BaseStackTrace(errForResponse); stack != nil {
		bottomFrame := stack[0]
		stackString = fmt.Sprintf("%+v", stack)
		fileName = fmt.Sprintf("%s", bottomFrame)
		lineNumberStr := fmt.Sprintf("%d", bottomFrame)
		var err error
		lineNumber, err = strconv.Atoi(lineNumberStr)
		if err != nil {
			logrus.WithError(err).WithField("line", lineNumberStr).Error("engine: failed to parse line number of error, using -1 instead")
			lineNumber = -1
		}
		functionName = fmt.Sprintf("%n", bottomFrame)
	}
	status, err := hosterr.GetStatus(errForResponse)
	if err != nil {
		// Default to the generic dispatch failure status.
		status = prot.StatusDispatchFailed
	}
	response.Status = uint32(status)
	newRecord := prot.ErrorRecord{
		Status:       uint32(status),
		Message:      errorMessage,
		StackTrace:   stackString,
		ModuleName:   "hostlink",
		FileName:     fileName,
		Line:         uint32(lineNumber),
		FunctionName: functionName,
	}
	response.ErrorRecords = append(response.ErrorRecords, newRecord)
}
