package transport

import "io"

// MockSource is a scripted implementation of ByteSource for tests. It hands
// out Data one byte at a time, then returns Err (io.EOF when unset).
type MockSource struct {
	Data []byte
	Err  error

	// Reads counts ReadByte calls, successful or not.
	Reads int

	pos    int
	closed bool
}

var _ ByteSource = &MockSource{}

// ReadByte returns the next scripted byte.
func (s *MockSource) ReadByte() (byte, error) {
	s.Reads++
	if s.pos >= len(s.Data) {
		if s.Err != nil {
			return 0, s.Err
		}
		return 0, io.EOF
	}
	b := s.Data[s.pos]
	s.pos++
	return b, nil
}

// Close marks the source as closed.
func (s *MockSource) Close() error {
	s.closed = true
	return nil
}

// Closed reports whether Close was called.
func (s *MockSource) Closed() bool {
	return s.closed
}
