package transport

import "os"

// FileSource reads the inbound channel from an already-open file descriptor,
// typically stdin when the peer spawned this process directly.
type FileSource struct {
	// F is the open descriptor. It is not closed by Close when it is one of
	// the process's standard streams.
	F *os.File

	buf [1]byte
}

var _ ByteSource = &FileSource{}

// ReadByte blocks until one byte is available on the descriptor.
func (s *FileSource) ReadByte() (byte, error) {
	if _, err := s.F.Read(s.buf[:]); err != nil {
		return 0, err
	}
	return s.buf[0], nil
}

// Close closes the descriptor unless it is stdin, stdout, or stderr.
func (s *FileSource) Close() error {
	switch s.F {
	case os.Stdin, os.Stdout, os.Stderr:
		return nil
	}
	return s.F.Close()
}
