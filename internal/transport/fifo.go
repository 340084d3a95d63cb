package transport

import (
	"fmt"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/microrpc/hostlink/internal/logfields"
)

// FifoSource reads the inbound channel from a named pipe. By default the
// pipe is opened once and the handle is held for the lifetime of the source;
// a pipe drains sequentially either way, so the handle can outlive individual
// peer writers. ReopenPerRead reopens the pipe around every single-byte read
// for peers that delete and recreate the pipe between messages.
type FifoSource struct {
	// Path is the filesystem path of the fifo.
	Path string
	// ReopenPerRead closes and reopens Path around every read.
	ReopenPerRead bool
	// OpenTimeout bounds how long the source waits for the fifo to appear
	// before the first read. Zero means wait forever.
	OpenTimeout time.Duration

	f   *os.File
	buf [1]byte
}

var _ ByteSource = &FifoSource{}

// ReadByte blocks until one byte is available on the pipe. A zero-length
// read (peer closed with nothing pending) surfaces as io.EOF.
func (s *FifoSource) ReadByte() (byte, error) {
	if s.f == nil {
		if err := s.open(); err != nil {
			return 0, err
		}
	}
	if s.ReopenPerRead {
		defer func() {
			s.f.Close()
			s.f = nil
		}()
	}
	if _, err := s.f.Read(s.buf[:]); err != nil {
		return 0, err
	}
	return s.buf[0], nil
}

// Close releases the pipe handle, if held.
func (s *FifoSource) Close() error {
	if s.f == nil {
		return nil
	}
	f := s.f
	s.f = nil
	return f.Close()
}

// open waits for the fifo to exist and then opens it read-only. The open
// itself blocks until a peer opens the write side, which is the pump's
// normal idle state. The existence wait is retried with backoff so a peer
// that creates the pipe late is tolerated at startup.
func (s *FifoSource) open() error {
	bo := &backoff.ExponentialBackOff{
		InitialInterval:     time.Millisecond * 10,
		RandomizationFactor: backoff.DefaultRandomizationFactor,
		Multiplier:          backoff.DefaultMultiplier,
		MaxInterval:         time.Second,
		// `backoff.ExponentialBackOff` treats a 0 timeout as infinite.
		MaxElapsedTime: s.OpenTimeout,
		Stop:           backoff.Stop,
		Clock:          backoff.SystemClock,
	}
	bo.Reset()
	attempt := 0
	for {
		attempt++
		fi, err := os.Stat(s.Path)
		if err == nil {
			if fi.Mode()&os.ModeNamedPipe == 0 {
				return errors.Errorf("inbound path %s is not a fifo", s.Path)
			}
			break
		}
		if !os.IsNotExist(err) {
			return errors.Wrapf(err, "failed to stat fifo %s", s.Path)
		}
		wait := bo.NextBackOff()
		if wait == backoff.Stop {
			return errors.Errorf("reached timeout waiting for fifo %s to appear", s.Path)
		}
		logrus.WithFields(logrus.Fields{
			logfields.Pipe:    s.Path,
			logfields.Attempt: attempt,
		}).Debug("transport: waiting for inbound fifo")
		time.Sleep(wait)
	}

	fd, err := unix.Open(s.Path, unix.O_RDONLY, 0)
	if err != nil {
		return errors.Wrapf(err, "failed to open fifo %s", s.Path)
	}
	s.f = os.NewFile(uintptr(fd), s.Path)
	if s.f == nil {
		return fmt.Errorf("invalid fifo descriptor %d for %s", fd, s.Path)
	}
	return nil
}
