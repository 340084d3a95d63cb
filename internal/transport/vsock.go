//go:build linux

package transport

import (
	"net"
	"time"

	"github.com/linuxkit/virtsock/pkg/vsock"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/microrpc/hostlink/internal/logfields"
)

const vmaddrCidHost = 2

// VsockSource reads the inbound channel from a vsock socket, for peers that
// live on the other side of a hypervisor boundary rather than a local pipe.
type VsockSource struct {
	// Port is the vsock port of the peer.
	Port uint32

	conn net.Conn
	buf  [1]byte
}

var _ ByteSource = &VsockSource{}

// ReadByte blocks until one byte arrives on the socket, dialing it first if
// needed.
func (s *VsockSource) ReadByte() (byte, error) {
	if s.conn == nil {
		if err := s.dial(); err != nil {
			return 0, err
		}
	}
	if _, err := s.conn.Read(s.buf[:]); err != nil {
		return 0, err
	}
	return s.buf[0], nil
}

// Close closes the socket, if connected.
func (s *VsockSource) Close() error {
	if s.conn == nil {
		return nil
	}
	conn := s.conn
	s.conn = nil
	return conn.Close()
}

// dial connects to the peer. vsock.Dial can report a spurious connection
// timeout while the peer is still coming up, so a bounded number of attempts
// are made before giving up.
func (s *VsockSource) dial() error {
	for i := 0; i < 10; i++ {
		conn, err := vsock.Dial(vmaddrCidHost, s.Port)
		if err == nil {
			logrus.WithField(logfields.Path, conn.RemoteAddr().String()).Debug("transport: vsock connected")
			s.conn = conn
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return errors.Errorf("failed connecting vsock port %d: can't connect after 10 attempts", s.Port)
}
