// Package transport defines the byte-stream endpoints connecting the host
// process to its link peer, and implementations over a named pipe, a file
// descriptor, and a vsock socket.
package transport

import "io"

// ByteSource is the inbound side of the link: an ordered byte stream read at
// byte granularity. ReadByte blocks until one byte is available. It returns
// io.EOF when the peer closed the stream with no data pending, which the
// pump treats as fatal since the link protocol has no graceful half-close.
type ByteSource interface {
	io.ByteReader
	io.Closer
}
