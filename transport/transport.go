// Package transport defines the byte-level contract the ipcomm Session
// uses to talk to a Phytron IPCOMM bus, and provides two concrete
// backings for it: a real tty (serial_linux.go, built on
// github.com/daedaluz/goserial) and a plain stream socket for
// virtual-port URLs (net_conn.go).
package transport

import (
	"errors"
	"time"
)

// ErrTimeout is returned by Port.ReadByte when no byte arrives within
// the configured read deadline.
var ErrTimeout = errors.New("transport: read timeout")

// Port is the external collaborator the ipcomm package builds its
// framing and session logic on top of. It purposefully knows nothing
// about IPCOMM frames: flow-control configuration, byte-level I/O and
// input-buffer flushing are the only responsibilities it has.
type Port interface {
	// WriteAll writes every byte of p, blocking until done or an error occurs.
	WriteAll(p []byte) error
	// Flush blocks until all written bytes have been transmitted.
	Flush() error
	// ReadByte returns the next byte, or ErrTimeout if none arrives
	// within the current read deadline.
	ReadByte() (byte, error)
	// FlushInput discards any bytes currently buffered for reading.
	FlushInput() error
	// SetReadTimeout installs a new read deadline for subsequent
	// ReadByte calls and returns the previous one.
	SetReadTimeout(d time.Duration) (old time.Duration)
	// Close releases the underlying resource.
	Close() error
}
