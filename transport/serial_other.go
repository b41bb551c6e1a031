//go:build !linux

package transport

import (
	"errors"
	"time"
)

// OpenSerial is only implemented on linux (goserial drives the tty via
// Linux termios ioctls). On other platforms, use DialURL against a
// virtual-port bridge instead.
func OpenSerial(name string, baud int, timeout time.Duration) (Port, error) {
	return nil, errors.New("transport: OpenSerial is only supported on linux")
}
