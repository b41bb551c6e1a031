//go:build linux

package transport

import (
	"errors"
	"sync"
	"time"

	serial "github.com/daedaluz/goserial"
)

// bauds maps the common rates to the termios CBAUD constant; anything
// else falls back to Termios2.SetCustomSpeed, which goserial exposes
// for arbitrary input/output speeds.
var bauds = map[int]serial.CFlag{
	50: serial.B50, 75: serial.B75, 110: serial.B110, 134: serial.B134,
	150: serial.B150, 200: serial.B200, 300: serial.B300, 600: serial.B600,
	1200: serial.B1200, 1800: serial.B1800, 2400: serial.B2400, 4800: serial.B4800,
	9600: serial.B9600, 19200: serial.B19200, 38400: serial.B38400,
}

// serialPort backs a real tty: open, switch to raw mode, set the
// requested baud rate and the bus's fixed framing (8-N-1, no RTS/CTS,
// no DSR/DTR, no XON/XOFF), and drive reads through the library's own read-deadline
// support rather than re-implementing deadline plumbing.
type serialPort struct {
	mu      sync.Mutex
	port    *serial.Port
	timeout time.Duration
}

// OpenSerial opens name (e.g. "/dev/ttyUSB0") at baud with the bus's
// fixed 8-N-1, no-flow-control framing, and installs timeout as the
// initial read deadline.
func OpenSerial(name string, baud int, timeout time.Duration) (Port, error) {
	opts := serial.NewOptions().SetReadTimeout(timeout)
	p, err := serial.Open(name, opts)
	if err != nil {
		return nil, err
	}
	if err := p.MakeRaw(); err != nil {
		p.Close()
		return nil, err
	}
	attrs, err := p.GetAttr2()
	if err != nil {
		p.Close()
		return nil, err
	}
	attrs.MakeRaw()
	attrs.Cflag |= serial.CLOCAL | serial.CREAD
	attrs.Cflag &^= serial.CRTSCTS
	attrs.Cflag &^= serial.CSTOPB
	attrs.Cflag &^= serial.PARENB
	if cflag, ok := bauds[baud]; ok {
		attrs.SetSpeed(cflag)
	} else {
		attrs.SetCustomSpeed(uint32(baud))
	}
	if err := p.SetAttr2(serial.TCSANOW, attrs); err != nil {
		p.Close()
		return nil, err
	}
	return &serialPort{port: p, timeout: timeout}, nil
}

func (p *serialPort) WriteAll(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for len(data) > 0 {
		n, err := p.port.Write(data)
		if err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

func (p *serialPort) Flush() error {
	return p.port.Drain()
}

func (p *serialPort) ReadByte() (byte, error) {
	var buf [1]byte
	n, err := p.port.Read(buf[:])
	switch {
	case errors.Is(err, serial.ErrClosed):
		return 0, err
	case err != nil, n == 0:
		// poll.WaitInput's deadline expiry surfaces as a non-nil read
		// error (or a zero-length read); either way no byte arrived
		// within the deadline, so it is a read timeout from the
		// driver's point of view.
		return 0, ErrTimeout
	}
	return buf[0], nil
}

func (p *serialPort) FlushInput() error {
	return p.port.Flush(serial.TCIFLUSH)
}

func (p *serialPort) SetReadTimeout(d time.Duration) (old time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	old = p.timeout
	p.timeout = d
	p.port.SetReadTimeout(d)
	return old
}

func (p *serialPort) Close() error {
	return p.port.Close()
}
