package transport

import (
	"io"
	"log"
	"net"
	"net/url"
	"sync"
	"time"
)

// streamPort adapts an io.ReadWriteCloser (typically a net.Conn) into a
// Port. It backs the "virtual-port URL" case named by the driver's
// external interface: a bare TCP dial standing in for a real tty, e.g.
// for a simulated device or a serial-to-network bridge. A single
// background goroutine reads bytes off the connection into a channel;
// this is the single-reader case (the driver has exactly one
// outstanding request at a time, so there is no need to fan a byte out
// to more than one waiting reader).
type streamPort struct {
	mu      sync.Mutex
	conn    io.ReadWriteCloser
	timeout time.Duration

	bytes chan byte
	errs  chan error
	once  sync.Once
}

// DialURL opens a stream-based Port for a virtual-port URL such as
// "tcp://127.0.0.1:5555". Only the tcp scheme is supported; real
// devices should use OpenSerial instead.
func DialURL(rawURL string, timeout time.Duration) (Port, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	conn, err := net.Dial(u.Scheme, u.Host)
	if err != nil {
		log.Println("ipcomm: connection failed:", err)
		return nil, err
	}
	return NewStreamPort(conn, timeout), nil
}

// NewStreamPort wraps an already-open io.ReadWriteCloser as a Port.
func NewStreamPort(conn io.ReadWriteCloser, timeout time.Duration) Port {
	return &streamPort{conn: conn, timeout: timeout, bytes: make(chan byte), errs: make(chan error, 1)}
}

func (p *streamPort) startReader() {
	p.once.Do(func() {
		go func() {
			buf := make([]byte, 1)
			for {
				n, err := p.conn.Read(buf)
				if n > 0 {
					p.bytes <- buf[0]
				}
				if err != nil {
					p.errs <- err
					return
				}
			}
		}()
	})
}

func (p *streamPort) WriteAll(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for len(data) > 0 {
		n, err := p.conn.Write(data)
		if err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

func (p *streamPort) Flush() error {
	return nil
}

func (p *streamPort) ReadByte() (byte, error) {
	p.startReader()
	select {
	case b := <-p.bytes:
		return b, nil
	case err := <-p.errs:
		return 0, err
	case <-time.After(p.timeout):
		return 0, ErrTimeout
	}
}

func (p *streamPort) FlushInput() error {
	for {
		select {
		case <-p.bytes:
		default:
			return nil
		}
	}
}

func (p *streamPort) SetReadTimeout(d time.Duration) (old time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	old = p.timeout
	p.timeout = d
	return old
}

func (p *streamPort) Close() error {
	return p.conn.Close()
}
