package ipcomm

import "time"

// DefaultBaud and the default timeouts: 38400 baud, 500ms during
// normal operation, 50ms during enumeration.
const (
	DefaultBaud          = 38400
	DefaultTimeout       = 500 * time.Millisecond
	EnumerationTimeout   = 50 * time.Millisecond
	DefaultMaxRetryCount = 5
)

// Config configures a Session: one struct, since this driver has
// exactly one transport kind (a serial bus).
type Config struct {
	// URL is a port name ("/dev/ttyUSB0", "COM3") or a virtual-port URL
	// ("tcp://host:port"); see transport.OpenSerial / transport.DialURL.
	URL string
	// Baud is the serial baud rate; zero selects DefaultBaud.
	Baud int
	// Timeout bounds each byte read during normal operation; zero
	// selects DefaultTimeout.
	Timeout time.Duration
	// MaxRetryCount bounds local-checksum-failure retransmits; zero
	// selects DefaultMaxRetryCount.
	MaxRetryCount int
}

// Verify validates Config.
func (c *Config) Verify() error {
	if c.URL == "" {
		return ErrInvalidConfig
	}
	return nil
}

func (c *Config) baud() int {
	if c.Baud == 0 {
		return DefaultBaud
	}
	return c.Baud
}

func (c *Config) timeout() time.Duration {
	if c.Timeout == 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

func (c *Config) maxRetryCount() int {
	if c.MaxRetryCount == 0 {
		return DefaultMaxRetryCount
	}
	return c.MaxRetryCount
}
