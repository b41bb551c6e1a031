package ipcomm

import (
	"errors"
	"fmt"
)

var (
	// ErrReceiveTimeout indicates no byte arrived within the configured
	// read deadline. It is terminal for the current call; the retry
	// counter is never charged for it (see Session.Execute).
	ErrReceiveTimeout = errors.New("ipcomm: receive timeout")
	// ErrExceededRetries indicates MAX_RETRY_COUNT successive local
	// checksum failures occurred without a good reply.
	ErrExceededRetries = errors.New("ipcomm: exceeded retry count")
	// ErrInvalidConfig signals a malformed Config.
	ErrInvalidConfig = errors.New("ipcomm: invalid configuration")
)

// ChecksumMismatch is returned when a decoded frame's trailing checksum
// does not match the XOR-8 of its interior.
type ChecksumMismatch struct {
	Expected byte
	Received byte
}

func (e *ChecksumMismatch) Error() string {
	return fmt.Sprintf("ipcomm: checksum mismatch: expected %02X, received %02X", e.Expected, e.Received)
}

// IDMismatch is returned when a decoded response's address does not
// match the address of the request that solicited it.
type IDMismatch struct {
	Expected Address
	Got      Address
}

func (e *IDMismatch) Error() string {
	return fmt.Sprintf("ipcomm: id mismatch: expected %X, got %X", byte(e.Expected), byte(e.Got))
}

// NotFoundError is returned by AxisRegistry lookups that miss.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("ipcomm: axis not found: %s", e.Key)
}
