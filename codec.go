package ipcomm

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/datenwolf/ipcomm/transport"
)

const (
	stx byte = 0x02
	etx byte = 0x03
	sep byte = ':'
	// broadcastToken is the literal address byte used for a broadcast frame.
	broadcastToken byte = '@'
)

// Address is a 4-bit IPCOMM bus address, 0..15.
type Address uint8

func (a Address) hex() byte {
	return "0123456789ABCDEF"[a&0xF]
}

func (a Address) String() string {
	return fmt.Sprintf("%X", uint8(a))
}

// parseAddress parses a decimal address string (0..15) as used by
// AxisRegistry.Axis's numeric-key branch.
func parseAddress(s string) (Address, error) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, err
	}
	if v > 15 {
		return 0, fmt.Errorf("ipcomm: address %d out of range 0..15", v)
	}
	return Address(v), nil
}

// Data is the tagged variant of a Response's payload: exactly one of
// RawData (the opaque ASCII reply to any ordinary command) or
// ExtendedData (the decoded 24-bit extended status, present only for
// IS? replies). Modelling it this way - rather than overloading a
// single field - prevents mistaking an undecoded IS? reply for plain
// text.
type Data interface {
	isData()
}

// RawData is the opaque ASCII payload of a non-IS? reply.
type RawData string

func (RawData) isData() {}

// ExtendedData is the decoded extended status of an IS? reply.
type ExtendedData ExtendedStatus

func (ExtendedData) isData() {}

// Response is a single decoded slave-to-host frame.
type Response struct {
	ID     Address
	Status SimpleStatus
	Data   Data
}

// encodeFrame builds a host-to-slave frame. addrToken is either an
// Address's hex digit or broadcastToken.
func encodeFrame(addrToken byte, cmd string) []byte {
	payload := make([]byte, 0, len(cmd)+2)
	payload = append(payload, addrToken)
	payload = append(payload, cmd...)
	payload = append(payload, sep)
	sum := checksum(payload)

	frame := make([]byte, 0, len(payload)+4)
	frame = append(frame, stx)
	frame = append(frame, payload...)
	frame = append(frame, fmt.Sprintf("%02X", sum)...)
	frame = append(frame, etx)
	return frame
}

// decodeFrame parses the interior of a slave-to-host frame (the bytes
// between STX and ETX, exclusive).
func decodeFrame(interior []byte) (Response, error) {
	fields := bytes.Split(interior, []byte{sep})
	if len(fields) != 3 {
		return Response{}, fmt.Errorf("ipcomm: malformed frame: expected 3 fields, got %d", len(fields))
	}
	idStatus, data, hexChecksum := fields[0], fields[1], fields[2]
	if len(idStatus) != 3 {
		return Response{}, fmt.Errorf("ipcomm: malformed frame: id+status field has length %d, want 3", len(idStatus))
	}

	interiorForChecksum := append(append(append([]byte{}, idStatus...), sep), data...)
	interiorForChecksum = append(interiorForChecksum, sep)
	expected := checksum(interiorForChecksum)

	received64, err := strconv.ParseUint(string(bytes.ToUpper(hexChecksum)), 16, 8)
	if err != nil {
		return Response{}, fmt.Errorf("ipcomm: malformed checksum field %q: %w", hexChecksum, err)
	}
	received := byte(received64)
	if expected != received {
		return Response{}, &ChecksumMismatch{Expected: expected, Received: received}
	}

	id, err := strconv.ParseUint(string(idStatus[0:1]), 16, 8)
	if err != nil {
		return Response{}, fmt.Errorf("ipcomm: malformed id digit %q: %w", idStatus[0:1], err)
	}
	status, err := strconv.ParseUint(string(idStatus[1:3]), 16, 8)
	if err != nil {
		return Response{}, fmt.Errorf("ipcomm: malformed status field %q: %w", idStatus[1:3], err)
	}

	return Response{
		ID:     Address(id),
		Status: SimpleStatus(status),
		Data:   RawData(data),
	}, nil
}

// decodeExtendedStatus parses the ASCII base-16 data payload of an IS?
// reply into a 24-bit ExtendedStatus.
func decodeExtendedStatus(data string) (ExtendedStatus, error) {
	v, err := strconv.ParseUint(data, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("ipcomm: malformed extended status %q: %w", data, err)
	}
	return ExtendedStatus(v & 0xFFFFFF), nil
}

// recvFrame drains bytes until STX is seen (discarding anything
// before), then accumulates bytes until ETX, returning the interior.
// Any ReadByte timeout is surfaced as ErrReceiveTimeout.
func recvFrame(port transport.Port) ([]byte, error) {
	for {
		b, err := port.ReadByte()
		if err != nil {
			return nil, translateTimeout(err)
		}
		if b == stx {
			break
		}
	}
	var buf []byte
	for {
		b, err := port.ReadByte()
		if err != nil {
			return nil, translateTimeout(err)
		}
		if b == etx {
			return buf, nil
		}
		buf = append(buf, b)
	}
}

func translateTimeout(err error) error {
	if err == transport.ErrTimeout {
		return ErrReceiveTimeout
	}
	return err
}
