package ipcomm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksum(t *testing.T) {
	assert.Equal(t, byte(0), checksum(nil))
	assert.Equal(t, byte('A')^byte('B'), checksum([]byte("AB")))
}

func TestEncodeDecodeFrameRoundTrip(t *testing.T) {
	frame := encodeFrame('3', "GA100")
	require.Equal(t, byte(stx), frame[0])
	require.Equal(t, byte(etx), frame[len(frame)-1])

	// A host-to-slave frame doesn't decode as a reply (no status field),
	// so round-trip it through a synthetic slave reply instead, reusing
	// the same checksum machinery decodeFrame checks.
	interior := []byte("305:GA100:")
	sum := checksum(interior)
	full := append(append([]byte{}, interior...), []byte{"0123456789ABCDEF"[sum>>4], "0123456789ABCDEF"[sum&0xF]}...)

	resp, err := decodeFrame(full)
	require.NoError(t, err)
	assert.Equal(t, Address(3), resp.ID)
	assert.Equal(t, SimpleStatus(0x05), resp.Status)
	assert.Equal(t, RawData("GA100"), resp.Data)
}

func TestDecodeFrameChecksumMismatch(t *testing.T) {
	_, err := decodeFrame([]byte("305:GA100:FF"))
	var mismatch *ChecksumMismatch
	require.ErrorAs(t, err, &mismatch)
}

func TestDecodeFrameMalformed(t *testing.T) {
	_, err := decodeFrame([]byte("no separators here"))
	require.Error(t, err)
}

func TestDecodeExtendedStatus(t *testing.T) {
	ext, err := decodeExtendedStatus("800000")
	require.NoError(t, err)
	assert.True(t, ext.ChecksumError())
}

func TestRecvFrameSkipsNoiseBeforeSTX(t *testing.T) {
	port := newMemoryPort()
	port.feedHost(append([]byte{0xFF, 0xFE, stx}, append([]byte("hello"), etx)...))
	frame, err := recvFrame(port)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), frame)
}

func TestRecvFrameTimeout(t *testing.T) {
	port := newMemoryPort()
	port.SetReadTimeout(10 * time.Millisecond)
	_, err := recvFrame(port)
	assert.Equal(t, ErrReceiveTimeout, err)
}

func TestAddressHexAndString(t *testing.T) {
	assert.Equal(t, byte('A'), Address(10).hex())
	assert.Equal(t, "A", Address(10).String())
}

func TestParseAddress(t *testing.T) {
	a, err := parseAddress("9")
	require.NoError(t, err)
	assert.Equal(t, Address(9), a)

	_, err = parseAddress("99")
	assert.Error(t, err)

	_, err = parseAddress("not-a-number")
	assert.Error(t, err)
}
