package ipcomm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimpleStatusAccessors(t *testing.T) {
	s := StatusRunning | StatusInitiatorPlus
	assert.True(t, s.Running())
	assert.True(t, s.InitiatorPlus())
	assert.False(t, s.AnyError())
	assert.False(t, s.Coldboot())
}

func TestSimpleStatusString(t *testing.T) {
	assert.Equal(t, "{}", SimpleStatus(0).String())
	assert.Equal(t, "{Running}", StatusRunning.String())
	assert.Equal(t, "{Any Error|Running}", (StatusAnyError | StatusRunning).String())
}

func TestExtendedStatusAccessors(t *testing.T) {
	e := ExtBusy | ExtHighTemperature
	assert.True(t, e.Busy())
	assert.True(t, e.HighTemperature())
	assert.False(t, e.ChecksumError())
}

func TestExtendedStatusString(t *testing.T) {
	assert.Equal(t, "{}", ExtendedStatus(0).String())
	assert.Equal(t, "{Checksum Error}", ExtChecksumError.String())
}

func TestExtendedStatusReservedBitsIgnored(t *testing.T) {
	// bits 6, 16 and 22 are reserved; decoding them should not panic
	// and should not surface as any named flag.
	reserved := ExtendedStatus(1<<6 | 1<<16 | 1<<22)
	assert.Equal(t, "{}", reserved.String())
}
