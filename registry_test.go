package ipcomm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Of a full 0..15 sweep, only the addresses a fake device actually
// answers end up registered, and the original timeout is restored
// once the sweep is done.
func TestEnumerate_OnlyRespondingAddressesRegistered(t *testing.T) {
	port := newMemoryPort()
	const original = 500 * time.Millisecond
	port.SetReadTimeout(original)

	respond := map[Address]bool{2: true, 5: true, 9: true}
	dev := newFakeDevice(port)
	dev.handle("IS?", func(id Address, cmd string) ([]byte, bool) {
		if !respond[id] {
			return nil, false
		}
		return dev.reply(id, 0, "000000"), true
	})
	go dev.run()
	defer dev.close()

	s := newTestSession(t, port)
	ids := make([]Address, 16)
	for i := range ids {
		ids[i] = Address(i)
	}
	names := map[Address]string{2: "tilt", 5: "pan"}

	err := s.registry.Enumerate(testCtx(t), ids, names)
	require.NoError(t, err)

	axes := s.Axes()
	require.Len(t, axes, 3)
	for _, a := range axes {
		assert.True(t, respond[a.ID()])
	}

	assert.Equal(t, original, port.SetReadTimeout(original))
}

func TestEnumerate_ShortensTimeoutDuringSweep(t *testing.T) {
	port := newMemoryPort()
	port.SetReadTimeout(500 * time.Millisecond)

	var seen time.Duration
	dev := newFakeDevice(port)
	dev.handle("IS?", func(id Address, cmd string) ([]byte, bool) {
		port.mu.Lock()
		seen = port.timeout
		port.mu.Unlock()
		return nil, false
	})
	go dev.run()
	defer dev.close()

	s := newTestSession(t, port)
	err := s.registry.Enumerate(testCtx(t), []Address{0}, nil)
	require.NoError(t, err)
	assert.Equal(t, EnumerationTimeout, seen)
}

func TestAxis_LookupByNameAndID(t *testing.T) {
	port := newMemoryPort()
	dev := newFakeDevice(port)
	dev.handle("IS?", func(id Address, cmd string) ([]byte, bool) {
		return dev.reply(id, 0, "000000"), true
	})
	go dev.run()
	defer dev.close()

	s := newTestSession(t, port)
	names := []string{"alpha", "beta"}
	require.NoError(t, s.registry.Enumerate(testCtx(t), []Address{0, 1}, names))

	byName, err := s.Axis("alpha")
	require.NoError(t, err)
	assert.Equal(t, Address(0), byName.ID())

	byID, err := s.Axis("1")
	require.NoError(t, err)
	assert.Equal(t, "beta", byID.Name())

	_, err = s.Axis("nonexistent")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}
