package ipcomm

import (
	"testing"
	"time"

	"github.com/GoAethereal/cancel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, port *memoryPort) *Session {
	t.Helper()
	s := &Session{
		port:          port,
		mu:            newMutex(),
		maxRetryCount: DefaultMaxRetryCount,
	}
	s.registry = newAxisRegistry(s)
	return s
}

func testCtx(t *testing.T) cancel.Context {
	t.Helper()
	ctx := cancel.New()
	timer := time.AfterFunc(2*time.Second, ctx.Cancel)
	t.Cleanup(func() {
		timer.Stop()
		ctx.Cancel()
	})
	return ctx
}

// scenario: "GA100 to ID 3" - a clean single-attempt exchange.
func TestExecute_CleanExchange(t *testing.T) {
	port := newMemoryPort()
	dev := newFakeDevice(port)
	dev.handle("GA", func(id Address, cmd string) ([]byte, bool) {
		return dev.reply(id, StatusRunning, ""), true
	})
	go dev.run()
	defer dev.close()

	s := newTestSession(t, port)
	resp, err := s.Execute(testCtx(t), 3, "GA100")
	require.NoError(t, err)
	assert.Equal(t, Address(3), resp.ID)
	assert.True(t, resp.Status.Running())
}

// scenario: local reply corruption recovered by resend ("R").
func TestExecute_LocalChecksumMismatchTriggersResend(t *testing.T) {
	port := newMemoryPort()
	attempt := 0
	dev := newFakeDevice(port)
	dev.handle("GA", func(id Address, cmd string) ([]byte, bool) {
		attempt++
		if attempt == 1 {
			return dev.replyBadChecksum(id, StatusRunning, ""), true
		}
		return nil, false
	})
	dev.handle("R", func(id Address, cmd string) ([]byte, bool) {
		return dev.reply(id, StatusRunning, ""), true
	})
	go dev.run()
	defer dev.close()

	s := newTestSession(t, port)
	resp, err := s.Execute(testCtx(t), 3, "GA100")
	require.NoError(t, err)
	assert.Equal(t, Address(3), resp.ID)
}

// scenario: rx_error -> IS? sub-query reports unknown_command.
func TestExecute_RxErrorUnknownCommand(t *testing.T) {
	port := newMemoryPort()
	dev := newFakeDevice(port)
	dev.handle("ZZ", func(id Address, cmd string) ([]byte, bool) {
		return dev.reply(id, StatusRxError, ""), true
	})
	dev.handle("IS?", func(id Address, cmd string) ([]byte, bool) {
		return dev.reply(id, 0, "080000"), true // bit 19, ExtUnknownCommand
	})
	go dev.run()
	defer dev.close()

	s := newTestSession(t, port)
	_, err := s.Execute(testCtx(t), 1, "ZZ")
	assert.Equal(t, ErrUnknownCommand, err)
}

// MAX_RETRY_COUNT consecutive local checksum failures exhausts the budget.
func TestExecute_ExceedsRetryBudget(t *testing.T) {
	port := newMemoryPort()
	dev := newFakeDevice(port)
	dev.handle("GA", func(id Address, cmd string) ([]byte, bool) {
		return dev.replyBadChecksum(id, StatusRunning, ""), true
	})
	dev.handle("R", func(id Address, cmd string) ([]byte, bool) {
		return dev.replyBadChecksum(id, StatusRunning, ""), true
	})
	go dev.run()
	defer dev.close()

	s := newTestSession(t, port)
	s.maxRetryCount = 3
	_, err := s.Execute(testCtx(t), 3, "GA100")
	assert.Equal(t, ErrExceededRetries, err)
}

func TestExecute_ReceiveTimeoutNotChargedToRetryBudget(t *testing.T) {
	port := newMemoryPort()
	port.SetReadTimeout(20 * time.Millisecond)
	s := newTestSession(t, port)
	_, err := s.Execute(testCtx(t), 3, "GA100")
	assert.Equal(t, ErrReceiveTimeout, err)
}

func TestBroadcast_NoReplyExpected(t *testing.T) {
	port := newMemoryPort()
	s := newTestSession(t, port)
	err := s.Broadcast(testCtx(t), "GW")
	require.NoError(t, err)
	wire := port.takeWire()
	require.NotEmpty(t, wire)
	assert.Equal(t, byte('@'), wire[1])
}

func TestQueryExtendedStatus_NoneOnChecksumFailure(t *testing.T) {
	port := newMemoryPort()
	dev := newFakeDevice(port)
	dev.handle("IS?", func(id Address, cmd string) ([]byte, bool) {
		return dev.replyBadChecksum(id, 0, "000000"), true
	})
	go dev.run()
	defer dev.close()

	s := newTestSession(t, port)
	resp, err := s.QueryExtendedStatus(testCtx(t), 2)
	require.NoError(t, err)
	assert.Nil(t, resp)
}
