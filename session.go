package ipcomm

import (
	"fmt"
	"strings"
	"time"

	"github.com/GoAethereal/cancel"

	"github.com/datenwolf/ipcomm/transport"
)

// Session is the request/response state machine that multiplexes every
// caller onto the shared bus. It holds the bus mutex and is the only
// thing that talks to the transport.Port.
type Session struct {
	port transport.Port
	mu   mutex

	maxRetryCount int

	registry *AxisRegistry
}

// NewSession opens the configured transport, enumerates axes over ids
// (probing addresses 0..15 if ids is nil), and returns a ready Session.
// names, if non-nil, is either a map[Address]string or a []string; see
// AxisRegistry.Enumerate.
func NewSession(ctx cancel.Context, cfg Config, ids []Address, names interface{}) (*Session, error) {
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	port, err := openPort(cfg)
	if err != nil {
		return nil, err
	}
	s := &Session{
		port:          port,
		mu:            newMutex(),
		maxRetryCount: cfg.maxRetryCount(),
	}
	s.registry = newAxisRegistry(s)
	if ids == nil {
		ids = make([]Address, 16)
		for i := range ids {
			ids[i] = Address(i)
		}
	}
	if err := s.registry.Enumerate(ctx, ids, names); err != nil {
		port.Close()
		return nil, err
	}
	return s, nil
}

func openPort(cfg Config) (transport.Port, error) {
	if strings.Contains(cfg.URL, "://") {
		return transport.DialURL(cfg.URL, cfg.timeout())
	}
	return transport.OpenSerial(cfg.URL, cfg.baud(), cfg.timeout())
}

// Close releases the underlying transport.
func (s *Session) Close() error {
	return s.port.Close()
}

// Axis looks up an axis by name or numeric ID; see AxisRegistry.Axis.
func (s *Session) Axis(key string) (*Axis, error) {
	return s.registry.Axis(key)
}

// Axes returns every enumerated axis, in ascending address order.
func (s *Session) Axes() []*Axis {
	return s.registry.Axes()
}

// Enumerate re-runs the probing sweep on demand.
func (s *Session) Enumerate(ctx cancel.Context, ids []Address, names interface{}) error {
	return s.registry.Enumerate(ctx, ids, names)
}

// Broadcast transmits cmd addressed to every slave on the bus and does
// not wait for a reply.
func (s *Session) Broadcast(ctx cancel.Context, cmd string) error {
	if err := s.mu.lock(ctx); err != nil {
		return err
	}
	defer s.mu.unlock()
	if err := s.port.FlushInput(); err != nil {
		return err
	}
	return s.transmitLocked(broadcastToken, cmd)
}

// SyncStartCommence broadcasts "GW", arming every axis on the bus for
// a synchronized start in one frame.
func (s *Session) SyncStartCommence(ctx cancel.Context) error {
	return s.Broadcast(ctx, "GW")
}

// SyncStartExecute broadcasts "GX", the sync-start trigger opcode.
func (s *Session) SyncStartExecute(ctx cancel.Context) error {
	return s.Broadcast(ctx, "GX")
}

// SyncStartAbort broadcasts "GB", the sync-start abort opcode.
func (s *Session) SyncStartAbort(ctx cancel.Context) error {
	return s.Broadcast(ctx, "GB")
}

func (s *Session) transmitLocked(addrToken byte, cmd string) error {
	frame := encodeFrame(addrToken, cmd)
	if err := s.port.WriteAll(frame); err != nil {
		return err
	}
	return s.port.Flush()
}

// setTimeout temporarily installs a new read timeout, returning the
// previous one. Used by AxisRegistry.Enumerate to shorten it for the
// probing sweep.
func (s *Session) setTimeout(d time.Duration) time.Duration {
	return s.port.SetReadTimeout(d)
}

// Execute runs a single request/response exchange with ID. The
// cmd == "IS?" short-circuit prevents the unbounded recursion the
// rx_error branch below would otherwise risk.
func (s *Session) Execute(ctx cancel.Context, id Address, cmd string) (Response, error) {
	if cmd == "IS?" {
		resp, err := s.QueryExtendedStatus(ctx, id)
		if err != nil {
			return Response{}, err
		}
		if resp == nil {
			// the single IS? attempt itself failed its checksum; there
			// is no retry loop to fall back into for a direct IS? call.
			return Response{}, &ChecksumMismatch{}
		}
		return *resp, nil
	}

	if err := s.mu.lock(ctx); err != nil {
		return Response{}, err
	}
	defer s.mu.unlock()

	if err := s.port.FlushInput(); err != nil {
		return Response{}, err
	}
	if err := s.transmitLocked(id.hex(), cmd); err != nil {
		return Response{}, err
	}

	for retry := 0; retry < s.maxRetryCount; {
		frame, err := recvFrame(s.port)
		if err != nil {
			// ReceiveTimeout (and any other transport error) propagates
			// immediately and is never charged against the retry budget.
			return Response{}, err
		}

		resp, derr := decodeFrame(frame)
		if derr != nil {
			if _, ok := derr.(*ChecksumMismatch); ok {
				// local checksum failure: ask the device to resend its
				// last reply. This is the one failure mode the retry
				// budget actually tracks.
				if err := s.transmitLocked(id.hex(), "R"); err != nil {
					return Response{}, err
				}
				retry++
				continue
			}
			return Response{}, derr
		}

		if !resp.Status.RxError() {
			return resp, nil
		}

		extResp, eerr := s.queryExtendedStatusLocked(ctx, id)
		if eerr != nil {
			return Response{}, eerr
		}
		var ext *ExtendedStatus
		if extResp != nil {
			e := ExtendedStatus(extResp.Data.(ExtendedData))
			ext = &e
		}
		switch {
		case ext == nil:
			// the IS? sub-query itself failed its checksum; transient,
			// keep waiting for a good reply to the original command.
			// Does not touch the retry budget (see above).
			continue
		case ext.ChecksumError():
			if err := s.port.FlushInput(); err != nil {
				return Response{}, err
			}
			if err := s.transmitLocked(id.hex(), cmd); err != nil {
				return Response{}, err
			}
			continue
		case ext.RxbufferOverrun():
			return Response{}, ErrRXBufferOverrun
		case ext.NotNow():
			return Response{}, ErrNotNow
		case ext.UnknownCommand():
			return Response{}, ErrUnknownCommand
		case ext.BadValue():
			return Response{}, ErrBadValue
		case ext.ParameterLimits():
			return Response{}, ErrParameterLimits
		default:
			// none of the recognised flags are set; transient, retry.
			continue
		}
	}

	return Response{}, ErrExceededRetries
}

// QueryExtendedStatus issues IS? to id and decodes its data payload as
// an ExtendedStatus. It never retransmits and never raises the
// device-signalled exceptions Execute does, and it returns (nil, nil)
// rather than an error when the IS? reply itself fails its checksum -
// this is what lets Execute call it from inside its own rx_error
// handling without recursing into Execute's retry logic.
func (s *Session) QueryExtendedStatus(ctx cancel.Context, id Address) (*Response, error) {
	if err := s.mu.lock(ctx); err != nil {
		return nil, err
	}
	defer s.mu.unlock()
	return s.queryExtendedStatusLocked(ctx, id)
}

// queryExtendedStatusLocked is QueryExtendedStatus's body, callable
// while the bus mutex is already held (by Execute): rather than truly
// re-acquiring mu, the IS? sub-exchange runs inline with it already
// held. The returned Response's ID and Status reflect the IS? reply
// itself.
func (s *Session) queryExtendedStatusLocked(ctx cancel.Context, id Address) (*Response, error) {
	if err := s.port.FlushInput(); err != nil {
		return nil, err
	}
	if err := s.transmitLocked(id.hex(), "IS?"); err != nil {
		return nil, err
	}
	frame, err := recvFrame(s.port)
	if err != nil {
		return nil, err
	}
	resp, err := decodeFrame(frame)
	if err != nil {
		if _, ok := err.(*ChecksumMismatch); ok {
			return nil, nil
		}
		return nil, err
	}
	raw, ok := resp.Data.(RawData)
	if !ok {
		return nil, fmt.Errorf("ipcomm: IS? reply carried unexpected data type %T", resp.Data)
	}
	ext, err := decodeExtendedStatus(string(raw))
	if err != nil {
		return nil, err
	}
	resp.Data = ExtendedData(ext)
	return &resp, nil
}
