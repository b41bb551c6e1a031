package ipcomm

import (
	"github.com/GoAethereal/cancel"
)

// mutex is a channel-based lock, cancellable via a context the way a
// plain sync.Mutex is not. Session.queryExtendedStatusLocked never
// calls lock/unlock itself - Execute holds the lock for the whole
// rx_error sub-exchange and calls the unlocked primitives directly,
// so the bus lock effectively behaves as re-entrant for that one call
// chain without ever actually being re-acquired.
type mutex chan struct{}

func newMutex() mutex {
	m := make(mutex, 1)
	m <- struct{}{}
	return m
}

func (mu mutex) lock(ctx cancel.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-mu:
		return nil
	}
}

func (mu mutex) unlock() {
	mu <- struct{}{}
}
