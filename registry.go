package ipcomm

import (
	"sort"
	"sync"

	"github.com/GoAethereal/cancel"
)

// AxisRegistry holds the axes discovered by the probing sweep and
// resolves an Axis by name or numeric ID.
type AxisRegistry struct {
	session *Session

	mu     sync.RWMutex
	byID   map[Address]*Axis
	byName map[string]*Axis
}

func newAxisRegistry(session *Session) *AxisRegistry {
	return &AxisRegistry{
		session: session,
		byID:    make(map[Address]*Axis),
		byName:  make(map[string]*Axis),
	}
}

// Enumerate probes every address in ids with IS?, using a shortened
// read timeout (EnumerationTimeout) so a silent address doesn't stall
// the sweep; the previous timeout is restored on every exit path.
// Only a ReceiveTimeout on a given address is treated as "nothing
// there" - any other error aborts the whole sweep.
//
// names may be a map[Address]string (an axis is named by looking up
// its probed ID) or a []string (an axis is named by its position in
// ids). A nil names leaves axes unnamed. Names that aren't purely
// alphabetic are ignored, since Axis(key) uses exactly that
// distinction to tell a name from a numeric ID.
func (r *AxisRegistry) Enumerate(ctx cancel.Context, ids []Address, names interface{}) error {
	old := r.session.setTimeout(EnumerationTimeout)
	defer r.session.setTimeout(old)

	byID := make(map[Address]*Axis)
	byName := make(map[string]*Axis)

	for i, id := range ids {
		resp, err := r.session.Execute(ctx, id, "IS?")
		if err != nil {
			if err == ErrReceiveTimeout {
				continue
			}
			return err
		}
		if resp.ID != id {
			continue
		}

		axis := newAxis(r.session, id)
		if name, ok := lookupName(names, id, i); ok && isAlphaName(name) {
			axis.name = name
			byName[name] = axis
		}
		byID[id] = axis
	}

	r.mu.Lock()
	r.byID = byID
	r.byName = byName
	r.mu.Unlock()

	return nil
}

func lookupName(names interface{}, id Address, index int) (string, bool) {
	switch v := names.(type) {
	case map[Address]string:
		name, ok := v[id]
		return name, ok
	case []string:
		if index < len(v) {
			return v[index], true
		}
		return "", false
	default:
		return "", false
	}
}

func isAlphaName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return false
		}
	}
	return true
}

// Axis resolves key: a purely alphabetic key is looked up by name,
// anything else is parsed as a numeric ID. A miss in either case is a
// NotFoundError.
func (r *AxisRegistry) Axis(key string) (*Axis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if isAlphaName(key) {
		if axis, ok := r.byName[key]; ok {
			return axis, nil
		}
		return nil, &NotFoundError{Key: key}
	}

	id, err := parseAddress(key)
	if err != nil {
		return nil, &NotFoundError{Key: key}
	}
	if axis, ok := r.byID[id]; ok {
		return axis, nil
	}
	return nil, &NotFoundError{Key: key}
}

// Axes returns every enumerated axis in ascending address order.
func (r *AxisRegistry) Axes() []*Axis {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]Address, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	axes := make([]*Axis, len(ids))
	for i, id := range ids {
		axes[i] = r.byID[id]
	}
	return axes
}
