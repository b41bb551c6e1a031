package ipcomm

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/GoAethereal/cancel"
)

// Axis is the command-oriented facade for one bus slave. It holds only
// an identifier pair into the Session's command machinery - the
// session owns the bus, the axis owns nothing but its address and a
// cache of the last status it observed.
type Axis struct {
	session *Session
	id      Address
	name    string

	mu           sync.Mutex
	lastStatus   SimpleStatus
	hasStatus    bool
	lastExtended ExtendedStatus
	hasExtended  bool
}

func newAxis(session *Session, id Address) *Axis {
	return &Axis{session: session, id: id}
}

// ID returns the axis's bus address.
func (a *Axis) ID() Address { return a.id }

// Name returns the axis's registered name, or "" if it has none.
func (a *Axis) Name() string { return a.name }

// LastStatus returns the simple status cached by the most recent
// Execute call, and whether one has been observed yet.
func (a *Axis) LastStatus() (SimpleStatus, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastStatus, a.hasStatus
}

// LastExtended returns the extended status cached by the most recent
// IS? Execute call, and whether one has been observed yet.
func (a *Axis) LastExtended() (ExtendedStatus, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastExtended, a.hasExtended
}

func (a *Axis) String() string {
	status, ok := a.LastStatus()
	if a.name != "" {
		if ok {
			return fmt.Sprintf("Axis(%s, ID=%s, status=%s)", a.name, a.id, status)
		}
		return fmt.Sprintf("Axis(%s, ID=%s)", a.name, a.id)
	}
	if ok {
		return fmt.Sprintf("Axis(ID=%s, status=%s)", a.id, status)
	}
	return fmt.Sprintf("Axis(ID=%s)", a.id)
}

// Execute delegates cmd to the Session, asserts the reply's ID matches
// (otherwise IDMismatch), caches the returned status and, for IS?
// replies, the extended status, and returns the response.
func (a *Axis) Execute(ctx cancel.Context, cmd string) (Response, error) {
	resp, err := a.session.Execute(ctx, a.id, cmd)
	if err != nil {
		return Response{}, err
	}
	if resp.ID != a.id {
		return Response{}, &IDMismatch{Expected: a.id, Got: resp.ID}
	}

	a.mu.Lock()
	a.lastStatus = resp.Status
	a.hasStatus = true
	if ext, ok := resp.Data.(ExtendedData); ok {
		a.lastExtended = ExtendedStatus(ext)
		a.hasExtended = true
	}
	a.mu.Unlock()

	return resp, nil
}

func rawData(resp Response) (string, error) {
	raw, ok := resp.Data.(RawData)
	if !ok {
		return "", fmt.Errorf("ipcomm: expected raw data, got %T", resp.Data)
	}
	return string(raw), nil
}

func (a *Axis) executeStatus(ctx cancel.Context, cmd string) (SimpleStatus, error) {
	resp, err := a.Execute(ctx, cmd)
	if err != nil {
		return 0, err
	}
	return resp.Status, nil
}

func (a *Axis) executeFloat(ctx cancel.Context, cmd string) (float64, error) {
	resp, err := a.Execute(ctx, cmd)
	if err != nil {
		return 0, err
	}
	raw, err := rawData(resp)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(raw, 64)
}

func (a *Axis) executeInt(ctx cancel.Context, cmd string) (int64, error) {
	resp, err := a.Execute(ctx, cmd)
	if err != nil {
		return 0, err
	}
	raw, err := rawData(resp)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(raw, 10, 64)
}

// GotoAbsolute moves the axis to an absolute position ("GA<int>").
func (a *Axis) GotoAbsolute(ctx cancel.Context, position int) (SimpleStatus, error) {
	return a.executeStatus(ctx, fmt.Sprintf("GA%d", position))
}

// GotoRelative moves the axis by a relative offset ("GR<int>").
func (a *Axis) GotoRelative(ctx cancel.Context, offset int) (SimpleStatus, error) {
	return a.executeStatus(ctx, fmt.Sprintf("GR%d", offset))
}

// RunForward starts continuous free-running motion ("GF+").
func (a *Axis) RunForward(ctx cancel.Context) (SimpleStatus, error) { return a.executeStatus(ctx, "GF+") }

// RunBackward starts continuous free-running motion ("GF-").
func (a *Axis) RunBackward(ctx cancel.Context) (SimpleStatus, error) { return a.executeStatus(ctx, "GF-") }

// StepForward issues a single step ("GS+").
func (a *Axis) StepForward(ctx cancel.Context) (SimpleStatus, error) { return a.executeStatus(ctx, "GS+") }

// StepBackward issues a single step ("GS-").
func (a *Axis) StepBackward(ctx cancel.Context) (SimpleStatus, error) { return a.executeStatus(ctx, "GS-") }

// InitializePlus runs the initiator search in the plus direction ("GI+").
func (a *Axis) InitializePlus(ctx cancel.Context) (SimpleStatus, error) { return a.executeStatus(ctx, "GI+") }

// InitializeMinus runs the initiator search in the minus direction ("GI-").
func (a *Axis) InitializeMinus(ctx cancel.Context) (SimpleStatus, error) { return a.executeStatus(ctx, "GI-") }

// SyncStartPrepare arms this axis for a following broadcast sync start ("GW").
func (a *Axis) SyncStartPrepare(ctx cancel.Context) (SimpleStatus, error) { return a.executeStatus(ctx, "GW") }

// SyncStartAbort disarms this axis's pending sync start ("GB").
func (a *Axis) SyncStartAbort(ctx cancel.Context) (SimpleStatus, error) { return a.executeStatus(ctx, "GB") }

// Halt decelerates the axis to a stop ("H").
func (a *Axis) Halt(ctx cancel.Context) (SimpleStatus, error) { return a.executeStatus(ctx, "H") }

// Stop halts the axis immediately ("B").
func (a *Axis) Stop(ctx cancel.Context) (SimpleStatus, error) { return a.executeStatus(ctx, "B") }

// SetRunCurrent sets the run current in amps ("PR<f.1>").
func (a *Axis) SetRunCurrent(ctx cancel.Context, amps float64) (SimpleStatus, error) {
	return a.executeStatus(ctx, fmt.Sprintf("PR%.1f", amps))
}

// RunCurrent reads the run current in amps ("PR??").
func (a *Axis) RunCurrent(ctx cancel.Context) (float64, error) { return a.executeFloat(ctx, "PR??") }

// SetBoostCurrent sets the boost current in amps ("PA<f.1>").
func (a *Axis) SetBoostCurrent(ctx cancel.Context, amps float64) (SimpleStatus, error) {
	return a.executeStatus(ctx, fmt.Sprintf("PA%.1f", amps))
}

// BoostCurrent reads the boost current in amps ("PA??").
func (a *Axis) BoostCurrent(ctx cancel.Context) (float64, error) { return a.executeFloat(ctx, "PA??") }

// SetHaltCurrent sets the halt-hold current in amps ("PS<f.1>").
func (a *Axis) SetHaltCurrent(ctx cancel.Context, amps float64) (SimpleStatus, error) {
	return a.executeStatus(ctx, fmt.Sprintf("PS%.1f", amps))
}

// HaltCurrent reads the halt-hold current in amps ("PS??").
func (a *Axis) HaltCurrent(ctx cancel.Context) (float64, error) { return a.executeFloat(ctx, "PS??") }

// SetBoostDuration sets the boost duration ("PT<int>", milliseconds on the wire).
func (a *Axis) SetBoostDuration(ctx cancel.Context, d time.Duration) (SimpleStatus, error) {
	return a.executeStatus(ctx, fmt.Sprintf("PT%d", d.Milliseconds()))
}

// BoostDuration reads the boost duration ("PT?").
func (a *Axis) BoostDuration(ctx cancel.Context) (time.Duration, error) {
	ms, err := a.executeInt(ctx, "PT?")
	if err != nil {
		return 0, err
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// SetPosition sets the current position counter ("PC<int>").
func (a *Axis) SetPosition(ctx cancel.Context, position int) (SimpleStatus, error) {
	return a.executeStatus(ctx, fmt.Sprintf("PC%d", position))
}

// Position reads the current position counter ("PC?").
func (a *Axis) Position(ctx cancel.Context) (int64, error) { return a.executeInt(ctx, "PC?") }

// SetRunFrequency sets the run frequency in Hz ("PF<int>").
func (a *Axis) SetRunFrequency(ctx cancel.Context, hz int) (SimpleStatus, error) {
	return a.executeStatus(ctx, fmt.Sprintf("PF%d", hz))
}

// RunFrequency reads the run frequency in Hz ("PF?").
func (a *Axis) RunFrequency(ctx cancel.Context) (int64, error) { return a.executeInt(ctx, "PF?") }

// MaxFrequency reads the device's maximum frequency in Hz ("IF?").
func (a *Axis) MaxFrequency(ctx cancel.Context) (int64, error) { return a.executeInt(ctx, "IF?") }

// SetOffsetFrequency sets the offset frequency in Hz ("PO<int>").
func (a *Axis) SetOffsetFrequency(ctx cancel.Context, hz int) (SimpleStatus, error) {
	return a.executeStatus(ctx, fmt.Sprintf("PO%d", hz))
}

// OffsetFrequency reads the offset frequency in Hz ("PO?").
func (a *Axis) OffsetFrequency(ctx cancel.Context) (int64, error) { return a.executeInt(ctx, "PO?") }

// SetRunLimit sets the step run-limit counter ("PG<int>"); a limit of
// zero means "no limit" and is transmitted as the 32-bit all-ones
// sentinel.
func (a *Axis) SetRunLimit(ctx cancel.Context, limit uint32) (SimpleStatus, error) {
	if limit == 0 {
		limit = 0xFFFFFFFF
	}
	return a.executeStatus(ctx, fmt.Sprintf("PG%d", limit))
}

// RunLimit reads the step run-limit counter ("PG?").
func (a *Axis) RunLimit(ctx cancel.Context) (int64, error) { return a.executeInt(ctx, "PG?") }

// SetOffsetMinus sets the minus-direction offset ("PM<int>").
func (a *Axis) SetOffsetMinus(ctx cancel.Context, offset int) (SimpleStatus, error) {
	return a.executeStatus(ctx, fmt.Sprintf("PM%d", offset))
}

// OffsetMinus reads the minus-direction offset ("PM?").
func (a *Axis) OffsetMinus(ctx cancel.Context) (int64, error) { return a.executeInt(ctx, "PM?") }

// SetOffsetPlus sets the plus-direction offset ("PP<int>").
func (a *Axis) SetOffsetPlus(ctx cancel.Context, offset int) (SimpleStatus, error) {
	return a.executeStatus(ctx, fmt.Sprintf("PP%d", offset))
}

// OffsetPlus reads the plus-direction offset ("PP?").
func (a *Axis) OffsetPlus(ctx cancel.Context) (int64, error) { return a.executeInt(ctx, "PP?") }

// SetLimited sets whether the axis is limited to its initiator range ("PL<0|1>").
func (a *Axis) SetLimited(ctx cancel.Context, limited bool) (SimpleStatus, error) {
	if limited {
		return a.executeStatus(ctx, "PL1")
	}
	return a.executeStatus(ctx, "PL0")
}

// Limited reads whether the axis is limited to its initiator range ("PL?").
func (a *Axis) Limited(ctx cancel.Context) (bool, error) {
	resp, err := a.Execute(ctx, "PL?")
	if err != nil {
		return false, err
	}
	raw, err := rawData(resp)
	if err != nil {
		return false, err
	}
	v, err := strconv.ParseInt(raw, 10, 8)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// SetDeltaZero sets the delta-zero offset ("IZ<int>").
func (a *Axis) SetDeltaZero(ctx cancel.Context, delta int) (SimpleStatus, error) {
	return a.executeStatus(ctx, fmt.Sprintf("IZ%d", delta))
}

// DeltaZero reads the delta-zero offset ("IZ?").
func (a *Axis) DeltaZero(ctx cancel.Context) (int64, error) { return a.executeInt(ctx, "IZ?") }

// SetOutputs writes the 4 digital outputs, little-endian (outputs[0] is
// bit 0) ("IO<hex1>").
func (a *Axis) SetOutputs(ctx cancel.Context, outputs [4]bool) (SimpleStatus, error) {
	var v uint8
	for i, on := range outputs {
		if on {
			v |= 1 << uint(i)
		}
	}
	return a.executeStatus(ctx, fmt.Sprintf("IO%X", v&0xF))
}

// Outputs reads the 4 digital outputs, little-endian ("IO?").
func (a *Axis) Outputs(ctx cancel.Context) ([4]bool, error) {
	var out [4]bool
	resp, err := a.Execute(ctx, "IO?")
	if err != nil {
		return out, err
	}
	raw, err := rawData(resp)
	if err != nil {
		return out, err
	}
	v, err := strconv.ParseUint(raw, 16, 8)
	if err != nil {
		return out, err
	}
	for i := range out {
		out[i] = v&(1<<uint(i)) != 0
	}
	return out, nil
}

// Inputs reads the 8 digital inputs, little-endian ("II?").
func (a *Axis) Inputs(ctx cancel.Context) ([8]bool, error) {
	var in [8]bool
	resp, err := a.Execute(ctx, "II?")
	if err != nil {
		return in, err
	}
	raw, err := rawData(resp)
	if err != nil {
		return in, err
	}
	v, err := strconv.ParseUint(raw, 16, 8)
	if err != nil {
		return in, err
	}
	for i := range in {
		in[i] = v&(1<<uint(i)) != 0
	}
	return in, nil
}

// ClearDriverError clears the driver error flag ("CA").
func (a *Axis) ClearDriverError(ctx cancel.Context) (SimpleStatus, error) { return a.executeStatus(ctx, "CA") }

// ClearInitiatorError clears the initiator error flag ("CI").
func (a *Axis) ClearInitiatorError(ctx cancel.Context) (SimpleStatus, error) { return a.executeStatus(ctx, "CI") }

// ClearOutputError clears the output-stage error flag ("CO").
func (a *Axis) ClearOutputError(ctx cancel.Context) (SimpleStatus, error) { return a.executeStatus(ctx, "CO") }

// ResetHW resets the hardware ("CR").
func (a *Axis) ResetHW(ctx cancel.Context) (SimpleStatus, error) { return a.executeStatus(ctx, "CR") }

// ResetSFI resets the step-frequency-initiator subsystem ("CS").
func (a *Axis) ResetSFI(ctx cancel.Context) (SimpleStatus, error) { return a.executeStatus(ctx, "CS") }

// DriverTemperature reads the driver temperature ("SA?").
func (a *Axis) DriverTemperature(ctx cancel.Context) (int64, error) { return a.executeInt(ctx, "SA?") }

// DriverCurrent reads the driver current ("SC?").
func (a *Axis) DriverCurrent(ctx cancel.Context) (int64, error) { return a.executeInt(ctx, "SC?") }

// DriverVoltage reads the driver voltage ("SU?").
func (a *Axis) DriverVoltage(ctx cancel.Context) (int64, error) { return a.executeInt(ctx, "SU?") }
