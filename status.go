package ipcomm

import "strings"

// SimpleStatus is the 8-bit status byte returned in every reply.
type SimpleStatus uint8

const (
	StatusColdboot          SimpleStatus = 1 << 7
	StatusAnyError          SimpleStatus = 1 << 6
	StatusRxError           SimpleStatus = 1 << 5
	StatusSFIError          SimpleStatus = 1 << 4
	StatusOutputstageError  SimpleStatus = 1 << 3
	StatusInitiatorMinus    SimpleStatus = 1 << 2
	StatusInitiatorPlus     SimpleStatus = 1 << 1
	StatusRunning           SimpleStatus = 1 << 0
)

func (s SimpleStatus) Coldboot() bool         { return s&StatusColdboot != 0 }
func (s SimpleStatus) AnyError() bool         { return s&StatusAnyError != 0 }
func (s SimpleStatus) RxError() bool          { return s&StatusRxError != 0 }
func (s SimpleStatus) SFIError() bool         { return s&StatusSFIError != 0 }
func (s SimpleStatus) OutputstageError() bool { return s&StatusOutputstageError != 0 }
func (s SimpleStatus) InitiatorMinus() bool   { return s&StatusInitiatorMinus != 0 }
func (s SimpleStatus) InitiatorPlus() bool    { return s&StatusInitiatorPlus != 0 }
func (s SimpleStatus) Running() bool          { return s&StatusRunning != 0 }

// String lists the active flag names between braces, e.g. "{Any Error|Running}".
func (s SimpleStatus) String() string {
	var names []string
	if s.Coldboot() {
		names = append(names, "Cold Boot")
	}
	if s.AnyError() {
		names = append(names, "Any Error")
	}
	if s.RxError() {
		names = append(names, "RX Error")
	}
	if s.SFIError() {
		names = append(names, "SFI Error")
	}
	if s.OutputstageError() {
		names = append(names, "Output Stage Error")
	}
	if s.InitiatorMinus() {
		names = append(names, "Initiator -")
	}
	if s.InitiatorPlus() {
		names = append(names, "Initiator +")
	}
	if s.Running() {
		names = append(names, "Running")
	}
	return "{" + strings.Join(names, "|") + "}"
}

// ExtendedStatus is the 24-bit status decoded from the ASCII-hex data
// payload of an IS? reply. Bits 6, 16 and 22 are reserved and unused.
type ExtendedStatus uint32

const (
	ExtInitializing     ExtendedStatus = 1 << 0
	ExtHWDisable        ExtendedStatus = 1 << 1
	ExtInitialized      ExtendedStatus = 1 << 2
	ExtFreeRunning      ExtendedStatus = 1 << 3
	ExtLinearAxis       ExtendedStatus = 1 << 4
	ExtWaitForSync      ExtendedStatus = 1 << 5
	ExtDriverError      ExtendedStatus = 1 << 7
	ExtInternalError    ExtendedStatus = 1 << 8
	ExtInitiatorError   ExtendedStatus = 1 << 9
	ExtHighTemperature  ExtendedStatus = 1 << 10
	ExtProgrammingError ExtendedStatus = 1 << 11
	ExtBusy             ExtendedStatus = 1 << 12
	ExtParameterChanged ExtendedStatus = 1 << 13
	ExtNoRamps          ExtendedStatus = 1 << 14
	ExtNoSystem         ExtendedStatus = 1 << 15
	ExtParameterLimits  ExtendedStatus = 1 << 17
	ExtBadValue         ExtendedStatus = 1 << 18
	ExtUnknownCommand   ExtendedStatus = 1 << 19
	ExtNotNow           ExtendedStatus = 1 << 20
	ExtRxbufferOverrun  ExtendedStatus = 1 << 21
	ExtChecksumError    ExtendedStatus = 1 << 23
)

func (e ExtendedStatus) Initializing() bool     { return e&ExtInitializing != 0 }
func (e ExtendedStatus) HWDisable() bool        { return e&ExtHWDisable != 0 }
func (e ExtendedStatus) Initialized() bool      { return e&ExtInitialized != 0 }
func (e ExtendedStatus) FreeRunning() bool      { return e&ExtFreeRunning != 0 }
func (e ExtendedStatus) LinearAxis() bool       { return e&ExtLinearAxis != 0 }
func (e ExtendedStatus) WaitForSync() bool      { return e&ExtWaitForSync != 0 }
func (e ExtendedStatus) DriverError() bool      { return e&ExtDriverError != 0 }
func (e ExtendedStatus) InternalError() bool    { return e&ExtInternalError != 0 }
func (e ExtendedStatus) InitiatorError() bool   { return e&ExtInitiatorError != 0 }
func (e ExtendedStatus) HighTemperature() bool  { return e&ExtHighTemperature != 0 }
func (e ExtendedStatus) ProgrammingError() bool { return e&ExtProgrammingError != 0 }
func (e ExtendedStatus) Busy() bool             { return e&ExtBusy != 0 }
func (e ExtendedStatus) ParameterChanged() bool { return e&ExtParameterChanged != 0 }
func (e ExtendedStatus) NoRamps() bool          { return e&ExtNoRamps != 0 }
func (e ExtendedStatus) NoSystem() bool         { return e&ExtNoSystem != 0 }
func (e ExtendedStatus) ParameterLimits() bool  { return e&ExtParameterLimits != 0 }
func (e ExtendedStatus) BadValue() bool         { return e&ExtBadValue != 0 }
func (e ExtendedStatus) UnknownCommand() bool   { return e&ExtUnknownCommand != 0 }
func (e ExtendedStatus) NotNow() bool           { return e&ExtNotNow != 0 }
func (e ExtendedStatus) RxbufferOverrun() bool  { return e&ExtRxbufferOverrun != 0 }
func (e ExtendedStatus) ChecksumError() bool    { return e&ExtChecksumError != 0 }

// String lists the active flag names between braces.
func (e ExtendedStatus) String() string {
	var names []string
	if e.Initializing() {
		names = append(names, "Initializing")
	}
	if e.HWDisable() {
		names = append(names, "HW Disable")
	}
	if e.Initialized() {
		names = append(names, "Initialized")
	}
	if e.FreeRunning() {
		names = append(names, "Free Running")
	}
	if e.LinearAxis() {
		names = append(names, "Linear Axis")
	}
	if e.WaitForSync() {
		names = append(names, "Wait For Sync")
	}
	if e.DriverError() {
		names = append(names, "Driver Error")
	}
	if e.InternalError() {
		names = append(names, "Internal Error")
	}
	if e.InitiatorError() {
		names = append(names, "Initiator Error")
	}
	if e.HighTemperature() {
		names = append(names, "High Temperature")
	}
	if e.ProgrammingError() {
		names = append(names, "Programming Error")
	}
	if e.Busy() {
		names = append(names, "Busy")
	}
	if e.ParameterChanged() {
		names = append(names, "Parameter Changed")
	}
	if e.NoRamps() {
		names = append(names, "No Ramps")
	}
	if e.NoSystem() {
		names = append(names, "No System")
	}
	if e.ParameterLimits() {
		names = append(names, "Parameter Limits")
	}
	if e.BadValue() {
		names = append(names, "Bad Value")
	}
	if e.UnknownCommand() {
		names = append(names, "Unknown Command")
	}
	if e.NotNow() {
		names = append(names, "Not Now")
	}
	if e.RxbufferOverrun() {
		names = append(names, "RX Buffer Overrun")
	}
	if e.ChecksumError() {
		names = append(names, "Checksum Error")
	}
	return "{" + strings.Join(names, "|") + "}"
}
