package hackrf

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is generated when no HackRF One is attached, or none
	// could be opened
	ErrNotFound = errors.New("no HackRF One found")

	// ErrZeroAck is generated when a gain-setting request returns a zero
	// acknowledgement byte.  The firmware does not document the encoding
	// of this byte; non-zero is treated as success and zero as failure.
	ErrZeroAck = errors.New("device acknowledged gain setting with zero byte")
)

// Direction labels which way a transfer was moving when it came up short.
type Direction int

// transfer directions, named from the host's perspective
const (
	DirIn Direction = iota
	DirOut
)

func (d Direction) String() string {
	if d == DirIn {
		return "in"
	}
	return "out"
}

// TransferError is generated when the number of bytes moved by a control
// transfer does not match the number requested.  Short transfers are never
// silently truncated.
type TransferError struct {
	// Dir is the transfer direction
	Dir Direction

	// Actual is the number of bytes moved
	Actual int

	// Expected is the number of bytes requested
	Expected int
}

func (e TransferError) Error() string {
	return fmt.Sprintf("short %s control transfer: %d bytes moved, expected %d", e.Dir, e.Actual, e.Expected)
}

// WrongModeError is generated when an operation is attempted in an
// incompatible streaming state.
type WrongModeError struct {
	// Required is the mode the operation needs
	Required Mode

	// Actual is the mode the driver was in
	Actual Mode
}

func (e WrongModeError) Error() string {
	return fmt.Sprintf("invalid mode: required %v, actual %v", e.Required, e.Actual)
}

// NoAPIError is generated when an operation requires newer firmware than
// the device is running.  It is produced before any I/O is issued.
type NoAPIError struct {
	// Device is the firmware version on the device
	Device Version

	// Min is the minimum version the operation needs
	Min Version
}

func (e NoAPIError) Error() string {
	return fmt.Sprintf("operation requires firmware >= %v, device has %v; update the firmware", e.Min, e.Device)
}

// ArgumentError is generated when a caller-supplied parameter is outside
// the documented hardware range.  It is produced before any I/O is issued.
type ArgumentError struct {
	// Reason describes which parameter was rejected and why
	Reason string
}

func (e ArgumentError) Error() string {
	return e.Reason
}
