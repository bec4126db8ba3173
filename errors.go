package psu

import (
	"errors"
	"fmt"
)

// Predefined error types for robust error handling
var (
	ErrDeviceNotFound   = errors.New("serial device not found")
	ErrPermissionDenied = errors.New("permission denied accessing serial device")
	ErrDeviceInUse      = errors.New("serial device already in use")
	ErrInvalidBaudRate  = errors.New("invalid baud rate")
	ErrInvalidConfig    = errors.New("invalid serial configuration")
	ErrPortClosed       = errors.New("serial port is closed")

	// USB reset errors
	ErrUSBResetNotAvailable = errors.New("usbreset utility not available")
	ErrUSBInfoNotAvailable  = errors.New("USB bus/device number not available")

	// Exchange errors
	ErrNoResponse = errors.New("no response from power supply")
	ErrNotNumeric = errors.New("reply is not numeric")
)

// SendError describes a failed command exchange. Op is the transport step
// that failed: "open", "write" or "read".
type SendError struct {
	Device  string
	Command Command
	Op      string
	Err     error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("psu %s %q on %s: %v", e.Op, string(e.Command), e.Device, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}
