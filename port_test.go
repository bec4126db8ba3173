package psu

import (
	"errors"
	"fmt"
	"testing"

	"golang.org/x/sys/unix"
)

func TestGetBaudRate(t *testing.T) {
	tests := []struct {
		input    int
		hasError bool
	}{
		{9600, false},
		{115200, false},
		{57600, false},
		{123456, true},
		{0, true},
	}

	for _, test := range tests {
		result, err := getBaudRate(test.input)
		if test.hasError {
			if err != ErrInvalidBaudRate {
				t.Errorf("Expected ErrInvalidBaudRate for %d, got %v", test.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Unexpected error for baud rate %d: %v", test.input, err)
		}
		if result == 0 {
			t.Errorf("Got zero result for valid baud rate %d", test.input)
		}
	}

	if speed, _ := getBaudRate(9600); speed != unix.B9600 {
		t.Errorf("Expected B9600, got %d", speed)
	}
}

func TestClassifyOpenError(t *testing.T) {
	tests := []struct {
		errno error
		want  error
	}{
		{unix.ENOENT, ErrDeviceNotFound},
		{unix.ENXIO, ErrDeviceNotFound},
		{unix.EACCES, ErrPermissionDenied},
		{unix.EPERM, ErrPermissionDenied},
		{unix.EBUSY, ErrDeviceInUse},
		{unix.EIO, unix.EIO},
	}

	for _, test := range tests {
		if got := classifyOpenError(test.errno); got != test.want {
			t.Errorf("classifyOpenError(%v) = %v, want %v", test.errno, got, test.want)
		}
	}
}

func TestOpenNonExistentDevice(t *testing.T) {
	_, err := Open("/dev/nonexistent")
	if err == nil {
		t.Fatal("Expected error when opening non-existent device")
	}
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Expected ErrDeviceNotFound, got %v", err)
	}
}

func TestOpenInvalidOption(t *testing.T) {
	_, err := Open("/dev/nonexistent", WithBaudRate(1))
	if err != ErrInvalidBaudRate {
		t.Errorf("Expected ErrInvalidBaudRate, got %v", err)
	}
}

func TestClosedPort(t *testing.T) {
	p := &port{fd: -1, closed: true}

	if _, err := p.Read(make([]byte, 1)); err != ErrPortClosed {
		t.Errorf("Read: expected ErrPortClosed, got %v", err)
	}
	if _, err := p.Write([]byte("x")); err != ErrPortClosed {
		t.Errorf("Write: expected ErrPortClosed, got %v", err)
	}
	if err := p.FlushInput(); err != ErrPortClosed {
		t.Errorf("FlushInput: expected ErrPortClosed, got %v", err)
	}
	if err := p.Close(); err != ErrPortClosed {
		t.Errorf("Close: expected ErrPortClosed, got %v", err)
	}
}

func TestSendErrorUnwrap(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &SendError{
		Device:  "/dev/ttyACM0",
		Command: "STATUS?",
		Op:      "open",
		Err:     ErrPermissionDenied,
	})

	if !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("Expected error chain to contain ErrPermissionDenied: %v", err)
	}

	var sendErr *SendError
	if !errors.As(err, &sendErr) || sendErr.Op != "open" {
		t.Errorf("Expected *SendError with op open, got %v", err)
	}
}
