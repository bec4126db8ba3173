package psu

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestUSBPath(t *testing.T) {
	tests := []struct {
		bus, dev string
		want     string
		wantErr  bool
	}{
		{"1", "7", "001/007", false},
		{"003", "12", "003/012", false},
		{"", "7", "", true},
		{"1", "x", "", true},
	}

	for _, test := range tests {
		got, err := usbPath(&PortInfo{BusNumber: test.bus, DeviceNumber: test.dev})
		if test.wantErr {
			if !errors.Is(err, ErrUSBInfoNotAvailable) {
				t.Errorf("usbPath(%q, %q) error = %v, want ErrUSBInfoNotAvailable", test.bus, test.dev, err)
			}
			continue
		}
		if err != nil || got != test.want {
			t.Errorf("usbPath(%q, %q) = %q, %v, want %q", test.bus, test.dev, got, err, test.want)
		}
	}
}

func withResetTool(t *testing.T, tool string) {
	t.Helper()
	oldTool, oldDelay := usbresetTool, settleDelay
	usbresetTool, settleDelay = tool, 0
	t.Cleanup(func() { usbresetTool, settleDelay = oldTool, oldDelay })
}

func TestResetUSBNonUSBDevice(t *testing.T) {
	if err := ResetUSB(context.Background(), "/dev/null"); !errors.Is(err, ErrUSBInfoNotAvailable) {
		t.Errorf("ResetUSB(/dev/null) = %v, want ErrUSBInfoNotAvailable", err)
	}
}

func TestResetUSBMissingDevice(t *testing.T) {
	if err := ResetUSB(context.Background(), "/dev/nonexistent"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("ResetUSB(/dev/nonexistent) = %v, want ErrDeviceNotFound", err)
	}
}

func TestResetUSBToolMissing(t *testing.T) {
	withResetTool(t, "usbreset-not-installed")

	err := resetUSB(context.Background(), &PortInfo{BusNumber: "1", DeviceNumber: "2"})
	if !errors.Is(err, ErrUSBResetNotAvailable) {
		t.Errorf("resetUSB() = %v, want ErrUSBResetNotAvailable", err)
	}
}

func TestResetUSBRunsTool(t *testing.T) {
	withResetTool(t, "true")

	if err := resetUSB(context.Background(), &PortInfo{BusNumber: "1", DeviceNumber: "2"}); err != nil {
		t.Errorf("resetUSB() = %v", err)
	}
}

func TestResetUSBToolFails(t *testing.T) {
	withResetTool(t, "false")

	if err := resetUSB(context.Background(), &PortInfo{BusNumber: "1", DeviceNumber: "2"}); err == nil {
		t.Error("expected an error from a failing usbreset")
	}
}

func TestResetUSBCancelledWhileSettling(t *testing.T) {
	withResetTool(t, "true")
	settleDelay = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := resetUSB(ctx, &PortInfo{BusNumber: "1", DeviceNumber: "2"}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("resetUSB() = %v, want context.DeadlineExceeded", err)
	}
}
