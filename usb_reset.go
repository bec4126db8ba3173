package psu

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

var (
	usbresetTool = "usbreset"

	// settleDelay is how long a reset device takes to re-enumerate
	settleDelay = 2 * time.Second
)

// ResetUSB performs a USB-level reset of the supply behind device. Supplies
// whose USB firmware stops answering can be recovered this way without
// unplugging them. The device path may change after the reset.
//
// Requires the usbreset utility (usbutils) and usually root.
func ResetUSB(ctx context.Context, device string) error {
	info, err := GetPortInfo(device)
	if err != nil {
		return fmt.Errorf("failed to get port info: %w", err)
	}
	return resetUSB(ctx, info)
}

// ResetUSBBySerial resets the supply with the given USB serial number and
// returns the device path it had.
func ResetUSBBySerial(ctx context.Context, serialNumber string) (string, error) {
	ports, err := ListPorts()
	if err != nil {
		return "", err
	}

	for _, device := range ports {
		info, err := GetPortInfo(device)
		if err != nil {
			continue
		}
		if info.SerialNumber == serialNumber {
			return device, resetUSB(ctx, info)
		}
	}

	return "", fmt.Errorf("%w: no device with serial %s", ErrDeviceNotFound, serialNumber)
}

// IsUSBResetAvailable checks if the usbreset utility is in PATH
func IsUSBResetAvailable() bool {
	_, err := exec.LookPath(usbresetTool)
	return err == nil
}

func resetUSB(ctx context.Context, info *PortInfo) error {
	target, err := usbPath(info)
	if err != nil {
		return err
	}

	if !IsUSBResetAvailable() {
		return ErrUSBResetNotAvailable
	}

	cmd := exec.CommandContext(ctx, usbresetTool, target)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("usbreset failed: %w (output: %s)", err, string(output))
	}

	select {
	case <-time.After(settleDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// usbPath formats bus and device number the way usbreset expects: BBB/DDD
func usbPath(info *PortInfo) (string, error) {
	bus, err := strconv.Atoi(info.BusNumber)
	if err != nil {
		return "", ErrUSBInfoNotAvailable
	}
	dev, err := strconv.Atoi(info.DeviceNumber)
	if err != nil {
		return "", ErrUSBInfoNotAvailable
	}
	return fmt.Sprintf("%03d/%03d", bus, dev), nil
}
