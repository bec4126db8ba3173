package psu

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var (
	devDir   = "/dev"
	sysfsTTY = "/sys/class/tty"
)

// Serial device names a supply can show up under. USB CDC/ACM comes first
// since that is how most supplies enumerate.
var portPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^ttyACM\d+$`),
	regexp.MustCompile(`^ttyUSB\d+$`),
	regexp.MustCompile(`^ttyS\d+$`),
	regexp.MustCompile(`^ttyAMA\d+$`),
}

// ListPorts returns the serial devices a supply could be attached to,
// sorted by path.
func ListPorts() ([]string, error) {
	entries, err := os.ReadDir(devDir)
	if err != nil {
		return nil, err
	}

	var ports []string
	for _, entry := range entries {
		if !matchesPortPattern(entry.Name()) {
			continue
		}
		fullPath := filepath.Join(devDir, entry.Name())
		if isCharacterDevice(fullPath) {
			ports = append(ports, fullPath)
		}
	}

	sort.Strings(ports)
	return ports, nil
}

func matchesPortPattern(name string) bool {
	for _, pattern := range portPatterns {
		if pattern.MatchString(name) {
			return true
		}
	}
	return false
}

// isCharacterDevice checks if the given path is a character device
func isCharacterDevice(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// PortInfo describes a serial device and, for USB devices, the adapter
// behind it.
type PortInfo struct {
	Name         string
	Path         string
	Description  string
	VendorID     string
	ProductID    string
	SerialNumber string
	Manufacturer string
	Product      string
	BusNumber    string
	DeviceNumber string
}

// IsUSB reports whether USB metadata was found for the port
func (i PortInfo) IsUSB() bool {
	return i.VendorID != "" || i.ProductID != ""
}

// GetPortInfo returns detailed information about a specific port
func GetPortInfo(portPath string) (*PortInfo, error) {
	if !isCharacterDevice(portPath) {
		return nil, ErrDeviceNotFound
	}

	name := filepath.Base(portPath)
	info := &PortInfo{
		Name:        name,
		Path:        portPath,
		Description: getPortDescription(name),
	}

	if strings.HasPrefix(name, "ttyUSB") || strings.HasPrefix(name, "ttyACM") {
		enrichUSBInfo(info)
	}

	return info, nil
}

// getPortDescription provides human-readable descriptions for different port types
func getPortDescription(name string) string {
	switch {
	case strings.HasPrefix(name, "ttyACM"):
		return "USB CDC/ACM Device"
	case strings.HasPrefix(name, "ttyUSB"):
		return "USB Serial Adapter"
	case strings.HasPrefix(name, "ttyAMA"):
		return "ARM Serial Port"
	case strings.HasPrefix(name, "ttyS"):
		return "Standard Serial Port"
	default:
		return "Serial Port"
	}
}

// enrichUSBInfo walks up from /sys/class/tty/<name>/device to the USB
// device directory and reads its descriptor attributes. Missing attributes
// are left empty.
func enrichUSBInfo(info *PortInfo) {
	dir, err := filepath.EvalSymlinks(filepath.Join(sysfsTTY, info.Name, "device"))
	if err != nil {
		return
	}

	// ttyACM links to the interface, ttyUSB one level below it
	for i := 0; i < 3 && dir != "/" && dir != "."; i++ {
		if _, err := os.Stat(filepath.Join(dir, "idVendor")); err == nil {
			info.VendorID = readAttr(dir, "idVendor")
			info.ProductID = readAttr(dir, "idProduct")
			info.SerialNumber = readAttr(dir, "serial")
			info.Manufacturer = readAttr(dir, "manufacturer")
			info.Product = readAttr(dir, "product")
			info.BusNumber = readAttr(dir, "busnum")
			info.DeviceNumber = readAttr(dir, "devnum")
			return
		}
		dir = filepath.Dir(dir)
	}
}

func readAttr(dir, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
