package models

import (
	"context"
	"sync"

	"github.com/allbin/go-psu"
)

// Device is the part of psu.Dispatcher the watch screen uses
type Device interface {
	Status(ctx context.Context) (psu.Status, error)
	Voltage(ctx context.Context, ch psu.Channel, realtime bool) (float64, error)
	Current(ctx context.Context, ch psu.Channel, realtime bool) (float64, error)
	SetOutput(ctx context.Context, on bool) (psu.Reply, error)
	ID(ctx context.Context) (psu.Reply, error)
	Exec(ctx context.Context, command string) (psu.Reply, error)
}

// LockedDevice serializes every exchange with the wrapped device. Polls and
// console commands run as separate tea.Cmds and would otherwise interleave
// on the serial line.
type LockedDevice struct {
	mu     sync.Mutex
	device Device
}

func NewLockedDevice(device Device) *LockedDevice {
	return &LockedDevice{device: device}
}

func (d *LockedDevice) Status(ctx context.Context) (psu.Status, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.device.Status(ctx)
}

func (d *LockedDevice) Voltage(ctx context.Context, ch psu.Channel, realtime bool) (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.device.Voltage(ctx, ch, realtime)
}

func (d *LockedDevice) Current(ctx context.Context, ch psu.Channel, realtime bool) (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.device.Current(ctx, ch, realtime)
}

func (d *LockedDevice) SetOutput(ctx context.Context, on bool) (psu.Reply, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.device.SetOutput(ctx, on)
}

func (d *LockedDevice) ID(ctx context.Context) (psu.Reply, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.device.ID(ctx)
}

func (d *LockedDevice) Exec(ctx context.Context, command string) (psu.Reply, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.device.Exec(ctx, command)
}
