//go:build !linux

package rtc

import (
	"context"
	"errors"
)

// DefaultPath is the kernel RTC device node.
const DefaultPath = "/dev/rtc0"

// Device is not available on non-Linux platforms.
type Device struct{}

// Open returns an error on non-Linux platforms.
func Open(path string) (*Device, error) {
	return nil, errors.New("rtc: not supported on this platform (requires Linux)")
}

// Read is not implemented on non-Linux platforms.
func (d *Device) Read() (DateTime, error) {
	return DateTime{}, errors.New("rtc: not supported")
}

// Write is not implemented on non-Linux platforms.
func (d *Device) Write(DateTime) error {
	return errors.New("rtc: not supported")
}

// Ack is a no-op.
func (d *Device) Ack() {}

// Seconds is not implemented on non-Linux platforms.
func (d *Device) Seconds(ctx context.Context, tick func()) error {
	return errors.New("rtc: not supported")
}

// Close is a no-op.
func (d *Device) Close() error { return nil }
