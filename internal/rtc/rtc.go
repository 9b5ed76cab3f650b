// Package rtc provides the real-time clock: the battery-backed seconds counter
// and its once-per-second update interrupt.
// The Linux implementation talks to the kernel RTC driver (/dev/rtcN).
// The software and fake implementations allow running without hardware.
package rtc

import (
	"context"
	"time"
)

// Clock is a real-time clock peripheral.
type Clock interface {
	// Read returns the current counter value decoded as a DateTime.
	Read() (DateTime, error)

	// Write sets the counter.
	Write(DateTime) error

	// Ack acknowledges the second interrupt.
	Ack()

	// Seconds calls tick once per counter increment until ctx is done.
	// It is the interrupt source for the clock task and runs on its own goroutine.
	Seconds(ctx context.Context, tick func()) error

	// Close releases the device.
	Close() error
}

// Unset is the counter value below which the clock is considered never set.
const Unset = 100

// DefaultDate is written to an unset clock at boot.
var DefaultDate = DateTime{Year: 2018, Month: 9, Day: 1, Hour: 23, Minute: 15, Second: 40, DayOfWeek: time.Saturday}

// SeedIfUnset writes DefaultDate when the clock reads below Unset.
// It reports whether the clock was seeded.
func SeedIfUnset(c Clock) (bool, error) {
	now, err := c.Read()
	if err != nil {
		return false, err
	}
	cnt, err := now.Epoch()
	if err == nil && cnt >= Unset {
		return false, nil
	}
	if err := c.Write(DefaultDate); err != nil {
		return false, err
	}
	return true, nil
}
