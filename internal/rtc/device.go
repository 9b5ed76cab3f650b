//go:build linux

package rtc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// DefaultPath is the kernel RTC device node.
const DefaultPath = "/dev/rtc0"

// Device is a hardware RTC driven through the Linux RTC character device.
// The kernel keeps the battery-backed counter; update interrupts (RTC_UIE)
// provide the 1 Hz tick.
type Device struct {
	path string
	f    *os.File
}

// Open opens the RTC device node.
func Open(path string) (*Device, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rtc %s: %w", path, err)
	}
	if _, err := unix.IoctlGetRTCTime(int(f.Fd())); err != nil {
		f.Close()
		return nil, fmt.Errorf("read rtc %s: %w", path, err)
	}
	return &Device{path: path, f: f}, nil
}

// Read returns the current RTC time.
func (d *Device) Read() (DateTime, error) {
	t, err := unix.IoctlGetRTCTime(int(d.f.Fd()))
	if err != nil {
		return DateTime{}, fmt.Errorf("read rtc: %w", err)
	}
	return DateTime{
		Year:   uint16(t.Year + 1900),
		Month:  uint8(t.Mon + 1),
		Day:    uint8(t.Mday),
		Hour:   uint8(t.Hour),
		Minute: uint8(t.Min),
		Second: uint8(t.Sec),
		// The driver does not always fill Wday; derive it.
		DayOfWeek: weekday(t),
	}, nil
}

func weekday(t *unix.RTCTime) time.Weekday {
	dt := DateTime{Year: uint16(t.Year + 1900), Month: uint8(t.Mon + 1), Day: uint8(t.Mday)}
	if tt, err := dt.Time(); err == nil {
		return tt.Weekday()
	}
	return time.Weekday(t.Wday)
}

// Write sets the RTC.
func (d *Device) Write(dt DateTime) error {
	t, err := dt.Time()
	if err != nil {
		return err
	}
	rt := unix.RTCTime{
		Sec:  int32(t.Second()),
		Min:  int32(t.Minute()),
		Hour: int32(t.Hour()),
		Mday: int32(t.Day()),
		Mon:  int32(t.Month()) - 1,
		Year: int32(t.Year()) - 1900,
		Wday: int32(t.Weekday()),
		Yday: int32(t.YearDay()) - 1,
	}
	if err := unix.IoctlSetRTCTime(int(d.f.Fd()), &rt); err != nil {
		return fmt.Errorf("set rtc: %w", err)
	}
	return nil
}

// Ack is a no-op: reading the update event in Seconds acknowledges it.
func (d *Device) Ack() {}

// Seconds enables update interrupts and calls tick for each one.
func (d *Device) Seconds(ctx context.Context, tick func()) error {
	f, err := os.Open(d.path)
	if err != nil {
		return fmt.Errorf("open rtc %s: %w", d.path, err)
	}
	fd := int(f.Fd())
	if err := unix.IoctlSetInt(fd, unix.RTC_UIE_ON, 0); err != nil {
		f.Close()
		return fmt.Errorf("enable rtc update interrupt: %w", err)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			unix.IoctlSetInt(fd, unix.RTC_UIE_OFF, 0)
			f.Close()
		case <-done:
		}
	}()

	// Each read returns an unsigned long: interrupt count and flags.
	buf := make([]byte, 8)
	for {
		if _, err := f.Read(buf); err != nil {
			if ctx.Err() != nil || errors.Is(err, os.ErrClosed) {
				return nil
			}
			f.Close()
			return fmt.Errorf("wait rtc update: %w", err)
		}
		tick()
	}
}

// Close releases the device.
func (d *Device) Close() error {
	return d.f.Close()
}
