//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealReader reads buttons from actual hardware using Linux GPIO character device.
type RealReader struct {
	lines *gpiocdev.Lines
}

// NewRealReader requests the three button lines on chip as pulled-up inputs.
func NewRealReader(chip string, pins Pins) (*RealReader, error) {
	offsets := []int{pins.Minus, pins.OK, pins.Plus}
	lines, err := gpiocdev.RequestLines(chip, offsets,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithConsumer("bedside-clock"),
	)
	if err != nil {
		return nil, fmt.Errorf("request button lines %v on %s: %w", offsets, chip, err)
	}
	return &RealReader{lines: lines}, nil
}

// Read samples all three lines at once.
// Inverts raw GPIO: raw low (0) = pressed.
func (r *RealReader) Read() (Levels, error) {
	raw := make([]int, 3)
	if err := r.lines.Values(raw); err != nil {
		return Levels{}, fmt.Errorf("read button lines: %w", err)
	}
	return Levels{
		Minus: raw[0] == 0,
		OK:    raw[1] == 0,
		Plus:  raw[2] == 0,
	}, nil
}

// Close releases GPIO resources.
// Reconfigures lines to input with pull-down (matching Pi boot defaults) before
// closing.
func (r *RealReader) Close() error {
	var errs []error
	if err := r.lines.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
		errs = append(errs, fmt.Errorf("reconfigure button lines: %w", err))
	}
	if err := r.lines.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close button lines: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
