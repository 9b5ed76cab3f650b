package ui

import (
	"errors"
	"fmt"
)

// TextCapacity is the size of the rendered text buffer in bytes.
const TextCapacity = 128

// ErrTextOverflow is returned by View when the text does not fit.
var ErrTextOverflow = errors.New("ui: text buffer overflow")

// View renders the model as display text.
func (m Model) View() (string, error) {
	var t text
	fmt.Fprintf(&t, "%s\n\n", m.now)
	switch s := m.screen.(type) {
	case ClockScreen:
		fmt.Fprintf(&t, "Temperature: %s deg C\n", centi(m.temperature))
		fmt.Fprintf(&t, "Pressure:    %shPa\n", centi(m.pressure))
		if m.humidity != 0 {
			fmt.Fprintf(&t, "Humidity:    %d%%\n", m.humidity)
		}
	case MenuScreen:
		fmt.Fprintf(&t, "Menu: %s\n", s.Item)
	case SetClockScreen:
		fmt.Fprintf(&t, "Set clock: %s\n", s.Edit)
	default:
		panic(fmt.Sprintf("ui: unknown screen %T", s))
	}
	if t.overflow {
		return "", fmt.Errorf("%w (%d bytes)", ErrTextOverflow, TextCapacity)
	}
	return string(t.buf[:t.n]), nil
}

// text is a fixed-capacity writer. A write that does not fit is dropped
// whole and latches the overflow flag.
type text struct {
	buf      [TextCapacity]byte
	n        int
	overflow bool
}

func (t *text) Write(p []byte) (int, error) {
	if t.overflow || t.n+len(p) > len(t.buf) {
		t.overflow = true
		return 0, ErrTextOverflow
	}
	t.n += copy(t.buf[t.n:], p)
	return len(p), nil
}

// centi formats a fixed-point hundredths value as a decimal with two places.
type centi int64

func (c centi) String() string {
	v, sign := int64(c), ""
	if v < 0 {
		v, sign = -v, "-"
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
