// Package button turns raw pin samples into debounced press and release
// edges. It has no hardware dependencies; samples are fed in by the caller
// at a fixed rate.
package button

// Event is the result of one Poll.
type Event int

const (
	NoChange Event = iota
	Pressed
	Released
)

func (e Event) String() string {
	switch e {
	case Pressed:
		return "pressed"
	case Released:
		return "released"
	}
	return "no change"
}

// DefaultThreshold is the debounce threshold in samples (5 ms at 1 kHz).
const DefaultThreshold = 5

// Debouncer tracks the debounced state of one button.
type Debouncer struct {
	threshold int

	// Current stable (debounced) state
	stable bool
	// Level being observed and how many consecutive samples it has held
	pending      bool
	pendingCount int
	// Whether a stable state has been established
	baselined bool

	presses int
}

// NewDebouncer returns a debouncer that reports an edge once a level has
// held for threshold consecutive samples. A threshold below 1 is treated
// as 1.
func NewDebouncer(threshold int) *Debouncer {
	if threshold < 1 {
		threshold = 1
	}
	return &Debouncer{threshold: threshold}
}

// Poll feeds one sample (true = pressed) and returns the edge it completes,
// if any. No edge is reported until a baseline is established, so a button
// already held at boot does not produce a press.
func (d *Debouncer) Poll(pressed bool) Event {
	if d.pendingCount == 0 || d.pending != pressed {
		d.pending = pressed
		d.pendingCount = 0
	}
	d.pendingCount++

	if !d.baselined {
		if d.pendingCount >= d.threshold {
			d.stable = pressed
			d.baselined = true
			d.pendingCount = 0
		}
		return NoChange
	}

	if pressed == d.stable {
		// Bounce back to the stable level; drop the candidate.
		d.pendingCount = 0
		return NoChange
	}
	if d.pendingCount < d.threshold {
		return NoChange
	}

	d.stable = pressed
	d.pendingCount = 0
	if pressed {
		d.presses++
		return Pressed
	}
	return Released
}

// Pressed reports the debounced state.
func (d *Debouncer) Pressed() bool {
	return d.stable
}

// IsBaselined reports whether a stable state has been established.
func (d *Debouncer) IsBaselined() bool {
	return d.baselined
}

// Presses returns the number of Pressed edges reported.
func (d *Debouncer) Presses() int {
	return d.presses
}
