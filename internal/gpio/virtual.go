package gpio

import (
	"sync/atomic"
	"time"
)

// Button identifies one of the three buttons.
type Button int

const (
	Minus Button = iota
	OK
	Plus
)

// Virtual is a button panel driven from software (the simulator's keyboard).
// Tap may be called from any goroutine.
type Virtual struct {
	now     func() time.Time
	release [3]atomic.Int64 // unix nanos until which the button reads pressed
}

// NewVirtual creates a panel with all buttons released.
func NewVirtual() *Virtual {
	return &Virtual{now: time.Now}
}

// Tap holds b pressed for d.
func (v *Virtual) Tap(b Button, d time.Duration) {
	v.release[b].Store(v.now().Add(d).UnixNano())
}

// Read reports which buttons are still held.
func (v *Virtual) Read() (Levels, error) {
	now := v.now().UnixNano()
	return Levels{
		Minus: now < v.release[Minus].Load(),
		OK:    now < v.release[OK].Load(),
		Plus:  now < v.release[Plus].Load(),
	}, nil
}

// Close is a no-op.
func (v *Virtual) Close() error { return nil }
