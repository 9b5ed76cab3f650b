// Package gpio provides button input reading with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Levels is one sample of the three buttons in logical form (true = pressed).
type Levels struct {
	Minus bool
	OK    bool
	Plus  bool
}

// Reader reads button input states.
type Reader interface {
	// Read returns the logical button levels.
	// Buttons pull the line to ground: raw low = pressed.
	Read() (Levels, error)

	// Close releases GPIO resources.
	Close() error
}

// Default line offsets on gpiochip0 (BCM numbering).
const (
	DefaultChip     = "gpiochip0"
	DefaultPinMinus = 5
	DefaultPinOK    = 6
	DefaultPinPlus  = 13
)

// Pins names the line offsets of the three buttons.
type Pins struct {
	Minus int
	OK    int
	Plus  int
}
