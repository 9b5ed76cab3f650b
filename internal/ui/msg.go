// Package ui is the screen and menu state machine. All state lives in Model;
// Update folds one Msg into it and returns the commands to execute; View
// renders it without side effects.
package ui

import (
	"errors"
	"fmt"

	"github.com/sweeney/bedside-clock/internal/rtc"
	"github.com/sweeney/bedside-clock/internal/sensor"
)

// Msg is an application event. The set of variants is closed.
type Msg interface {
	isMsg()
}

// DateTimeMsg carries the time read at the last clock tick.
type DateTimeMsg struct {
	DateTime rtc.DateTime
}

// EnvironmentMsg carries the last sensor measurement.
type EnvironmentMsg struct {
	Measurement sensor.Measurement
}

// ButtonMinus is a press of the minus button.
type ButtonMinus struct{}

// ButtonOk is a press of the ok button.
type ButtonOk struct{}

// ButtonPlus is a press of the plus button.
type ButtonPlus struct{}

func (DateTimeMsg) isMsg()    {}
func (EnvironmentMsg) isMsg() {}
func (ButtonMinus) isMsg()    {}
func (ButtonOk) isMsg()       {}
func (ButtonPlus) isMsg()     {}

// Cmd is a side effect requested by Update. The UI never executes commands
// itself. The set of variants is closed.
type Cmd interface {
	isCmd()
}

// UpdateRtc asks for the clock to be set.
type UpdateRtc struct {
	DateTime rtc.DateTime
}

func (UpdateRtc) isCmd() {}

// MaxCmds bounds the commands a single Update may emit.
const MaxCmds = 4

// ErrTooManyCmds is the panic value when an Update emits more than MaxCmds.
var ErrTooManyCmds = errors.New("cmds too small")

// Cmds is the fixed-capacity command list returned by Update.
type Cmds struct {
	buf [MaxCmds]Cmd
	n   int
}

func (c *Cmds) push(cmd Cmd) {
	if c.n == MaxCmds {
		panic(fmt.Errorf("%w (%d)", ErrTooManyCmds, MaxCmds))
	}
	c.buf[c.n] = cmd
	c.n++
}

// Len returns the number of commands.
func (c *Cmds) Len() int {
	return c.n
}

// All returns the commands in emission order.
func (c *Cmds) All() []Cmd {
	return c.buf[:c.n]
}
