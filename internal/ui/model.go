package ui

import (
	"fmt"

	"github.com/sweeney/bedside-clock/internal/rtc"
)

// Model is the whole UI state. It is a value type: Clone (or plain
// assignment) yields an independent copy that can be rendered while the
// original keeps changing.
type Model struct {
	now         rtc.DateTime
	pressure    uint32 // Pa
	temperature int16  // centi-degrees C
	humidity    uint8  // %
	screen      Screen
}

// NewModel returns the boot state: the epoch, no measurement, clock screen.
func NewModel() Model {
	return Model{
		now:    rtc.FromEpoch(0),
		screen: ClockScreen{},
	}
}

// Clone returns an independent snapshot of m.
func (m Model) Clone() Model {
	return m
}

// Now returns the last time received.
func (m Model) Now() rtc.DateTime {
	return m.now
}

// Screen returns the current screen.
func (m Model) Screen() Screen {
	return m.screen
}

// Update folds msg into the model and returns the resulting commands.
func (m *Model) Update(msg Msg) Cmds {
	var cmds Cmds
	switch msg := msg.(type) {
	case DateTimeMsg:
		m.now = msg.DateTime
	case EnvironmentMsg:
		m.pressure = msg.Measurement.Pressure
		m.temperature = msg.Measurement.Temperature
		m.humidity = msg.Measurement.Humidity
	case ButtonMinus:
		m.minus()
	case ButtonPlus:
		m.plus()
	case ButtonOk:
		m.ok(&cmds)
	default:
		panic(fmt.Sprintf("ui: unknown message %T", msg))
	}
	return cmds
}

func (m *Model) minus() {
	switch s := m.screen.(type) {
	case ClockScreen:
	case MenuScreen:
		m.screen = MenuScreen{Item: s.Item.Prev()}
	case SetClockScreen:
		m.screen = SetClockScreen{Edit: s.Edit.Dec()}
	default:
		panic(fmt.Sprintf("ui: unknown screen %T", s))
	}
}

func (m *Model) plus() {
	switch s := m.screen.(type) {
	case ClockScreen:
	case MenuScreen:
		m.screen = MenuScreen{Item: s.Item.Next()}
	case SetClockScreen:
		m.screen = SetClockScreen{Edit: s.Edit.Inc()}
	default:
		panic(fmt.Sprintf("ui: unknown screen %T", s))
	}
}

func (m *Model) ok(cmds *Cmds) {
	switch s := m.screen.(type) {
	case ClockScreen:
		m.screen = MenuScreen{Item: MenuClock}
	case MenuScreen:
		switch s.Item {
		case MenuClock:
			m.screen = ClockScreen{}
		case MenuSetClock:
			m.screen = SetClockScreen{Edit: NewEditState(m.now)}
		default:
			panic(fmt.Sprintf("ui: unknown menu item %d", int(s.Item)))
		}
	case SetClockScreen:
		next, done := s.Edit.Ok()
		if !done {
			m.screen = SetClockScreen{Edit: next}
			return
		}
		cmds.push(UpdateRtc{DateTime: next.Draft})
		m.screen = ClockScreen{}
	default:
		panic(fmt.Sprintf("ui: unknown screen %T", s))
	}
}
