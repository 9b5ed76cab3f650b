package ui

import (
	"fmt"

	"github.com/sweeney/bedside-clock/internal/rtc"
)

// Screen is what the display shows. The set of variants is closed; values are
// immutable, so copying a Model copies its screen.
type Screen interface {
	isScreen()
}

// ClockScreen is the default display: time and environment.
type ClockScreen struct{}

// MenuScreen is the menu with a selection cursor.
type MenuScreen struct {
	Item MenuItem
}

// SetClockScreen is an in-progress date and time edit.
type SetClockScreen struct {
	Edit EditState
}

func (ClockScreen) isScreen()    {}
func (MenuScreen) isScreen()     {}
func (SetClockScreen) isScreen() {}

func (ClockScreen) String() string      { return "clock" }
func (s MenuScreen) String() string     { return "menu: " + s.Item.String() }
func (s SetClockScreen) String() string { return "set clock: " + s.Edit.String() }

// MenuItem is an entry of the ring menu.
type MenuItem int

const (
	MenuClock MenuItem = iota
	MenuSetClock
	menuItems
)

// Next returns the item after m, wrapping.
func (m MenuItem) Next() MenuItem {
	return (m + 1) % menuItems
}

// Prev returns the item before m, wrapping.
func (m MenuItem) Prev() MenuItem {
	return (m + menuItems - 1) % menuItems
}

func (m MenuItem) String() string {
	switch m {
	case MenuClock:
		return "clock"
	case MenuSetClock:
		return "set clock"
	}
	return fmt.Sprintf("MenuItem(%d)", int(m))
}

// Field is the date or time field under edit, in edit order.
type Field int

const (
	FieldYear Field = iota
	FieldMonth
	FieldDay
	FieldHour
	FieldMinute
)

func (f Field) String() string {
	switch f {
	case FieldYear:
		return "year"
	case FieldMonth:
		return "month"
	case FieldDay:
		return "day"
	case FieldHour:
		return "hour"
	case FieldMinute:
		return "min"
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// EditState is a draft DateTime and the field the cursor is on.
type EditState struct {
	Draft rtc.DateTime
	Field Field
}

// NewEditState starts editing dt at the year, with seconds cleared.
func NewEditState(dt rtc.DateTime) EditState {
	dt.Second = 0
	return EditState{Draft: dt, Field: FieldYear}
}

// Inc increments the current field, wrapping within its range.
func (e EditState) Inc() EditState {
	d := &e.Draft
	switch e.Field {
	case FieldYear:
		d.Year++
		if d.Year > rtc.MaxYear {
			d.Year = rtc.MinYear
		}
	case FieldMonth:
		d.Month = d.Month%12 + 1
	case FieldDay:
		d.Day = d.Day%31 + 1
	case FieldHour:
		d.Hour = (d.Hour + 1) % 24
	case FieldMinute:
		d.Minute = (d.Minute + 1) % 60
	}
	return e
}

// Dec decrements the current field, wrapping within its range.
func (e EditState) Dec() EditState {
	d := &e.Draft
	switch e.Field {
	case FieldYear:
		if d.Year <= rtc.MinYear {
			d.Year = rtc.MaxYear
		} else {
			d.Year--
		}
	case FieldMonth:
		d.Month = (d.Month+12-2)%12 + 1
	case FieldDay:
		d.Day = (d.Day+31-2)%31 + 1
	case FieldHour:
		d.Hour = (d.Hour + 24 - 1) % 24
	case FieldMinute:
		d.Minute = (d.Minute + 60 - 1) % 60
	}
	return e
}

// Ok moves the cursor to the next field. After the minute it reports done
// and the draft is final.
func (e EditState) Ok() (next EditState, done bool) {
	if e.Field == FieldMinute {
		return e, true
	}
	e.Field++
	return e, false
}

// Value returns the value of the field under edit.
func (e EditState) Value() int {
	switch e.Field {
	case FieldYear:
		return int(e.Draft.Year)
	case FieldMonth:
		return int(e.Draft.Month)
	case FieldDay:
		return int(e.Draft.Day)
	case FieldHour:
		return int(e.Draft.Hour)
	case FieldMinute:
		return int(e.Draft.Minute)
	}
	return 0
}

func (e EditState) String() string {
	return fmt.Sprintf("%s: %d", e.Field, e.Value())
}
