// Package alarm holds the alarm schedule and the melody player.
package alarm

import (
	"fmt"

	"github.com/sweeney/bedside-clock/internal/rtc"
)

// Size is the number of alarm entries.
const Size = 8

// Entry is one alarm time. The zero value is a disabled alarm at 00:00.
type Entry struct {
	enabled bool
	hour    uint8
	minute  uint8
}

// NewEntry returns an entry for hour:minute.
func NewEntry(hour, minute uint8, enabled bool) (Entry, error) {
	var e Entry
	if err := e.SetHour(hour); err != nil {
		return Entry{}, err
	}
	if err := e.SetMinute(minute); err != nil {
		return Entry{}, err
	}
	e.enabled = enabled
	return e, nil
}

// SetHour sets the hour (0-23).
func (e *Entry) SetHour(h uint8) error {
	if h > 23 {
		return fmt.Errorf("alarm: hour %d out of range", h)
	}
	e.hour = h
	return nil
}

// SetMinute sets the minute (0-59).
func (e *Entry) SetMinute(m uint8) error {
	if m > 59 {
		return fmt.Errorf("alarm: minute %d out of range", m)
	}
	e.minute = m
	return nil
}

// SetEnabled arms or disarms the alarm.
func (e *Entry) SetEnabled(on bool) { e.enabled = on }

func (e Entry) Enabled() bool { return e.enabled }
func (e Entry) Hour() uint8   { return e.hour }
func (e Entry) Minute() uint8 { return e.minute }

// MustRing reports whether the alarm fires at now: enabled, on the exact
// minute rollover.
func (e Entry) MustRing(now rtc.DateTime) bool {
	return e.enabled && now.Second == 0 && now.Hour == e.hour && now.Minute == e.minute
}

func (e Entry) String() string {
	state := "off"
	if e.enabled {
		state = "on"
	}
	return fmt.Sprintf("%02d:%02d %s", e.hour, e.minute, state)
}

// Schedule is the fixed set of alarm entries.
type Schedule struct {
	entries [Size]Entry
}

// Entry returns entry i for modification. It panics if i is out of range.
func (s *Schedule) Entry(i int) *Entry {
	return &s.entries[i]
}

// Entries returns a copy of all entries.
func (s *Schedule) Entries() [Size]Entry {
	return s.entries
}

// MustRing reports whether any entry fires at now. Simultaneous matches are
// a single ring.
func (s *Schedule) MustRing(now rtc.DateTime) bool {
	for _, e := range s.entries {
		if e.MustRing(now) {
			return true
		}
	}
	return false
}
