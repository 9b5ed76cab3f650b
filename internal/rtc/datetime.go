package rtc

import (
	"fmt"
	"time"
)

// Counter bounds. The hardware counter is 32 bits of seconds since the Unix
// epoch, which covers the years 1970 through 2105 completely.
const (
	MinYear = 1970
	MaxYear = 2105
)

// DateTime is a calendar point decoded from the RTC counter. It is a value
// type; copies are independent.
type DateTime struct {
	Year      uint16
	Month     uint8 // 1-12
	Day       uint8 // 1-31
	Hour      uint8
	Minute    uint8
	Second    uint8
	DayOfWeek time.Weekday
}

// FromEpoch decodes a counter value (seconds since 1970-01-01 UTC).
func FromEpoch(cnt uint32) DateTime {
	return FromTime(time.Unix(int64(cnt), 0))
}

// FromTime converts t (in UTC) to a DateTime, dropping sub-second precision.
func FromTime(t time.Time) DateTime {
	t = t.UTC()
	return DateTime{
		Year:      uint16(t.Year()),
		Month:     uint8(t.Month()),
		Day:       uint8(t.Day()),
		Hour:      uint8(t.Hour()),
		Minute:    uint8(t.Minute()),
		Second:    uint8(t.Second()),
		DayOfWeek: t.Weekday(),
	}
}

// Epoch encodes dt as a counter value. It fails when dt is not a real calendar
// point (31 February, hour 24, ...) or lies outside the counter range.
func (dt DateTime) Epoch() (uint32, error) {
	t, err := dt.Time()
	if err != nil {
		return 0, err
	}
	return uint32(t.Unix()), nil
}

// Time returns dt as a UTC time.Time. The DayOfWeek field is ignored; it is
// derived from the date.
func (dt DateTime) Time() (time.Time, error) {
	if dt.Year < MinYear || dt.Year > MaxYear {
		return time.Time{}, fmt.Errorf("rtc: year %d outside %d-%d", dt.Year, MinYear, MaxYear)
	}
	t := time.Date(int(dt.Year), time.Month(dt.Month), int(dt.Day),
		int(dt.Hour), int(dt.Minute), int(dt.Second), 0, time.UTC)
	if FromTime(t).withoutWeekday() != dt.withoutWeekday() {
		return time.Time{}, fmt.Errorf("rtc: invalid date %04d-%02d-%02d %02d:%02d:%02d",
			dt.Year, dt.Month, dt.Day, dt.Hour, dt.Minute, dt.Second)
	}
	return t, nil
}

func (dt DateTime) withoutWeekday() DateTime {
	dt.DayOfWeek = 0
	return dt
}

func (dt DateTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d %s",
		dt.Year, dt.Month, dt.Day, dt.Hour, dt.Minute, dt.Second, dt.DayOfWeek)
}
