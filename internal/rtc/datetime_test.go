package rtc

import (
	"testing"
	"time"
)

func TestFromEpoch(t *testing.T) {
	// 2018-09-01 23:15:40 UTC
	dt := FromEpoch(1535843740)
	want := DateTime{Year: 2018, Month: 9, Day: 1, Hour: 23, Minute: 15, Second: 40, DayOfWeek: time.Saturday}
	if dt != want {
		t.Errorf("FromEpoch: got %+v, want %+v", dt, want)
	}
}

func TestEpochRoundTrip(t *testing.T) {
	for _, cnt := range []uint32{0, 100, 1535843740, 4102444800} {
		got, err := FromEpoch(cnt).Epoch()
		if err != nil {
			t.Errorf("cnt %d: unexpected error: %v", cnt, err)
			continue
		}
		if got != cnt {
			t.Errorf("cnt %d: round trip gave %d", cnt, got)
		}
	}
}

func TestEpochRejectsInvalidDates(t *testing.T) {
	tests := []struct {
		name string
		dt   DateTime
	}{
		{"31 February", DateTime{Year: 2020, Month: 2, Day: 31}},
		{"month 13", DateTime{Year: 2020, Month: 13, Day: 1}},
		{"day 0", DateTime{Year: 2020, Month: 1, Day: 0}},
		{"hour 24", DateTime{Year: 2020, Month: 1, Day: 1, Hour: 24}},
		{"before 1970", DateTime{Year: 1969, Month: 12, Day: 31}},
		{"after 2105", DateTime{Year: 2106, Month: 1, Day: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.dt.Epoch(); err == nil {
				t.Errorf("expected error for %+v", tt.dt)
			}
		})
	}
}

func TestEpochIgnoresDayOfWeek(t *testing.T) {
	dt := DateTime{Year: 2018, Month: 9, Day: 1, Hour: 23, Minute: 15, Second: 40, DayOfWeek: time.Wednesday}
	cnt, err := dt.Epoch()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cnt != 1535843740 {
		t.Errorf("got %d, want 1535843740", cnt)
	}
}

func TestDateTimeString(t *testing.T) {
	dt := DateTime{Year: 2018, Month: 9, Day: 1, Hour: 3, Minute: 5, Second: 7, DayOfWeek: time.Saturday}
	if got := dt.String(); got != "2018-09-01 03:05:07 Saturday" {
		t.Errorf("String: got %q", got)
	}
}

func TestSeedIfUnset(t *testing.T) {
	f := NewFake(FromEpoch(5))

	seeded, err := SeedIfUnset(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !seeded {
		t.Fatal("expected clock to be seeded")
	}
	if f.Now != DefaultDate {
		t.Errorf("Now: got %v, want %v", f.Now, DefaultDate)
	}

	seeded, err = SeedIfUnset(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seeded {
		t.Error("clock already set, should not seed again")
	}
	if len(f.Written) != 1 {
		t.Errorf("expected 1 write, got %d", len(f.Written))
	}
}

func TestSoftWriteMovesClock(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := &Soft{now: func() time.Time { return base }}

	want := DateTime{Year: 2030, Month: 6, Day: 15, Hour: 7, Minute: 30, Second: 0, DayOfWeek: time.Saturday}
	if err := s.Write(want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := s.Read()
	if got != want {
		t.Errorf("Read: got %v, want %v", got, want)
	}

	base = base.Add(90 * time.Second)
	got, _ = s.Read()
	if got.Minute != 31 || got.Second != 30 {
		t.Errorf("clock did not advance with host time: %v", got)
	}
}

func TestFakeAdvance(t *testing.T) {
	f := NewFake(DateTime{Year: 2026, Month: 12, Day: 31, Hour: 23, Minute: 59, Second: 59})
	f.Advance(1)
	want := DateTime{Year: 2027, Month: 1, Day: 1, DayOfWeek: time.Friday}
	if f.Now != want {
		t.Errorf("Advance: got %v, want %v", f.Now, want)
	}
}
