package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/sweeney/bedside-clock/internal/rtc"
	"github.com/sweeney/bedside-clock/internal/sensor"
)

func TestViewClock(t *testing.T) {
	m := modelAt(rtc.FromEpoch(1535843740)) // 2018-09-01 23:15:40
	m.Update(EnvironmentMsg{Measurement: sensor.Measurement{Pressure: 101325, Temperature: 2153, Humidity: 41}})

	got, err := m.View()
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	want := "2018-09-01 23:15:40 Saturday\n\n" +
		"Temperature: 21.53 deg C\n" +
		"Pressure:    1013.25hPa\n" +
		"Humidity:    41%\n"
	if got != want {
		t.Errorf("View:\ngot  %q\nwant %q", got, want)
	}
}

func TestViewHidesZeroHumidity(t *testing.T) {
	m := modelAt(boot)
	m.Update(EnvironmentMsg{Measurement: sensor.Measurement{Pressure: 99000, Temperature: 1800}})

	got, err := m.View()
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if strings.Contains(got, "Humidity") {
		t.Errorf("View shows humidity: %q", got)
	}
}

func TestViewNegativeTemperature(t *testing.T) {
	tests := []struct {
		temp int16
		want string
	}{
		{-50, "-0.50"},
		{-1234, "-12.34"},
		{5, "0.05"},
		{0, "0.00"},
	}
	for _, tt := range tests {
		m := modelAt(boot)
		m.Update(EnvironmentMsg{Measurement: sensor.Measurement{Temperature: tt.temp}})
		got, err := m.View()
		if err != nil {
			t.Fatalf("View: %v", err)
		}
		if !strings.Contains(got, "Temperature: "+tt.want+" deg C\n") {
			t.Errorf("temp %d: got %q, want %s", tt.temp, got, tt.want)
		}
	}
}

func TestViewMenuAndSetClock(t *testing.T) {
	m := modelAt(boot)
	m.Update(ButtonOk{})
	got, _ := m.View()
	if !strings.HasSuffix(got, "\n\nMenu: clock\n") {
		t.Errorf("menu: got %q", got)
	}

	m.Update(ButtonPlus{})
	got, _ = m.View()
	if !strings.HasSuffix(got, "Menu: set clock\n") {
		t.Errorf("menu: got %q", got)
	}

	m.Update(ButtonOk{})
	got, _ = m.View()
	if !strings.HasSuffix(got, "Set clock: year: 2018\n") {
		t.Errorf("set clock: got %q", got)
	}

	m.Update(ButtonOk{})
	m.Update(ButtonOk{})
	m.Update(ButtonOk{})
	m.Update(ButtonOk{})
	got, _ = m.View()
	if !strings.HasSuffix(got, "Set clock: min: 15\n") {
		t.Errorf("set clock: got %q", got)
	}
}

func TestViewIsPure(t *testing.T) {
	m := modelAt(boot)
	m.Update(EnvironmentMsg{Measurement: sensor.Measurement{Pressure: 100000, Temperature: 2000, Humidity: 50}})
	before := m.Clone()

	a, errA := m.View()
	b, errB := m.View()
	if errA != nil || errB != nil {
		t.Fatalf("View: %v, %v", errA, errB)
	}
	if a != b {
		t.Errorf("View not idempotent:\n%q\n%q", a, b)
	}
	if m != before {
		t.Error("View mutated the model")
	}
}

func TestTextOverflow(t *testing.T) {
	var tx text
	if _, err := tx.Write(make([]byte, TextCapacity)); err != nil {
		t.Fatalf("exact fit: %v", err)
	}
	if _, err := tx.Write([]byte("x")); !errors.Is(err, ErrTextOverflow) {
		t.Errorf("got %v, want ErrTextOverflow", err)
	}
	if !tx.overflow {
		t.Error("overflow not latched")
	}
}
