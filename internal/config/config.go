// Package config loads the clock configuration from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/bedside-clock/internal/alarm"
	"github.com/sweeney/bedside-clock/internal/gpio"
	"github.com/sweeney/bedside-clock/internal/rtc"
	"github.com/sweeney/bedside-clock/internal/sensor"
	"github.com/sweeney/bedside-clock/internal/speaker"
)

// DefaultPath is read when no --config is given. A missing file there is
// not an error.
const DefaultPath = "/etc/bedside-clock/config.yaml"

// Display kinds.
const (
	DisplayConsole = "console"
	DisplayOLED    = "oled"
)

// SoftRTC selects the software clock instead of a device.
const SoftRTC = "soft"

// Config represents the root configuration structure
type Config struct {
	Alarms    []Alarm       `yaml:"alarms"`
	Melody    string        `yaml:"melody"`
	Repeat    int           `yaml:"repeat"`
	Debounce  int           `yaml:"debounce_samples"`
	Heartbeat time.Duration `yaml:"heartbeat"`
	Log       LogConfig     `yaml:"log"`
	Devices   Devices       `yaml:"devices"`
}

// Alarm is one schedule entry. Time is "HH:MM", 24-hour.
type Alarm struct {
	Time    string `yaml:"time"`
	Enabled bool   `yaml:"enabled"`
}

// LogConfig holds logging preferences
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Devices names the hardware the clock is wired to.
type Devices struct {
	GPIOChip   string  `yaml:"gpio_chip"`
	Buttons    Buttons `yaml:"buttons"`
	RTC        string  `yaml:"rtc"`
	I2CBus     string  `yaml:"i2c_bus"`
	SensorAddr uint16  `yaml:"sensor_addr"`
	SpeakerPin string  `yaml:"speaker_pin"`
	Display    string  `yaml:"display"`
}

// Buttons are GPIO line offsets.
type Buttons struct {
	Minus int `yaml:"minus"`
	OK    int `yaml:"ok"`
	Plus  int `yaml:"plus"`
}

// Default returns the built-in configuration: one alarm at 23:16.
func Default() Config {
	return Config{
		Alarms:    []Alarm{{Time: "23:16", Enabled: true}},
		Melody:    "mario",
		Repeat:    5,
		Debounce:  5,
		Heartbeat: 15 * time.Minute,
		Log:       LogConfig{Level: "info"},
		Devices: Devices{
			GPIOChip:   gpio.DefaultChip,
			Buttons:    Buttons{Minus: gpio.DefaultPinMinus, OK: gpio.DefaultPinOK, Plus: gpio.DefaultPinPlus},
			RTC:        rtc.DefaultPath,
			I2CBus:     "",
			SensorAddr: sensor.DefaultAddr,
			SpeakerPin: speaker.DefaultPin,
			Display:    DisplayConsole,
		},
	}
}

// Load reads path over the defaults and validates the result. When explicit
// is false a missing file yields the defaults.
func Load(path string, explicit bool) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			cfg := Default()
			return cfg, cfg.Validate()
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	var errs []error
	if len(c.Alarms) > alarm.Size {
		errs = append(errs, fmt.Errorf("%d alarms configured, at most %d", len(c.Alarms), alarm.Size))
	}
	for i, a := range c.Alarms {
		if _, err := a.Entry(); err != nil {
			errs = append(errs, fmt.Errorf("alarms[%d]: %w", i, err))
		}
	}
	if _, ok := alarm.Lookup(c.Melody); !ok {
		errs = append(errs, fmt.Errorf("unknown melody %q (have %s)", c.Melody, strings.Join(alarm.Names(), ", ")))
	}
	if c.Repeat < 1 {
		errs = append(errs, fmt.Errorf("repeat must be at least 1, got %d", c.Repeat))
	}
	if c.Debounce < 1 {
		errs = append(errs, fmt.Errorf("debounce_samples must be at least 1, got %d", c.Debounce))
	}
	if c.Heartbeat < 0 {
		errs = append(errs, fmt.Errorf("heartbeat must not be negative, got %v", c.Heartbeat))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Devices.Display {
	case DisplayConsole, DisplayOLED:
	default:
		errs = append(errs, fmt.Errorf("unknown display %q (have %s, %s)", c.Devices.Display, DisplayConsole, DisplayOLED))
	}
	if c.Devices.RTC == "" {
		errs = append(errs, errors.New("devices.rtc must name a device or \"soft\""))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Entry converts the alarm to a schedule entry.
func (a Alarm) Entry() (alarm.Entry, error) {
	t, err := time.Parse("15:04", a.Time)
	if err != nil {
		return alarm.Entry{}, fmt.Errorf("time %q is not HH:MM", a.Time)
	}
	return alarm.NewEntry(uint8(t.Hour()), uint8(t.Minute()), a.Enabled)
}

// Schedule builds the alarm schedule. Entries beyond the configured ones
// stay disabled.
func (c Config) Schedule() (alarm.Schedule, error) {
	var s alarm.Schedule
	if len(c.Alarms) > alarm.Size {
		return s, fmt.Errorf("%d alarms configured, at most %d", len(c.Alarms), alarm.Size)
	}
	for i, a := range c.Alarms {
		e, err := a.Entry()
		if err != nil {
			return s, fmt.Errorf("alarms[%d]: %w", i, err)
		}
		*s.Entry(i) = e
	}
	return s, nil
}

// MelodyNotes returns the configured melody, or nil if it is unknown.
func (c Config) MelodyNotes() alarm.Melody {
	m, _ := alarm.Lookup(c.Melody)
	return m
}

// ParseLevel parses a log level name.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}
