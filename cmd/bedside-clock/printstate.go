package main

import (
	"fmt"
	"io"
	"time"

	"periph.io/x/host/v3"

	"github.com/sweeney/bedside-clock/internal/config"
	"github.com/sweeney/bedside-clock/internal/rtc"
	"github.com/sweeney/bedside-clock/internal/sensor"
	"github.com/sweeney/bedside-clock/internal/status"
	"github.com/sweeney/bedside-clock/internal/ui"
)

// PrintStateCmd reads the clock and the sensor once and prints them.
type PrintStateCmd struct {
	JSON bool `help:"Print the status as JSON."`
}

func (c *PrintStateCmd) Run(ctx *Context) error {
	cfg := ctx.Config
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("init host: %w", err)
	}

	var clock rtc.Clock
	if cfg.Devices.RTC == config.SoftRTC {
		clock = rtc.NewSoft()
	} else {
		dev, err := rtc.Open(cfg.Devices.RTC)
		if err != nil {
			return fmt.Errorf("open rtc: %w", err)
		}
		clock = dev
	}
	defer clock.Close()

	s, err := sensor.OpenBME280(cfg.Devices.I2CBus, cfg.Devices.SensorAddr)
	if err != nil {
		return fmt.Errorf("open sensor: %w", err)
	}
	defer s.Close()

	return printState(ctx.Stdout, clock, s, cfg, c.JSON)
}

// printState writes one reading, as the clock screen would show it or as
// JSON.
func printState(w io.Writer, clock rtc.Clock, s sensor.Sensor, cfg config.Config, asJSON bool) error {
	now, err := clock.Read()
	if err != nil {
		return fmt.Errorf("read rtc: %w", err)
	}
	m, err := s.Measure()
	if err != nil {
		return fmt.Errorf("measure: %w", err)
	}

	if asJSON {
		tracker := status.NewTracker(time.Now(), statusConfig(cfg))
		tracker.RecordClock(now, m)
		_, err := fmt.Fprintf(w, "%s\n", status.FormatJSON(tracker.Snapshot()))
		return err
	}

	model := ui.NewModel()
	model.Update(ui.DateTimeMsg{DateTime: now})
	model.Update(ui.EnvironmentMsg{Measurement: m})
	text, err := model.View()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}
