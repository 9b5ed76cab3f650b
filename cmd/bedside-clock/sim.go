package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sweeney/bedside-clock/internal/firmware"
	"github.com/sweeney/bedside-clock/internal/gpio"
	"github.com/sweeney/bedside-clock/internal/rtc"
	"github.com/sweeney/bedside-clock/internal/sensor"
	"github.com/sweeney/bedside-clock/internal/sim"
	"github.com/sweeney/bedside-clock/internal/speaker"
	"github.com/sweeney/bedside-clock/internal/status"
)

// SimCmd runs the unchanged firmware in the terminal.
type SimCmd struct {
	Start string `help:"Start the clock at this UTC time instead of now (\"2006-01-02 15:04:05\")."`
}

func (c *SimCmd) Run(ctx *Context) error {
	log := ctx.newLogger(nil)
	defer log.Close()

	clock := rtc.NewSoft()
	if c.Start != "" {
		t, err := time.Parse(time.DateTime, c.Start)
		if err != nil {
			return fmt.Errorf("--start: %w", err)
		}
		if err := clock.Write(rtc.FromTime(t)); err != nil {
			return fmt.Errorf("--start: %w", err)
		}
	}

	opts, err := firmwareOptions(ctx.Config)
	if err != nil {
		return err
	}
	rec := &speaker.Recorder{Quiet: true}
	panel := gpio.NewVirtual()
	disp := &sim.Display{}
	tracker := status.NewTracker(time.Now(), statusConfig(ctx.Config))

	fw, err := firmware.New(log.Logger, firmware.Peripherals{
		Clock:   clock,
		Sensor:  &sensor.Synthetic{},
		Speaker: rec,
		Display: disp,
		Buttons: panel,
	}, opts, tracker)
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	return sim.Run(sigCtx, fw, disp, sim.NewModel(panel, rec, log), tea.WithAltScreen())
}
