package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"periph.io/x/host/v3"

	"github.com/sweeney/bedside-clock/internal/config"
	"github.com/sweeney/bedside-clock/internal/display"
	"github.com/sweeney/bedside-clock/internal/firmware"
	"github.com/sweeney/bedside-clock/internal/gpio"
	"github.com/sweeney/bedside-clock/internal/rtc"
	"github.com/sweeney/bedside-clock/internal/sensor"
	"github.com/sweeney/bedside-clock/internal/speaker"
	"github.com/sweeney/bedside-clock/internal/status"
)

// RunCmd runs the clock on real hardware until SIGINT or SIGTERM, or until a
// fault halts it.
type RunCmd struct{}

func (c *RunCmd) Run(ctx *Context) error {
	log := ctx.newLogger(ctx.Stderr)
	defer log.Close()
	cfg := ctx.Config

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("init host: %w", err)
	}

	var closers closeList
	defer closers.close(log.Logger)

	p, err := openHardware(cfg, log.Logger, ctx.Stdout, &closers)
	if err != nil {
		return err
	}

	opts, err := firmwareOptions(cfg)
	if err != nil {
		return err
	}
	tracker := status.NewTracker(time.Now(), statusConfig(cfg))
	fw, err := firmware.New(log.Logger, p, opts, tracker)
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("started", "status", string(status.FormatStatusEvent(tracker.Snapshot(), "STARTUP")))
	err = fw.Run(sigCtx)
	log.Info("stopped", "status", string(status.FormatStatusEvent(tracker.Snapshot(), "SHUTDOWN")))
	return err
}

// openHardware opens every peripheral named by cfg. Each opened device is
// added to closers, also on error.
func openHardware(cfg config.Config, log *slog.Logger, stdout io.Writer, closers *closeList) (firmware.Peripherals, error) {
	var p firmware.Peripherals
	d := cfg.Devices

	if d.RTC == config.SoftRTC {
		p.Clock = rtc.NewSoft()
	} else {
		dev, err := rtc.Open(d.RTC)
		if err != nil {
			return p, fmt.Errorf("open rtc: %w", err)
		}
		closers.add("rtc", dev)
		p.Clock = dev
	}

	buttons, err := gpio.NewRealReader(d.GPIOChip, gpio.Pins{Minus: d.Buttons.Minus, OK: d.Buttons.OK, Plus: d.Buttons.Plus})
	if err != nil {
		return p, fmt.Errorf("init gpio: %w", err)
	}
	closers.add("gpio", buttons)
	p.Buttons = buttons

	bme, err := sensor.OpenBME280(d.I2CBus, d.SensorAddr)
	if err != nil {
		return p, fmt.Errorf("open sensor: %w", err)
	}
	closers.add("sensor", bme)
	p.Sensor = bme

	spk, err := speaker.OpenPWM(d.SpeakerPin, log)
	if err != nil {
		return p, fmt.Errorf("open speaker: %w", err)
	}
	closers.add("speaker", spk)
	p.Speaker = spk

	switch d.Display {
	case config.DisplayOLED:
		oled, err := display.OpenOLED(d.I2CBus)
		if err != nil {
			return p, fmt.Errorf("open display: %w", err)
		}
		closers.add("display", oled)
		p.Display = oled
	default:
		p.Display = display.NewConsole(stdout)
	}
	return p, nil
}

// firmwareOptions converts the configuration for the firmware.
func firmwareOptions(cfg config.Config) (firmware.Options, error) {
	s, err := cfg.Schedule()
	if err != nil {
		return firmware.Options{}, err
	}
	m := cfg.MelodyNotes()
	if m == nil {
		return firmware.Options{}, fmt.Errorf("unknown melody %q", cfg.Melody)
	}
	return firmware.Options{
		Schedule:  s,
		Melody:    m,
		Repeat:    cfg.Repeat,
		Debounce:  cfg.Debounce,
		Heartbeat: cfg.Heartbeat,
	}, nil
}

func statusConfig(cfg config.Config) status.Config {
	alarms := make([]string, 0, len(cfg.Alarms))
	for _, a := range cfg.Alarms {
		if e, err := a.Entry(); err == nil {
			alarms = append(alarms, e.String())
		}
	}
	return status.Config{
		DebounceSamples: cfg.Debounce,
		HeartbeatMs:     cfg.Heartbeat.Milliseconds(),
		Melody:          cfg.Melody,
		Repeat:          cfg.Repeat,
		Alarms:          alarms,
		Clock:           cfg.Devices.RTC,
		Display:         cfg.Devices.Display,
	}
}

type namedCloser struct {
	name string
	c    io.Closer
}

// closeList closes devices in reverse order of opening.
type closeList []namedCloser

func (l *closeList) add(name string, c io.Closer) {
	*l = append(*l, namedCloser{name, c})
}

func (l *closeList) close(log *slog.Logger) error {
	var errs []error
	for i := len(*l) - 1; i >= 0; i-- {
		c := (*l)[i]
		if err := c.c.Close(); err != nil {
			log.Warn("close failed", "device", c.name, "err", err)
			errs = append(errs, fmt.Errorf("close %s: %w", c.name, err))
		}
	}
	return errors.Join(errs...)
}
