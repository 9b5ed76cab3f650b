// Package firmware wires the peripherals, the shared resources and the four
// interrupt tasks of the clock onto a kernel core.
//
// Task table, lowest priority first:
//
//	render    draws the UI model on the display
//	messages  drains the message queue through the UI and runs its commands
//	clock     1 Hz: reads the RTC, rings alarms, reads the sensor
//	poll      1 kHz: debounces the buttons, advances the alarm player
//
// Shared resources and their users:
//
//	queue   poll, clock, messages
//	model   messages, render
//	rtc     clock, messages
//	player  clock, poll
//
// Everything else is owned by a single task and needs no locking.
package firmware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sweeney/bedside-clock/internal/alarm"
	"github.com/sweeney/bedside-clock/internal/button"
	"github.com/sweeney/bedside-clock/internal/display"
	"github.com/sweeney/bedside-clock/internal/gpio"
	"github.com/sweeney/bedside-clock/internal/kernel"
	"github.com/sweeney/bedside-clock/internal/msgqueue"
	"github.com/sweeney/bedside-clock/internal/rtc"
	"github.com/sweeney/bedside-clock/internal/sensor"
	"github.com/sweeney/bedside-clock/internal/speaker"
	"github.com/sweeney/bedside-clock/internal/status"
	"github.com/sweeney/bedside-clock/internal/ui"
)

// Interrupt lines, numbered after the vector table of the board the clock
// was first built on.
const (
	IRQClock    kernel.IRQ = 3
	IRQRender   kernel.IRQ = 7
	IRQMessages kernel.IRQ = 8
	IRQPoll     kernel.IRQ = 29
)

// Task priorities.
const (
	PrioRender kernel.Priority = iota + 1
	PrioMessages
	PrioClock
	PrioPoll
)

// PollPeriod is the button and player sampling period.
const PollPeriod = time.Millisecond

// Peripherals are the devices the firmware drives. Each is handed to exactly
// one task at construction, or wrapped in a resource.
type Peripherals struct {
	Clock   rtc.Clock
	Sensor  sensor.Sensor
	Speaker speaker.Speaker
	Display display.Sink
	Buttons gpio.Reader
}

// Options configure the application behaviour.
type Options struct {
	Schedule  alarm.Schedule
	Melody    alarm.Melody
	Repeat    int
	Debounce  int           // samples
	Heartbeat time.Duration // 0 disables
}

// Firmware is the assembled clock. After New, drive it with Run, or with
// Core().Raise and Core().Step in tests.
type Firmware struct {
	log     *slog.Logger
	core    *kernel.Core
	tracker *status.Tracker
	clock   rtc.Clock

	poll     pollTask
	tick     clockTask
	messages messagesTask
	render   renderTask
}

type queue = msgqueue.Queue[ui.Msg]

// New builds the task table and resources. It seeds the RTC if it has never
// been set.
func New(log *slog.Logger, p Peripherals, opts Options, tracker *status.Tracker) (*Firmware, error) {
	switch {
	case p.Clock == nil, p.Sensor == nil, p.Speaker == nil, p.Display == nil, p.Buttons == nil:
		return nil, errors.New("firmware: missing peripheral")
	case tracker == nil:
		return nil, errors.New("firmware: missing status tracker")
	}

	f := &Firmware{log: log, tracker: tracker, clock: p.Clock}

	core, err := kernel.New(log,
		kernel.Task{Name: "render", IRQ: IRQRender, Priority: PrioRender, Handler: f.render.run},
		kernel.Task{Name: "messages", IRQ: IRQMessages, Priority: PrioMessages, Handler: f.messages.run},
		kernel.Task{Name: "clock", IRQ: IRQClock, Priority: PrioClock, Handler: f.tick.run},
		kernel.Task{Name: "poll", IRQ: IRQPoll, Priority: PrioPoll, Handler: f.poll.run},
	)
	if err != nil {
		return nil, err
	}
	f.core = core

	q, err := kernel.NewResource(core, "queue", msgqueue.New[ui.Msg](func() { core.Pend(IRQMessages) }),
		IRQPoll, IRQClock, IRQMessages)
	if err != nil {
		return nil, err
	}
	model, err := kernel.NewResource(core, "model", ui.NewModel(), IRQMessages, IRQRender)
	if err != nil {
		return nil, err
	}
	clock, err := kernel.NewResource(core, "rtc", p.Clock, IRQClock, IRQMessages)
	if err != nil {
		return nil, err
	}
	player, err := kernel.NewResource(core, "player", *alarm.NewPlayer(p.Speaker), IRQClock, IRQPoll)
	if err != nil {
		return nil, err
	}

	h := handles{}
	if err := h.take(q, model, clock, player); err != nil {
		return nil, err
	}

	f.poll = pollTask{
		buttons: p.Buttons,
		minus:   button.NewDebouncer(opts.Debounce),
		ok:      button.NewDebouncer(opts.Debounce),
		plus:    button.NewDebouncer(opts.Debounce),
		queue:   h.pollQueue,
		player:  h.pollPlayer,
		tracker: tracker,
	}
	f.tick = clockTask{
		log:       log,
		clock:     h.clockRTC,
		sensor:    p.Sensor,
		schedule:  opts.Schedule,
		melody:    opts.Melody,
		repeat:    opts.Repeat,
		queue:     h.clockQueue,
		player:    h.clockPlayer,
		tracker:   tracker,
		heartbeat: opts.Heartbeat,
		now:       time.Now,
	}
	f.messages = messagesTask{
		log:     log,
		core:    core,
		queue:   h.messagesQueue,
		model:   h.messagesModel,
		clock:   h.messagesRTC,
		tracker: tracker,
	}
	f.render = renderTask{
		model:   h.renderModel,
		display: p.Display,
		tracker: tracker,
	}

	seeded, err := rtc.SeedIfUnset(p.Clock)
	if err != nil {
		return nil, fmt.Errorf("seed rtc: %w", err)
	}
	if seeded {
		log.Info("rtc was unset, seeded", "datetime", rtc.DefaultDate)
	}
	return f, nil
}

// handles are the per-task accesses to the shared resources.
type handles struct {
	pollQueue     *kernel.Handle[queue]
	clockQueue    *kernel.Handle[queue]
	messagesQueue *kernel.Handle[queue]
	messagesModel *kernel.Handle[ui.Model]
	renderModel   *kernel.Handle[ui.Model]
	clockRTC      *kernel.Handle[rtc.Clock]
	messagesRTC   *kernel.Handle[rtc.Clock]
	clockPlayer   *kernel.Handle[alarm.Player]
	pollPlayer    *kernel.Handle[alarm.Player]
}

func (h *handles) take(q *kernel.Resource[queue], model *kernel.Resource[ui.Model],
	clock *kernel.Resource[rtc.Clock], player *kernel.Resource[alarm.Player]) error {
	var errs []error
	get := func(err error) {
		errs = append(errs, err)
	}
	var err error
	h.pollQueue, err = q.Handle(IRQPoll)
	get(err)
	h.clockQueue, err = q.Handle(IRQClock)
	get(err)
	h.messagesQueue, err = q.Handle(IRQMessages)
	get(err)
	h.messagesModel, err = model.Handle(IRQMessages)
	get(err)
	h.renderModel, err = model.Handle(IRQRender)
	get(err)
	h.clockRTC, err = clock.Handle(IRQClock)
	get(err)
	h.messagesRTC, err = clock.Handle(IRQMessages)
	get(err)
	h.clockPlayer, err = player.Handle(IRQClock)
	get(err)
	h.pollPlayer, err = player.Handle(IRQPoll)
	get(err)
	return errors.Join(errs...)
}

// Core returns the kernel core running the tasks.
func (f *Firmware) Core() *kernel.Core {
	return f.core
}

// Run starts the interrupt sources and the core. It returns nil when ctx is
// done, or the first error: a *kernel.Fault if a task faulted, or a failure
// of the RTC interrupt source.
func (f *Firmware) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return f.core.Run(ctx)
	})
	g.Go(func() error {
		t := time.NewTicker(PollPeriod)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-t.C:
				f.core.Raise(IRQPoll)
			}
		}
	})
	g.Go(func() error {
		if err := f.clock.Seconds(ctx, func() { f.core.Raise(IRQClock) }); err != nil {
			return fmt.Errorf("rtc interrupt: %w", err)
		}
		return nil
	})

	f.log.Info("firmware started", "tasks", len(f.core.Tasks()))
	return g.Wait()
}
