package firmware

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/sweeney/bedside-clock/internal/alarm"
	"github.com/sweeney/bedside-clock/internal/button"
	"github.com/sweeney/bedside-clock/internal/display"
	"github.com/sweeney/bedside-clock/internal/gpio"
	"github.com/sweeney/bedside-clock/internal/kernel"
	"github.com/sweeney/bedside-clock/internal/msgqueue"
	"github.com/sweeney/bedside-clock/internal/rtc"
	"github.com/sweeney/bedside-clock/internal/sensor"
	"github.com/sweeney/bedside-clock/internal/status"
	"github.com/sweeney/bedside-clock/internal/ui"
)

// pollTask samples the buttons and advances the alarm player.
type pollTask struct {
	buttons         gpio.Reader
	minus, ok, plus *button.Debouncer
	queue           *kernel.Handle[queue]
	player          *kernel.Handle[alarm.Player]
	tracker         *status.Tracker
	playing         bool
}

func (t *pollTask) run() {
	lv, err := t.buttons.Read()
	if err != nil {
		panic(fmt.Errorf("read buttons: %w", err))
	}

	if t.minus.Poll(lv.Minus) == button.Pressed {
		t.push(ui.ButtonMinus{})
	}
	if t.ok.Poll(lv.OK) == button.Pressed {
		// OK doubles as the snooze button.
		t.player.Lock(func(p *alarm.Player) { p.Stop() })
		t.push(ui.ButtonOk{})
	}
	if t.plus.Poll(lv.Plus) == button.Pressed {
		t.push(ui.ButtonPlus{})
	}

	var playing bool
	t.player.Lock(func(p *alarm.Player) {
		p.Poll()
		playing = p.Playing()
	})
	if playing != t.playing {
		t.playing = playing
		t.tracker.SetPlaying(playing)
	}
}

func (t *pollTask) push(msg ui.Msg) {
	t.tracker.RecordPress()
	t.queue.Lock(func(q *queue) { q.Push(msg) })
}

// clockTask runs on every RTC second.
type clockTask struct {
	log       *slog.Logger
	clock     *kernel.Handle[rtc.Clock]
	sensor    sensor.Sensor
	schedule  alarm.Schedule
	melody    alarm.Melody
	repeat    int
	queue     *kernel.Handle[queue]
	player    *kernel.Handle[alarm.Player]
	tracker   *status.Tracker
	heartbeat time.Duration
	now       func() time.Time
}

func (t *clockTask) run() {
	var now rtc.DateTime
	var err error
	t.clock.Lock(func(c *rtc.Clock) {
		(*c).Ack()
		now, err = (*c).Read()
	})
	if err != nil {
		panic(fmt.Errorf("read rtc: %w", err))
	}

	if now.Second == 0 && t.schedule.MustRing(now) {
		t.log.Info("alarm", "datetime", now)
		t.tracker.RecordAlarm()
		t.player.Lock(func(p *alarm.Player) { p.Play(t.melody, t.repeat) })
	}
	t.queue.Lock(func(q *queue) { q.Push(ui.DateTimeMsg{DateTime: now}) })

	m, err := t.sensor.Measure()
	if err != nil {
		panic(fmt.Errorf("measure: %w", err))
	}
	t.queue.Lock(func(q *queue) { q.Push(ui.EnvironmentMsg{Measurement: m}) })

	t.tracker.RecordClock(now, m)
	if hb := t.tracker.CheckHeartbeat(t.now(), t.heartbeat); hb != nil {
		t.log.Info("heartbeat",
			"uptime", hb.Uptime.Truncate(time.Second),
			"presses", hb.Counts.Presses,
			"messages", hb.Counts.Messages,
			"frames", hb.Counts.Frames,
			"alarms", hb.Counts.AlarmsFired)
	}
}

// messagesTask folds queued messages into the UI model and executes the
// resulting commands.
type messagesTask struct {
	log     *slog.Logger
	core    *kernel.Core
	queue   *kernel.Handle[queue]
	model   *kernel.Handle[ui.Model]
	clock   *kernel.Handle[rtc.Clock]
	tracker *status.Tracker
}

func (t *messagesTask) run() {
	// Drain until empty: a higher priority producer may push while a batch
	// is being processed.
	var handled, highWater int
	for {
		var batch msgqueue.Batch[ui.Msg]
		t.queue.Lock(func(q *queue) {
			batch = q.DrainAll()
			highWater = q.HighWater()
		})
		if batch.Len() == 0 {
			break
		}
		for _, msg := range batch.Msgs() {
			var cmds ui.Cmds
			t.model.Lock(func(m *ui.Model) { cmds = m.Update(msg) })
			for _, cmd := range cmds.All() {
				t.exec(cmd)
			}
		}
		handled += batch.Len()
	}
	t.tracker.RecordMessages(handled, highWater)
	t.core.Pend(IRQRender)
}

func (t *messagesTask) exec(cmd ui.Cmd) {
	switch cmd := cmd.(type) {
	case ui.UpdateRtc:
		t.setClock(cmd.DateTime)
	default:
		panic(fmt.Sprintf("firmware: unknown command %T", cmd))
	}
}

// setClock writes the clock. Failures are logged and otherwise ignored: the
// user sees the old time and can set it again.
func (t *messagesTask) setClock(dt rtc.DateTime) {
	if _, err := dt.Epoch(); err != nil {
		t.log.Warn("clock set skipped", "datetime", dt, "err", err)
		t.tracker.RecordClockSet(false)
		return
	}
	var err error
	t.clock.Lock(func(c *rtc.Clock) { err = (*c).Write(dt) })
	if err != nil {
		t.log.Warn("rtc write failed", "datetime", dt, "err", err)
		t.tracker.RecordClockSet(false)
		return
	}
	t.log.Info("clock set", "datetime", dt)
	t.tracker.RecordClockSet(true)
}

// renderTask draws a snapshot of the model.
type renderTask struct {
	model   *kernel.Handle[ui.Model]
	display display.Sink
	tracker *status.Tracker
}

func (t *renderTask) run() {
	var m ui.Model
	t.model.Lock(func(v *ui.Model) { m = v.Clone() })

	text, err := m.View()
	if err != nil {
		panic(fmt.Errorf("render: %w", err))
	}
	if err := t.display.Show(text); err != nil {
		panic(fmt.Errorf("show: %w", err))
	}
	t.tracker.RecordFrame(fmt.Sprint(m.Screen()))
}
