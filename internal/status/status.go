// Package status provides a thread-safe status tracker for the bedside clock.
// The firmware tasks write it; the heartbeat, print-state and the simulator
// read it.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/bedside-clock/internal/rtc"
	"github.com/sweeney/bedside-clock/internal/sensor"
)

// Config contains daemon configuration for display.
type Config struct {
	DebounceSamples int
	HeartbeatMs     int64
	Melody          string
	Repeat          int
	Alarms          []string
	Clock           string
	Display         string
}

// Counts are event totals since startup.
type Counts struct {
	Presses          int
	Messages         int
	Frames           int
	AlarmsFired      int
	ClockSets        int
	ClockSetFailures int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Time           rtc.DateTime
	Env            sensor.Measurement
	Screen         string
	Playing        bool
	QueueHighWater int
	LongestPass    int // most messages handled by one messages dispatch
	Counts         Counts
	StartTime      time.Time
	Now            time.Time
	Config         Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Heartbeat is emitted periodically with uptime and counters.
type Heartbeat struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    Counts
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu            sync.RWMutex
	snap          Snapshot
	lastHeartbeat time.Time
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Screen:    "clock",
			Config:    cfg,
		},
		lastHeartbeat: startTime,
	}
}

// RecordClock stores the time and measurement of the last clock tick.
func (t *Tracker) RecordClock(dt rtc.DateTime, m sensor.Measurement) {
	t.mu.Lock()
	t.snap.Time = dt
	t.snap.Env = m
	t.mu.Unlock()
}

// RecordMessages records one messages dispatch that handled n messages,
// and the queue's high-water mark.
func (t *Tracker) RecordMessages(n, highWater int) {
	t.mu.Lock()
	t.snap.Counts.Messages += n
	if n > t.snap.LongestPass {
		t.snap.LongestPass = n
	}
	if highWater > t.snap.QueueHighWater {
		t.snap.QueueHighWater = highWater
	}
	t.mu.Unlock()
}

// RecordFrame counts a rendered frame showing screen.
func (t *Tracker) RecordFrame(screen string) {
	t.mu.Lock()
	t.snap.Counts.Frames++
	t.snap.Screen = screen
	t.mu.Unlock()
}

// RecordPress counts a debounced button press.
func (t *Tracker) RecordPress() {
	t.mu.Lock()
	t.snap.Counts.Presses++
	t.mu.Unlock()
}

// RecordAlarm counts an alarm ring.
func (t *Tracker) RecordAlarm() {
	t.mu.Lock()
	t.snap.Counts.AlarmsFired++
	t.mu.Unlock()
}

// RecordClockSet counts a clock set from the menu, successful or not.
func (t *Tracker) RecordClockSet(ok bool) {
	t.mu.Lock()
	if ok {
		t.snap.Counts.ClockSets++
	} else {
		t.snap.Counts.ClockSetFailures++
	}
	t.mu.Unlock()
}

// SetPlaying sets whether the alarm melody is playing.
func (t *Tracker) SetPlaying(playing bool) {
	t.mu.Lock()
	t.snap.Playing = playing
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if the interval has not elapsed, or
// if interval is <= 0 (disabled).
func (t *Tracker) CheckHeartbeat(now time.Time, interval time.Duration) *Heartbeat {
	if interval <= 0 {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if now.Sub(t.lastHeartbeat) < interval {
		return nil
	}

	t.lastHeartbeat = now
	return &Heartbeat{
		Timestamp: now,
		Uptime:    now.Sub(t.snap.StartTime),
		Counts:    t.snap.Counts,
	}
}
