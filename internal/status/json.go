package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event          string          `json:"event,omitempty"`
	Time           string          `json:"time"`
	Environment    EnvironmentJSON `json:"environment"`
	Screen         string          `json:"screen,omitempty"`
	Playing        bool            `json:"playing"`
	QueueHighWater int             `json:"queue_high_water"`
	LongestPass    int             `json:"longest_drain_pass"`
	UptimeSeconds  int64           `json:"uptime_seconds"`
	StartTime      string          `json:"start_time"`
	Timestamp      string          `json:"timestamp"`
	Counts         CountsJSON      `json:"event_counts"`
	Config         ConfigJSON      `json:"config"`
}

// EnvironmentJSON is the JSON representation of a measurement.
type EnvironmentJSON struct {
	TemperatureC float64 `json:"temperature_c"`
	PressureHPa  float64 `json:"pressure_hpa"`
	HumidityPct  *uint8  `json:"humidity_pct,omitempty"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Presses          int `json:"presses"`
	Messages         int `json:"messages"`
	Frames           int `json:"frames"`
	AlarmsFired      int `json:"alarms_fired"`
	ClockSets        int `json:"clock_sets"`
	ClockSetFailures int `json:"clock_set_failures"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	DebounceSamples int      `json:"debounce_samples"`
	HeartbeatMs     int64    `json:"heartbeat_ms"`
	Melody          string   `json:"melody"`
	Repeat          int      `json:"repeat"`
	Alarms          []string `json:"alarms"`
	Clock           string   `json:"clock,omitempty"`
	Display         string   `json:"display,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	env := EnvironmentJSON{
		TemperatureC: float64(snap.Env.Temperature) / 100,
		PressureHPa:  float64(snap.Env.Pressure) / 100,
	}
	if snap.Env.Humidity != 0 {
		h := snap.Env.Humidity
		env.HumidityPct = &h
	}

	return StatusInner{
		Time:           snap.Time.String(),
		Environment:    env,
		Screen:         snap.Screen,
		Playing:        snap.Playing,
		QueueHighWater: snap.QueueHighWater,
		LongestPass:    snap.LongestPass,
		UptimeSeconds:  int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:      snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:      snap.Now.UTC().Format(time.RFC3339),
		Counts: CountsJSON{
			Presses:          snap.Counts.Presses,
			Messages:         snap.Counts.Messages,
			Frames:           snap.Counts.Frames,
			AlarmsFired:      snap.Counts.AlarmsFired,
			ClockSets:        snap.Counts.ClockSets,
			ClockSetFailures: snap.Counts.ClockSetFailures,
		},
		Config: ConfigJSON{
			DebounceSamples: snap.Config.DebounceSamples,
			HeartbeatMs:     snap.Config.HeartbeatMs,
			Melody:          snap.Config.Melody,
			Repeat:          snap.Config.Repeat,
			Alarms:          snap.Config.Alarms,
			Clock:           snap.Config.Clock,
			Display:         snap.Config.Display,
		},
	}
}

// FormatJSON returns the indented JSON status for print-state.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the single-line JSON status for a log event
// (STARTUP, HEARTBEAT, SHUTDOWN).
func FormatStatusEvent(snap Snapshot, event string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
