// Package sim is a terminal front end that runs the clock firmware on
// simulated peripherals: keys for buttons, a box for the display and a tone
// readout for the speaker.
package sim

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sweeney/bedside-clock/internal/gpio"
	"github.com/sweeney/bedside-clock/internal/logger"
)

// TapDuration is how long a key press holds a button down.
const TapDuration = 60 * time.Millisecond

const refresh = 50 * time.Millisecond

// FrameMsg carries a rendered screen.
type FrameMsg struct {
	Text string
}

// HaltMsg reports that the firmware stopped.
type HaltMsg struct {
	Err error
}

type tickMsg time.Time

// Panel is the button input the simulator drives.
type Panel interface {
	Tap(b gpio.Button, d time.Duration)
}

// Tone reports the frequency the speaker is playing, 0 when silent.
type Tone interface {
	Current() uint32
}

// Model is the bubbletea model of the simulator.
type Model struct {
	keys  KeyMap
	help  help.Model
	panel Panel
	tone  Tone
	log   *logger.Logger

	frame    string
	hz       uint32
	warning  string
	halted   error
	quitting bool
}

// NewModel creates the simulator model. log may be nil.
func NewModel(panel Panel, tone Tone, log *logger.Logger) Model {
	return Model{
		keys:  DefaultKeyMap(),
		help:  help.New(),
		panel: panel,
		tone:  tone,
		log:   log,
		frame: "booting...",
	}
}

func tick() tea.Cmd {
	return tea.Tick(refresh, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case m.halted != nil:
			// Buttons do nothing on a halted clock.
		case key.Matches(msg, m.keys.Minus):
			m.panel.Tap(gpio.Minus, TapDuration)
		case key.Matches(msg, m.keys.OK):
			m.panel.Tap(gpio.OK, TapDuration)
		case key.Matches(msg, m.keys.Plus):
			m.panel.Tap(gpio.Plus, TapDuration)
		}

	case FrameMsg:
		m.frame = msg.Text

	case HaltMsg:
		m.halted = msg.Err
		if m.halted == nil {
			return m, tea.Quit
		}

	case tickMsg:
		m.hz = m.tone.Current()
		if m.log != nil {
			if recent := m.log.Recent(); len(recent) > 0 {
				last := recent[len(recent)-1]
				m.warning = fmt.Sprintf("%s %s: %s", last.Time.Format("15:04:05"), last.Level, last.Message)
			}
		}
		return m, tick()
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	speaker := silentStyle.Render("speaker: silent")
	if m.hz != 0 {
		speaker = toneStyle.Render(fmt.Sprintf("speaker: ♪ %d Hz", m.hz))
	}

	lines := []string{screenStyle.Render(m.frame), speaker}
	if m.warning != "" {
		lines = append(lines, warnStyle.Render(m.warning))
	}
	if m.halted != nil {
		lines = append(lines, haltStyle.Render("HALTED: "+m.halted.Error()), "power cycle (q) to recover")
	}
	lines = append(lines, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
