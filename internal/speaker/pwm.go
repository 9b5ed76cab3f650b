package speaker

import (
	"fmt"
	"log/slog"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
)

// DefaultPin is the hardware PWM capable pin the buzzer is wired to.
const DefaultPin = "GPIO18"

// PWM drives a passive buzzer from a PWM capable GPIO pin.
// periph.io/x/host must be initialised before OpenPWM.
type PWM struct {
	pin gpio.PinIO
	log *slog.Logger
	hz  uint32
}

// OpenPWM looks up the named pin and silences it.
func OpenPWM(name string, log *slog.Logger) (*PWM, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("speaker: unknown pin %q", name)
	}
	if err := pin.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("speaker: configure %s: %w", name, err)
	}
	return &PWM{pin: pin, log: log}, nil
}

// Tone starts a 50% duty square wave at hz.
func (p *PWM) Tone(hz uint32) {
	if hz == 0 {
		p.Silence()
		return
	}
	if hz == p.hz {
		return
	}
	if err := p.pin.PWM(gpio.DutyHalf, physic.Frequency(hz)*physic.Hertz); err != nil {
		p.log.Warn("speaker tone failed", "hz", hz, "err", err)
		return
	}
	p.hz = hz
}

// Silence drives the pin low.
func (p *PWM) Silence() {
	if p.hz == 0 {
		return
	}
	if err := p.pin.Out(gpio.Low); err != nil {
		p.log.Warn("speaker silence failed", "err", err)
		return
	}
	p.hz = 0
}

// Close silences the buzzer and halts the pin.
func (p *PWM) Close() error {
	p.Silence()
	return p.pin.Halt()
}
