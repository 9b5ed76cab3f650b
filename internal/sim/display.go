package sim

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Display is a display.Sink that forwards frames to a running program.
// Frames shown before Attach are kept and delivered on Attach.
type Display struct {
	mu   sync.Mutex
	send func(tea.Msg)
	last *FrameMsg
}

// Attach starts delivering frames through send, usually (*tea.Program).Send.
func (d *Display) Attach(send func(tea.Msg)) {
	d.mu.Lock()
	d.send = send
	last := d.last
	d.mu.Unlock()
	if last != nil {
		send(*last)
	}
}

// Show forwards text. It never fails.
func (d *Display) Show(text string) error {
	msg := FrameMsg{Text: text}
	d.mu.Lock()
	send := d.send
	d.last = &msg
	d.mu.Unlock()
	if send != nil {
		send(msg)
	}
	return nil
}
