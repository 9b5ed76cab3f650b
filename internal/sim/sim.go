package sim

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Firmware is what the simulator runs.
type Firmware interface {
	Run(ctx context.Context) error
}

// Run shows m, runs fw in the background and returns when the user quits.
// A firmware fault is shown on screen until then and returned.
func Run(ctx context.Context, fw Firmware, disp *Display, m Model, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(m, opts...)
	disp.Attach(p.Send)

	done := make(chan error, 1)
	go func() {
		err := fw.Run(ctx)
		done <- err
		p.Send(HaltMsg{Err: err})
	}()

	_, err := p.Run()
	cancel()
	fwErr := <-done
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("sim: %w", err)
	}
	return fwErr
}
