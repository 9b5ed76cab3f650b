package display

import (
	"fmt"
	"io"
)

// Console writes each screen to w, followed by a separator line.
type Console struct {
	w io.Writer
}

// NewConsole creates a console sink.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Show writes text.
func (c *Console) Show(text string) error {
	if _, err := fmt.Fprintf(c.w, "%s----\n", text); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}
