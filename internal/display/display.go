// Package display shows rendered screen text.
package display

// Sink accepts a complete screen of text.
type Sink interface {
	Show(text string) error
}
