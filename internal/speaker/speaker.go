// Package speaker drives the alarm buzzer.
package speaker

// Speaker emits a square-wave tone. Implementations must not block.
type Speaker interface {
	// Tone starts a tone at hz, replacing any tone already playing.
	Tone(hz uint32)
	// Silence stops output.
	Silence()
}
