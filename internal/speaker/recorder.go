package speaker

import "sync/atomic"

// Recorder is a Speaker that records what it was asked to play.
// Current is safe to call from any goroutine.
type Recorder struct {
	// Tones holds every tone started, in order. Silence is recorded as 0.
	Tones []uint32

	// Quiet disables the Tones history; only Current is maintained.
	Quiet bool

	current atomic.Uint32
}

// Tone records hz.
func (r *Recorder) Tone(hz uint32) {
	if !r.Quiet {
		r.Tones = append(r.Tones, hz)
	}
	r.current.Store(hz)
}

// Silence records 0.
func (r *Recorder) Silence() {
	if !r.Quiet {
		r.Tones = append(r.Tones, 0)
	}
	r.current.Store(0)
}

// Current returns the frequency now playing, 0 when silent.
func (r *Recorder) Current() uint32 {
	return r.current.Load()
}

// Reset clears the record.
func (r *Recorder) Reset() {
	r.Tones = nil
	r.current.Store(0)
}
