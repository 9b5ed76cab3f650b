package alarm

import "github.com/sweeney/bedside-clock/internal/speaker"

// Player plays a melody on a speaker, a fixed number of times. It is driven
// by Poll once per millisecond and never blocks.
type Player struct {
	spk speaker.Speaker

	melody  Melody
	repeats int    // passes left, including the current one; 0 when idle
	pos     int    // index of the current note
	left    uint32 // ms left on the current note
}

// NewPlayer returns an idle player.
func NewPlayer(spk speaker.Speaker) *Player {
	return &Player{spk: spk}
}

// Play starts m from the beginning, repeat times, replacing whatever is
// playing. A repeat below 1 or an empty melody stops the player.
func (p *Player) Play(m Melody, repeat int) {
	if repeat < 1 || len(m) == 0 {
		p.Stop()
		return
	}
	p.melody = m
	p.repeats = repeat
	p.start(0)
}

// Stop silences the speaker and returns to idle.
func (p *Player) Stop() {
	p.melody = nil
	p.repeats = 0
	p.pos = 0
	p.left = 0
	p.spk.Silence()
}

// Playing reports whether a melody is in progress.
func (p *Player) Playing() bool {
	return p.repeats > 0
}

// Poll advances playback by one millisecond.
func (p *Player) Poll() {
	if !p.Playing() {
		return
	}
	if p.left > 1 {
		p.left--
		return
	}
	next := p.pos + 1
	if next == len(p.melody) {
		p.repeats--
		if p.repeats == 0 {
			p.Stop()
			return
		}
		next = 0
	}
	p.start(next)
}

func (p *Player) start(i int) {
	n := p.melody[i]
	p.pos = i
	p.left = n.Duration
	if p.left == 0 {
		p.left = 1
	}
	if n.Freq == 0 {
		p.spk.Silence()
		return
	}
	p.spk.Tone(n.Freq)
}
