package alarm

import "sort"

// Note is a tone held for a duration. A zero frequency is a rest.
type Note struct {
	Freq     uint32 // Hz
	Duration uint32 // ms
}

// Melody is a sequence of notes played in order.
type Melody []Note

// Duration returns the length of one pass in milliseconds.
func (m Melody) Duration() uint32 {
	var d uint32
	for _, n := range m {
		d += n.Duration
	}
	return d
}

const (
	g4 = 392
	c5 = 523
	e5 = 659
	g5 = 784
	a5 = 880
)

// Mario is the opening of the Super Mario Bros. overworld theme.
var Mario = Melody{
	{e5, 90}, {0, 10},
	{e5, 90}, {0, 110},
	{e5, 90}, {0, 110},
	{c5, 90}, {0, 10},
	{e5, 90}, {0, 110},
	{g5, 90}, {0, 310},
	{g4, 90}, {0, 310},
}

// Beep is a plain double beep followed by a pause.
var Beep = Melody{
	{a5, 100}, {0, 100},
	{a5, 100}, {0, 700},
}

var melodies = map[string]Melody{
	"mario": Mario,
	"beep":  Beep,
}

// Lookup returns the built-in melody called name.
func Lookup(name string) (Melody, bool) {
	m, ok := melodies[name]
	return m, ok
}

// Names returns the built-in melody names, sorted.
func Names() []string {
	names := make([]string, 0, len(melodies))
	for n := range melodies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
