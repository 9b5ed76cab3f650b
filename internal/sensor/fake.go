package sensor

import (
	"errors"
	"math"
)

// Fake is a test double that returns scripted measurements.
type Fake struct {
	// Samples contains scripted measurements.
	// Each call to Measure consumes the next one; the last repeats.
	Samples []Measurement

	index int

	// MeasureError, if set, is returned by Measure.
	MeasureError error

	// Calls counts Measure calls.
	Calls int
}

// NewFake creates a Fake with the given samples.
func NewFake(samples ...Measurement) *Fake {
	return &Fake{Samples: samples}
}

// Measure returns the next scripted sample.
func (f *Fake) Measure() (Measurement, error) {
	f.Calls++
	if f.MeasureError != nil {
		return Measurement{}, f.MeasureError
	}
	if len(f.Samples) == 0 {
		return Measurement{}, errors.New("no samples configured")
	}
	m := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return m, nil
}

// Close is a no-op.
func (f *Fake) Close() error { return nil }

// Synthetic produces slowly drifting plausible readings for the simulator.
type Synthetic struct {
	n int
}

// Measure returns the next synthetic reading.
func (s *Synthetic) Measure() (Measurement, error) {
	phase := float64(s.n) / 600 * 2 * math.Pi
	s.n++
	return Measurement{
		Pressure:    uint32(101325 + 250*math.Sin(phase)),
		Temperature: int16(2150 + 80*math.Sin(phase*3)),
		Humidity:    uint8(45 + 5*math.Cos(phase)),
	}, nil
}

// Close is a no-op.
func (s *Synthetic) Close() error { return nil }
