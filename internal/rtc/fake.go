package rtc

import (
	"context"
	"errors"
	"time"
)

// Fake is a test double holding a settable counter.
type Fake struct {
	// Now is returned by Read.
	Now DateTime

	// Written records every successful Write.
	Written []DateTime

	// Acks counts Ack calls.
	Acks int

	// ReadError, if set, is returned by Read.
	ReadError error

	// WriteError, if set, is returned by Write.
	WriteError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFake creates a Fake reading now.
func NewFake(now DateTime) *Fake {
	return &Fake{Now: now}
}

// Read returns Now.
func (f *Fake) Read() (DateTime, error) {
	if f.ReadError != nil {
		return DateTime{}, f.ReadError
	}
	return f.Now, nil
}

// Write validates dt, records it and makes it the current time.
func (f *Fake) Write(dt DateTime) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	if _, err := dt.Epoch(); err != nil {
		return err
	}
	f.Written = append(f.Written, dt)
	f.Now = dt
	return nil
}

// Ack counts the acknowledgement.
func (f *Fake) Ack() { f.Acks++ }

// Seconds is not supported; tests raise the clock interrupt themselves.
func (f *Fake) Seconds(ctx context.Context, tick func()) error {
	return errors.New("rtc: fake clock has no interrupt source")
}

// Close marks the clock as closed.
func (f *Fake) Close() error {
	f.Closed = true
	return nil
}

// Advance moves Now forward by n seconds.
func (f *Fake) Advance(n int) {
	t, err := f.Now.Time()
	if err != nil {
		return
	}
	f.Now = FromTime(t.Add(time.Duration(n) * time.Second))
}
