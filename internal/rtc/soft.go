package rtc

import (
	"context"
	"sync"
	"time"
)

// Soft is a clock kept in software on top of the host clock. Writes move an
// offset; nothing survives a restart.
type Soft struct {
	mu     sync.Mutex
	offset time.Duration
	now    func() time.Time
}

// NewSoft creates a software clock that follows the host clock.
func NewSoft() *Soft {
	return &Soft{now: time.Now}
}

// Read returns host time plus the offset.
func (s *Soft) Read() (DateTime, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FromTime(s.now().Add(s.offset)), nil
}

// Write moves the offset so that Read returns dt now.
func (s *Soft) Write(dt DateTime) error {
	t, err := dt.Time()
	if err != nil {
		return err
	}
	s.mu.Lock()
	now := s.now().Truncate(time.Second)
	s.offset = t.Sub(now)
	s.mu.Unlock()
	return nil
}

// Ack is a no-op.
func (s *Soft) Ack() {}

// Seconds ticks on host second boundaries.
func (s *Soft) Seconds(ctx context.Context, tick func()) error {
	for {
		now := s.now()
		wait := now.Truncate(time.Second).Add(time.Second).Sub(now)
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil
		case <-t.C:
			tick()
		}
	}
}

// Close is a no-op.
func (s *Soft) Close() error { return nil }
