// Package msgqueue is the bounded FIFO carrying events from producer tasks to
// the message task.
package msgqueue

import (
	"errors"
	"fmt"
)

// Capacity is the number of messages the queue holds.
const Capacity = 16

// ErrFull is the panic value of Push on a full queue. Producers outrunning the
// consumer is a sizing bug, not a condition to recover from.
var ErrFull = errors.New("msg queue full")

// Queue is a fixed-capacity FIFO. Not safe for concurrent use; in the firmware
// it lives inside a kernel resource.
type Queue[T any] struct {
	buf       [Capacity]T
	n         int
	highWater int
	notify    func()
}

// New creates a queue. notify, if non-nil, is called after every successful
// push; the firmware uses it to pend the consumer task.
func New[T any](notify func()) Queue[T] {
	return Queue[T]{notify: notify}
}

// Push appends msg. It panics with ErrFull when the queue is full.
func (q *Queue[T]) Push(msg T) {
	if q.n == Capacity {
		panic(fmt.Errorf("%w (%d messages)", ErrFull, Capacity))
	}
	q.buf[q.n] = msg
	q.n++
	if q.n > q.highWater {
		q.highWater = q.n
	}
	if q.notify != nil {
		q.notify()
	}
}

// DrainAll swaps out the whole content, leaving the queue empty. The returned
// batch is independent of the queue, so pushes racing with its processing are
// not lost; callers loop until a drain comes back empty.
func (q *Queue[T]) DrainAll() Batch[T] {
	b := Batch[T]{msgs: q.buf, n: q.n}
	q.buf = [Capacity]T{}
	q.n = 0
	return b
}

// Len returns the number of queued messages.
func (q *Queue[T]) Len() int {
	return q.n
}

// HighWater returns the largest length the queue has reached.
func (q *Queue[T]) HighWater() int {
	return q.highWater
}

// Batch is the content of one drain, oldest first.
type Batch[T any] struct {
	msgs [Capacity]T
	n    int
}

// Len returns the number of messages in the batch.
func (b *Batch[T]) Len() int {
	return b.n
}

// Msgs returns the messages in push order.
func (b *Batch[T]) Msgs() []T {
	return b.msgs[:b.n]
}
