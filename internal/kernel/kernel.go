// Package kernel runs a fixed table of interrupt tasks on one emulated core.
//
// Each task has a distinct static priority. A task runs to completion once
// dispatched and can only be preempted by a strictly higher priority task.
// Preemption nests on the caller's stack, as hardware interrupts do, and
// happens at preemption points: Pend, the end of a Lock, task return and idle.
// Interrupt lines raised from other goroutines (timers, device drivers) are
// taken at the next preemption point.
//
// Shared state is reached through Resource handles. A resource's ceiling is
// the highest priority among the tasks declared to use it; a lower priority
// user masks dispatch up to the ceiling for the duration of its access. The
// highest user, and a sole owner, access it directly.
package kernel

import (
	"context"
	"fmt"
	"log/slog"
	"math/bits"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// Priority is a static task priority. Larger values preempt smaller ones.
type Priority uint8

// Idle is the level of the core when no task is running.
const Idle Priority = 0

// IRQ is an interrupt line number.
type IRQ uint8

// MaxIRQ bounds the interrupt line numbers.
const MaxIRQ = 64

// Task is one entry of the task table.
type Task struct {
	Name     string
	IRQ      IRQ
	Priority Priority
	Handler  func()
}

// Fault is returned by Step and Run after a task panicked or an interrupt
// line without a task was raised. The core stays halted.
type Fault struct {
	IRQ   IRQ
	Task  string // empty for an unhandled interrupt
	Value any
	Stack []byte
}

func (f *Fault) Error() string {
	if f.Task == "" {
		return fmt.Sprintf("unhandled interrupt (IRQn = %d)", f.IRQ)
	}
	return fmt.Sprintf("fault in task %s (IRQn = %d): %v", f.Task, f.IRQ, f.Value)
}

type unhandled IRQ

// Core is the emulated processor. Raise is safe from any goroutine; every
// other method must be called from the goroutine running Step or Run.
type Core struct {
	log *slog.Logger

	mu      sync.Mutex
	pending uint64
	stray   IRQ // first line raised at or above MaxIRQ
	strayed bool
	wake    chan struct{}

	tasks   [MaxIRQ]*Task
	handled uint64

	level   Priority
	running *Task
	halted  *Fault

	dispatches [MaxIRQ]atomic.Uint64
}

// New validates the task table and creates a core.
func New(log *slog.Logger, tasks ...Task) (*Core, error) {
	c := &Core{
		log:  log,
		wake: make(chan struct{}, 1),
	}
	seen := make(map[Priority]string)
	for i := range tasks {
		t := tasks[i]
		switch {
		case t.Handler == nil:
			return nil, fmt.Errorf("kernel: task %s has no handler", t.Name)
		case t.Priority == Idle:
			return nil, fmt.Errorf("kernel: task %s has idle priority", t.Name)
		case t.IRQ >= MaxIRQ:
			return nil, fmt.Errorf("kernel: task %s: IRQ %d out of range", t.Name, t.IRQ)
		case c.tasks[t.IRQ] != nil:
			return nil, fmt.Errorf("kernel: tasks %s and %s share IRQ %d", c.tasks[t.IRQ].Name, t.Name, t.IRQ)
		}
		if other, ok := seen[t.Priority]; ok {
			return nil, fmt.Errorf("kernel: tasks %s and %s share priority %d", other, t.Name, t.Priority)
		}
		seen[t.Priority] = t.Name
		c.tasks[t.IRQ] = &t
		c.handled |= 1 << t.IRQ
	}
	return c, nil
}

// Raise marks irq pending and wakes the core. Safe from any goroutine.
func (c *Core) Raise(irq IRQ) {
	c.mu.Lock()
	if irq >= MaxIRQ {
		if !c.strayed {
			c.stray, c.strayed = irq, true
		}
	} else {
		c.pending |= 1 << irq
	}
	c.mu.Unlock()
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Pend marks irq pending from task context and dispatches it immediately if
// its priority is above the current level.
func (c *Core) Pend(irq IRQ) {
	c.Raise(irq)
	if c.running != nil {
		c.preempt()
	}
}

// Step dispatches pending tasks, highest priority first, until none is
// pending above idle. A panic escaping a task halts the core; Step then
// returns the *Fault, now and on every later call.
func (c *Core) Step() (err error) {
	if c.halted != nil {
		return c.halted
	}
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		f := &Fault{Value: r, Stack: debug.Stack()}
		if u, ok := r.(unhandled); ok {
			f.IRQ = IRQ(u)
			f.Value = nil
			f.Stack = nil
		} else if c.running != nil {
			f.IRQ = c.running.IRQ
			f.Task = c.running.Name
		}
		c.halted = f
		err = f
	}()
	c.preempt()
	return nil
}

// Run is the idle loop: it steps the core and sleeps until an interrupt is
// raised. It returns nil when ctx is done and the *Fault if the core halts.
func (c *Core) Run(ctx context.Context) error {
	for {
		if err := c.Step(); err != nil {
			c.log.Error("core halted", "err", err, "stack", string(c.halted.Stack))
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-c.wake:
		}
	}
}

// Halted returns the fault that stopped the core, or nil.
func (c *Core) Halted() *Fault {
	return c.halted
}

// Dispatches returns how many times the task on irq has run. Safe from any
// goroutine.
func (c *Core) Dispatches(irq IRQ) uint64 {
	if irq >= MaxIRQ {
		return 0
	}
	return c.dispatches[irq].Load()
}

// Tasks returns a copy of the task table ordered by IRQ.
func (c *Core) Tasks() []Task {
	var out []Task
	for _, t := range c.tasks {
		if t != nil {
			out = append(out, *t)
		}
	}
	return out
}

func (c *Core) task(irq IRQ) *Task {
	if irq >= MaxIRQ {
		return nil
	}
	return c.tasks[irq]
}

// preempt runs every pending task above the current level, highest first.
func (c *Core) preempt() {
	for {
		t := c.take()
		if t == nil {
			return
		}
		c.run(t)
	}
}

// take claims the highest priority pending task above the current level.
func (c *Core) take() *Task {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.strayed {
		c.strayed = false
		panic(unhandled(c.stray))
	}
	if stray := c.pending &^ c.handled; stray != 0 {
		for irq := 0; irq < MaxIRQ; irq++ {
			if stray&(1<<irq) != 0 {
				c.pending &^= 1 << irq
				panic(unhandled(irq))
			}
		}
	}

	var best *Task
	for p := c.pending; p != 0; {
		irq := bits.TrailingZeros64(p)
		p &^= 1 << irq
		t := c.tasks[irq]
		if t.Priority > c.level && (best == nil || t.Priority > best.Priority) {
			best = t
		}
	}
	if best != nil {
		c.pending &^= 1 << best.IRQ
	}
	return best
}

func (c *Core) run(t *Task) {
	prevLevel, prevRunning := c.level, c.running
	c.level, c.running = t.Priority, t
	c.dispatches[t.IRQ].Add(1)
	t.Handler()
	c.level, c.running = prevLevel, prevRunning
}

// mask raises the level to ceiling for the duration of fn, then dispatches
// whatever became pending meanwhile.
func (c *Core) mask(ceiling Priority, fn func()) {
	prev := c.level
	if ceiling > prev {
		c.level = ceiling
	}
	fn()
	c.level = prev
	c.preempt()
}
