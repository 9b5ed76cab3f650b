package kernel

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const (
	irqLow  IRQ = 1
	irqMid  IRQ = 2
	irqHigh IRQ = 3
)

// recorder builds a three task core whose handlers append to a trace and
// run the optional body hooks.
type recorder struct {
	core  *Core
	trace []string
	body  map[IRQ]func()
}

func newRecorder(t *testing.T) *recorder {
	t.Helper()
	r := &recorder{body: make(map[IRQ]func())}
	task := func(name string, irq IRQ, prio Priority) Task {
		return Task{Name: name, IRQ: irq, Priority: prio, Handler: func() {
			r.trace = append(r.trace, name+"+")
			if fn := r.body[irq]; fn != nil {
				fn()
			}
			r.trace = append(r.trace, name+"-")
		}}
	}
	c, err := New(discard(),
		task("low", irqLow, 1),
		task("mid", irqMid, 2),
		task("high", irqHigh, 3),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.core = c
	return r
}

func (r *recorder) mark(s string) {
	r.trace = append(r.trace, s)
}

func TestNewValidatesTaskTable(t *testing.T) {
	h := func() {}
	tests := []struct {
		name  string
		tasks []Task
		want  string
	}{
		{"nil handler", []Task{{Name: "a", IRQ: 1, Priority: 1}}, "no handler"},
		{"idle priority", []Task{{Name: "a", IRQ: 1, Handler: h}}, "idle priority"},
		{"irq range", []Task{{Name: "a", IRQ: MaxIRQ, Priority: 1, Handler: h}}, "out of range"},
		{"shared irq", []Task{
			{Name: "a", IRQ: 1, Priority: 1, Handler: h},
			{Name: "b", IRQ: 1, Priority: 2, Handler: h},
		}, "share IRQ"},
		{"shared priority", []Task{
			{Name: "a", IRQ: 1, Priority: 1, Handler: h},
			{Name: "b", IRQ: 2, Priority: 1, Handler: h},
		}, "share priority"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(discard(), tt.tasks...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestStepRunsHighestPriorityFirst(t *testing.T) {
	r := newRecorder(t)
	r.core.Raise(irqLow)
	r.core.Raise(irqHigh)
	r.core.Raise(irqMid)

	if err := r.core.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}

	want := []string{"high+", "high-", "mid+", "mid-", "low+", "low-"}
	if !reflect.DeepEqual(r.trace, want) {
		t.Errorf("trace: got %v, want %v", r.trace, want)
	}
}

func TestStepWithNothingPending(t *testing.T) {
	r := newRecorder(t)
	if err := r.core.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if len(r.trace) != 0 {
		t.Errorf("expected no dispatch, got %v", r.trace)
	}
}

func TestPendHigherPriorityPreemptsImmediately(t *testing.T) {
	r := newRecorder(t)
	r.body[irqLow] = func() {
		r.mark("before")
		r.core.Pend(irqHigh)
		r.mark("after")
	}
	r.core.Raise(irqLow)
	r.core.Step()

	want := []string{"low+", "before", "high+", "high-", "after", "low-"}
	if !reflect.DeepEqual(r.trace, want) {
		t.Errorf("trace: got %v, want %v", r.trace, want)
	}
}

func TestPendLowerPriorityRunsAfterReturn(t *testing.T) {
	r := newRecorder(t)
	r.body[irqHigh] = func() {
		r.core.Pend(irqLow)
		r.mark("pended")
	}
	r.core.Raise(irqHigh)
	r.core.Step()

	want := []string{"high+", "pended", "high-", "low+", "low-"}
	if !reflect.DeepEqual(r.trace, want) {
		t.Errorf("trace: got %v, want %v", r.trace, want)
	}
}

func TestNestedPreemptionTailChains(t *testing.T) {
	r := newRecorder(t)
	r.body[irqLow] = func() { r.core.Pend(irqHigh) }
	// high pends mid: mid is above low, so it runs before low resumes.
	r.body[irqHigh] = func() { r.core.Pend(irqMid) }
	r.core.Raise(irqLow)
	r.core.Step()

	want := []string{"low+", "high+", "high-", "mid+", "mid-", "low-"}
	if !reflect.DeepEqual(r.trace, want) {
		t.Errorf("trace: got %v, want %v", r.trace, want)
	}
}

func TestDispatchCounts(t *testing.T) {
	r := newRecorder(t)
	r.core.Raise(irqMid)
	r.core.Step()
	r.core.Raise(irqMid)
	r.core.Raise(irqMid) // coalesces with the previous raise
	r.core.Step()

	if got := r.core.Dispatches(irqMid); got != 2 {
		t.Errorf("Dispatches(mid): got %d, want 2", got)
	}
	if got := r.core.Dispatches(irqLow); got != 0 {
		t.Errorf("Dispatches(low): got %d, want 0", got)
	}
}

func TestPanicHaltsCore(t *testing.T) {
	r := newRecorder(t)
	r.body[irqMid] = func() { panic("sensor: bus error") }
	r.core.Raise(irqMid)

	err := r.core.Step()
	var f *Fault
	if !errors.As(err, &f) {
		t.Fatalf("expected *Fault, got %v", err)
	}
	if f.Task != "mid" || f.IRQ != irqMid {
		t.Errorf("fault: got task %q irq %d", f.Task, f.IRQ)
	}
	if f.Value != "sensor: bus error" {
		t.Errorf("fault value: got %v", f.Value)
	}
	if len(f.Stack) == 0 {
		t.Error("expected a stack trace")
	}

	// Halted for good.
	r.core.Raise(irqLow)
	if err2 := r.core.Step(); err2 != err {
		t.Errorf("second Step: got %v, want same fault", err2)
	}
	if r.core.Halted() != f {
		t.Error("Halted should return the fault")
	}
}

func TestPanicInNestedTaskReportsInnermostTask(t *testing.T) {
	r := newRecorder(t)
	r.body[irqLow] = func() { r.core.Pend(irqHigh) }
	r.body[irqHigh] = func() { panic("boom") }
	r.core.Raise(irqLow)

	err := r.core.Step()
	var f *Fault
	if !errors.As(err, &f) {
		t.Fatalf("expected *Fault, got %v", err)
	}
	if f.Task != "high" {
		t.Errorf("fault task: got %q, want high", f.Task)
	}
}

func TestUnhandledInterruptHalts(t *testing.T) {
	r := newRecorder(t)
	r.core.Raise(9)

	err := r.core.Step()
	if err == nil {
		t.Fatal("expected fault")
	}
	if err.Error() != "unhandled interrupt (IRQn = 9)" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestOutOfRangeInterruptHalts(t *testing.T) {
	r := newRecorder(t)
	r.core.Raise(72) // would alias line 8 if folded into the pending set
	r.core.Raise(irqMid)

	err := r.core.Step()
	if err == nil {
		t.Fatal("expected fault")
	}
	if err.Error() != "unhandled interrupt (IRQn = 72)" {
		t.Errorf("unexpected error: %v", err)
	}
	if len(r.trace) != 0 {
		t.Errorf("trace: got %v, want no task run", r.trace)
	}
	if got := r.core.Dispatches(72); got != 0 {
		t.Errorf("Dispatches(72): got %d, want 0", got)
	}
	if got := r.core.Dispatches(72 % MaxIRQ); got != 0 {
		t.Errorf("Dispatches(%d): got %d, want 0", 72%MaxIRQ, got)
	}
}

func TestRunDispatchesRaisesFromOtherGoroutines(t *testing.T) {
	r := newRecorder(t)
	done := make(chan struct{})
	r.body[irqMid] = func() { close(done) }

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- r.core.Run(ctx) }()

	go r.core.Raise(irqMid)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("task never ran")
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunReturnsFault(t *testing.T) {
	r := newRecorder(t)
	r.body[irqLow] = func() { panic("display write failed") }
	r.core.Raise(irqLow)

	err := r.core.Run(context.Background())
	var f *Fault
	if !errors.As(err, &f) {
		t.Fatalf("expected *Fault, got %v", err)
	}
}

func TestRunLogsFaultStack(t *testing.T) {
	var logs strings.Builder
	c, err := New(slog.New(slog.NewTextHandler(&logs, nil)), Task{
		Name: "render", IRQ: irqLow, Priority: 1,
		Handler: func() { panic("display write failed") },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Raise(irqLow)

	if err := c.Run(context.Background()); err == nil {
		t.Fatal("expected fault")
	}
	out := logs.String()
	if !strings.Contains(out, "core halted") || !strings.Contains(out, "stack=") {
		t.Errorf("fault not logged with stack: %q", out)
	}
	if !strings.Contains(out, "runtime/debug.Stack") {
		t.Errorf("stack trace missing from log: %q", out)
	}
}

func TestTasksTable(t *testing.T) {
	r := newRecorder(t)
	tasks := r.core.Tasks()
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	if tasks[0].Name != "low" || tasks[2].Name != "high" {
		t.Errorf("unexpected order: %s, %s", tasks[0].Name, tasks[2].Name)
	}
}
