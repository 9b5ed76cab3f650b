package kernel

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestResourceCeiling(t *testing.T) {
	r := newRecorder(t)

	res, err := NewResource(r.core, "queue", 0, irqLow, irqHigh)
	if err != nil {
		t.Fatalf("NewResource: %v", err)
	}
	if res.Ceiling() != 3 {
		t.Errorf("Ceiling: got %d, want 3", res.Ceiling())
	}

	low, _ := res.Handle(irqLow)
	high, _ := res.Handle(irqHigh)
	if low.Direct() {
		t.Error("low priority user must mask")
	}
	if !high.Direct() {
		t.Error("highest user must access directly")
	}
}

func TestResourceDeclarationErrors(t *testing.T) {
	r := newRecorder(t)

	if _, err := NewResource(r.core, "none", 0); err == nil {
		t.Error("expected error for resource without users")
	}
	if _, err := NewResource(r.core, "ghost", 0, 7); err == nil {
		t.Error("expected error for user without task")
	}

	res, _ := NewResource(r.core, "ui", 0, irqLow, irqMid)
	if _, err := res.Handle(irqHigh); err == nil {
		t.Error("expected error for handle of undeclared user")
	}
}

func TestLockMasksUpToCeiling(t *testing.T) {
	r := newRecorder(t)
	res, _ := NewResource(r.core, "queue", 0, irqLow, irqMid)
	h, _ := res.Handle(irqLow)

	r.body[irqLow] = func() {
		h.Lock(func(v *int) {
			r.mark("locked")
			// mid is at the ceiling: deferred until unlock.
			r.core.Pend(irqMid)
			// high is above the ceiling: runs at once.
			r.core.Pend(irqHigh)
			*v = 42
			r.mark("unlocking")
		})
		r.mark("unlocked")
	}
	r.core.Raise(irqLow)
	if err := r.core.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}

	want := []string{
		"low+", "locked", "high+", "high-", "unlocking",
		"mid+", "mid-", "unlocked", "low-",
	}
	if !reflect.DeepEqual(r.trace, want) {
		t.Errorf("trace: got %v, want %v", r.trace, want)
	}
	if res.value != 42 {
		t.Errorf("value: got %d, want 42", res.value)
	}
}

func TestLockRestoresLevel(t *testing.T) {
	r := newRecorder(t)
	res, _ := NewResource(r.core, "rtc", 0, irqLow, irqHigh)
	h, _ := res.Handle(irqLow)

	var inside, after Priority
	r.body[irqLow] = func() {
		h.Lock(func(*int) { inside = r.core.level })
		after = r.core.level
	}
	r.core.Raise(irqLow)
	r.core.Step()

	if inside != 3 {
		t.Errorf("level inside lock: got %d, want 3", inside)
	}
	if after != 1 {
		t.Errorf("level after lock: got %d, want 1", after)
	}
	if r.core.level != Idle {
		t.Errorf("level after task: got %d, want idle", r.core.level)
	}
}

func TestDirectLockDoesNotMask(t *testing.T) {
	r := newRecorder(t)
	res, _ := NewResource(r.core, "player", 0, irqMid, irqHigh)
	h, _ := res.Handle(irqHigh)

	var inside Priority
	r.body[irqHigh] = func() {
		h.Lock(func(*int) { inside = r.core.level })
	}
	r.core.Raise(irqHigh)
	r.core.Step()

	if inside != 3 {
		t.Errorf("level inside direct lock: got %d, want 3", inside)
	}
}

func TestLockFromWrongTaskFaults(t *testing.T) {
	r := newRecorder(t)
	res, _ := NewResource(r.core, "ui", 0, irqLow, irqMid)
	h, _ := res.Handle(irqLow)

	r.body[irqMid] = func() {
		h.Lock(func(*int) {})
	}
	r.core.Raise(irqMid)

	err := r.core.Step()
	var f *Fault
	if !errors.As(err, &f) {
		t.Fatalf("expected *Fault, got %v", err)
	}
	if !strings.Contains(f.Error(), "locked outside task low") {
		t.Errorf("unexpected fault: %v", f)
	}
}

func TestNestedLocks(t *testing.T) {
	r := newRecorder(t)
	a, _ := NewResource(r.core, "a", 0, irqLow, irqMid)
	b, _ := NewResource(r.core, "b", 0, irqLow, irqHigh)
	ha, _ := a.Handle(irqLow)
	hb, _ := b.Handle(irqLow)

	var levels []Priority
	r.body[irqLow] = func() {
		ha.Lock(func(*int) {
			levels = append(levels, r.core.level)
			hb.Lock(func(*int) {
				levels = append(levels, r.core.level)
			})
			levels = append(levels, r.core.level)
		})
		levels = append(levels, r.core.level)
	}
	r.core.Raise(irqLow)
	r.core.Step()

	want := []Priority{2, 3, 2, 1}
	if !reflect.DeepEqual(levels, want) {
		t.Errorf("levels: got %v, want %v", levels, want)
	}
}
