package kernel

import "fmt"

// Resource is state shared between tasks. Its ceiling is fixed when it is
// created from the users it declares.
type Resource[T any] struct {
	core    *Core
	name    string
	users   uint64
	ceiling Priority
	value   T
}

// NewResource declares value as shared by the tasks on users.
func NewResource[T any](c *Core, name string, value T, users ...IRQ) (*Resource[T], error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("kernel: resource %s has no users", name)
	}
	r := &Resource[T]{core: c, name: name, value: value}
	for _, irq := range users {
		t := c.task(irq)
		if t == nil {
			return nil, fmt.Errorf("kernel: resource %s: no task on IRQ %d", name, irq)
		}
		r.users |= 1 << irq
		if t.Priority > r.ceiling {
			r.ceiling = t.Priority
		}
	}
	return r, nil
}

// Ceiling returns the highest priority among the resource's users.
func (r *Resource[T]) Ceiling() Priority {
	return r.ceiling
}

// Name returns the resource name.
func (r *Resource[T]) Name() string {
	return r.name
}

// Handle returns the access handle for the task on irq, which must be one of
// the declared users.
func (r *Resource[T]) Handle(irq IRQ) (*Handle[T], error) {
	t := r.core.task(irq)
	if t == nil || r.users&(1<<irq) == 0 {
		return nil, fmt.Errorf("kernel: IRQ %d is not a user of resource %s", irq, r.name)
	}
	return &Handle[T]{r: r, task: t, direct: t.Priority >= r.ceiling}, nil
}

// Handle is one task's access to a Resource.
type Handle[T any] struct {
	r      *Resource[T]
	task   *Task
	direct bool
}

// Lock runs fn with exclusive access to the value. Tasks below the ceiling
// mask dispatch up to it while fn runs; the highest user pays nothing.
// Lock must be called from the handle's own task.
func (h *Handle[T]) Lock(fn func(v *T)) {
	c := h.r.core
	if c.running != h.task {
		panic(fmt.Sprintf("kernel: resource %s locked outside task %s", h.r.name, h.task.Name))
	}
	if h.direct {
		fn(&h.r.value)
		return
	}
	c.mask(h.r.ceiling, func() { fn(&h.r.value) })
}

// Direct reports whether the handle accesses without masking.
func (h *Handle[T]) Direct() bool {
	return h.direct
}
