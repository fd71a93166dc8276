// Package refcount implements the shared, reference-counted ownership model
// described for resolv-conf and hints objects: a value is acquired once by
// each owner and released once; the last release runs a close function.
package refcount

import "go.uber.org/atomic"

// Box wraps a value with an atomic reference count, mirroring dns_resconf_acquire/
// dns_resconf_release and dns_hints_acquire/dns_hints_release from the original
// restartable resolver: construction starts the count at one (the caller's own
// reference), Acquire adds another, and Release runs closeFn exactly once when
// the count reaches zero.
type Box[T any] struct {
	Value   T
	count   atomic.Int32
	closeFn func(T)
}

// New creates a Box holding value, owned by exactly one reference. closeFn may
// be nil if the value needs no teardown.
func New[T any](value T, closeFn func(T)) *Box[T] {
	b := &Box[T]{Value: value, closeFn: closeFn}
	b.count.Store(1)
	return b
}

// Acquire increments the reference count and returns the new count.
func (b *Box[T]) Acquire() int32 {
	return b.count.Inc()
}

// Release decrements the reference count, running closeFn once it reaches
// zero. As with dns_resconf_release/dns_hints_release, callers must not
// release more times than they acquired; Release does not guard against it.
func (b *Box[T]) Release() int32 {
	n := b.count.Dec()
	if n == 0 && b.closeFn != nil {
		b.closeFn(b.Value)
	}
	return n
}

// Count returns the current reference count.
func (b *Box[T]) Count() int32 {
	return b.count.Load()
}
