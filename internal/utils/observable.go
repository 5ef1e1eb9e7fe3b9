// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import "sync"

// Observable holds a value of type T and notifies subscribers when it changes.
//
// Subscribers are invoked synchronously, in subscription order, on the
// goroutine that called Set or Update. Mutations are expected to happen on
// the main queue, so notifications arrive in the order the changes were made.
type Observable[T any] struct {
	mu     sync.RWMutex
	value  T
	nextID int
	subs   map[int]func(T)
	order  []int
	equal  func(a, b T) bool
}

// NewObservable returns an Observable holding initial. When equal is
// non-nil, a Set that stores an equal value does not notify.
func NewObservable[T any](initial T, equal func(a, b T) bool) *Observable[T] {
	return &Observable[T]{
		value: initial,
		subs:  make(map[int]func(T)),
		equal: equal,
	}
}

// Get returns the current value.
func (o *Observable[T]) Get() T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.value
}

// Set stores v and notifies subscribers. It reports whether subscribers
// were notified.
func (o *Observable[T]) Set(v T) bool {
	o.mu.Lock()
	if o.equal != nil && o.equal(o.value, v) {
		o.mu.Unlock()
		return false
	}
	o.value = v
	subs := o.snapshotLocked()
	o.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
	return true
}

// Update applies fn to the current value and stores the result. fn runs
// under the lock, so concurrent updates are not lost; it must not call back
// into o.
func (o *Observable[T]) Update(fn func(T) T) bool {
	o.mu.Lock()
	v := fn(o.value)
	if o.equal != nil && o.equal(o.value, v) {
		o.mu.Unlock()
		return false
	}
	o.value = v
	subs := o.snapshotLocked()
	o.mu.Unlock()

	for _, fn := range subs {
		fn(v)
	}
	return true
}

// Subscribe registers fn for future changes and returns a function that
// removes it.
func (o *Observable[T]) Subscribe(fn func(T)) (cancel func()) {
	o.mu.Lock()
	id := o.nextID
	o.nextID++
	o.subs[id] = fn
	o.order = append(o.order, id)
	o.mu.Unlock()

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.subs, id)
		for i, v := range o.order {
			if v == id {
				o.order = append(o.order[:i], o.order[i+1:]...)
				break
			}
		}
	}
}

func (o *Observable[T]) snapshotLocked() []func(T) {
	subs := make([]func(T), 0, len(o.order))
	for _, id := range o.order {
		subs = append(subs, o.subs[id])
	}
	return subs
}
