// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObservable_SetNotifiesInOrder(t *testing.T) {
	o := NewObservable(0, nil)

	var got []string
	o.Subscribe(func(v int) { got = append(got, "first") })
	o.Subscribe(func(v int) { got = append(got, "second") })

	assert.True(t, o.Set(1))
	assert.Equal(t, 1, o.Get())
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestObservable_EqualValueIsSilent(t *testing.T) {
	o := NewObservable(true, func(a, b bool) bool { return a == b })

	calls := 0
	o.Subscribe(func(bool) { calls++ })

	assert.False(t, o.Set(true))
	assert.True(t, o.Set(false))
	assert.False(t, o.Set(false))
	assert.Equal(t, 1, calls)
}

func TestObservable_Cancel(t *testing.T) {
	o := NewObservable("", nil)

	calls := 0
	cancel := o.Subscribe(func(string) { calls++ })
	o.Set("a")
	cancel()
	o.Set("b")

	assert.Equal(t, 1, calls)
	assert.Equal(t, "b", o.Get())
}

func TestObservable_Update(t *testing.T) {
	o := NewObservable(1, nil)

	var seen int
	o.Subscribe(func(v int) { seen = v })
	o.Update(func(v int) int { return v + 41 })

	assert.Equal(t, 42, seen)
}
