// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package arena implements a fixed-capacity generational slab: a slot
// vector with a free-list threaded through the unused slots.  It is
// the value-typed, pointer-free replacement for owning-reference
// graphs, used as the backing store for [git.lukeshu.com/distcache/lib/containers.List].
package arena

import "fmt"

// Index identifies a slot in an Arena by its position, from 0 to
// capacity-1; use [Arena.Push] to obtain one.
type Index int

// ErrFull is returned by [Arena.Push] when the arena has no free
// slots.
var ErrFull = fmt.Errorf("arena: full")

type slot[T any] struct {
	occupied bool
	value    T
	next     Index // valid only when !occupied; Index(-1) terminates the free-list
}

// Arena is a fixed-capacity slab of slots, each either free or
// occupied by a T.  Free slots are threaded into a LIFO free-list, so
// that the Index handed back by a given Push is likely to be reused
// by the very next Push after a Remove -- this is deliberate, not
// incidental, and callers of [git.lukeshu.com/distcache/lib/containers.List]
// rely on it.
//
// The zero Arena is not usable; construct one with [New].
type Arena[T any] struct {
	slots    []slot[T]
	freeHead Index // Index(-1) when the arena is full
	len      int
}

const noIndex Index = -1

// New returns an Arena with room for exactly capacity values.
func New[T any](capacity int) *Arena[T] {
	a := &Arena[T]{
		slots: make([]slot[T], capacity),
	}
	for i := range a.slots {
		if i == capacity-1 {
			a.slots[i].next = noIndex
		} else {
			a.slots[i].next = Index(i + 1)
		}
	}
	if capacity == 0 {
		a.freeHead = noIndex
	}
	return a
}

// Cap returns the arena's fixed capacity.
func (a *Arena[T]) Cap() int { return len(a.slots) }

// Len returns the number of currently-occupied slots.
func (a *Arena[T]) Len() int { return a.len }

// IsFull returns whether every slot is occupied.
func (a *Arena[T]) IsFull() bool { return a.freeHead == noIndex }

// Push stores v in a free slot and returns its Index.  It returns
// ErrFull if the arena has no free slots.
func (a *Arena[T]) Push(v T) (Index, error) {
	if a.IsFull() {
		var zero Index
		return zero, ErrFull
	}
	i := a.freeHead
	a.freeHead = a.slots[i].next
	a.slots[i] = slot[T]{occupied: true, value: v}
	a.len++
	return i, nil
}

// At returns the value stored at i, and whether i refers to an
// occupied slot.
func (a *Arena[T]) At(i Index) (T, bool) {
	if i < 0 || int(i) >= len(a.slots) || !a.slots[i].occupied {
		var zero T
		return zero, false
	}
	return a.slots[i].value, true
}

// Set overwrites the value stored at i in place, without disturbing
// its Index.  It reports false (and does nothing) if i is not
// occupied.
func (a *Arena[T]) Set(i Index, v T) bool {
	if i < 0 || int(i) >= len(a.slots) || !a.slots[i].occupied {
		return false
	}
	a.slots[i].value = v
	return true
}

// Remove frees the slot at i, returning the value that was stored
// there.  It returns false if i was not occupied.
func (a *Arena[T]) Remove(i Index) (T, bool) {
	if i < 0 || int(i) >= len(a.slots) || !a.slots[i].occupied {
		var zero T
		return zero, false
	}
	v := a.slots[i].value
	var zero T
	a.slots[i] = slot[T]{occupied: false, value: zero, next: a.freeHead}
	a.freeHead = i
	a.len--
	return v, true
}

// Each calls fn once for every occupied value, in slot order (not
// insertion order).  Mutating the arena from within fn is not
// supported.
func (a *Arena[T]) Each(fn func(Index, T)) {
	for i := range a.slots {
		if a.slots[i].occupied {
			fn(Index(i), a.slots[i].value)
		}
	}
}
