// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package containers

import "git.lukeshu.com/distcache/lib/arena"

const noIndex arena.Index = -1

// node is an entry in a List, stored in the backing arena.
type node[T any] struct {
	Value      T
	Prev, Next arena.Index // noIndex at either end
}

// List is a doubly-linked list of values, backed by a fixed-capacity
// [arena.Arena] rather than owning heap pointers: every position in
// the list is addressed by a stable [arena.Index], so relinking a
// node never requires walking the list and never allocates.
//
// Rather than "front/back" or "next/prev", List speaks of "head" and
// "bottom": head is the most-recently-touched entry, bottom is the
// least-recently-touched -- the vocabulary an LRU built on top of
// List actually wants.
//
// A List is only as large as the arena backing it; Push and ShiftNew
// report [arena.ErrFull] once it is exhausted.  A List is not
// internally synchronized.
type List[T any] struct {
	arena      *arena.Arena[node[T]]
	head, tail arena.Index
}

// NewList returns a List backed by a fresh arena with room for
// exactly capacity entries.
func NewList[T any](capacity int) *List[T] {
	return &List[T]{
		arena: arena.New[node[T]](capacity),
		head:  noIndex,
		tail:  noIndex,
	}
}

// IsEmpty reports whether the list holds no entries.
func (l *List[T]) IsEmpty() bool { return l.head == noIndex }

// Len returns the number of entries currently in the list.
func (l *List[T]) Len() int { return l.arena.Len() }

// Push appends v at the bottom (least-recently-touched end) and
// returns its Index.
func (l *List[T]) Push(v T) (arena.Index, error) {
	i, err := l.arena.Push(node[T]{Value: v, Prev: l.tail, Next: noIndex})
	if err != nil {
		return i, err
	}
	l.linkAtTail(i)
	return i, nil
}

// ShiftNew prepends v at the head (most-recently-touched end) and
// returns its Index.
func (l *List[T]) ShiftNew(v T) (arena.Index, error) {
	i, err := l.arena.Push(node[T]{Value: v, Prev: noIndex, Next: l.head})
	if err != nil {
		return i, err
	}
	l.linkAtHead(i)
	return i, nil
}

// Shift moves the entry at i to the head.  If i is already the head,
// or does not identify a live entry, Shift is a silent no-op -- it
// tolerates a stale index.
func (l *List[T]) Shift(i arena.Index) {
	if i == l.head {
		return
	}
	n, ok := l.arena.At(i)
	if !ok {
		return
	}
	l.unlink(n)
	n.Prev = noIndex
	n.Next = l.head
	l.arena.Set(i, n)
	l.linkAtHead(i)
}

// Top returns the value at the head (most-recently-touched entry).
func (l *List[T]) Top() (T, bool) {
	if l.head == noIndex {
		var zero T
		return zero, false
	}
	n, _ := l.arena.At(l.head)
	return n.Value, true
}

// Bottom returns the value at the tail (least-recently-touched
// entry).
func (l *List[T]) Bottom() (T, bool) {
	if l.tail == noIndex {
		var zero T
		return zero, false
	}
	n, _ := l.arena.At(l.tail)
	return n.Value, true
}

// Get returns the value stored at i without moving it.
func (l *List[T]) Get(i arena.Index) (T, bool) {
	n, ok := l.arena.At(i)
	if !ok {
		var zero T
		return zero, false
	}
	return n.Value, true
}

// Set overwrites the value stored at i in place, without moving it.
func (l *List[T]) Set(i arena.Index, v T) bool {
	n, ok := l.arena.At(i)
	if !ok {
		return false
	}
	n.Value = v
	return l.arena.Set(i, n)
}

// RemoveBottom unlinks and returns the value at the tail.  It returns
// false if the list is empty.
func (l *List[T]) RemoveBottom() (T, bool) {
	if l.tail == noIndex {
		var zero T
		return zero, false
	}
	i := l.tail
	n, _ := l.arena.At(i)
	l.unlink(n)
	v, _ := l.arena.Remove(i)
	return v.Value, true
}

// unlink splices n's Prev/Next out of the chain without touching the
// arena slot n was read from.
func (l *List[T]) unlink(n node[T]) {
	if n.Prev == noIndex {
		l.head = n.Next
	} else {
		p, _ := l.arena.At(n.Prev)
		p.Next = n.Next
		l.arena.Set(n.Prev, p)
	}
	if n.Next == noIndex {
		l.tail = n.Prev
	} else {
		nx, _ := l.arena.At(n.Next)
		nx.Prev = n.Prev
		l.arena.Set(n.Next, nx)
	}
}

func (l *List[T]) linkAtHead(i arena.Index) {
	if l.head == noIndex {
		l.head = i
		l.tail = i
		return
	}
	old := l.head
	oldNode, _ := l.arena.At(old)
	oldNode.Prev = i
	l.arena.Set(old, oldNode)
	l.head = i
}

func (l *List[T]) linkAtTail(i arena.Index) {
	if l.tail == noIndex {
		l.head = i
		l.tail = i
		return
	}
	old := l.tail
	oldNode, _ := l.arena.At(old)
	oldNode.Next = i
	l.arena.Set(old, oldNode)
	l.tail = i
}
