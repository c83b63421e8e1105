// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package containers

import "git.lukeshu.com/distcache/lib/arena"

// DefaultLRUCapacity is substituted for a requested capacity of 0.
const DefaultLRUCapacity = 10

type lruEntry[K comparable, V any] struct {
	key K
	val V
}

// LRUCache is a fixed-capacity, Least-Recently-Used cache.  It is NOT
// internally synchronized: callers that share an LRUCache across
// goroutines must provide their own mutual exclusion, because every
// Get is itself a write (it promotes the touched entry to
// most-recently-used).
//
// The zero LRUCache is not usable; construct one with NewLRUCache.
type LRUCache[K comparable, V any] struct {
	capacity int
	order    *List[lruEntry[K, V]]
	index    map[K]arena.Index
}

// NewLRUCache returns an LRUCache with room for capacity entries. A
// non-positive capacity is normalized to DefaultLRUCapacity.
func NewLRUCache[K comparable, V any](capacity int) *LRUCache[K, V] {
	if capacity <= 0 {
		capacity = DefaultLRUCapacity
	}
	return &LRUCache[K, V]{
		capacity: capacity,
		order:    NewList[lruEntry[K, V]](capacity),
		index:    make(map[K]arena.Index, capacity),
	}
}

// Len returns the number of entries currently cached.
func (c *LRUCache[K, V]) Len() int { return len(c.index) }

// Cap returns the cache's fixed capacity.
func (c *LRUCache[K, V]) Cap() int { return c.capacity }

// Get returns the value for key, promoting it to most-recently-used.
// It returns false if key is not present.
func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	i, ok := c.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	entry, _ := c.order.Get(i)
	c.order.Shift(i)
	return entry.val, true
}

// Put stores value for key, promoting it to most-recently-used. If
// key is new and the cache is already at capacity, the current
// least-recently-used entry is evicted first. If key is already
// present, its value is updated in place -- the entry is never
// duplicated in the recency order.
func (c *LRUCache[K, V]) Put(key K, value V) {
	if i, ok := c.index[key]; ok {
		c.order.Set(i, lruEntry[K, V]{key: key, val: value})
		c.order.Shift(i)
		return
	}
	if len(c.index) >= c.capacity {
		c.Evict()
	}
	i, err := c.order.ShiftNew(lruEntry[K, V]{key: key, val: value})
	if err != nil {
		// The arena is sized to exactly c.capacity and we just
		// evicted if we were full, so ShiftNew cannot fail.
		panic(err)
	}
	c.index[key] = i
}

// Evict unconditionally removes the current least-recently-used
// entry, if any, and returns the value that was removed.
func (c *LRUCache[K, V]) Evict() (V, bool) {
	entry, ok := c.order.RemoveBottom()
	if !ok {
		var zero V
		return zero, false
	}
	delete(c.index, entry.key)
	return entry.val, true
}

// Has reports whether key is present, without affecting recency.
func (c *LRUCache[K, V]) Has(key K) bool {
	_, ok := c.index[key]
	return ok
}
