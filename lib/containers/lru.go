// Copyright (C) 2022  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package containers

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// ARCCache is a generic wrapper around hashicorp/golang-lru's
// Adaptive Replacement Cache.  Unlike LRUCache, it is safe for
// concurrent use, and is meant for incidental caches (such as
// resolved network addresses) rather than the bounded key/value
// store that is this repository's main subject.
//
// A zero ARCCache is usable and defaults to 128 entries; use
// NewARCCache to pick a different size.
type ARCCache[K comparable, V any] struct {
	initOnce sync.Once
	size     int
	inner    *lru.ARCCache
}

// NewARCCache returns an ARCCache holding at most size entries.
func NewARCCache[K comparable, V any](size int) *ARCCache[K, V] {
	c := &ARCCache[K, V]{size: size}
	c.init()
	return c
}

func (c *ARCCache[K, V]) init() {
	c.initOnce.Do(func() {
		if c.size <= 0 {
			c.size = 128
		}
		c.inner, _ = lru.NewARC(c.size)
	})
}

// Add inserts or updates key's value.
func (c *ARCCache[K, V]) Add(key K, value V) {
	c.init()
	c.inner.Add(key, value)
}

// Get returns key's cached value, if any.
func (c *ARCCache[K, V]) Get(key K) (value V, ok bool) {
	c.init()
	untyped, ok := c.inner.Get(key)
	if ok {
		value = untyped.(V)
	}
	return value, ok
}

// Remove evicts key, if present.
func (c *ARCCache[K, V]) Remove(key K) {
	c.init()
	c.inner.Remove(key)
}

// Len returns the number of entries currently cached.
func (c *ARCCache[K, V]) Len() int {
	c.init()
	return c.inner.Len()
}
