// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package hashing wraps a seeded 64-bit hash function behind a
// two-function contract: NodeID derives a stable identifier for a
// node address, and Seeded scores a (key, node) pair for rendezvous
// routing.  The concrete function is xxHash64 by way of
// github.com/cespare/xxhash/v2; any xxHash-family function satisfies
// the contract equally well, and callers must not depend on the
// specific values it produces.
package hashing

import "github.com/cespare/xxhash/v2"

// NodeID derives a node's identifier from its canonical "host:port"
// address, using seed 0.
func NodeID(canonicalAddr string) uint64 {
	return Seeded(canonicalAddr, 0)
}

// Seeded hashes data with the given seed.
func Seeded(data string, seed uint64) uint64 {
	d := xxhash.NewWithSeed(seed)
	_, _ = d.WriteString(data)
	return d.Sum64()
}
