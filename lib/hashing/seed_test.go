// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package hashing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeIDDeterministic(t *testing.T) {
	t.Parallel()
	a := NodeID("127.0.0.1:8000")
	b := NodeID("127.0.0.1:8000")
	assert.Equal(t, a, b)
}

func TestNodeIDDistinguishesAddresses(t *testing.T) {
	t.Parallel()
	assert.NotEqual(t, NodeID("127.0.0.1:8000"), NodeID("127.0.0.1:8001"))
}

func TestSeededVariesBySeed(t *testing.T) {
	t.Parallel()
	assert.NotEqual(t, Seeded("alpha", 1), Seeded("alpha", 2))
}
