// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package rpcapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecRoundTrip(t *testing.T) {
	t.Parallel()
	c := jsonCodec{}
	in := &Entry{Key: &Key{Key: "k"}, Value: &Value{Value: "v"}}

	data, err := c.Marshal(in)
	require.NoError(t, err)

	out := new(Entry)
	require.NoError(t, c.Unmarshal(data, out))
	assert.Equal(t, in.Key.Key, out.Key.Key)
	assert.Equal(t, in.Value.Value, out.Value.Value)
}

func TestCodecName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "lowmemjson", jsonCodec{}.Name())
}
