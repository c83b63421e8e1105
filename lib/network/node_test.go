// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package network

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.lukeshu.com/distcache/lib/hashing"
)

func TestParseNodeCanonicalAddress(t *testing.T) {
	t.Parallel()
	n, err := ParseNode(context.Background(), "127.0.0.1:9000", 1)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", n.Address())
	assert.Equal(t, hashing.NodeID("127.0.0.1:9000"), n.ID)
	assert.False(t, n.Active())
}

func TestParseNodeRejectsMissingPort(t *testing.T) {
	t.Parallel()
	_, err := ParseNode(context.Background(), "127.0.0.1", 1)
	var bad *ErrNotValidAddress
	assert.ErrorAs(t, err, &bad)
}

func TestParseNodeRejectsBadPort(t *testing.T) {
	t.Parallel()
	_, err := ParseNode(context.Background(), "127.0.0.1:not-a-port", 1)
	var bad *ErrNotValidAddress
	assert.ErrorAs(t, err, &bad)
}

func TestConnectUnreachableNodeStaysInactive(t *testing.T) {
	t.Parallel()
	// Port 1 on loopback is essentially guaranteed to refuse the
	// connection, which the blocking dial reports immediately.
	n, err := ParseNode(context.Background(), "127.0.0.1:1", 1)
	require.NoError(t, err)

	err = n.Connect(context.Background())
	var notConn *ErrNodeCouldNotBeConnected
	assert.ErrorAs(t, err, &notConn)
	assert.False(t, n.Active())
}

func TestGetPutNotConnected(t *testing.T) {
	t.Parallel()
	n, err := ParseNode(context.Background(), "127.0.0.1:9000", 1)
	require.NoError(t, err)

	_, _, err = n.Get(context.Background(), "k")
	var notConn *ErrNodeCouldNotBeConnected
	assert.ErrorAs(t, err, &notConn)

	err = n.Put(context.Background(), "k", "v")
	assert.ErrorAs(t, err, &notConn)
}
