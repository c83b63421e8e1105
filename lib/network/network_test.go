// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package network

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"git.lukeshu.com/distcache/lib/containers"
	"git.lukeshu.com/distcache/lib/hashing"
	"git.lukeshu.com/distcache/lib/rpcapi"
)

// staticClient answers every Get with a canned response, standing in
// for a node whose transport works but whose answers we control.
type staticClient struct {
	resp *rpcapi.GetResponse
}

func (c staticClient) Get(context.Context, *rpcapi.Key, ...grpc.CallOption) (*rpcapi.GetResponse, error) {
	return c.resp, nil
}

func (c staticClient) Put(context.Context, *rpcapi.Entry, ...grpc.CallOption) (*rpcapi.PutResponse, error) {
	return &rpcapi.PutResponse{}, nil
}

func (c staticClient) Ping(context.Context, *rpcapi.PingRequest, ...grpc.CallOption) (*rpcapi.PongResponse, error) {
	return &rpcapi.PongResponse{Pong: rpcapi.ServingStatusServing}, nil
}

// activeNode builds a ServerNode that reports Active()==true without
// dialing anything, for exercising routing in isolation from
// transport concerns.
func activeNode(t *testing.T, addr string, weight uint64) *ServerNode {
	t.Helper()
	n := &ServerNode{
		ID:     hashing.NodeID(addr),
		Host:   addr,
		Weight: weight,
	}
	n.channel.OK = true
	return n
}

func inactiveNode(addr string) *ServerNode {
	return &ServerNode{ID: hashing.NodeID(addr), Host: addr}
}

func TestFindNodeDeterministic(t *testing.T) {
	t.Parallel()
	n1 := activeNode(t, "n1", 1)
	n2 := activeNode(t, "n2", 1)
	n3 := activeNode(t, "n3", 1)
	cn := NewCacheNetwork([]*ServerNode{n1, n2, n3})

	first, err := cn.FindNode("alpha")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := cn.FindNode("alpha")
		require.NoError(t, err)
		assert.Same(t, first, again)
	}
}

func TestFindNodeOrderIndependent(t *testing.T) {
	t.Parallel()
	n1 := activeNode(t, "n1", 1)
	n2 := activeNode(t, "n2", 1)

	fwd := NewCacheNetwork([]*ServerNode{n1, n2})
	rev := NewCacheNetwork([]*ServerNode{n2, n1})

	fwdNode, err := fwd.FindNode("alpha")
	require.NoError(t, err)
	revNode, err := rev.FindNode("alpha")
	require.NoError(t, err)
	assert.Equal(t, fwdNode.ID, revNode.ID)
}

func TestFindNodeSkipsInactive(t *testing.T) {
	t.Parallel()
	active := activeNode(t, "n1", 1)
	inactive := inactiveNode("n2")
	cn := NewCacheNetwork([]*ServerNode{active, inactive})

	for i := 0; i < 20; i++ {
		n, err := cn.FindNode(string(rune('a' + i)))
		require.NoError(t, err)
		assert.Same(t, active, n)
	}
}

func TestFindNodeNoNodesRegistered(t *testing.T) {
	t.Parallel()
	cn := NewCacheNetwork(nil)
	_, err := cn.FindNode("alpha")
	assert.ErrorIs(t, err, ErrNoNodesRegistered)

	cn = NewCacheNetwork([]*ServerNode{inactiveNode("n1")})
	_, err = cn.FindNode("alpha")
	assert.ErrorIs(t, err, ErrNoNodesRegistered)
}

// TestFindNodeStableUnderRemoval exercises the rendezvous property
// that removing a node never changes the winner for a key that
// wasn't routed to the removed node.
func TestFindNodeStableUnderRemoval(t *testing.T) {
	t.Parallel()
	n1 := activeNode(t, "n1", 1)
	n2 := activeNode(t, "n2", 1)
	n3 := activeNode(t, "n3", 1)
	full := NewCacheNetwork([]*ServerNode{n1, n2, n3})

	keys := []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot"}
	before := make(map[string]*ServerNode, len(keys))
	for _, k := range keys {
		n, err := full.FindNode(k)
		require.NoError(t, err)
		before[k] = n
	}

	// Remove n3.
	reduced := NewCacheNetwork([]*ServerNode{n1, n2})
	for _, k := range keys {
		want := before[k]
		if want == n3 {
			continue
		}
		got, err := reduced.FindNode(k)
		require.NoError(t, err)
		assert.Same(t, want, got, "key %q changed node after an unrelated removal", k)
	}
}

func TestPutEntryRequiresKey(t *testing.T) {
	t.Parallel()
	cn := NewCacheNetwork([]*ServerNode{activeNode(t, "n1", 1)})
	err := cn.PutEntry(context.Background(), "", "value")
	var invalid *ErrInvalidArgument
	assert.ErrorAs(t, err, &invalid)
}

// A node whose Get succeeds but carries no value (the wire schema
// allows an empty GetResponse) must surface as ErrEntryNotFound, not
// as an empty-string hit.
func TestGetValueEmptyResponseIsNotFound(t *testing.T) {
	t.Parallel()
	n := &ServerNode{
		ID:   hashing.NodeID("n1"),
		Host: "n1",
		channel: containers.Optional[channel]{
			OK:  true,
			Val: channel{client: staticClient{resp: &rpcapi.GetResponse{}}},
		},
	}
	cn := NewCacheNetwork([]*ServerNode{n})

	_, err := cn.GetValue(context.Background(), "k")
	var notFound *ErrEntryNotFound
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, "k", notFound.Key)
}

func TestStatusAndNodesByID(t *testing.T) {
	t.Parallel()
	n1 := activeNode(t, "aaa", 1)
	n2 := inactiveNode("zzz")
	cn := NewCacheNetwork([]*ServerNode{n1, n2})

	addrs, status := cn.SortedStatus()
	require.Len(t, addrs, 2)
	assert.True(t, status["aaa:0"])
	assert.False(t, status["zzz:0"])

	byID := cn.NodesByID()
	require.Len(t, byID, 2)
	assert.LessOrEqual(t, byID[0].ID, byID[1].ID)
}
