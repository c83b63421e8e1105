// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package cacheserver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"git.lukeshu.com/distcache/lib/rpcapi"
)

// TestEvictionAcrossRPCs drives a capacity-2 node through the RPC
// surface and checks that overflow evicts the least-recently-used
// key, with Get counting as a touch.
func TestEvictionAcrossRPCs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	srv := New(2)

	_, err := srv.Put(ctx, entry("a", "1"))
	require.NoError(t, err)
	_, err = srv.Put(ctx, entry("b", "2"))
	require.NoError(t, err)

	got, err := srv.Get(ctx, &rpcapi.Key{Key: "a"})
	require.NoError(t, err)
	assert.Equal(t, "1", got.Value.Value)

	_, err = srv.Put(ctx, entry("c", "3"))
	require.NoError(t, err)

	_, err = srv.Get(ctx, &rpcapi.Key{Key: "b"})
	assertCode(t, err, codes.NotFound)

	got, err = srv.Get(ctx, &rpcapi.Key{Key: "a"})
	require.NoError(t, err)
	assert.Equal(t, "1", got.Value.Value)

	got, err = srv.Get(ctx, &rpcapi.Key{Key: "c"})
	require.NoError(t, err)
	assert.Equal(t, "3", got.Value.Value)
}

func TestPutValidationAndPing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	srv := New(0)

	_, err := srv.Put(ctx, &rpcapi.Entry{Value: &rpcapi.Value{Value: "x"}})
	assertCode(t, err, codes.InvalidArgument)

	_, err = srv.Put(ctx, &rpcapi.Entry{Key: &rpcapi.Key{Key: "k"}})
	assertCode(t, err, codes.InvalidArgument)

	pong, err := srv.Ping(ctx, &rpcapi.PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, rpcapi.ServingStatusServing, pong.Pong)
}

func TestGetMissingKey(t *testing.T) {
	t.Parallel()
	srv := New(4)
	_, err := srv.Get(context.Background(), &rpcapi.Key{Key: "nope"})
	assertCode(t, err, codes.NotFound)
}

func entry(key, value string) *rpcapi.Entry {
	return &rpcapi.Entry{Key: &rpcapi.Key{Key: key}, Value: &rpcapi.Value{Value: value}}
}

func assertCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	s, ok := status.FromError(err)
	require.True(t, ok, "expected a gRPC status error, got %v", err)
	assert.Equal(t, code, s.Code())
}
