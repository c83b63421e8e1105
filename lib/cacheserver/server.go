// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package cacheserver implements the per-node Cache RPC service on
// top of a single in-process bounded LRU.
package cacheserver

import (
	"context"
	"sync"

	"github.com/datawire/dlib/dlog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"git.lukeshu.com/distcache/lib/containers"
	"git.lukeshu.com/distcache/lib/rpcapi"
)

// Server implements rpcapi.CacheServer over a single LRUCache. Every
// RPC acquires mu for its whole span: a Get is itself a write on the
// LRU (it promotes the touched entry to most-recently-used), so a
// shared lock would let two concurrent Gets corrupt the recency
// order. This makes the node's RPCs serialize, which is intentional.
type Server struct {
	mu    sync.Mutex
	cache *containers.LRUCache[string, string]
}

var _ rpcapi.CacheServer = (*Server)(nil)

// New returns a Server backed by a fresh LRUCache with room for
// capacity entries (0 normalizes to containers.DefaultLRUCapacity).
func New(capacity int) *Server {
	return &Server{cache: containers.NewLRUCache[string, string](capacity)}
}

// Get implements rpcapi.CacheServer.
func (s *Server) Get(ctx context.Context, in *rpcapi.Key) (*rpcapi.GetResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.cache.Get(in.Key)
	if !ok {
		dlog.Debug(dlog.WithField(ctx, "cache.key", in.Key), "miss")
		return nil, status.Errorf(codes.NotFound, "key %q not found", in.Key)
	}
	return &rpcapi.GetResponse{Value: &rpcapi.Value{Value: v}}, nil
}

// Put implements rpcapi.CacheServer.
func (s *Server) Put(_ context.Context, in *rpcapi.Entry) (*rpcapi.PutResponse, error) {
	if in.Key == nil || in.Value == nil {
		return nil, status.Error(codes.InvalidArgument, "a put requires both a key and a value")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Put(in.Key.Key, in.Value.Value)
	return &rpcapi.PutResponse{}, nil
}

// Ping implements rpcapi.CacheServer. It never touches the cache, so
// it does not contend with Get/Put for mu.
func (s *Server) Ping(context.Context, *rpcapi.PingRequest) (*rpcapi.PongResponse, error) {
	return &rpcapi.PongResponse{Pong: rpcapi.ServingStatusServing}, nil
}

// Len reports the number of entries currently cached. No RPC exposes
// it.
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}
