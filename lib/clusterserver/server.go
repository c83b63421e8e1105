// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package clusterserver implements the coordinator-facing Cluster RPC
// service on top of a network.CacheNetwork: it routes each
// call to the one node rendezvous hashing selects and maps the
// network's error vocabulary onto gRPC status codes.
package clusterserver

import (
	"context"
	"sync"

	"github.com/datawire/dlib/dlog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"git.lukeshu.com/distcache/lib/network"
	"git.lukeshu.com/distcache/lib/rpcapi"
)

// Server implements rpcapi.ClusterServer over a network.CacheNetwork.
// The network is held under mu for each call's duration: dispatch
// decisions and the connection-state mutations ConnectNodes makes
// are serialized together, matching the single-exclusive-lock model
// the node server uses for its own state.
type Server struct {
	mu      sync.Mutex
	network *network.CacheNetwork

	connectOnce sync.Once
}

var _ rpcapi.ClusterServer = (*Server)(nil)

// New returns a Server routing across net. It does not dial any node
// until the first RPC arrives.
func New(net *network.CacheNetwork) *Server {
	return &Server{network: net}
}

// ensureConnected lazily performs the one-time ConnectNodes pass
// that has to happen before any call can be routed.
func (s *Server) ensureConnected(ctx context.Context) {
	s.connectOnce.Do(func() {
		s.network.ConnectNodes(ctx)
		addrs, active := s.network.SortedStatus()
		for _, addr := range addrs {
			dlog.Infof(ctx, "node %s active=%v", addr, active[addr])
		}
	})
}

// Get implements rpcapi.ClusterServer.
func (s *Server) Get(ctx context.Context, in *rpcapi.Key) (*rpcapi.GetResponse, error) {
	s.ensureConnected(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	value, err := s.network.GetValue(ctx, in.Key)
	if err != nil {
		return nil, network.ToStatus(err)
	}
	return &rpcapi.GetResponse{Value: &rpcapi.Value{Value: value}}, nil
}

// Put implements rpcapi.ClusterServer. The Entry must carry both a
// key and a value, keeping the coordinator's validation in lockstep
// with what every node's own Put enforces, rather than letting an
// incomplete Entry travel a hop before it is rejected.
func (s *Server) Put(ctx context.Context, in *rpcapi.Entry) (*rpcapi.PutResponse, error) {
	s.ensureConnected(ctx)
	if in.Key == nil || in.Value == nil {
		return nil, status.Error(codes.InvalidArgument, "a put requires both a key and a value")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.network.PutEntry(ctx, in.Key.Key, in.Value.Value); err != nil {
		return nil, network.ToStatus(err)
	}
	return &rpcapi.PutResponse{}, nil
}
