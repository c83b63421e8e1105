// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package rpcapi

import (
	"context"

	"google.golang.org/grpc"
)

// ClusterServer is the fan-out service contract: Get/Put routed to
// whichever node owns the key under rendezvous hashing.
type ClusterServer interface {
	Get(context.Context, *Key) (*GetResponse, error)
	Put(context.Context, *Entry) (*PutResponse, error)
}

// RegisterClusterServer registers srv to handle the Cluster service on s.
func RegisterClusterServer(s grpc.ServiceRegistrar, srv ClusterServer) {
	s.RegisterService(&clusterServiceDesc, srv)
}

func clusterGetHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Key)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ClusterServer).Get(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/cache.Cluster/Get"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ClusterServer).Get(ctx, req.(*Key))
	}
	return interceptor(ctx, in, info, handler)
}

func clusterPutHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Entry)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ClusterServer).Put(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/cache.Cluster/Put"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ClusterServer).Put(ctx, req.(*Entry))
	}
	return interceptor(ctx, in, info, handler)
}

var clusterServiceDesc = grpc.ServiceDesc{
	ServiceName: "cache.Cluster",
	HandlerType: (*ClusterServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Get", Handler: clusterGetHandler},
		{MethodName: "Put", Handler: clusterPutHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cache.proto",
}

// ClusterClient is the client-side stub for the Cluster service.
type ClusterClient interface {
	Get(ctx context.Context, in *Key, opts ...grpc.CallOption) (*GetResponse, error)
	Put(ctx context.Context, in *Entry, opts ...grpc.CallOption) (*PutResponse, error)
}

type clusterClient struct {
	cc grpc.ClientConnInterface
}

// NewClusterClient wraps an established connection as a ClusterClient.
func NewClusterClient(cc grpc.ClientConnInterface) ClusterClient {
	return &clusterClient{cc: cc}
}

func (c *clusterClient) Get(ctx context.Context, in *Key, opts ...grpc.CallOption) (*GetResponse, error) {
	out := new(GetResponse)
	if err := c.cc.Invoke(ctx, "/cache.Cluster/Get", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *clusterClient) Put(ctx context.Context, in *Entry, opts ...grpc.CallOption) (*PutResponse, error) {
	out := new(PutResponse)
	if err := c.cc.Invoke(ctx, "/cache.Cluster/Put", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
