// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package rpcapi

import (
	"context"

	"google.golang.org/grpc"
)

// CacheServer is the per-node service contract: Get/Put against the
// node's bounded LRU, and Ping for liveness.
type CacheServer interface {
	Get(context.Context, *Key) (*GetResponse, error)
	Put(context.Context, *Entry) (*PutResponse, error)
	Ping(context.Context, *PingRequest) (*PongResponse, error)
}

// RegisterCacheServer registers srv to handle the Cache service on s.
func RegisterCacheServer(s grpc.ServiceRegistrar, srv CacheServer) {
	s.RegisterService(&cacheServiceDesc, srv)
}

func cacheGetHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Key)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CacheServer).Get(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/cache.Cache/Get"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CacheServer).Get(ctx, req.(*Key))
	}
	return interceptor(ctx, in, info, handler)
}

func cachePutHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Entry)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CacheServer).Put(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/cache.Cache/Put"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CacheServer).Put(ctx, req.(*Entry))
	}
	return interceptor(ctx, in, info, handler)
}

func cachePingHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PingRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CacheServer).Ping(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/cache.Cache/Ping"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CacheServer).Ping(ctx, req.(*PingRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var cacheServiceDesc = grpc.ServiceDesc{
	ServiceName: "cache.Cache",
	HandlerType: (*CacheServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Get", Handler: cacheGetHandler},
		{MethodName: "Put", Handler: cachePutHandler},
		{MethodName: "Ping", Handler: cachePingHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cache.proto",
}

// CacheClient is the client-side stub for the Cache service.
type CacheClient interface {
	Get(ctx context.Context, in *Key, opts ...grpc.CallOption) (*GetResponse, error)
	Put(ctx context.Context, in *Entry, opts ...grpc.CallOption) (*PutResponse, error)
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PongResponse, error)
}

type cacheClient struct {
	cc grpc.ClientConnInterface
}

// NewCacheClient wraps an established connection as a CacheClient.
func NewCacheClient(cc grpc.ClientConnInterface) CacheClient {
	return &cacheClient{cc: cc}
}

func (c *cacheClient) Get(ctx context.Context, in *Key, opts ...grpc.CallOption) (*GetResponse, error) {
	out := new(GetResponse)
	if err := c.cc.Invoke(ctx, "/cache.Cache/Get", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *cacheClient) Put(ctx context.Context, in *Entry, opts ...grpc.CallOption) (*PutResponse, error) {
	out := new(PutResponse)
	if err := c.cc.Invoke(ctx, "/cache.Cache/Put", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *cacheClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PongResponse, error) {
	out := new(PongResponse)
	if err := c.cc.Invoke(ctx, "/cache.Cache/Ping", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
