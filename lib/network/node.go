// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package network

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"git.lukeshu.com/distcache/lib/containers"
	"git.lukeshu.com/distcache/lib/hashing"
	"git.lukeshu.com/distcache/lib/rpcapi"
	"git.lukeshu.com/distcache/lib/textui"
)

// resolveCacheSize is the number of distinct hostnames the resolver
// cache remembers. Wrapped in textui.Tunable since the right size
// depends on how large a --nodes list operators actually run with.
var resolveCacheSize = textui.Tunable(256)

// dialTimeout bounds how long Connect waits for a node to answer
// before declaring it unreachable and leaving it inactive.
var dialTimeout = textui.Tunable(3 * time.Second)

// resolveCache remembers a hostname's first-resolved address so that
// repeated ParseNode calls for the same host within one process don't
// each pay for a fresh lookup. It is the
// "incidental cache... such as resolved network addresses" that
// containers.ARCCache was written for.
var resolveCache = containers.NewARCCache[string, string](resolveCacheSize)

// resolveHost picks the first address the platform resolver returns
// for host, per the "first resolved IPv4/IPv6 endpoint wins" contract.
// A literal IP address resolves to itself without touching the
// cache.
func resolveHost(ctx context.Context, host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		return host, nil
	}
	if addr, ok := resolveCache.Get(host); ok {
		return addr, nil
	}
	addrs, err := net.DefaultResolver.LookupHost(ctx, host)
	if err != nil {
		return "", err
	}
	if len(addrs) == 0 {
		return "", fmt.Errorf("no addresses found for host %q", host)
	}
	resolveCache.Add(host, addrs[0])
	return addrs[0], nil
}

// channel is the live dial-state of a ServerNode: the connection and
// the client stub built on top of it. It only exists once Connect has
// succeeded.
type channel struct {
	conn   *grpc.ClientConn
	client rpcapi.CacheClient
}

// ServerNode is one cache node as seen by the cluster: its canonical
// address, its rendezvous weight, and (once Connect has succeeded) a
// live RPC channel.
type ServerNode struct {
	ID     uint64
	Host   string
	Port   int
	Weight uint64

	mu      sync.Mutex
	channel containers.Optional[channel]
}

// ParseNode resolves address's host part, validates the port, and
// derives the node's ID by hashing the canonical "host:port" form
// (using the resolved address, not the hostname the caller supplied)
// with seed 0. Both ID derivation and dialing use this same resolved
// form, so routing and transport never disagree about which node they
// mean.
func ParseNode(ctx context.Context, address string, weight uint64) (*ServerNode, error) {
	host, portStr, err := net.SplitHostPort(address)
	if err != nil {
		return nil, &ErrNotValidAddress{Address: address}
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return nil, &ErrNotValidAddress{Address: address}
	}
	resolved, err := resolveHost(ctx, host)
	if err != nil {
		return nil, &ErrNotValidAddress{Address: address}
	}
	return &ServerNode{
		ID:     hashing.NodeID(net.JoinHostPort(resolved, strconv.Itoa(port))),
		Host:   resolved,
		Port:   port,
		Weight: weight,
	}, nil
}

// Address returns the node's canonical "host:port" form.
func (n *ServerNode) Address() string {
	return net.JoinHostPort(n.Host, strconv.Itoa(n.Port))
}

// Active reports whether Connect has succeeded on this node.
func (n *ServerNode) Active() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.channel.OK
}

// Connect lazily dials the node. It is idempotent: once a connection
// has been established, later calls are no-ops. A failed dial leaves
// the node inactive rather than returning a cached error, so a later
// ConnectNodes pass can retry it.
//
// The dial blocks until the node answers or dialTimeout elapses:
// gRPC's default lazy dial would "succeed" against an unreachable
// address and only fail on the first RPC, which would make an
// unreachable node indistinguishable from a reachable one at
// connect time.
func (n *ServerNode) Connect(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.channel.OK {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	conn, err := grpc.DialContext(ctx, n.Address(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithBlock(),
		grpc.FailOnNonTempDialError(true),
		rpcapi.DialOption(),
	)
	if err != nil {
		return &ErrNodeCouldNotBeConnected{Address: n.Address(), Cause: err}
	}
	n.channel = containers.Optional[channel]{
		OK: true,
		Val: channel{
			conn:   conn,
			client: rpcapi.NewCacheClient(conn),
		},
	}
	return nil
}

// Get fetches key from this node over the Cache RPC.
func (n *ServerNode) Get(ctx context.Context, key string) (string, bool, error) {
	n.mu.Lock()
	ch := n.channel
	n.mu.Unlock()
	if !ch.OK {
		return "", false, &ErrNodeCouldNotBeConnected{Address: n.Address(), Cause: fmt.Errorf("not connected")}
	}
	resp, err := ch.Val.client.Get(ctx, &rpcapi.Key{Key: key})
	if err != nil {
		return "", false, err
	}
	if resp.Value == nil {
		return "", false, nil
	}
	return resp.Value.Value, true, nil
}

// Put stores key/value on this node over the Cache RPC.
func (n *ServerNode) Put(ctx context.Context, key, value string) error {
	n.mu.Lock()
	ch := n.channel
	n.mu.Unlock()
	if !ch.OK {
		return &ErrNodeCouldNotBeConnected{Address: n.Address(), Cause: fmt.Errorf("not connected")}
	}
	_, err := ch.Val.client.Put(ctx, &rpcapi.Entry{
		Key:   &rpcapi.Key{Key: key},
		Value: &rpcapi.Value{Value: value},
	})
	return err
}
