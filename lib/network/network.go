// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package network

import (
	"context"
	"sort"

	"github.com/datawire/dlib/dlog"

	"git.lukeshu.com/distcache/lib/hashing"
	"git.lukeshu.com/distcache/lib/util"
)

// CacheNetwork is the ordered set of nodes a cluster server routes
// across. Nodes are appended in registration order; that order is
// the tie-break for rendezvous hashing and must stay stable for the
// lifetime of the network.
type CacheNetwork struct {
	nodes []*ServerNode
}

// NewCacheNetwork builds a network over nodes, in the given order.
func NewCacheNetwork(nodes []*ServerNode) *CacheNetwork {
	return &CacheNetwork{nodes: nodes}
}

// ConnectNodes dials every node, logging and skipping (rather than
// failing outright on) any node that can't be reached: a cluster that
// can serve from its reachable nodes shouldn't refuse to start because
// one peer is down.
func (cn *CacheNetwork) ConnectNodes(ctx context.Context) {
	for _, n := range cn.nodes {
		if err := n.Connect(ctx); err != nil {
			dlog.Errorf(dlog.WithField(ctx, "network.node", n.Address()), "could not connect: %v", err)
		}
	}
}

// FindNode selects the node that owns key under rendezvous (highest
// random weight) hashing: the node maximizing Seeded(key, node.ID),
// with ties broken by first registration order. It returns
// ErrNoNodesRegistered if no node is currently active, rather than
// silently falling back to nodes[0].
func (cn *CacheNetwork) FindNode(key string) (*ServerNode, error) {
	var best *ServerNode
	var bestScore uint64
	for _, n := range cn.nodes {
		if !n.Active() {
			continue
		}
		score := hashing.Seeded(key, n.ID)
		if best == nil || score > bestScore {
			best = n
			bestScore = score
		}
	}
	if best == nil {
		return nil, ErrNoNodesRegistered
	}
	return best, nil
}

// GetValue routes key to its owning node and fetches it. A key the
// owning node reports as absent surfaces as ErrEntryNotFound.
func (cn *CacheNetwork) GetValue(ctx context.Context, key string) (string, error) {
	node, err := cn.FindNode(key)
	if err != nil {
		return "", err
	}
	value, found, err := node.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if !found {
		return "", &ErrEntryNotFound{Key: key}
	}
	return value, nil
}

// PutEntry routes key/value to its owning node and stores it.
func (cn *CacheNetwork) PutEntry(ctx context.Context, key, value string) error {
	if key == "" {
		return &ErrInvalidArgument{Reason: "key is required"}
	}
	node, err := cn.FindNode(key)
	if err != nil {
		return err
	}
	return node.Put(ctx, key, value)
}

// Status reports, for every registered node, whether it is currently
// active. It exists for diagnostics -- there is no health-probe loop
// (see ConnectNodes) that would otherwise let an operator see which
// nodes were skipped.
func (cn *CacheNetwork) Status() map[string]bool {
	out := make(map[string]bool, len(cn.nodes))
	for _, n := range cn.nodes {
		out[n.Address()] = n.Active()
	}
	return out
}

// SortedStatus is Status with its addresses sorted, for stable
// logging output.
func (cn *CacheNetwork) SortedStatus() (addrs []string, status map[string]bool) {
	status = cn.Status()
	return util.SortedMapKeys(status), status
}

// NodesByID returns the network's nodes ordered by their rendezvous
// ID rather than registration order. Registration order is what
// routing uses to break ties; this ordering exists only so
// diagnostics can show the two orderings side by side.
func (cn *CacheNetwork) NodesByID() []*ServerNode {
	out := make([]*ServerNode, len(cn.nodes))
	copy(out, cn.nodes)
	sort.Slice(out, func(i, j int) bool {
		return util.CmpUint(out[i].ID, out[j].ID) < 0
	})
	return out
}
