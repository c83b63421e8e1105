// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package network implements the cluster-facing side of the cache:
// a CacheNetwork routes keys to ServerNodes by rendezvous hashing and
// speaks the Cache RPC to whichever node wins.
package network

import (
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrNotValidAddress is returned by ParseNode when an address is not
// in "host:port" form.
type ErrNotValidAddress struct {
	Address string
}

func (e *ErrNotValidAddress) Error() string {
	return fmt.Sprintf("network: not a valid host:port address: %q", e.Address)
}

// ErrNoNodesRegistered is returned by FindNode when a CacheNetwork has
// no active node to route to. It must never be papered over by
// silently routing to node 0: the caller has to hear about it.
var ErrNoNodesRegistered = fmt.Errorf("network: no nodes registered")

// ErrNodeCouldNotBeConnected is returned when dialing a node fails.
type ErrNodeCouldNotBeConnected struct {
	Address string
	Cause   error
}

func (e *ErrNodeCouldNotBeConnected) Error() string {
	return fmt.Sprintf("network: could not connect to node %q: %v", e.Address, e.Cause)
}

func (e *ErrNodeCouldNotBeConnected) Unwrap() error { return e.Cause }

// ErrEntryNotFound is returned by GetValue when the owning node's
// response carries no value for the key.
type ErrEntryNotFound struct {
	Key string
}

func (e *ErrEntryNotFound) Error() string {
	return fmt.Sprintf("network: key %q not found", e.Key)
}

// ErrInvalidArgument is returned by PutEntry when the key is empty.
type ErrInvalidArgument struct {
	Reason string
}

func (e *ErrInvalidArgument) Error() string {
	return fmt.Sprintf("network: invalid argument: %s", e.Reason)
}

// ToStatus maps the error kinds a CacheNetwork or ServerNode can
// produce onto gRPC status codes, the boundary at which an internal
// error value turns into wire-visible RPC status per the service
// contract. An error that already carries a gRPC status -- such as
// one a downstream node's own Cache service returned -- passes
// through unchanged rather than being reclassified as Unknown.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	switch e := err.(type) {
	case *ErrEntryNotFound:
		return status.Error(codes.NotFound, e.Error())
	case *ErrInvalidArgument:
		return status.Error(codes.InvalidArgument, e.Error())
	case *ErrNotValidAddress:
		return status.Error(codes.InvalidArgument, e.Error())
	case *ErrNodeCouldNotBeConnected:
		return status.Error(codes.FailedPrecondition, e.Error())
	}
	if err == ErrNoNodesRegistered {
		return status.Error(codes.FailedPrecondition, err.Error())
	}
	if s, ok := status.FromError(err); ok {
		return s.Err()
	}
	return status.Error(codes.Unknown, err.Error())
}
