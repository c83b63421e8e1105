// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

// Package rpcapi is the wire schema and gRPC service wiring shared by
// the Cache and Cluster services.  In a build that generates stubs
// from a .proto schema, this package is what protoc-gen-go and
// protoc-gen-go-grpc would emit; here it is written by hand, against
// a custom wire codec (see codec.go) rather than protobuf wire
// format, so that the schema needs no build-time code generation
// step.
package rpcapi

// Key names a single cache entry.
type Key struct {
	Key string `json:"key"`
}

// Value holds an opaque UTF-8 string payload.
type Value struct {
	Value string `json:"value"`
}

// Entry is a key/value pair submitted to Put. Either field may be
// absent (nil), which the server rejects as InvalidArgument.
type Entry struct {
	Key   *Key   `json:"key,omitempty"`
	Value *Value `json:"value,omitempty"`
}

// GetResponse is the result of a Get. The schema lets Value be absent;
// the Cache service's own Get reports a missing key as a NotFound
// status instead.
type GetResponse struct {
	Value *Value `json:"value,omitempty"`
}

// PutResponse is the (empty) result of a successful Put.
type PutResponse struct{}

// PingRequest is the (empty) argument to Ping.
type PingRequest struct{}

// ServingStatus mirrors the standard gRPC health-checking vocabulary,
// trimmed to the one value this system ever reports.
type ServingStatus int32

const (
	ServingStatusUnknown ServingStatus = 0
	ServingStatusServing ServingStatus = 1
)

func (s ServingStatus) String() string {
	if s == ServingStatusServing {
		return "SERVING"
	}
	return "UNKNOWN"
}

// PongResponse is the result of a Ping.
type PongResponse struct {
	Pong ServingStatus `json:"pong"`
}
