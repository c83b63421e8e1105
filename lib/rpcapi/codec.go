// Copyright (C) 2023  Luke Shumaker <lukeshu@lukeshu.com>
//
// SPDX-License-Identifier: GPL-2.0-or-later

package rpcapi

import (
	"bytes"

	"git.lukeshu.com/go/lowmemjson"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// codecName is negotiated over the wire via the grpc+<name> content
// subtype, and must match on both ends of a connection; ServerOption
// and DialOption both force it as the default.
const codecName = "lowmemjson"

// jsonCodec implements google.golang.org/grpc/encoding.Codec on top
// of lowmemjson, a streaming JSON encoder/decoder, framing RPC
// messages as JSON instead of protobuf wire format.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := lowmemjson.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	// A gRPC message is exactly one value; trailing garbage is a
	// framing error, not something to ignore.
	return lowmemjson.NewDecoder(bytes.NewReader(data)).DecodeThenEOF(v)
}

func (jsonCodec) Name() string { return codecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// ServerOption forces every server using it to encode and decode RPC
// messages with the lowmemjson-backed codec instead of protobuf.
func ServerOption() grpc.ServerOption {
	return grpc.ForceServerCodec(jsonCodec{})
}

// DialOption forces every call made on a connection using it to
// encode and decode RPC messages with the lowmemjson-backed codec
// instead of protobuf.
func DialOption() grpc.DialOption {
	return grpc.WithDefaultCallOptions(grpc.ForceCodec(jsonCodec{}))
}
