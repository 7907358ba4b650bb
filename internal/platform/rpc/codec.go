// Package rpc carries the plumbing shared by the hand-written gRPC services: a JSON
// wire codec, request validation, and a generic unary method builder.
package rpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype served by Codec ("application/grpc+json").
const CodecName = "json"

// Codec marshals request and response structs as JSON.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (Codec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (Codec) Name() string { return CodecName }

func init() {
	encoding.RegisterCodec(Codec{})
}
