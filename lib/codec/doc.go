// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the wire encodings used for request and reply
// bodies on the bus.
//
// The Vertex backend speaks JSON with snake_case field names, so [JSON]
// is the default everywhere. [CBOR] is available for deployments that
// front the same services with a CBOR gateway; it uses Core
// Deterministic Encoding (RFC 8949 §4.2) and reads `json` struct tags as
// a fallback, so every record type in lib/vertex works unchanged on both
// encodings.
//
// Callers pick a codec once, at invoker construction, usually from the
// `codec` configuration setting:
//
//	wire, err := codec.ByName(cfg.Codec)
//	invoker, err := rpc.NewInvoker(conn, token, rpc.WithCodec(wire))
//
// # Empty bodies
//
// Several backend operations reply with an empty body on success. Both
// codecs treat an empty (or whitespace-only, for JSON) payload as the
// zero value of the target rather than as a decoding error.
package codec
