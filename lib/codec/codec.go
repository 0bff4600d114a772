// Copyright 2026 The Vertex SDK Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Codec converts request and reply bodies to and from bytes.
type Codec interface {
	// Name identifies the encoding in logs and errors ("json", "cbor").
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSON is the default wire codec.
var JSON Codec = jsonCodec{}

// ByName returns the codec called name. The empty name selects JSON.
func ByName(name string) (Codec, error) {
	switch name {
	case "", JSON.Name():
		return JSON, nil
	case CBOR.Name():
		return CBOR, nil
	default:
		return nil, fmt.Errorf("unknown codec %q (expected json or cbor)", name)
	}
}

// CBOR encodes with the deterministic CBOR modes configured in this
// package.
var CBOR Codec = cborCodec{}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

type cborCodec struct{}

func (cborCodec) Name() string { return "cbor" }

func (cborCodec) Marshal(v any) ([]byte, error) {
	return Marshal(v)
}

func (cborCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return Unmarshal(data, v)
}
