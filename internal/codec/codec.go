// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// codec.go — Codec interface shared by the wire formats a record schema can
// be stored in.

// Package codec provides encode/decode interfaces for record serialization.
package codec

// Codec encodes and decodes record documents for storage in Redis.
//
// Implementations must be deterministic: marshalling equal documents must
// produce byte-identical output, because Redis sets and sorted sets compare
// members by their bytes. Maps are therefore written with sorted keys.
type Codec interface {
	// Marshal serializes v into bytes.
	Marshal(v any) ([]byte, error)
	// Unmarshal deserializes data into v (must be a pointer).
	Unmarshal(data []byte, v any) error
	// Name returns the codec identifier used for diagnostics.
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "msgpack":
		return MsgPack{}, true
	case "zstd+json":
		return NewZstd(JSON{}), true
	case "zstd+msgpack":
		return NewZstd(MsgPack{}), true
	default:
		return nil, false
	}
}
