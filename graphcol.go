// Package graphcol provides a columnar binary format for graph triple data.
//
// GraphCol stores batches of (subject, predicate, object, timestamp, txId)
// triples column-by-column: dictionary coding for the string columns, delta
// coding for timestamps, run-length coding for object type tags, and plain
// little-endian layouts for fixed-width values. Every chunk carries a
// CRC-32/IEEE checksum; the V2 envelope appends a sorted entity index, footer
// and trailer so a single entity can be located from the end of the file
// without decoding the whole chunk.
//
// # Basic Usage
//
// Encoding and decoding a batch:
//
//	import "github.com/arloliu/graphcol"
//
//	triples := []graphcol.Triple{
//	    {
//	        Subject:   "https://example.com/people/alice",
//	        Predicate: "name",
//	        Object:    graphcol.StringValue("Alice"),
//	        Timestamp: 1000,
//	        TxID:      "01HQXW5T7ZJ2M8R4K6N9P3V5B7",
//	    },
//	}
//
//	data, _ := graphcol.Encode(triples, "people")
//	decoded, _ := graphcol.Decode(data)
//
// Single-entity access from a V2 chunk:
//
//	data, _ = graphcol.EncodeV2(triples, "people")
//	entity, ok, _ := graphcol.DecodeEntity(data, "https://example.com/people/alice")
//
// Predicate projection:
//
//	names, _ := graphcol.Decode(data, graphcol.WithPredicates("name"))
//
// This package provides convenient top-level wrappers around the chunk
// package. For the section-level layouts and column codecs, use the chunk,
// section, and encoding packages directly.
package graphcol

import (
	"github.com/arloliu/graphcol/chunk"
	"github.com/arloliu/graphcol/section"
)

// Triple is the atomic record of the format. See chunk.Triple.
type Triple = chunk.Triple

// Value is the tagged object of a triple. See chunk.Value.
type Value = chunk.Value

// Stats summarizes a chunk from its header alone. See chunk.Stats.
type Stats = chunk.Stats

// StreamingEncoder accumulates triples and flushes them as chunks.
type StreamingEncoder = chunk.StreamingEncoder

// DecodeOption configures a decode operation.
type DecodeOption = chunk.DecodeOption

// Value constructors, re-exported for callers that only import the root
// package.
var (
	NullValue      = chunk.NullValue
	BoolValue      = chunk.BoolValue
	Int32Value     = chunk.Int32Value
	Int64Value     = chunk.Int64Value
	Float64Value   = chunk.Float64Value
	StringValue    = chunk.StringValue
	BinaryValue    = chunk.BinaryValue
	TimestampValue = chunk.TimestampValue
	DateValue      = chunk.DateValue
	DurationValue  = chunk.DurationValue
	RefValue       = chunk.RefValue
	RefArrayValue  = chunk.RefArrayValue
	JSONValue      = chunk.JSONValue
	GeoPointValue  = chunk.GeoPointValue
	URLValue       = chunk.URLValue
)

// Encode serializes an ordered triple batch into a V1 chunk.
func Encode(triples []Triple, namespace string) ([]byte, error) {
	return chunk.Encode(triples, namespace)
}

// EncodeV2 serializes a triple batch into a V2 chunk with an entity index.
func EncodeV2(triples []Triple, namespace string) ([]byte, error) {
	return chunk.EncodeV2(triples, namespace)
}

// Decode deserializes a chunk, auto-detecting V1 and V2.
func Decode(data []byte, opts ...DecodeOption) ([]Triple, error) {
	return chunk.Decode(data, opts...)
}

// DecodeV2 deserializes a V2 chunk.
func DecodeV2(data []byte, opts ...DecodeOption) ([]Triple, error) {
	return chunk.DecodeV2(data, opts...)
}

// DecodeEntity returns the triples of one entity from a V2 chunk, with a
// found flag that is false when the entity is absent.
func DecodeEntity(data []byte, entityID string) ([]Triple, bool, error) {
	return chunk.DecodeEntity(data, entityID)
}

// ReadFooter parses and validates the footer of a V2 chunk.
func ReadFooter(data []byte) (section.Footer, error) {
	return chunk.ReadFooter(data)
}

// ReadEntityIndex extracts and verifies the entity index of a V2 chunk.
func ReadEntityIndex(data []byte) (*section.EntityIndex, error) {
	return chunk.ReadEntityIndex(data)
}

// ReadStats reads the header statistics of a V1 or V2 chunk.
func ReadStats(data []byte) (Stats, error) {
	return chunk.ReadStats(data)
}

// NewStreamingEncoder creates a streaming encoder for the given namespace.
func NewStreamingEncoder(namespace string) *StreamingEncoder {
	return chunk.NewStreamingEncoder(namespace)
}

// WithPredicates restricts a decode to triples with the given predicates.
func WithPredicates(names ...string) DecodeOption {
	return chunk.WithPredicates(names...)
}
