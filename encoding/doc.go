// Package encoding implements the per-column codecs of the GraphCol chunk
// format: LEB128 varints, first-occurrence dictionaries, run-length encoded
// type tags, delta-coded timestamps, and the fixed-width numeric, boolean,
// geo-point, binary and ref-array column layouts.
//
// Encoders append to a caller-supplied byte slice and return the extended
// slice. Decoders are cursor style: they take the input buffer and a starting
// offset, and return the decoded values together with the new offset. Every
// count or length field read from the input is validated against the bounds
// in the format package before any allocation is sized from it.
package encoding
