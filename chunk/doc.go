// Package chunk implements the GraphCol triple codec: column-oriented
// serialization of triple batches into self-describing V1 chunks, the V2
// envelope that adds an entity index and footer for single-entity range
// access, a streaming encoder, and header-only chunk statistics.
//
// The codec is pure: bytes in, bytes or triples out. Every public operation
// is synchronous, performs no I/O, and returns freshly-owned output. Inputs
// are treated as hostile on decode; every length field is validated against
// the bounds in the format package before it sizes an allocation.
package chunk
