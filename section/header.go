package section

import (
	"math"
	"unicode/utf8"

	"github.com/arloliu/graphcol/endian"
	"github.com/arloliu/graphcol/errs"
	"github.com/arloliu/graphcol/format"
)

// ColumnEntry locates one column payload inside a chunk. Offset is measured
// from the start of the chunk.
type ColumnEntry struct {
	Offset uint32
	Length uint32
}

// ChunkHeader is the self-describing variable-length header at the start of
// every V1 chunk.
//
// The predicate list is metadata for header-only consumers such as the
// compaction planner; the authoritative predicate of each triple comes from
// the predicate dictionary column.
type ChunkHeader struct {
	// TripleCount is the number of triples in the chunk.
	TripleCount uint32 // byte offset 6-9
	// Flags is reserved and must be zero in version 1.
	Flags uint16 // byte offset 10-11
	// MinTimestamp is the smallest triple timestamp, or 0 for an empty chunk.
	MinTimestamp int64 // byte offset 12-19
	// MaxTimestamp is the largest triple timestamp, or 0 for an empty chunk.
	MaxTimestamp int64 // byte offset 20-27
	// Namespace is the caller-supplied namespace of the batch.
	Namespace string // byte offset 28-29 length, then bytes
	// Predicates lists the distinct predicate names in dictionary order.
	Predicates []string
	// Columns is the per-column offset/length directory.
	Columns []ColumnEntry
}

// Size returns the exact encoded size of the header in bytes.
func (h *ChunkHeader) Size() int {
	n := 4 + 2 + 4 + 2 + 8 + 8 // magic, version, triple count, flags, min/max timestamp
	n += 2 + len(h.Namespace)
	n += 2
	for _, p := range h.Predicates {
		n += 2 + len(p)
	}
	n += 2 + len(h.Columns)*8

	return n
}

// AppendTo serializes the header to dst and returns the extended slice.
func (h *ChunkHeader) AppendTo(dst []byte, engine endian.EndianEngine) ([]byte, error) {
	if len(h.Namespace) > math.MaxUint16 {
		return nil, errs.BadArgument("namespace exceeds 65535 bytes")
	}
	if len(h.Predicates) > math.MaxUint16 {
		return nil, errs.BadArgument("more than 65535 distinct predicates")
	}
	if len(h.Columns) > math.MaxUint16 {
		return nil, errs.BadArgument("more than 65535 columns")
	}

	dst = engine.AppendUint32(dst, MagicNumber)
	dst = engine.AppendUint16(dst, Version1)
	dst = engine.AppendUint32(dst, h.TripleCount)
	dst = engine.AppendUint16(dst, h.Flags)
	dst = engine.AppendUint64(dst, uint64(h.MinTimestamp)) //nolint:gosec
	dst = engine.AppendUint64(dst, uint64(h.MaxTimestamp)) //nolint:gosec

	dst = engine.AppendUint16(dst, uint16(len(h.Namespace))) //nolint:gosec
	dst = append(dst, h.Namespace...)

	dst = engine.AppendUint16(dst, uint16(len(h.Predicates))) //nolint:gosec
	for _, p := range h.Predicates {
		if len(p) > math.MaxUint16 {
			return nil, errs.BadArgument("predicate name exceeds 65535 bytes")
		}
		dst = engine.AppendUint16(dst, uint16(len(p))) //nolint:gosec
		dst = append(dst, p...)
	}

	dst = engine.AppendUint16(dst, uint16(len(h.Columns))) //nolint:gosec
	for _, c := range h.Columns {
		dst = engine.AppendUint32(dst, c.Offset)
		dst = engine.AppendUint32(dst, c.Length)
	}

	return dst, nil
}

// ParseChunkHeader parses a V1 header from the start of data.
//
// Returns the header and the byte offset of the first column payload. The
// magic number, version, triple count bound and UTF-8 validity of the
// namespace and predicate metadata are all verified here.
func ParseChunkHeader(data []byte, engine endian.EndianEngine) (ChunkHeader, int, error) {
	var h ChunkHeader

	if len(data) < V1MinSize {
		return h, 0, errs.Truncated("chunk header")
	}

	magic := engine.Uint32(data[0:4])
	if magic != MagicNumber {
		return h, 0, &errs.BadMagicError{Expected: MagicNumber, Found: magic}
	}

	version := engine.Uint16(data[4:6])
	if version != Version1 {
		return h, 0, &errs.BadVersionError{Found: uint32(version)}
	}

	h.TripleCount = engine.Uint32(data[6:10])
	if h.TripleCount > format.MaxDecodeArraySize {
		return h, 0, errs.Exhausted(int64(h.TripleCount), format.MaxDecodeArraySize, "triple count")
	}

	h.Flags = engine.Uint16(data[10:12])
	h.MinTimestamp = int64(engine.Uint64(data[12:20])) //nolint:gosec
	h.MaxTimestamp = int64(engine.Uint64(data[20:28])) //nolint:gosec

	offset := 28

	nsLen := int(engine.Uint16(data[offset : offset+2]))
	offset += 2
	if offset+nsLen > len(data) {
		return h, 0, errs.Truncated("namespace")
	}
	if !utf8.Valid(data[offset : offset+nsLen]) {
		return h, 0, errs.BadEncoding("namespace is not valid UTF-8")
	}
	h.Namespace = string(data[offset : offset+nsLen])
	offset += nsLen

	if offset+2 > len(data) {
		return h, 0, errs.Truncated("predicate count")
	}
	predCount := int(engine.Uint16(data[offset : offset+2]))
	offset += 2

	h.Predicates = make([]string, 0, predCount)
	for i := 0; i < predCount; i++ {
		if offset+2 > len(data) {
			return h, 0, errs.Truncated("predicate length")
		}
		predLen := int(engine.Uint16(data[offset : offset+2]))
		offset += 2
		if offset+predLen > len(data) {
			return h, 0, errs.Truncated("predicate name")
		}
		if !utf8.Valid(data[offset : offset+predLen]) {
			return h, 0, errs.BadEncoding("predicate name is not valid UTF-8")
		}
		h.Predicates = append(h.Predicates, string(data[offset:offset+predLen]))
		offset += predLen
	}

	if offset+2 > len(data) {
		return h, 0, errs.Truncated("column count")
	}
	colCount := int(engine.Uint16(data[offset : offset+2]))
	offset += 2

	if offset+colCount*8 > len(data) {
		return h, 0, errs.Truncated("column directory")
	}
	h.Columns = make([]ColumnEntry, colCount)
	for i := 0; i < colCount; i++ {
		h.Columns[i] = ColumnEntry{
			Offset: engine.Uint32(data[offset : offset+4]),
			Length: engine.Uint32(data[offset+4 : offset+8]),
		}
		offset += 8
	}

	return h, offset, nil
}
