package chunk

import (
	"fmt"
	"hash/crc32"

	"github.com/arloliu/graphcol/encoding"
	"github.com/arloliu/graphcol/endian"
	"github.com/arloliu/graphcol/errs"
	"github.com/arloliu/graphcol/format"
	"github.com/arloliu/graphcol/internal/pool"
	"github.com/arloliu/graphcol/section"
)

var le = endian.GetLittleEndianEngine()

// valueBuckets collects the per-type value arrays in batch order. The n-th
// value appended for a type is consumed by the n-th row of that type on
// decode, which is what makes the value-index column reversible.
type valueBuckets struct {
	bools     []bool
	int32s    []int32
	int64s    []int64
	floats    []float64
	strings   []string
	binaries  [][]byte
	tsVals    []int64
	dates     []int32
	durations []string
	refs      []string
	refArrays [][]string
	jsons     []string
	geos      []format.GeoPoint
	urls      []string
}

// add appends the value to its type's bucket and returns the zero-based index
// it was stored at.
func (b *valueBuckets) add(v Value) int {
	switch v.Type {
	case format.TypeBool:
		b.bools = append(b.bools, v.Bool)
		return len(b.bools) - 1
	case format.TypeInt32:
		b.int32s = append(b.int32s, int32(v.Int)) //nolint:gosec
		return len(b.int32s) - 1
	case format.TypeInt64:
		b.int64s = append(b.int64s, v.Int)
		return len(b.int64s) - 1
	case format.TypeFloat64:
		b.floats = append(b.floats, v.Float)
		return len(b.floats) - 1
	case format.TypeString:
		b.strings = append(b.strings, v.Str)
		return len(b.strings) - 1
	case format.TypeBinary:
		b.binaries = append(b.binaries, v.Bytes)
		return len(b.binaries) - 1
	case format.TypeTimestamp:
		b.tsVals = append(b.tsVals, v.Int)
		return len(b.tsVals) - 1
	case format.TypeDate:
		b.dates = append(b.dates, int32(v.Int)) //nolint:gosec
		return len(b.dates) - 1
	case format.TypeDuration:
		b.durations = append(b.durations, v.Str)
		return len(b.durations) - 1
	case format.TypeRef:
		b.refs = append(b.refs, v.Str)
		return len(b.refs) - 1
	case format.TypeRefArray:
		b.refArrays = append(b.refArrays, v.Refs)
		return len(b.refArrays) - 1
	case format.TypeJSON:
		b.jsons = append(b.jsons, v.Str)
		return len(b.jsons) - 1
	case format.TypeGeoPoint:
		b.geos = append(b.geos, v.Geo)
		return len(b.geos) - 1
	case format.TypeURL:
		b.urls = append(b.urls, v.Str)
		return len(b.urls) - 1
	default:
		return -1
	}
}

// appendColumn appends the value column payload for tag to dst.
func (b *valueBuckets) appendColumn(dst []byte, tag format.ObjectType) []byte {
	switch tag {
	case format.TypeBool:
		return encoding.AppendBoolColumn(dst, le, b.bools)
	case format.TypeInt32:
		return encoding.AppendInt32Column(dst, le, b.int32s)
	case format.TypeInt64:
		return encoding.AppendInt64Column(dst, le, b.int64s)
	case format.TypeFloat64:
		return encoding.AppendFloat64Column(dst, le, b.floats)
	case format.TypeString:
		return encoding.AppendDictionaryColumn(dst, le, b.strings)
	case format.TypeBinary:
		return encoding.AppendBinaryColumn(dst, le, b.binaries)
	case format.TypeTimestamp:
		return encoding.AppendTimestampColumn(dst, le, b.tsVals)
	case format.TypeDate:
		return encoding.AppendInt32Column(dst, le, b.dates)
	case format.TypeDuration:
		return encoding.AppendDictionaryColumn(dst, le, b.durations)
	case format.TypeRef:
		return encoding.AppendDictionaryColumn(dst, le, b.refs)
	case format.TypeRefArray:
		return encoding.AppendRefArrayColumn(dst, le, b.refArrays)
	case format.TypeJSON:
		return encoding.AppendDictionaryColumn(dst, le, b.jsons)
	case format.TypeGeoPoint:
		return encoding.AppendGeoPointColumn(dst, le, b.geos)
	case format.TypeURL:
		return encoding.AppendDictionaryColumn(dst, le, b.urls)
	default:
		return dst
	}
}

// Encode serializes an ordered triple batch into a V1 chunk.
//
// The batch length is bounded by MaxEncodeArraySize and a rough size estimate
// by MaxEncodeTotalBytes before any column is built. An empty batch produces
// a minimal but valid chunk: full header, zero columns, trailing checksum.
func Encode(triples []Triple, namespace string) ([]byte, error) {
	if len(triples) > format.MaxEncodeArraySize {
		return nil, errs.Exhausted(int64(len(triples)), format.MaxEncodeArraySize, "encode triple count")
	}

	estimate := int64(0)
	for i, t := range triples {
		if !t.Object.Type.Valid() {
			return nil, errs.BadArgument(fmt.Sprintf("triple %d has unknown object type %d", i, t.Object.Type))
		}
		if t.Object.Type == format.TypeVector {
			return nil, errs.BadArgument(fmt.Sprintf("triple %d: vector values never appear in a chunk payload", i))
		}
		estimate += int64(t.payloadSize())
	}
	if estimate > format.MaxEncodeTotalBytes {
		return nil, errs.Exhausted(estimate, format.MaxEncodeTotalBytes, "encode batch size")
	}

	n := len(triples)
	header := section.ChunkHeader{
		TripleCount: uint32(n), //nolint:gosec
		Namespace:   namespace,
	}

	if n == 0 {
		return assemble(&header, nil, nil)
	}

	subjects := make([]string, n)
	predicates := make([]string, n)
	txIDs := make([]string, n)
	timestamps := make([]int64, n)
	typeTags := make([]byte, n)
	valueIdx := make([]uint64, n)

	var buckets valueBuckets
	present := [format.MaxObjectType + 1]bool{}

	for i, t := range triples {
		subjects[i] = t.Subject
		predicates[i] = t.Predicate
		txIDs[i] = t.TxID
		timestamps[i] = t.Timestamp
		typeTags[i] = byte(t.Object.Type)

		if t.Object.Type == format.TypeNull {
			valueIdx[i] = 0 // wire form of the -1 null index
			continue
		}

		present[t.Object.Type] = true
		valueIdx[i] = uint64(buckets.add(t.Object)) + 1 //nolint:gosec
	}

	header.MinTimestamp, header.MaxTimestamp = timestamps[0], timestamps[0]
	for _, ts := range timestamps[1:] {
		if ts < header.MinTimestamp {
			header.MinTimestamp = ts
		}
		if ts > header.MaxTimestamp {
			header.MaxTimestamp = ts
		}
	}

	header.Predicates = distinct(predicates)

	// All columns are built back to back into one pooled scratch buffer;
	// spans record where each column starts and ends.
	scratch := pool.GetChunkBuffer()
	defer pool.PutChunkBuffer(scratch)

	buf := scratch.B[:0]
	var spans []columnSpan

	mark := func() int { return len(buf) }
	seal := func(start int) {
		spans = append(spans, columnSpan{start: start, end: len(buf)})
	}

	start := mark()
	buf = encoding.AppendDictionaryColumn(buf, le, subjects)
	seal(start)

	start = mark()
	buf = encoding.AppendDictionaryColumn(buf, le, predicates)
	seal(start)

	start = mark()
	buf = encoding.AppendRLEColumn(buf, le, typeTags)
	seal(start)

	start = mark()
	for _, vi := range valueIdx {
		buf = encoding.AppendUvarint(buf, vi)
	}
	seal(start)

	start = mark()
	buf = encoding.AppendTimestampColumn(buf, le, timestamps)
	seal(start)

	start = mark()
	buf = encoding.AppendDictionaryColumn(buf, le, txIDs)
	seal(start)

	for tag := format.TypeBool; tag <= format.TypeURL; tag++ {
		if !present[tag] {
			continue
		}
		start = mark()
		buf = append(buf, byte(tag))
		buf = buckets.appendColumn(buf, tag)
		seal(start)
	}

	scratch.B = buf // return the grown buffer to the pool on release

	return assemble(&header, buf, spans)
}

// columnSpan locates one column inside the shared scratch buffer.
type columnSpan struct {
	start int
	end   int
}

// assemble lays out the header, the columns from the scratch buffer, and the
// trailing checksum into one freshly-owned output buffer.
func assemble(header *section.ChunkHeader, scratch []byte, spans []columnSpan) ([]byte, error) {
	header.Columns = make([]section.ColumnEntry, len(spans))

	running := header.Size()
	for i, s := range spans {
		header.Columns[i] = section.ColumnEntry{
			Offset: uint32(running),       //nolint:gosec
			Length: uint32(s.end - s.start), //nolint:gosec
		}
		running += s.end - s.start
	}

	out := make([]byte, 0, running+section.ChecksumSize)
	out, err := header.AppendTo(out, le)
	if err != nil {
		return nil, err
	}
	for _, s := range spans {
		out = append(out, scratch[s.start:s.end]...)
	}

	return le.AppendUint32(out, crc32.ChecksumIEEE(out)), nil
}

// distinct returns the values in first-occurrence order with duplicates
// removed, mirroring how the dictionary column orders its entries.
func distinct(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, min(len(values), 16))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
