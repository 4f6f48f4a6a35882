package chunk

import (
	"fmt"
	"hash/crc32"

	"github.com/arloliu/graphcol/encoding"
	"github.com/arloliu/graphcol/errs"
	"github.com/arloliu/graphcol/format"
	"github.com/arloliu/graphcol/section"
)

// fixedColumnCount is the number of structural columns every non-empty chunk
// carries before the per-type value columns: subjects, predicates, object
// type tags, object value indices, timestamps, and transaction ids.
const fixedColumnCount = 6

// Decode deserializes a chunk into its triple batch, auto-detecting V1 and
// V2. For a V2 chunk the embedded payload is decoded directly, so the result
// is in subject-sorted order; a V1 chunk decodes in original batch order.
func Decode(data []byte, opts ...DecodeOption) ([]Triple, error) {
	if section.IsV2(data, le) {
		footer, err := section.ReadFooter(data, le)
		if err != nil {
			return nil, err
		}

		return DecodeV1(data[:footer.DataLength], opts...)
	}

	return DecodeV1(data, opts...)
}

// DecodeV1 deserializes a V1 chunk.
//
// Validation order: size floor, magic, version, whole-payload checksum,
// header fields, column directory, then columns. The checksum covers every
// byte except the trailing checksum itself, so any later structural error
// implies a chunk that was encoded wrong rather than corrupted in transit.
func DecodeV1(data []byte, opts ...DecodeOption) ([]Triple, error) {
	cfg := newDecodeConfig(opts)

	if len(data) < section.V1MinSize {
		return nil, errs.Truncated("chunk")
	}

	magic := le.Uint32(data[0:4])
	if magic != section.MagicNumber {
		return nil, &errs.BadMagicError{Expected: section.MagicNumber, Found: magic}
	}
	version := le.Uint16(data[4:6])
	if version != section.Version1 {
		return nil, &errs.BadVersionError{Found: uint32(version)}
	}

	stored := le.Uint32(data[len(data)-section.ChecksumSize:])
	computed := crc32.ChecksumIEEE(data[:len(data)-section.ChecksumSize])
	if stored != computed {
		return nil, &errs.ChecksumError{Scope: errs.ScopePayload, Stored: stored, Computed: computed}
	}

	header, headerEnd, err := section.ParseChunkHeader(data, le)
	if err != nil {
		return nil, err
	}

	n := int(header.TripleCount)
	if n == 0 {
		return []Triple{}, nil
	}

	if len(header.Columns) < fixedColumnCount {
		return nil, errs.BadEncoding("non-empty chunk is missing structural columns")
	}

	payloadEnd := len(data) - section.ChecksumSize
	for i, c := range header.Columns {
		if int64(c.Offset) < int64(headerEnd) || int64(c.Offset)+int64(c.Length) > int64(payloadEnd) {
			return nil, errs.BadEncoding(fmt.Sprintf("column %d directory entry out of range", i))
		}
	}

	col := func(i int) []byte {
		c := header.Columns[i]
		return data[c.Offset : c.Offset+c.Length]
	}

	subjects, _, err := encoding.DecodeDictionaryColumn(col(0), 0, n, le)
	if err != nil {
		return nil, err
	}
	predicates, _, err := encoding.DecodeDictionaryColumn(col(1), 0, n, le)
	if err != nil {
		return nil, err
	}
	typeTags, _, err := encoding.DecodeRLEColumn(col(2), 0, le)
	if err != nil {
		return nil, err
	}
	if len(typeTags) != n {
		return nil, errs.BadEncoding("object type column length does not match triple count")
	}

	valueIdx := make([]int64, n)
	viData, viOffset := col(3), 0
	for i := range n {
		var raw uint64
		raw, viOffset, err = encoding.Uvarint(viData, viOffset)
		if err != nil {
			return nil, err
		}
		valueIdx[i] = int64(raw) - 1 //nolint:gosec
	}

	timestamps, _, err := encoding.DecodeTimestampColumn(col(4), 0, le)
	if err != nil {
		return nil, err
	}
	if len(timestamps) != n {
		return nil, errs.BadEncoding("timestamp column length does not match triple count")
	}

	txIDs, _, err := encoding.DecodeDictionaryColumn(col(5), 0, n, le)
	if err != nil {
		return nil, err
	}

	typeCounts := [format.MaxObjectType + 1]int{}
	for _, tag := range typeTags {
		t := format.ObjectType(tag)
		if !t.Valid() || t == format.TypeVector {
			return nil, errs.BadEncoding(fmt.Sprintf("unknown object type tag %d", tag))
		}
		typeCounts[t]++
	}

	values, err := decodeValueColumns(&header, col, typeCounts)
	if err != nil {
		return nil, err
	}

	result := make([]Triple, 0, n)
	for i := range n {
		tag := format.ObjectType(typeTags[i])

		var obj Value
		if tag == format.TypeNull {
			if valueIdx[i] != -1 {
				return nil, errs.BadEncoding("null row carries a value index")
			}
			obj = NullValue()
		} else {
			if valueIdx[i] < 0 || valueIdx[i] >= int64(typeCounts[tag]) {
				return nil, errs.BadEncoding(fmt.Sprintf("row %d value index %d out of range for type %s", i, valueIdx[i], tag))
			}
			obj = values.value(tag, int(valueIdx[i]))
		}

		if !cfg.wants(predicates[i]) {
			continue
		}

		result = append(result, Triple{
			Subject:   subjects[i],
			Predicate: predicates[i],
			Object:    obj,
			Timestamp: timestamps[i],
			TxID:      txIDs[i],
		})
	}

	return result, nil
}

// decodedValues holds the per-type value arrays recovered from the optional
// value columns.
type decodedValues struct {
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

// decodeValueColumns parses the per-type columns that follow the structural
// ones. Columns must appear in ascending tag order, each for a type that is
// actually present, and each must hold exactly as many values as rows of its
// type exist.
func decodeValueColumns(header *section.ChunkHeader, col func(int) []byte, typeCounts [format.MaxObjectType + 1]int) (*decodedValues, error) {
	values := &decodedValues{}
	covered := [format.MaxObjectType + 1]bool{}

	prevTag := format.TypeNull
	for i := fixedColumnCount; i < len(header.Columns); i++ {
		data := col(i)
		if len(data) == 0 {
			return nil, errs.Truncated("value column type marker")
		}

		tag := format.ObjectType(data[0])
		if !tag.Storable() {
			return nil, errs.BadEncoding(fmt.Sprintf("value column %d has invalid type marker %d", i, data[0]))
		}
		if tag <= prevTag {
			return nil, errs.BadEncoding("value columns not in ascending tag order")
		}
		prevTag = tag

		count := typeCounts[tag]
		if count == 0 {
			return nil, errs.BadEncoding(fmt.Sprintf("value column for absent type %s", tag))
		}

		decoded, err := values.decode(tag, data[1:], count)
		if err != nil {
			return nil, err
		}
		if decoded != count {
			return nil, errs.BadEncoding(fmt.Sprintf("%s value column holds %d values, expected %d", tag, decoded, count))
		}
		covered[tag] = true
	}

	for tag := format.TypeBool; tag <= format.TypeURL; tag++ {
		if typeCounts[tag] > 0 && !covered[tag] {
			return nil, errs.BadEncoding(fmt.Sprintf("missing value column for type %s", tag))
		}
	}

	return values, nil
}

// decode parses one value column payload (without its marker byte) and
// returns the number of values recovered.
func (v *decodedValues) decode(tag format.ObjectType, data []byte, count int) (int, error) {
	var err error

	switch tag {
	case format.TypeBool:
		v.bools, _, err = encoding.DecodeBoolColumn(data, 0, le)
		return len(v.bools), err
	case format.TypeInt32:
		v.int32s, _, err = encoding.DecodeInt32Column(data, 0, le)
		return len(v.int32s), err
	case format.TypeInt64:
		v.int64s, _, err = encoding.DecodeInt64Column(data, 0, le)
		return len(v.int64s), err
	case format.TypeFloat64:
		v.floats, _, err = encoding.DecodeFloat64Column(data, 0, le)
		return len(v.floats), err
	case format.TypeString:
		v.strings, _, err = encoding.DecodeDictionaryColumn(data, 0, count, le)
		return len(v.strings), err
	case format.TypeBinary:
		v.binaries, _, err = encoding.DecodeBinaryColumn(data, 0, le)
		return len(v.binaries), err
	case format.TypeTimestamp:
		v.tsVals, _, err = encoding.DecodeTimestampColumn(data, 0, le)
		return len(v.tsVals), err
	case format.TypeDate:
		v.dates, _, err = encoding.DecodeInt32Column(data, 0, le)
		return len(v.dates), err
	case format.TypeDuration:
		v.durations, _, err = encoding.DecodeDictionaryColumn(data, 0, count, le)
		return len(v.durations), err
	case format.TypeRef:
		v.refs, _, err = encoding.DecodeDictionaryColumn(data, 0, count, le)
		return len(v.refs), err
	case format.TypeRefArray:
		v.refArrays, _, err = encoding.DecodeRefArrayColumn(data, 0, le)
		return len(v.refArrays), err
	case format.TypeJSON:
		v.jsons, _, err = encoding.DecodeDictionaryColumn(data, 0, count, le)
		return len(v.jsons), err
	case format.TypeGeoPoint:
		v.geos, _, err = encoding.DecodeGeoPointColumn(data, 0, le)
		return len(v.geos), err
	case format.TypeURL:
		v.urls, _, err = encoding.DecodeDictionaryColumn(data, 0, count, le)
		return len(v.urls), err
	default:
		return 0, errs.BadEncoding(fmt.Sprintf("unexpected value column type %d", tag))
	}
}

// value returns the idx-th decoded value of the given type.
func (v *decodedValues) value(tag format.ObjectType, idx int) Value {
	switch tag {
	case format.TypeBool:
		return BoolValue(v.bools[idx])
	case format.TypeInt32:
		return Int32Value(v.int32s[idx])
	case format.TypeInt64:
		return Int64Value(v.int64s[idx])
	case format.TypeFloat64:
		return Float64Value(v.floats[idx])
	case format.TypeString:
		return StringValue(v.strings[idx])
	case format.TypeBinary:
		return BinaryValue(v.binaries[idx])
	case format.TypeTimestamp:
		return TimestampValue(v.tsVals[idx])
	case format.TypeDate:
		return DateValue(v.dates[idx])
	case format.TypeDuration:
		return DurationValue(v.durations[idx])
	case format.TypeRef:
		return RefValue(v.refs[idx])
	case format.TypeRefArray:
		return RefArrayValue(v.refArrays[idx])
	case format.TypeJSON:
		return JSONValue(v.jsons[idx])
	case format.TypeGeoPoint:
		return GeoPointValue(v.geos[idx].Lat, v.geos[idx].Lng)
	case format.TypeURL:
		return URLValue(v.urls[idx])
	default:
		return NullValue()
	}
}
