package encoding

import (
	"github.com/arloliu/graphcol/endian"
	"github.com/arloliu/graphcol/errs"
	"github.com/arloliu/graphcol/format"
)

// AppendTimestampColumn appends a delta-coded timestamp column to dst.
//
// On-wire layout: u32 n, then n signed varints. The first varint carries the
// first timestamp itself; each subsequent varint carries the signed
// difference from the previous timestamp. Rows whose delta lies within
// -64..63 take one byte each after the first.
func AppendTimestampColumn(dst []byte, engine endian.EndianEngine, values []int64) []byte {
	dst = engine.AppendUint32(dst, uint32(len(values))) //nolint:gosec

	prev := int64(0)
	for i, v := range values {
		if i == 0 {
			dst = AppendVarint(dst, v)
		} else {
			dst = AppendVarint(dst, v-prev)
		}
		prev = v
	}

	return dst
}

// DecodeTimestampColumn decodes a delta-coded timestamp column.
func DecodeTimestampColumn(data []byte, offset int, engine endian.EndianEngine) ([]int64, int, error) {
	n, offset, err := readUint32(data, offset, engine, "timestamp count")
	if err != nil {
		return nil, offset, err
	}
	if n > format.MaxDecodeArraySize {
		return nil, offset, errs.Exhausted(int64(n), format.MaxDecodeArraySize, "timestamp count")
	}

	values := make([]int64, n)
	prev := int64(0)
	for i := uint32(0); i < n; i++ {
		var v int64
		v, offset, err = Varint(data, offset)
		if err != nil {
			return nil, offset, err
		}

		if i == 0 {
			prev = v
		} else {
			prev += v
		}
		values[i] = prev
	}

	return values, offset, nil
}
