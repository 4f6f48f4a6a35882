package encoding

import (
	"github.com/arloliu/graphcol/endian"
	"github.com/arloliu/graphcol/errs"
	"github.com/arloliu/graphcol/format"
)

// AppendBinaryColumn appends a length-prefixed binary column to dst:
// u32 n, then each element as u32 len followed by its raw bytes.
func AppendBinaryColumn(dst []byte, engine endian.EndianEngine, values [][]byte) []byte {
	dst = engine.AppendUint32(dst, uint32(len(values))) //nolint:gosec
	for _, v := range values {
		dst = engine.AppendUint32(dst, uint32(len(v))) //nolint:gosec
		dst = append(dst, v...)
	}

	return dst
}

// DecodeBinaryColumn decodes a length-prefixed binary column.
//
// The cumulative element size is tracked incrementally against
// MaxDecodeTotalBytes so a forged length cannot drive a large allocation
// before the bound fires. Returned slices are freshly owned copies.
func DecodeBinaryColumn(data []byte, offset int, engine endian.EndianEngine) ([][]byte, int, error) {
	n, offset, err := readUint32(data, offset, engine, "binary count")
	if err != nil {
		return nil, offset, err
	}
	if n > format.MaxDecodeArraySize {
		return nil, offset, errs.Exhausted(int64(n), format.MaxDecodeArraySize, "binary count")
	}

	values := make([][]byte, n)
	totalBytes := int64(0)
	for i := uint32(0); i < n; i++ {
		var elemLen uint32
		elemLen, offset, err = readUint32(data, offset, engine, "binary element length")
		if err != nil {
			return nil, offset, err
		}

		totalBytes += int64(elemLen)
		if totalBytes > format.MaxDecodeTotalBytes {
			return nil, offset, errs.Exhausted(totalBytes, format.MaxDecodeTotalBytes, "binary bytes")
		}
		if offset+int(elemLen) > len(data) {
			return nil, offset, errs.Truncated("binary element")
		}

		elem := make([]byte, elemLen)
		copy(elem, data[offset:offset+int(elemLen)])
		values[i] = elem
		offset += int(elemLen)
	}

	return values, offset, nil
}
