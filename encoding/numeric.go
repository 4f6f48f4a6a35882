package encoding

import (
	"math"

	"github.com/arloliu/graphcol/endian"
	"github.com/arloliu/graphcol/errs"
	"github.com/arloliu/graphcol/format"
)

// AppendInt64Column appends a signed 64-bit integer column to dst:
// u32 n, then n zigzag-coded varints.
func AppendInt64Column(dst []byte, engine endian.EndianEngine, values []int64) []byte {
	dst = engine.AppendUint32(dst, uint32(len(values))) //nolint:gosec
	for _, v := range values {
		dst = AppendVarint(dst, v)
	}

	return dst
}

// DecodeInt64Column decodes a signed 64-bit integer column.
func DecodeInt64Column(data []byte, offset int, engine endian.EndianEngine) ([]int64, int, error) {
	n, offset, err := readUint32(data, offset, engine, "int64 count")
	if err != nil {
		return nil, offset, err
	}
	if n > format.MaxDecodeArraySize {
		return nil, offset, errs.Exhausted(int64(n), format.MaxDecodeArraySize, "int64 count")
	}

	values := make([]int64, n)
	for i := uint32(0); i < n; i++ {
		values[i], offset, err = Varint(data, offset)
		if err != nil {
			return nil, offset, err
		}
	}

	return values, offset, nil
}

// AppendInt32Column appends a signed 32-bit integer column to dst:
// u32 n, then n zigzag-coded varints. Also used for date columns, where each
// value is a signed day count.
func AppendInt32Column(dst []byte, engine endian.EndianEngine, values []int32) []byte {
	dst = engine.AppendUint32(dst, uint32(len(values))) //nolint:gosec
	for _, v := range values {
		dst = AppendVarint(dst, int64(v))
	}

	return dst
}

// DecodeInt32Column decodes a signed 32-bit integer column.
func DecodeInt32Column(data []byte, offset int, engine endian.EndianEngine) ([]int32, int, error) {
	n, offset, err := readUint32(data, offset, engine, "int32 count")
	if err != nil {
		return nil, offset, err
	}
	if n > format.MaxDecodeArraySize {
		return nil, offset, errs.Exhausted(int64(n), format.MaxDecodeArraySize, "int32 count")
	}

	values := make([]int32, n)
	for i := uint32(0); i < n; i++ {
		var v int64
		v, offset, err = Varint(data, offset)
		if err != nil {
			return nil, offset, err
		}
		if v < math.MinInt32 || v > math.MaxInt32 {
			return nil, offset, errs.BadEncoding("int32 value out of range")
		}

		values[i] = int32(v)
	}

	return values, offset, nil
}

// AppendFloat64Column appends a float64 column to dst: u32 n, then n*8 bytes
// little-endian. Values are stored bit-exact, so NaN payloads, infinities and
// negative zero round-trip unchanged.
func AppendFloat64Column(dst []byte, engine endian.EndianEngine, values []float64) []byte {
	dst = engine.AppendUint32(dst, uint32(len(values))) //nolint:gosec
	for _, v := range values {
		dst = engine.AppendUint64(dst, math.Float64bits(v))
	}

	return dst
}

// DecodeFloat64Column decodes a float64 column.
func DecodeFloat64Column(data []byte, offset int, engine endian.EndianEngine) ([]float64, int, error) {
	n, offset, err := readUint32(data, offset, engine, "float64 count")
	if err != nil {
		return nil, offset, err
	}
	if n > format.MaxDecodeArraySize {
		return nil, offset, errs.Exhausted(int64(n), format.MaxDecodeArraySize, "float64 count")
	}
	if int64(n)*8 > format.MaxDecodeTotalBytes {
		return nil, offset, errs.Exhausted(int64(n)*8, format.MaxDecodeTotalBytes, "float64 bytes")
	}
	if offset+int(n)*8 > len(data) {
		return nil, offset, errs.Truncated("float64 column")
	}

	values := make([]float64, n)
	for i := uint32(0); i < n; i++ {
		values[i] = math.Float64frombits(engine.Uint64(data[offset : offset+8]))
		offset += 8
	}

	return values, offset, nil
}
