package encoding

import (
	"github.com/arloliu/graphcol/endian"
	"github.com/arloliu/graphcol/errs"
	"github.com/arloliu/graphcol/format"
)

// AppendBoolColumn appends a bit-packed boolean column to dst: u32 n, then
// ceil(n/8) bytes with value i stored at byte i>>3, bit i&7.
func AppendBoolColumn(dst []byte, engine endian.EndianEngine, values []bool) []byte {
	dst = engine.AppendUint32(dst, uint32(len(values))) //nolint:gosec

	packed := make([]byte, (len(values)+7)/8)
	for i, v := range values {
		if v {
			packed[i>>3] |= 1 << (i & 7)
		}
	}

	return append(dst, packed...)
}

// DecodeBoolColumn decodes a bit-packed boolean column.
func DecodeBoolColumn(data []byte, offset int, engine endian.EndianEngine) ([]bool, int, error) {
	n, offset, err := readUint32(data, offset, engine, "bool count")
	if err != nil {
		return nil, offset, err
	}
	if n > format.MaxDecodeArraySize {
		return nil, offset, errs.Exhausted(int64(n), format.MaxDecodeArraySize, "bool count")
	}

	packedLen := (int(n) + 7) / 8
	if offset+packedLen > len(data) {
		return nil, offset, errs.Truncated("bool column")
	}

	values := make([]bool, n)
	for i := range values {
		values[i] = data[offset+(i>>3)]&(1<<(i&7)) != 0
	}

	return values, offset + packedLen, nil
}
