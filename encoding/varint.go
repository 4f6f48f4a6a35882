package encoding

import (
	"github.com/arloliu/graphcol/errs"
)

// MaxVarintLen is the maximum number of bytes a 64-bit varint may occupy.
// Decoding fails with ErrBadEncoding when a value does not terminate within
// this many bytes.
const MaxVarintLen = 10

// ZigzagEncode maps a signed value to an unsigned one so that small
// magnitudes of either sign produce short varints: -1 becomes 1, -2 becomes
// 3, 0 stays 0, 1 becomes 2, and so on.
func ZigzagEncode(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63) //nolint:gosec
}

// ZigzagDecode is the inverse of ZigzagEncode.
func ZigzagDecode(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1) //nolint:gosec
}

// AppendUvarint appends v to dst as an unsigned LEB128 varint and returns the
// extended slice.
func AppendUvarint(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}

	return append(dst, byte(v))
}

// AppendVarint appends v to dst as a zigzag-coded signed varint and returns
// the extended slice.
func AppendVarint(dst []byte, v int64) []byte {
	return AppendUvarint(dst, ZigzagEncode(v))
}

// UvarintSize reports the exact number of bytes AppendUvarint would write
// for v, without writing anything.
func UvarintSize(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}

	return n
}

// VarintSize reports the exact number of bytes AppendVarint would write for v.
func VarintSize(v int64) int {
	return UvarintSize(ZigzagEncode(v))
}

// Uvarint decodes an unsigned LEB128 varint from data starting at offset.
//
// Returns the value and the offset of the first byte after it. Fails with
// ErrTruncated when the buffer ends mid-value and with ErrBadEncoding when
// more than MaxVarintLen bytes are consumed without a terminator.
func Uvarint(data []byte, offset int) (uint64, int, error) {
	var v uint64
	var shift uint

	for i := 0; ; i++ {
		if i >= MaxVarintLen {
			return 0, offset, errs.BadEncoding("varint exceeds 10 bytes")
		}
		if offset+i >= len(data) {
			return 0, offset, errs.Truncated("varint")
		}

		b := data[offset+i]
		v |= uint64(b&0x7F) << shift
		if b < 0x80 {
			return v, offset + i + 1, nil
		}
		shift += 7
	}
}

// Varint decodes a zigzag-coded signed varint from data starting at offset.
func Varint(data []byte, offset int) (int64, int, error) {
	u, next, err := Uvarint(data, offset)
	if err != nil {
		return 0, offset, err
	}

	return ZigzagDecode(u), next, nil
}
