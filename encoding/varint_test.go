package encoding

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/graphcol/errs"
)

func TestUvarint_RoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 300, 16383, 16384, math.MaxUint32, math.MaxUint64}

	for _, v := range values {
		data := AppendUvarint(nil, v)
		require.Equal(t, UvarintSize(v), len(data))

		decoded, offset, err := Uvarint(data, 0)
		require.NoError(t, err)
		require.Equal(t, v, decoded)
		require.Equal(t, len(data), offset)
	}
}

func TestVarint_RoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 63, -64, 64, -65, 1000, -1000, math.MaxInt64, math.MinInt64}

	for _, v := range values {
		data := AppendVarint(nil, v)
		require.Equal(t, VarintSize(v), len(data))

		decoded, offset, err := Varint(data, 0)
		require.NoError(t, err)
		require.Equal(t, v, decoded)
		require.Equal(t, len(data), offset)
	}
}

func TestVarint_AdvancingOffset(t *testing.T) {
	var data []byte
	data = AppendVarint(data, 42)
	data = AppendVarint(data, -7)
	data = AppendVarint(data, 100000)

	v1, offset, err := Varint(data, 0)
	require.NoError(t, err)
	require.Equal(t, int64(42), v1)

	v2, offset, err := Varint(data, offset)
	require.NoError(t, err)
	require.Equal(t, int64(-7), v2)

	v3, offset, err := Varint(data, offset)
	require.NoError(t, err)
	require.Equal(t, int64(100000), v3)
	require.Equal(t, len(data), offset)
}

func TestZigzag(t *testing.T) {
	require.Equal(t, uint64(0), ZigzagEncode(0))
	require.Equal(t, uint64(1), ZigzagEncode(-1))
	require.Equal(t, uint64(2), ZigzagEncode(1))
	require.Equal(t, uint64(3), ZigzagEncode(-2))

	for _, v := range []int64{0, 1, -1, math.MaxInt64, math.MinInt64} {
		require.Equal(t, v, ZigzagDecode(ZigzagEncode(v)))
	}
}

func TestUvarint_Truncated(t *testing.T) {
	data := AppendUvarint(nil, 300)
	require.Greater(t, len(data), 1)

	_, _, err := Uvarint(data[:1], 0)
	require.ErrorIs(t, err, errs.ErrTruncated)

	_, _, err = Uvarint(nil, 0)
	require.ErrorIs(t, err, errs.ErrTruncated)
}

func TestUvarint_Overrun(t *testing.T) {
	data := bytes.Repeat([]byte{0x80}, 11)

	_, _, err := Uvarint(data, 0)
	require.ErrorIs(t, err, errs.ErrBadEncoding)
}

func TestUvarint_MaxLengthBoundary(t *testing.T) {
	// MaxUint64 occupies exactly 10 bytes and must still decode.
	data := AppendUvarint(nil, math.MaxUint64)
	require.Equal(t, MaxVarintLen, len(data))

	v, _, err := Uvarint(data, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint64), v)
}
