package chunk

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/graphcol/errs"
)

func TestReadStats_V1(t *testing.T) {
	data, err := Encode(allTypesBatch(), "everything")
	require.NoError(t, err)

	stats, err := ReadStats(data)
	require.NoError(t, err)
	require.Equal(t, len(allTypesBatch()), stats.TripleCount)
	require.Equal(t, "everything", stats.Namespace)
	require.Equal(t, int64(1), stats.MinTimestamp)
	require.Equal(t, int64(16), stats.MaxTimestamp)
	require.Equal(t, len(data), stats.SizeBytes)
	require.Contains(t, stats.Predicates, "name")
	require.Contains(t, stats.Predicates, "loc")
}

func TestReadStats_V2(t *testing.T) {
	data, err := EncodeV2(allTypesBatch(), "everything")
	require.NoError(t, err)

	stats, err := ReadStats(data)
	require.NoError(t, err)
	require.Equal(t, len(allTypesBatch()), stats.TripleCount)
	require.Equal(t, len(data), stats.SizeBytes)
}

func TestReadStats_Empty(t *testing.T) {
	data, err := Encode(nil, "ns")
	require.NoError(t, err)

	stats, err := ReadStats(data)
	require.NoError(t, err)
	require.Equal(t, 0, stats.TripleCount)
	require.Empty(t, stats.Predicates)
	require.Equal(t, int64(0), stats.MinTimestamp)
	require.Equal(t, int64(0), stats.MaxTimestamp)
}

func TestReadStats_CorruptionDetected(t *testing.T) {
	data, err := Encode(allTypesBatch(), "ns")
	require.NoError(t, err)

	data[20] ^= 0x01

	_, err = ReadStats(data)
	require.ErrorIs(t, err, errs.ErrChecksumMismatch)
}
