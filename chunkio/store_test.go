package chunkio

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/graphcol/chunk"
	"github.com/arloliu/graphcol/errs"
	"github.com/arloliu/graphcol/format"
)

func encodeBatch(t *testing.T, namespace string, count int) []byte {
	t.Helper()

	triples := make([]chunk.Triple, 0, count)
	for i := range count {
		triples = append(triples, chunk.Triple{
			Subject:   "entity",
			Predicate: "value",
			Object:    chunk.Int64Value(int64(i)),
			Timestamp: int64(i),
			TxID:      "tx",
		})
	}

	data, err := chunk.Encode(triples, namespace)
	require.NoError(t, err)

	return data
}

func TestStore_WriteRead(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	data := encodeBatch(t, "people", 5)

	path, err := store.Write("people", data)
	require.NoError(t, err)
	require.Equal(t, "people", filepath.Base(filepath.Dir(path)))

	got, err := store.Read(path)
	require.NoError(t, err)
	require.Equal(t, data, got)

	decoded, err := chunk.Decode(got)
	require.NoError(t, err)
	require.Len(t, decoded, 5)
}

func TestStore_WriteIdempotent(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	data := encodeBatch(t, "ns", 3)

	first, err := store.Write("ns", data)
	require.NoError(t, err)
	second, err := store.Write("ns", data)
	require.NoError(t, err)
	require.Equal(t, first, second)

	paths, err := store.Paths()
	require.NoError(t, err)
	require.Len(t, paths, 1)
}

func TestStore_CompressionVariants(t *testing.T) {
	for _, ct := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		t.Run(ct.String(), func(t *testing.T) {
			store, err := NewStore(t.TempDir(), WithCompression(ct))
			require.NoError(t, err)

			data := encodeBatch(t, "ns", 10)

			path, err := store.Write("ns", data)
			require.NoError(t, err)

			got, err := store.Read(path)
			require.NoError(t, err)
			require.Equal(t, data, got)
		})
	}
}

func TestStore_Scan(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Write("a", encodeBatch(t, "a", 1))
	require.NoError(t, err)
	_, err = store.Write("b", encodeBatch(t, "b", 2))
	require.NoError(t, err)

	total := 0
	err = store.Scan(func(path string, data []byte) error {
		stats, err := chunk.ReadStats(data)
		require.NoError(t, err)
		total += stats.TripleCount

		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, total)
}

func TestStore_CompactionCandidates(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	small, err := store.Write("ns", encodeBatch(t, "ns", 2))
	require.NoError(t, err)
	medium, err := store.Write("ns", encodeBatch(t, "ns", 10))
	require.NoError(t, err)
	_, err = store.Write("ns", encodeBatch(t, "ns", 100))
	require.NoError(t, err)

	candidates, err := store.CompactionCandidates(50)
	require.NoError(t, err)
	require.Equal(t, []string{small, medium}, candidates)
}

func TestStore_StatsAll(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	path, err := store.Write("ns", encodeBatch(t, "ns", 4))
	require.NoError(t, err)

	stats, err := store.StatsAll()
	require.NoError(t, err)
	require.Len(t, stats, 1)
	require.Equal(t, 4, stats[path].TripleCount)
}

func TestStore_RejectsBadArguments(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Write("ns", nil)
	require.ErrorIs(t, err, errs.ErrBadArgument)

	_, err = store.Write("a/b", encodeBatch(t, "ns", 1))
	require.ErrorIs(t, err, errs.ErrBadArgument)
}
