package chunk

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/graphcol/errs"
	"github.com/arloliu/graphcol/section"
)

func v2Batch() []Triple {
	return []Triple{
		{Subject: "b", Predicate: "name", Object: StringValue("Bee"), Timestamp: 20, TxID: "tx1"},
		{Subject: "a", Predicate: "name", Object: StringValue("Ay"), Timestamp: 10, TxID: "tx2"},
		{Subject: "c", Predicate: "name", Object: StringValue("Sea"), Timestamp: 30, TxID: "tx3"},
		{Subject: "a", Predicate: "age", Object: Int32Value(4), Timestamp: 40, TxID: "tx4"},
	}
}

func TestEncodeV2_SubjectsSorted(t *testing.T) {
	data, err := EncodeV2(v2Batch(), "ns")
	require.NoError(t, err)

	decoded, err := DecodeV2(data)
	require.NoError(t, err)
	require.Len(t, decoded, 4)

	subjects := make([]string, len(decoded))
	for i, triple := range decoded {
		subjects[i] = triple.Subject
	}
	require.Equal(t, []string{"a", "a", "b", "c"}, subjects)
	require.True(t, sort.StringsAreSorted(subjects))

	// Triples of one subject keep their input order.
	require.Equal(t, "name", decoded[0].Predicate)
	require.Equal(t, "age", decoded[1].Predicate)
}

func TestDecode_AutoDetectsV2(t *testing.T) {
	batch := v2Batch()

	v2, err := EncodeV2(batch, "ns")
	require.NoError(t, err)

	viaGeneric, err := Decode(v2)
	require.NoError(t, err)
	viaV2, err := DecodeV2(v2)
	require.NoError(t, err)
	requireEqualTriples(t, viaV2, viaGeneric)

	// The multiset matches the input batch.
	require.ElementsMatch(t, batch, viaGeneric)
}

func TestDecodeV2_MultisetEqualsInput(t *testing.T) {
	batch := allTypesBatch()

	data, err := EncodeV2(batch, "ns")
	require.NoError(t, err)

	decoded, err := DecodeV2(data)
	require.NoError(t, err)
	require.ElementsMatch(t, batch, decoded)
}

func TestReadFooter_Fields(t *testing.T) {
	data, err := EncodeV2(v2Batch(), "ns")
	require.NoError(t, err)

	footer, err := ReadFooter(data)
	require.NoError(t, err)
	require.Equal(t, section.Version2, footer.Version)
	require.Equal(t, uint32(3), footer.EntityCount)
	require.Equal(t, int64(10), footer.MinTimestamp)
	require.Equal(t, int64(40), footer.MaxTimestamp)
	require.Equal(t, footer.DataLength, footer.IndexOffset)
	require.Equal(t, int(footer.IndexOffset)+int(footer.IndexLength)+section.V2TailSize, len(data))
}

func TestReadEntityIndex_Entries(t *testing.T) {
	data, err := EncodeV2(v2Batch(), "ns")
	require.NoError(t, err)

	index, err := ReadEntityIndex(data)
	require.NoError(t, err)
	require.Equal(t, 3, index.Len())

	require.Equal(t, "a", index.Entries[0].EntityID)
	require.Equal(t, uint32(0), index.Entries[0].Offset)
	require.Equal(t, uint32(2), index.Entries[0].Length)

	require.Equal(t, "b", index.Entries[1].EntityID)
	require.Equal(t, uint32(2), index.Entries[1].Offset)
	require.Equal(t, uint32(1), index.Entries[1].Length)

	require.Equal(t, "c", index.Entries[2].EntityID)
}

func TestDecodeEntity_Found(t *testing.T) {
	data, err := EncodeV2(v2Batch(), "ns")
	require.NoError(t, err)

	triples, ok, err := DecodeEntity(data, "b")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, triples, 1)
	require.Equal(t, "b", triples[0].Subject)
	require.True(t, StringValue("Bee").Equal(triples[0].Object))
}

func TestDecodeEntity_Absent(t *testing.T) {
	data, err := EncodeV2(v2Batch(), "ns")
	require.NoError(t, err)

	triples, ok, err := DecodeEntity(data, "z")
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, triples)
}

func TestDecodeEntity_Completeness(t *testing.T) {
	// Every subject of the batch comes back exactly with its own triples.
	batch := make([]Triple, 0, 60)
	for i := range 20 {
		subject := fmt.Sprintf("entity-%02d", i%10)
		batch = append(batch,
			Triple{Subject: subject, Predicate: "a", Object: Int64Value(int64(i)), Timestamp: int64(i), TxID: "tx"},
			Triple{Subject: subject, Predicate: "b", Object: StringValue(fmt.Sprintf("v%d", i)), Timestamp: int64(i), TxID: "tx"},
		)
	}

	data, err := EncodeV2(batch, "ns")
	require.NoError(t, err)

	bySubject := make(map[string][]Triple)
	for _, triple := range batch {
		bySubject[triple.Subject] = append(bySubject[triple.Subject], triple)
	}

	for subject, expected := range bySubject {
		got, ok, err := DecodeEntity(data, subject)
		require.NoError(t, err)
		require.True(t, ok, "subject %s not found", subject)
		require.ElementsMatch(t, expected, got)
	}
}

func TestEncodeV2_EmptyBatch(t *testing.T) {
	data, err := EncodeV2(nil, "ns")
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	require.Empty(t, decoded)

	footer, err := ReadFooter(data)
	require.NoError(t, err)
	require.Equal(t, uint32(0), footer.EntityCount)

	_, ok, err := DecodeEntity(data, "anything")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestV1_NotMisidentifiedAsV2(t *testing.T) {
	data, err := Encode(singleTriple(), "ns")
	require.NoError(t, err)

	require.False(t, section.IsV2(data, le))

	decoded, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
}

func TestDecodeV2_OnV1Fails(t *testing.T) {
	data, err := Encode(singleTriple(), "ns")
	require.NoError(t, err)

	_, err = DecodeV2(data)
	require.Error(t, err)
}

func TestDecodeEntity_WithProjectionlessDecodeMatchesFilter(t *testing.T) {
	batch := v2Batch()

	data, err := EncodeV2(batch, "ns")
	require.NoError(t, err)

	all, err := DecodeV2(data)
	require.NoError(t, err)

	expected := make([]Triple, 0, 2)
	for _, triple := range all {
		if triple.Subject == "a" {
			expected = append(expected, triple)
		}
	}

	got, ok, err := DecodeEntity(data, "a")
	require.NoError(t, err)
	require.True(t, ok)
	requireEqualTriples(t, expected, got)
}

func TestV2_CorruptedIndexDetected(t *testing.T) {
	data, err := EncodeV2(v2Batch(), "ns")
	require.NoError(t, err)

	footer, err := ReadFooter(data)
	require.NoError(t, err)

	// Flip a bit inside the entity index region.
	data[footer.IndexOffset+4] ^= 0x08

	_, err = ReadEntityIndex(data)
	require.ErrorIs(t, err, errs.ErrChecksumMismatch)

	_, _, err = DecodeEntity(data, "a")
	require.ErrorIs(t, err, errs.ErrChecksumMismatch)
}
