package section

import (
	"fmt"
	"hash/crc32"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/arloliu/graphcol/encoding"
	"github.com/arloliu/graphcol/endian"
	"github.com/arloliu/graphcol/errs"
	"github.com/arloliu/graphcol/format"
	"github.com/arloliu/graphcol/internal/hash"
)

// EntityIndexEntry maps one entity id to its row range inside the sorted
// triple batch of a V2 chunk: Offset is the first row, Length the row count.
// Row indices rather than byte ranges are a known trade-off of the format;
// they keep the index independent of the column encodings.
type EntityIndexEntry struct {
	EntityID string
	Offset   uint32
	Length   uint32
}

// NewEntityIndexEntry validates and constructs an entry from caller-supplied
// integers. Negative offsets or lengths are rejected with ErrBadArgument.
func NewEntityIndexEntry(entityID string, offset, length int64) (EntityIndexEntry, error) {
	if offset < 0 {
		return EntityIndexEntry{}, errs.BadArgument("negative entity index offset")
	}
	if length < 0 {
		return EntityIndexEntry{}, errs.BadArgument("negative entity index length")
	}
	if offset > math.MaxUint32 || length > math.MaxUint32 {
		return EntityIndexEntry{}, errs.BadArgument("entity index offset or length exceeds uint32 range")
	}

	return EntityIndexEntry{EntityID: entityID, Offset: uint32(offset), Length: uint32(length)}, nil
}

// EntityIndex is the sorted (entity id → row range) table of a V2 chunk.
//
// Exact lookups go through an xxHash64 map first and fall back to binary
// search; a hash hit is always verified against the stored id, so collisions
// degrade to the binary search rather than returning the wrong entry.
type EntityIndex struct {
	Entries []EntityIndexEntry

	byID map[uint64]int
}

// NewEntityIndex wraps entries, which must already be sorted by id.
func NewEntityIndex(entries []EntityIndexEntry) *EntityIndex {
	ix := &EntityIndex{Entries: entries}
	ix.buildIDMap()

	return ix
}

func (ix *EntityIndex) buildIDMap() {
	ix.byID = make(map[uint64]int, len(ix.Entries))
	for i, e := range ix.Entries {
		ix.byID[hash.ID(e.EntityID)] = i
	}
}

// Len returns the number of entries.
func (ix *EntityIndex) Len() int {
	return len(ix.Entries)
}

// Lookup returns the entry for the exact entity id, if present.
func (ix *EntityIndex) Lookup(entityID string) (EntityIndexEntry, bool) {
	if i, ok := ix.byID[hash.ID(entityID)]; ok {
		if ix.Entries[i].EntityID == entityID {
			return ix.Entries[i], true
		}
		// Hash collision: the map kept some other id, search instead.
	}

	i := sort.Search(len(ix.Entries), func(i int) bool {
		return ix.Entries[i].EntityID >= entityID
	})
	if i < len(ix.Entries) && ix.Entries[i].EntityID == entityID {
		return ix.Entries[i], true
	}

	return EntityIndexEntry{}, false
}

// LookupPrefix returns a newly-owned slice of all entries whose id starts
// with prefix, in ascending id order. An empty prefix returns a copy of every
// entry.
func (ix *EntityIndex) LookupPrefix(prefix string) []EntityIndexEntry {
	lo := sort.Search(len(ix.Entries), func(i int) bool {
		return ix.Entries[i].EntityID >= prefix
	})

	result := make([]EntityIndexEntry, 0, 4)
	for i := lo; i < len(ix.Entries) && strings.HasPrefix(ix.Entries[i].EntityID, prefix); i++ {
		result = append(result, ix.Entries[i])
	}

	return result
}

// EncodeEntityIndex serializes entries into a self-contained index section:
//
//	u32 entry_count
//	per entry: varint id_len, id bytes, varint offset, varint length
//	u32 crc32 over everything preceding it
//
// Entries must be strictly ascending by id; duplicates and out-of-order
// entries are rejected with ErrBadArgument.
func EncodeEntityIndex(entries []EntityIndexEntry, engine endian.EndianEngine) ([]byte, error) {
	if len(entries) > format.MaxEntityIndexEntries {
		return nil, errs.Exhausted(int64(len(entries)), format.MaxEntityIndexEntries, "entity index entry count")
	}

	size := 4 + ChecksumSize
	for i, e := range entries {
		if i > 0 && entries[i-1].EntityID >= e.EntityID {
			return nil, errs.BadArgument("entity index entries must be strictly ascending by id")
		}
		size += encoding.UvarintSize(uint64(len(e.EntityID))) + len(e.EntityID)
		size += encoding.UvarintSize(uint64(e.Offset)) + encoding.UvarintSize(uint64(e.Length))
	}

	dst := make([]byte, 0, size)
	dst = engine.AppendUint32(dst, uint32(len(entries))) //nolint:gosec
	for _, e := range entries {
		dst = encoding.AppendUvarint(dst, uint64(len(e.EntityID)))
		dst = append(dst, e.EntityID...)
		dst = encoding.AppendUvarint(dst, uint64(e.Offset))
		dst = encoding.AppendUvarint(dst, uint64(e.Length))
	}

	return engine.AppendUint32(dst, crc32.ChecksumIEEE(dst)), nil
}

// DecodeEntityIndex parses and verifies a self-contained entity index
// section produced by EncodeEntityIndex.
//
// The checksum is verified first, then the entry count is bounded, and every
// varint and id slice is bounds-checked before it is read. The decoded
// entries must be strictly ascending by id.
func DecodeEntityIndex(data []byte, engine endian.EndianEngine) (*EntityIndex, error) {
	if len(data) < 4+ChecksumSize {
		return nil, errs.Truncated("entity index")
	}

	stored := engine.Uint32(data[len(data)-ChecksumSize:])
	computed := crc32.ChecksumIEEE(data[:len(data)-ChecksumSize])
	if stored != computed {
		return nil, &errs.ChecksumError{Scope: errs.ScopeEntityIndex, Stored: stored, Computed: computed}
	}

	body := data[:len(data)-ChecksumSize]
	count := engine.Uint32(body[0:4])
	if count > format.MaxEntityIndexEntries {
		return nil, errs.Exhausted(int64(count), format.MaxEntityIndexEntries, "entity index entry count")
	}

	entries := make([]EntityIndexEntry, 0, count)
	offset := 4
	totalIDBytes := int64(0)
	for i := uint32(0); i < count; i++ {
		idLen, next, err := encoding.Uvarint(body, offset)
		if err != nil {
			return nil, err
		}
		offset = next

		totalIDBytes += int64(idLen) //nolint:gosec
		if totalIDBytes > format.MaxDecodeTotalBytes {
			return nil, errs.Exhausted(totalIDBytes, format.MaxDecodeTotalBytes, "entity index id bytes")
		}
		if uint64(offset)+idLen > uint64(len(body)) {
			return nil, errs.Truncated("entity index id")
		}

		raw := body[offset : offset+int(idLen)] //nolint:gosec
		if !utf8.Valid(raw) {
			return nil, errs.BadEncoding(fmt.Sprintf("entity index id %d is not valid UTF-8", i))
		}
		id := string(raw)
		offset += int(idLen) //nolint:gosec

		rowOffset, next, err := encoding.Uvarint(body, offset)
		if err != nil {
			return nil, err
		}
		offset = next
		rowCount, next, err := encoding.Uvarint(body, offset)
		if err != nil {
			return nil, err
		}
		offset = next

		if rowOffset > math.MaxUint32 || rowCount > math.MaxUint32 {
			return nil, errs.BadEncoding("entity index row range exceeds uint32")
		}
		if len(entries) > 0 && entries[len(entries)-1].EntityID >= id {
			return nil, errs.BadEncoding("entity index not strictly ascending")
		}

		entries = append(entries, EntityIndexEntry{
			EntityID: id,
			Offset:   uint32(rowOffset),
			Length:   uint32(rowCount),
		})
	}

	return NewEntityIndex(entries), nil
}
