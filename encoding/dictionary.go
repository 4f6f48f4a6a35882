package encoding

import (
	"fmt"
	"unicode/utf8"

	"github.com/arloliu/graphcol/endian"
	"github.com/arloliu/graphcol/errs"
	"github.com/arloliu/graphcol/format"
)

// readUint32 decodes a little-endian uint32 at offset with bounds checking.
func readUint32(data []byte, offset int, engine endian.EndianEngine, context string) (uint32, int, error) {
	if offset+4 > len(data) {
		return 0, offset, errs.Truncated(context)
	}

	return engine.Uint32(data[offset : offset+4]), offset + 4, nil
}

// AppendDictionaryColumn appends a dictionary column for values to dst.
//
// The dictionary is built in first-occurrence order, which makes the encoding
// deterministic for a given input sequence. On-wire layout:
//
//	u32 dict_size
//	dict_size entries, each: u32 len, raw bytes
//	len(values) unsigned varint indices
//
// The index count is implicit; decoders recover it from the surrounding
// context (the chunk's triple count or a per-type tag count).
func AppendDictionaryColumn(dst []byte, engine endian.EndianEngine, values []string) []byte {
	dict := make([]string, 0, min(len(values), 64))
	indices := make(map[string]uint64, len(values))

	for _, v := range values {
		if _, ok := indices[v]; !ok {
			indices[v] = uint64(len(dict))
			dict = append(dict, v)
		}
	}

	dst = engine.AppendUint32(dst, uint32(len(dict))) //nolint:gosec
	for _, entry := range dict {
		dst = engine.AppendUint32(dst, uint32(len(entry))) //nolint:gosec
		dst = append(dst, entry...)
	}
	for _, v := range values {
		dst = AppendUvarint(dst, indices[v])
	}

	return dst
}

// DecodeDictionaryColumn decodes a dictionary column holding count values.
//
// Every length field is validated before it sizes an allocation: the
// dictionary entry count against MaxDecodeArraySize, and the cumulative entry
// bytes against MaxDecodeTotalBytes. Dictionary entries must be valid UTF-8
// and indices must fall inside the dictionary.
func DecodeDictionaryColumn(data []byte, offset int, count int, engine endian.EndianEngine) ([]string, int, error) {
	dictSize, offset, err := readUint32(data, offset, engine, "dictionary size")
	if err != nil {
		return nil, offset, err
	}
	if dictSize > format.MaxDecodeArraySize {
		return nil, offset, errs.Exhausted(int64(dictSize), format.MaxDecodeArraySize, "dictionary size")
	}

	dict := make([]string, 0, dictSize)
	totalBytes := int64(0)
	for i := uint32(0); i < dictSize; i++ {
		var entryLen uint32
		entryLen, offset, err = readUint32(data, offset, engine, "dictionary entry length")
		if err != nil {
			return nil, offset, err
		}

		totalBytes += int64(entryLen)
		if totalBytes > format.MaxDecodeTotalBytes {
			return nil, offset, errs.Exhausted(totalBytes, format.MaxDecodeTotalBytes, "dictionary bytes")
		}
		if offset+int(entryLen) > len(data) {
			return nil, offset, errs.Truncated("dictionary entry")
		}

		raw := data[offset : offset+int(entryLen)]
		if !utf8.Valid(raw) {
			return nil, offset, errs.BadEncoding(fmt.Sprintf("dictionary entry %d is not valid UTF-8", i))
		}

		dict = append(dict, string(raw))
		offset += int(entryLen)
	}

	values := make([]string, count)
	for i := range count {
		var idx uint64
		idx, offset, err = Uvarint(data, offset)
		if err != nil {
			return nil, offset, err
		}
		if idx >= uint64(dictSize) {
			return nil, offset, errs.BadEncoding(fmt.Sprintf("dictionary index %d out of range (dict size %d)", idx, dictSize))
		}

		values[i] = dict[idx]
	}

	return values, offset, nil
}
