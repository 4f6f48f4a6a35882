package encoding

import (
	"github.com/arloliu/graphcol/endian"
	"github.com/arloliu/graphcol/errs"
	"github.com/arloliu/graphcol/format"
)

// AppendRefArrayColumn appends a ref-array column to dst.
//
// On-wire layout: u32 outer_n, then outer_n u32 per-row lengths, then a
// single dictionary column over the flattened references whose index count
// equals the sum of the row lengths. Rows that reference the same entities
// therefore share one dictionary.
func AppendRefArrayColumn(dst []byte, engine endian.EndianEngine, rows [][]string) []byte {
	dst = engine.AppendUint32(dst, uint32(len(rows))) //nolint:gosec

	total := 0
	for _, row := range rows {
		dst = engine.AppendUint32(dst, uint32(len(row))) //nolint:gosec
		total += len(row)
	}

	flat := make([]string, 0, total)
	for _, row := range rows {
		flat = append(flat, row...)
	}

	return AppendDictionaryColumn(dst, engine, flat)
}

// DecodeRefArrayColumn decodes a ref-array column.
//
// The sum of the per-row lengths is checked incrementally against
// MaxDecodeArraySize before the flat dictionary is decoded.
func DecodeRefArrayColumn(data []byte, offset int, engine endian.EndianEngine) ([][]string, int, error) {
	outerN, offset, err := readUint32(data, offset, engine, "ref-array row count")
	if err != nil {
		return nil, offset, err
	}
	if outerN > format.MaxDecodeArraySize {
		return nil, offset, errs.Exhausted(int64(outerN), format.MaxDecodeArraySize, "ref-array row count")
	}

	lengths := make([]uint32, outerN)
	total := int64(0)
	for i := uint32(0); i < outerN; i++ {
		lengths[i], offset, err = readUint32(data, offset, engine, "ref-array row length")
		if err != nil {
			return nil, offset, err
		}

		total += int64(lengths[i])
		if total > format.MaxDecodeArraySize {
			return nil, offset, errs.Exhausted(total, format.MaxDecodeArraySize, "ref-array reference count")
		}
	}

	flat, offset, err := DecodeDictionaryColumn(data, offset, int(total), engine)
	if err != nil {
		return nil, offset, err
	}

	rows := make([][]string, outerN)
	pos := 0
	for i, n := range lengths {
		row := make([]string, n)
		copy(row, flat[pos:pos+int(n)])
		rows[i] = row
		pos += int(n)
	}

	return rows, offset, nil
}
