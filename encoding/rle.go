package encoding

import (
	"math"

	"github.com/arloliu/graphcol/endian"
	"github.com/arloliu/graphcol/errs"
	"github.com/arloliu/graphcol/format"
)

// maxRunLength is the largest count a single RLE run can carry; a longer run
// of identical values is split across consecutive runs.
const maxRunLength = math.MaxUint16

// AppendRLEColumn appends a run-length encoded byte column to dst.
//
// On-wire layout: u32 run_count, then per run a u8 value and a u16 count.
// Used for the object-type tag column, where long runs of one tag are the
// common case.
func AppendRLEColumn(dst []byte, engine endian.EndianEngine, values []byte) []byte {
	type run struct {
		value byte
		count uint16
	}

	runs := make([]run, 0, 8)
	for i := 0; i < len(values); {
		v := values[i]
		n := 1
		for i+n < len(values) && values[i+n] == v && n < maxRunLength {
			n++
		}
		runs = append(runs, run{value: v, count: uint16(n)}) //nolint:gosec
		i += n
	}

	dst = engine.AppendUint32(dst, uint32(len(runs))) //nolint:gosec
	for _, r := range runs {
		dst = append(dst, r.value)
		dst = engine.AppendUint16(dst, r.count)
	}

	return dst
}

// DecodeRLEColumn expands a run-length encoded byte column.
//
// The expanded length is checked incrementally against MaxDecodeArraySize so
// a forged run table fails before it can drive a large allocation.
func DecodeRLEColumn(data []byte, offset int, engine endian.EndianEngine) ([]byte, int, error) {
	runCount, offset, err := readUint32(data, offset, engine, "RLE run count")
	if err != nil {
		return nil, offset, err
	}
	if runCount > format.MaxDecodeArraySize {
		return nil, offset, errs.Exhausted(int64(runCount), format.MaxDecodeArraySize, "RLE run count")
	}

	values := make([]byte, 0, min(int(runCount)*4, format.MaxDecodeArraySize))
	total := int64(0)
	for i := uint32(0); i < runCount; i++ {
		if offset+3 > len(data) {
			return nil, offset, errs.Truncated("RLE run")
		}

		v := data[offset]
		n := engine.Uint16(data[offset+1 : offset+3])
		offset += 3

		total += int64(n)
		if total > format.MaxDecodeArraySize {
			return nil, offset, errs.Exhausted(total, format.MaxDecodeArraySize, "RLE expanded length")
		}

		for j := uint16(0); j < n; j++ {
			values = append(values, v)
		}
	}

	return values, offset, nil
}
