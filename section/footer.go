package section

import (
	"hash/crc32"

	"github.com/arloliu/graphcol/endian"
	"github.com/arloliu/graphcol/errs"
)

// Footer is the fixed 48-byte block a V2 chunk carries between the entity
// index and the trailer.
//
// Byte layout:
//
//	u32 version (= 2)        [0-3]
//	u32 data_length          [4-7]
//	u32 index_offset         [8-11]
//	u32 index_length         [12-15]
//	u32 entity_count         [16-19]
//	i64 min_timestamp        [20-27]
//	i64 max_timestamp        [28-35]
//	u32 crc32 of bytes 0-35  [36-39]
//	8 reserved zero bytes    [40-47]
type Footer struct {
	Version      uint32
	DataLength   uint32
	IndexOffset  uint32
	IndexLength  uint32
	EntityCount  uint32
	MinTimestamp int64
	MaxTimestamp int64
}

// AppendTo serializes the footer, its checksum and the reserved bytes to dst.
func (f *Footer) AppendTo(dst []byte, engine endian.EndianEngine) []byte {
	start := len(dst)

	dst = engine.AppendUint32(dst, f.Version)
	dst = engine.AppendUint32(dst, f.DataLength)
	dst = engine.AppendUint32(dst, f.IndexOffset)
	dst = engine.AppendUint32(dst, f.IndexLength)
	dst = engine.AppendUint32(dst, f.EntityCount)
	dst = engine.AppendUint64(dst, uint64(f.MinTimestamp)) //nolint:gosec
	dst = engine.AppendUint64(dst, uint64(f.MaxTimestamp)) //nolint:gosec

	dst = engine.AppendUint32(dst, crc32.ChecksumIEEE(dst[start:start+footerChecksumCoverage]))

	return append(dst, 0, 0, 0, 0, 0, 0, 0, 0)
}

// AppendTrailer serializes the 8-byte trailer that ends every V2 chunk: the
// footer offset measured from the end of the file, then the magic number.
func AppendTrailer(dst []byte, engine endian.EndianEngine) []byte {
	dst = engine.AppendUint32(dst, uint32(V2TailSize))
	return engine.AppendUint32(dst, MagicNumber)
}

// IsV2 reports whether data carries a V2 trailer. A buffer must be strictly
// larger than the combined footer and trailer before the trailing magic is
// trusted, so a V1 chunk that happens to end in the same four bytes is never
// misidentified.
func IsV2(data []byte, engine endian.EndianEngine) bool {
	if len(data) <= V2TailSize {
		return false
	}

	return engine.Uint32(data[len(data)-4:]) == MagicNumber
}

// ReadFooter locates and validates the footer of a V2 chunk.
//
// It verifies the trailer magic, bounds-checks the footer position computed
// from the trailer's footer offset, verifies the footer checksum, and
// enforces agreement between the data, index and footer regions.
func ReadFooter(data []byte, engine endian.EndianEngine) (Footer, error) {
	var f Footer

	if len(data) <= V2TailSize {
		return f, errs.Truncated("v2 chunk")
	}

	magic := engine.Uint32(data[len(data)-4:])
	if magic != MagicNumber {
		return f, &errs.BadMagicError{Expected: MagicNumber, Found: magic}
	}

	footerOffsetFromEnd := engine.Uint32(data[len(data)-TrailerSize : len(data)-4])
	if int64(footerOffsetFromEnd) > int64(len(data)) {
		return f, errs.Inconsistent("footer offset exceeds file size")
	}

	footerStart := len(data) - int(footerOffsetFromEnd)
	if footerStart < 0 || footerStart+FooterSize > len(data)-TrailerSize {
		return f, errs.Inconsistent("footer does not fit between start of file and trailer")
	}

	fb := data[footerStart : footerStart+FooterSize]

	f.Version = engine.Uint32(fb[0:4])
	if f.Version != Version2 {
		return f, &errs.BadVersionError{Found: f.Version}
	}

	f.DataLength = engine.Uint32(fb[4:8])
	f.IndexOffset = engine.Uint32(fb[8:12])
	f.IndexLength = engine.Uint32(fb[12:16])
	f.EntityCount = engine.Uint32(fb[16:20])
	f.MinTimestamp = int64(engine.Uint64(fb[20:28])) //nolint:gosec
	f.MaxTimestamp = int64(engine.Uint64(fb[28:36])) //nolint:gosec

	stored := engine.Uint32(fb[36:40])
	computed := crc32.ChecksumIEEE(fb[:footerChecksumCoverage])
	if stored != computed {
		return f, &errs.ChecksumError{Scope: errs.ScopeFooter, Stored: stored, Computed: computed}
	}

	if int64(f.DataLength) > int64(footerStart) {
		return f, errs.Inconsistent("data length exceeds footer start")
	}
	if f.IndexOffset < f.DataLength {
		return f, errs.Inconsistent("index offset precedes end of data")
	}
	if int64(f.IndexOffset)+int64(f.IndexLength) > int64(footerStart) {
		return f, errs.Inconsistent("entity index overlaps footer")
	}

	return f, nil
}
