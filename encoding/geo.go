package encoding

import (
	"math"

	"github.com/arloliu/graphcol/endian"
	"github.com/arloliu/graphcol/errs"
	"github.com/arloliu/graphcol/format"
)

// AppendGeoPointColumn appends a geo-point column to dst: u32 n, then n*16
// bytes, each point stored as latitude then longitude in little-endian
// float64. Coordinates are stored bit-exact.
func AppendGeoPointColumn(dst []byte, engine endian.EndianEngine, values []format.GeoPoint) []byte {
	dst = engine.AppendUint32(dst, uint32(len(values))) //nolint:gosec
	for _, p := range values {
		dst = engine.AppendUint64(dst, math.Float64bits(p.Lat))
		dst = engine.AppendUint64(dst, math.Float64bits(p.Lng))
	}

	return dst
}

// DecodeGeoPointColumn decodes a geo-point column.
func DecodeGeoPointColumn(data []byte, offset int, engine endian.EndianEngine) ([]format.GeoPoint, int, error) {
	n, offset, err := readUint32(data, offset, engine, "geo-point count")
	if err != nil {
		return nil, offset, err
	}
	if n > format.MaxDecodeArraySize {
		return nil, offset, errs.Exhausted(int64(n), format.MaxDecodeArraySize, "geo-point count")
	}
	if int64(n)*16 > format.MaxDecodeTotalBytes {
		return nil, offset, errs.Exhausted(int64(n)*16, format.MaxDecodeTotalBytes, "geo-point bytes")
	}
	if offset+int(n)*16 > len(data) {
		return nil, offset, errs.Truncated("geo-point column")
	}

	values := make([]format.GeoPoint, n)
	for i := uint32(0); i < n; i++ {
		values[i] = format.GeoPoint{
			Lat: math.Float64frombits(engine.Uint64(data[offset : offset+8])),
			Lng: math.Float64frombits(engine.Uint64(data[offset+8 : offset+16])),
		}
		offset += 16
	}

	return values, offset, nil
}
