package chunk

import (
	"bytes"
	"math"
	"slices"

	"github.com/arloliu/graphcol/format"
)

// Triple is the atomic record of the graph store: a subject/predicate pair, a
// tagged object value, a caller-assigned timestamp and a transaction id.
//
// Subject, predicate and transaction id are opaque UTF-8 strings; subjects
// are ordered bytewise wherever the format sorts them.
type Triple struct {
	Subject   string
	Predicate string
	Object    Value
	Timestamp int64
	TxID      string
}

// Value is the tagged object of a triple. Exactly the fields implied by Type
// are meaningful; the rest stay at their zero value. Use the constructors
// below rather than populating the struct by hand.
type Value struct {
	Type format.ObjectType

	Bool  bool
	Int   int64 // Int32, Int64, Timestamp, and Date (day count) payloads
	Float float64
	Str   string // String, Duration, Ref, JSON, and URL payloads
	Bytes []byte
	Refs  []string
	Geo   format.GeoPoint
}

// NullValue returns the null object value.
func NullValue() Value {
	return Value{Type: format.TypeNull}
}

// BoolValue returns a boolean object value.
func BoolValue(v bool) Value {
	return Value{Type: format.TypeBool, Bool: v}
}

// Int32Value returns a signed 32-bit integer object value.
func Int32Value(v int32) Value {
	return Value{Type: format.TypeInt32, Int: int64(v)}
}

// Int64Value returns a signed 64-bit integer object value.
func Int64Value(v int64) Value {
	return Value{Type: format.TypeInt64, Int: v}
}

// Float64Value returns a float object value. The bit pattern is preserved
// exactly, including NaN payloads and negative zero.
func Float64Value(v float64) Value {
	return Value{Type: format.TypeFloat64, Float: v}
}

// StringValue returns a UTF-8 string object value.
func StringValue(v string) Value {
	return Value{Type: format.TypeString, Str: v}
}

// BinaryValue returns a raw bytes object value.
func BinaryValue(v []byte) Value {
	return Value{Type: format.TypeBinary, Bytes: v}
}

// TimestampValue returns a timestamp object value.
func TimestampValue(v int64) Value {
	return Value{Type: format.TypeTimestamp, Int: v}
}

// DateValue returns a date object value holding a signed day count.
func DateValue(days int32) Value {
	return Value{Type: format.TypeDate, Int: int64(days)}
}

// DurationValue returns a duration object value.
func DurationValue(v string) Value {
	return Value{Type: format.TypeDuration, Str: v}
}

// RefValue returns an entity reference object value.
func RefValue(entityID string) Value {
	return Value{Type: format.TypeRef, Str: entityID}
}

// RefArrayValue returns an ordered entity reference list object value.
func RefArrayValue(entityIDs []string) Value {
	return Value{Type: format.TypeRefArray, Refs: entityIDs}
}

// JSONValue returns a textual JSON object value.
func JSONValue(v string) Value {
	return Value{Type: format.TypeJSON, Str: v}
}

// GeoPointValue returns a coordinate pair object value.
func GeoPointValue(lat, lng float64) Value {
	return Value{Type: format.TypeGeoPoint, Geo: format.GeoPoint{Lat: lat, Lng: lng}}
}

// URLValue returns a URL object value.
func URLValue(v string) Value {
	return Value{Type: format.TypeURL, Str: v}
}

// Equal reports structural equality with bit-level float comparison, so NaN
// values compare equal to themselves and 0.0 differs from -0.0, matching what
// the wire format preserves.
func (v Value) Equal(other Value) bool {
	if v.Type != other.Type {
		return false
	}

	switch v.Type {
	case format.TypeNull:
		return true
	case format.TypeBool:
		return v.Bool == other.Bool
	case format.TypeInt32, format.TypeInt64, format.TypeTimestamp, format.TypeDate:
		return v.Int == other.Int
	case format.TypeFloat64:
		return math.Float64bits(v.Float) == math.Float64bits(other.Float)
	case format.TypeString, format.TypeDuration, format.TypeRef, format.TypeJSON, format.TypeURL:
		return v.Str == other.Str
	case format.TypeBinary:
		return bytes.Equal(v.Bytes, other.Bytes)
	case format.TypeRefArray:
		return slices.Equal(v.Refs, other.Refs)
	case format.TypeGeoPoint:
		return math.Float64bits(v.Geo.Lat) == math.Float64bits(other.Geo.Lat) &&
			math.Float64bits(v.Geo.Lng) == math.Float64bits(other.Geo.Lng)
	default:
		return false
	}
}

// Equal reports structural equality of two triples.
func (t Triple) Equal(other Triple) bool {
	return t.Subject == other.Subject &&
		t.Predicate == other.Predicate &&
		t.Timestamp == other.Timestamp &&
		t.TxID == other.TxID &&
		t.Object.Equal(other.Object)
}

// payloadSize estimates the encoded size contribution of the triple for the
// encode-side aggregate bound. The estimate is deliberately rough; it only
// needs to catch batches that could not possibly fit.
func (t Triple) payloadSize() int {
	n := len(t.Subject) + len(t.Predicate) + len(t.TxID) + 16

	switch t.Object.Type {
	case format.TypeString, format.TypeDuration, format.TypeRef, format.TypeJSON, format.TypeURL:
		n += len(t.Object.Str) + 4
	case format.TypeBinary:
		n += len(t.Object.Bytes) + 4
	case format.TypeRefArray:
		for _, r := range t.Object.Refs {
			n += len(r) + 4
		}
		n += 4
	case format.TypeGeoPoint:
		n += 16
	default:
		n += 8
	}

	return n
}
