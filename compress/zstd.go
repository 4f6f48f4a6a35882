package compress

// ZstdCompressor favors compression ratio, making it the right choice for
// cold chunk storage and archived CDC streams.
//
// Two implementations exist behind build tags: a cgo binding when cgo is
// available, and a pure-Go fallback otherwise. Both produce standard
// Zstandard frames and decode each other's output.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
