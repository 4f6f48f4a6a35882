package format

// Safety bounds enforced by the codec. Decode limits apply to every count or
// length field read from untrusted input; encode limits apply to
// caller-supplied batches and are strictly tighter so that anything the
// encoder produces is always decodable.
const (
	// MaxDecodeArraySize bounds any element count read during decode.
	MaxDecodeArraySize = 1_000_000

	// MaxDecodeTotalBytes bounds count*elementSize products and cumulative
	// byte sums during decode.
	MaxDecodeTotalBytes = 256 << 20 // 256MiB

	// MaxEncodeArraySize bounds caller-supplied array lengths on encode.
	MaxEncodeArraySize = 100_000

	// MaxEncodeTotalBytes bounds the estimated aggregate size of a batch on
	// encode.
	MaxEncodeTotalBytes = 64 << 20 // 64MiB

	// MaxEntityIndexEntries bounds the entry count of a V2 entity index.
	MaxEntityIndexEntries = 10_000_000
)
