// Package compress provides the at-rest compression codecs used by the chunk
// store. Chunks are already dictionary- and delta-coded, but the string
// dictionaries and header metadata still compress well; the store compresses
// whole chunks before writing them and decompresses on read.
package compress

import (
	"fmt"

	"github.com/arloliu/graphcol/format"
)

// Compressor compresses a whole encoded chunk.
//
// Memory management: the returned slice is newly allocated and owned by the
// caller (except for the no-op codec, which passes the input through), and
// the input slice is never modified.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor is the inverse of Compressor. Implementations validate the
// compressed framing and return an error on corrupted or foreign data.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions. All built-in codecs are stateless and safe
// for concurrent use.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves the built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}
