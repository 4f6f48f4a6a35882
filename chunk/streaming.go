package chunk

import (
	"github.com/arloliu/graphcol/errs"
	"github.com/arloliu/graphcol/format"
)

// StreamingEncoder accumulates triples and encodes them in batches, so a CDC
// producer can append as events arrive and cut a chunk whenever it likes.
//
// The encoder owns only its triple buffer and a fixed namespace; it is safe
// to drop at any point. It is not safe for concurrent use without external
// synchronization.
type StreamingEncoder struct {
	namespace string
	triples   []Triple
}

// NewStreamingEncoder creates a streaming encoder for the given namespace.
func NewStreamingEncoder(namespace string) *StreamingEncoder {
	return &StreamingEncoder{namespace: namespace}
}

// Add appends a triple to the buffer. It fails with ErrResourceExhausted
// once the buffer reaches MaxEncodeArraySize, before the triple is stored.
func (e *StreamingEncoder) Add(t Triple) error {
	if len(e.triples) >= format.MaxEncodeArraySize {
		return errs.Exhausted(int64(len(e.triples))+1, format.MaxEncodeArraySize, "buffered triple count")
	}

	e.triples = append(e.triples, t)

	return nil
}

// Len returns the number of buffered triples.
func (e *StreamingEncoder) Len() int {
	return len(e.triples)
}

// Namespace returns the namespace every flushed chunk carries.
func (e *StreamingEncoder) Namespace() string {
	return e.namespace
}

// Flush encodes the buffered batch as a V1 chunk and empties the buffer.
// Flushing an empty buffer produces a valid empty chunk. On encode failure
// the buffer is left intact; the encoder never discards triples on error.
func (e *StreamingEncoder) Flush() ([]byte, error) {
	data, err := Encode(e.triples, e.namespace)
	if err != nil {
		return nil, err
	}

	e.triples = nil

	return data, nil
}

// Reset empties the buffer without producing output.
func (e *StreamingEncoder) Reset() {
	e.triples = nil
}
