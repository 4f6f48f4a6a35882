package pool

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBuffer_WriteAndReset(t *testing.T) {
	bb := NewByteBuffer(64)
	bb.MustWrite([]byte("hello"))
	require.Equal(t, 5, bb.Len())
	require.Equal(t, []byte("hello"), bb.Bytes())

	bb.Reset()
	require.Equal(t, 0, bb.Len())
	require.GreaterOrEqual(t, bb.Cap(), 64)
}

func TestByteBuffer_Grow(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.Grow(1024)
	require.GreaterOrEqual(t, bb.Cap(), 1024)

	// Growing within capacity is a no-op.
	capBefore := bb.Cap()
	bb.Grow(16)
	require.Equal(t, capBefore, bb.Cap())
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(16)
	bb.MustWrite([]byte("payload"))

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	require.Equal(t, int64(7), n)
	require.Equal(t, "payload", out.String())
}

func TestByteBufferPool_Reuse(t *testing.T) {
	pool := NewByteBufferPool(32, 1024)

	bb := pool.Get()
	require.NotNil(t, bb)
	bb.MustWrite([]byte("data"))
	pool.Put(bb)

	reused := pool.Get()
	require.Equal(t, 0, reused.Len())
}

func TestByteBufferPool_DiscardsOversized(t *testing.T) {
	pool := NewByteBufferPool(32, 64)

	bb := pool.Get()
	bb.Grow(4096)
	pool.Put(bb) // exceeds threshold, silently dropped

	fresh := pool.Get()
	require.LessOrEqual(t, fresh.Cap(), 4096)
}

func TestChunkBufferPool(t *testing.T) {
	bb := GetChunkBuffer()
	require.NotNil(t, bb)
	bb.MustWrite([]byte("x"))
	PutChunkBuffer(bb)
	PutChunkBuffer(nil)
}
