package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/graphcol/errs"
)

// buildV2 lays out a synthetic V2 byte string: payload, index, footer,
// trailer.
func buildV2(t *testing.T, payloadLen, indexLen int) ([]byte, Footer) {
	t.Helper()

	footer := Footer{
		Version:      Version2,
		DataLength:   uint32(payloadLen),
		IndexOffset:  uint32(payloadLen),
		IndexLength:  uint32(indexLen),
		EntityCount:  2,
		MinTimestamp: -10,
		MaxTimestamp: 99,
	}

	data := make([]byte, payloadLen+indexLen)
	for i := range data {
		data[i] = byte(i)
	}
	data = footer.AppendTo(data, le)
	data = AppendTrailer(data, le)

	return data, footer
}

func TestFooter_RoundTrip(t *testing.T) {
	data, footer := buildV2(t, 100, 24)

	require.True(t, IsV2(data, le))

	parsed, err := ReadFooter(data, le)
	require.NoError(t, err)
	require.Equal(t, footer, parsed)
}

func TestFooter_SizeIsFixed(t *testing.T) {
	var footer Footer
	footer.Version = Version2

	out := footer.AppendTo(nil, le)
	require.Equal(t, FooterSize, len(out))

	out = AppendTrailer(out, le)
	require.Equal(t, FooterSize+TrailerSize, len(out))
}

func TestIsV2_SmallBufferNeverMatches(t *testing.T) {
	// Exactly footer+trailer bytes is still too small: a real V2 chunk always
	// carries at least one payload byte.
	data := make([]byte, V2TailSize)
	le.PutUint32(data[len(data)-4:], MagicNumber)

	require.False(t, IsV2(data, le))
}

func TestReadFooter_BadMagic(t *testing.T) {
	data, _ := buildV2(t, 50, 10)
	data[len(data)-1] ^= 0xFF

	require.False(t, IsV2(data, le))

	_, err := ReadFooter(data, le)
	require.ErrorIs(t, err, errs.ErrBadMagic)
}

func TestReadFooter_ChecksumMismatch(t *testing.T) {
	data, _ := buildV2(t, 50, 10)

	// Corrupt a footer field; the footer checksum must catch it.
	footerStart := len(data) - V2TailSize
	data[footerStart+16] ^= 0x01

	_, err := ReadFooter(data, le)
	require.ErrorIs(t, err, errs.ErrChecksumMismatch)

	var checksum *errs.ChecksumError
	require.ErrorAs(t, err, &checksum)
	require.Equal(t, errs.ScopeFooter, checksum.Scope)
	require.NotEqual(t, checksum.Stored, checksum.Computed)
}

func TestReadFooter_ReservedBytesIgnored(t *testing.T) {
	data, footer := buildV2(t, 50, 10)

	// The reserved tail of the footer is outside the checksum coverage.
	footerStart := len(data) - V2TailSize
	data[footerStart+40] = 0xAB
	data[footerStart+47] = 0xCD

	parsed, err := ReadFooter(data, le)
	require.NoError(t, err)
	require.Equal(t, footer, parsed)
}

func TestReadFooter_InconsistentDataLength(t *testing.T) {
	footer := Footer{
		Version:     Version2,
		DataLength:  1000, // exceeds the actual payload
		IndexOffset: 1000,
	}

	data := make([]byte, 10)
	data = footer.AppendTo(data, le)
	data = AppendTrailer(data, le)

	_, err := ReadFooter(data, le)
	require.ErrorIs(t, err, errs.ErrInternalInconsistency)
}

func TestReadFooter_IndexPrecedesData(t *testing.T) {
	footer := Footer{
		Version:     Version2,
		DataLength:  50,
		IndexOffset: 10,
		IndexLength: 5,
	}

	data := make([]byte, 60)
	data = footer.AppendTo(data, le)
	data = AppendTrailer(data, le)

	_, err := ReadFooter(data, le)
	require.ErrorIs(t, err, errs.ErrInternalInconsistency)
}

func TestReadFooter_BadVersion(t *testing.T) {
	footer := Footer{Version: 9, DataLength: 10, IndexOffset: 10}

	data := make([]byte, 20)
	data = footer.AppendTo(data, le)
	data = AppendTrailer(data, le)

	_, err := ReadFooter(data, le)
	require.ErrorIs(t, err, errs.ErrBadVersion)
}
