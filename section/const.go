package section

// Wire-format constants. All are normative: changing any of them changes the
// format.
const (
	// MagicNumber is "GCOL" read as a little-endian uint32. It opens every V1
	// chunk and closes every V2 trailer.
	MagicNumber uint32 = 0x4C4F4347

	// Version1 is the chunk payload version.
	Version1 uint16 = 1

	// Version2 is the envelope version recorded in the V2 footer.
	Version2 uint32 = 2
)

// Section sizes and minimums.
const (
	// V1MinSize is the smallest buffer worth attempting a V1 parse on.
	V1MinSize = 36

	// ChecksumSize is the width of every CRC-32 field.
	ChecksumSize = 4

	// FooterSize is the exact size of the V2 footer.
	FooterSize = 48

	// TrailerSize is the exact size of the V2 trailer.
	TrailerSize = 8

	// V2TailSize is the combined footer and trailer size; a buffer must be
	// strictly larger than this before a V2 interpretation is attempted, so a
	// V1 chunk that happens to end in the magic bytes is never misread.
	V2TailSize = FooterSize + TrailerSize

	// footerChecksumCoverage is the number of leading footer bytes covered by
	// the footer checksum.
	footerChecksumCoverage = 36
)
