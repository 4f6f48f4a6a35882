package chunk

import (
	"hash/crc32"

	"github.com/arloliu/graphcol/errs"
	"github.com/arloliu/graphcol/section"
)

// Stats summarizes a chunk from its header alone, without decoding any
// column. The compaction planner selects chunks on this; it never cracks the
// payload.
type Stats struct {
	// TripleCount is the number of triples in the chunk.
	TripleCount int
	// Namespace is the batch namespace recorded in the header.
	Namespace string
	// Predicates lists the distinct predicate names from the header metadata.
	Predicates []string
	// MinTimestamp and MaxTimestamp bound the triple timestamps (0 when empty).
	MinTimestamp int64
	MaxTimestamp int64
	// SizeBytes is the total chunk size including any V2 envelope.
	SizeBytes int
}

// ReadStats reads the statistics of a V1 or V2 chunk. The payload checksum
// is verified, so stats from a corrupted chunk are never reported.
func ReadStats(data []byte) (Stats, error) {
	payload := data
	if section.IsV2(data, le) {
		footer, err := section.ReadFooter(data, le)
		if err != nil {
			return Stats{}, err
		}
		payload = data[:footer.DataLength]
	}

	if len(payload) < section.V1MinSize {
		return Stats{}, errs.Truncated("chunk")
	}

	stored := le.Uint32(payload[len(payload)-section.ChecksumSize:])
	computed := crc32.ChecksumIEEE(payload[:len(payload)-section.ChecksumSize])
	if stored != computed {
		return Stats{}, &errs.ChecksumError{Scope: errs.ScopePayload, Stored: stored, Computed: computed}
	}

	header, _, err := section.ParseChunkHeader(payload, le)
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		TripleCount:  int(header.TripleCount),
		Namespace:    header.Namespace,
		Predicates:   header.Predicates,
		MinTimestamp: header.MinTimestamp,
		MaxTimestamp: header.MaxTimestamp,
		SizeBytes:    len(data),
	}, nil
}
