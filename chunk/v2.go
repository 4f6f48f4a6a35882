package chunk

import (
	"math"
	"sort"

	"github.com/arloliu/graphcol/errs"
	"github.com/arloliu/graphcol/section"
)

// EncodeV2 serializes a triple batch into a V2 chunk: the batch is sorted by
// subject bytewise (stable, so triples of one subject keep their input
// order), encoded as a V1 payload, and wrapped with an entity index, footer
// and trailer that let a single entity be located from the end of the chunk.
// Reading that entity's triples through DecodeEntity still decodes the whole
// payload.
func EncodeV2(triples []Triple, namespace string) ([]byte, error) {
	sorted := make([]Triple, len(triples))
	copy(sorted, triples)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Subject < sorted[j].Subject
	})

	payload, err := Encode(sorted, namespace)
	if err != nil {
		return nil, err
	}

	entries := make([]section.EntityIndexEntry, 0, min(len(sorted), 64))
	for i := 0; i < len(sorted); {
		j := i + 1
		for j < len(sorted) && sorted[j].Subject == sorted[i].Subject {
			j++
		}

		entry, err := section.NewEntityIndexEntry(sorted[i].Subject, int64(i), int64(j-i))
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
		i = j
	}

	index, err := section.EncodeEntityIndex(entries, le)
	if err != nil {
		return nil, err
	}

	if int64(len(payload))+int64(len(index)) > math.MaxUint32 {
		return nil, errs.BadArgument("v2 chunk exceeds uint32 addressing")
	}

	var minTS, maxTS int64
	if len(sorted) > 0 {
		minTS, maxTS = sorted[0].Timestamp, sorted[0].Timestamp
		for _, t := range sorted[1:] {
			if t.Timestamp < minTS {
				minTS = t.Timestamp
			}
			if t.Timestamp > maxTS {
				maxTS = t.Timestamp
			}
		}
	}

	footer := section.Footer{
		Version:      section.Version2,
		DataLength:   uint32(len(payload)), //nolint:gosec
		IndexOffset:  uint32(len(payload)), //nolint:gosec
		IndexLength:  uint32(len(index)),   //nolint:gosec
		EntityCount:  uint32(len(entries)), //nolint:gosec
		MinTimestamp: minTS,
		MaxTimestamp: maxTS,
	}

	out := make([]byte, 0, len(payload)+len(index)+section.V2TailSize)
	out = append(out, payload...)
	out = append(out, index...)
	out = footer.AppendTo(out, le)

	return section.AppendTrailer(out, le), nil
}

// DecodeV2 deserializes a V2 chunk. The result is in subject-sorted order.
func DecodeV2(data []byte, opts ...DecodeOption) ([]Triple, error) {
	footer, err := section.ReadFooter(data, le)
	if err != nil {
		return nil, err
	}

	// Decode the embedded payload directly; dispatching through Decode could
	// recurse if V2 detection ever misfired.
	return DecodeV1(data[:footer.DataLength], opts...)
}

// ReadFooter parses and validates the footer of a V2 chunk.
func ReadFooter(data []byte) (section.Footer, error) {
	return section.ReadFooter(data, le)
}

// ReadEntityIndex extracts and verifies the entity index of a V2 chunk.
func ReadEntityIndex(data []byte) (*section.EntityIndex, error) {
	footer, err := section.ReadFooter(data, le)
	if err != nil {
		return nil, err
	}

	return section.DecodeEntityIndex(data[footer.IndexOffset:footer.IndexOffset+footer.IndexLength], le)
}

// DecodeEntity returns the triples of one entity from a V2 chunk.
//
// The entity index gives an O(log n) existence check; on a hit the embedded
// payload is decoded and the entity's row range returned. The second return
// value is false when the entity is not in the chunk.
func DecodeEntity(data []byte, entityID string) ([]Triple, bool, error) {
	footer, err := section.ReadFooter(data, le)
	if err != nil {
		return nil, false, err
	}
	if footer.EntityCount == 0 {
		return nil, false, nil
	}

	index, err := section.DecodeEntityIndex(data[footer.IndexOffset:footer.IndexOffset+footer.IndexLength], le)
	if err != nil {
		return nil, false, err
	}

	entry, ok := index.Lookup(entityID)
	if !ok {
		return nil, false, nil
	}

	triples, err := DecodeV1(data[:footer.DataLength])
	if err != nil {
		return nil, false, err
	}

	start := int64(entry.Offset)
	end := start + int64(entry.Length)
	if end > int64(len(triples)) {
		return nil, false, errs.Inconsistent("entity index row range exceeds triple count")
	}

	result := make([]Triple, entry.Length)
	copy(result, triples[start:end])

	return result, true, nil
}
