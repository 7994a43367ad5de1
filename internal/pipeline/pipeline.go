package pipeline

import (
	"github.com/lehigh-university-libraries/scanbind/internal/review"
	"github.com/lehigh-university-libraries/scanbind/internal/scandir"
)

// CorrectedEntry pairs one surviving input image with the rotation recorded
// for it in the review, 0 when the review left it alone.
type CorrectedEntry struct {
	Record   scandir.ImageRecord
	Rotation int
}

// Apply filters discarded images out of the sequence and attaches each
// survivor's rotation angle. The output preserves the input's lexicographic
// order exactly; discarded filenames never appear.
func Apply(sequence []scandir.ImageRecord, artifact *review.Artifact) []CorrectedEntry {
	entries := make([]CorrectedEntry, 0, len(sequence))
	for _, record := range sequence {
		if artifact.Discarded(record.Filename) {
			continue
		}
		entries = append(entries, CorrectedEntry{
			Record:   record,
			Rotation: artifact.Rotation(record.Filename),
		})
	}
	return entries
}
