package pipeline

import (
	"github.com/lehigh-university-libraries/scanbind/internal/review"
)

// Section is a contiguous, ordered run of corrected entries destined for one
// output archive. Sections partition the corrected sequence exhaustively: no
// entry is dropped, duplicated, or reordered, and no section is empty.
type Section []CorrectedEntry

// DefaultSizeRatio approximates how much of a source image's size survives
// JPEG re-encoding. It is a heuristic, so Split takes it as a parameter
// rather than baking it in.
const DefaultSizeRatio = 0.85

// Split partitions entries into sections. When the review defined manual
// section breaks those win; otherwise sections are packed automatically so
// that each one's estimated output size stays under maxBytes.
func Split(entries []CorrectedEntry, artifact *review.Artifact, maxBytes int64, ratio float64) []Section {
	if artifact.HasSectionBreaks() {
		return splitManual(entries, artifact)
	}
	return splitAuto(entries, maxBytes, ratio)
}

// splitManual closes the current section whenever it reaches an entry marked
// as a section break. The marked entry starts the next section, not the one
// it closes. A break marker on the first surviving entry (or on a filename
// that was discarded) produces no extra split because there is nothing to
// close yet.
func splitManual(entries []CorrectedEntry, artifact *review.Artifact) []Section {
	var sections []Section
	var current Section

	for _, entry := range entries {
		if artifact.SectionBreak(entry.Record.Filename) && len(current) > 0 {
			sections = append(sections, current)
			current = nil
		}
		current = append(current, entry)
	}
	if len(current) > 0 {
		sections = append(sections, current)
	}
	return sections
}

// splitAuto packs entries until adding the next one would push the section's
// estimated size past maxBytes. The non-empty guard means a single entry
// whose estimate alone exceeds the bound still gets a section of its own
// rather than being split or dropped. maxBytes <= 0 degenerates to one
// section per entry.
func splitAuto(entries []CorrectedEntry, maxBytes int64, ratio float64) []Section {
	var sections []Section
	var current Section
	currentSize := 0.0

	for _, entry := range entries {
		estimate := float64(entry.Record.SizeBytes) * ratio
		if currentSize+estimate > float64(maxBytes) && len(current) > 0 {
			sections = append(sections, current)
			current = nil
			currentSize = 0
		}
		current = append(current, entry)
		currentSize += estimate
	}
	if len(current) > 0 {
		sections = append(sections, current)
	}
	return sections
}
