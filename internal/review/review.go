package review

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrMalformedArtifact indicates the review artifact's JSON root is not an
// object. This aborts a run before any image I/O happens.
var ErrMalformedArtifact = errors.New("review artifact root is not a JSON object")

// Artifact is the normalized form of a manual review file: per-filename
// rotation angles plus the sets of discarded filenames and section-break
// filenames. It is built once per run and read-only afterwards.
type Artifact struct {
	Rotations     map[string]int
	Discards      map[string]struct{}
	SectionBreaks map[string]struct{}
}

// Empty returns an artifact with no corrections, equivalent to a batch that
// was never reviewed.
func Empty() *Artifact {
	return &Artifact{
		Rotations:     make(map[string]int),
		Discards:      make(map[string]struct{}),
		SectionBreaks: make(map[string]struct{}),
	}
}

// Load reads and normalizes a review artifact from disk. A missing file
// surfaces as fs.ErrNotExist through the wrapped error so callers can decide
// whether absence is fatal.
func Load(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read review artifact: %w", err)
	}

	artifact, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return artifact, nil
}

// Parse normalizes raw review JSON into an Artifact. Two shapes are accepted:
// the current format with a "corrections" key alongside optional
// "sectionBreaks" and "discards" lists, and the legacy format where the whole
// object is the rotations map. Angle values that are not numbers normalize to
// 0; unknown angles are handled later, at rotation-apply time.
func Parse(data []byte) (*Artifact, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedArtifact, err)
	}
	// A JSON null unmarshals into a nil map without error; it is still not
	// an object root.
	if root == nil {
		return nil, fmt.Errorf("%w: root is null", ErrMalformedArtifact)
	}

	artifact := Empty()

	raw, ok := root["corrections"]
	if !ok {
		// Legacy format: the entire object is filename -> angle.
		for name, value := range root {
			artifact.Rotations[name] = decodeAngle(value)
		}
		return artifact, nil
	}

	var rotations map[string]json.RawMessage
	if err := json.Unmarshal(raw, &rotations); err != nil || rotations == nil {
		return nil, fmt.Errorf("%w: corrections is not an object", ErrMalformedArtifact)
	}
	for name, value := range rotations {
		artifact.Rotations[name] = decodeAngle(value)
	}
	artifact.SectionBreaks = decodeSet(root["sectionBreaks"])
	artifact.Discards = decodeSet(root["discards"])

	return artifact, nil
}

// Rotation returns the correction angle recorded for a filename, defaulting
// to 0 when the review left the image alone.
func (a *Artifact) Rotation(filename string) int {
	return a.Rotations[filename]
}

// Discarded reports whether the review excluded a filename from all output.
func (a *Artifact) Discarded(filename string) bool {
	_, ok := a.Discards[filename]
	return ok
}

// SectionBreak reports whether a filename was marked as the start of a new
// section.
func (a *Artifact) SectionBreak(filename string) bool {
	_, ok := a.SectionBreaks[filename]
	return ok
}

// HasSectionBreaks reports whether the review defined any manual sections.
func (a *Artifact) HasSectionBreaks() bool {
	return len(a.SectionBreaks) > 0
}

func decodeAngle(raw json.RawMessage) int {
	var angle float64
	if err := json.Unmarshal(raw, &angle); err != nil {
		return 0
	}
	return int(angle)
}

func decodeSet(raw json.RawMessage) map[string]struct{} {
	set := make(map[string]struct{})
	if raw == nil {
		return set
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return set
	}
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}
