package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/lehigh-university-libraries/scanbind/internal/pipeline"
	"github.com/lehigh-university-libraries/scanbind/internal/scandir"
)

// Entry records the planned disposition of one input image: whether it was
// discarded, what rotation it gets, and which archive part it lands in.
type Entry struct {
	Filename   string `json:"filename" parquet:"filename"`
	SizeBytes  int64  `json:"size_bytes" parquet:"size_bytes"`
	Rotation   int    `json:"rotation" parquet:"rotation"`
	Discarded  bool   `json:"discarded" parquet:"discarded"`
	Section    int    `json:"section" parquet:"section"`
	OutputFile string `json:"output_file" parquet:"output_file"`
}

// Build flattens a paginated plan back into per-image entries, in input
// sequence order. Images absent from every section were discarded by the
// review; they are included with Discarded set and no section, so the
// manifest accounts for every file in the input directory.
func Build(sequence []scandir.ImageRecord, sections []pipeline.Section, prefix string) []Entry {
	type placement struct {
		section  int
		rotation int
	}
	placements := make(map[string]placement, len(sequence))
	for i, section := range sections {
		for _, entry := range section {
			placements[entry.Record.Filename] = placement{section: i + 1, rotation: entry.Rotation}
		}
	}

	entries := make([]Entry, 0, len(sequence))
	for _, record := range sequence {
		entry := Entry{
			Filename:  record.Filename,
			SizeBytes: record.SizeBytes,
		}
		if p, ok := placements[record.Filename]; ok {
			entry.Rotation = p.rotation
			entry.Section = p.section
			entry.OutputFile = fmt.Sprintf("%s_part%d.pdf", prefix, p.section)
		} else {
			entry.Discarded = true
		}
		entries = append(entries, entry)
	}
	return entries
}

// Write saves entries to path, selecting the format by extension.
func Write(entries []Entry, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return writeParquet(entries, path)
	case ".jsonl", ".json":
		return writeJSONL(entries, path)
	default:
		return fmt.Errorf("unsupported manifest format: %s (supported: .parquet, .jsonl)", filepath.Ext(path))
	}
}

func writeJSONL(entries []Entry, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest file: %w", err)
	}

	encoder := json.NewEncoder(file)
	for _, entry := range entries {
		if err := encoder.Encode(entry); err != nil {
			file.Close()
			return fmt.Errorf("failed to write manifest entry: %w", err)
		}
	}
	return file.Close()
}

func writeParquet(entries []Entry, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest file: %w", err)
	}

	writer := parquet.NewGenericWriter[Entry](file)
	if _, err := writer.Write(entries); err != nil {
		file.Close()
		return fmt.Errorf("failed to write parquet manifest: %w", err)
	}
	if err := writer.Close(); err != nil {
		file.Close()
		return fmt.Errorf("failed to finalize parquet manifest: %w", err)
	}
	return file.Close()
}
