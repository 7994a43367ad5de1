package scandir

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ImageRecord identifies one scanned page in the input directory. Identity is
// the filename; the size feeds the automatic pagination estimate.
type ImageRecord struct {
	Filename  string
	SizeBytes int64
}

var imageExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
}

// List returns the image files directly under dir as a lexicographically
// sorted sequence. This ordering is the total order every downstream stage
// preserves. Extensions are matched case-insensitively; subdirectories and
// non-image files are ignored.
func List(dir string) ([]ImageRecord, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	// os.ReadDir already sorts entries by filename.
	var records []ImageRecord
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", entry.Name(), err)
		}
		records = append(records, ImageRecord{
			Filename:  entry.Name(),
			SizeBytes: info.Size(),
		})
	}
	return records, nil
}
