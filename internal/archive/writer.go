package archive

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"

	"github.com/lehigh-university-libraries/scanbind/internal/pipeline"
)

// DefaultQuality is the JPEG quality used when re-encoding pages.
const DefaultQuality = 85

// Writer turns sections of corrected entries into output files, one PDF page
// per image. Decode and rotation failures are isolated per image so a single
// corrupt scan never sinks a multi-hundred-page archive.
type Writer struct {
	InputDir string
	Quality  int
}

// NewWriter creates a writer reading source images from inputDir and
// re-encoding pages at the given JPEG quality.
func NewWriter(inputDir string, quality int) *Writer {
	if quality <= 0 {
		quality = DefaultQuality
	}
	return &Writer{InputDir: inputDir, Quality: quality}
}

// WritePDF assembles one PDF from a section, preserving the section's entry
// order as page order. Unreadable images are skipped with a warning and
// counted. It returns the number of pages included and the number skipped;
// when zero pages decode, no output file is produced at all.
func (w *Writer) WritePDF(section pipeline.Section, outputPath string) (int, int, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	pages := 0
	skipped := 0
	for _, entry := range section {
		img, err := imaging.Open(filepath.Join(w.InputDir, entry.Record.Filename))
		if err != nil {
			slog.Warn("Could not decode image, skipping page", "filename", entry.Record.Filename, "error", err)
			skipped++
			continue
		}

		rotated := Rotate(img, entry.Rotation)

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, rotated, imaging.JPEG, imaging.JPEGQuality(w.Quality)); err != nil {
			slog.Warn("Could not re-encode image, skipping page", "filename", entry.Record.Filename, "error", err)
			skipped++
			continue
		}

		// Page size equals the post-rotation pixel dimensions in points, so
		// each page is exactly one image with no borders or scaling.
		bounds := rotated.Bounds()
		width := float64(bounds.Dx())
		height := float64(bounds.Dy())

		options := fpdf.ImageOptions{ImageType: "JPG"}
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: width, Ht: height})
		pdf.RegisterImageOptionsReader(entry.Record.Filename, options, &buf)
		pdf.ImageOptions(entry.Record.Filename, 0, 0, width, height, false, options, 0, "")
		pages++
	}

	if pages == 0 {
		return 0, skipped, nil
	}

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return 0, skipped, fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	return pages, skipped, nil
}

// WriteImage decodes one source image, applies the rotation angle, and saves
// the result to destPath. The encoder follows the destination extension, so
// a .png stays PNG while .jpg/.jpeg re-encode at the writer's quality.
func (w *Writer) WriteImage(filename, destPath string, angle int) error {
	img, err := imaging.Open(filepath.Join(w.InputDir, filename))
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", filename, err)
	}

	rotated := Rotate(img, angle)
	if err := imaging.Save(rotated, destPath, imaging.JPEGQuality(w.Quality)); err != nil {
		return fmt.Errorf("failed to write %s: %w", destPath, err)
	}
	return nil
}

// CopyImage copies one source file to destPath byte for byte, for images the
// review left untouched.
func (w *Writer) CopyImage(filename, destPath string) error {
	src, err := os.Open(filepath.Join(w.InputDir, filename))
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer src.Close()

	dest, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", destPath, err)
	}

	if _, err := io.Copy(dest, src); err != nil {
		dest.Close()
		return fmt.Errorf("failed to copy %s: %w", filename, err)
	}
	return dest.Close()
}
