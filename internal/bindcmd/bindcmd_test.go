package bindcmd

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

// batchDir lays out a four-image scan batch plus a review artifact marking
// a.jpg for rotation, b.jpg as discarded, and c.jpg as a section break.
func batchDir(t *testing.T) (inputDir, reviewPath string) {
	t.Helper()
	inputDir = t.TempDir()
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"} {
		img := imaging.New(24, 16, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
		if err := imaging.Save(img, filepath.Join(inputDir, name)); err != nil {
			t.Fatalf("Failed to save test image %s: %v", name, err)
		}
	}

	reviewPath = filepath.Join(t.TempDir(), "image_review.json")
	data := `{"corrections":{"a.jpg":90},"sectionBreaks":["c.jpg"],"discards":["b.jpg"]}`
	if err := os.WriteFile(reviewPath, []byte(data), 0644); err != nil {
		t.Fatalf("Failed to create review file: %v", err)
	}
	return inputDir, reviewPath
}

func TestExecutePdf(t *testing.T) {
	inputDir, reviewPath := batchDir(t)
	outputDir := t.TempDir()

	opts := runOptions{
		Review:    reviewPath,
		Input:     inputDir,
		Output:    outputDir,
		Prefix:    "test_archive",
		Quality:   85,
		MaxSizeMB: 200,
		SizeRatio: 0.85,
	}
	if err := executePdf(opts); err != nil {
		t.Fatalf("executePdf failed: %v", err)
	}

	// Manual split: a.jpg alone, then c.jpg and d.jpg.
	for _, name := range []string{"test_archive_part1.pdf", "test_archive_part2.pdf"} {
		if _, err := os.Stat(filepath.Join(outputDir, name)); err != nil {
			t.Errorf("Expected %s to exist: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(outputDir, "test_archive_part3.pdf")); !os.IsNotExist(err) {
		t.Error("Expected exactly two archive parts")
	}
}

func TestExecutePdfMissingReviewIsNotFatal(t *testing.T) {
	inputDir, _ := batchDir(t)
	outputDir := t.TempDir()

	opts := runOptions{
		Review:    filepath.Join(t.TempDir(), "nope.json"),
		Input:     inputDir,
		Output:    outputDir,
		Prefix:    "plain",
		Quality:   85,
		MaxSizeMB: 200,
		SizeRatio: 0.85,
	}
	if err := executePdf(opts); err != nil {
		t.Fatalf("executePdf failed without review artifact: %v", err)
	}

	// No review means no discards and one auto section.
	if _, err := os.Stat(filepath.Join(outputDir, "plain_part1.pdf")); err != nil {
		t.Errorf("Expected plain_part1.pdf to exist: %v", err)
	}
}

func TestExecutePdfEmptyDirectory(t *testing.T) {
	outputDir := t.TempDir()
	opts := runOptions{
		Review:    filepath.Join(t.TempDir(), "nope.json"),
		Input:     t.TempDir(),
		Output:    outputDir,
		Prefix:    "empty",
		Quality:   85,
		MaxSizeMB: 200,
		SizeRatio: 0.85,
	}
	if err := executePdf(opts); err != nil {
		t.Fatalf("executePdf failed on empty directory: %v", err)
	}

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		t.Fatalf("Failed to read output directory: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no archives for empty input, found %d files", len(entries))
	}
}

func TestExecuteRotate(t *testing.T) {
	inputDir, reviewPath := batchDir(t)
	outputDir := filepath.Join(t.TempDir(), "corrected")

	opts := runOptions{
		Review:        reviewPath,
		Input:         inputDir,
		Output:        outputDir,
		CopyUnchanged: true,
	}
	if err := executeRotate(opts); err != nil {
		t.Fatalf("executeRotate failed: %v", err)
	}

	// a.jpg was rotated 90: 24x16 becomes 16x24.
	rotated, err := imaging.Open(filepath.Join(outputDir, "a.jpg"))
	if err != nil {
		t.Fatalf("Failed to open rotated output: %v", err)
	}
	bounds := rotated.Bounds()
	if bounds.Dx() != 16 || bounds.Dy() != 24 {
		t.Errorf("Expected 16x24 rotated output, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	// b.jpg was discarded.
	if _, err := os.Stat(filepath.Join(outputDir, "b.jpg")); !os.IsNotExist(err) {
		t.Error("Expected discarded b.jpg to be absent from output")
	}

	// c.jpg and d.jpg were copied through unchanged.
	for _, name := range []string{"c.jpg", "d.jpg"} {
		if _, err := os.Stat(filepath.Join(outputDir, name)); err != nil {
			t.Errorf("Expected %s to be copied through: %v", name, err)
		}
	}
}

func TestExecuteRotateMissingReviewIsFatal(t *testing.T) {
	inputDir, _ := batchDir(t)

	opts := runOptions{
		Review: filepath.Join(t.TempDir(), "nope.json"),
		Input:  inputDir,
		Output: t.TempDir(),
	}
	if err := executeRotate(opts); err == nil {
		t.Error("Expected error for missing review artifact, got nil")
	}
}

func TestExecutePlan(t *testing.T) {
	inputDir, reviewPath := batchDir(t)
	manifestPath := filepath.Join(t.TempDir(), "plan.jsonl")

	opts := runOptions{
		Review:    reviewPath,
		Input:     inputDir,
		Prefix:    "test_archive",
		MaxSizeMB: 200,
		SizeRatio: 0.85,
	}
	if err := executePlan(opts, manifestPath); err != nil {
		t.Fatalf("executePlan failed: %v", err)
	}

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		t.Fatalf("Expected manifest to exist: %v", err)
	}
	if len(data) == 0 {
		t.Error("Expected non-empty manifest")
	}
}
