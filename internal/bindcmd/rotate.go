package bindcmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lehigh-university-libraries/scanbind/internal/archive"
	"github.com/lehigh-university-libraries/scanbind/internal/pipeline"
	"github.com/lehigh-university-libraries/scanbind/internal/review"
	"github.com/lehigh-university-libraries/scanbind/internal/scandir"
)

func executeRotate(opts runOptions) error {
	slog.Info("Applying rotation corrections", "review", opts.Review, "input", opts.Input, "output", opts.Output)

	// Unlike the pdf workflow, there is nothing to do without a review.
	artifact, err := review.Load(opts.Review)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("review artifact not found: %s", opts.Review)
		}
		return err
	}
	slog.Info("Loaded review artifact", "rotations", len(artifact.Rotations), "discards", len(artifact.Discards))

	sequence, err := scandir.List(opts.Input)
	if err != nil {
		return err
	}
	slog.Info("Found images", "count", len(sequence), "input", opts.Input)

	if err := os.MkdirAll(opts.Output, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	entries := pipeline.Apply(sequence, artifact)
	writer := archive.NewWriter(opts.Input, archive.DefaultQuality)

	rotated := 0
	copied := 0
	skipped := 0
	errored := 0

	for i, entry := range entries {
		destPath := filepath.Join(opts.Output, entry.Record.Filename)
		progress := fmt.Sprintf("%d/%d", i+1, len(entries))

		switch {
		case entry.Rotation != 0:
			if err := writer.WriteImage(entry.Record.Filename, destPath, entry.Rotation); err != nil {
				slog.Warn("Failed to rotate image", "filename", entry.Record.Filename, "error", err)
				errored++
				continue
			}
			slog.Info("Rotated image", "filename", entry.Record.Filename, "angle", entry.Rotation, "progress", progress)
			rotated++

		case opts.CopyUnchanged:
			if err := writer.CopyImage(entry.Record.Filename, destPath); err != nil {
				slog.Warn("Failed to copy image", "filename", entry.Record.Filename, "error", err)
				errored++
				continue
			}
			copied++

		default:
			skipped++
		}
	}

	fmt.Printf("\nRotation pass complete!\n")
	fmt.Printf("  Rotated: %d\n", rotated)
	fmt.Printf("  Copied unchanged: %d\n", copied)
	fmt.Printf("  Skipped: %d\n", skipped)
	fmt.Printf("  Errors: %d\n", errored)
	fmt.Printf("  Output location: %s\n", opts.Output)

	return nil
}
