package bindcmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/lehigh-university-libraries/scanbind/internal/archive"
	"github.com/lehigh-university-libraries/scanbind/internal/pipeline"
	"github.com/lehigh-university-libraries/scanbind/internal/review"
	"github.com/lehigh-university-libraries/scanbind/internal/scandir"
)

func executePdf(opts runOptions) error {
	slog.Info("Binding scans into PDF archives", "review", opts.Review, "input", opts.Input, "output", opts.Output)

	artifact, err := loadArtifactOrEmpty(opts.Review)
	if err != nil {
		return err
	}

	_, entries, sections, err := paginate(opts, artifact)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No images to process.")
		return nil
	}

	if err := os.MkdirAll(opts.Output, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	writer := archive.NewWriter(opts.Input, opts.Quality)

	written := 0
	totalPages := 0
	unreadable := 0
	failed := 0
	invalid := 0

	for i, section := range sections {
		part := i + 1
		outputPath := filepath.Join(opts.Output, fmt.Sprintf("%s_part%d.pdf", opts.Prefix, part))
		slog.Info("Creating archive", "part", part, "total", len(sections), "pages", len(section), "output", outputPath)

		pages, skipped, err := writer.WritePDF(section, outputPath)
		unreadable += skipped
		if err != nil {
			slog.Error("Failed to write archive", "output", outputPath, "error", err)
			failed++
			continue
		}
		if pages == 0 {
			slog.Warn("No readable pages in section, archive not written", "part", part)
			continue
		}

		written++
		totalPages += pages
		if info, err := os.Stat(outputPath); err == nil {
			slog.Info("Created archive", "output", outputPath, "pages", pages,
				"size_mb", fmt.Sprintf("%.1f", float64(info.Size())/1024/1024))
		}

		if opts.Validate {
			if err := api.ValidateFile(outputPath, nil); err != nil {
				slog.Warn("Archive failed validation", "output", outputPath, "error", err)
				invalid++
			}
		}
	}

	fmt.Printf("\nBinding complete!\n")
	fmt.Printf("  Archives written: %d of %d sections\n", written, len(sections))
	fmt.Printf("  Pages included: %d\n", totalPages)
	fmt.Printf("  Unreadable images skipped: %d\n", unreadable)
	fmt.Printf("  Write failures: %d\n", failed)
	if opts.Validate {
		fmt.Printf("  Validation failures: %d\n", invalid)
	}
	fmt.Printf("  Output location: %s\n", opts.Output)

	return nil
}

// loadArtifactOrEmpty treats a missing review file as an unreviewed batch;
// any other load failure, including a malformed artifact, is fatal.
func loadArtifactOrEmpty(path string) (*review.Artifact, error) {
	artifact, err := review.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Info("No review artifact found, using defaults", "review", path)
			return review.Empty(), nil
		}
		return nil, err
	}
	slog.Info("Loaded review artifact",
		"rotations", len(artifact.Rotations),
		"sections", len(artifact.SectionBreaks),
		"discards", len(artifact.Discards))
	return artifact, nil
}

// paginate runs the shared front half of the pdf and plan workflows: list,
// filter, and split, logging the resulting layout.
func paginate(opts runOptions, artifact *review.Artifact) ([]scandir.ImageRecord, []pipeline.CorrectedEntry, []pipeline.Section, error) {
	sequence, err := scandir.List(opts.Input)
	if err != nil {
		return nil, nil, nil, err
	}
	slog.Info("Found images", "count", len(sequence), "input", opts.Input)

	entries := pipeline.Apply(sequence, artifact)
	slog.Info("Filtered discards", "remaining", len(entries), "discarded", len(sequence)-len(entries))
	if len(entries) == 0 {
		return sequence, nil, nil, nil
	}

	maxBytes := int64(opts.MaxSizeMB) * 1024 * 1024
	sections := pipeline.Split(entries, artifact, maxBytes, opts.SizeRatio)

	if artifact.HasSectionBreaks() {
		slog.Info("Using manual sections", "sections", len(sections))
	} else {
		slog.Info("Auto-split by size", "sections", len(sections), "max_size_mb", opts.MaxSizeMB, "size_ratio", opts.SizeRatio)
	}
	for i, section := range sections {
		slog.Info("Section layout", "part", i+1, "pages", len(section),
			"first", section[0].Record.Filename,
			"last", section[len(section)-1].Record.Filename)
	}

	return sequence, entries, sections, nil
}
