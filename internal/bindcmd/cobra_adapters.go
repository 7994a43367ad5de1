package bindcmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/scanbind/internal/archive"
	"github.com/lehigh-university-libraries/scanbind/internal/config"
	"github.com/lehigh-university-libraries/scanbind/internal/pipeline"
)

// runOptions carries the full configuration surface shared by the rotate,
// pdf, and plan commands. Each command registers only the flags it uses.
type runOptions struct {
	Review        string
	Input         string
	Output        string
	CopyUnchanged bool
	Prefix        string
	Quality       int
	MaxSizeMB     int
	SizeRatio     float64
	Validate      bool
}

// NewRotateCmd creates the rotate command for writing individually corrected
// image files.
func NewRotateCmd() *cobra.Command {
	var opts runOptions
	var configPath string

	cmd := &cobra.Command{
		Use:   "rotate",
		Short: "Apply rotation corrections to individual image files",
		Long: `Apply the rotation corrections from a manual review to a directory of
scanned images, writing one corrected file per image under the output
directory with the same filename.

Images the review marked as discarded are excluded. Images with no
correction are skipped unless --copy-unchanged is set, in which case they
are copied through byte for byte.`,
		Example: `  # Apply corrections from the default review file
  scanbind rotate --input ./scans --output ./corrected

  # Also carry over images that needed no rotation
  scanbind rotate -r image_review.json -i ./scans -o ./corrected --copy-unchanged`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := overlayConfig(cmd, configPath, &opts); err != nil {
				return err
			}
			overlayEnv(cmd, &opts)
			if opts.Output == "" {
				return fmt.Errorf("--output is required")
			}
			return executeRotate(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Review, "review", "r", "rotation_corrections.json", "JSON review artifact with rotation corrections")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", ".", "Input directory with scanned images")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output directory for corrected images (required)")
	cmd.Flags().BoolVar(&opts.CopyUnchanged, "copy-unchanged", false, "Also copy images that need no rotation")
	cmd.Flags().StringVar(&configPath, "config", "", "Optional YAML config file supplying defaults")

	return cmd
}

// NewPdfCmd creates the pdf command for producing paginated PDF archives.
func NewPdfCmd() *cobra.Command {
	var opts runOptions
	var configPath string

	cmd := &cobra.Command{
		Use:   "pdf",
		Short: "Bind reviewed scans into paginated PDF archives",
		Long: `Bind a directory of scanned images into one or more PDF archives using a
manual review artifact (rotations, discards, section breaks).

When the review defines section breaks, each marked image starts a new
archive. Otherwise sections are packed automatically so each archive's
estimated size stays under --max-size. A missing review file is not an
error; the batch is bound in order with no corrections.`,
		Example: `  # Bind with manual sections from the review
  scanbind pdf -r image_review.json -i ./corrected -o ./pdfs -p banks_archive

  # Auto-split into parts of at most 100 MB and validate the output
  scanbind pdf -i ./corrected -o ./pdfs --max-size 100 --validate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := overlayConfig(cmd, configPath, &opts); err != nil {
				return err
			}
			overlayEnv(cmd, &opts)
			return executePdf(opts)
		},
	}

	addPdfFlags(cmd, &opts)
	cmd.Flags().BoolVar(&opts.Validate, "validate", false, "Validate each produced PDF's structure after writing")
	cmd.Flags().StringVar(&configPath, "config", "", "Optional YAML config file supplying defaults")

	return cmd
}

// NewPlanCmd creates the plan command, a dry run of the pdf workflow that
// writes a per-image disposition manifest instead of archives.
func NewPlanCmd() *cobra.Command {
	var opts runOptions
	var configPath string
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Preview the pagination plan without writing any archives",
		Long: `Compute the corrected, paginated plan for a batch and write a per-image
manifest recording each file's disposition: discarded or kept, rotation
angle, section number, and the archive part it will land in.

No image bytes are read or written. The manifest format follows the output
extension: .jsonl for JSON lines, .parquet for a columnar file suitable
for auditing large batches.`,
		Example: `  # Preview how a batch will split
  scanbind plan -r image_review.json -i ./corrected --manifest plan.jsonl

  # Columnar manifest for a large batch
  scanbind plan -i ./corrected --max-size 100 --manifest plan.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := overlayConfig(cmd, configPath, &opts); err != nil {
				return err
			}
			overlayEnv(cmd, &opts)
			return executePlan(opts, manifestPath)
		},
	}

	addPdfFlags(cmd, &opts)
	cmd.Flags().StringVar(&manifestPath, "manifest", "plan.jsonl", "Manifest output path (.jsonl or .parquet)")
	cmd.Flags().StringVar(&configPath, "config", "", "Optional YAML config file supplying defaults")

	return cmd
}

// addPdfFlags registers the pagination flags shared by pdf and plan.
func addPdfFlags(cmd *cobra.Command, opts *runOptions) {
	cmd.Flags().StringVarP(&opts.Review, "review", "r", "image_review.json", "JSON review artifact with corrections/sections/discards")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "final_preprocessed", "Input directory with scanned images")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "pdfs", "Output directory for PDF archives")
	cmd.Flags().StringVarP(&opts.Prefix, "prefix", "p", "scan_archive", "Archive filename prefix")
	cmd.Flags().IntVarP(&opts.Quality, "quality", "q", archive.DefaultQuality, "JPEG quality for re-encoded pages")
	cmd.Flags().IntVarP(&opts.MaxSizeMB, "max-size", "m", 200, "Max archive size in MB (used when the review has no section breaks)")
	cmd.Flags().Float64Var(&opts.SizeRatio, "size-ratio", pipeline.DefaultSizeRatio, "Estimated output/input size ratio for automatic splitting")
}

// overlayConfig fills in values from an optional YAML config file for flags
// the user did not set explicitly.
func overlayConfig(cmd *cobra.Command, path string, opts *runOptions) error {
	if path == "" {
		return nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	overlay(cmd, "review", cfg.Review != "", func() { opts.Review = cfg.Review })
	overlay(cmd, "input", cfg.Input != "", func() { opts.Input = cfg.Input })
	overlay(cmd, "output", cfg.Output != "", func() { opts.Output = cfg.Output })
	overlay(cmd, "copy-unchanged", cfg.CopyUnchanged, func() { opts.CopyUnchanged = true })
	overlay(cmd, "prefix", cfg.Prefix != "", func() { opts.Prefix = cfg.Prefix })
	overlay(cmd, "quality", cfg.Quality > 0, func() { opts.Quality = cfg.Quality })
	overlay(cmd, "max-size", cfg.MaxSizeMB > 0, func() { opts.MaxSizeMB = cfg.MaxSizeMB })
	overlay(cmd, "size-ratio", cfg.SizeRatio > 0, func() { opts.SizeRatio = cfg.SizeRatio })

	return nil
}

// overlayEnv fills in environment fallbacks for flags the user did not set.
func overlayEnv(cmd *cobra.Command, opts *runOptions) {
	overlay(cmd, "review", os.Getenv("SCANBIND_REVIEW") != "", func() { opts.Review = os.Getenv("SCANBIND_REVIEW") })
	overlay(cmd, "prefix", os.Getenv("SCANBIND_PREFIX") != "", func() { opts.Prefix = os.Getenv("SCANBIND_PREFIX") })
	overlay(cmd, "quality", os.Getenv("SCANBIND_QUALITY") != "", func() {
		if quality, err := strconv.Atoi(os.Getenv("SCANBIND_QUALITY")); err == nil && quality > 0 {
			opts.Quality = quality
		}
	})
}

// overlay applies a fallback to a flag that exists on this command, was not
// set by the user, and has a usable fallback value.
func overlay(cmd *cobra.Command, name string, usable bool, apply func()) {
	flag := cmd.Flags().Lookup(name)
	if flag == nil || flag.Changed || !usable {
		return
	}
	apply()
}
