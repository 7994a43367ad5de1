package bindcmd

import (
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/scanbind/internal/manifest"
)

func executePlan(opts runOptions, manifestPath string) error {
	slog.Info("Planning pagination", "review", opts.Review, "input", opts.Input, "manifest", manifestPath)

	artifact, err := loadArtifactOrEmpty(opts.Review)
	if err != nil {
		return err
	}

	sequence, entries, sections, err := paginate(opts, artifact)
	if err != nil {
		return err
	}

	manifestEntries := manifest.Build(sequence, sections, opts.Prefix)
	if err := manifest.Write(manifestEntries, manifestPath); err != nil {
		return err
	}

	fmt.Printf("\nPlan complete!\n")
	fmt.Printf("  Images: %d (%d kept, %d discarded)\n", len(sequence), len(entries), len(sequence)-len(entries))
	fmt.Printf("  Sections: %d\n", len(sections))
	fmt.Printf("  Manifest: %s\n", manifestPath)

	return nil
}
