package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/scanbind/internal/bindcmd"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scanbind",
		Short: "Post-process reviewed scan batches into corrected images or PDF archives",
		Long: `Scanbind post-processes a directory of sequentially scanned document images
using a manually-produced review artifact recording, per image, a rotation
correction, a discard flag, and optional section-break markers.

It can write individually corrected image files, or bind the batch into one
or more paginated PDF archives whose size stays under a configured bound.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(bindcmd.NewRotateCmd())
	cmd.AddCommand(bindcmd.NewPdfCmd())
	cmd.AddCommand(bindcmd.NewPlanCmd())

	return cmd
}
