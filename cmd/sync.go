package cmd

import (
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run a full price and stock synchronization",
	RunE:  runSync,
}

func init() {
	syncCmd.Flags().Bool("dry-run", false, "Compute updates without uploading them")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}

	ctx := progressContext()

	if dry, _ := cmd.Flags().GetBool("dry-run"); dry {
		preview, err := p.DryRun(ctx)
		if err != nil {
			return describeError(err)
		}
		return printJSON(preview)
	}

	summary, err := p.Run(ctx)
	if err != nil {
		return describeError(err)
	}
	return printJSON(summary)
}
