package cmd

import (
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Fetch the stock feed once and upload stocks and prices concurrently",
	RunE:  runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}

	ctx := progressContext()
	records, err := p.Feed.Fetch(ctx)
	if err != nil {
		return describeError(err)
	}

	stocks, prices, err := p.UploadAll(ctx, records)
	if err != nil {
		return describeError(err)
	}
	logger.Info().
		Int("stocks", len(stocks)).
		Int("prices", len(prices)).
		Msg("upload complete")
	return nil
}
