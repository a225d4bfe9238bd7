package cmd

import (
	"github.com/spf13/cobra"
)

var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Fetch the stock feed and upload price updates only",
	RunE:  runPrices,
}

func init() {
	rootCmd.AddCommand(pricesCmd)
}

func runPrices(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}

	ctx := progressContext()
	records, err := p.Feed.Fetch(ctx)
	if err != nil {
		return describeError(err)
	}

	prices, err := p.UploadPrices(ctx, records)
	if err != nil {
		return describeError(err)
	}
	logger.Info().Int("prices", len(prices)).Msg("prices uploaded")
	return nil
}
