package cmd

import (
	"github.com/spf13/cobra"
)

var stocksCmd = &cobra.Command{
	Use:   "stocks",
	Short: "Fetch the stock feed and upload stock updates only",
	RunE:  runStocks,
}

func init() {
	rootCmd.AddCommand(stocksCmd)
}

func runStocks(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}

	ctx := progressContext()
	records, err := p.Feed.Fetch(ctx)
	if err != nil {
		return describeError(err)
	}

	nonEmpty, all, err := p.UploadStocks(ctx, records)
	if err != nil {
		return describeError(err)
	}
	logger.Info().
		Int("stocks", len(all)).
		Int("non_zero", len(nonEmpty)).
		Msg("stocks uploaded")
	return nil
}
