package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List offer IDs from the seller catalog",
	RunE:  runProducts,
}

func init() {
	productsCmd.Flags().String("format", "json", "Output format: json, plain")
	rootCmd.AddCommand(productsCmd)
}

func runProducts(cmd *cobra.Command, args []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}

	offerIDs, err := p.Ozon.OfferIDs(progressContext())
	if err != nil {
		return describeError(err)
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "plain":
		for _, id := range offerIDs {
			fmt.Fprintln(os.Stdout, id)
		}
	default:
		return printJSON(offerIDs)
	}
	return nil
}
