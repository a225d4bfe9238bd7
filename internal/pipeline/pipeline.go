// Package pipeline orchestrates one synchronization run: list the catalog,
// fetch the stock feed, derive updates and upload them in batches.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lukman83/ozon-sync/internal/batch"
	"github.com/lukman83/ozon-sync/internal/feed"
	"github.com/lukman83/ozon-sync/internal/ozon"
	"github.com/lukman83/ozon-sync/internal/reconcile"
)

const (
	// DefaultStockBatchSize caps a single stock import payload.
	DefaultStockBatchSize = 100
	// DefaultPriceBatchSize caps a single price import payload on the full
	// sync path.
	DefaultPriceBatchSize = 900
	// uploadPriceBatchSize is used by the standalone UploadPrices path.
	// TODO: confirm the actual import/prices payload limit with Ozon support;
	// the full sync uses 900 while this path uses 1000.
	uploadPriceBatchSize = 1000
)

// Pipeline wires the seller API client and the feed fetcher into the
// synchronization sequence. A batch size of zero falls back to the default.
type Pipeline struct {
	Ozon           *ozon.Client
	Feed           *feed.Fetcher
	Log            zerolog.Logger
	StockBatchSize int
	PriceBatchSize int
}

// Summary describes what one full run uploaded.
type Summary struct {
	RunID         string `json:"run_id"`
	Offers        int    `json:"offers"`
	FeedRecords   int    `json:"feed_records"`
	StocksSet     int    `json:"stocks_set"`
	NonZeroStocks int    `json:"non_zero_stocks"`
	PricesSet     int    `json:"prices_set"`
}

// Preview holds the updates a run would upload, without uploading them.
type Preview struct {
	Stocks []ozon.StockUpdate `json:"stocks"`
	Prices []ozon.PriceUpdate `json:"prices"`
}

func (p *Pipeline) stockBatch() int {
	if p.StockBatchSize > 0 {
		return p.StockBatchSize
	}
	return DefaultStockBatchSize
}

func (p *Pipeline) priceBatch() int {
	if p.PriceBatchSize > 0 {
		return p.PriceBatchSize
	}
	return DefaultPriceBatchSize
}

// Run executes the full synchronization: catalog listing, feed download,
// stock upload, then price upload. The first failing step aborts the rest of
// the run; nothing is retried or rolled back.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	runID := uuid.New().String()
	log := p.Log.With().Str("run_id", runID).Logger()

	reportProgress(ctx, "Listing marketplace products...")
	offerIDs, err := p.Ozon.OfferIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	log.Info().Int("offers", len(offerIDs)).Msg("catalog listed")

	reportProgress(ctx, "Downloading stock feed...")
	records, err := p.Feed.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch stock feed: %w", err)
	}

	stocks, err := reconcile.Stocks(records, offerIDs)
	if err != nil {
		return nil, err
	}
	if err := p.uploadStocks(ctx, stocks, p.stockBatch()); err != nil {
		return nil, err
	}

	prices := reconcile.Prices(records, offerIDs)
	if err := p.uploadPrices(ctx, prices, p.priceBatch()); err != nil {
		return nil, err
	}

	summary := &Summary{
		RunID:         runID,
		Offers:        len(offerIDs),
		FeedRecords:   len(records),
		StocksSet:     len(stocks),
		NonZeroStocks: len(nonZero(stocks)),
		PricesSet:     len(prices),
	}
	log.Info().
		Int("stocks", summary.StocksSet).
		Int("prices", summary.PricesSet).
		Msg("sync complete")
	return summary, nil
}

// DryRun computes the updates a full run would upload without calling the
// import endpoints. The feed is still downloaded.
func (p *Pipeline) DryRun(ctx context.Context) (*Preview, error) {
	reportProgress(ctx, "Listing marketplace products...")
	offerIDs, err := p.Ozon.OfferIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	reportProgress(ctx, "Downloading stock feed...")
	records, err := p.Feed.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch stock feed: %w", err)
	}

	stocks, err := reconcile.Stocks(records, offerIDs)
	if err != nil {
		return nil, err
	}
	return &Preview{
		Stocks: stocks,
		Prices: reconcile.Prices(records, offerIDs),
	}, nil
}

// UploadStocks lists the catalog, derives stock updates from the given feed
// records and uploads them. It returns the non-zero updates and the full
// update list.
func (p *Pipeline) UploadStocks(ctx context.Context, records []feed.Record) ([]ozon.StockUpdate, []ozon.StockUpdate, error) {
	offerIDs, err := p.Ozon.OfferIDs(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list products: %w", err)
	}
	stocks, err := reconcile.Stocks(records, offerIDs)
	if err != nil {
		return nil, nil, err
	}
	if err := p.uploadStocks(ctx, stocks, p.stockBatch()); err != nil {
		return nil, nil, err
	}
	return nonZero(stocks), stocks, nil
}

// UploadPrices lists the catalog, derives price updates from the given feed
// records and uploads them.
func (p *Pipeline) UploadPrices(ctx context.Context, records []feed.Record) ([]ozon.PriceUpdate, error) {
	offerIDs, err := p.Ozon.OfferIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	prices := reconcile.Prices(records, offerIDs)
	if err := p.uploadPrices(ctx, prices, uploadPriceBatchSize); err != nil {
		return nil, err
	}
	return prices, nil
}

// UploadAll runs UploadStocks and UploadPrices concurrently over the same
// feed records. A failure on either side cancels the other.
func (p *Pipeline) UploadAll(ctx context.Context, records []feed.Record) ([]ozon.StockUpdate, []ozon.PriceUpdate, error) {
	var (
		stocks []ozon.StockUpdate
		prices []ozon.PriceUpdate
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		_, stocks, err = p.UploadStocks(ctx, records)
		return err
	})
	g.Go(func() error {
		var err error
		prices, err = p.UploadPrices(ctx, records)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return stocks, prices, nil
}

func (p *Pipeline) uploadStocks(ctx context.Context, stocks []ozon.StockUpdate, size int) error {
	chunks := batch.Chunk(stocks, size)
	for i, chunk := range chunks {
		reportProgress(ctx, fmt.Sprintf("Uploading stocks %d/%d...", i+1, len(chunks)))
		if _, err := p.Ozon.ImportStocks(ctx, chunk); err != nil {
			return fmt.Errorf("upload stocks batch %d/%d: %w", i+1, len(chunks), err)
		}
	}
	return nil
}

func (p *Pipeline) uploadPrices(ctx context.Context, prices []ozon.PriceUpdate, size int) error {
	chunks := batch.Chunk(prices, size)
	for i, chunk := range chunks {
		reportProgress(ctx, fmt.Sprintf("Uploading prices %d/%d...", i+1, len(chunks)))
		if _, err := p.Ozon.ImportPrices(ctx, chunk); err != nil {
			return fmt.Errorf("upload prices batch %d/%d: %w", i+1, len(chunks), err)
		}
	}
	return nil
}

func nonZero(stocks []ozon.StockUpdate) []ozon.StockUpdate {
	var out []ozon.StockUpdate
	for _, s := range stocks {
		if s.Stock != 0 {
			out = append(out, s)
		}
	}
	return out
}
