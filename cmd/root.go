package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/lukman83/ozon-sync/config"
	"github.com/lukman83/ozon-sync/internal/feed"
	"github.com/lukman83/ozon-sync/internal/httputil"
	"github.com/lukman83/ozon-sync/internal/ozon"
	"github.com/lukman83/ozon-sync/internal/pipeline"
)

var (
	cfg    *config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ozon-sync",
	Short: "Ozon Sync - price and stock synchronization CLI & MCP server",
	Long:  "Synchronizes prices and stock quantities between a published stock feed and the Ozon seller API.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("base-url", "", "Ozon seller API base URL")
	rootCmd.PersistentFlags().String("feed-url", "", "Stock feed archive URL")
	rootCmd.PersistentFlags().String("work-dir", "", "Directory the feed archive is extracted into")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
}

func initConfig() {
	cfg = config.DefaultConfig()
	cfg.LoadFromEnv()

	// Override from flags
	if v, _ := rootCmd.PersistentFlags().GetString("base-url"); v != "" {
		cfg.BaseURL = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("feed-url"); v != "" {
		cfg.FeedURL = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("work-dir"); v != "" {
		cfg.WorkDir = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}

	logger = newLogger(cfg.LogLevel)
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().Timestamp().Logger()
}

// buildPipeline wires the seller API client and the feed fetcher from config.
func buildPipeline() (*pipeline.Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := httputil.NewHTTPClient(nil)
	limiter := rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst)

	client := ozon.NewClient(ozon.ClientConfig{
		BaseURL:    cfg.BaseURL,
		ClientID:   cfg.ClientID,
		APIKey:     cfg.SellerToken,
		HTTPClient: httpClient,
		Limiter:    limiter,
		Logger:     logger,
	})
	fetcher := feed.NewFetcher(feed.FetcherConfig{
		URL:        cfg.FeedURL,
		File:       cfg.FeedFile,
		WorkDir:    cfg.WorkDir,
		HTTPClient: httpClient,
		Logger:     logger,
	})

	return &pipeline.Pipeline{
		Ozon:           client,
		Feed:           fetcher,
		Log:            logger,
		StockBatchSize: cfg.StockBatchSize,
		PriceBatchSize: cfg.PriceBatchSize,
	}, nil
}
