// Package ozon is a minimal client for the Ozon seller API, covering the
// three endpoints the sync pipeline needs: product listing, price import
// and stock import.
package ozon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/lukman83/ozon-sync/internal/httputil"
)

const (
	// DefaultBaseURL is the production Ozon seller API host.
	DefaultBaseURL = "https://api-seller.ozon.ru"

	// pageLimit is the fixed page size for product listing.
	pageLimit = 1000

	visibilityAll = "ALL"
)

// APIError is returned for any non-2xx response from the seller API.
type APIError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ozon: %s returned %d: %s", e.Endpoint, e.Status, e.Body)
}

// ClientConfig collects the dependencies of a Client. Zero-value fields fall
// back to production defaults.
type ClientConfig struct {
	BaseURL    string
	ClientID   string
	APIKey     string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	Logger     zerolog.Logger
}

// Client talks to the Ozon seller API. All methods fail on non-2xx responses
// and never retry.
type Client struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
	apiKey     string
	limiter    *rate.Limiter
	log        zerolog.Logger
}

// NewClient constructs a seller API client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = httputil.NewHTTPClient(nil)
	}
	return &Client{
		httpClient: cfg.HTTPClient,
		baseURL:    cfg.BaseURL,
		clientID:   cfg.ClientID,
		apiKey:     cfg.APIKey,
		limiter:    cfg.Limiter,
		log:        cfg.Logger,
	}
}

// ProductList fetches one page of the seller's catalog. lastID is the cursor
// returned by the previous page; empty for the first request.
func (c *Client) ProductList(ctx context.Context, lastID string) (*ProductListResult, error) {
	req := productListRequest{
		Filter: ProductFilter{Visibility: visibilityAll},
		LastID: lastID,
		Limit:  pageLimit,
	}
	var resp productListResponse
	if err := c.doRequest(ctx, "/v2/product/list", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Result, nil
}

// OfferIDs pages through the whole catalog and returns every offer ID.
// The loop stops only once the accumulated count equals the server-reported
// total, matching the API contract for cursor listing.
func (c *Client) OfferIDs(ctx context.Context) ([]string, error) {
	var (
		lastID   string
		offerIDs []string
	)
	for {
		page, err := c.ProductList(ctx, lastID)
		if err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			offerIDs = append(offerIDs, item.OfferID)
		}
		lastID = page.LastID
		if len(offerIDs) == page.Total {
			break
		}
	}
	return offerIDs, nil
}

// ImportPrices uploads one batch of price updates. The caller is responsible
// for keeping the batch within the API payload limit.
func (c *Client) ImportPrices(ctx context.Context, prices []PriceUpdate) (*ImportResult, error) {
	req := importPricesRequest{Prices: prices}
	var resp ImportResult
	if err := c.doRequest(ctx, "/v1/product/import/prices", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ImportStocks uploads one batch of stock updates.
func (c *Client) ImportStocks(ctx context.Context, stocks []StockUpdate) (*ImportResult, error) {
	req := importStocksRequest{Stocks: stocks}
	var resp ImportResult
	if err := c.doRequest(ctx, "/v1/product/import/stocks", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// doRequest performs an authenticated JSON POST and decodes the response into
// result.
func (c *Client) doRequest(ctx context.Context, endpoint string, body any, result any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Client-Id", c.clientID)
	req.Header.Set("Api-Key", c.apiKey)
	req.Header.Set("X-Request-Id", uuid.New().String())

	c.log.Debug().
		Str("endpoint", endpoint).
		Int("payload_bytes", len(payload)).
		Msg("ozon request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ozon: %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	respBody, err := httputil.ReadBody(resp)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.log.Debug().
		Str("endpoint", endpoint).
		Int("status_code", resp.StatusCode).
		Msg("ozon response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Endpoint: endpoint, Status: resp.StatusCode, Body: string(respBody)}
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
