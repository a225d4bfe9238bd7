package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/lukman83/ozon-sync/internal/feed"
	"github.com/lukman83/ozon-sync/internal/ozon"
)

type apiRecorder struct {
	mu           sync.Mutex
	stockBatches [][]ozon.StockUpdate
	priceBatches [][]ozon.PriceUpdate
	failStocks   bool
}

func newAPIServer(t *testing.T, offerIDs []string, rec *apiRecorder) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v2/product/list", func(w http.ResponseWriter, r *http.Request) {
		items := make([]map[string]any, 0, len(offerIDs))
		for i, id := range offerIDs {
			items = append(items, map[string]any{"product_id": i + 1, "offer_id": id})
		}
		json.NewEncoder(w).Encode(map[string]any{
			"result": map[string]any{"items": items, "total": len(offerIDs), "last_id": ""},
		})
	})
	mux.HandleFunc("/v1/product/import/stocks", func(w http.ResponseWriter, r *http.Request) {
		if rec.failStocks {
			http.Error(w, `{"message":"internal"}`, http.StatusInternalServerError)
			return
		}
		var req struct {
			Stocks []ozon.StockUpdate `json:"stocks"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode stocks: %v", err)
		}
		rec.mu.Lock()
		rec.stockBatches = append(rec.stockBatches, req.Stocks)
		rec.mu.Unlock()
		fmt.Fprint(w, `{"result":[]}`)
	})
	mux.HandleFunc("/v1/product/import/prices", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Prices []ozon.PriceUpdate `json:"prices"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode prices: %v", err)
		}
		rec.mu.Lock()
		rec.priceBatches = append(rec.priceBatches, req.Prices)
		rec.mu.Unlock()
		fmt.Fprint(w, `{"result":[]}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// newFeedServer serves a zip archive with a spreadsheet whose header sits at
// the publisher's usual row offset.
func newFeedServer(t *testing.T, rows [][]string) *httptest.Server {
	t.Helper()

	book := excelize.NewFile()
	defer book.Close()
	sheet := book.GetSheetName(0)
	all := append([][]string{{"Код", "Количество", "Цена"}}, rows...)
	for i, row := range all {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		if err := book.SetSheetRow(sheet, fmt.Sprintf("A%d", 18+i), &cells); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	sheetBuf, err := book.WriteToBuffer()
	if err != nil {
		t.Fatalf("write spreadsheet: %v", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("ostatki.xlsx")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	w.Write(sheetBuf.Bytes())
	zw.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(buf.Bytes())
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestPipeline(t *testing.T, api, feedSrv *httptest.Server) *Pipeline {
	t.Helper()
	return &Pipeline{
		Ozon: ozon.NewClient(ozon.ClientConfig{
			BaseURL:  api.URL,
			ClientID: "cid",
			APIKey:   "key",
		}),
		Feed: feed.NewFetcher(feed.FetcherConfig{
			URL:     feedSrv.URL,
			File:    "ostatki.xlsx",
			WorkDir: t.TempDir(),
		}),
	}
}

func TestRunUploadsDerivedUpdates(t *testing.T) {
	rec := &apiRecorder{}
	api := newAPIServer(t, []string{"X", "Y"}, rec)
	feedSrv := newFeedServer(t, [][]string{
		{"X", "5", "1'200.00 руб."},
	})
	p := newTestPipeline(t, api, feedSrv)

	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantStocks := [][]ozon.StockUpdate{{
		{OfferID: "X", Stock: 5},
		{OfferID: "Y", Stock: 0},
	}}
	if !reflect.DeepEqual(rec.stockBatches, wantStocks) {
		t.Fatalf("stock batches = %v, want %v", rec.stockBatches, wantStocks)
	}

	if len(rec.priceBatches) != 1 || len(rec.priceBatches[0]) != 1 {
		t.Fatalf("price batches = %v", rec.priceBatches)
	}
	price := rec.priceBatches[0][0]
	if price.OfferID != "X" || price.Price != "1200" || price.CurrencyCode != "RUB" || price.OldPrice != "0" {
		t.Fatalf("price = %+v", price)
	}

	if summary.Offers != 2 || summary.StocksSet != 2 || summary.NonZeroStocks != 1 || summary.PricesSet != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.RunID == "" {
		t.Fatal("summary has no run ID")
	}
}

func TestRunSplitsStockBatches(t *testing.T) {
	rec := &apiRecorder{}
	api := newAPIServer(t, []string{"A", "B", "C"}, rec)
	feedSrv := newFeedServer(t, nil)
	p := newTestPipeline(t, api, feedSrv)
	p.StockBatchSize = 1

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rec.stockBatches) != 3 {
		t.Fatalf("stock batches = %d, want 3", len(rec.stockBatches))
	}
	if len(rec.priceBatches) != 0 {
		t.Fatalf("price batches = %v, want none for empty feed", rec.priceBatches)
	}
}

func TestRunAbortsOnStockFailure(t *testing.T) {
	rec := &apiRecorder{failStocks: true}
	api := newAPIServer(t, []string{"A"}, rec)
	feedSrv := newFeedServer(t, [][]string{{"A", "2", "10.00"}})
	p := newTestPipeline(t, api, feedSrv)

	if _, err := p.Run(context.Background()); err == nil {
		t.Fatal("expected error when stock import fails")
	}
	if len(rec.priceBatches) != 0 {
		t.Fatalf("prices uploaded after stock failure: %v", rec.priceBatches)
	}
}

func TestDryRunDoesNotUpload(t *testing.T) {
	rec := &apiRecorder{}
	api := newAPIServer(t, []string{"X", "Y"}, rec)
	feedSrv := newFeedServer(t, [][]string{{"X", ">10", "300.00 руб."}})
	p := newTestPipeline(t, api, feedSrv)

	preview, err := p.DryRun(context.Background())
	if err != nil {
		t.Fatalf("DryRun: %v", err)
	}
	if len(rec.stockBatches) != 0 || len(rec.priceBatches) != 0 {
		t.Fatal("dry run must not call the import endpoints")
	}

	wantStocks := []ozon.StockUpdate{
		{OfferID: "X", Stock: 100},
		{OfferID: "Y", Stock: 0},
	}
	if !reflect.DeepEqual(preview.Stocks, wantStocks) {
		t.Fatalf("preview stocks = %v, want %v", preview.Stocks, wantStocks)
	}
	if len(preview.Prices) != 1 || preview.Prices[0].Price != "300" {
		t.Fatalf("preview prices = %v", preview.Prices)
	}
}

func TestUploadStocksReturnsNonEmpty(t *testing.T) {
	rec := &apiRecorder{}
	api := newAPIServer(t, []string{"X", "Y"}, rec)
	feedSrv := newFeedServer(t, nil)
	p := newTestPipeline(t, api, feedSrv)

	records := []feed.Record{{Code: "X", Quantity: "3", Price: "10.00"}}
	nonEmpty, all, err := p.UploadStocks(context.Background(), records)
	if err != nil {
		t.Fatalf("UploadStocks: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all = %v, want 2 entries", all)
	}
	if len(nonEmpty) != 1 || nonEmpty[0].OfferID != "X" || nonEmpty[0].Stock != 3 {
		t.Fatalf("nonEmpty = %v", nonEmpty)
	}
}

func TestUploadAll(t *testing.T) {
	rec := &apiRecorder{}
	api := newAPIServer(t, []string{"X", "Y"}, rec)
	feedSrv := newFeedServer(t, nil)
	p := newTestPipeline(t, api, feedSrv)

	records := []feed.Record{{Code: "X", Quantity: "2", Price: "5'990.00 руб."}}
	stocks, prices, err := p.UploadAll(context.Background(), records)
	if err != nil {
		t.Fatalf("UploadAll: %v", err)
	}
	if len(stocks) != 2 || len(prices) != 1 {
		t.Fatalf("stocks = %v, prices = %v", stocks, prices)
	}
	if len(rec.stockBatches) != 1 || len(rec.priceBatches) != 1 {
		t.Fatalf("batches: stocks %d, prices %d", len(rec.stockBatches), len(rec.priceBatches))
	}
}
