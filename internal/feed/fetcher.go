// Package feed downloads and parses the publisher's stock feed: a zip
// archive containing a spreadsheet of product codes, quantities and prices.
package feed

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/lukman83/ozon-sync/internal/httputil"
)

// headerRow is the 0-indexed spreadsheet row holding the column names.
// Everything above it is a decorative banner the publisher ships with
// every export.
const headerRow = 17

// Column names as they appear in the publisher's spreadsheet.
const (
	colCode     = "Код"
	colQuantity = "Количество"
	colPrice    = "Цена"
)

// Record is one row of the stock feed.
type Record struct {
	Code     string
	Quantity string
	Price    string
}

// FetcherConfig collects the dependencies of a Fetcher.
type FetcherConfig struct {
	URL        string // archive download URL
	File       string // spreadsheet name expected inside the archive
	WorkDir    string // extraction directory
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Fetcher downloads the feed archive and turns it into records.
type Fetcher struct {
	url        string
	file       string
	workDir    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewFetcher constructs a feed fetcher.
func NewFetcher(cfg FetcherConfig) *Fetcher {
	if cfg.WorkDir == "" {
		cfg.WorkDir = "."
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = httputil.NewHTTPClient(nil)
	}
	return &Fetcher{
		url:        cfg.URL,
		file:       cfg.File,
		workDir:    cfg.WorkDir,
		httpClient: cfg.HTTPClient,
		log:        cfg.Logger,
	}
}

// Fetch downloads the archive, extracts it into the work directory, parses
// the spreadsheet into records and removes the extracted spreadsheet.
// The archive layout is not validated up front: a missing spreadsheet
// surfaces as the open error.
func (f *Fetcher) Fetch(ctx context.Context) ([]Record, error) {
	archive, err := f.download(ctx)
	if err != nil {
		return nil, err
	}

	if err := f.extract(archive); err != nil {
		return nil, err
	}

	path := filepath.Join(f.workDir, f.file)
	defer os.Remove(path)

	records, err := parseSpreadsheet(path)
	if err != nil {
		return nil, err
	}

	f.log.Info().Int("records", len(records)).Msg("stock feed parsed")
	return records, nil
}

func (f *Fetcher) download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("download feed: %s returned %d", f.url, resp.StatusCode)
	}

	body, err := httputil.ReadBody(resp)
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}
	f.log.Debug().Int("bytes", len(body)).Msg("feed archive downloaded")
	return body, nil
}

// extract writes every archive entry into the work directory.
func (f *Fetcher) extract(archive []byte) error {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}

	for _, entry := range zr.File {
		name := filepath.Clean(entry.Name)
		if name == "." || strings.HasPrefix(name, "..") || filepath.IsAbs(name) {
			return fmt.Errorf("archive entry escapes work dir: %q", entry.Name)
		}
		dest := filepath.Join(f.workDir, name)

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
		if err := writeEntry(entry, dest); err != nil {
			return fmt.Errorf("extract %s: %w", entry.Name, err)
		}
	}
	return nil
}

func writeEntry(entry *zip.File, dest string) error {
	src, err := entry.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}

// parseSpreadsheet reads the first sheet, maps columns from the header row
// and converts every following row into a Record.
func parseSpreadsheet(path string) ([]Record, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer book.Close()

	sheet := book.GetSheetName(0)
	rows, err := book.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) <= headerRow {
		return nil, fmt.Errorf("sheet %q has %d rows, header expected at row %d", sheet, len(rows), headerRow+1)
	}

	cols := map[string]int{}
	for i, name := range rows[headerRow] {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range []string{colCode, colQuantity, colPrice} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("sheet %q is missing column %q", sheet, name)
		}
	}

	var records []Record
	for _, row := range rows[headerRow+1:] {
		rec := Record{
			Code:     cell(row, cols[colCode]),
			Quantity: cell(row, cols[colQuantity]),
			Price:    cell(row, cols[colPrice]),
		}
		if rec.Code == "" && rec.Quantity == "" && rec.Price == "" {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// cell returns the i-th value of a row; excelize trims trailing empty cells.
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
