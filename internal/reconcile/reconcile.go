// Package reconcile derives marketplace updates from the stock feed.
// All functions are pure: they never modify their inputs and produce the
// same output for the same input.
package reconcile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lukman83/ozon-sync/internal/feed"
	"github.com/lukman83/ozon-sync/internal/ozon"
)

const (
	// overstockedQuantity is the feed's marker for "more than ten in stock".
	overstockedQuantity = ">10"
	overstockedLevel    = 100

	currencyRUB = "RUB"
)

// Stocks builds one stock update per known offer ID. Feed records with a
// matching code come first, in feed order; every remaining offer ID gets a
// zero stock, in catalog order. Records whose code is unknown are ignored,
// and only the first record per code counts.
func Stocks(records []feed.Record, offerIDs []string) ([]ozon.StockUpdate, error) {
	known := make(map[string]bool, len(offerIDs))
	for _, id := range offerIDs {
		known[id] = true
	}

	matched := make(map[string]bool, len(records))
	stocks := make([]ozon.StockUpdate, 0, len(offerIDs))
	for _, rec := range records {
		if !known[rec.Code] || matched[rec.Code] {
			continue
		}
		stock, err := parseQuantity(rec.Quantity)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", rec.Code, err)
		}
		stocks = append(stocks, ozon.StockUpdate{OfferID: rec.Code, Stock: stock})
		matched[rec.Code] = true
	}

	for _, id := range offerIDs {
		if !matched[id] {
			stocks = append(stocks, ozon.StockUpdate{OfferID: id, Stock: 0})
		}
	}
	return stocks, nil
}

// parseQuantity maps the feed's free-text quantity to a stock level.
func parseQuantity(quantity string) (int, error) {
	switch quantity {
	case overstockedQuantity:
		return overstockedLevel, nil
	case "1":
		// A single remaining unit is listed as out of stock; the last piece
		// stays reserved for the offline store.
		return 0, nil
	default:
		n, err := strconv.Atoi(quantity)
		if err != nil {
			return 0, fmt.Errorf("parse quantity %q: %w", quantity, err)
		}
		return n, nil
	}
}

// Prices builds one price update per feed record whose code is a known offer
// ID. Unmatched records contribute nothing.
func Prices(records []feed.Record, offerIDs []string) []ozon.PriceUpdate {
	known := make(map[string]bool, len(offerIDs))
	for _, id := range offerIDs {
		known[id] = true
	}

	var prices []ozon.PriceUpdate
	for _, rec := range records {
		if !known[rec.Code] {
			continue
		}
		prices = append(prices, ozon.PriceUpdate{
			AutoActionEnabled: "UNKNOWN",
			CurrencyCode:      currencyRUB,
			OfferID:           rec.Code,
			OldPrice:          "0",
			Price:             ConvertPrice(rec.Price),
		})
	}
	return prices
}

// ConvertPrice normalizes a human-formatted price to a digits-only string:
// the fractional part and everything that is not a digit are dropped.
//
//	ConvertPrice("5'990.00 руб.") == "5990"
func ConvertPrice(price string) string {
	whole, _, _ := strings.Cut(price, ".")
	var b strings.Builder
	for _, r := range whole {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
