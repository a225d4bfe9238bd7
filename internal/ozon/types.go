package ozon

// ProductFilter narrows the product listing. Visibility "ALL" returns every
// listing regardless of state.
type ProductFilter struct {
	Visibility string `json:"visibility"`
}

type productListRequest struct {
	Filter ProductFilter `json:"filter"`
	LastID string        `json:"last_id"`
	Limit  int           `json:"limit"`
}

// ProductListItem is a single catalog entry returned by /v2/product/list.
type ProductListItem struct {
	ProductID int64  `json:"product_id"`
	OfferID   string `json:"offer_id"`
}

// ProductListResult is one page of the seller's catalog.
type ProductListResult struct {
	Items  []ProductListItem `json:"items"`
	Total  int               `json:"total"`
	LastID string            `json:"last_id"`
}

type productListResponse struct {
	Result ProductListResult `json:"result"`
}

// PriceUpdate is one entry of a /v1/product/import/prices payload.
type PriceUpdate struct {
	AutoActionEnabled string `json:"auto_action_enabled"`
	CurrencyCode      string `json:"currency_code"`
	OfferID           string `json:"offer_id"`
	OldPrice          string `json:"old_price"`
	Price             string `json:"price"`
}

// StockUpdate is one entry of a /v1/product/import/stocks payload.
type StockUpdate struct {
	OfferID string `json:"offer_id"`
	Stock   int    `json:"stock"`
}

type importPricesRequest struct {
	Prices []PriceUpdate `json:"prices"`
}

type importStocksRequest struct {
	Stocks []StockUpdate `json:"stocks"`
}

// ImportError describes a per-item rejection inside an otherwise accepted
// import call.
type ImportError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ImportStatus is the per-item outcome of a price or stock import.
type ImportStatus struct {
	ProductID int64         `json:"product_id"`
	OfferID   string        `json:"offer_id"`
	Updated   bool          `json:"updated"`
	Errors    []ImportError `json:"errors,omitempty"`
}

// ImportResult is the response of both import endpoints.
type ImportResult struct {
	Result []ImportStatus `json:"result"`
}
