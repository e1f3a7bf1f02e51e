package collector

import (
	"github.com/Kyac99/brvm-market-analysis/internal/model"
)

// Fetcher defines the interface for one market data source.
type Fetcher interface {
	// FetchListing returns the exchange's quotation board.
	FetchListing() ([]model.Listing, error)
	// FetchHistory returns the full daily price history for one symbol,
	// oldest first.
	FetchHistory(symbol string) ([]model.Bar, error)
	// FetchDividends returns declared dividends per share by year.
	// Sources without dividend data return nil.
	FetchDividends(symbol string) ([]model.Dividend, error)
	// FetchFundamentals returns company-page figures (market cap, PER).
	// Sources without them return nil.
	FetchFundamentals(symbol string) (*model.Fundamentals, error)
	Name() string
}
