package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Kyac99/brvm-market-analysis/internal/model"
	"github.com/Kyac99/brvm-market-analysis/internal/store"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Label        string
	Listings     []model.Listing
	Histories    map[string][]model.Bar
	Dividends    map[string][]model.Dividend
	Fundamentals map[string]*model.Fundamentals
	Err          error
}

func (m *MockFetcher) Name() string {
	if m.Label != "" {
		return m.Label
	}
	return "mock"
}

func (m *MockFetcher) FetchListing() ([]model.Listing, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Listings, nil
}

func (m *MockFetcher) FetchHistory(symbol string) ([]model.Bar, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	bars, ok := m.Histories[symbol]
	if !ok {
		return nil, fmt.Errorf("mock: no history for %s", symbol)
	}
	return bars, nil
}

func (m *MockFetcher) FetchDividends(symbol string) ([]model.Dividend, error) {
	return m.Dividends[symbol], nil
}

func (m *MockFetcher) FetchFundamentals(symbol string) (*model.Fundamentals, error) {
	return m.Fundamentals[symbol], nil
}

// GenerateMockBars builds a deterministic daily series for tests.
func GenerateMockBars(basePrice float64, count int) []model.Bar {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := decimal.NewFromFloat(basePrice * (1 + float64(i-count/2)*0.001))
		bars[i] = model.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   p,
			High:   p,
			Low:    p,
			Close:  p,
			Volume: 1000,
		}
	}
	return bars
}

// SymbolResult is the outcome of collecting one symbol.
type SymbolResult struct {
	Symbol string
	Source string
	Rows   int
	Err    error
}

// Report summarizes one collection run.
type Report struct {
	Total        int
	Collected    int
	Skipped      int
	Results      []SymbolResult
	Dividends    int
	Fundamentals int
}

// Collector fetches the quotation board and every symbol's history, and
// writes the normalized CSVs. The secondary source backs up the primary.
type Collector struct {
	Primary   Fetcher
	Secondary Fetcher
	Store     *store.Store
	Delay     time.Duration
	Indices   []string
}

// NewCollector creates a Collector over the two market data sources.
func NewCollector(primary, secondary Fetcher, st *store.Store, delay time.Duration) *Collector {
	return &Collector{
		Primary:   primary,
		Secondary: secondary,
		Store:     st,
		Delay:     delay,
		Indices:   []string{"BRVM-Composite", "BRVM-30"},
	}
}

// Run collects everything. A fetch failure for one symbol is logged and
// skipped; only a failure to obtain the listing from either source aborts.
func (c *Collector) Run(ctx context.Context) (*Report, error) {
	listings, err := c.fetchListing()
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] quotation board: %d securities", len(listings))

	for _, idx := range c.Indices {
		listings = append(listings, model.Listing{Symbol: idx, Name: idx})
	}

	if err := c.Store.WriteListings(listings); err != nil {
		return nil, fmt.Errorf("write listings: %w", err)
	}

	report := &Report{Total: len(listings)}
	var dividends []model.Dividend
	var fundamentals []model.Fundamentals

	for i, listing := range listings {
		if i > 0 {
			if err := c.pause(ctx); err != nil {
				return report, err
			}
		}

		res := c.collectSymbol(listing.Symbol)
		report.Results = append(report.Results, res)
		if res.Err != nil {
			log.Printf("[WARN] collect %s: %v, skipping", listing.Symbol, res.Err)
			report.Skipped++
			continue
		}
		log.Printf("[INFO] collected %s: %d rows from %s", listing.Symbol, res.Rows, res.Source)
		report.Collected++

		// Indices have no company page.
		if strings.HasPrefix(listing.Symbol, "BRVM") {
			continue
		}
		dividends = append(dividends, c.fetchDividends(listing.Symbol)...)
		if fund := c.fetchFundamentals(listing.Symbol); fund != nil {
			fundamentals = append(fundamentals, *fund)
		}
	}

	if len(dividends) > 0 {
		if err := c.Store.WriteDividends(dividends); err != nil {
			return report, fmt.Errorf("write dividends: %w", err)
		}
		report.Dividends = len(dividends)
	}
	if len(fundamentals) > 0 {
		if err := c.Store.WriteFundamentals(fundamentals); err != nil {
			return report, fmt.Errorf("write fundamentals: %w", err)
		}
		report.Fundamentals = len(fundamentals)
	}

	if report.Collected == 0 {
		return report, errors.New("no symbol could be collected")
	}
	return report, nil
}

func (c *Collector) fetchListing() ([]model.Listing, error) {
	listings, err := c.Primary.FetchListing()
	if err == nil {
		return listings, nil
	}
	log.Printf("[WARN] listing via %s: %v, trying %s", c.Primary.Name(), err, c.Secondary.Name())
	listings, err2 := c.Secondary.FetchListing()
	if err2 != nil {
		return nil, fmt.Errorf("listing failed on both sources: %w; %w", err, err2)
	}
	return listings, nil
}

// fetchDividends tries the primary source, then the secondary. Dividend
// data is best effort; failures are logged, never fatal.
func (c *Collector) fetchDividends(symbol string) []model.Dividend {
	divs, err := c.Primary.FetchDividends(symbol)
	if err != nil {
		log.Printf("[WARN] dividends %s via %s: %v", symbol, c.Primary.Name(), err)
	}
	if len(divs) > 0 {
		return divs
	}
	divs, err = c.Secondary.FetchDividends(symbol)
	if err != nil {
		log.Printf("[WARN] dividends %s via %s: %v", symbol, c.Secondary.Name(), err)
		return nil
	}
	return divs
}

// fetchFundamentals mirrors fetchDividends for the company-page figures.
func (c *Collector) fetchFundamentals(symbol string) *model.Fundamentals {
	fund, err := c.Primary.FetchFundamentals(symbol)
	if err != nil {
		log.Printf("[WARN] fundamentals %s via %s: %v", symbol, c.Primary.Name(), err)
	}
	if fund != nil {
		return fund
	}
	fund, err = c.Secondary.FetchFundamentals(symbol)
	if err != nil {
		log.Printf("[WARN] fundamentals %s via %s: %v", symbol, c.Secondary.Name(), err)
		return nil
	}
	return fund
}

// collectSymbol fetches one symbol's history, primary source first, and
// writes its CSV.
func (c *Collector) collectSymbol(symbol string) SymbolResult {
	res := SymbolResult{Symbol: symbol, Source: c.Primary.Name()}

	bars, err := c.Primary.FetchHistory(symbol)
	if err != nil {
		bars, res.Err = c.Secondary.FetchHistory(symbol)
		if res.Err != nil {
			res.Err = fmt.Errorf("%s: %w; %s: %w", c.Primary.Name(), err, c.Secondary.Name(), res.Err)
			return res
		}
		res.Source = c.Secondary.Name()
	}

	if err := c.Store.WriteSeries(symbol, bars); err != nil {
		res.Err = fmt.Errorf("write csv: %w", err)
		return res
	}
	res.Rows = len(bars)
	return res
}

func (c *Collector) pause(ctx context.Context) error {
	if c.Delay <= 0 {
		return nil
	}
	select {
	case <-time.After(c.Delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
