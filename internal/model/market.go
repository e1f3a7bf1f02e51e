package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Bar represents a single daily quotation row.
type Bar struct {
	Date   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume int64
}

// PriceSeries holds the full quotation history of one security or index,
// ordered by ascending date.
type PriceSeries struct {
	Symbol    string
	Name      string
	Bars      []Bar
	FetchedAt time.Time
}

// Listing is one row of the exchange's quotation board.
type Listing struct {
	Symbol string
	Name   string
	Sector string
}

// Dividend is the latest declared dividend per share for a security.
type Dividend struct {
	Symbol string
	Year   int
	Amount decimal.Decimal
}

// Fundamentals carries the company-page figures that have no price
// history: market capitalization (FCFA) and the price/earnings ratio.
// A zero field means the source did not publish the figure.
type Fundamentals struct {
	Symbol    string
	MarketCap float64
	PER       float64
}

// IsIndex reports whether the symbol names a market composite rather
// than a single security.
func (s *PriceSeries) IsIndex() bool { return strings.HasPrefix(s.Symbol, "BRVM") }

// Closes returns the close prices as floats, in series order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close.InexactFloat64()
	}
	return closes
}

// Span returns the number of calendar days between the first and last bar.
func (s *PriceSeries) Span() int {
	if len(s.Bars) < 2 {
		return 0
	}
	first := s.Bars[0].Date
	last := s.Bars[len(s.Bars)-1].Date
	return int(last.Sub(first).Hours() / 24)
}
