package model

import "time"

// MetricsRecord holds the performance metrics of one security or index,
// recomputed from its full price history on every run.
type MetricsRecord struct {
	Symbol string
	Name   string
	Sector string

	StartDate time.Time
	EndDate   time.Time
	Days      int

	FirstPrice float64
	LastPrice  float64

	// Return figures are fractions (0.20 = +20%), formatted as percent
	// only at render time.
	TotalReturn      float64
	AnnualizedReturn float64
	Volatility       float64
	SharpeRatio      float64
	MaxDrawdown      float64

	DividendYield float64
	HasDividend   bool

	// Company-page figures, zero when the source carries none.
	MarketCap float64
	PER       float64
}

// SectorMetrics aggregates the arithmetic mean of each metric over the
// securities of one sector.
type SectorMetrics struct {
	Sector string
	Count  int

	TotalReturn      float64
	AnnualizedReturn float64
	Volatility       float64
	SharpeRatio      float64
	MaxDrawdown      float64
}
