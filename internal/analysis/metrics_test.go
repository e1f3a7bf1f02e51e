package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/Kyac99/brvm-market-analysis/internal/model"

	"github.com/shopspring/decimal"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTotalReturn(t *testing.T) {
	got, err := TotalReturn([]float64{100, 110, 90, 120})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, 0.20) {
		t.Errorf("expected total return 0.20, got %.6f", got)
	}
}

func TestTotalReturn_NotEnoughData(t *testing.T) {
	if _, err := TotalReturn([]float64{100}); err != ErrNotEnoughData {
		t.Errorf("expected ErrNotEnoughData, got %v", err)
	}
	if _, err := TotalReturn(nil); err != ErrNotEnoughData {
		t.Errorf("expected ErrNotEnoughData, got %v", err)
	}
}

func TestTotalReturn_ZeroFirstPrice(t *testing.T) {
	if _, err := TotalReturn([]float64{0, 100}); err == nil {
		t.Error("expected error for zero first price")
	}
}

func TestAnnualizedReturn_OneYearSpan(t *testing.T) {
	// Over exactly 365 calendar days, annualized equals total.
	got, err := AnnualizedReturn(0.20, 365)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, 0.20) {
		t.Errorf("expected 0.20 over a 365-day span, got %.6f", got)
	}
}

func TestAnnualizedReturn_TwoYearSpan(t *testing.T) {
	// 44% over two years compounds back to ~20%/year.
	got, err := AnnualizedReturn(0.44, 730)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-0.20) > 1e-6 {
		t.Errorf("expected ~0.20, got %.6f", got)
	}
}

func TestAnnualizedReturn_InvalidSpan(t *testing.T) {
	if _, err := AnnualizedReturn(0.20, 0); err == nil {
		t.Error("expected error for zero-day span")
	}
}

func TestDailyReturns(t *testing.T) {
	got := DailyReturns([]float64{100, 110, 99})
	if len(got) != 2 {
		t.Fatalf("expected 2 returns, got %d", len(got))
	}
	if !almostEqual(got[0], 0.10) {
		t.Errorf("expected first return 0.10, got %.6f", got[0])
	}
	if !almostEqual(got[1], -0.10) {
		t.Errorf("expected second return -0.10, got %.6f", got[1])
	}
}

func TestVolatility_ConstantSeries(t *testing.T) {
	if v := Volatility([]float64{0, 0, 0, 0}); v != 0 {
		t.Errorf("expected zero volatility for flat returns, got %.6f", v)
	}
	if v := Volatility([]float64{0.01}); v != 0 {
		t.Errorf("expected zero volatility for a single return, got %.6f", v)
	}
}

func TestVolatility_Annualization(t *testing.T) {
	// Sample stddev of {+1%, -1%} is sqrt(2)*0.01; annualized by sqrt(252).
	got := Volatility([]float64{0.01, -0.01})
	want := math.Sqrt2 * 0.01 * math.Sqrt(252)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %.6f, got %.6f", want, got)
	}
}

func TestSharpeRatio(t *testing.T) {
	if got := SharpeRatio(0.15, 0.10, 0.03); !almostEqual(got, 1.2) {
		t.Errorf("expected sharpe 1.2, got %.6f", got)
	}
	if got := SharpeRatio(0.15, 0, 0.03); got != 0 {
		t.Errorf("expected 0 for zero volatility, got %.6f", got)
	}
}

func TestMaxDrawdown(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		want   float64
	}{
		{"mid-series dip", []float64{100, 110, 90, 120}, 90.0/110.0 - 1},
		{"non-decreasing", []float64{100, 100, 110, 120}, 0},
		{"monotonic fall", []float64{100, 80, 60}, -0.4},
		{"empty", nil, 0},
	}
	for _, tt := range tests {
		got := MaxDrawdown(tt.closes)
		if !almostEqual(got, tt.want) {
			t.Errorf("%s: expected %.6f, got %.6f", tt.name, tt.want, got)
		}
		if got > 0 {
			t.Errorf("%s: drawdown must never be positive, got %.6f", tt.name, got)
		}
	}
}

func seriesFromCloses(symbol string, start time.Time, closes []float64) *model.PriceSeries {
	s := &model.PriceSeries{Symbol: symbol, Name: symbol}
	for i, c := range closes {
		price := decimal.NewFromFloat(c)
		s.Bars = append(s.Bars, model.Bar{
			Date:  start.AddDate(0, 0, i),
			Open:  price,
			High:  price,
			Low:   price,
			Close: price,
		})
	}
	return s
}

func TestCompute(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := seriesFromCloses("SGBCI", start, []float64{100, 110, 90, 120})

	rec, err := Compute(series, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(rec.TotalReturn, 0.20) {
		t.Errorf("expected total return 0.20, got %.6f", rec.TotalReturn)
	}
	if !almostEqual(rec.MaxDrawdown, 90.0/110.0-1) {
		t.Errorf("expected drawdown %.6f, got %.6f", 90.0/110.0-1, rec.MaxDrawdown)
	}
	if rec.Days != 3 {
		t.Errorf("expected 3-day span, got %d", rec.Days)
	}
	if rec.Sector != "Banque" {
		t.Errorf("expected sector Banque for SGBCI, got %q", rec.Sector)
	}
	if rec.HasDividend {
		t.Error("expected no dividend")
	}
}

func TestCompute_WithDividend(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := seriesFromCloses("SGBCI", start, []float64{100, 120})
	div := &model.Dividend{Symbol: "SGBCI", Year: 2023, Amount: decimal.NewFromInt(6)}

	rec, err := Compute(series, div, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rec.HasDividend {
		t.Fatal("expected dividend flag")
	}
	if !almostEqual(rec.DividendYield, 0.05) {
		t.Errorf("expected yield 0.05, got %.6f", rec.DividendYield)
	}
}

func TestCompute_NotEnoughData(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := seriesFromCloses("SGBCI", start, []float64{100})
	if _, err := Compute(series, nil, 0); err == nil {
		t.Error("expected error for a single-point series")
	}
}

func TestAggregateSectors(t *testing.T) {
	records := []*model.MetricsRecord{
		{Symbol: "SGBCI", Sector: "Banque", TotalReturn: 0.10, AnnualizedReturn: 0.10},
		{Symbol: "BOAB", Sector: "Banque", TotalReturn: 0.30, AnnualizedReturn: 0.30},
		{Symbol: "PALC", Sector: "Agro-industrie", TotalReturn: 0.50, AnnualizedReturn: 0.50},
	}
	sectors := AggregateSectors(records)
	if len(sectors) != 2 {
		t.Fatalf("expected 2 sectors, got %d", len(sectors))
	}
	// Sorted best first.
	if sectors[0].Sector != "Agro-industrie" {
		t.Errorf("expected Agro-industrie first, got %q", sectors[0].Sector)
	}
	var banque model.SectorMetrics
	for _, s := range sectors {
		if s.Sector == "Banque" {
			banque = s
		}
	}
	if banque.Count != 2 {
		t.Fatalf("expected 2 members in Banque, got %d", banque.Count)
	}
	if !almostEqual(banque.TotalReturn, 0.20) {
		t.Errorf("expected mean total return 0.20, got %.6f", banque.TotalReturn)
	}
}

func TestTopBy(t *testing.T) {
	records := []*model.MetricsRecord{
		{Symbol: "A", TotalReturn: 0.1},
		{Symbol: "B", TotalReturn: 0.5},
		{Symbol: "C", TotalReturn: 0.3},
	}
	top := TopBy(records, 2, func(r *model.MetricsRecord) float64 { return r.TotalReturn })
	if len(top) != 2 {
		t.Fatalf("expected 2 records, got %d", len(top))
	}
	if top[0].Symbol != "B" || top[1].Symbol != "C" {
		t.Errorf("expected B,C order, got %s,%s", top[0].Symbol, top[1].Symbol)
	}
	// Input order untouched.
	if records[0].Symbol != "A" {
		t.Error("TopBy must not reorder its input")
	}
}
