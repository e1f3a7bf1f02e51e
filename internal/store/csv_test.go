package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Kyac99/brvm-market-analysis/internal/model"

	"github.com/shopspring/decimal"
)

func sampleBars() []model.Bar {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	price := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	return []model.Bar{
		{Date: day(4), Open: price("1500"), High: price("1520"), Low: price("1495"), Close: price("1510"), Volume: 1200},
		{Date: day(5), Open: price("1510"), High: price("1550.5"), Low: price("1500"), Close: price("1545.5"), Volume: 800},
		{Date: day(6), Open: price("1545.5"), High: price("1560"), Low: price("1530"), Close: price("1532"), Volume: 430},
	}
}

func TestWriteReadSeries_RoundTrip(t *testing.T) {
	s := New(t.TempDir())
	bars := sampleBars()

	if err := s.WriteSeries("SNTS", bars); err != nil {
		t.Fatalf("write: %v", err)
	}
	series, err := s.ReadSeries("SNTS")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if series.Symbol != "SNTS" {
		t.Errorf("expected symbol SNTS, got %q", series.Symbol)
	}
	if len(series.Bars) != len(bars) {
		t.Fatalf("expected %d bars, got %d", len(bars), len(series.Bars))
	}
	for i, b := range series.Bars {
		want := bars[i]
		if !b.Date.Equal(want.Date) {
			t.Errorf("bar %d: expected date %s, got %s", i, want.Date, b.Date)
		}
		if !b.Close.Equal(want.Close) {
			t.Errorf("bar %d: expected close %s, got %s", i, want.Close, b.Close)
		}
		if b.Volume != want.Volume {
			t.Errorf("bar %d: expected volume %d, got %d", i, want.Volume, b.Volume)
		}
	}
}

func TestWriteSeries_Idempotent(t *testing.T) {
	s := New(t.TempDir())
	bars := sampleBars()

	if err := s.WriteSeries("SNTS", bars); err != nil {
		t.Fatalf("first write: %v", err)
	}
	first, err := os.ReadFile(s.SeriesPath("SNTS"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if err := s.WriteSeries("SNTS", bars); err != nil {
		t.Fatalf("second write: %v", err)
	}
	second, err := os.ReadFile(s.SeriesPath("SNTS"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(first) != string(second) {
		t.Error("rewriting identical bars must produce byte-identical output")
	}
}

func TestWriteSeries_SortsByDate(t *testing.T) {
	s := New(t.TempDir())
	bars := sampleBars()
	// Shuffle: last first.
	shuffled := []model.Bar{bars[2], bars[0], bars[1]}

	if err := s.WriteSeries("SNTS", shuffled); err != nil {
		t.Fatalf("write: %v", err)
	}
	series, err := s.ReadSeries("SNTS")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for i := 1; i < len(series.Bars); i++ {
		if !series.Bars[i-1].Date.Before(series.Bars[i].Date) {
			t.Fatalf("bars not in ascending date order at index %d", i)
		}
	}
}

func TestSeriesPath_SanitizesSymbol(t *testing.T) {
	s := New("data")
	got := s.SeriesPath("BRVM/COMP")
	if filepath.Dir(got) != "data" {
		t.Errorf("expected file directly under data dir, got %q", got)
	}
	if filepath.Base(got) != "BRVM-COMP_historical.csv" {
		t.Errorf("unexpected file name %q", filepath.Base(got))
	}
}

func TestLoadAll_SkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)

	if err := s.WriteSeries("SNTS", sampleBars()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.WriteSeries("BICC", sampleBars()); err != nil {
		t.Fatalf("write: %v", err)
	}
	corrupt := filepath.Join(dir, "BAD_historical.csv")
	if err := os.WriteFile(corrupt, []byte("date,open\nnot-a-date,x\n"), 0644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	all, err := s.LoadAll()
	if err != nil {
		t.Fatalf("load all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 series, got %d", len(all))
	}
	// Glob order is sorted, so BICC comes first.
	if all[0].Symbol != "BICC" || all[1].Symbol != "SNTS" {
		t.Errorf("unexpected symbols %s, %s", all[0].Symbol, all[1].Symbol)
	}
}

func TestLoadAll_EmptyDir(t *testing.T) {
	s := New(t.TempDir())
	all, err := s.LoadAll()
	if err != nil {
		t.Fatalf("load all: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected no series, got %d", len(all))
	}
}

func TestDividends_RoundTrip(t *testing.T) {
	s := New(t.TempDir())
	dividends := []model.Dividend{
		{Symbol: "SNTS", Year: 2022, Amount: decimal.RequireFromString("1150")},
		{Symbol: "SNTS", Year: 2023, Amount: decimal.RequireFromString("1288.5")},
		{Symbol: "SGBCI", Year: 2023, Amount: decimal.RequireFromString("310")},
	}
	if err := s.WriteDividends(dividends); err != nil {
		t.Fatalf("write: %v", err)
	}
	latest, err := s.ReadDividends()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(latest) != 2 {
		t.Fatalf("expected 2 symbols, got %d", len(latest))
	}
	snts, ok := latest["SNTS"]
	if !ok {
		t.Fatal("missing SNTS")
	}
	if snts.Year != 2023 {
		t.Errorf("expected latest year 2023, got %d", snts.Year)
	}
	if !snts.Amount.Equal(decimal.RequireFromString("1288.5")) {
		t.Errorf("expected amount 1288.5, got %s", snts.Amount)
	}
}

func TestListings_RoundTrip(t *testing.T) {
	s := New(t.TempDir())
	listings := []model.Listing{
		{Symbol: "SNTS", Name: "SONATEL", Sector: "Services publics"},
		{Symbol: "BRVM-Composite", Name: "BRVM-Composite"},
	}
	if err := s.WriteListings(listings); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := s.ReadListings()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(got))
	}
	if got["SNTS"].Sector != "Services publics" {
		t.Errorf("unexpected sector %q", got["SNTS"].Sector)
	}
	if got["BRVM-Composite"].Sector != "" {
		t.Errorf("expected empty sector for the index, got %q", got["BRVM-Composite"].Sector)
	}
}

func TestReadListings_MissingFile(t *testing.T) {
	s := New(t.TempDir())
	got, err := s.ReadListings()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty map, got %d entries", len(got))
	}
}

func TestReadDividends_MissingFile(t *testing.T) {
	s := New(t.TempDir())
	latest, err := s.ReadDividends()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(latest) != 0 {
		t.Errorf("expected empty map, got %d entries", len(latest))
	}
}

func TestFundamentals_RoundTrip(t *testing.T) {
	s := New(t.TempDir())
	in := []model.Fundamentals{
		{Symbol: "SNTS", MarketCap: 1.55e12, PER: 12.5},
		{Symbol: "BICC", MarketCap: 9.8e10, PER: 8.2},
	}
	if err := s.WriteFundamentals(in); err != nil {
		t.Fatalf("write fundamentals: %v", err)
	}

	got, err := s.ReadFundamentals()
	if err != nil {
		t.Fatalf("read fundamentals: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if fd := got["SNTS"]; fd.MarketCap != 1.55e12 || fd.PER != 12.5 {
		t.Errorf("unexpected figures for SNTS: %+v", fd)
	}
	if fd := got["BICC"]; fd.MarketCap != 9.8e10 || fd.PER != 8.2 {
		t.Errorf("unexpected figures for BICC: %+v", fd)
	}
}

func TestReadFundamentals_MissingFile(t *testing.T) {
	s := New(t.TempDir())
	got, err := s.ReadFundamentals()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty map, got %d entries", len(got))
	}
}
