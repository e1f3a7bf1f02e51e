package store

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Kyac99/brvm-market-analysis/internal/model"
)

const dateLayout = "2006-01-02"

var header = []string{"date", "open", "high", "low", "close", "volume"}

// Store reads and writes per-symbol quotation CSVs under a data directory.
type Store struct {
	Dir string
}

func New(dir string) *Store { return &Store{Dir: dir} }

// SeriesPath returns the CSV path for a symbol. Slashes in symbols are
// replaced so every file lands directly under the data dir.
func (s *Store) SeriesPath(symbol string) string {
	return filepath.Join(s.Dir, strings.ReplaceAll(symbol, "/", "-")+"_historical.csv")
}

// WriteSeries overwrites the CSV for one symbol with the given bars,
// sorted by ascending date. Writing the same bars twice produces
// byte-identical output.
func (s *Store) WriteSeries(symbol string, bars []model.Bar) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	sorted := make([]model.Bar, len(bars))
	copy(sorted, bars)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	f, err := os.Create(s.SeriesPath(symbol))
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, b := range sorted {
		if err := w.Write([]string{
			b.Date.Format(dateLayout),
			b.Open.String(),
			b.High.String(),
			b.Low.String(),
			b.Close.String(),
			strconv.FormatInt(b.Volume, 10),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ReadSeries loads one symbol's CSV into a PriceSeries.
func (s *Store) ReadSeries(symbol string) (*model.PriceSeries, error) {
	return readSeriesFile(s.SeriesPath(symbol))
}

// LoadAll reads every quotation CSV under the data dir. A corrupt file is
// logged and skipped; it does not abort the load for other symbols.
func (s *Store) LoadAll() ([]*model.PriceSeries, error) {
	paths, err := filepath.Glob(filepath.Join(s.Dir, "*_historical.csv"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var all []*model.PriceSeries
	for _, p := range paths {
		series, err := readSeriesFile(p)
		if err != nil {
			log.Printf("[WARN] load %s: %v, skipping", p, err)
			continue
		}
		all = append(all, series)
	}
	return all, nil
}

func readSeriesFile(path string) (*model.PriceSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty csv")
	}

	symbol := strings.TrimSuffix(filepath.Base(path), "_historical.csv")
	series := &model.PriceSeries{Symbol: symbol}

	for i, row := range rows[1:] {
		bar, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		series.Bars = append(series.Bars, bar)
	}
	sort.Slice(series.Bars, func(i, j int) bool {
		return series.Bars[i].Date.Before(series.Bars[j].Date)
	})
	return series, nil
}

func parseRow(row []string) (model.Bar, error) {
	if len(row) != len(header) {
		return model.Bar{}, fmt.Errorf("expected %d columns, got %d", len(header), len(row))
	}
	date, err := time.Parse(dateLayout, row[0])
	if err != nil {
		return model.Bar{}, fmt.Errorf("parse date %q: %w", row[0], err)
	}
	prices := make([]decimal.Decimal, 4)
	for i, v := range row[1:5] {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return model.Bar{}, fmt.Errorf("parse %s %q: %w", header[i+1], v, err)
		}
		prices[i] = d
	}
	volume, err := strconv.ParseInt(row[5], 10, 64)
	if err != nil {
		return model.Bar{}, fmt.Errorf("parse volume %q: %w", row[5], err)
	}
	return model.Bar{
		Date:   date,
		Open:   prices[0],
		High:   prices[1],
		Low:    prices[2],
		Close:  prices[3],
		Volume: volume,
	}, nil
}
