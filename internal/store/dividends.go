package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/Kyac99/brvm-market-analysis/internal/model"
)

const dividendsFile = "dividends.csv"

// WriteDividends overwrites the dividend sidecar with one row per declared
// dividend, sorted by symbol then year for stable output.
func (s *Store) WriteDividends(dividends []model.Dividend) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	sorted := make([]model.Dividend, len(dividends))
	copy(sorted, dividends)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Symbol != sorted[j].Symbol {
			return sorted[i].Symbol < sorted[j].Symbol
		}
		return sorted[i].Year < sorted[j].Year
	})

	f, err := os.Create(filepath.Join(s.Dir, dividendsFile))
	if err != nil {
		return fmt.Errorf("create dividends csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"symbol", "year", "dividend"}); err != nil {
		return err
	}
	for _, d := range sorted {
		if err := w.Write([]string{d.Symbol, strconv.Itoa(d.Year), d.Amount.String()}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ReadDividends returns the latest declared dividend per symbol.
// A missing sidecar is not an error: dividend data is optional.
func (s *Store) ReadDividends() (map[string]model.Dividend, error) {
	f, err := os.Open(filepath.Join(s.Dir, dividendsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]model.Dividend{}, nil
		}
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dividends csv: %w", err)
	}

	latest := make(map[string]model.Dividend)
	for i, row := range rows {
		if i == 0 || len(row) != 3 {
			continue
		}
		year, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: parse year %q: %w", i+1, row[1], err)
		}
		amount, err := decimal.NewFromString(row[2])
		if err != nil {
			return nil, fmt.Errorf("row %d: parse dividend %q: %w", i+1, row[2], err)
		}
		d := model.Dividend{Symbol: row[0], Year: year, Amount: amount}
		if prev, ok := latest[d.Symbol]; !ok || d.Year > prev.Year {
			latest[d.Symbol] = d
		}
	}
	return latest, nil
}
