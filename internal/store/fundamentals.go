package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/Kyac99/brvm-market-analysis/internal/model"
)

const fundamentalsFile = "fundamentals.csv"

// WriteFundamentals overwrites the company-figure sidecar, sorted by
// symbol for stable output.
func (s *Store) WriteFundamentals(fundamentals []model.Fundamentals) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	sorted := make([]model.Fundamentals, len(fundamentals))
	copy(sorted, fundamentals)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Symbol < sorted[j].Symbol })

	f, err := os.Create(filepath.Join(s.Dir, fundamentalsFile))
	if err != nil {
		return fmt.Errorf("create fundamentals csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"symbol", "market_cap", "per"}); err != nil {
		return err
	}
	for _, fd := range sorted {
		if err := w.Write([]string{
			fd.Symbol,
			strconv.FormatFloat(fd.MarketCap, 'f', -1, 64),
			strconv.FormatFloat(fd.PER, 'f', -1, 64),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ReadFundamentals loads the company-figure sidecar keyed by symbol.
// A missing sidecar is not an error: the figures are optional.
func (s *Store) ReadFundamentals() (map[string]model.Fundamentals, error) {
	f, err := os.Open(filepath.Join(s.Dir, fundamentalsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]model.Fundamentals{}, nil
		}
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read fundamentals csv: %w", err)
	}

	fundamentals := make(map[string]model.Fundamentals)
	for i, row := range rows {
		if i == 0 || len(row) != 3 {
			continue
		}
		marketCap, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: parse market cap %q: %w", i+1, row[1], err)
		}
		per, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: parse per %q: %w", i+1, row[2], err)
		}
		fundamentals[row[0]] = model.Fundamentals{Symbol: row[0], MarketCap: marketCap, PER: per}
	}
	return fundamentals, nil
}
