package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Kyac99/brvm-market-analysis/internal/model"
)

const listingsFile = "listings.csv"

// WriteListings overwrites the quotation-board sidecar, sorted by symbol.
// It keeps the board's names and sectors next to the per-symbol CSVs.
func (s *Store) WriteListings(listings []model.Listing) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	sorted := make([]model.Listing, len(listings))
	copy(sorted, listings)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Symbol < sorted[j].Symbol })

	f, err := os.Create(filepath.Join(s.Dir, listingsFile))
	if err != nil {
		return fmt.Errorf("create listings csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"symbol", "name", "sector"}); err != nil {
		return err
	}
	for _, l := range sorted {
		if err := w.Write([]string{l.Symbol, l.Name, l.Sector}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ReadListings loads the quotation-board sidecar keyed by symbol.
// A missing sidecar is not an error: the sector table covers classification.
func (s *Store) ReadListings() (map[string]model.Listing, error) {
	f, err := os.Open(filepath.Join(s.Dir, listingsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]model.Listing{}, nil
		}
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read listings csv: %w", err)
	}

	listings := make(map[string]model.Listing)
	for i, row := range rows {
		if i == 0 || len(row) != 3 {
			continue
		}
		listings[row[0]] = model.Listing{Symbol: row[0], Name: row[1], Sector: row[2]}
	}
	return listings, nil
}
