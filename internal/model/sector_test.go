package model

import (
	"testing"
	"time"
)

func TestSectorOf(t *testing.T) {
	tests := []struct {
		symbol string
		want   string
	}{
		{"SGBCI", "Banque"},
		{"SONATEL", "Services publics"},
		{"PALC", "Agro-industrie"},
		{"BRVM-Composite", "Indice"},
		{"BRVM-30", "Indice"},
		{"XYZ", "Autres"},
	}
	for _, tt := range tests {
		if got := SectorOf(tt.symbol); got != tt.want {
			t.Errorf("SectorOf(%q): expected %q, got %q", tt.symbol, tt.want, got)
		}
	}
}

func TestPriceSeries_IsIndex(t *testing.T) {
	if !(&PriceSeries{Symbol: "BRVM-Composite"}).IsIndex() {
		t.Error("BRVM-Composite should be an index")
	}
	if (&PriceSeries{Symbol: "SONATEL"}).IsIndex() {
		t.Error("SONATEL should not be an index")
	}
}

func TestPriceSeries_Span(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	s := &PriceSeries{Bars: []Bar{{Date: day(1)}, {Date: day(15)}, {Date: day(31)}}}
	if got := s.Span(); got != 30 {
		t.Errorf("expected span 30, got %d", got)
	}
	if got := (&PriceSeries{Bars: []Bar{{Date: day(1)}}}).Span(); got != 0 {
		t.Errorf("expected span 0 for a single bar, got %d", got)
	}
}
