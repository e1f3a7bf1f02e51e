// Package pipeline runs the batch sequence: collect, load, compute,
// export, publish. Strictly linear; a run either completes with
// artifacts or reports an unrecoverable error.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Kyac99/brvm-market-analysis/internal/analysis"
	"github.com/Kyac99/brvm-market-analysis/internal/collector"
	"github.com/Kyac99/brvm-market-analysis/internal/export"
	"github.com/Kyac99/brvm-market-analysis/internal/model"
	"github.com/Kyac99/brvm-market-analysis/internal/publish"
	"github.com/Kyac99/brvm-market-analysis/internal/recorder"
	"github.com/Kyac99/brvm-market-analysis/internal/store"
)

// ErrNoData reports the total absence of usable price data.
var ErrNoData = errors.New("no usable price data")

// Pipeline holds the collaborators of one batch run.
type Pipeline struct {
	Collector    *collector.Collector
	Store        *store.Store
	Exporters    []export.Exporter
	Publisher    *publish.Publisher
	Recorder     recorder.Recorder
	RiskFreeRate float64

	// SkipCollect re-analyzes the on-disk CSVs without hitting the
	// market data sources.
	SkipCollect bool
}

// Run executes the full pipeline once.
func (p *Pipeline) Run(ctx context.Context) error {
	started := time.Now()
	summary := &recorder.RunSummary{StartedAt: started, Status: "FAILED"}
	defer func() {
		summary.FinishedAt = time.Now()
		if err := p.Recorder.RecordRun(summary); err != nil {
			log.Printf("[ERROR] record run: %v", err)
		}
	}()

	if p.SkipCollect {
		log.Println("[INFO] collection skipped, analyzing existing data")
	} else {
		report, err := p.Collector.Run(ctx)
		if report != nil {
			summary.SecuritiesTotal = report.Total
			summary.Collected = report.Collected
			summary.Skipped = report.Skipped
			p.recordCollections(report)
		}
		if err != nil {
			summary.Note = err.Error()
			return fmt.Errorf("collect: %w", err)
		}
	}

	records, sectors, series, err := p.analyze()
	if err != nil {
		summary.Note = err.Error()
		return err
	}

	for _, exporter := range p.Exporters {
		path, err := exporter.Render(records, sectors, series)
		if err != nil {
			summary.Note = err.Error()
			return fmt.Errorf("export %s: %w", exporter.Name(), err)
		}
		log.Printf("[INFO] export %s: %s", exporter.Name(), path)
	}

	published, err := p.Publisher.Publish()
	if err != nil {
		summary.Note = err.Error()
		return fmt.Errorf("publish: %w", err)
	}
	if !published {
		log.Println("[INFO] site already up to date")
	}

	summary.Status = "OK"
	summary.Note = fmt.Sprintf("%d securities analyzed", len(records))
	log.Printf("[INFO] pipeline done in %s: %d securities analyzed", time.Since(started).Round(time.Second), len(records))
	return nil
}

// analyze loads every CSV and recomputes all metrics from scratch.
func (p *Pipeline) analyze() ([]*model.MetricsRecord, []model.SectorMetrics, []*model.PriceSeries, error) {
	series, err := p.Store.LoadAll()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load data: %w", err)
	}
	if len(series) == 0 {
		return nil, nil, nil, ErrNoData
	}

	dividends, err := p.Store.ReadDividends()
	if err != nil {
		log.Printf("[WARN] read dividends: %v, continuing without", err)
		dividends = map[string]model.Dividend{}
	}
	listings, err := p.Store.ReadListings()
	if err != nil {
		log.Printf("[WARN] read listings: %v, continuing without", err)
		listings = map[string]model.Listing{}
	}
	fundamentals, err := p.Store.ReadFundamentals()
	if err != nil {
		log.Printf("[WARN] read fundamentals: %v, continuing without", err)
		fundamentals = map[string]model.Fundamentals{}
	}

	var records []*model.MetricsRecord
	for _, s := range series {
		if l, ok := listings[s.Symbol]; ok {
			s.Name = l.Name
		}
		var div *model.Dividend
		if d, ok := dividends[s.Symbol]; ok {
			div = &d
		}
		rec, err := analysis.Compute(s, div, p.RiskFreeRate)
		if err != nil {
			log.Printf("[WARN] metrics %s: %v, skipping", s.Symbol, err)
			continue
		}
		// The board's sector column beats the static fallback table.
		if l, ok := listings[s.Symbol]; ok && l.Sector != "" && rec.Sector != "Indice" {
			rec.Sector = l.Sector
		}
		if fd, ok := fundamentals[s.Symbol]; ok {
			rec.MarketCap = fd.MarketCap
			rec.PER = fd.PER
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, nil, nil, ErrNoData
	}

	// Indices are excluded from sector means; they would skew "Indice"
	// into looking like a sector of the market.
	var securities []*model.MetricsRecord
	for _, r := range records {
		if r.Sector != "Indice" {
			securities = append(securities, r)
		}
	}
	sectors := analysis.AggregateSectors(securities)

	return records, sectors, series, nil
}

func (p *Pipeline) recordCollections(report *collector.Report) {
	for _, res := range report.Results {
		evt := &recorder.CollectionEvent{Symbol: res.Symbol, Source: res.Source, Rows: res.Rows}
		if res.Err != nil {
			evt.Error = res.Err.Error()
		}
		if err := p.Recorder.RecordCollection(evt); err != nil {
			log.Printf("[ERROR] record collection %s: %v", res.Symbol, err)
		}
	}
}
