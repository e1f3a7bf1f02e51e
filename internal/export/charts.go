package export

import (
	"fmt"
	"io"
	"os"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/Kyac99/brvm-market-analysis/internal/analysis"
	"github.com/Kyac99/brvm-market-analysis/internal/model"
)

// PNG charts embedded in the PDF report.

func renderPerformanceChart(records []*model.MetricsRecord, path string) error {
	top := analysis.TopBy(records, 15, func(r *model.MetricsRecord) float64 { return r.TotalReturn })
	bars := make([]chart.Value, 0, len(top))
	for _, r := range top {
		bars = append(bars, chart.Value{Label: r.Symbol, Value: r.TotalReturn * 100})
	}

	graph := chart.BarChart{
		Title:    "Performance totale des 15 meilleures valeurs (%)",
		Width:    1200,
		Height:   600,
		BarWidth: 50,
		XAxis:    chart.Style{TextRotationDegrees: 45},
		Bars:     bars,
	}
	return renderPNG(&graph, path)
}

func renderSectorChart(sectors []model.SectorMetrics, path string) error {
	bars := make([]chart.Value, 0, len(sectors))
	for _, s := range sectors {
		bars = append(bars, chart.Value{Label: s.Sector, Value: s.AnnualizedReturn * 100})
	}

	graph := chart.BarChart{
		Title:    "Performance annualisée moyenne par secteur (%)",
		Width:    1200,
		Height:   600,
		BarWidth: 60,
		XAxis:    chart.Style{TextRotationDegrees: 45},
		Bars:     bars,
	}
	return renderPNG(&graph, path)
}

// renderIndexChart draws the composite index close over time. Returns
// false when the index series is absent from the data dir.
func renderIndexChart(series []*model.PriceSeries, symbol, path string) (bool, error) {
	var index *model.PriceSeries
	for _, s := range series {
		if s.Symbol == symbol {
			index = s
			break
		}
	}
	if index == nil || len(index.Bars) == 0 {
		return false, nil
	}

	dates := make([]time.Time, len(index.Bars))
	closes := make([]float64, len(index.Bars))
	for i, b := range index.Bars {
		dates[i] = b.Date
		closes[i] = b.Close.InexactFloat64()
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("Évolution de l'indice %s", symbol),
		Width:  1200,
		Height: 500,
		XAxis:  chart.XAxis{ValueFormatter: chart.TimeDateValueFormatter},
		Series: []chart.Series{
			chart.TimeSeries{Name: symbol, XValues: dates, YValues: closes},
		},
	}
	if err := renderPNG(&graph, path); err != nil {
		return false, err
	}
	return true, nil
}

func renderRiskReturnChart(records []*model.MetricsRecord, path string) error {
	var xs, ys []float64
	for _, r := range records {
		if r.Sector == "Indice" {
			continue
		}
		xs = append(xs, r.Volatility*100)
		ys = append(ys, r.AnnualizedReturn*100)
	}
	if len(xs) == 0 {
		return fmt.Errorf("no securities to plot")
	}

	graph := chart.Chart{
		Title:  "Risque vs Rendement des valeurs de la BRVM",
		Width:  1200,
		Height: 700,
		XAxis:  chart.XAxis{Name: "Volatilité annualisée (%)"},
		YAxis:  chart.YAxis{Name: "Rendement annualisé (%)"},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    6,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}
	return renderPNG(&graph, path)
}

type pngRenderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

func renderPNG(graph pngRenderable, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()
	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
