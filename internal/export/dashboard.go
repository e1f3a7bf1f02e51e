package export

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/render"

	"github.com/Kyac99/brvm-market-analysis/internal/analysis"
	"github.com/Kyac99/brvm-market-analysis/internal/model"
)

// DashboardExporter writes the interactive HTML dashboard: a ranked
// metrics table plus echarts snippets, the shape GitHub Pages serves.
type DashboardExporter struct {
	Dir string
	Now func() time.Time
}

func NewDashboardExporter(dir string) *DashboardExporter {
	return &DashboardExporter{Dir: dir, Now: time.Now}
}

func (e *DashboardExporter) Name() string { return "dashboard" }

type dashboardRow struct {
	Rank          int
	Symbol        string
	Sector        string
	LastPrice     string
	TotalReturn   string
	Annualized    string
	Volatility    string
	Sharpe        string
	MaxDrawdown   string
	DividendYield string
	Positive      bool
}

type dashboardData struct {
	GeneratedAt string
	Rows        []dashboardRow
	Charts      []chartSnippet
}

type chartSnippet struct {
	Title   string
	Element template.HTML
	Script  template.HTML
}

func (e *DashboardExporter) Render(records []*model.MetricsRecord, sectors []model.SectorMetrics, series []*model.PriceSeries) (string, error) {
	if err := ensureDir(e.Dir); err != nil {
		return "", err
	}

	ranked := make([]*model.MetricsRecord, len(records))
	copy(ranked, records)
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].TotalReturn > ranked[j].TotalReturn })

	data := dashboardData{GeneratedAt: e.Now().Format("02/01/2006")}
	for i, r := range ranked {
		row := dashboardRow{
			Rank:        i + 1,
			Symbol:      r.Symbol,
			Sector:      r.Sector,
			LastPrice:   fmt.Sprintf("%.0f", r.LastPrice),
			TotalReturn: fmtPct(r.TotalReturn),
			Annualized:  fmtPct(r.AnnualizedReturn),
			Volatility:  fmtPct(r.Volatility),
			Sharpe:      fmt.Sprintf("%.2f", r.SharpeRatio),
			MaxDrawdown: fmtPct(r.MaxDrawdown),
			Positive:    r.TotalReturn >= 0,
		}
		if r.HasDividend {
			row.DividendYield = fmtPct(r.DividendYield)
		} else {
			row.DividendYield = "-"
		}
		data.Rows = append(data.Rows, row)
	}

	if line := indexLine(series, "BRVM-Composite"); line != nil {
		data.Charts = append(data.Charts, snippet("Évolution de l'indice BRVM-Composite", line))
	}
	data.Charts = append(data.Charts,
		snippet("Top 15 des valeurs par performance totale", performanceBar(records)),
		snippet("Performance annualisée moyenne par secteur", sectorBar(sectors)),
		snippet("Risque vs Rendement", riskReturnScatter(records)),
	)
	if bar := marketCapBar(records); bar != nil {
		data.Charts = append(data.Charts, snippet("Top 15 des capitalisations boursières", bar))
	}
	if bar := dividendYieldBar(records); bar != nil {
		data.Charts = append(data.Charts, snippet("Top 15 des rendements du dividende", bar))
	}
	if bar := perBar(records); bar != nil {
		data.Charts = append(data.Charts, snippet("PER des valeurs", bar))
	}

	path := filepath.Join(e.Dir, "index.html")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create dashboard: %w", err)
	}
	defer f.Close()

	if err := dashboardTmpl.Execute(f, data); err != nil {
		return "", fmt.Errorf("render dashboard: %w", err)
	}
	return path, nil
}

type snippetRenderer interface {
	RenderSnippet() render.ChartSnippet
}

func snippet(title string, c snippetRenderer) chartSnippet {
	s := c.RenderSnippet()
	return chartSnippet{
		Title:   title,
		Element: template.HTML(s.Element),
		Script:  template.HTML(s.Script),
	}
}

func performanceBar(records []*model.MetricsRecord) *charts.Bar {
	top := analysis.TopBy(records, 15, func(r *model.MetricsRecord) float64 { return r.TotalReturn })

	symbols := make([]string, 0, len(top))
	values := make([]opts.BarData, 0, len(top))
	for _, r := range top {
		symbols = append(symbols, r.Symbol)
		values = append(values, opts.BarData{Value: round2(r.TotalReturn * 100), Name: r.Symbol})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "480px"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Performance totale (%)"}),
	)
	bar.SetXAxis(symbols).AddSeries("Performance totale (%)", values)
	return bar
}

func sectorBar(sectors []model.SectorMetrics) *charts.Bar {
	names := make([]string, 0, len(sectors))
	values := make([]opts.BarData, 0, len(sectors))
	for _, s := range sectors {
		names = append(names, s.Sector)
		values = append(values, opts.BarData{Value: round2(s.AnnualizedReturn * 100), Name: s.Sector})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "480px"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Performance annualisée moyenne (%)"}),
	)
	bar.SetXAxis(names).AddSeries("Performance annualisée (%)", values)
	return bar
}

func riskReturnScatter(records []*model.MetricsRecord) *charts.Scatter {
	values := make([]opts.ScatterData, 0, len(records))
	for _, r := range records {
		if r.Sector == "Indice" {
			continue
		}
		values = append(values, opts.ScatterData{
			Name:       r.Symbol,
			Value:      []interface{}{round2(r.Volatility * 100), round2(r.AnnualizedReturn * 100)},
			SymbolSize: 12,
		})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "480px"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "Volatilité annualisée (%)"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Rendement annualisé (%)"}),
	)
	scatter.AddSeries("Valeurs", values)
	return scatter
}

func indexLine(series []*model.PriceSeries, symbol string) *charts.Line {
	var s *model.PriceSeries
	for _, candidate := range series {
		if candidate.Symbol == symbol {
			s = candidate
			break
		}
	}
	if s == nil || len(s.Bars) == 0 {
		return nil
	}

	dates := make([]string, 0, len(s.Bars))
	values := make([]opts.LineData, 0, len(s.Bars))
	for _, b := range s.Bars {
		dates = append(dates, b.Date.Format("02/01/2006"))
		values = append(values, opts.LineData{Value: round2(b.Close.InexactFloat64())})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "480px"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Points"}),
	)
	line.SetXAxis(dates).AddSeries(symbol, values)
	return line
}

func marketCapBar(records []*model.MetricsRecord) *charts.Bar {
	withCap := make([]*model.MetricsRecord, 0, len(records))
	for _, r := range records {
		if r.MarketCap > 0 {
			withCap = append(withCap, r)
		}
	}
	if len(withCap) == 0 {
		return nil
	}
	top := analysis.TopBy(withCap, 15, func(r *model.MetricsRecord) float64 { return r.MarketCap })

	symbols := make([]string, 0, len(top))
	values := make([]opts.BarData, 0, len(top))
	for _, r := range top {
		symbols = append(symbols, r.Symbol)
		values = append(values, opts.BarData{Value: round2(r.MarketCap / 1e9), Name: r.Symbol})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "480px"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Capitalisation (milliards FCFA)"}),
	)
	bar.SetXAxis(symbols).AddSeries("Capitalisation (milliards FCFA)", values)
	return bar
}

func dividendYieldBar(records []*model.MetricsRecord) *charts.Bar {
	withYield := make([]*model.MetricsRecord, 0, len(records))
	for _, r := range records {
		if r.HasDividend && r.DividendYield > 0 {
			withYield = append(withYield, r)
		}
	}
	if len(withYield) == 0 {
		return nil
	}
	top := analysis.TopBy(withYield, 15, func(r *model.MetricsRecord) float64 { return r.DividendYield })

	symbols := make([]string, 0, len(top))
	values := make([]opts.BarData, 0, len(top))
	for _, r := range top {
		symbols = append(symbols, r.Symbol)
		values = append(values, opts.BarData{Value: round2(r.DividendYield * 100), Name: r.Symbol})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "480px"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Rendement du dividende (%)"}),
	)
	bar.SetXAxis(symbols).AddSeries("Rendement du dividende (%)", values)
	return bar
}

func perBar(records []*model.MetricsRecord) *charts.Bar {
	withPER := make([]*model.MetricsRecord, 0, len(records))
	for _, r := range records {
		if r.PER > 0 {
			withPER = append(withPER, r)
		}
	}
	if len(withPER) == 0 {
		return nil
	}
	sort.Slice(withPER, func(i, j int) bool { return withPER[i].PER < withPER[j].PER })

	symbols := make([]string, 0, len(withPER))
	values := make([]opts.BarData, 0, len(withPER))
	for _, r := range withPER {
		symbols = append(symbols, r.Symbol)
		values = append(values, opts.BarData{Value: round2(r.PER), Name: r.Symbol})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "480px"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "PER"}),
	)
	bar.SetXAxis(symbols).AddSeries("PER", values)
	return bar
}

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Classement des valeurs de la BRVM</title>
<script src="https://cdn.jsdelivr.net/npm/echarts@5.4.3/dist/echarts.min.js"></script>
<style>
body { font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f8f9fa; }
.container { max-width: 1400px; margin: 0 auto; }
.header { text-align: center; margin-bottom: 30px; }
.card { background-color: white; margin-bottom: 20px; padding: 15px; border-radius: 5px; box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1); }
h1, h2 { color: #0d6efd; }
table { width: 100%; border-collapse: collapse; margin-bottom: 20px; }
th, td { padding: 10px 12px; text-align: left; border-bottom: 1px solid #ddd; }
th { background-color: #f8f9fa; color: #495057; font-weight: bold; }
tr:hover { background-color: #f8f9fa; }
.positive { color: #198754; }
.negative { color: #dc3545; }
.footer { text-align: center; margin-top: 30px; padding: 10px; color: #6c757d; }
</style>
</head>
<body>
<div class="container">
<div class="header">
<h1>Classement des valeurs de la BRVM</h1>
<p>Données extraites le {{.GeneratedAt}}</p>
</div>
<div class="card">
<h2>Classement par performance totale</h2>
<table>
<thead><tr><th>#</th><th>Symbole</th><th>Secteur</th><th>Dernier cours</th><th>Perf. totale</th><th>Perf. annualisée</th><th>Volatilité</th><th>Sharpe</th><th>Drawdown max</th><th>Rdt dividende</th></tr></thead>
<tbody>
{{range .Rows}}<tr><td>{{.Rank}}</td><td>{{.Symbol}}</td><td>{{.Sector}}</td><td>{{.LastPrice}}</td><td class="{{if .Positive}}positive{{else}}negative{{end}}">{{.TotalReturn}}</td><td>{{.Annualized}}</td><td>{{.Volatility}}</td><td>{{.Sharpe}}</td><td>{{.MaxDrawdown}}</td><td>{{.DividendYield}}</td></tr>
{{end}}</tbody>
</table>
</div>
{{range .Charts}}<div class="card">
<h2>{{.Title}}</h2>
{{.Element}}
{{.Script}}
</div>
{{end}}<div class="footer">
<p>Analyse des valeurs de la BRVM — mise à jour le {{.GeneratedAt}}</p>
</div>
</div>
</body>
</html>
`))
