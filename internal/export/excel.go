package export

import (
	"fmt"
	"log"
	"math"
	"path/filepath"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Kyac99/brvm-market-analysis/internal/model"
)

// Excel sheet names are capped at 31 characters.
const maxSheetName = 31

// ExcelExporter writes the workbook: a Résumé sheet, one sheet per
// symbol with its raw quotes, and the sector analysis.
type ExcelExporter struct {
	Dir string
	Now func() time.Time
}

func NewExcelExporter(dir string) *ExcelExporter {
	return &ExcelExporter{Dir: dir, Now: time.Now}
}

func (e *ExcelExporter) Name() string { return "excel" }

func (e *ExcelExporter) Render(records []*model.MetricsRecord, sectors []model.SectorMetrics, series []*model.PriceSeries) (string, error) {
	if err := ensureDir(e.Dir); err != nil {
		return "", err
	}
	path := filepath.Join(e.Dir, fmt.Sprintf("brvm_analysis_%s.xlsx", e.Now().Format("20060102_150405")))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("[WARN] close workbook: %v", err)
		}
	}()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"D7E4BC"}, Pattern: 1},
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return "", fmt.Errorf("header style: %w", err)
	}

	if err := e.writeSummary(f, records, headerStyle); err != nil {
		return "", fmt.Errorf("summary sheet: %w", err)
	}
	for _, s := range series {
		if err := e.writeSeriesSheet(f, s, headerStyle); err != nil {
			return "", fmt.Errorf("sheet %s: %w", s.Symbol, err)
		}
	}
	if err := e.writeSectors(f, sectors, headerStyle); err != nil {
		return "", fmt.Errorf("sector sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return path, nil
}

func (e *ExcelExporter) writeSummary(f *excelize.File, records []*model.MetricsRecord, headerStyle int) error {
	const sheet = "Résumé"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	headers := []string{
		"Symbole", "Secteur", "Prix Initial", "Prix Final",
		"Performance Totale (%)", "Performance Annualisée (%)",
		"Volatilité (%)", "Ratio de Sharpe", "Drawdown Max (%)",
		"Rendement Dividende (%)",
	}
	writeHeaderRow(f, sheet, headers, headerStyle)

	ranked := make([]*model.MetricsRecord, len(records))
	copy(ranked, records)
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].TotalReturn > ranked[j].TotalReturn })

	for i, r := range ranked {
		row := i + 2
		f.SetCellValue(sheet, cell(1, row), r.Symbol)
		f.SetCellValue(sheet, cell(2, row), r.Sector)
		f.SetCellValue(sheet, cell(3, row), r.FirstPrice)
		f.SetCellValue(sheet, cell(4, row), r.LastPrice)
		f.SetCellValue(sheet, cell(5, row), round2(r.TotalReturn*100))
		f.SetCellValue(sheet, cell(6, row), round2(r.AnnualizedReturn*100))
		f.SetCellValue(sheet, cell(7, row), round2(r.Volatility*100))
		f.SetCellValue(sheet, cell(8, row), round2(r.SharpeRatio))
		f.SetCellValue(sheet, cell(9, row), round2(r.MaxDrawdown*100))
		if r.HasDividend {
			f.SetCellValue(sheet, cell(10, row), round2(r.DividendYield*100))
		}
	}
	f.SetColWidth(sheet, "A", "B", 15)
	f.SetColWidth(sheet, "C", "D", 12)
	f.SetColWidth(sheet, "E", "J", 18)
	return nil
}

func (e *ExcelExporter) writeSeriesSheet(f *excelize.File, s *model.PriceSeries, headerStyle int) error {
	sheet := sheetName(s.Symbol)
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	writeHeaderRow(f, sheet, []string{"Date", "Ouverture", "Plus Haut", "Plus Bas", "Clôture", "Volume"}, headerStyle)
	for i, b := range s.Bars {
		row := i + 2
		f.SetCellValue(sheet, cell(1, row), b.Date.Format("2006-01-02"))
		f.SetCellValue(sheet, cell(2, row), b.Open.InexactFloat64())
		f.SetCellValue(sheet, cell(3, row), b.High.InexactFloat64())
		f.SetCellValue(sheet, cell(4, row), b.Low.InexactFloat64())
		f.SetCellValue(sheet, cell(5, row), b.Close.InexactFloat64())
		f.SetCellValue(sheet, cell(6, row), b.Volume)
	}
	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "B", "E", 10)
	f.SetColWidth(sheet, "F", "F", 12)
	return nil
}

func (e *ExcelExporter) writeSectors(f *excelize.File, sectors []model.SectorMetrics, headerStyle int) error {
	const sheet = "Analyse Sectorielle"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{
		"Secteur", "Valeurs",
		"Performance Totale Moyenne (%)", "Performance Annualisée Moyenne (%)",
		"Volatilité Moyenne (%)", "Ratio de Sharpe Moyen", "Drawdown Max Moyen (%)",
	}
	writeHeaderRow(f, sheet, headers, headerStyle)

	for i, s := range sectors {
		row := i + 2
		f.SetCellValue(sheet, cell(1, row), s.Sector)
		f.SetCellValue(sheet, cell(2, row), s.Count)
		f.SetCellValue(sheet, cell(3, row), round2(s.TotalReturn*100))
		f.SetCellValue(sheet, cell(4, row), round2(s.AnnualizedReturn*100))
		f.SetCellValue(sheet, cell(5, row), round2(s.Volatility*100))
		f.SetCellValue(sheet, cell(6, row), round2(s.SharpeRatio))
		f.SetCellValue(sheet, cell(7, row), round2(s.MaxDrawdown*100))
	}
	f.SetColWidth(sheet, "A", "A", 18)
	f.SetColWidth(sheet, "B", "G", 25)
	return nil
}

func writeHeaderRow(f *excelize.File, sheet string, headers []string, style int) {
	for i, h := range headers {
		f.SetCellValue(sheet, cell(i+1, 1), h)
	}
	f.SetCellStyle(sheet, cell(1, 1), cell(len(headers), 1), style)
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func sheetName(symbol string) string {
	if len(symbol) > maxSheetName {
		return symbol[:maxSheetName]
	}
	return symbol
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
