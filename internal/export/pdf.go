package export

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/Kyac99/brvm-market-analysis/internal/analysis"
	"github.com/Kyac99/brvm-market-analysis/internal/model"
)

// PDFExporter renders the analysis report: chapter sections, tables, and
// PNG charts generated into a temporary directory and embedded.
type PDFExporter struct {
	Dir string
	Now func() time.Time
}

func NewPDFExporter(dir string) *PDFExporter {
	return &PDFExporter{Dir: dir, Now: time.Now}
}

func (e *PDFExporter) Name() string { return "pdf" }

func (e *PDFExporter) Render(records []*model.MetricsRecord, sectors []model.SectorMetrics, series []*model.PriceSeries) (string, error) {
	if err := ensureDir(e.Dir); err != nil {
		return "", err
	}

	tempDir, err := os.MkdirTemp(e.Dir, "charts")
	if err != nil {
		return "", fmt.Errorf("chart temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	perfChart := filepath.Join(tempDir, "performance_chart.png")
	if err := renderPerformanceChart(records, perfChart); err != nil {
		return "", fmt.Errorf("performance chart: %w", err)
	}
	sectorChart := filepath.Join(tempDir, "sector_chart.png")
	if err := renderSectorChart(sectors, sectorChart); err != nil {
		return "", fmt.Errorf("sector chart: %w", err)
	}
	indexChart := filepath.Join(tempDir, "brvm_evolution.png")
	hasIndex, err := renderIndexChart(series, "BRVM-Composite", indexChart)
	if err != nil {
		return "", fmt.Errorf("index chart: %w", err)
	}
	riskChart := filepath.Join(tempDir, "risk_return_chart.png")
	if err := renderRiskReturnChart(records, riskChart); err != nil {
		return "", fmt.Errorf("risk/return chart: %w", err)
	}

	path := filepath.Join(e.Dir, fmt.Sprintf("brvm_report_%s.pdf", e.Now().Format("20060102_150405")))
	if err := e.buildPDF(path, records, perfChart, sectorChart, indexChart, riskChart, hasIndex); err != nil {
		return "", err
	}
	return path, nil
}

func (e *PDFExporter) buildPDF(path string, records []*model.MetricsRecord, perfChart, sectorChart, indexChart, riskChart string, hasIndex bool) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 15)
		pdf.CellFormat(0, 10, tr("Analyse des performances de la BRVM"), "", 1, "C", false, 0, "")
		pdf.SetFont("Arial", "I", 10)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Rapport généré le %s", e.Now().Format("02/01/2006 à 15:04"))), "", 1, "C", false, 0, "")
		pdf.Ln(10)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AliasNbPages("")
	pdf.AddPage()

	chapterTitle(pdf, tr, "Présentation du rapport")
	chapterBody(pdf, tr,
		"Ce rapport présente une analyse détaillée des performances des valeurs cotées à la "+
			"Bourse Régionale des Valeurs Mobilières (BRVM). L'analyse couvre les performances "+
			"historiques et les indicateurs de risque/rendement pour chaque valeur et par secteur.")

	if hasIndex {
		pdf.AddPage()
		chapterTitle(pdf, tr, "Évolution de l'indice BRVM-Composite")
		chapterBody(pdf, tr,
			"Le graphique ci-dessous montre l'évolution de l'indice BRVM-Composite sur la période étudiée. "+
				"Cet indice est représentatif de la performance globale du marché.")
		addImage(pdf, tr, indexChart, "Évolution de l'indice BRVM-Composite")
	}

	pdf.AddPage()
	chapterTitle(pdf, tr, "Performances des valeurs")
	chapterBody(pdf, tr,
		"Le graphique ci-dessous présente les performances totales des 15 meilleures valeurs. "+
			"La performance est exprimée en pourcentage du prix initial.")
	addImage(pdf, tr, perfChart, "Performance totale des 15 meilleures valeurs (%)")

	pdf.AddPage()
	chapterTitle(pdf, tr, "Analyse par secteur")
	chapterBody(pdf, tr,
		"Cette section présente une analyse des performances moyennes par secteur, "+
			"classées par ordre de performance annualisée décroissante.")
	addImage(pdf, tr, sectorChart, "Performance annualisée moyenne par secteur (%)")

	pdf.AddPage()
	chapterTitle(pdf, tr, "Top 10 des meilleures performances annualisées")
	top10 := analysis.TopBy(records, 10, func(r *model.MetricsRecord) float64 { return r.AnnualizedReturn })
	rows := make([][]string, 0, len(top10))
	for _, r := range top10 {
		rows = append(rows, []string{
			r.Symbol,
			r.Sector,
			fmtPct(r.AnnualizedReturn),
			fmtPct(r.Volatility),
			fmt.Sprintf("%.2f", r.SharpeRatio),
			fmt.Sprintf("%.1f ans", float64(r.Days)/365),
		})
	}
	addTable(pdf, tr, []string{"Symbole", "Secteur", "Rend. Ann.", "Volatilité", "Sharpe", "Durée"}, rows)

	pdf.AddPage()
	chapterTitle(pdf, tr, "Analyse Risque/Rendement")
	chapterBody(pdf, tr,
		"Le graphique ci-dessous présente le rapport entre le risque (volatilité annualisée) et le "+
			"rendement annualisé pour chaque valeur, indices exclus. Les valeurs situées en haut "+
			"à gauche offrent le meilleur rapport risque/rendement.")
	addImage(pdf, tr, riskChart, "Risque vs Rendement des valeurs de la BRVM")

	pdf.AddPage()
	chapterTitle(pdf, tr, "Conclusion")
	chapterBody(pdf, tr,
		"Les cours utilisés ne sont pas ajustés des dividendes ni des opérations sur titres ; "+
			"les performances affichées sont donc des performances de cours. Cette analyse doit "+
			"être complétée par une mise à jour régulière des données et une prise en compte des "+
			"facteurs macroéconomiques affectant les marchés financiers d'Afrique de l'Ouest.")

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func chapterTitle(pdf *fpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(200, 220, 255)
	pdf.CellFormat(0, 6, tr(title), "", 1, "L", true, 0, "")
	pdf.Ln(4)
}

func chapterBody(pdf *fpdf.Fpdf, tr func(string) string, body string) {
	pdf.SetFont("Arial", "", 11)
	pdf.MultiCell(0, 5, tr(body), "", "", false)
	pdf.Ln(-1)
}

func addTable(pdf *fpdf.Fpdf, tr func(string) string, headers []string, rows [][]string) {
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	w := (pageW - left - right) / float64(len(headers))

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 220, 255)
	for _, h := range headers {
		pdf.CellFormat(w, 7, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(255, 255, 255)
	for _, row := range rows {
		for _, col := range row {
			pdf.CellFormat(w, 6, tr(col), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(5)
}

func addImage(pdf *fpdf.Fpdf, tr func(string) string, path, caption string) {
	if _, err := os.Stat(path); err != nil {
		log.Printf("[WARN] chart image missing: %s", path)
		return
	}
	pdf.ImageOptions(path, 15, 0, 180, 0, true, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	pdf.SetFont("Arial", "I", 9)
	pdf.Ln(2)
	pdf.CellFormat(0, 5, tr(caption), "", 1, "C", false, 0, "")
	pdf.Ln(5)
}
