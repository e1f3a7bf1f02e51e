// Package export renders the computed metrics table as a spreadsheet, a
// PDF report, and an HTML dashboard. The three renderers are independent
// and consume the same inputs.
package export

import (
	"fmt"
	"os"

	"github.com/Kyac99/brvm-market-analysis/internal/model"
)

// Exporter is one renderer of the metrics table. Render returns the path
// of the artifact it wrote.
type Exporter interface {
	Render(records []*model.MetricsRecord, sectors []model.SectorMetrics, series []*model.PriceSeries) (string, error)
	Name() string
}

func fmtPct(v float64) string {
	return fmt.Sprintf("%.2f %%", v*100)
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}
