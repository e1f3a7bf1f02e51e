package analysis

import (
	"errors"
	"math"
	"sort"

	"github.com/Kyac99/brvm-market-analysis/internal/model"
)

// tradingDaysPerYear annualizes the daily-return standard deviation.
const tradingDaysPerYear = 252

var ErrNotEnoughData = errors.New("price series needs at least 2 points")

// TotalReturn computes last/first - 1 over the close prices.
func TotalReturn(closes []float64) (float64, error) {
	if len(closes) < 2 {
		return 0, ErrNotEnoughData
	}
	if closes[0] == 0 {
		return 0, errors.New("first price is zero")
	}
	return closes[len(closes)-1]/closes[0] - 1, nil
}

// AnnualizedReturn converts a total return over the given calendar span
// into a yearly rate. A span of exactly 365 days returns the total
// return unchanged.
func AnnualizedReturn(totalReturn float64, days int) (float64, error) {
	if days <= 0 {
		return 0, errors.New("span must cover at least one day")
	}
	return math.Pow(1+totalReturn, 365/float64(days)) - 1, nil
}

// DailyReturns computes the close-to-close percentage changes.
func DailyReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}
	return returns
}

// Volatility is the sample standard deviation of daily returns,
// annualized by sqrt(252).
func Volatility(dailyReturns []float64) float64 {
	if len(dailyReturns) < 2 {
		return 0
	}
	mean := 0.0
	for _, r := range dailyReturns {
		mean += r
	}
	mean /= float64(len(dailyReturns))

	variance := 0.0
	for _, r := range dailyReturns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(dailyReturns) - 1)

	return math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear)
}

// SharpeRatio is the annualized excess return per unit of volatility.
// Zero volatility yields 0 rather than a division by zero.
func SharpeRatio(annualizedReturn, volatility, riskFreeRate float64) float64 {
	if volatility == 0 {
		return 0
	}
	return (annualizedReturn - riskFreeRate) / volatility
}

// MaxDrawdown is the minimum of price/running-max - 1 over the series.
// It is always <= 0 and equals 0 only for a non-decreasing series.
func MaxDrawdown(closes []float64) float64 {
	if len(closes) == 0 {
		return 0
	}
	peak := closes[0]
	worst := 0.0
	for _, p := range closes {
		if p > peak {
			peak = p
		}
		if peak > 0 {
			if dd := p/peak - 1; dd < worst {
				worst = dd
			}
		}
	}
	return worst
}

// Compute derives the full metrics record for one price series. The series
// must hold at least 2 points; gaps are never interpolated, metrics cover
// only the points present.
func Compute(series *model.PriceSeries, dividend *model.Dividend, riskFreeRate float64) (*model.MetricsRecord, error) {
	closes := series.Closes()

	total, err := TotalReturn(closes)
	if err != nil {
		return nil, err
	}
	days := series.Span()
	annualized, err := AnnualizedReturn(total, days)
	if err != nil {
		return nil, err
	}
	volatility := Volatility(DailyReturns(closes))

	rec := &model.MetricsRecord{
		Symbol:           series.Symbol,
		Name:             series.Name,
		Sector:           model.SectorOf(series.Symbol),
		StartDate:        series.Bars[0].Date,
		EndDate:          series.Bars[len(series.Bars)-1].Date,
		Days:             days,
		FirstPrice:       closes[0],
		LastPrice:        closes[len(closes)-1],
		TotalReturn:      total,
		AnnualizedReturn: annualized,
		Volatility:       volatility,
		SharpeRatio:      SharpeRatio(annualized, volatility, riskFreeRate),
		MaxDrawdown:      MaxDrawdown(closes),
	}

	if dividend != nil && rec.LastPrice > 0 {
		rec.DividendYield = dividend.Amount.InexactFloat64() / rec.LastPrice
		rec.HasDividend = true
	}
	return rec, nil
}

// AggregateSectors groups records by sector and averages each metric,
// sorted by mean annualized return, best first.
func AggregateSectors(records []*model.MetricsRecord) []model.SectorMetrics {
	grouped := make(map[string][]*model.MetricsRecord)
	for _, r := range records {
		grouped[r.Sector] = append(grouped[r.Sector], r)
	}

	sectors := make([]model.SectorMetrics, 0, len(grouped))
	for sector, members := range grouped {
		agg := model.SectorMetrics{Sector: sector, Count: len(members)}
		for _, r := range members {
			agg.TotalReturn += r.TotalReturn
			agg.AnnualizedReturn += r.AnnualizedReturn
			agg.Volatility += r.Volatility
			agg.SharpeRatio += r.SharpeRatio
			agg.MaxDrawdown += r.MaxDrawdown
		}
		n := float64(agg.Count)
		agg.TotalReturn /= n
		agg.AnnualizedReturn /= n
		agg.Volatility /= n
		agg.SharpeRatio /= n
		agg.MaxDrawdown /= n
		sectors = append(sectors, agg)
	}

	sort.Slice(sectors, func(i, j int) bool {
		return sectors[i].AnnualizedReturn > sectors[j].AnnualizedReturn
	})
	return sectors
}

// TopBy returns up to n records sorted descending by the given metric.
func TopBy(records []*model.MetricsRecord, n int, metric func(*model.MetricsRecord) float64) []*model.MetricsRecord {
	ranked := make([]*model.MetricsRecord, len(records))
	copy(ranked, records)
	sort.Slice(ranked, func(i, j int) bool { return metric(ranked[i]) > metric(ranked[j]) })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
