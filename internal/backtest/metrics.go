package backtest

import "math"

// tradingDaysPerYear annualizes per-bar Sharpe for daily bars.
const tradingDaysPerYear = 252

// sharpeRatio computes the annualized Sharpe ratio (risk-free rate 0) from
// the per-bar returns of the equity curve. It returns nil when the ratio is
// undefined: fewer than two returns, or zero return variance. Absent is a
// valid outcome, not an error; the report renders it as "N/A".
func sharpeRatio(equity []EquityPoint) *float64 {
	if len(equity) < 3 {
		return nil
	}

	returns := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Equity
		if prev <= 0 {
			return nil
		}
		returns = append(returns, (equity[i].Equity-prev)/prev)
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		diff := r - mean
		variance += diff * diff
	}
	variance /= float64(len(returns))
	stdDev := math.Sqrt(variance)
	if stdDev == 0 {
		return nil
	}

	sharpe := mean / stdDev * math.Sqrt(tradingDaysPerYear)
	return &sharpe
}

// maxDrawdownPct computes the maximum peak-to-trough decline of the equity
// curve, as a positive percentage of the peak.
func maxDrawdownPct(equity []EquityPoint) float64 {
	if len(equity) == 0 {
		return 0
	}

	peak := equity[0].Equity
	maxDD := 0.0
	for _, p := range equity {
		if p.Equity > peak {
			peak = p.Equity
		}
		if peak <= 0 {
			continue
		}
		dd := (peak - p.Equity) / peak * 100
		if dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}
