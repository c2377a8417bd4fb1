// Package indicator computes the derived series strategies consume. The
// only indicator the breakout rule needs is a rolling high/low window.
package indicator

import (
	talib "github.com/markcheno/go-talib"

	"tradelab/internal/domain"
)

// RollingExtrema holds the highest-high and lowest-low series over a
// trailing window of fixed length, computed once up front for a bar series.
//
// Accessors are previous-bar-exclusive: the value reported for step i is
// the extremum over bars [i-period, i-1], never including bar i itself.
// A bar's close is therefore never compared against a window containing its
// own high or low.
type RollingExtrema struct {
	period  int
	highest []float64 // highest[j] = max(high[j-period+1 .. j]), valid for j >= period-1
	lowest  []float64 // lowest[j]  = min(low[j-period+1 .. j]),  valid for j >= period-1
}

// NewRollingExtrema computes rolling extrema for the bar series with the
// given lookback period. Series shorter than the period produce an extrema
// set that is never ready.
func NewRollingExtrema(bars []domain.Bar, period int) *RollingExtrema {
	r := &RollingExtrema{period: period}
	if period <= 0 || len(bars) < period {
		return r
	}

	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	for i, b := range bars {
		highs[i] = b.High
		lows[i] = b.Low
	}
	r.highest = talib.Max(highs, period)
	r.lowest = talib.Min(lows, period)
	return r
}

// Period returns the lookback window length.
func (r *RollingExtrema) Period() int { return r.period }

// PrevHighest returns the highest high over the period bars preceding step
// i, and whether that window is full. The first valid step is i == period.
func (r *RollingExtrema) PrevHighest(i int) (float64, bool) {
	if !r.ready(i) {
		return 0, false
	}
	return r.highest[i-1], true
}

// PrevLowest returns the lowest low over the period bars preceding step i,
// and whether that window is full.
func (r *RollingExtrema) PrevLowest(i int) (float64, bool) {
	if !r.ready(i) {
		return 0, false
	}
	return r.lowest[i-1], true
}

// ready reports whether step i has a full previous-bar window: the period
// is meaningful, bars [i-period, i-1] all exist, and the talib lookback
// region is past. A zero period never becomes ready: strategies that
// consume no extrema report lookback 0 and must see ok=false at every step,
// including step 0.
func (r *RollingExtrema) ready(i int) bool {
	return r.period > 0 && i >= r.period && i-1 < len(r.highest)
}
