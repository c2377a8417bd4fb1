package backtest

import (
	"math"
	"testing"
	"time"
)

func equityCurve(values ...float64) []EquityPoint {
	points := make([]EquityPoint, len(values))
	for i, v := range values {
		points[i] = EquityPoint{
			Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Equity:    v,
		}
	}
	return points
}

func TestSharpeRatioNilOnFlatCurve(t *testing.T) {
	if got := sharpeRatio(equityCurve(100, 100, 100, 100)); got != nil {
		t.Errorf("sharpeRatio(flat) = %f, want nil", *got)
	}
}

func TestSharpeRatioNilOnTooFewPoints(t *testing.T) {
	if got := sharpeRatio(equityCurve(100, 110)); got != nil {
		t.Errorf("sharpeRatio(2 points) = %f, want nil", *got)
	}
	if got := sharpeRatio(nil); got != nil {
		t.Errorf("sharpeRatio(nil) = %f, want nil", *got)
	}
}

func TestSharpeRatioAnnualized(t *testing.T) {
	// Returns +10%, -5%: mean 0.025, population stddev 0.075.
	got := sharpeRatio(equityCurve(100, 110, 104.5))
	if got == nil {
		t.Fatal("sharpeRatio() = nil, want a value for a varying curve")
	}
	want := 0.025 / 0.075 * math.Sqrt(252)
	if math.Abs(*got-want) > 1e-9 {
		t.Errorf("sharpeRatio() = %f, want %f", *got, want)
	}
}

func TestSharpeRatioSignTracksDrift(t *testing.T) {
	up := sharpeRatio(equityCurve(100, 105, 103, 110, 115))
	if up == nil || *up <= 0 {
		t.Errorf("sharpeRatio(uptrend) = %v, want positive", up)
	}
	down := sharpeRatio(equityCurve(100, 95, 97, 90, 85))
	if down == nil || *down >= 0 {
		t.Errorf("sharpeRatio(downtrend) = %v, want negative", down)
	}
}

func TestMaxDrawdownPct(t *testing.T) {
	// Peak 120, trough 90: a 25% decline.
	if got := maxDrawdownPct(equityCurve(100, 120, 90, 110)); got != 25 {
		t.Errorf("maxDrawdownPct = %f, want 25", got)
	}
}

func TestMaxDrawdownPctZeroOnMonotonicRise(t *testing.T) {
	if got := maxDrawdownPct(equityCurve(100, 110, 120, 130)); got != 0 {
		t.Errorf("maxDrawdownPct(rising) = %f, want 0", got)
	}
}

func TestMaxDrawdownPctEmpty(t *testing.T) {
	if got := maxDrawdownPct(nil); got != 0 {
		t.Errorf("maxDrawdownPct(nil) = %f, want 0", got)
	}
}
