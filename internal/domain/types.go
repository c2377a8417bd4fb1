// Package domain defines the core value types shared across the backtest
// pipeline: OHLCV bars and the order intents (signals) strategies emit.
package domain

import (
	"fmt"
	"time"
)

// Bar is one time step of market data for a single symbol. Bars are
// immutable once produced and always handled as chronological slices with
// unique timestamps.
type Bar struct {
	Symbol    string
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// Date returns the bar's timestamp formatted as a calendar date, the way it
// appears in the transaction log and on charts.
func (b Bar) Date() string {
	return b.Timestamp.Format("2006-01-02")
}

// SignalType distinguishes buy and sell order intents.
type SignalType string

const (
	SignalBuy  SignalType = "buy"
	SignalSell SignalType = "sell"
)

// Signal is an order intent emitted by a strategy for a single bar. It is a
// request, not a fill: the backtest engine settles it against portfolio
// state. Sell signals carry the exit reason that triggered them.
type Signal struct {
	Type      SignalType
	Qty       int64
	Price     float64
	Reason    string
	Timestamp time.Time
}

// ValidateBars checks that a price series is usable for a backtest: it must
// be non-empty, strictly chronological with no duplicate timestamps, and
// every bar must carry positive OHLC prices.
func ValidateBars(bars []Bar) error {
	if len(bars) == 0 {
		return fmt.Errorf("empty price series")
	}
	for i, b := range bars {
		if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
			return fmt.Errorf("bar %d (%s): non-positive OHLC field", i, b.Date())
		}
		if b.High < b.Low {
			return fmt.Errorf("bar %d (%s): high %.4f below low %.4f", i, b.Date(), b.High, b.Low)
		}
		if i > 0 && !bars[i-1].Timestamp.Before(b.Timestamp) {
			return fmt.Errorf("bar %d (%s): out of order or duplicate timestamp", i, b.Date())
		}
	}
	return nil
}
