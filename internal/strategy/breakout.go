package strategy

import (
	"tradelab/internal/domain"
)

// Compile-time interface check.
var _ Strategy = (*Breakout)(nil)

// Exit reasons reported on breakout sell signals. The order they are
// evaluated in is fixed; see exitRules.
const (
	ReasonBreakoutExit = "Breakout Exit"
	ReasonStopLoss     = "Stop Loss"
	ReasonTakeProfit   = "Take Profit"
)

// Default breakout parameters.
const (
	DefaultLookbackPeriod = 20
	DefaultStopLossPct    = 0.05
	DefaultTakeProfitPct  = 0.15
)

// Breakout buys when the close breaks above the rolling high of the
// previous lookback window and sells on the first matching exit rule:
// a break below the rolling low, a fixed-percentage stop loss, or a
// fixed-percentage take profit, in that priority order.
type Breakout struct {
	lookback      int
	stopLossPct   float64
	takeProfitPct float64
	exits         []exitRule
}

// exitRule is a named exit predicate. Rules are evaluated in slice order
// and the first match wins, which makes the tie-break policy explicit data
// rather than implicit branch order.
type exitRule struct {
	reason    string
	triggered func(st State, step Step) bool
}

// NewBreakout creates a Breakout strategy. Non-positive parameters fall
// back to the defaults (lookback 20, stop 5%, take profit 15%).
func NewBreakout(lookback int, stopLossPct, takeProfitPct float64) *Breakout {
	if lookback <= 0 {
		lookback = DefaultLookbackPeriod
	}
	if stopLossPct <= 0 {
		stopLossPct = DefaultStopLossPct
	}
	if takeProfitPct <= 0 {
		takeProfitPct = DefaultTakeProfitPct
	}

	b := &Breakout{
		lookback:      lookback,
		stopLossPct:   stopLossPct,
		takeProfitPct: takeProfitPct,
	}
	b.exits = []exitRule{
		{
			reason: ReasonBreakoutExit,
			triggered: func(_ State, step Step) bool {
				return step.ExtremaReady && step.Bar.Close < step.PrevLowest
			},
		},
		{
			reason: ReasonStopLoss,
			triggered: func(st State, step Step) bool {
				return step.Bar.Close < st.EntryPrice*(1-b.stopLossPct)
			},
		},
		{
			reason: ReasonTakeProfit,
			triggered: func(st State, step Step) bool {
				return step.Bar.Close > st.EntryPrice*(1+b.takeProfitPct)
			},
		},
	}
	return b
}

// Name returns "breakout".
func (b *Breakout) Name() string { return "breakout" }

// LookbackPeriod returns the rolling high/low window length.
func (b *Breakout) LookbackPeriod() int { return b.lookback }

// Next implements the per-bar decision. Entries require a full lookback
// window; until then every step is a no-op.
func (b *Breakout) Next(st State, step Step) (State, *domain.Signal) {
	close := step.Bar.Close

	if !st.InPosition {
		if !step.ExtremaReady || close <= step.PrevHighest {
			return st, nil
		}
		qty := Shares(step.Cash, close)
		if qty == 0 {
			return st, nil
		}
		st.InPosition = true
		st.EntryPrice = close
		st.TradeCount++
		return st, &domain.Signal{
			Type:      domain.SignalBuy,
			Qty:       qty,
			Price:     close,
			Timestamp: step.Bar.Timestamp,
		}
	}

	for _, rule := range b.exits {
		if !rule.triggered(st, step) {
			continue
		}
		sig := &domain.Signal{
			Type:      domain.SignalSell,
			Qty:       step.PositionQty,
			Price:     close,
			Reason:    rule.reason,
			Timestamp: step.Bar.Timestamp,
		}
		st.InPosition = false
		st.EntryPrice = 0
		return st, sig
	}
	return st, nil
}
