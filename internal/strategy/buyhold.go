package strategy

import (
	"tradelab/internal/domain"
)

// Compile-time interface check.
var _ Strategy = (*BuyHold)(nil)

// BuyHold is the comparison baseline: a single buy on the very first bar,
// held for the remainder of the run. The position is never closed by the
// strategy; the engine marks it to market at the final bar.
type BuyHold struct{}

// NewBuyHold creates the buy-and-hold baseline strategy.
func NewBuyHold() *BuyHold { return &BuyHold{} }

// Name returns "buyhold".
func (s *BuyHold) Name() string { return "buyhold" }

// LookbackPeriod returns 0: buy-and-hold consumes no rolling extrema.
func (s *BuyHold) LookbackPeriod() int { return 0 }

// Next buys once on bar 0 and is a no-op forever after.
func (s *BuyHold) Next(st State, step Step) (State, *domain.Signal) {
	if st.Bought || step.Index != 0 {
		return st, nil
	}
	qty := Shares(step.Cash, step.Bar.Close)
	st.Bought = true
	if qty == 0 {
		return st, nil
	}
	st.InPosition = true
	st.EntryPrice = step.Bar.Close
	st.TradeCount++
	return st, &domain.Signal{
		Type:      domain.SignalBuy,
		Qty:       qty,
		Price:     step.Bar.Close,
		Timestamp: step.Bar.Timestamp,
	}
}
