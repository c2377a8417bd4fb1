package strategy

import (
	"testing"
	"time"

	"tradelab/internal/domain"
)

func stepAt(index int, close float64) Step {
	return Step{
		Bar: domain.Bar{
			Symbol:    "TEST",
			Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, index),
			Open:      close,
			High:      close,
			Low:       close,
			Close:     close,
			Volume:    1000,
		},
		Index: index,
		Cash:  100000,
	}
}

func TestShares(t *testing.T) {
	cases := []struct {
		cash, price float64
		want        int64
	}{
		{100000, 110, 863}, // floor(95000 / 110)
		{100000, 100, 950},
		{50, 100, 0},
		{0, 100, 0},
		{100, 0, 0},
	}
	for _, tc := range cases {
		if got := Shares(tc.cash, tc.price); got != tc.want {
			t.Errorf("Shares(%f, %f) = %d, want %d", tc.cash, tc.price, got, tc.want)
		}
	}
}

func TestSharesRespectsCashReserve(t *testing.T) {
	for _, cash := range []float64{100, 5000, 100000, 1234567} {
		for _, price := range []float64{0.5, 10, 99.99, 450} {
			qty := Shares(cash, price)
			if float64(qty)*price > cash*CashReserveFraction {
				t.Errorf("Shares(%f, %f) = %d commits %.2f, above reserve cap %.2f",
					cash, price, qty, float64(qty)*price, cash*CashReserveFraction)
			}
		}
	}
}

// ---------------------------------------------------------------------------
// Breakout
// ---------------------------------------------------------------------------

func TestBreakoutNoEntryBeforeWindowFull(t *testing.T) {
	b := NewBreakout(20, 0.05, 0.15)

	step := stepAt(5, 500) // no ExtremaReady: lookback window not yet full
	st, sig := b.Next(State{}, step)
	if sig != nil {
		t.Fatalf("Next() emitted %+v before the lookback window was full", sig)
	}
	if st.InPosition || st.TradeCount != 0 {
		t.Errorf("state changed without an order: %+v", st)
	}
}

func TestBreakoutEntry(t *testing.T) {
	b := NewBreakout(20, 0.05, 0.15)

	step := stepAt(25, 110)
	step.ExtremaReady = true
	step.PrevHighest = 100
	step.PrevLowest = 90

	st, sig := b.Next(State{}, step)
	if sig == nil {
		t.Fatal("Next() returned no signal for a close above the previous high")
	}
	if sig.Type != domain.SignalBuy {
		t.Errorf("signal type = %q, want %q", sig.Type, domain.SignalBuy)
	}
	if sig.Qty != 863 {
		t.Errorf("signal qty = %d, want 863", sig.Qty)
	}
	if float64(sig.Qty)*sig.Price > step.Cash*CashReserveFraction {
		t.Errorf("order notional %.2f exceeds reserve cap %.2f",
			float64(sig.Qty)*sig.Price, step.Cash*CashReserveFraction)
	}
	if !st.InPosition || st.EntryPrice != 110 || st.TradeCount != 1 {
		t.Errorf("post-entry state = %+v, want in position at 110 with 1 trade", st)
	}
}

func TestBreakoutNoEntryAtOrBelowPrevHigh(t *testing.T) {
	b := NewBreakout(20, 0.05, 0.15)

	for _, close := range []float64{100, 99.5} {
		step := stepAt(25, close)
		step.ExtremaReady = true
		step.PrevHighest = 100
		step.PrevLowest = 90

		if _, sig := b.Next(State{}, step); sig != nil {
			t.Errorf("Next() with close %.2f and prev high 100 emitted %+v, want no signal", close, sig)
		}
	}
}

func TestBreakoutEntrySkippedWhenUnaffordable(t *testing.T) {
	b := NewBreakout(20, 0.05, 0.15)

	step := stepAt(25, 110)
	step.ExtremaReady = true
	step.PrevHighest = 100
	step.Cash = 50 // cannot cover one share

	st, sig := b.Next(State{}, step)
	if sig != nil {
		t.Fatalf("Next() emitted %+v despite zero affordable shares", sig)
	}
	if st.InPosition {
		t.Error("state entered a position without an order")
	}
}

func TestBreakoutExitPriority(t *testing.T) {
	b := NewBreakout(20, 0.05, 0.15)
	inPos := State{InPosition: true, EntryPrice: 100, TradeCount: 1}

	cases := []struct {
		name       string
		close      float64
		prevLowest float64
		wantReason string
		wantNoExit bool
	}{
		// Close below both the rolling low and the stop threshold: the
		// breakout exit is reported, never the stop loss.
		{"breakout exit wins over stop loss", 94, 95, ReasonBreakoutExit, false},
		{"stop loss", 94, 90, ReasonStopLoss, false},
		{"take profit", 116, 90, ReasonTakeProfit, false},
		{"hold inside bands", 102, 90, "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			step := stepAt(30, tc.close)
			step.ExtremaReady = true
			step.PrevHighest = 120
			step.PrevLowest = tc.prevLowest
			step.PositionQty = 10

			st, sig := b.Next(inPos, step)
			if tc.wantNoExit {
				if sig != nil {
					t.Fatalf("Next() emitted %+v, want hold", sig)
				}
				if !st.InPosition {
					t.Error("position closed without a signal")
				}
				return
			}
			if sig == nil {
				t.Fatal("Next() returned no signal, want a sell")
			}
			if sig.Type != domain.SignalSell {
				t.Errorf("signal type = %q, want %q", sig.Type, domain.SignalSell)
			}
			if sig.Reason != tc.wantReason {
				t.Errorf("exit reason = %q, want %q", sig.Reason, tc.wantReason)
			}
			if sig.Qty != 10 {
				t.Errorf("sell qty = %d, want full position 10", sig.Qty)
			}
			if st.InPosition {
				t.Error("state still in position after sell")
			}
		})
	}
}

func TestBreakoutNoRebuyWhileInPosition(t *testing.T) {
	b := NewBreakout(20, 0.05, 0.15)

	// Close above the previous high but inside every exit band.
	step := stepAt(30, 108)
	step.ExtremaReady = true
	step.PrevHighest = 105
	step.PrevLowest = 90
	step.PositionQty = 10

	if _, sig := b.Next(State{InPosition: true, EntryPrice: 100}, step); sig != nil {
		t.Errorf("Next() emitted %+v while already in position, want no signal", sig)
	}
}

func TestBreakoutDefaults(t *testing.T) {
	b := NewBreakout(0, 0, 0)
	if b.LookbackPeriod() != DefaultLookbackPeriod {
		t.Errorf("LookbackPeriod() = %d, want default %d", b.LookbackPeriod(), DefaultLookbackPeriod)
	}
	if b.stopLossPct != DefaultStopLossPct || b.takeProfitPct != DefaultTakeProfitPct {
		t.Errorf("params = (%f, %f), want defaults (%f, %f)",
			b.stopLossPct, b.takeProfitPct, DefaultStopLossPct, DefaultTakeProfitPct)
	}
}

// ---------------------------------------------------------------------------
// BuyHold
// ---------------------------------------------------------------------------

func TestBuyHoldBuysOnceOnFirstBar(t *testing.T) {
	s := NewBuyHold()

	st, sig := s.Next(State{}, stepAt(0, 100))
	if sig == nil {
		t.Fatal("Next() returned no signal on the first bar")
	}
	if sig.Type != domain.SignalBuy || sig.Qty != 950 || sig.Price != 100 {
		t.Errorf("first-bar signal = %+v, want buy of 950 at 100", sig)
	}
	if !st.Bought || !st.InPosition || st.TradeCount != 1 {
		t.Errorf("post-buy state = %+v, want bought and in position", st)
	}

	// All later bars are no-ops, regardless of price action.
	for i, close := range []float64{50, 200, 100} {
		step := stepAt(i+1, close)
		step.PositionQty = 950
		var next *domain.Signal
		st, next = s.Next(st, step)
		if next != nil {
			t.Errorf("Next() at bar %d emitted %+v, want no signal", i+1, next)
		}
	}
	if st.TradeCount != 1 {
		t.Errorf("TradeCount = %d, want exactly 1", st.TradeCount)
	}
}

func TestBuyHoldNeverBuysAfterFirstBar(t *testing.T) {
	s := NewBuyHold()
	if _, sig := s.Next(State{}, stepAt(1, 100)); sig != nil {
		t.Errorf("Next() at bar 1 emitted %+v, want no signal", sig)
	}
}

func TestBuyHoldLatchesWhenUnaffordable(t *testing.T) {
	s := NewBuyHold()

	step := stepAt(0, 100)
	step.Cash = 50

	st, sig := s.Next(State{}, step)
	if sig != nil {
		t.Fatalf("Next() emitted %+v despite zero affordable shares", sig)
	}
	if !st.Bought {
		t.Error("Bought latch not set: strategy would retry on later bars")
	}
	if st.InPosition {
		t.Error("state entered a position without an order")
	}
}

// ---------------------------------------------------------------------------
// Registry
// ---------------------------------------------------------------------------

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(NewBreakout(20, 0.05, 0.15))
	r.Register(NewBuyHold())

	if _, ok := r.Get("breakout"); !ok {
		t.Error("Get(breakout) not found")
	}
	if _, ok := r.Get("buyhold"); !ok {
		t.Error("Get(buyhold) not found")
	}
	if _, ok := r.Get("momentum"); ok {
		t.Error("Get(momentum) found, want missing")
	}

	names := r.List()
	if len(names) != 2 || names[0] != "breakout" || names[1] != "buyhold" {
		t.Errorf("List() = %v, want [breakout buyhold]", names)
	}
}
