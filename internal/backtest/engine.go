// Package backtest replays a historical bar series through a strategy
// against an isolated simulated portfolio and produces comparable summary
// results. The replay is strictly sequential and deterministic: bar t is
// fully settled before bar t+1 is presented, and there is no randomness.
package backtest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tradelab/internal/domain"
	"tradelab/internal/indicator"
	"tradelab/internal/strategy"
)

// Config holds the portfolio parameters shared by every run in a
// comparison.
type Config struct {
	InitialCash    float64 // starting cash, must be > 0
	CommissionRate float64 // proportional fee per trade notional, must be >= 0
}

func (c Config) validate() error {
	if c.InitialCash <= 0 {
		return fmt.Errorf("initial cash must be positive, got %.2f", c.InitialCash)
	}
	if c.CommissionRate < 0 {
		return fmt.Errorf("commission rate must be non-negative, got %.4f", c.CommissionRate)
	}
	return nil
}

// Trade records one executed fill. Sells additionally carry the exit
// reason and the percentage P&L relative to the entry price.
type Trade struct {
	Timestamp  time.Time
	Side       domain.SignalType
	Qty        int64
	Price      float64
	Notional   float64
	Commission float64
	Reason     string  // sells only
	PnLPct     float64 // sells only
}

// EquityPoint is one sample of the running portfolio value (cash plus the
// open position marked at that bar's close).
type EquityPoint struct {
	Timestamp time.Time
	Equity    float64
}

// Result is the immutable summary of one completed run.
type Result struct {
	Strategy       string
	Symbol         string
	StartingValue  float64
	FinalValue     float64
	TotalReturnPct float64
	SharpeRatio    *float64 // nil when undefined (zero variance or too few returns)
	MaxDrawdownPct float64
	Trades         []Trade
	Equity         []EquityPoint
	TradeCount     int // entries taken by the strategy
}

// position is the engine-owned open position. At most one exists per run.
type position struct {
	qty        int64
	entryPrice float64
	entryTime  time.Time
}

// Engine replays bars through a single strategy. Each Run starts from a
// fresh portfolio; the engine itself carries no per-run state.
type Engine struct {
	cfg Config
	log *slog.Logger
}

// NewEngine creates an Engine with the given portfolio parameters.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg: cfg,
		log: slog.Default().With("component", "backtest"),
	}, nil
}

// Run replays the full bar series through the strategy and returns the
// completed Result. The series must already be validated; an open position
// at the end of the series is marked to market at the final close, not
// force-liquidated.
func (e *Engine) Run(ctx context.Context, bars []domain.Bar, strat strategy.Strategy) (*Result, error) {
	if err := domain.ValidateBars(bars); err != nil {
		return nil, fmt.Errorf("price series: %w", err)
	}

	extrema := indicator.NewRollingExtrema(bars, strat.LookbackPeriod())
	log := e.log.With("strategy", strat.Name(), "symbol", bars[0].Symbol)

	cash := e.cfg.InitialCash
	var pos *position
	var st strategy.State

	res := &Result{
		Strategy:      strat.Name(),
		Symbol:        bars[0].Symbol,
		StartingValue: e.cfg.InitialCash,
		Equity:        make([]EquityPoint, 0, len(bars)),
	}

	for i, bar := range bars {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		step := strategy.Step{
			Bar:   bar,
			Index: i,
			Cash:  cash,
		}
		if pos != nil {
			step.PositionQty = pos.qty
		}
		if h, ok := extrema.PrevHighest(i); ok {
			l, _ := extrema.PrevLowest(i)
			step.PrevHighest = h
			step.PrevLowest = l
			step.ExtremaReady = true
		}

		var sig *domain.Signal
		st, sig = strat.Next(st, step)
		if sig != nil {
			switch sig.Type {
			case domain.SignalBuy:
				cash, pos = e.fillBuy(log, cash, pos, sig, res)
			case domain.SignalSell:
				cash, pos = e.fillSell(log, cash, pos, sig, res)
			}
		}

		equity := cash
		if pos != nil {
			equity += float64(pos.qty) * bar.Close
		}
		res.Equity = append(res.Equity, EquityPoint{Timestamp: bar.Timestamp, Equity: equity})
	}

	res.TradeCount = st.TradeCount
	res.FinalValue = res.Equity[len(res.Equity)-1].Equity
	res.TotalReturnPct = (res.FinalValue - res.StartingValue) / res.StartingValue * 100
	res.SharpeRatio = sharpeRatio(res.Equity)
	res.MaxDrawdownPct = maxDrawdownPct(res.Equity)

	log.Info("run complete",
		"bars", len(bars),
		"trades", len(res.Trades),
		"final", res.FinalValue,
		"returnPct", res.TotalReturnPct,
	)
	return res, nil
}

// fillBuy settles a buy intent against the portfolio. The requested size is
// clamped down until notional plus commission fits in available cash.
func (e *Engine) fillBuy(log *slog.Logger, cash float64, pos *position, sig *domain.Signal, res *Result) (float64, *position) {
	if pos != nil {
		log.Warn("buy ignored: position already open", "date", sig.Timestamp.Format("2006-01-02"))
		return cash, pos
	}
	qty := sig.Qty
	for qty > 0 && float64(qty)*sig.Price*(1+e.cfg.CommissionRate) > cash {
		qty--
	}
	if qty <= 0 {
		log.Warn("buy ignored: insufficient cash", "date", sig.Timestamp.Format("2006-01-02"), "price", sig.Price)
		return cash, nil
	}

	notional := float64(qty) * sig.Price
	commission := notional * e.cfg.CommissionRate
	cash -= notional + commission

	res.Trades = append(res.Trades, Trade{
		Timestamp:  sig.Timestamp,
		Side:       domain.SignalBuy,
		Qty:        qty,
		Price:      sig.Price,
		Notional:   notional,
		Commission: commission,
	})
	log.Debug("fill", "side", "buy", "date", sig.Timestamp.Format("2006-01-02"), "price", sig.Price, "qty", qty)

	return cash, &position{qty: qty, entryPrice: sig.Price, entryTime: sig.Timestamp}
}

// fillSell settles a sell intent, always closing the full open position.
func (e *Engine) fillSell(log *slog.Logger, cash float64, pos *position, sig *domain.Signal, res *Result) (float64, *position) {
	if pos == nil {
		log.Warn("sell ignored: no open position", "date", sig.Timestamp.Format("2006-01-02"))
		return cash, nil
	}
	qty := pos.qty
	notional := float64(qty) * sig.Price
	commission := notional * e.cfg.CommissionRate
	cash += notional - commission

	pnlPct := (sig.Price - pos.entryPrice) / pos.entryPrice * 100
	res.Trades = append(res.Trades, Trade{
		Timestamp:  sig.Timestamp,
		Side:       domain.SignalSell,
		Qty:        qty,
		Price:      sig.Price,
		Notional:   notional,
		Commission: commission,
		Reason:     sig.Reason,
		PnLPct:     pnlPct,
	})
	log.Debug("fill", "side", "sell", "date", sig.Timestamp.Format("2006-01-02"), "price", sig.Price, "qty", qty, "reason", sig.Reason, "pnlPct", pnlPct)

	return cash, nil
}
