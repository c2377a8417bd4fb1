package backtest

import (
	"context"
	"fmt"

	"tradelab/internal/domain"
	"tradelab/internal/marketdata"
	"tradelab/internal/strategy"
)

// Comparison holds the results of running the same bar series through each
// strategy in its own isolated portfolio, plus the derived return delta
// between the first and second run (breakout minus buy-and-hold in the
// default configuration).
type Comparison struct {
	Results        []*Result
	DeltaReturnPct float64
	HasDelta       bool
}

// RunComparison validates the bar series once, then replays it through each
// strategy on a fresh engine. Strategy runs share nothing: identical
// re-runs on the same inputs yield identical results. An invalid or empty
// series aborts the whole comparison with marketdata.ErrDataUnavailable and
// produces no partial results.
func RunComparison(ctx context.Context, bars []domain.Bar, cfg Config, strategies []strategy.Strategy) (*Comparison, error) {
	if err := domain.ValidateBars(bars); err != nil {
		return nil, fmt.Errorf("%w: %v", marketdata.ErrDataUnavailable, err)
	}
	if len(strategies) == 0 {
		return nil, fmt.Errorf("no strategies to run")
	}

	cmp := &Comparison{Results: make([]*Result, 0, len(strategies))}
	for _, strat := range strategies {
		engine, err := NewEngine(cfg)
		if err != nil {
			return nil, err
		}
		res, err := engine.Run(ctx, bars, strat)
		if err != nil {
			return nil, fmt.Errorf("running %s: %w", strat.Name(), err)
		}
		cmp.Results = append(cmp.Results, res)
	}

	if len(cmp.Results) >= 2 {
		cmp.DeltaReturnPct = cmp.Results[0].TotalReturnPct - cmp.Results[1].TotalReturnPct
		cmp.HasDelta = true
	}
	return cmp, nil
}
