// Command tradelab downloads daily price history for one ticker, replays it
// through the breakout strategy and the buy-and-hold baseline in isolated
// simulated portfolios, prints the comparison report, and writes one
// candlestick chart per run.
//
// Usage:
//
//	TRADELAB_CONFIG=config/tradelab.yaml go run cmd/tradelab/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"tradelab/internal/backtest"
	"tradelab/internal/chart"
	"tradelab/internal/config"
	"tradelab/internal/marketdata"
	"tradelab/internal/report"
	"tradelab/internal/strategy"
	"tradelab/internal/util"
)

func main() {
	cfgPath := "config/tradelab.yaml"
	if p := os.Getenv("TRADELAB_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		if errors.Is(err, marketdata.ErrDataUnavailable) {
			log.Fatalf("failed to download data, check your connection or the ticker symbol: %v", err)
		}
		log.Fatalf("backtest failed: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	source := marketdata.NewAlpacaSource(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret,
		cfg.Alpaca.BaseURL, cfg.Alpaca.DataURL, cfg.Alpaca.Feed)

	// One-time scoped fetch: the same immutable series feeds both runs.
	end := time.Now()
	if day, err := source.LatestFinishedTradingDay(ctx); err == nil {
		end = day.Add(24 * time.Hour) // include the last finished session's bar
	} else {
		slog.Debug("calendar clamp unavailable, using wall clock", "err", err)
	}
	start := end.AddDate(-cfg.Backtest.Years, 0, 0)

	bars, err := source.DailyBars(ctx, cfg.Backtest.Symbol, start, end)
	if err != nil {
		return err
	}

	strategies, err := selectStrategies(cfg)
	if err != nil {
		return err
	}

	cmp, err := backtest.RunComparison(ctx, bars, backtest.Config{
		InitialCash:    cfg.Backtest.InitialCash,
		CommissionRate: cfg.Backtest.CommissionRate,
	}, strategies)
	if err != nil {
		return err
	}

	for _, res := range cmp.Results {
		report.WriteRunHeader(os.Stdout, res.Strategy)
		report.WriteTransactions(os.Stdout, res)
	}
	report.WriteComparison(os.Stdout, cmp)

	if cfg.Chart.Enabled {
		renderer := chart.NewRenderer(cfg.Chart.OutDir)
		for _, res := range cmp.Results {
			if _, err := renderer.RenderRun(bars, res); err != nil {
				slog.Warn("chart render failed", "strategy", res.Strategy, "err", err)
			}
		}
	}
	return nil
}

// selectStrategies builds the configured strategy lineup from the registry.
func selectStrategies(cfg *config.Config) ([]strategy.Strategy, error) {
	registry := strategy.NewRegistry()
	registry.Register(strategy.NewBreakout(
		cfg.Breakout.LookbackPeriod,
		cfg.Breakout.StopLossPct,
		cfg.Breakout.TakeProfitPct,
	))
	registry.Register(strategy.NewBuyHold())

	strategies := make([]strategy.Strategy, 0, len(cfg.Backtest.Strategies))
	for _, name := range cfg.Backtest.Strategies {
		s, ok := registry.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown strategy %q (known: %s)", name, strings.Join(registry.List(), ", "))
		}
		strategies = append(strategies, s)
	}
	return strategies, nil
}
