package chart

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tradelab/internal/backtest"
	"tradelab/internal/domain"
)

func sampleBars(n int) []domain.Bar {
	bars := make([]domain.Bar, n)
	for i := range bars {
		base := 100 + float64(i)
		bars[i] = domain.Bar{
			Symbol:    "TEST",
			Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Open:      base,
			High:      base + 2,
			Low:       base - 2,
			Close:     base + 1,
			Volume:    1000,
		}
	}
	return bars
}

func TestRenderRunWritesChartFile(t *testing.T) {
	bars := sampleBars(5)
	res := &backtest.Result{
		Strategy:       "breakout",
		Symbol:         "TEST",
		TotalReturnPct: 4.2,
		MaxDrawdownPct: 1.1,
		Trades: []backtest.Trade{
			{Timestamp: bars[1].Timestamp, Side: domain.SignalBuy, Qty: 10, Price: bars[1].Close},
			{Timestamp: bars[4].Timestamp, Side: domain.SignalSell, Qty: 10, Price: bars[4].Close, Reason: "Take Profit"},
		},
	}

	r := NewRenderer(t.TempDir())
	path, err := r.RenderRun(bars, res)
	if err != nil {
		t.Fatalf("RenderRun() returned error: %v", err)
	}
	if filepath.Base(path) != "test_breakout.html" {
		t.Errorf("chart file name = %q, want %q", filepath.Base(path), "test_breakout.html")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read chart file: %v", err)
	}
	html := string(data)
	for _, want := range []string{"Price", "Buy", "Sell", "2024-01-01"} {
		if !strings.Contains(html, want) {
			t.Errorf("chart HTML missing %q", want)
		}
	}
}

func TestRenderRunCreatesOutDir(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "nested", "charts")
	r := NewRenderer(outDir)

	res := &backtest.Result{Strategy: "buyhold", Symbol: "TEST"}
	if _, err := r.RenderRun(sampleBars(3), res); err != nil {
		t.Fatalf("RenderRun() returned error: %v", err)
	}
	if _, err := os.Stat(outDir); err != nil {
		t.Errorf("output directory not created: %v", err)
	}
}

func TestRenderRunEmptyBars(t *testing.T) {
	r := NewRenderer(t.TempDir())
	if _, err := r.RenderRun(nil, &backtest.Result{Strategy: "breakout", Symbol: "TEST"}); err == nil {
		t.Error("RenderRun() accepted an empty series")
	}
}
