// Package chart renders a completed backtest run as a candlestick chart
// with buy/sell trade markers. Rendering is purely observational: a failed
// render never affects simulation results.
package chart

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"tradelab/internal/backtest"
	"tradelab/internal/domain"
)

const (
	colorBull   = "#34d399"
	colorBear   = "#f87171"
	colorBuy    = "#3b82f6"
	colorSell   = "#fbbf24"
	chartWidth  = "1400px"
	chartHeight = "640px"
)

// Renderer writes one self-contained HTML chart file per strategy run into
// a fixed output directory.
type Renderer struct {
	outDir string
	log    *slog.Logger
}

// NewRenderer creates a Renderer that writes chart files under outDir.
func NewRenderer(outDir string) *Renderer {
	return &Renderer{
		outDir: outDir,
		log:    slog.Default().With("component", "chart"),
	}
}

// RenderRun renders the replayed OHLC series with the run's trade markers
// and writes it to <outdir>/<symbol>_<strategy>.html. It returns the path
// of the written file.
func (r *Renderer) RenderRun(bars []domain.Bar, res *backtest.Result) (string, error) {
	if len(bars) == 0 {
		return "", fmt.Errorf("no bars to render")
	}
	if err := os.MkdirAll(r.outDir, 0o755); err != nil {
		return "", fmt.Errorf("creating chart dir: %w", err)
	}

	kline := buildKline(bars, res)

	name := fmt.Sprintf("%s_%s.html", strings.ToLower(res.Symbol), res.Strategy)
	path := filepath.Join(r.outDir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating chart file: %w", err)
	}
	defer f.Close()

	if err := kline.Render(f); err != nil {
		return "", fmt.Errorf("rendering chart: %w", err)
	}
	r.log.Info("chart written", "strategy", res.Strategy, "path", path)
	return path, nil
}

func buildKline(bars []domain.Bar, res *backtest.Result) *charts.Kline {
	kline := charts.NewKLine()
	kline.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  chartWidth,
			Height: chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s / %s", strings.ToUpper(res.Symbol), res.Strategy),
			Subtitle: fmt.Sprintf("return %.2f%% | max drawdown %.2f%%", res.TotalReturnPct, res.MaxDrawdownPct),
			Left:     "left",
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", XAxisIndex: []int{0}}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Scale: opts.Bool(true)}),
	)
	kline.SetSeriesOptions(
		charts.WithItemStyleOpts(opts.ItemStyle{
			Color:        colorBull,
			Color0:       colorBear,
			BorderColor:  colorBull,
			BorderColor0: colorBear,
		}),
	)

	xAxis := make([]string, len(bars))
	klineData := make([]opts.KlineData, len(bars))
	for i, b := range bars {
		xAxis[i] = b.Date()
		klineData[i] = opts.KlineData{Value: [4]float64{b.Open, b.Close, b.Low, b.High}}
	}
	kline.SetXAxis(xAxis)
	kline.AddSeries("Price", klineData)

	kline.Overlap(buildTradeMarkers(bars, res.Trades))
	return kline
}

// buildTradeMarkers places buys as upward triangles below the fill price
// and sells as downward triangles, aligned to the category axis by index.
func buildTradeMarkers(bars []domain.Bar, trades []backtest.Trade) *charts.Scatter {
	byDate := make(map[string]int, len(bars))
	for i, b := range bars {
		byDate[b.Date()] = i
	}

	buys := emptyScatter(len(bars))
	sells := emptyScatter(len(bars))
	for _, t := range trades {
		i, ok := byDate[t.Timestamp.Format("2006-01-02")]
		if !ok {
			continue
		}
		point := opts.ScatterData{
			Value:      t.Price,
			Symbol:     "triangle",
			SymbolSize: 14,
		}
		switch t.Side {
		case domain.SignalBuy:
			buys[i] = point
		case domain.SignalSell:
			point.SymbolRotate = 180
			point.Name = t.Reason
			sells[i] = point
		}
	}

	scatter := charts.NewScatter()
	scatter.AddSeries("Buy", buys, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorBuy}))
	scatter.AddSeries("Sell", sells, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorSell}))
	return scatter
}

func emptyScatter(n int) []opts.ScatterData {
	data := make([]opts.ScatterData, n)
	for i := range data {
		data[i] = opts.ScatterData{Value: nil}
	}
	return data
}
