// Package report renders backtest results as the fixed-format console
// report: one banner and transaction log per run, a summary block per
// strategy, and a final performance-difference line.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"tradelab/internal/backtest"
	"tradelab/internal/domain"
)

const bannerWidth = 50

// displayNames maps strategy identifiers to the headings used in the
// report. Unknown strategies fall back to their upper-cased identifier.
var displayNames = map[string]string{
	"breakout": "BREAKOUT STRATEGY",
	"buyhold":  "BUY AND HOLD STRATEGY",
}

func displayName(strategy string) string {
	if name, ok := displayNames[strategy]; ok {
		return name
	}
	return strings.ToUpper(strategy)
}

// WriteRunHeader prints the banner announcing a strategy run, ahead of its
// transaction log.
func WriteRunHeader(w io.Writer, strategy string) {
	banner := strings.Repeat("=", bannerWidth)
	fmt.Fprintf(w, "\n%s\n", banner)
	fmt.Fprintf(w, "RUNNING %s\n", displayName(strategy))
	fmt.Fprintf(w, "%s\n", banner)
}

// WriteTransactions prints the human-readable transaction log for one run:
// one line per fill with date and price, plus exit reason and P&L%% on
// sells. Purely observational.
func WriteTransactions(w io.Writer, res *backtest.Result) {
	for _, t := range res.Trades {
		switch t.Side {
		case domain.SignalBuy:
			fmt.Fprintf(w, "BUY at %.2f on %s\n", t.Price, t.Timestamp.Format("2006-01-02"))
		case domain.SignalSell:
			fmt.Fprintf(w, "SELL at %.2f on %s - %s - P&L: %.2f%%\n",
				t.Price, t.Timestamp.Format("2006-01-02"), t.Reason, t.PnLPct)
		}
	}
}

// WriteComparison prints the results-comparison block: a summary per
// strategy followed by the performance-difference delta line.
func WriteComparison(w io.Writer, cmp *backtest.Comparison) {
	banner := strings.Repeat("=", bannerWidth)
	fmt.Fprintf(w, "\n%s\n", banner)
	fmt.Fprintf(w, "BACKTEST RESULTS COMPARISON\n")
	fmt.Fprintf(w, "%s\n", banner)

	for _, res := range cmp.Results {
		writeSummary(w, res)
	}

	if cmp.HasDelta && len(cmp.Results) >= 2 {
		fmt.Fprintf(w, "\nPERFORMANCE DIFFERENCE:\n")
		fmt.Fprintf(w, "%s vs %s: %.2f%% difference\n",
			titleCase(cmp.Results[0].Strategy), titleCase(cmp.Results[1].Strategy), cmp.DeltaReturnPct)
	}
}

func writeSummary(w io.Writer, res *backtest.Result) {
	fmt.Fprintf(w, "\n%s:\n", displayName(res.Strategy))
	fmt.Fprintf(w, "Starting Portfolio Value: $%s\n", formatDollars(res.StartingValue))
	fmt.Fprintf(w, "Final Portfolio Value: $%s\n", formatDollars(res.FinalValue))
	fmt.Fprintf(w, "Total Return: %.2f%%\n", res.TotalReturnPct)
	if res.SharpeRatio != nil {
		fmt.Fprintf(w, "Sharpe Ratio: %.2f\n", *res.SharpeRatio)
	} else {
		fmt.Fprintf(w, "Sharpe Ratio: N/A\n")
	}
	fmt.Fprintf(w, "Max Drawdown: %.2f%%\n", res.MaxDrawdownPct)
}

func titleCase(strategy string) string {
	switch strategy {
	case "breakout":
		return "Breakout"
	case "buyhold":
		return "Buy&Hold"
	default:
		return strategy
	}
}

// formatDollars formats a dollar amount with comma thousands separators and
// two decimals.
func formatDollars(v float64) string {
	neg := v < 0
	v = math.Abs(v)

	whole := int64(v)
	cents := int64(math.Round((v - float64(whole)) * 100))
	if cents == 100 {
		whole++
		cents = 0
	}

	s := fmt.Sprintf("%d", whole)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	start := len(s) % 3
	if start > 0 {
		b.WriteString(s[:start])
	}
	for i := start; i < len(s); i += 3 {
		if b.Len() > 0 && !(neg && b.Len() == 1) {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	fmt.Fprintf(&b, ".%02d", cents)
	return b.String()
}
