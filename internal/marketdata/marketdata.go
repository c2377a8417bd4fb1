// Package marketdata retrieves historical daily price bars for a single
// ticker. The backtest treats the data source as an external collaborator:
// one fetch at startup, validated once, then replayed read-only.
package marketdata

import (
	"context"
	"errors"
	"time"

	"tradelab/internal/domain"
)

// ErrDataUnavailable is the single fatal error class of the data layer:
// network failure, unknown symbol, and empty result all wrap it. The
// orchestrator aborts the whole run when it sees this; no partial
// comparison is ever reported.
var ErrDataUnavailable = errors.New("market data unavailable")

// Source fetches a chronological daily bar series for one symbol over
// [start, end]. Implementations must return an error wrapping
// ErrDataUnavailable instead of an empty slice.
type Source interface {
	// DailyBars returns daily OHLCV bars for symbol within [start, end].
	DailyBars(ctx context.Context, symbol string, start, end time.Time) ([]domain.Bar, error)
}

// DateRange represents the requested fetch window.
type DateRange struct {
	Start time.Time
	End   time.Time
}
