package marketdata

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"tradelab/internal/domain"
)

// Compile-time interface check.
var _ Source = (*AlpacaSource)(nil)

// AlpacaSource fetches daily OHLCV bars for US equities via the Alpaca
// market-data API, and consults the Alpaca trading calendar to pick the
// fetch end date (see LatestFinishedTradingDay).
type AlpacaSource struct {
	client  *marketdata.Client
	trading *alpaca.Client
	feed    string
	log     *slog.Logger
}

// NewAlpacaSource creates an AlpacaSource configured with the given Alpaca
// credentials. baseURL, dataURL, and feed may be empty, in which case the
// SDK default endpoints and the IEX feed are used.
func NewAlpacaSource(apiKey, apiSecret, baseURL, dataURL, feed string) *AlpacaSource {
	dataOpts := marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	}
	if dataURL != "" {
		dataOpts.BaseURL = dataURL
	}
	if feed == "" {
		feed = "iex"
	}

	return &AlpacaSource{
		client: marketdata.NewClient(dataOpts),
		trading: alpaca.NewClient(alpaca.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
			BaseURL:   baseURL,
		}),
		feed: feed,
		log:  slog.Default().With("source", "alpaca"),
	}
}

// DailyBars fetches split/dividend-adjusted daily bars for the symbol within
// [start, end]. A transport failure, unknown symbol, or empty range all
// surface as ErrDataUnavailable.
func (s *AlpacaSource) DailyBars(ctx context.Context, symbol string, start, end time.Time) ([]domain.Bar, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", ErrDataUnavailable)
	}

	s.log.Info("fetching daily bars",
		"symbol", symbol,
		"start", start.Format("2006-01-02"),
		"end", end.Format("2006-01-02"),
		"feed", s.feed,
	)

	alpacaBars, err := s.client.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Start:      start,
		End:        end,
		Adjustment: marketdata.All,
		Feed:       marketdata.Feed(s.feed),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: GetBars %s: %v", ErrDataUnavailable, symbol, err)
	}
	if len(alpacaBars) == 0 {
		return nil, fmt.Errorf("%w: no daily bars for %s in [%s, %s]",
			ErrDataUnavailable, symbol, start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	bars := make([]domain.Bar, 0, len(alpacaBars))
	for _, ab := range alpacaBars {
		bars = append(bars, domain.Bar{
			Symbol:    symbol,
			Timestamp: ab.Timestamp,
			Open:      ab.Open,
			High:      ab.High,
			Low:       ab.Low,
			Close:     ab.Close,
			Volume:    int64(ab.Volume),
		})
	}

	if err := domain.ValidateBars(bars); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDataUnavailable, symbol, err)
	}

	s.log.Info("fetched daily bars", "symbol", symbol, "bars", len(bars))
	return bars, nil
}
