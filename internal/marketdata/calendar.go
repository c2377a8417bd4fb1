package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
)

// sessionSettleHour is the hour (ET) after which a trading day's daily bar
// is treated as final. Extended-hours prints keep settling past the 16:00
// close, so the cutoff sits after the 20:00 extended session.
const (
	sessionSettleHour   = 20
	sessionSettleMinute = 5
)

// LatestFinishedTradingDay returns the most recent US trading day whose
// session has fully settled, according to the Alpaca trading calendar. The
// run clamps its fetch window to this day so a backtest started during
// market hours never consumes a half-formed daily bar.
func (s *AlpacaSource) LatestFinishedTradingDay(ctx context.Context) (time.Time, error) {
	if ctx.Err() != nil {
		return time.Time{}, ctx.Err()
	}

	et, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.Time{}, fmt.Errorf("loading ET timezone: %w", err)
	}
	now := time.Now().In(et)

	days, err := s.trading.GetCalendar(alpaca.GetCalendarRequest{
		Start: now.AddDate(0, 0, -7),
		End:   now,
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("GetCalendar: %w", err)
	}
	if len(days) == 0 {
		return time.Time{}, fmt.Errorf("no trading days in calendar window")
	}

	today := now.Format("2006-01-02")
	settled := time.Date(now.Year(), now.Month(), now.Day(), sessionSettleHour, sessionSettleMinute, 0, 0, et)

	for i := len(days) - 1; i >= 0; i-- {
		if days[i].Date == today && now.Before(settled) {
			continue // today's bar is still forming
		}
		day, err := time.Parse("2006-01-02", days[i].Date)
		if err != nil {
			continue
		}
		if !day.After(now) {
			return day, nil
		}
	}
	return time.Time{}, fmt.Errorf("no finished trading day in calendar window")
}
