// Package strategy defines the per-bar decision contract for trading
// strategies and provides a Registry for selecting them by name.
//
// Strategies are pure: each step maps (State, Step) to (State, Signal?)
// with no hidden mutation, so a run is a trivial fold over the bar series
// and every decision is unit-testable without an engine.
package strategy

import (
	"math"
	"sort"

	"tradelab/internal/domain"
)

// CashReserveFraction is the share of available cash a buy may commit.
// Keeping 5% uncommitted leaves room for the commission on the fill.
const CashReserveFraction = 0.95

// State is the strategy-owned state threaded through consecutive steps.
// It is a value, not a pointer: each step returns the next state and the
// engine never reaches into it.
type State struct {
	InPosition bool
	EntryPrice float64 // defined iff InPosition
	TradeCount int     // entries taken, informational only
	Bought     bool    // buy-and-hold latch
}

// Step is everything a strategy may observe at one bar: the bar itself,
// the previous-step rolling extrema, and a read-only portfolio view.
type Step struct {
	Bar   domain.Bar
	Index int

	// Rolling extrema of the period preceding this bar. Not meaningful
	// until ExtremaReady is true (the lookback window must be full).
	PrevHighest  float64
	PrevLowest   float64
	ExtremaReady bool

	Cash        float64 // available cash before any order at this step
	PositionQty int64   // open position size in shares, 0 when flat
}

// Strategy is the interface all trading strategies implement.
type Strategy interface {
	// Name returns the unique identifier for this strategy.
	Name() string

	// LookbackPeriod returns the rolling-extrema window the strategy
	// needs, or 0 if it consumes no extrema.
	LookbackPeriod() int

	// Next processes one bar in chronological order and returns the next
	// state plus an optional order intent. A nil signal means no action.
	Next(st State, step Step) (State, *domain.Signal)
}

// Shares sizes a buy at the reserved fraction of available cash, floored
// to a whole share count. Returns 0 when cash cannot cover a single share.
func Shares(cash, price float64) int64 {
	if price <= 0 || cash <= 0 {
		return 0
	}
	return int64(math.Floor(cash * CashReserveFraction / price))
}

// Registry holds a named collection of strategies for lookup and
// enumeration.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry creates an empty strategy Registry.
func NewRegistry() *Registry {
	return &Registry{
		strategies: make(map[string]Strategy),
	}
}

// Register adds a strategy to the registry, keyed by its Name().
func (r *Registry) Register(s Strategy) {
	r.strategies[s.Name()] = s
}

// Get retrieves a strategy by name. The second return value indicates
// whether the strategy was found.
func (r *Registry) Get(name string) (Strategy, bool) {
	s, ok := r.strategies[name]
	return s, ok
}

// List returns a sorted slice of all registered strategy names.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
