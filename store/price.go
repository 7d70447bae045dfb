package store

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ledgerbase/ledgerbase/ast"
)

// PricePoint is one observed exchange rate from Commodity to Target on
// Date, as declared by a price directive.
type PricePoint struct {
	Date      ast.Date
	Source    string // the file the price was declared in, for provenance
	Commodity string
	Target    string
	Rate      decimal.Decimal
}

// PriceHistory holds every PricePoint ever recorded for a given
// (from, to) commodity pair, kept sorted by date so forward-fill
// lookups can binary-search for "the most recent point on or before".
type PriceHistory struct {
	points map[pairKey][]PricePoint
}

type pairKey struct{ from, to string }

func NewPriceHistory() *PriceHistory {
	return &PriceHistory{points: map[pairKey][]PricePoint{}}
}

func (h *PriceHistory) Add(p PricePoint) {
	key := pairKey{p.Commodity, p.Target}
	points := h.points[key]
	i := sort.Search(len(points), func(i int) bool { return points[i].Date.Time.After(p.Date.Time) })
	points = append(points, PricePoint{})
	copy(points[i+1:], points[i:])
	points[i] = p
	h.points[key] = points
}

// Lookup returns the most recent rate from -> to on or before date,
// trying the inverse pair (and inverting the rate) when no direct
// observation exists, matching spec.md §3's forward-fill requirement.
func (h *PriceHistory) Lookup(date ast.Date, from, to string) (decimal.Decimal, bool) {
	if from == to {
		return decimal.NewFromInt(1), true
	}
	if rate, ok := h.lookupDirect(date, from, to); ok {
		return rate, true
	}
	if rate, ok := h.lookupDirect(date, to, from); ok && !rate.IsZero() {
		return decimal.NewFromInt(1).Div(rate), true
	}
	return decimal.Zero, false
}

func (h *PriceHistory) lookupDirect(date ast.Date, from, to string) (decimal.Decimal, bool) {
	points := h.points[pairKey{from, to}]
	var best *PricePoint
	for i := range points {
		if points[i].Date.Time.After(date.Time) {
			break
		}
		best = &points[i]
	}
	if best == nil {
		return decimal.Zero, false
	}
	return best.Rate, true
}

func (h *PriceHistory) Pairs() []pairKey {
	out := make([]pairKey, 0, len(h.points))
	for k := range h.points {
		out = append(out, k)
	}
	return out
}
