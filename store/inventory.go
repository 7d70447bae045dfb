package store

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Inventory holds every lot an account carries, grouped by commodity.
// Reductions below zero are resolved by one of five booking methods
// declared on the account (spec.md §3's Inventory Lot model).
type Inventory struct {
	lots map[string][]*Lot
}

func NewInventory() *Inventory {
	return &Inventory{lots: make(map[string][]*Lot)}
}

func (inv *Inventory) Get(commodity string) decimal.Decimal {
	total := decimal.Zero
	for _, lot := range inv.lots[commodity] {
		total = total.Add(lot.Amount)
	}
	return total
}

func (inv *Inventory) GetLots(commodity string) []*Lot {
	return inv.lots[commodity]
}

func (inv *Inventory) Currencies() []string {
	out := make([]string, 0, len(inv.lots))
	for c := range inv.lots {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (inv *Inventory) IsEmpty() bool {
	for _, lots := range inv.lots {
		for _, l := range lots {
			if !l.Amount.IsZero() {
				return false
			}
		}
	}
	return true
}

// AddLot merges amount into an existing lot whose spec matches, or
// appends a new lot. Positive and default-spec (no cost) lots are the
// common case: a plain deposit merges into the account's single
// no-cost lot for that commodity.
func (inv *Inventory) AddLot(commodity string, amount decimal.Decimal, spec *LotSpec) {
	if spec == nil {
		spec = &LotSpec{}
	}
	for _, lot := range inv.lots[commodity] {
		if lot.Spec.Equal(spec) {
			lot.Amount = lot.Amount.Add(amount)
			return
		}
	}
	inv.lots[commodity] = append(inv.lots[commodity], &Lot{Commodity: commodity, Amount: amount, Spec: spec})
}

// ReduceLot subtracts |amount| (amount must be negative) from the
// commodity's lots. An explicit spec requires an exact matching lot;
// an empty spec "{}" delegates to the account's declared booking
// method.
func (inv *Inventory) ReduceLot(commodity string, amount decimal.Decimal, spec *LotSpec, bookingMethod string) error {
	if spec != nil && !spec.IsEmpty() {
		return inv.reduceSpecificLot(commodity, amount, spec)
	}
	return inv.reduceWithBooking(commodity, amount, bookingMethod)
}

func (inv *Inventory) reduceSpecificLot(commodity string, amount decimal.Decimal, spec *LotSpec) error {
	lots := inv.lots[commodity]
	for i, lot := range lots {
		if !lot.Spec.Equal(spec) {
			continue
		}
		if lot.Amount.Add(amount).IsNegative() {
			return fmt.Errorf("insufficient lot of %s %s: have %s, need %s", commodity, spec, lot.Amount, amount.Neg())
		}
		lot.Amount = lot.Amount.Add(amount)
		if lot.Amount.IsZero() {
			inv.lots[commodity] = append(lots[:i], lots[i+1:]...)
		}
		return nil
	}
	return fmt.Errorf("no lot of %s matching %s", commodity, spec)
}

func (inv *Inventory) reduceWithBooking(commodity string, amount decimal.Decimal, bookingMethod string) error {
	switch bookingMethod {
	case "":
		// No booking method was declared on the account: fall back to
		// FIFO, the one lot-selection algorithm spec.md actually
		// specifies, rather than appending a negative-quantity lot.
		return inv.reduceOrdered(commodity, amount, true)
	case "NONE":
		if total := inv.Get(commodity); total.Add(amount).IsNegative() {
			return fmt.Errorf("insufficient inventory of %s: have %s, need %s", commodity, total, amount.Neg())
		}
		inv.AddLot(commodity, amount, &LotSpec{})
		return nil
	case "AVERAGE":
		return inv.reduceWithAverage(commodity, amount)
	case "FIFO":
		return inv.reduceOrdered(commodity, amount, true)
	case "LIFO":
		return inv.reduceOrdered(commodity, amount, false)
	case "STRICT":
		// With an empty cost spec under STRICT booking there is no
		// ambiguity to resolve automatically: the caller must have
		// supplied an explicit cost (validated before this is ever
		// reached), so an empty spec here means no lot was specified
		// at all against an account that requires one.
		return fmt.Errorf("account uses STRICT booking: an explicit lot must be specified to reduce %s", commodity)
	default:
		return fmt.Errorf("unknown booking method %q", bookingMethod)
	}
}

// reduceOrdered implements FIFO (oldest first) and LIFO (newest
// first) consumption. Undated lots sort before dated ones under FIFO
// (treated as oldest) and after dated ones under LIFO (treated as
// newest), matching common ledger convention for manually seeded
// opening balances.
func (inv *Inventory) reduceOrdered(commodity string, amount decimal.Decimal, fifo bool) error {
	lots := append([]*Lot{}, inv.lots[commodity]...)
	sort.SliceStable(lots, func(i, j int) bool {
		di, dj := lots[i].Spec.Date, lots[j].Spec.Date
		if di == nil && dj == nil {
			return false
		}
		if di == nil {
			return fifo
		}
		if dj == nil {
			return !fifo
		}
		if fifo {
			return di.Time.Before(dj.Time)
		}
		return di.Time.After(dj.Time)
	})

	remaining := amount.Abs()
	consumed := map[*Lot]decimal.Decimal{}
	for _, lot := range lots {
		if remaining.IsZero() {
			break
		}
		take := decimal.Min(remaining, lot.Amount)
		consumed[lot] = take
		remaining = remaining.Sub(take)
	}
	if !remaining.IsZero() {
		return fmt.Errorf("insufficient inventory of %s: short by %s", commodity, remaining)
	}

	var kept []*Lot
	for _, lot := range inv.lots[commodity] {
		took, ok := consumed[lot]
		if !ok {
			kept = append(kept, lot)
			continue
		}
		lot.Amount = lot.Amount.Sub(took)
		if !lot.Amount.IsZero() {
			kept = append(kept, lot)
		}
	}
	inv.lots[commodity] = kept
	return nil
}

func (inv *Inventory) reduceWithAverage(commodity string, amount decimal.Decimal) error {
	lots := inv.lots[commodity]
	total := decimal.Zero
	totalCost := decimal.Zero
	costCurrency := ""
	for _, lot := range lots {
		total = total.Add(lot.Amount)
		if lot.Spec != nil && lot.Spec.Cost != nil {
			totalCost = totalCost.Add(lot.Amount.Mul(*lot.Spec.Cost))
			costCurrency = lot.Spec.CostCurrency
		}
	}
	if total.Add(amount).IsNegative() {
		return fmt.Errorf("insufficient inventory of %s: have %s, need %s", commodity, total, amount.Neg())
	}
	delete(inv.lots, commodity)
	remaining := total.Add(amount)
	if !remaining.IsZero() && !totalCost.IsZero() {
		avgCost := totalCost.Div(total)
		inv.lots[commodity] = []*Lot{{
			Commodity: commodity,
			Amount:    remaining,
			Spec:      &LotSpec{Cost: &avgCost, CostCurrency: costCurrency},
		}}
	} else if !remaining.IsZero() {
		inv.lots[commodity] = []*Lot{{Commodity: commodity, Amount: remaining, Spec: &LotSpec{}}}
	}
	return nil
}

// CanReduceLot is a dry-run check: it reports whether ReduceLot would
// succeed, without actually performing the reduction.
func (inv *Inventory) CanReduceLot(commodity string, amount decimal.Decimal, spec *LotSpec, bookingMethod string) bool {
	clone := &Inventory{lots: map[string][]*Lot{}}
	for c, lots := range inv.lots {
		for _, l := range lots {
			cp := *l
			clone.lots[c] = append(clone.lots[c], &cp)
		}
	}
	return clone.ReduceLot(commodity, amount, spec, bookingMethod) == nil
}

func (inv *Inventory) String() string {
	out := "{"
	for i, c := range inv.Currencies() {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s %s", inv.Get(c), c)
	}
	return out + "}"
}
