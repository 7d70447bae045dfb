// Package store holds the Processor's authoritative, in-memory state:
// accounts, commodities, price history, and per-(account, commodity)
// inventories. It is written by exactly one goroutine (the Processor,
// applying directives strictly in order) and read by any number of
// concurrent Query Surface callers while a sync.RWMutex is held.
package store

import (
	"sync"

	"github.com/ledgerbase/ledgerbase/ast"
	"github.com/ledgerbase/ledgerbase/options"
)

type inventoryKey struct {
	account   ast.Account
	commodity string
}

// Store is the single-writer/multi-reader state described in
// spec.md §4.4.
type Store struct {
	mu sync.RWMutex

	Options     *options.Options
	Accounts    map[ast.Account]*Account
	Commodities map[string]*Commodity
	Prices      *PriceHistory

	inventories map[inventoryKey]*Inventory
}

func New(opts *options.Options) *Store {
	return &Store{
		Options:     opts,
		Accounts:    make(map[ast.Account]*Account),
		Commodities: make(map[string]*Commodity),
		Prices:      NewPriceHistory(),
		inventories: make(map[inventoryKey]*Inventory),
	}
}

// Lock/RLock/Unlock/RUnlock expose the single-writer/multi-reader
// discipline spec.md §5 requires directly on the Store, so the
// Processor (writer) and the Query Surface (readers) share one lock
// rather than each inventing their own.
func (s *Store) Lock()    { s.mu.Lock() }
func (s *Store) Unlock()  { s.mu.Unlock() }
func (s *Store) RLock()   { s.mu.RLock() }
func (s *Store) RUnlock() { s.mu.RUnlock() }

func (s *Store) Inventory(account ast.Account, commodity string) *Inventory {
	key := inventoryKey{account, commodity}
	inv, ok := s.inventories[key]
	if !ok {
		inv = NewInventory()
		s.inventories[key] = inv
	}
	return inv
}

// AccountInventories returns every inventory currently tracked for
// account, keyed by commodity.
func (s *Store) AccountInventories(account ast.Account) map[string]*Inventory {
	out := map[string]*Inventory{}
	for key, inv := range s.inventories {
		if key.account == account {
			out[key.commodity] = inv
		}
	}
	return out
}
