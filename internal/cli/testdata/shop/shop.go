package shop

import (
	"context"
	"errors"
)

// Cart holds line items.
type Cart struct {
	items []string
}

func NewCart(capacity int) *Cart {
	return &Cart{items: make([]string, 0, capacity)}
}

//measure::measured
func (c *Cart) Add(ctx context.Context, item string) error {
	if item == "" {
		return errors.New("empty item")
	}
	c.items = append(c.items, item)
	return nil
}

func (c *Cart) Len() int { return len(c.items) }

// Ledger has two constructors and cannot be wrapped.
type Ledger struct {
	total int
}

func NewLedger() *Ledger { return &Ledger{} }

func NewLedgerWithTotal(total int) *Ledger { return &Ledger{total: total} }

//measure::measured
func (l *Ledger) Post(amount int) { l.total += amount }
