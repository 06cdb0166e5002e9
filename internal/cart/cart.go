// Package cart holds the in-memory cart aggregate. All operations are pure
// mutations over the ordered line list; persistence is the caller's concern
// (the Redis-backed store writes the whole aggregate after each change).
package cart

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Line is one cart entry. UnitPrice is captured when the line is created and
// never re-fetched, so historical totals stay stable when catalog prices
// change. Stock is the ceiling of the selected variant, refreshed by the
// service before each mutation.
type Line struct {
	Key          string          `json:"key"`
	ProductID    uint            `json:"product_id"`
	SizeID       *uint           `json:"size_id,omitempty"`
	PackID       *uint           `json:"pack_id,omitempty"`
	ProductName  string          `json:"product_name"`
	VariantLabel string          `json:"variant_label,omitempty"`
	UnitType     string          `json:"unit_type,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Stock        int             `json:"stock"`
	Quantity     int             `json:"quantity"`
}

// Aggregate is an ordered sequence of lines; insertion order is display
// order. Totals are always derived, never stored.
type Aggregate struct {
	Lines []Line `json:"lines"`
}

// LineKey builds the product+variant identity a line is keyed by.
func LineKey(productID uint, sizeID, packID *uint) string {
	key := fmt.Sprintf("p%d", productID)
	if sizeID != nil {
		key += fmt.Sprintf(":s%d", *sizeID)
	}
	if packID != nil {
		key += fmt.Sprintf(":k%d", *packID)
	}
	return key
}

// New returns an empty aggregate.
func New() *Aggregate {
	return &Aggregate{}
}

func (a *Aggregate) find(key string) *Line {
	for i := range a.Lines {
		if a.Lines[i].Key == key {
			return &a.Lines[i]
		}
	}
	return nil
}

// AddLine adds one unit of the given product+variant. Out-of-stock items are
// silently refused, and a line already at its stock ceiling stays unchanged.
// Returns whether the aggregate changed (the caller persists only on change).
func (a *Aggregate) AddLine(line Line) bool {
	if line.Stock <= 0 {
		return false
	}

	if existing := a.find(line.Key); existing != nil {
		// refresh ceiling along the way
		existing.Stock = line.Stock
		next := existing.Quantity + 1
		if next > existing.Stock {
			next = existing.Stock
		}
		if next == existing.Quantity {
			return false
		}
		existing.Quantity = next
		return true
	}

	line.Quantity = 1
	a.Lines = append(a.Lines, line)
	return true
}

// UpdateQuantity sets a line's quantity, clamped to [1, stock]. A quantity of
// zero or less removes the line. A clamped value equal to the current one is
// a no-op so redundant persistence writes are avoided.
func (a *Aggregate) UpdateQuantity(key string, quantity int) bool {
	line := a.find(key)
	if line == nil {
		return false
	}

	if quantity <= 0 {
		return a.RemoveLine(key)
	}

	clamped := quantity
	if clamped > line.Stock {
		clamped = line.Stock
	}
	if clamped < 1 {
		clamped = 1
	}
	if clamped == line.Quantity {
		return false
	}
	line.Quantity = clamped
	return true
}

// RemoveLine deletes a line by key. Idempotent.
func (a *Aggregate) RemoveLine(key string) bool {
	for i := range a.Lines {
		if a.Lines[i].Key == key {
			a.Lines = append(a.Lines[:i], a.Lines[i+1:]...)
			return true
		}
	}
	return false
}

// SetStock refreshes a line's stock ceiling from the live catalog. The
// quantity is pulled down to the new ceiling; a line whose variant has no
// stock left is removed, never left at zero.
func (a *Aggregate) SetStock(key string, stock int) bool {
	line := a.find(key)
	if line == nil {
		return false
	}
	if stock <= 0 {
		return a.RemoveLine(key)
	}
	changed := line.Stock != stock
	line.Stock = stock
	if line.Quantity > stock {
		line.Quantity = stock
		changed = true
	}
	return changed
}

// TotalItems sums line quantities.
func (a *Aggregate) TotalItems() int {
	total := 0
	for i := range a.Lines {
		total += a.Lines[i].Quantity
	}
	return total
}

// TotalPrice sums price*quantity over the captured line prices.
func (a *Aggregate) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for i := range a.Lines {
		line := &a.Lines[i]
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// Clear discards all lines.
func (a *Aggregate) Clear() {
	a.Lines = nil
}

// IsEmpty reports whether the aggregate has no lines.
func (a *Aggregate) IsEmpty() bool {
	return len(a.Lines) == 0
}
