// Package cart holds the in-session shopping cart.
package cart

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/utafrali/storefront/internal/domain"
)

// MaxQuantityPerItem is the largest quantity a single line may hold.
const MaxQuantityPerItem = 100

// Ledger is an insertion-ordered set of cart lines keyed by product id.
// Quantities are always within [1, MaxQuantityPerItem]; a product with no
// quantity has no line.
//
// Ledger is not safe for concurrent use.
type Ledger struct {
	lines map[int]*domain.CartLine
	order []int
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{lines: make(map[int]*domain.CartLine)}
}

// Add increments the quantity of the product's line, appending a new line
// with quantity 1 when none exists. It reports false and leaves the line
// unchanged when the line is already at MaxQuantityPerItem.
func (l *Ledger) Add(p domain.Product) bool {
	if line, ok := l.lines[p.ID]; ok {
		if line.Quantity >= MaxQuantityPerItem {
			return false
		}
		line.Quantity++
		return true
	}
	l.lines[p.ID] = &domain.CartLine{Product: p, Quantity: 1}
	l.order = append(l.order, p.ID)
	return true
}

// Remove deletes the line for productID. Absent ids are ignored.
func (l *Ledger) Remove(productID int) {
	if _, ok := l.lines[productID]; !ok {
		return
	}
	delete(l.lines, productID)
	if i := slices.Index(l.order, productID); i >= 0 {
		l.order = slices.Delete(l.order, i, i+1)
	}
}

// SetQuantity replaces the quantity of an existing line. Quantities below 1
// and absent ids are ignored; use Remove to drop a line. Quantities above
// MaxQuantityPerItem are capped.
func (l *Ledger) SetQuantity(productID, quantity int) {
	if quantity < 1 {
		return
	}
	quantity = min(quantity, MaxQuantityPerItem)
	if line, ok := l.lines[productID]; ok {
		line.Quantity = quantity
	}
}

// Quantity returns the quantity of the product's line, if any.
func (l *Ledger) Quantity(productID int) (int, bool) {
	line, ok := l.lines[productID]
	if !ok {
		return 0, false
	}
	return line.Quantity, true
}

// Lines returns a copy of the lines in insertion order.
func (l *Ledger) Lines() []domain.CartLine {
	out := make([]domain.CartLine, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, *l.lines[id])
	}
	return out
}

// Len returns the number of distinct lines.
func (l *Ledger) Len() int {
	return len(l.order)
}

// ItemCount returns the sum of all quantities.
func (l *Ledger) ItemCount() int {
	var n int
	for _, line := range l.lines {
		n += line.Quantity
	}
	return n
}

// Total returns the exact sum of price * quantity over all lines. Rounding to
// currency precision is left to presentation.
func (l *Ledger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, id := range l.order {
		total = total.Add(l.lines[id].Subtotal())
	}
	return total
}

// Clear removes every line.
func (l *Ledger) Clear() {
	clear(l.lines)
	l.order = l.order[:0]
}

// View returns the presentation form of the ledger.
func (l *Ledger) View() domain.CartView {
	return domain.CartView{
		Lines:     l.Lines(),
		LineCount: l.Len(),
		ItemCount: l.ItemCount(),
		Total:     domain.FormatAmount(l.Total()),
	}
}
