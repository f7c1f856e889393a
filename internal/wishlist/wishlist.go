// Package wishlist holds the in-session set of saved product ids.
package wishlist

import (
	"slices"

	"github.com/utafrali/storefront/internal/domain"
)

// Set is an insertion-ordered set of product ids. It is not safe for
// concurrent use.
type Set struct {
	ids []int
}

// New creates an empty wishlist.
func New() *Set {
	return &Set{}
}

// Toggle adds productID if absent and removes it if present. It reports
// whether the id is in the set afterwards.
func (s *Set) Toggle(productID int) bool {
	if i := slices.Index(s.ids, productID); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
		return false
	}
	s.ids = append(s.ids, productID)
	return true
}

// Contains reports whether productID is saved.
func (s *Set) Contains(productID int) bool {
	return slices.Contains(s.ids, productID)
}

// IDs returns a copy of the saved ids in insertion order.
func (s *Set) IDs() []int {
	return append([]int{}, s.ids...)
}

// Len returns the number of saved ids.
func (s *Set) Len() int {
	return len(s.ids)
}

// View returns the presentation form of the wishlist.
func (s *Set) View() domain.WishlistView {
	return domain.WishlistView{ProductIDs: s.IDs(), Count: s.Len()}
}
