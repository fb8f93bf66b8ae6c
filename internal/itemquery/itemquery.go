// Package itemquery answers the name and price queries the item endpoints expose.
//
// Every function takes items in natural order (ascending identifier, as the
// repositories return them) and never modifies the input slice.
package itemquery

import (
	"sort"
	"strings"

	"storefront-api/internal/models"

	"github.com/shopspring/decimal"
)

// PriceRange is an inclusive price filter. A nil bound imposes no constraint on its side.
type PriceRange struct {
	Min *decimal.Decimal
	Max *decimal.Decimal
}

// Empty reports whether neither bound is set.
func (r PriceRange) Empty() bool {
	return r.Min == nil && r.Max == nil
}

// Contains reports whether price lies within the range, bounds included.
func (r PriceRange) Contains(price decimal.Decimal) bool {
	if r.Min != nil && price.Cmp(*r.Min) < 0 {
		return false
	}
	if r.Max != nil && price.Cmp(*r.Max) > 0 {
		return false
	}
	return true
}

// SortByPrice returns a copy of items ordered by ascending unit price.
// Items with equal prices keep their relative order.
func SortByPrice(items []models.Item) []models.Item {
	sorted := make([]models.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UnitPrice.Cmp(sorted[j].UnitPrice) < 0
	})
	return sorted
}

// FindOneByName returns the first item, in natural order, whose name contains
// fragment case-insensitively.
func FindOneByName(items []models.Item, fragment string) (*models.Item, bool) {
	if fragment == "" {
		return nil, false
	}
	needle := strings.ToLower(fragment)
	for i := range items {
		if nameMatches(items[i].Name, needle) {
			found := items[i]
			return &found, true
		}
	}
	return nil, false
}

// FindAllByName returns every item whose name contains fragment case-insensitively,
// in natural order. The result is empty, not nil, when nothing matches.
func FindAllByName(items []models.Item, fragment string) []models.Item {
	matches := []models.Item{}
	if fragment == "" {
		return matches
	}
	needle := strings.ToLower(fragment)
	for _, item := range items {
		if nameMatches(item.Name, needle) {
			matches = append(matches, item)
		}
	}
	return matches
}

// FindOneByPrice returns the item within the range whose name sorts first
// (case-sensitive, byte-wise). Equal names fall back to natural order.
func FindOneByPrice(items []models.Item, r PriceRange) (*models.Item, bool) {
	var best *models.Item
	for i := range items {
		if !r.Contains(items[i].UnitPrice) {
			continue
		}
		if best == nil || items[i].Name < best.Name {
			best = &items[i]
		}
	}
	if best == nil {
		return nil, false
	}
	found := *best
	return &found, true
}

// FindAllByPrice returns every item within the range, cheapest first, with the
// same tie rule as SortByPrice.
func FindAllByPrice(items []models.Item, r PriceRange) []models.Item {
	matches := []models.Item{}
	for _, item := range items {
		if r.Contains(item.UnitPrice) {
			matches = append(matches, item)
		}
	}
	return SortByPrice(matches)
}

func nameMatches(name, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(name), lowerNeedle)
}
