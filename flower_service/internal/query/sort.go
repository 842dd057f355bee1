package query

import (
	"cmp"
	"slices"
	"strings"

	"github.com/flowersales/flowersales/flower_service/internal/store"
)

type compareFunc func(a, b store.Flower) int

// sortFields maps lower-cased field names to comparators.
var sortFields = map[string]compareFunc{
	"id":            func(a, b store.Flower) int { return strings.Compare(a.ID, b.ID) },
	"category":      func(a, b store.Flower) int { return strings.Compare(a.Category, b.Category) },
	"name":          func(a, b store.Flower) int { return strings.Compare(a.Name, b.Name) },
	"storelocation": func(a, b store.Flower) int { return strings.Compare(a.StoreLocation, b.StoreLocation) },
	"postcode":      func(a, b store.Flower) int { return cmp.Compare(a.PostCode, b.PostCode) },
	"price":         func(a, b store.Flower) int { return a.Price.Cmp(b.Price) },
	"isavailable":   func(a, b store.Flower) int { return compareBool(a.IsAvailable, b.IsAvailable) },
}

// SortFlowers sorts flowers in place by the named field. Field names are matched
// case-insensitively. It returns false and leaves the slice untouched when the
// field is unknown or empty. Ties keep their original order.
func SortFlowers(flowers []store.Flower, sortBy, sortOrder string) bool {
	compare, ok := sortFields[strings.ToLower(sortBy)]
	if !ok {
		return false
	}
	if sortOrder == SortDesc {
		slices.SortStableFunc(flowers, func(a, b store.Flower) int { return compare(b, a) })
	} else {
		slices.SortStableFunc(flowers, compare)
	}
	return true
}

// compareBool orders false before true.
func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
