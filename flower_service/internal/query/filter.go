package query

import (
	"slices"
	"strings"

	"github.com/flowersales/flowersales/flower_service/internal/store"
	"golang.org/x/text/cases"
)

// FilterFlowers keeps the flowers matching every filter set in p. String filters are
// case-insensitive substring matches, postCode is exact and the price bounds are inclusive.
func FilterFlowers(flowers []store.Flower, p FlowerParams) []store.Flower {
	folder := cases.Fold()
	category := folder.String(p.Category)
	name := folder.String(p.Name)
	location := folder.String(p.StoreLocation)

	out := make([]store.Flower, 0, len(flowers))
	for _, f := range flowers {
		if category != "" && !strings.Contains(folder.String(f.Category), category) {
			continue
		}
		if name != "" && !strings.Contains(folder.String(f.Name), name) {
			continue
		}
		if location != "" && !strings.Contains(folder.String(f.StoreLocation), location) {
			continue
		}
		if p.PostCode != nil && f.PostCode != *p.PostCode {
			continue
		}
		if p.MinPrice != nil && f.Price.LessThan(*p.MinPrice) {
			continue
		}
		if p.MaxPrice != nil && f.Price.GreaterThan(*p.MaxPrice) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Paginate returns the window described by p.Offset and p.Limit. The result is never nil.
func Paginate(flowers []store.Flower, p FlowerParams) []store.Flower {
	offset := p.Offset()
	if offset >= len(flowers) {
		return []store.Flower{}
	}
	end := len(flowers)
	if limit := p.Limit(); limit < end-offset {
		end = offset + limit
	}
	return slices.Clone(flowers[offset:end])
}
