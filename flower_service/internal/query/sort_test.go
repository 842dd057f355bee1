package query

import (
	"testing"

	"github.com/flowersales/flowersales/flower_service/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func catalog() []store.Flower {
	return []store.Flower{
		{ID: "000000000000000000000002", Category: "Roses", Name: "Rose", StoreLocation: "Kyiv", PostCode: 3, Price: decimal.RequireFromString("10"), IsAvailable: true},
		{ID: "000000000000000000000003", Category: "Tulips", Name: "Tulip", StoreLocation: "Lviv", PostCode: 1, Price: decimal.RequireFromString("5"), IsAvailable: false},
		{ID: "000000000000000000000001", Category: "Lilies", Name: "Lily", StoreLocation: "Odesa", PostCode: 2, Price: decimal.RequireFromString("7.25"), IsAvailable: true},
	}
}

func names(flowers []store.Flower) []string {
	out := make([]string, 0, len(flowers))
	for _, f := range flowers {
		out = append(out, f.Name)
	}
	return out
}

func Test_SortFlowers(t *testing.T) {
	testCases := []struct {
		name      string
		sortBy    string
		sortOrder string
		sorted    bool
		expected  []string
	}{
		{name: "name asc", sortBy: "name", sortOrder: SortAsc, sorted: true, expected: []string{"Lily", "Rose", "Tulip"}},
		{name: "name desc", sortBy: "name", sortOrder: SortDesc, sorted: true, expected: []string{"Tulip", "Rose", "Lily"}},
		{name: "capitalized field name", sortBy: "Name", sortOrder: SortAsc, sorted: true, expected: []string{"Lily", "Rose", "Tulip"}},
		{name: "price asc", sortBy: "price", sortOrder: SortAsc, sorted: true, expected: []string{"Tulip", "Lily", "Rose"}},
		{name: "postCode desc", sortBy: "postCode", sortOrder: SortDesc, sorted: true, expected: []string{"Rose", "Lily", "Tulip"}},
		{name: "id asc", sortBy: "id", sortOrder: SortAsc, sorted: true, expected: []string{"Lily", "Rose", "Tulip"}},
		{name: "storeLocation desc", sortBy: "storeLocation", sortOrder: SortDesc, sorted: true, expected: []string{"Lily", "Tulip", "Rose"}},
		{name: "category asc", sortBy: "category", sortOrder: "", sorted: true, expected: []string{"Lily", "Rose", "Tulip"}},
		{name: "isAvailable asc keeps ties stable", sortBy: "isAvailable", sortOrder: SortAsc, sorted: true, expected: []string{"Tulip", "Rose", "Lily"}},
		{name: "isAvailable desc keeps ties stable", sortBy: "isAvailable", sortOrder: SortDesc, sorted: true, expected: []string{"Rose", "Lily", "Tulip"}},
		{name: "unknown field", sortBy: "colour", sortOrder: SortAsc, sorted: false, expected: []string{"Rose", "Tulip", "Lily"}},
		{name: "empty field", sortBy: "", sortOrder: SortDesc, sorted: false, expected: []string{"Rose", "Tulip", "Lily"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			flowers := catalog()

			// when
			sorted := SortFlowers(flowers, tc.sortBy, tc.sortOrder)

			// then
			assert.Equal(t, tc.sorted, sorted)
			assert.Equal(t, tc.expected, names(flowers))
		})
	}
}

func Test_SortFlowers_DescIsReverseOfAsc(t *testing.T) {
	for field := range sortFields {
		if field == "isavailable" {
			continue // values are not distinct
		}
		asc := catalog()
		desc := catalog()
		SortFlowers(asc, field, SortAsc)
		SortFlowers(desc, field, SortDesc)

		reversed := names(desc)
		for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
			reversed[i], reversed[j] = reversed[j], reversed[i]
		}
		assert.Equal(t, names(asc), reversed, field)
	}
}
