// Package query turns catalog query strings into sort, filter and paging steps over flowers.
package query

import (
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 50
	MaxPageSize     = 100
	DefaultSortBy   = "name"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// FlowerParams is the normalized form of the list query string.
// Nil pointers and empty strings mean the filter is not applied.
type FlowerParams struct {
	Page      int
	Size      int
	SortBy    string
	SortOrder string

	Category      string
	Name          string
	StoreLocation string
	PostCode      *int
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
}

// DefaultFlowerParams returns the parameters used when the query string is empty.
func DefaultFlowerParams() FlowerParams {
	return FlowerParams{
		Page:      DefaultPage,
		Size:      DefaultPageSize,
		SortBy:    DefaultSortBy,
		SortOrder: SortAsc,
	}
}

// ParamError reports query values that could not be parsed, keyed by parameter name.
type ParamError struct {
	Fields map[string]string
}

func (e *ParamError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("invalid query parameters: %s", strings.Join(keys, ", "))
}

// ParseFlowerParams normalizes the list query string.
// Size is capped at MaxPageSize, an unknown sortOrder keeps ascending order and
// unparsable numbers are collected into a *ParamError.
func ParseFlowerParams(values url.Values) (FlowerParams, error) {
	p := DefaultFlowerParams()
	bad := make(map[string]string)

	if v, ok := intParam(values, "page", bad); ok {
		p.Page = v
	}
	if v, ok := intParam(values, "size", bad); ok {
		p.Size = min(MaxPageSize, v)
	}
	if values.Has("sortBy") {
		p.SortBy = values.Get("sortBy")
	}
	if order := values.Get("sortOrder"); order == SortAsc || order == SortDesc {
		p.SortOrder = order
	}

	p.Category = values.Get("category")
	p.Name = values.Get("name")
	p.StoreLocation = values.Get("storeLocation")
	if v, ok := intParam(values, "postCode", bad); ok {
		p.PostCode = &v
	}
	if v, ok := decimalParam(values, "minPrice", bad); ok {
		p.MinPrice = &v
	}
	if v, ok := decimalParam(values, "maxPrice", bad); ok {
		p.MaxPrice = &v
	}

	if len(bad) > 0 {
		return FlowerParams{}, &ParamError{Fields: bad}
	}
	return p, nil
}

// Offset is the number of entries to skip. Pages at or below 1 skip nothing.
func (p FlowerParams) Offset() int {
	if p.Page <= 1 || p.Size <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Size
}

// Limit is the number of entries to take.
func (p FlowerParams) Limit() int {
	return max(0, p.Size)
}

func intParam(values url.Values, key string, bad map[string]string) (int, bool) {
	raw := values.Get(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		bad[key] = fmt.Sprintf("%q is not a valid integer", raw)
		return 0, false
	}
	return v, true
}

func decimalParam(values url.Values, key string, bad map[string]string) (decimal.Decimal, bool) {
	raw := values.Get(key)
	if raw == "" {
		return decimal.Decimal{}, false
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		bad[key] = fmt.Sprintf("%q is not a valid number", raw)
		return decimal.Decimal{}, false
	}
	return v, true
}
