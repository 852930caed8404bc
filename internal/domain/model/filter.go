package model

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	domainErrors "github.com/pcbuilder/storefront/internal/domain/errors"
)

// DefaultPageSize is the catalogue page size when none is configured.
const DefaultPageSize = 20

// MaxPageSize bounds any page a client asks for.
const MaxPageSize = 100

// maxOffset keeps page offsets inside a 32-bit row count.
const maxOffset = math.MaxInt32

// PriceRange is a price band. Max is ignored when Unbounded is set.
type PriceRange struct {
	Min          decimal.Decimal
	Max          decimal.Decimal
	MinInclusive bool
	Unbounded    bool
}

// Contains reports whether price falls into the band.
func (r PriceRange) Contains(price decimal.Decimal) bool {
	if r.MinInclusive {
		if price.LessThan(r.Min) {
			return false
		}
	} else if !price.GreaterThan(r.Min) {
		return false
	}
	return r.Unbounded || !price.GreaterThan(r.Max)
}

func (r PriceRange) String() string {
	if r.Unbounded {
		return r.Min.String() + "+"
	}
	return r.Min.String() + "-" + r.Max.String()
}

// ParsePriceRange parses "a-b" (a < p <= b, or 0 <= p <= b when a is zero)
// and "a+" (p > a) bands.
func ParsePriceRange(raw string) (PriceRange, error) {
	value := strings.TrimSpace(raw)
	if strings.HasSuffix(value, "+") {
		min, err := decimal.NewFromString(strings.TrimSuffix(value, "+"))
		if err != nil || min.IsNegative() {
			return PriceRange{}, fmt.Errorf("%w: price range %q", domainErrors.ErrInvalidInput, raw)
		}
		return PriceRange{Min: min, Unbounded: true}, nil
	}

	lo, hi, ok := strings.Cut(value, "-")
	if !ok {
		return PriceRange{}, fmt.Errorf("%w: price range %q", domainErrors.ErrInvalidInput, raw)
	}
	min, err := decimal.NewFromString(lo)
	if err != nil {
		return PriceRange{}, fmt.Errorf("%w: price range %q", domainErrors.ErrInvalidInput, raw)
	}
	max, err := decimal.NewFromString(hi)
	if err != nil || min.IsNegative() || max.LessThan(min) {
		return PriceRange{}, fmt.Errorf("%w: price range %q", domainErrors.ErrInvalidInput, raw)
	}
	return PriceRange{Min: min, Max: max, MinInclusive: min.IsZero()}, nil
}

// PartFilter narrows a catalogue listing. Price ranges are OR'ed.
type PartFilter struct {
	NameContains string
	Manufacturer string
	PriceRanges  []PriceRange
}

// PartPage is one page of a catalogue listing.
type PartPage struct {
	Items      []PartSummary `json:"items"`
	TotalCount int64         `json:"totalCount"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
}

// TotalPages derives the page count from TotalCount.
func (p PartPage) TotalPages() int {
	if p.PageSize <= 0 || p.TotalCount <= 0 {
		return 0
	}
	return int((p.TotalCount + int64(p.PageSize) - 1) / int64(p.PageSize))
}

// NormalizePage clamps page to 1-indexed, substitutes the default size and
// caps the size at MaxPageSize.
func NormalizePage(page, pageSize, defaultSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	if pageSize <= 0 {
		pageSize = defaultSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// PageOffset returns the row offset of a normalized page.
func PageOffset(page, pageSize int) (int, error) {
	if page < 1 || pageSize < 1 {
		return 0, fmt.Errorf("%w: page %d of size %d", domainErrors.ErrInvalidInput, page, pageSize)
	}
	if page-1 > maxOffset/pageSize {
		return 0, fmt.Errorf("%w: page %d is out of range", domainErrors.ErrInvalidInput, page)
	}
	return (page - 1) * pageSize, nil
}
