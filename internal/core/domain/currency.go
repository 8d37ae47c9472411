package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rnordin/currency_exchange_app/internal/apperrors"
)

// Currency is one of the fixed set of currencies the service converts between.
// The set is closed: currencies are defined here at compile time and never
// created at runtime.
type Currency string

const (
	SEK Currency = "SEK"
	EUR Currency = "EUR"
	USD Currency = "USD"
)

// currencyInfo carries the Riksbank series identifier used to address the
// upstream API and the sort order used to break symmetry when iterating
// currency pairs. The sort order is never used for display.
type currencyInfo struct {
	SeriesID  string
	SortOrder int
	Name      string
}

var currencyTable = map[Currency]currencyInfo{
	SEK: {SeriesID: "SEKETT", SortOrder: 1, Name: "Swedish Krona"},
	EUR: {SeriesID: "SEKEURPMI", SortOrder: 2, Name: "Euro"},
	USD: {SeriesID: "SEKUSDPMI", SortOrder: 3, Name: "US Dollar"},
}

// ParseCurrency converts a currency token from the boundary layer into a
// Currency value. Unknown tokens map to apperrors.ErrValidation.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if _, ok := currencyTable[c]; !ok {
		return "", fmt.Errorf("%w: unknown currency %q", apperrors.ErrValidation, code)
	}
	return c, nil
}

// IsValidCurrency reports whether code names a supported currency.
func IsValidCurrency(code string) bool {
	_, err := ParseCurrency(code)
	return err == nil
}

// SeriesID returns the external Riksbank series identifier for the currency.
func (c Currency) SeriesID() string {
	return currencyTable[c].SeriesID
}

// SortOrder returns the fixed ordinal used to iterate unordered pairs only
// once: a pair is processed when SortOrder(from) < SortOrder(to).
func (c Currency) SortOrder() int {
	return currencyTable[c].SortOrder
}

// Name returns a human readable currency name.
func (c Currency) Name() string {
	return currencyTable[c].Name
}

func (c Currency) String() string {
	return string(c)
}

// Currencies returns all supported currencies in sort order.
func Currencies() []Currency {
	all := make([]Currency, 0, len(currencyTable))
	for c := range currencyTable {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].SortOrder() < all[j].SortOrder()
	})
	return all
}
