package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate stores the conversion rate between two currencies for a
// specific banking date. Rows are immutable once created and are never
// deleted; history accumulates. At most one row exists per
// (FromCurrency, ToCurrency, RateDate).
type ExchangeRate struct {
	ExchangeRateID string          `json:"exchangeRateID"` // Primary Key (UUID)
	FromCurrency   Currency        `json:"fromCurrency"`
	ToCurrency     Currency        `json:"toCurrency"`
	ConversionRate decimal.Decimal `json:"conversionRate"`
	RateDate       time.Time       `json:"rateDate"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// CrossRate is an ephemeral quote returned by the Riksbank cross-rate
// endpoint. It is never persisted directly; it is consumed to build an
// ExchangeRate.
type CrossRate struct {
	Date  string          `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// CalendarDay is a single entry from the Riksbank calendar endpoint.
type CalendarDay struct {
	CalendarDate   string `json:"calendarDate"`
	SwedishBankday bool   `json:"swedishBankday"`
}
