package services

import (
	"context"
	"time"

	"github.com/rnordin/currency_exchange_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateSourceSvc is the outbound port to the central bank rate provider.
type RateSourceSvc interface {
	// LatestBankDay returns the candidate banking date derived from the
	// wall clock and the daily publish cutoff. Pure, no I/O.
	LatestBankDay() time.Time

	// LatestCrossRates fetches the cross-rate quotes for an ordered currency
	// pair on the latest valid banking day. The first quote is authoritative.
	// Provider failures of any kind map to apperrors.ErrUpstream.
	LatestCrossRates(ctx context.Context, from, to domain.Currency) ([]domain.CrossRate, error)
}

// ExchangeRateReaderSvc defines read-only operations on stored rates.
type ExchangeRateReaderSvc interface {
	// ConvertAmount converts an amount between two currencies using the most
	// recent stored rate. Identical currencies short-circuit to the input
	// amount without any lookup.
	ConvertAmount(ctx context.Context, from, to domain.Currency, amount decimal.Decimal) (decimal.Decimal, error)

	// GetLatestExchangeRate retrieves the most recent stored rate for a pair.
	GetLatestExchangeRate(ctx context.Context, from, to domain.Currency) (*domain.ExchangeRate, error)
}

// ExchangeRateRefresherSvc defines the rate refresh operation.
type ExchangeRateRefresherSvc interface {
	// UpdateAndFetchLatestExchangeRates ensures rates for the current banking
	// day exist for every currency pair, fetching missing ones from the rate
	// source, and returns both directions for every pair.
	UpdateAndFetchLatestExchangeRates(ctx context.Context) ([]domain.ExchangeRate, error)
}

// ExchangeRateSvcFacade combines all exchange rate-related service interfaces
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	ExchangeRateRefresherSvc
}
