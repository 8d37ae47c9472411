package repositories

import (
	"context"
	"time"

	"github.com/rnordin/currency_exchange_app/internal/core/domain"
)

// ExchangeRateReader defines read operations for exchange rate data
type ExchangeRateReader interface {
	// FindByPairAndDate retrieves the exchange rate for a currency pair on an
	// exact banking date. Returns apperrors.ErrNotFound when no row exists.
	FindByPairAndDate(ctx context.Context, from, to domain.Currency, rateDate time.Time) (*domain.ExchangeRate, error)

	// FindLatestByPair retrieves the most recent exchange rate for a currency
	// pair, by rate date descending. Returns apperrors.ErrNotFound when the
	// pair has never been fetched.
	FindLatestByPair(ctx context.Context, from, to domain.Currency) (*domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for exchange rate data
type ExchangeRateWriter interface {
	// SaveExchangeRates persists a batch of exchange rates atomically. The
	// core always calls this with exactly a same-date {forward, inverse} pair.
	SaveExchangeRates(ctx context.Context, rates []domain.ExchangeRate) error
}

// ExchangeRateRepositoryFacade combines all exchange rate-related repository
// interfaces for clients that need access to all operations.
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
