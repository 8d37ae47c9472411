package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rnordin/currency_exchange_app/internal/apperrors"
	"github.com/rnordin/currency_exchange_app/internal/core/domain"
	portsrepo "github.com/rnordin/currency_exchange_app/internal/core/ports/repositories"
)

// PgxExchangeRateRepository implements the exchange rate repository ports
// using pgxpool.
type PgxExchangeRateRepository struct {
	db *pgxpool.Pool
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

// NewExchangeRateRepository creates a new PgxExchangeRateRepository.
func NewExchangeRateRepository(db *pgxpool.Pool) *PgxExchangeRateRepository {
	return &PgxExchangeRateRepository{db: db}
}

// SaveExchangeRates inserts a batch of exchange rates in one transaction.
// The unique constraint on (from_currency, to_currency, rate_date) makes a
// concurrent refresh race harmless: the losing insert becomes a no-op.
func (r *PgxExchangeRateRepository) SaveExchangeRates(ctx context.Context, rates []domain.ExchangeRate) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting transaction for exchange rates: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO exchange_rates (
			exchange_rate_id, from_currency, to_currency, conversion_rate, rate_date, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (from_currency, to_currency, rate_date) DO NOTHING
	`
	for _, rate := range rates {
		_, err := tx.Exec(ctx, query,
			rate.ExchangeRateID, rate.FromCurrency, rate.ToCurrency, rate.ConversionRate, rate.RateDate, rate.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("error inserting exchange rate %s/%s: %w", rate.FromCurrency, rate.ToCurrency, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing exchange rates: %w", err)
	}
	return nil
}

// FindByPairAndDate retrieves the exchange rate for a pair on an exact
// banking date.
func (r *PgxExchangeRateRepository) FindByPairAndDate(ctx context.Context, from, to domain.Currency, rateDate time.Time) (*domain.ExchangeRate, error) {
	query := `
		SELECT exchange_rate_id, from_currency, to_currency, conversion_rate, rate_date, created_at
		FROM exchange_rates
		WHERE from_currency = $1 AND to_currency = $2 AND rate_date = $3
	`
	return r.queryOne(ctx, query, from, to, rateDate)
}

// FindLatestByPair retrieves the most recent exchange rate for a pair.
func (r *PgxExchangeRateRepository) FindLatestByPair(ctx context.Context, from, to domain.Currency) (*domain.ExchangeRate, error) {
	query := `
		SELECT exchange_rate_id, from_currency, to_currency, conversion_rate, rate_date, created_at
		FROM exchange_rates
		WHERE from_currency = $1 AND to_currency = $2
		ORDER BY rate_date DESC
		LIMIT 1
	`
	return r.queryOne(ctx, query, from, to)
}

func (r *PgxExchangeRateRepository) queryOne(ctx context.Context, query string, args ...any) (*domain.ExchangeRate, error) {
	rate := &domain.ExchangeRate{}
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&rate.ExchangeRateID, &rate.FromCurrency, &rate.ToCurrency, &rate.ConversionRate, &rate.RateDate, &rate.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error finding exchange rate: %w", err)
	}
	return rate, nil
}
