package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rnordin/currency_exchange_app/internal/apperrors"
	"github.com/rnordin/currency_exchange_app/internal/core/domain"
	portsrepo "github.com/rnordin/currency_exchange_app/internal/core/ports/repositories"
	portssvc "github.com/rnordin/currency_exchange_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// inverseRatePrecision is the number of significant digits an inverse rate is
// rounded to. This matches DECIMAL32 and is a contract, not an accident:
// every consumer that derives an inverse must reproduce the same precision to
// keep forward/inverse pairs consistent across independent computations.
const inverseRatePrecision = 7

// ExchangeRateService provides business logic for exchange rates: refreshing
// the stored rate matrix from the Riksbank API and converting amounts using
// the most recent stored rates.
type ExchangeRateService struct {
	rateRepo   portsrepo.ExchangeRateRepositoryFacade
	rateSource portssvc.RateSourceSvc
}

var _ portssvc.ExchangeRateSvcFacade = (*ExchangeRateService)(nil)

// NewExchangeRateService creates a new ExchangeRateService.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepositoryFacade, rateSource portssvc.RateSourceSvc) *ExchangeRateService {
	return &ExchangeRateService{
		rateRepo:   rateRepo,
		rateSource: rateSource,
	}
}

// ConvertAmount converts an amount from one currency to another using the
// latest stored exchange rate. Identical currencies are an identity
// conversion: the input amount is returned without any repository lookup.
func (s *ExchangeRateService) ConvertAmount(ctx context.Context, from, to domain.Currency, amount decimal.Decimal) (decimal.Decimal, error) {
	// No conversion needed if source and target currency are the same
	if from == to {
		return amount, nil
	}

	rate, err := s.rateRepo.FindLatestByPair(ctx, from, to)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Decimal{}, fmt.Errorf("%w: no exchange rate found for %s/%s, please update to latest exchange rates", apperrors.ErrNotFound, from, to)
		}
		return decimal.Decimal{}, fmt.Errorf("failed to find latest exchange rate for %s/%s: %w", from, to, err)
	}

	return amount.Mul(rate.ConversionRate), nil
}

// GetLatestExchangeRate retrieves the most recent stored rate for a pair.
func (s *ExchangeRateService) GetLatestExchangeRate(ctx context.Context, from, to domain.Currency) (*domain.ExchangeRate, error) {
	rate, err := s.rateRepo.FindLatestByPair(ctx, from, to)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find latest exchange rate for %s/%s: %w", from, to, err)
	}
	return rate, nil
}

// UpdateAndFetchLatestExchangeRates ensures rates for the current banking day
// exist for every unordered currency pair and returns both directions for
// every pair: N currencies yield N*(N-1) rates. Only the ascending direction
// of each pair is ever fetched from the Riksbank API; the inverse is derived.
// The first upstream failure aborts the whole refresh; pairs committed before
// the failure stay persisted.
func (s *ExchangeRateService) UpdateAndFetchLatestExchangeRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	// Resolved once and shared across all pairs: one refresh is a single
	// logical operation against one banking day.
	latestBankDay := s.rateSource.LatestBankDay()

	currencies := domain.Currencies()
	allRates := make([]domain.ExchangeRate, 0, len(currencies)*(len(currencies)-1))

	for _, from := range currencies {
		for _, to := range currencies {
			// Only iterate ascending sort order since we can derive the
			// inverse rate ourselves.
			if from.SortOrder() >= to.SortOrder() {
				continue
			}
			rateAndInverse, err := s.fetchOrCreateExchangeRateWithInverse(ctx, from, to, latestBankDay)
			if err != nil {
				return nil, err
			}
			allRates = append(allRates, rateAndInverse...)
		}
	}

	return allRates, nil
}

// fetchOrCreateExchangeRateWithInverse resolves the rate for one pair on the
// given banking day: a stored row is reused as-is, a missing one is fetched
// from the Riksbank API and persisted together with its inverse. The returned
// inverse is always recomputed from the resolved row rather than read back,
// so a stale stored inverse can never leak into the result.
func (s *ExchangeRateService) fetchOrCreateExchangeRateWithInverse(ctx context.Context, from, to domain.Currency, latestBankDay time.Time) ([]domain.ExchangeRate, error) {
	rate, err := s.rateRepo.FindByPairAndDate(ctx, from, to, latestBankDay)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up exchange rate for %s/%s: %w", from, to, err)
		}
		rate, err = s.createAndSaveExchangeRateWithInverse(ctx, from, to)
		if err != nil {
			return nil, err
		}
	}

	return []domain.ExchangeRate{*rate, inverseExchangeRate(*rate)}, nil
}

// createAndSaveExchangeRateWithInverse fetches the pair's cross rate from the
// Riksbank API and persists the new row and its inverse in one repository
// call.
func (s *ExchangeRateService) createAndSaveExchangeRateWithInverse(ctx context.Context, from, to domain.Currency) (*domain.ExchangeRate, error) {
	quotes, err := s.rateSource.LatestCrossRates(ctx, from, to)
	if err != nil {
		return nil, err
	}

	// The source guarantees at least one quote; the first is authoritative.
	quote := quotes[0]
	rateDate, err := time.Parse(domain.RateDateFormat, quote.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: unparsable quote date %q for %s/%s", apperrors.ErrUpstream, quote.Date, from, to)
	}

	rate := domain.ExchangeRate{
		ExchangeRateID: uuid.NewString(),
		FromCurrency:   from,
		ToCurrency:     to,
		ConversionRate: quote.Value,
		RateDate:       rateDate,
		CreatedAt:      time.Now(),
	}

	if err := s.rateRepo.SaveExchangeRates(ctx, []domain.ExchangeRate{rate, inverseExchangeRate(rate)}); err != nil {
		return nil, fmt.Errorf("failed to persist exchange rates for %s/%s: %w", from, to, err)
	}

	return &rate, nil
}

// inverseExchangeRate builds the opposite-direction row for a rate, with the
// conversion rate inverted at the service's precision contract.
func inverseExchangeRate(rate domain.ExchangeRate) domain.ExchangeRate {
	return domain.ExchangeRate{
		ExchangeRateID: uuid.NewString(),
		FromCurrency:   rate.ToCurrency,
		ToCurrency:     rate.FromCurrency,
		ConversionRate: invertRate(rate.ConversionRate),
		RateDate:       rate.RateDate,
		CreatedAt:      rate.CreatedAt,
	}
}

// invertRate computes 1/rate rounded to inverseRatePrecision significant
// digits.
func invertRate(rate decimal.Decimal) decimal.Decimal {
	// Divide with generous guard digits first, then round to the contract.
	inv := decimal.NewFromInt(1).DivRound(rate, 4*inverseRatePrecision)
	return roundSignificant(inv, inverseRatePrecision)
}

// roundSignificant rounds a decimal to the given number of significant
// digits, half away from zero.
func roundSignificant(d decimal.Decimal, digits int32) decimal.Decimal {
	if d.IsZero() {
		return d
	}
	integerDigits := int32(d.NumDigits()) + d.Exponent()
	return d.Round(digits - integerDigits)
}
