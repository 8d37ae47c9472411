package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rnordin/currency_exchange_app/internal/apperrors"
	"github.com/rnordin/currency_exchange_app/internal/core/domain"
	portssvc "github.com/rnordin/currency_exchange_app/internal/core/ports/services"
	"github.com/rnordin/currency_exchange_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var (
	sekToUSD = decimal.RequireFromString("0.11")
	sekToEUR = decimal.RequireFromString("0.09")
	eurToUSD = decimal.RequireFromString("1.16")
	amount   = decimal.NewFromInt(10)

	today    = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	todayStr = today.Format(domain.RateDateFormat)
)

// --- Mock ExchangeRateRepository ---
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) FindByPairAndDate(ctx context.Context, from, to domain.Currency, rateDate time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, from, to, rateDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) FindLatestByPair(ctx context.Context, from, to domain.Currency) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) SaveExchangeRates(ctx context.Context, rates []domain.ExchangeRate) error {
	args := m.Called(ctx, rates)
	return args.Error(0)
}

// --- Mock RateSource ---
type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) LatestBankDay() time.Time {
	args := m.Called()
	return args.Get(0).(time.Time)
}

func (m *MockRateSource) LatestCrossRates(ctx context.Context, from, to domain.Currency) ([]domain.CrossRate, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CrossRate), args.Error(1)
}

// --- Test Suite ---
type ExchangeRateServiceTestSuite struct {
	suite.Suite
	mockRateRepo   *MockExchangeRateRepository
	mockRateSource *MockRateSource
	service        portssvc.ExchangeRateSvcFacade
}

func (suite *ExchangeRateServiceTestSuite) SetupTest() {
	suite.mockRateRepo = new(MockExchangeRateRepository)
	suite.mockRateSource = new(MockRateSource)
	suite.service = services.NewExchangeRateService(suite.mockRateRepo, suite.mockRateSource)
}

// --- Conversion ---

func (suite *ExchangeRateServiceTestSuite) TestConvertAmount_ReturnsConvertedValue() {
	ctx := context.Background()
	rate := &domain.ExchangeRate{
		FromCurrency:   domain.SEK,
		ToCurrency:     domain.USD,
		ConversionRate: sekToUSD,
		RateDate:       today,
	}
	suite.mockRateRepo.On("FindLatestByPair", ctx, domain.SEK, domain.USD).Return(rate, nil).Once()

	result, err := suite.service.ConvertAmount(ctx, domain.SEK, domain.USD, amount)

	suite.Require().NoError(err)
	suite.True(result.Equal(decimal.RequireFromString("1.10")), "expected 1.10, got %s", result)
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestConvertAmount_SameCurrencyReturnsOriginalAmount() {
	ctx := context.Background()

	result, err := suite.service.ConvertAmount(ctx, domain.EUR, domain.EUR, amount)

	suite.Require().NoError(err)
	suite.True(result.Equal(amount))
	suite.mockRateRepo.AssertNotCalled(suite.T(), "FindLatestByPair")
}

func (suite *ExchangeRateServiceTestSuite) TestConvertAmount_NoStoredRate() {
	ctx := context.Background()
	suite.mockRateRepo.On("FindLatestByPair", ctx, domain.SEK, domain.USD).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ConvertAmount(ctx, domain.SEK, domain.USD, amount)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Contains(err.Error(), "please update to latest exchange rates")
}

// --- Refresh ---

func (suite *ExchangeRateServiceTestSuite) TestUpdateAndFetch_CreatesAllRatesIncludingInverse() {
	ctx := context.Background()
	suite.stubCrossRatesAndEmptyRepository(ctx)

	rates, err := suite.service.UpdateAndFetchLatestExchangeRates(ctx)

	suite.Require().NoError(err)
	suite.Len(rates, 6)

	suite.mockRateRepo.AssertNumberOfCalls(suite.T(), "SaveExchangeRates", 3)

	usdToSEK := suite.findRate(rates, domain.USD, domain.SEK)
	suite.True(usdToSEK.ConversionRate.Equal(decimal.RequireFromString("9.090909")),
		"expected 1/0.11 rounded to 7 significant digits, got %s", usdToSEK.ConversionRate)
	suite.Equal(today, usdToSEK.RateDate)

	sekToUSDRate := suite.findRate(rates, domain.SEK, domain.USD)
	suite.True(sekToUSDRate.ConversionRate.Equal(sekToUSD))
}

func (suite *ExchangeRateServiceTestSuite) TestUpdateAndFetch_SavesEachPairWithItsInverse() {
	ctx := context.Background()
	suite.mockRateSource.On("LatestBankDay").Return(today).Once()
	suite.mockRateRepo.On("FindByPairAndDate", ctx, mock.Anything, mock.Anything, today).Return(nil, apperrors.ErrNotFound)
	suite.mockRateSource.On("LatestCrossRates", ctx, domain.SEK, domain.EUR).
		Return([]domain.CrossRate{{Date: todayStr, Value: sekToEUR}}, nil).Once()
	suite.mockRateSource.On("LatestCrossRates", ctx, domain.SEK, domain.USD).
		Return([]domain.CrossRate{{Date: todayStr, Value: sekToUSD}}, nil).Once()
	suite.mockRateSource.On("LatestCrossRates", ctx, domain.EUR, domain.USD).
		Return([]domain.CrossRate{{Date: todayStr, Value: eurToUSD}}, nil).Once()

	var saved [][]domain.ExchangeRate
	suite.mockRateRepo.On("SaveExchangeRates", ctx, mock.AnythingOfType("[]domain.ExchangeRate")).
		Run(func(args mock.Arguments) {
			saved = append(saved, args.Get(1).([]domain.ExchangeRate))
		}).Return(nil)

	_, err := suite.service.UpdateAndFetchLatestExchangeRates(ctx)

	suite.Require().NoError(err)
	suite.Require().Len(saved, 3)
	for _, batch := range saved {
		suite.Require().Len(batch, 2)
		forward, inverse := batch[0], batch[1]
		suite.Equal(forward.FromCurrency, inverse.ToCurrency)
		suite.Equal(forward.ToCurrency, inverse.FromCurrency)
		suite.Equal(forward.RateDate, inverse.RateDate)
		suite.NotEmpty(forward.ExchangeRateID)
		suite.NotEmpty(inverse.ExchangeRateID)
	}
}

func (suite *ExchangeRateServiceTestSuite) TestUpdateAndFetch_ReturnsAllRateCombinations() {
	ctx := context.Background()
	suite.stubExistingRatesInRepository(ctx)

	rates, err := suite.service.UpdateAndFetchLatestExchangeRates(ctx)

	suite.Require().NoError(err)
	suite.Len(rates, 6)
}

func (suite *ExchangeRateServiceTestSuite) TestUpdateAndFetch_DoesNotCallAPIOrSaveWhenRatesExist() {
	ctx := context.Background()
	suite.stubExistingRatesInRepository(ctx)

	_, err := suite.service.UpdateAndFetchLatestExchangeRates(ctx)

	suite.Require().NoError(err)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "SaveExchangeRates")
	suite.mockRateSource.AssertNotCalled(suite.T(), "LatestCrossRates")
}

func (suite *ExchangeRateServiceTestSuite) TestUpdateAndFetch_RecomputesInverseFromResolvedRow() {
	ctx := context.Background()
	suite.stubExistingRatesInRepository(ctx)

	rates, err := suite.service.UpdateAndFetchLatestExchangeRates(ctx)

	suite.Require().NoError(err)
	eurToSEK := suite.findRate(rates, domain.EUR, domain.SEK)
	suite.True(eurToSEK.ConversionRate.Equal(decimal.RequireFromString("11.11111")),
		"expected 1/0.09 rounded to 7 significant digits, got %s", eurToSEK.ConversionRate)
}

func (suite *ExchangeRateServiceTestSuite) TestUpdateAndFetch_FailsFastOnUpstreamError() {
	ctx := context.Background()
	suite.mockRateSource.On("LatestBankDay").Return(today).Once()
	suite.mockRateRepo.On("FindByPairAndDate", ctx, mock.Anything, mock.Anything, today).Return(nil, apperrors.ErrNotFound)

	suite.mockRateSource.On("LatestCrossRates", ctx, domain.SEK, domain.EUR).
		Return([]domain.CrossRate{{Date: todayStr, Value: sekToEUR}}, nil).Once()
	suite.mockRateSource.On("LatestCrossRates", ctx, domain.SEK, domain.USD).
		Return(nil, fmt.Errorf("%w: no cross rates returned from Riksbank for SEK to USD", apperrors.ErrUpstream)).Once()
	suite.mockRateRepo.On("SaveExchangeRates", ctx, mock.AnythingOfType("[]domain.ExchangeRate")).Return(nil)

	rates, err := suite.service.UpdateAndFetchLatestExchangeRates(ctx)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUpstream)
	suite.Nil(rates)
	// the pair committed before the failure stays persisted; nothing after
	// the failed pair is touched
	suite.mockRateRepo.AssertNumberOfCalls(suite.T(), "SaveExchangeRates", 1)
	suite.mockRateSource.AssertNotCalled(suite.T(), "LatestCrossRates", ctx, domain.EUR, domain.USD)
}

func (suite *ExchangeRateServiceTestSuite) TestUpdateAndFetch_RejectsUnparsableQuoteDate() {
	ctx := context.Background()
	suite.mockRateSource.On("LatestBankDay").Return(today).Once()
	suite.mockRateRepo.On("FindByPairAndDate", ctx, mock.Anything, mock.Anything, today).Return(nil, apperrors.ErrNotFound)
	suite.mockRateSource.On("LatestCrossRates", ctx, domain.SEK, domain.EUR).
		Return([]domain.CrossRate{{Date: "not-a-date", Value: sekToEUR}}, nil).Once()

	_, err := suite.service.UpdateAndFetchLatestExchangeRates(ctx)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUpstream)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "SaveExchangeRates")
}

// --- Concrete round-trip scenario ---

func (suite *ExchangeRateServiceTestSuite) TestConvertAmount_UsesDerivedInverseRate() {
	ctx := context.Background()
	inverse := &domain.ExchangeRate{
		FromCurrency:   domain.USD,
		ToCurrency:     domain.SEK,
		ConversionRate: decimal.RequireFromString("9.090909"),
		RateDate:       today,
	}
	suite.mockRateRepo.On("FindLatestByPair", ctx, domain.USD, domain.SEK).Return(inverse, nil).Once()

	result, err := suite.service.ConvertAmount(ctx, domain.USD, domain.SEK, decimal.NewFromInt(1))

	suite.Require().NoError(err)
	suite.True(result.Equal(decimal.RequireFromString("9.090909")))
}

// --- Helpers ---

func (suite *ExchangeRateServiceTestSuite) stubCrossRatesAndEmptyRepository(ctx context.Context) {
	suite.mockRateSource.On("LatestBankDay").Return(today).Once()
	suite.mockRateRepo.On("FindByPairAndDate", ctx, mock.Anything, mock.Anything, today).Return(nil, apperrors.ErrNotFound)

	suite.mockRateSource.On("LatestCrossRates", ctx, domain.SEK, domain.EUR).
		Return([]domain.CrossRate{{Date: todayStr, Value: sekToEUR}}, nil).Once()
	suite.mockRateSource.On("LatestCrossRates", ctx, domain.SEK, domain.USD).
		Return([]domain.CrossRate{{Date: todayStr, Value: sekToUSD}}, nil).Once()
	suite.mockRateSource.On("LatestCrossRates", ctx, domain.EUR, domain.USD).
		Return([]domain.CrossRate{{Date: todayStr, Value: eurToUSD}}, nil).Once()

	suite.mockRateRepo.On("SaveExchangeRates", ctx, mock.AnythingOfType("[]domain.ExchangeRate")).Return(nil)
}

func (suite *ExchangeRateServiceTestSuite) stubExistingRatesInRepository(ctx context.Context) {
	suite.mockRateSource.On("LatestBankDay").Return(today).Once()

	existing := map[[2]domain.Currency]decimal.Decimal{
		{domain.SEK, domain.EUR}: sekToEUR,
		{domain.SEK, domain.USD}: sekToUSD,
		{domain.EUR, domain.USD}: eurToUSD,
	}
	for pair, rate := range existing {
		suite.mockRateRepo.On("FindByPairAndDate", ctx, pair[0], pair[1], today).
			Return(&domain.ExchangeRate{
				FromCurrency:   pair[0],
				ToCurrency:     pair[1],
				ConversionRate: rate,
				RateDate:       today,
			}, nil).Once()
	}
}

func (suite *ExchangeRateServiceTestSuite) findRate(rates []domain.ExchangeRate, from, to domain.Currency) domain.ExchangeRate {
	for _, r := range rates {
		if r.FromCurrency == from && r.ToCurrency == to {
			return r
		}
	}
	suite.Require().FailNow(fmt.Sprintf("no %s/%s rate in result", from, to))
	return domain.ExchangeRate{}
}

func TestExchangeRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeRateServiceTestSuite))
}
