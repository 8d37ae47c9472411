package dto

import (
	"github.com/rnordin/currency_exchange_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ConversionRequest defines the payload for converting an amount between two
// currencies.
type ConversionRequest struct {
	FromCurrency string          `json:"fromCurrency" binding:"required,currencycode"`
	ToCurrency   string          `json:"toCurrency" binding:"required,currencycode"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
}

// ConversionResponse defines the structure for conversion results.
type ConversionResponse struct {
	FromCurrency    string          `json:"fromCurrency"`
	ToCurrency      string          `json:"toCurrency"`
	Amount          decimal.Decimal `json:"amount"`
	ConvertedAmount decimal.Decimal `json:"convertedAmount"`
}

// ExchangeRateResponse defines the structure for API responses containing
// exchange rate details.
type ExchangeRateResponse struct {
	ExchangeRateID string          `json:"exchangeRateID"`
	FromCurrency   string          `json:"fromCurrency"`
	ToCurrency     string          `json:"toCurrency"`
	ConversionRate decimal.Decimal `json:"conversionRate"`
	RateDate       string          `json:"rateDate"`
}

// ToExchangeRateResponse converts a domain.ExchangeRate to its response DTO.
func ToExchangeRateResponse(rate *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		ExchangeRateID: rate.ExchangeRateID,
		FromCurrency:   rate.FromCurrency.String(),
		ToCurrency:     rate.ToCurrency.String(),
		ConversionRate: rate.ConversionRate,
		RateDate:       rate.RateDate.Format(domain.RateDateFormat),
	}
}

// ToListExchangeRateResponse converts a slice of domain.ExchangeRate to a
// slice of response DTOs.
func ToListExchangeRateResponse(rates []domain.ExchangeRate) []ExchangeRateResponse {
	responses := make([]ExchangeRateResponse, len(rates))
	for i := range rates {
		responses[i] = ToExchangeRateResponse(&rates[i])
	}
	return responses
}

// CurrencyResponse describes one supported currency.
type CurrencyResponse struct {
	CurrencyCode string `json:"currencyCode"`
	Name         string `json:"name"`
}

// ToListCurrencyResponse converts the supported currency set to response
// DTOs.
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	responses := make([]CurrencyResponse, len(currencies))
	for i, c := range currencies {
		responses[i] = CurrencyResponse{CurrencyCode: c.String(), Name: c.Name()}
	}
	return responses
}
