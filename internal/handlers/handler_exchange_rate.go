package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rnordin/currency_exchange_app/internal/apperrors"
	"github.com/rnordin/currency_exchange_app/internal/core/domain"
	portssvc "github.com/rnordin/currency_exchange_app/internal/core/ports/services"
	"github.com/rnordin/currency_exchange_app/internal/dto"
	"github.com/rnordin/currency_exchange_app/internal/middleware"
	"github.com/ulule/limiter/v3"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
}

// newExchangeRateHandler creates a new exchangeRateHandler.
func newExchangeRateHandler(ers portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{
		exchangeRateService: ers,
	}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateSvcFacade, refreshLimiter *limiter.Limiter) {
	h := newExchangeRateHandler(exchangeRateService)

	exchangeRates := rg.Group("/exchange-rates")
	{
		exchangeRates.POST("/refresh", middleware.RateLimit(refreshLimiter), h.refreshExchangeRates)
		exchangeRates.POST("/convert", h.convertAmount)
		exchangeRates.GET("/:from/:to", h.getExchangeRate)
	}
}

// refreshExchangeRates godoc
// @Summary Refresh exchange rates
// @Description Fetches the latest banking day's rates from the Riksbank API for every missing currency pair, derives the inverse rates, and returns both directions for every pair
// @Tags exchange rates
// @Produce json
// @Success 200 {array} dto.ExchangeRateResponse
// @Failure 503 {object} map[string]string "Riksbank API unavailable"
// @Failure 500 {object} map[string]string "Failed to refresh exchange rates"
// @Router /exchange-rates/refresh [post]
func (h *exchangeRateHandler) refreshExchangeRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rates, err := h.exchangeRateService.UpdateAndFetchLatestExchangeRates(c.Request.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrUpstream) {
			logger.Warn("Riksbank API failure during refresh", slog.String("error", err.Error()))
			errorResponse(c, http.StatusServiceUnavailable, err.Error())
		} else {
			logger.Error("Failed to refresh exchange rates", slog.String("error", err.Error()))
			errorResponse(c, http.StatusInternalServerError, "Failed to refresh exchange rates")
		}
		return
	}

	logger.Info("Exchange rates refreshed", slog.Int("count", len(rates)))
	c.JSON(http.StatusOK, dto.ToListExchangeRateResponse(rates))
}

// convertAmount godoc
// @Summary Convert an amount between currencies
// @Description Converts an amount using the most recent stored exchange rate for the pair; identical currencies return the amount unchanged
// @Tags exchange rates
// @Accept json
// @Produce json
// @Param request body dto.ConversionRequest true "Conversion details"
// @Success 200 {object} dto.ConversionResponse
// @Failure 400 {object} map[string]string "Invalid request format or unknown currency"
// @Failure 404 {object} map[string]string "No exchange rate stored for the pair"
// @Router /exchange-rates/convert [post]
func (h *exchangeRateHandler) convertAmount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ConversionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for convertAmount", slog.String("error", err.Error()))
		errorResponse(c, http.StatusBadRequest, "Invalid currency provided")
		return
	}

	from, err := domain.ParseCurrency(req.FromCurrency)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	to, err := domain.ParseCurrency(req.ToCurrency)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	converted, err := h.exchangeRateService.ConvertAmount(c.Request.Context(), from, to, req.Amount)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("No exchange rate stored for conversion", slog.String("from", from.String()), slog.String("to", to.String()))
			errorResponse(c, http.StatusNotFound, err.Error())
		} else {
			logger.Error("Failed to convert amount", slog.String("error", err.Error()))
			errorResponse(c, http.StatusInternalServerError, "Failed to convert amount")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ConversionResponse{
		FromCurrency:    from.String(),
		ToCurrency:      to.String(),
		Amount:          req.Amount,
		ConvertedAmount: converted,
	})
}

// getExchangeRate godoc
// @Summary Get the latest exchange rate for a pair
// @Description Retrieves the most recent stored exchange rate for a currency pair without contacting the Riksbank API
// @Tags exchange rates
// @Produce json
// @Param from path string true "From currency code"
// @Param to path string true "To currency code"
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Unknown currency"
// @Failure 404 {object} map[string]string "No exchange rate stored for the pair"
// @Router /exchange-rates/{from}/{to} [get]
func (h *exchangeRateHandler) getExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from, err := domain.ParseCurrency(c.Param("from"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	to, err := domain.ParseCurrency(c.Param("to"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	rate, err := h.exchangeRateService.GetLatestExchangeRate(c.Request.Context(), from, to)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			errorResponse(c, http.StatusNotFound, "No exchange rate found, please update to latest exchange rates")
		} else {
			logger.Error("Failed to get exchange rate", slog.String("error", err.Error()))
			errorResponse(c, http.StatusInternalServerError, "Failed to retrieve exchange rate")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate))
}
