package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rnordin/currency_exchange_app/internal/core/domain"
	"github.com/rnordin/currency_exchange_app/internal/dto"
)

// registerCurrencyRoutes registers routes related to the supported currency
// set.
func registerCurrencyRoutes(rg *gin.RouterGroup) {
	currencies := rg.Group("/currencies")
	currencies.GET("", listCurrencies)
}

// listCurrencies godoc
// @Summary List supported currencies
// @Description Returns the closed set of currencies the service converts between
// @Tags currencies
// @Produce json
// @Success 200 {array} dto.CurrencyResponse
// @Router /currencies [get]
func listCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToListCurrencyResponse(domain.Currencies()))
}
