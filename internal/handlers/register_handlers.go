package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rnordin/currency_exchange_app/cmd/docs"
	"github.com/rnordin/currency_exchange_app/internal/core/domain"
	portssvc "github.com/rnordin/currency_exchange_app/internal/core/ports/services"
	"github.com/rnordin/currency_exchange_app/pkg/config"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through interfaces.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, exchangeRateService portssvc.ExchangeRateSvcFacade) {
	registerCustomValidators()

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	v1 := r.Group("/api/v1")

	refreshLimiter := limiter.New(memory.NewStore(), limiter.Rate{
		Period: time.Minute,
		Limit:  cfg.RefreshRateLimit,
	})

	registerExchangeRateRoutes(v1, exchangeRateService, refreshLimiter)
	registerCurrencyRoutes(v1)

	setupSwaggerRoutes(r, cfg)
}

// registerCustomValidators wires the currencycode binding tag to the closed
// currency set.
func registerCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("currencycode", func(fl validator.FieldLevel) bool {
			return domain.IsValidCurrency(fl.Field().String())
		})
	}
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// errorResponse writes the error payload shape shared by all failure
// responses.
func errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"error":     message,
		"status":    strconv.Itoa(status),
		"timestamp": strconv.FormatInt(time.Now().UnixMilli(), 10),
	})
}
