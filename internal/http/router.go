package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/assetdesk/backend/internal/config"
	"github.com/assetdesk/backend/internal/db"
	"github.com/assetdesk/backend/internal/fx"
	"github.com/assetdesk/backend/internal/http/handlers"
	"github.com/assetdesk/backend/internal/http/middleware"

	_ "github.com/assetdesk/backend/docs"
)

func Router(cfg config.Config, store *db.Store, provider fx.Provider, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Key", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store:     store,
		FX:        provider,
		Validator: validator.New(),
		Logger:    logger,
		AdminKey:  cfg.AdminKey,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.GET("/tickets", h.TicketsList)
		api.GET("/tickets/:id", h.TicketDetails)
		api.GET("/tickets/:id/billing", h.TicketBilling)
		api.GET("/billing/summary", h.BillingSummary)
		api.GET("/billing/payouts", h.BillingPayouts)
		api.GET("/assets", h.AssetsList)
		api.GET("/rates", h.RatesList)
	}

	admin := api.Group("")
	admin.Use(middleware.AdminKey(cfg.AdminKey))
	{
		admin.PUT("/rates", h.RatesUpdate)
		admin.DELETE("/rates/:key", h.RateDelete)
		admin.POST("/rates/fx/refresh", h.FXRefresh)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
