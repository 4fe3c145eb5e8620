package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"papertrade/pkg/auth"
	"papertrade/pkg/config"
	"papertrade/pkg/database"
	"papertrade/pkg/middleware"
	"papertrade/pkg/portfolio"
	"papertrade/pkg/quotes"
	"papertrade/pkg/trading"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, cfg *config.Config, quoteSource quotes.Source) {
	// Initialize authentication services
	jwtService := auth.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.ExpiresIn)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, database.GetDB())
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(database.GetDB())

	// Initialize handlers
	authHandlers := NewAuthHandlers(database.GetDB(), jwtService, authMiddleware)

	tradingService := trading.NewService(database.GetDB(), quoteSource)
	portfolioEngine := portfolio.NewEngine(database.GetDB(), quoteSource)
	handlers := NewHandlers(tradingService, portfolioEngine, quoteSource)

	// Health check endpoints
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "papertrade",
			"version": "1.0.0",
		})
	})
	router.GET("/health/database", CheckDatabaseHealth)
	router.GET("/health/redis", CheckRedisHealth)

	// Apply global rate limiting to all routes
	router.Use(rateLimitMiddleware.IPRateLimit(middleware.DefaultRateLimit))

	// API version group
	v1 := router.Group("/api/v1")
	{
		// Public authentication endpoints (no auth required)
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", authHandlers.Register)
			authGroup.POST("/login", authHandlers.Login)
		}

		// Protected authentication endpoints (auth required)
		authProtected := v1.Group("/auth")
		authProtected.Use(authMiddleware.JWTAuth())
		{
			authProtected.GET("/profile", authHandlers.GetProfile)
		}

		// Portfolio endpoints (require authentication)
		portfolioGroup := v1.Group("/portfolio")
		portfolioGroup.Use(authMiddleware.JWTAuth())
		{
			portfolioGroup.GET("", handlers.GetPortfolio)
		}

		// Quote endpoints (require authentication)
		quotesGroup := v1.Group("/quotes")
		quotesGroup.Use(authMiddleware.JWTAuth())
		{
			quotesGroup.GET("/:symbol", handlers.GetQuote)
		}

		// Trade endpoints (require authentication, tighter rate limits)
		trades := v1.Group("/trades")
		trades.Use(authMiddleware.JWTAuth())
		trades.Use(rateLimitMiddleware.TradingRateLimit())
		{
			trades.POST("/buy", handlers.Buy)
			trades.POST("/sell", handlers.Sell)
			trades.GET("", handlers.GetHistory)
		}

		// Account endpoints (require authentication)
		account := v1.Group("/account")
		account.Use(authMiddleware.JWTAuth())
		{
			account.POST("/deposit", handlers.Deposit)
		}
	}
}
