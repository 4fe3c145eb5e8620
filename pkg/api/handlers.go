package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"papertrade/pkg/cache"
	"papertrade/pkg/database"
	"papertrade/pkg/middleware"
	"papertrade/pkg/portfolio"
	"papertrade/pkg/quotes"
	"papertrade/pkg/trading"
)

// Handlers contains portfolio and trading handlers
type Handlers struct {
	trading   *trading.Service
	portfolio *portfolio.Engine
	quotes    quotes.Source
}

// NewHandlers creates new portfolio and trading handlers
func NewHandlers(tradingService *trading.Service, portfolioEngine *portfolio.Engine, quoteSource quotes.Source) *Handlers {
	return &Handlers{
		trading:   tradingService,
		portfolio: portfolioEngine,
		quotes:    quoteSource,
	}
}

// GetPortfolio returns the user's current holdings, cash, and total assets
func (h *Handlers) GetPortfolio(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	statement, err := h.portfolio.Compute(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute portfolio"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"holdings":     statement.Holdings,
			"cash":         statement.Cash,
			"total_assets": statement.TotalAssets,
		},
	})
}

// GetQuote returns the current price for a symbol
func (h *Handlers) GetQuote(c *gin.Context) {
	symbol := c.Param("symbol")

	validator := NewValidator()
	validator.ValidateSymbol("symbol", symbol)
	if validator.HasErrors() {
		SendValidationErrors(c, validator.GetErrors())
		return
	}

	quote, err := h.quotes.Lookup(c.Request.Context(), symbol)
	if err != nil {
		if errors.Is(err, quotes.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Stock not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch quote"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    quote,
	})
}

// Buy purchases shares for the authenticated user
func (h *Handlers) Buy(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if errs := ValidateTradeRequest(req); len(errs) > 0 {
		SendValidationErrors(c, errs)
		return
	}

	entry, err := h.trading.Buy(c.Request.Context(), userID, req.Symbol, req.Shares)
	if err != nil {
		sendTradeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    entry,
	})
}

// Sell sells shares for the authenticated user
func (h *Handlers) Sell(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if errs := ValidateTradeRequest(req); len(errs) > 0 {
		SendValidationErrors(c, errs)
		return
	}

	entry, err := h.trading.Sell(c.Request.Context(), userID, req.Symbol, req.Shares)
	if err != nil {
		sendTradeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    entry,
	})
}

// GetHistory returns the user's full trade history in execution order
func (h *Handlers) GetHistory(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	history, err := h.portfolio.History(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    history,
	})
}

// Deposit credits cash to the authenticated user's account
func (h *Handlers) Deposit(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	validator := NewValidator()
	amount := validator.ValidateAmount("amount", req.Amount)
	if validator.HasErrors() {
		SendValidationErrors(c, validator.GetErrors())
		return
	}

	newCash, err := h.trading.Deposit(c.Request.Context(), userID, amount)
	if err != nil {
		sendTradeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"cash": newCash,
		},
	})
}

// sendTradeError maps trading service failures to HTTP responses.
// Validation failures are the client's fault, unknown symbols are 404,
// and anything touching the store is 500.
func sendTradeError(c *gin.Context, err error) {
	kind, ok := trading.KindOf(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Trade failed"})
		return
	}

	switch kind {
	case trading.KindSymbolNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case trading.KindInvalidShareCount, trading.KindNegativeAmount,
		trading.KindInsufficientFunds, trading.KindInsufficientHoldings:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Trade failed"})
	}
}

// Health Check Handlers

// CheckDatabaseHealth checks database connectivity
func CheckDatabaseHealth(c *gin.Context) {
	if err := database.HealthCheck(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// CheckRedisHealth checks Redis connectivity
func CheckRedisHealth(c *gin.Context) {
	if err := cache.HealthCheck(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
