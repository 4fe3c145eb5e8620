package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"papertrade/pkg/cache"
	"papertrade/pkg/models"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Requests   int                         // Number of requests
	Window     time.Duration               // Time window
	KeyFunc    func(c *gin.Context) string // Function to generate rate limit key
	Message    string                      // Error message to return
	StatusCode int                         // HTTP status code to return
}

// Default rate limiting configurations
var (
	DefaultRateLimit = RateLimitConfig{
		Requests:   100,
		Window:     time.Minute,
		KeyFunc:    func(c *gin.Context) string { return c.ClientIP() },
		Message:    "Too many requests, please try again later",
		StatusCode: http.StatusTooManyRequests,
	}

	TradingRateLimit = RateLimitConfig{
		Requests: 10,
		Window:   time.Second,
		KeyFunc: func(c *gin.Context) string {
			if userID, exists := c.Get("user_id"); exists {
				return fmt.Sprintf("user:%v", userID)
			}
			return c.ClientIP()
		},
		Message:    "Trading rate limit exceeded",
		StatusCode: http.StatusTooManyRequests,
	}
)

// RateLimitMiddleware handles rate limiting
type RateLimitMiddleware struct {
	db *gorm.DB
}

// NewRateLimitMiddleware creates a new rate limiting middleware
func NewRateLimitMiddleware(db *gorm.DB) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		db: db,
	}
}

// IPRateLimit creates a rate limiting middleware for IP addresses
func (rl *RateLimitMiddleware) IPRateLimit(config RateLimitConfig) gin.HandlerFunc {
	return rl.RateLimit(config)
}

// TradingRateLimit creates a rate limiting middleware for trading endpoints
func (rl *RateLimitMiddleware) TradingRateLimit() gin.HandlerFunc {
	return rl.RateLimit(TradingRateLimit)
}

// RateLimit creates a rate limiting middleware with the given configuration
func (rl *RateLimitMiddleware) RateLimit(config RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := config.KeyFunc(c)

		// Try Redis first for better performance
		allowed, err := rl.checkRateLimitRedis(key, config)
		if err != nil {
			// If Redis fails, fall back to the database counter
			allowed, err = rl.checkRateLimitDB(key, config)
		}
		if err != nil {
			// If rate limiting fails entirely, allow the request rather
			// than taking the service down with it.
			c.Next()
			return
		}

		if !allowed {
			c.JSON(config.StatusCode, gin.H{"error": config.Message})
			c.Abort()
			return
		}

		c.Next()
	}
}

// checkRateLimitRedis counts requests in a fixed window using Redis
// INCR with an expiry set on the first hit.
func (rl *RateLimitMiddleware) checkRateLimitRedis(key string, config RateLimitConfig) (bool, error) {
	rateLimitKey := fmt.Sprintf(cache.KeyRateLimit, key)

	count, err := cache.Increment(rateLimitKey)
	if err != nil {
		return false, err
	}

	if count == 1 {
		if err := cache.Expire(rateLimitKey, config.Window); err != nil {
			return false, err
		}
	}

	return count <= int64(config.Requests), nil
}

// checkRateLimitDB is the database fallback: one row per key holding
// the current window start and count.
func (rl *RateLimitMiddleware) checkRateLimitDB(key string, config RateLimitConfig) (bool, error) {
	now := time.Now()

	var limit models.RateLimit
	err := rl.db.Where("key = ?", key).First(&limit).Error
	if err == gorm.ErrRecordNotFound {
		limit = models.RateLimit{
			Key:         key,
			Count:       1,
			WindowStart: now,
		}
		if err := rl.db.Create(&limit).Error; err != nil {
			return false, err
		}
		return true, nil
	}
	if err != nil {
		return false, err
	}

	if now.Sub(limit.WindowStart) > config.Window {
		// Window elapsed, start a new one
		err := rl.db.Model(&limit).Updates(map[string]interface{}{
			"count":        1,
			"window_start": now,
		}).Error
		if err != nil {
			return false, err
		}
		return true, nil
	}

	if limit.Count >= config.Requests {
		return false, nil
	}

	err = rl.db.Model(&limit).Update("count", gorm.Expr("count + 1")).Error
	if err != nil {
		return false, err
	}
	return true, nil
}
