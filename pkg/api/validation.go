package api

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Validation patterns
var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,50}$`)
	symbolRegex   = regexp.MustCompile(`^[A-Za-z][A-Za-z.\-]{0,9}$`)
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

// Validator provides validation methods
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

// AddError adds a validation error
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// GetErrors returns all validation errors
func (v *Validator) GetErrors() ValidationErrors {
	return v.errors
}

// ValidateUsername validates a username
func (v *Validator) ValidateUsername(field, username string) {
	if username == "" {
		v.AddError(field, "username is required")
		return
	}

	if len(username) < 3 {
		v.AddError(field, "username must be at least 3 characters")
		return
	}

	if len(username) > 50 {
		v.AddError(field, "username must be at most 50 characters")
		return
	}

	if !usernameRegex.MatchString(username) {
		v.AddError(field, "username can only contain letters, numbers, underscores, and hyphens")
	}
}

// ValidatePassword validates a password
func (v *Validator) ValidatePassword(field, password string) {
	if password == "" {
		v.AddError(field, "password is required")
		return
	}

	if len(password) < 8 {
		v.AddError(field, "password must be at least 8 characters")
		return
	}

	if len(password) > 128 {
		v.AddError(field, "password is too long")
	}
}

// ValidateSymbol validates a stock symbol
func (v *Validator) ValidateSymbol(field, symbol string) {
	if symbol == "" {
		v.AddError(field, "symbol is required")
		return
	}

	if !symbolRegex.MatchString(symbol) {
		v.AddError(field, "invalid symbol format")
	}
}

// ValidateAmount validates a cash amount and returns the parsed value.
// Deposits have no upper bound, so only the format and sign are checked.
func (v *Validator) ValidateAmount(field, amountStr string) decimal.Decimal {
	if amountStr == "" {
		v.AddError(field, "amount is required")
		return decimal.Zero
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		v.AddError(field, "invalid amount format")
		return decimal.Zero
	}

	if amount.IsNegative() {
		v.AddError(field, "amount cannot be negative")
		return decimal.Zero
	}

	return amount
}

// SendValidationErrors sends validation errors as JSON response
func SendValidationErrors(c *gin.Context, errors ValidationErrors) {
	c.JSON(400, gin.H{
		"error":   "Validation failed",
		"details": errors,
	})
}

// ValidateRegisterRequest validates registration data
func ValidateRegisterRequest(req RegisterRequest) ValidationErrors {
	validator := NewValidator()

	validator.ValidateUsername("username", req.Username)
	validator.ValidatePassword("password", req.Password)

	return validator.GetErrors()
}

// ValidateTradeRequest validates buy/sell request data. Share count
// semantics beyond "present" are enforced by the trading service, which
// owns the whole-share rule.
func ValidateTradeRequest(req TradeRequest) ValidationErrors {
	validator := NewValidator()

	validator.ValidateSymbol("symbol", req.Symbol)
	if strings.TrimSpace(req.Shares) == "" {
		validator.AddError("shares", "shares is required")
	}

	return validator.GetErrors()
}

// Request structs with validation tags
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TradeRequest struct {
	Symbol string `json:"symbol"`
	Shares string `json:"shares"`
}

type DepositRequest struct {
	Amount string `json:"amount"`
}
