package trading

import (
	"errors"
	"fmt"
)

// ErrorKind classifies trade validation failures. Every failure the
// service returns carries exactly one kind; callers map kinds to
// user-visible responses.
type ErrorKind string

const (
	KindInvalidShareCount    ErrorKind = "invalid_share_count"
	KindSymbolNotFound       ErrorKind = "symbol_not_found"
	KindInsufficientFunds    ErrorKind = "insufficient_funds"
	KindInsufficientHoldings ErrorKind = "insufficient_holdings"
	KindNegativeAmount       ErrorKind = "negative_amount"
	KindStoreUnavailable     ErrorKind = "store_unavailable"
)

// ValidationError is a typed trade failure. StoreUnavailable errors
// wrap the underlying datastore error; the rest are pure business-rule
// rejections with no cause.
type ValidationError struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *ValidationError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.cause
}

func newError(kind ErrorKind, message string) *ValidationError {
	return &ValidationError{Kind: kind, Message: message}
}

func storeError(err error) *ValidationError {
	return &ValidationError{
		Kind:    KindStoreUnavailable,
		Message: "datastore unavailable",
		cause:   err,
	}
}

// KindOf extracts the error kind from err, if it is a trade validation
// failure.
func KindOf(err error) (ErrorKind, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Kind, true
	}
	return "", false
}
