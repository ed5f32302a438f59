package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrRateLimited       = errors.New("rate limited")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotInTx           = errors.New("operation requires a transaction")
	ErrLockHeld          = errors.New("lock already held")

	// ErrContention means a row lock could not be obtained in time. Callers
	// may retry; nothing was written.
	ErrContention = errors.New("auction busy, retry")
)

// RejectCode is a stable, machine-readable reason a bid or registration was
// refused.
type RejectCode string

const (
	RejectAuctionNotFound   RejectCode = "AUCTION_NOT_FOUND"
	RejectAuctionNotActive  RejectCode = "AUCTION_NOT_ACTIVE"
	RejectAuctionNotStarted RejectCode = "AUCTION_NOT_STARTED"
	RejectAuctionEnded      RejectCode = "AUCTION_ENDED"
	RejectBidTooLow         RejectCode = "BID_TOO_LOW"
	RejectInvalidAmount     RejectCode = "BID_INVALID_AMOUNT"
	RejectInvalidStep       RejectCode = "BID_INVALID_STEP"
	RejectSelfBid           RejectCode = "SELLER_SELF_BID"
	RejectBlacklisted       RejectCode = "BIDDER_BLACKLISTED"
	RejectRatingRequired    RejectCode = "BIDDER_RATING_REQUIRED"
	RejectRatingTooLow      RejectCode = "BIDDER_RATING_TOO_LOW"
	RejectProxyDisabled     RejectCode = "PROXY_DISABLED"
	RejectNoBuyNow          RejectCode = "NO_BUY_NOW"
)

// RejectError is a validation failure. It is never retried and always rolls
// back the surrounding transaction.
type RejectError struct {
	Code    RejectCode
	Message string
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Reject builds a RejectError with a formatted message.
func Reject(code RejectCode, format string, args ...any) error {
	return &RejectError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// RejectCodeOf extracts the code from err, if it wraps a RejectError.
func RejectCodeOf(err error) (RejectCode, bool) {
	var re *RejectError
	if errors.As(err, &re) {
		return re.Code, true
	}
	return "", false
}

// RequestError is a client mistake carrying a message safe to return to the
// caller. It unwraps to Kind, either ErrInvalidInput or ErrInvalidTransition.
type RequestError struct {
	Kind    error
	Message string
}

func (e *RequestError) Error() string { return e.Message + ": " + e.Kind.Error() }

func (e *RequestError) Unwrap() error { return e.Kind }

// Invalid builds an ErrInvalidInput RequestError.
func Invalid(format string, args ...any) error {
	return &RequestError{Kind: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// BadTransition builds an ErrInvalidTransition RequestError.
func BadTransition(format string, args ...any) error {
	return &RequestError{Kind: ErrInvalidTransition, Message: fmt.Sprintf(format, args...)}
}
