package services

import "errors"

// Error taxonomy surfaced to callers. Controllers map these onto HTTP codes;
// anything else is treated as a persistence failure.
var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrItemNotFound      = errors.New("store item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInsufficientFunds = errors.New("insufficient coins")
	ErrNotAuthorized     = errors.New("not authorized")
	ErrGiftNotFound      = errors.New("gift not found")
	ErrInvalidGift       = errors.New("invalid gift")
	ErrUnknownEventType  = errors.New("unknown event type")
)
