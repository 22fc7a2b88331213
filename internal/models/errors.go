package models

import "errors"

// Custom errors
var (
	ErrNotFound          = errors.New("record not found")
	ErrNoData            = errors.New("no historical data available")
	ErrInsufficientFunds = errors.New("stake exceeds current bankroll")
	ErrAlreadyResolved   = errors.New("bet is not pending")
	ErrDuplicateKey      = errors.New("duplicate key violation")
	ErrInvalidDirection  = errors.New("direction must be OVER or UNDER")
)
