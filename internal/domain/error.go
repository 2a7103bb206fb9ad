package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrAlreadyPremium  = errors.New("user already has a premium subscription")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrGateway         = errors.New("payment gateway unavailable or rejected the request")

	// Storage-layer errors
	ErrOperationFailed    = errors.New("storage operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid execution context for query")
)
