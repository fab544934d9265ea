package domain

import "errors"

var (
	// Business outcomes
	ErrInsufficientBalance = errors.New("insufficient balance")

	// Configuration faults
	ErrCounterNotProvisioned = errors.New("transaction counter is not provisioned")

	// Operational faults; adapters wrap driver errors with this sentinel.
	ErrStoreFault = errors.New("store failure")

	// Lookup errors
	ErrTransactionNotFound = errors.New("transaction not found")
)
