package repositories

import "errors"

var (
	// ErrNotFound is returned when no document matches
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint rejects a write
	ErrDuplicate = errors.New("duplicate")
	// ErrInsufficientPoints is returned when a debit would take a balance below zero
	ErrInsufficientPoints = errors.New("insufficient points")
	// ErrAlreadyClaimed is returned when a claim ticket was redeemed before
	ErrAlreadyClaimed = errors.New("already claimed")
)
