package services

import "errors"

var (
	// ErrInvalidInput marks a malformed prize table, draw value or request argument
	ErrInvalidInput = errors.New("invalid input")
	// ErrAccountNotFound is returned when the account does not exist
	ErrAccountNotFound = errors.New("account not found")
	// ErrInsufficientBalance is returned when the balance does not cover the cost; nothing was changed
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrPersistence is a transient store failure. The balance may already be debited.
	ErrPersistence = errors.New("persistence error, try again")
	// ErrTicketNotFound is returned for an unknown claim ticket
	ErrTicketNotFound = errors.New("claim ticket not found")
	// ErrAlreadyClaimed is returned when a claim ticket was redeemed before
	ErrAlreadyClaimed = errors.New("claim ticket already claimed")
	// ErrEventNotFound is returned when the event does not exist
	ErrEventNotFound = errors.New("event not found")
	// ErrEventClosed is returned for votes outside the voting window
	ErrEventClosed = errors.New("event is not open for voting")
	// ErrUnknownOption is returned for a vote naming no poll option
	ErrUnknownOption = errors.New("unknown poll option")
	// ErrAlreadyVoted is returned when the account already voted in the event
	ErrAlreadyVoted = errors.New("already voted in this event")
	// ErrInvalidCredentials is returned for a failed staff login
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAdminExists is returned when seeding a staff account that already exists
	ErrAdminExists = errors.New("admin user already exists")
)
