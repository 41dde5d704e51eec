package services

import (
	"context"
	"time"

	"github.com/ArowuTest/bridgetunes-event-wheel/internal/models"
)

// SpinService defines the interface for prize wheel operations
type SpinService interface {
	// Spin debits cost from the account and records the drawn prize with a fresh claim ticket
	Spin(ctx context.Context, accountID string, cost int) (*models.SpinRecord, error)

	// Claim redeems a claim ticket exactly once
	Claim(ctx context.Context, ticketID, claimedBy string) (*models.SpinRecord, error)

	// Prizes returns the prize table with each prize's chance
	Prizes() []models.PrizeChance

	// Cost is the configured price of one spin
	Cost() int

	// PresentationDelay is how long the response is held for the wheel animation
	PresentationDelay() time.Duration
}

// UserService defines the interface for attendee account operations
type UserService interface {
	// EnsureAccount creates or refreshes the account behind an authenticated identity
	EnsureAccount(ctx context.Context, identity models.Identity) (*models.User, error)

	// GetAccount retrieves an account with its balance
	GetAccount(ctx context.Context, accountID string) (*models.User, error)

	// History lists the account's spins, newest first
	History(ctx context.Context, accountID string, limit int) ([]*models.SpinRecord, error)

	// GrantPoints credits points to an account on behalf of staff
	GrantPoints(ctx context.Context, accountID string, points int, grantedBy string) (*models.User, error)

	// ImportAccount creates an account with starting points once per account id
	ImportAccount(ctx context.Context, accountID, displayName string, points int) (bool, error)
}

// EventService defines the interface for events and their polls
type EventService interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	ListEvents(ctx context.Context, page, limit int) ([]*models.Event, error)
	CloseEvent(ctx context.Context, id string) (*models.Event, error)

	// CastVote records one ballot per account per event and credits the voter
	CastVote(ctx context.Context, eventID, accountID, optionKey string) (*models.Vote, error)
}

// AuthService defines the interface for staff authentication
type AuthService interface {
	// Login checks the credentials and returns a signed staff token
	Login(ctx context.Context, req *models.LoginRequest) (string, *models.AdminUser, error)

	// CreateAdmin stores a staff account with a hashed password
	CreateAdmin(ctx context.Context, email, password, displayName string) (*models.AdminUser, error)
}

// ReconciliationService defines the interface for balance reconciliation
type ReconciliationService interface {
	// Run compares every balance with its history. With fix set, shortfalls are credited back.
	Run(ctx context.Context, fix bool) (*models.ReconciliationReport, error)
}
