package repositories

import (
	"context"
	"time"

	"github.com/ArowuTest/bridgetunes-event-wheel/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository defines the interface for attendee account operations
type UserRepository interface {
	// Upsert stores the profile fields of user, creating the account with a zero
	// balance when it does not exist yet. The stored account is returned.
	Upsert(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindAll(ctx context.Context) ([]*models.User, error)
	// AdjustPoints atomically adds delta to the balance and returns the new
	// balance. A negative delta only applies when the balance covers it,
	// otherwise ErrInsufficientPoints is returned and nothing changes.
	AdjustPoints(ctx context.Context, id string, delta int) (int, error)
}

// SpinRepository defines the interface for spin history operations
type SpinRepository interface {
	Create(ctx context.Context, record *models.SpinRecord) error
	// FindByAccountID returns the newest records first
	FindByAccountID(ctx context.Context, accountID string, limit int) ([]*models.SpinRecord, error)
	FindByTicketID(ctx context.Context, ticketID string) (*models.SpinRecord, error)
	// Claim marks the ticket claimed if and only if it is still unclaimed.
	// It returns ErrNotFound for an unknown ticket and ErrAlreadyClaimed when
	// another claim got there first.
	Claim(ctx context.Context, ticketID, claimedBy string, at time.Time) (*models.SpinRecord, error)
	// SumCostByAccount returns the total points spent per account
	SumCostByAccount(ctx context.Context) (map[string]int, error)
}

// PointTransactionRepository defines the interface for point ledger operations
type PointTransactionRepository interface {
	// Create appends a ledger entry. ErrDuplicate is returned when an entry
	// with the same source and reference already exists.
	Create(ctx context.Context, transaction *models.PointTransaction) error
	FindByAccountID(ctx context.Context, accountID string) ([]*models.PointTransaction, error)
	// SumByAccount totals credits per account, leaving out the given sources
	SumByAccount(ctx context.Context, exclude ...models.PointSource) (map[string]int, error)
}

// EventRepository defines the interface for event and poll operations
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.Event, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.EventStatus) error
	// IncrementVote atomically bumps the tally of one option
	IncrementVote(ctx context.Context, id primitive.ObjectID, optionKey string) error
}

// VoteRepository defines the interface for ballot operations
type VoteRepository interface {
	// Create returns ErrDuplicate when the account already voted in the event
	Create(ctx context.Context, vote *models.Vote) error
	CountByEventID(ctx context.Context, eventID primitive.ObjectID) (int64, error)
}

// AdminUserRepository defines the interface for staff account operations
type AdminUserRepository interface {
	Create(ctx context.Context, adminUser *models.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
}
