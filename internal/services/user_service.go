package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ArowuTest/bridgetunes-event-wheel/internal/models"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/repositories"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/utils"
	"golang.org/x/exp/slog"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// UserServiceImpl handles attendee account business logic
type UserServiceImpl struct {
	userRepo repositories.UserRepository
	spinRepo repositories.SpinRepository
	txRepo   repositories.PointTransactionRepository
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo repositories.UserRepository,
	spinRepo repositories.SpinRepository,
	txRepo repositories.PointTransactionRepository,
) *UserServiceImpl {
	return &UserServiceImpl{
		userRepo: userRepo,
		spinRepo: spinRepo,
		txRepo:   txRepo,
	}
}

// EnsureAccount upserts the profile the identity provider vouched for
func (s *UserServiceImpl) EnsureAccount(ctx context.Context, identity models.Identity) (*models.User, error) {
	if identity.AccountID == "" {
		return nil, fmt.Errorf("%w: missing account id", ErrInvalidInput)
	}

	user, err := s.userRepo.Upsert(ctx, &models.User{
		ID:          identity.AccountID,
		DisplayName: identity.DisplayName,
		AvatarURL:   identity.AvatarURL,
	})
	if err != nil {
		slog.Error("Failed to upsert account", "error", err, "accountId", identity.AccountID)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return user, nil
}

// GetAccount retrieves an account by id
func (s *UserServiceImpl) GetAccount(ctx context.Context, accountID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return user, nil
}

// History returns up to limit spins, newest first
func (s *UserServiceImpl) History(ctx context.Context, accountID string, limit int) ([]*models.SpinRecord, error) {
	if _, err := s.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}

	records, err := s.spinRepo.FindByAccountID(ctx, accountID, utils.ClampLimit(limit, defaultHistoryLimit, maxHistoryLimit))
	if err != nil {
		slog.Error("Failed to load spin history", "error", err, "accountId", accountID)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return records, nil
}

// GrantPoints writes the ledger entry first and then the balance, so a failure
// in between leaves a shortfall that reconciliation repairs
func (s *UserServiceImpl) GrantPoints(ctx context.Context, accountID string, points int, grantedBy string) (*models.User, error) {
	if points <= 0 {
		return nil, fmt.Errorf("%w: points must be positive", ErrInvalidInput)
	}
	if _, err := s.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}

	mctx := context.WithoutCancel(ctx)
	if err := s.txRepo.Create(mctx, &models.PointTransaction{
		AccountID: accountID,
		Points:    points,
		Source:    models.PointSourceGrant,
		CreatedBy: grantedBy,
	}); err != nil {
		slog.Error("GrantPoints: Failed to create point transaction record", "error", err, "accountId", accountID)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if _, err := s.userRepo.AdjustPoints(mctx, accountID, points); err != nil {
		slog.Error("GrantPoints: Failed to credit points", "error", err, "accountId", accountID, "points", points)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	slog.Info("Points granted", "accountId", utils.MaskAccountID(accountID), "points", points, "grantedBy", grantedBy)
	return s.GetAccount(ctx, accountID)
}

// ImportAccount creates the account and credits its starting points once.
// It reports false when an import for this account was already recorded.
func (s *UserServiceImpl) ImportAccount(ctx context.Context, accountID, displayName string, points int) (bool, error) {
	if accountID == "" || points < 0 {
		return false, fmt.Errorf("%w: bad import row", ErrInvalidInput)
	}

	if _, err := s.userRepo.Upsert(ctx, &models.User{ID: accountID, DisplayName: displayName}); err != nil {
		return false, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	err := s.txRepo.Create(ctx, &models.PointTransaction{
		AccountID: accountID,
		Points:    points,
		Source:    models.PointSourceImport,
		Reference: "import:" + accountID,
		CreatedBy: "csv-import",
	})
	if errors.Is(err, repositories.ErrDuplicate) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if points > 0 {
		if _, err := s.userRepo.AdjustPoints(ctx, accountID, points); err != nil {
			slog.Error("ImportAccount: Failed to credit starting points", "error", err, "accountId", accountID)
			return false, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}
	return true, nil
}
