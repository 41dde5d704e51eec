package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ArowuTest/bridgetunes-event-wheel/internal/metrics"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/models"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/repositories"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/utils"
	"golang.org/x/exp/slog"
)

// SpinServiceImpl implements SpinService
type SpinServiceImpl struct {
	userRepo     repositories.UserRepository
	spinRepo     repositories.SpinRepository
	prizes       *PrizeTable
	random       RandomSource
	cost         int
	presentation time.Duration
}

// NewSpinService creates a new SpinService
func NewSpinService(
	userRepo repositories.UserRepository,
	spinRepo repositories.SpinRepository,
	prizes *PrizeTable,
	random RandomSource,
	cost int,
	presentation time.Duration,
) *SpinServiceImpl {
	if random == nil {
		random = CryptoRandom{}
	}
	return &SpinServiceImpl{
		userRepo:     userRepo,
		spinRepo:     spinRepo,
		prizes:       prizes,
		random:       random,
		cost:         cost,
		presentation: presentation,
	}
}

func (s *SpinServiceImpl) Cost() int { return s.cost }

func (s *SpinServiceImpl) PresentationDelay() time.Duration { return s.presentation }

func (s *SpinServiceImpl) Prizes() []models.PrizeChance { return s.prizes.Chances() }

// Spin plays the wheel once for accountID. The debit is a guarded
// server-side decrement, so a spin that loses a race still fails with
// ErrInsufficientBalance and changes nothing. Writes ignore the caller's
// cancellation. If the record insert fails after the debit the points stay
// spent until reconciliation credits them back.
func (s *SpinServiceImpl) Spin(ctx context.Context, accountID string, cost int) (*models.SpinRecord, error) {
	if cost <= 0 {
		return nil, fmt.Errorf("%w: cost must be positive", ErrInvalidInput)
	}

	// 1. Load the account
	user, err := s.userRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			metrics.SpinFailuresTotal.WithLabelValues("account_not_found").Inc()
			return nil, ErrAccountNotFound
		}
		slog.Error("Spin: Failed to load account", "error", err, "accountId", accountID)
		metrics.SpinFailuresTotal.WithLabelValues("persistence").Inc()
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// 2. Reject before any mutation
	if user.Points < cost {
		metrics.SpinFailuresTotal.WithLabelValues("insufficient_balance").Inc()
		return nil, ErrInsufficientBalance
	}

	// 3. Draw
	prize, err := s.prizes.Select(s.random.Float64())
	if err != nil {
		slog.Error("Spin: Prize selection failed", "error", err)
		metrics.SpinFailuresTotal.WithLabelValues("invalid_input").Inc()
		return nil, err
	}

	mctx := context.WithoutCancel(ctx)

	// 4. Atomic guarded debit
	balance, err := s.userRepo.AdjustPoints(mctx, accountID, -cost)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrInsufficientPoints):
			metrics.SpinFailuresTotal.WithLabelValues("insufficient_balance").Inc()
			return nil, ErrInsufficientBalance
		case errors.Is(err, repositories.ErrNotFound):
			metrics.SpinFailuresTotal.WithLabelValues("account_not_found").Inc()
			return nil, ErrAccountNotFound
		}
		slog.Error("Spin: Failed to debit balance", "error", err, "accountId", accountID, "cost", cost)
		metrics.SpinFailuresTotal.WithLabelValues("persistence").Inc()
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// 5, 6. Ticket and record
	record := &models.SpinRecord{
		AccountID:     accountID,
		PrizeLabel:    prize.Label,
		RewardTag:     prize.RewardTag,
		Cost:          cost,
		ClaimTicketID: utils.NewClaimTicketID(),
		Claimed:       false,
		CreatedAt:     time.Now(),
	}
	if err := s.spinRepo.Create(mctx, record); err != nil {
		slog.Error("Spin: CRITICAL: Balance debited but spin record not persisted",
			"error", err, "accountId", accountID, "ticket", record.ClaimTicketID, "cost", cost, "prize", prize.Label)
		metrics.SpinFailuresTotal.WithLabelValues("persistence").Inc()
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	metrics.SpinsTotal.WithLabelValues(prize.Label).Inc()
	slog.Info("Spin completed", "accountId", utils.MaskAccountID(accountID), "prize", prize.Label, "ticket", record.ClaimTicketID, "balance", balance)
	return record, nil
}

// Claim redeems ticketID for claimedBy in one conditional update
func (s *SpinServiceImpl) Claim(ctx context.Context, ticketID, claimedBy string) (*models.SpinRecord, error) {
	if ticketID == "" {
		return nil, fmt.Errorf("%w: missing ticket id", ErrInvalidInput)
	}

	record, err := s.spinRepo.Claim(context.WithoutCancel(ctx), ticketID, claimedBy, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			metrics.ClaimsTotal.WithLabelValues("not_found").Inc()
			return nil, ErrTicketNotFound
		case errors.Is(err, repositories.ErrAlreadyClaimed):
			metrics.ClaimsTotal.WithLabelValues("already_claimed").Inc()
			return nil, ErrAlreadyClaimed
		}
		slog.Error("Claim: Failed to claim ticket", "error", err, "ticket", ticketID)
		metrics.ClaimsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	metrics.ClaimsTotal.WithLabelValues("claimed").Inc()
	slog.Info("Claim ticket redeemed", "ticket", ticketID, "claimedBy", claimedBy, "prize", record.PrizeLabel)
	return record, nil
}
