package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ArowuTest/bridgetunes-event-wheel/internal/metrics"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/models"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/repositories"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// EventServiceImpl handles events, polls and voting
type EventServiceImpl struct {
	eventRepo  repositories.EventRepository
	voteRepo   repositories.VoteRepository
	userRepo   repositories.UserRepository
	txRepo     repositories.PointTransactionRepository
	votePoints int
	now        func() time.Time
}

// NewEventService creates a new EventService. Every accepted vote credits votePoints.
func NewEventService(
	eventRepo repositories.EventRepository,
	voteRepo repositories.VoteRepository,
	userRepo repositories.UserRepository,
	txRepo repositories.PointTransactionRepository,
	votePoints int,
) *EventServiceImpl {
	return &EventServiceImpl{
		eventRepo:  eventRepo,
		voteRepo:   voteRepo,
		userRepo:   userRepo,
		txRepo:     txRepo,
		votePoints: votePoints,
		now:        time.Now,
	}
}

// CreateEvent validates and stores a new ACTIVE event with zeroed tallies
func (s *EventServiceImpl) CreateEvent(ctx context.Context, event *models.Event) error {
	event.Title = strings.TrimSpace(event.Title)
	if event.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if len(event.Options) == 0 {
		return fmt.Errorf("%w: at least one option is required", ErrInvalidInput)
	}
	if !event.StartAt.IsZero() && !event.EndAt.IsZero() && !event.EndAt.After(event.StartAt) {
		return fmt.Errorf("%w: endAt must be after startAt", ErrInvalidInput)
	}

	keys := make(map[string]bool, len(event.Options))
	for i := range event.Options {
		key := strings.TrimSpace(event.Options[i].Key)
		if key == "" || keys[key] {
			return fmt.Errorf("%w: option keys must be unique and non-empty", ErrInvalidInput)
		}
		keys[key] = true
		event.Options[i].Key = key
		event.Options[i].Votes = 0
	}
	event.Status = models.EventStatusActive

	if err := s.eventRepo.Create(ctx, event); err != nil {
		slog.Error("Failed to create event", "error", err, "title", event.Title)
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	slog.Info("Event created", "eventId", event.ID.Hex(), "title", event.Title)
	return nil
}

// GetEvent retrieves an event by its hex id
func (s *EventServiceImpl) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid event id", ErrInvalidInput)
	}
	return s.findEvent(ctx, objectID)
}

func (s *EventServiceImpl) findEvent(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return event, nil
}

// ListEvents returns events newest first
func (s *EventServiceImpl) ListEvents(ctx context.Context, page, limit int) ([]*models.Event, error) {
	if page < 1 {
		page = 1
	}
	events, err := s.eventRepo.FindAll(ctx, page, utils.ClampLimit(limit, 20, 100))
	if err != nil {
		slog.Error("Failed to list events", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return events, nil
}

// CloseEvent stops voting on an event
func (s *EventServiceImpl) CloseEvent(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.eventRepo.UpdateStatus(ctx, event.ID, models.EventStatusClosed); err != nil {
		slog.Error("Failed to close event", "error", err, "eventId", id)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	event.Status = models.EventStatusClosed
	return event, nil
}

// CastVote credits the voter, records the ballot and bumps the tally.
// The ledger entry is written first under a reference fixed per account and
// event, so a failure after it leaves a shortfall reconciliation can see and
// a retry reuses it. The unique ballot insert is the gate: only the first
// vote per account and event reaches the tally and the balance.
func (s *EventServiceImpl) CastVote(ctx context.Context, eventID, accountID, optionKey string) (*models.Vote, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsOpen(s.now()) {
		return nil, ErrEventClosed
	}
	if !event.HasOption(optionKey) {
		return nil, ErrUnknownOption
	}
	if _, err := s.userRepo.FindByID(ctx, accountID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	mctx := context.WithoutCancel(ctx)
	if s.votePoints > 0 {
		err := s.txRepo.Create(mctx, &models.PointTransaction{
			AccountID: accountID,
			Points:    s.votePoints,
			Source:    models.PointSourceVote,
			Reference: voteReference(event.ID, accountID),
		})
		if err != nil && !errors.Is(err, repositories.ErrDuplicate) {
			slog.Error("CastVote: Failed to create point transaction record", "error", err, "eventId", eventID, "accountId", accountID)
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}

	vote := &models.Vote{EventID: event.ID, AccountID: accountID, OptionKey: optionKey}
	if err := s.voteRepo.Create(mctx, vote); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrAlreadyVoted
		}
		slog.Error("CastVote: Failed to store vote", "error", err, "eventId", eventID, "accountId", accountID)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if err := s.eventRepo.IncrementVote(mctx, event.ID, optionKey); err != nil {
		slog.Error("CastVote: Failed to increment tally", "error", err, "eventId", eventID, "option", optionKey)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if s.votePoints > 0 {
		if _, err := s.userRepo.AdjustPoints(mctx, accountID, s.votePoints); err != nil {
			slog.Error("CastVote: Failed to credit vote points", "error", err, "accountId", accountID, "points", s.votePoints)
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}

	metrics.VotesTotal.Inc()
	slog.Info("Vote cast", "eventId", eventID, "accountId", utils.MaskAccountID(accountID), "option", optionKey)
	return vote, nil
}

func voteReference(eventID primitive.ObjectID, accountID string) string {
	return eventID.Hex() + ":" + accountID
}
