package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ArowuTest/bridgetunes-event-wheel/internal/models"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/repositories"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// failingVoteRepository loses every ballot insert
type failingVoteRepository struct {
	repositories.VoteRepository
}

func (failingVoteRepository) Create(context.Context, *models.Vote) error {
	return errors.New("connection reset")
}

func newEventService(store *memory.Store) *EventServiceImpl {
	return NewEventService(store.Events(), store.Votes(), store.Users(), store.PointTransactions(), 10)
}

func createPoll(t *testing.T, svc *EventServiceImpl) *models.Event {
	t.Helper()
	event := &models.Event{
		Title: "Best talk",
		Options: []models.PollOption{
			{Key: "go", Label: "Go in production"},
			{Key: "db", Label: "Document stores"},
		},
	}
	require.NoError(t, svc.CreateEvent(context.Background(), event))
	return event
}

func TestCreateEvent_Validation(t *testing.T) {
	svc := newEventService(memory.NewStore())
	ctx := context.Background()

	tests := []struct {
		name  string
		event *models.Event
	}{
		{"no title", &models.Event{Options: []models.PollOption{{Key: "a", Label: "A"}}}},
		{"no options", &models.Event{Title: "Poll"}},
		{"duplicate keys", &models.Event{Title: "Poll", Options: []models.PollOption{{Key: "a"}, {Key: "a"}}}},
		{"end before start", &models.Event{
			Title:   "Poll",
			Options: []models.PollOption{{Key: "a"}},
			StartAt: time.Now(),
			EndAt:   time.Now().Add(-time.Hour),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, svc.CreateEvent(ctx, tt.event), ErrInvalidInput)
		})
	}
}

func TestCastVote(t *testing.T) {
	store := memory.NewStore()
	seedAccount(t, store, "acc-1", 0)
	svc := newEventService(store)
	event := createPoll(t, svc)
	ctx := context.Background()

	vote, err := svc.CastVote(ctx, event.ID.Hex(), "acc-1", "go")
	require.NoError(t, err)
	assert.Equal(t, "go", vote.OptionKey)
	assert.Equal(t, 10, balance(t, store, "acc-1"))

	stored, err := svc.GetEvent(ctx, event.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Options[0].Votes)

	// Second vote is rejected and earns nothing
	_, err = svc.CastVote(ctx, event.ID.Hex(), "acc-1", "db")
	assert.ErrorIs(t, err, ErrAlreadyVoted)
	assert.Equal(t, 10, balance(t, store, "acc-1"))

	stored, err = svc.GetEvent(ctx, event.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Options[1].Votes)
}

func TestCastVote_Errors(t *testing.T) {
	store := memory.NewStore()
	seedAccount(t, store, "acc-1", 0)
	svc := newEventService(store)
	event := createPoll(t, svc)
	ctx := context.Background()

	_, err := svc.CastVote(ctx, event.ID.Hex(), "acc-1", "nope")
	assert.ErrorIs(t, err, ErrUnknownOption)

	_, err = svc.CastVote(ctx, event.ID.Hex(), "ghost", "go")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	_, err = svc.CastVote(ctx, primitive.NewObjectID().Hex(), "acc-1", "go")
	assert.ErrorIs(t, err, ErrEventNotFound)

	_, err = svc.CastVote(ctx, "not-hex", "acc-1", "go")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CloseEvent(ctx, event.ID.Hex())
	require.NoError(t, err)
	_, err = svc.CastVote(ctx, event.ID.Hex(), "acc-1", "go")
	assert.ErrorIs(t, err, ErrEventClosed)
}

func TestCastVote_VotingWindow(t *testing.T) {
	store := memory.NewStore()
	seedAccount(t, store, "acc-1", 0)
	svc := newEventService(store)
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }
	windowed := &models.Event{
		Title:   "Later",
		Options: []models.PollOption{{Key: "a", Label: "A"}},
		StartAt: time.Now(),
		EndAt:   time.Now().Add(time.Hour),
	}
	require.NoError(t, svc.CreateEvent(context.Background(), windowed))

	_, err := svc.CastVote(context.Background(), windowed.ID.Hex(), "acc-1", "a")
	assert.ErrorIs(t, err, ErrEventClosed)
}

func TestListEvents(t *testing.T) {
	store := memory.NewStore()
	svc := newEventService(store)
	for i := 0; i < 3; i++ {
		createPoll(t, svc)
	}

	events, err := svc.ListEvents(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Len(t, events, 2)

	events, err = svc.ListEvents(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestCastVote_LostBallotStaysVisibleAndRetries(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	seedAccount(t, store, "acc-1", 0)
	svc := newEventService(store)
	event := createPoll(t, svc)

	lossy := NewEventService(store.Events(), failingVoteRepository{store.Votes()}, store.Users(), store.PointTransactions(), 10)
	_, err := lossy.CastVote(ctx, event.ID.Hex(), "acc-1", "go")
	require.ErrorIs(t, err, ErrPersistence)
	assert.Equal(t, 0, balance(t, store, "acc-1"))

	// The credit is on the ledger, so reconciliation reports the shortfall
	report, err := NewReconciliationService(store.Users(), store.Spins(), store.PointTransactions(), 0).Run(ctx, false)
	require.NoError(t, err)
	require.Len(t, report.Discrepancies, 1)
	assert.Equal(t, models.Discrepancy{AccountID: "acc-1", Expected: 10, Actual: 0}, report.Discrepancies[0])

	// The voter is not locked out and is credited once
	_, err = svc.CastVote(ctx, event.ID.Hex(), "acc-1", "go")
	require.NoError(t, err)
	assert.Equal(t, 10, balance(t, store, "acc-1"))

	ledger, err := store.PointTransactions().FindByAccountID(ctx, "acc-1")
	require.NoError(t, err)
	assert.Len(t, ledger, 1)

	_, err = svc.CastVote(ctx, event.ID.Hex(), "acc-1", "db")
	assert.ErrorIs(t, err, ErrAlreadyVoted)
	assert.Equal(t, 10, balance(t, store, "acc-1"))
}
