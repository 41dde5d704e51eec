// Package memory is a process-local implementation of the repositories,
// used by tests and by the "memory" storage driver for local runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ArowuTest/bridgetunes-event-wheel/internal/models"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store holds every collection behind one mutex, so each repository call is
// atomic the same way a single-document update is in MongoDB.
type Store struct {
	mu           sync.Mutex
	users        map[string]models.User
	spins        []models.SpinRecord
	transactions []models.PointTransaction
	events       map[primitive.ObjectID]models.Event
	votes        []models.Vote
	admins       map[string]models.AdminUser
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users:  make(map[string]models.User),
		events: make(map[primitive.ObjectID]models.Event),
		admins: make(map[string]models.AdminUser),
	}
}

func (s *Store) Users() repositories.UserRepository { return (*userRepository)(s) }

func (s *Store) Spins() repositories.SpinRepository { return (*spinRepository)(s) }

func (s *Store) PointTransactions() repositories.PointTransactionRepository {
	return (*pointTransactionRepository)(s)
}

func (s *Store) Events() repositories.EventRepository { return (*eventRepository)(s) }

func (s *Store) Votes() repositories.VoteRepository { return (*voteRepository)(s) }

func (s *Store) AdminUsers() repositories.AdminUserRepository { return (*adminUserRepository)(s) }

type userRepository Store

func (r *userRepository) Upsert(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	stored, ok := r.users[user.ID]
	if !ok {
		stored = models.User{ID: user.ID, CreatedAt: now}
	}
	stored.DisplayName = user.DisplayName
	stored.AvatarURL = user.AvatarURL
	stored.LastActivity = now
	stored.UpdatedAt = now
	r.users[user.ID] = stored
	return &stored, nil
}

func (r *userRepository) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &user, nil
}

func (r *userRepository) FindAll(_ context.Context) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		u := u
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *userRepository) AdjustPoints(_ context.Context, id string, delta int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return 0, repositories.ErrNotFound
	}
	if user.Points+delta < 0 {
		return 0, repositories.ErrInsufficientPoints
	}
	now := time.Now()
	user.Points += delta
	user.LastActivity = now
	user.UpdatedAt = now
	r.users[id] = user
	return user.Points, nil
}

type spinRepository Store

func (r *spinRepository) Create(_ context.Context, record *models.SpinRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.spins {
		if existing.ClaimTicketID == record.ClaimTicketID {
			return repositories.ErrDuplicate
		}
	}
	if record.ID.IsZero() {
		record.ID = primitive.NewObjectID()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	r.spins = append(r.spins, *record)
	return nil
}

func (r *spinRepository) FindByAccountID(_ context.Context, accountID string, limit int) ([]*models.SpinRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := []*models.SpinRecord{}
	// Appended in creation order, so walking backwards yields newest first
	for i := len(r.spins) - 1; i >= 0 && len(records) < limit; i-- {
		if r.spins[i].AccountID == accountID {
			record := r.spins[i]
			records = append(records, &record)
		}
	}
	return records, nil
}

func (r *spinRepository) FindByTicketID(_ context.Context, ticketID string) (*models.SpinRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, record := range r.spins {
		if record.ClaimTicketID == ticketID {
			return &record, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *spinRepository) Claim(_ context.Context, ticketID, claimedBy string, at time.Time) (*models.SpinRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.spins {
		if r.spins[i].ClaimTicketID != ticketID {
			continue
		}
		if r.spins[i].Claimed {
			return nil, repositories.ErrAlreadyClaimed
		}
		r.spins[i].Claimed = true
		r.spins[i].ClaimedAt = &at
		r.spins[i].ClaimedBy = claimedBy
		record := r.spins[i]
		return &record, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *spinRepository) SumCostByAccount(_ context.Context) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	totals := make(map[string]int)
	for _, record := range r.spins {
		totals[record.AccountID] += record.Cost
	}
	return totals, nil
}

type pointTransactionRepository Store

func (r *pointTransactionRepository) Create(_ context.Context, transaction *models.PointTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if transaction.Reference != "" {
		for _, existing := range r.transactions {
			if existing.Source == transaction.Source && existing.Reference == transaction.Reference {
				return repositories.ErrDuplicate
			}
		}
	}
	transaction.ID = primitive.NewObjectID()
	if transaction.CreatedAt.IsZero() {
		transaction.CreatedAt = time.Now()
	}
	r.transactions = append(r.transactions, *transaction)
	return nil
}

func (r *pointTransactionRepository) FindByAccountID(_ context.Context, accountID string) ([]*models.PointTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	transactions := []*models.PointTransaction{}
	for i := len(r.transactions) - 1; i >= 0; i-- {
		if r.transactions[i].AccountID == accountID {
			tx := r.transactions[i]
			transactions = append(transactions, &tx)
		}
	}
	return transactions, nil
}

func (r *pointTransactionRepository) SumByAccount(_ context.Context, exclude ...models.PointSource) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	skip := make(map[models.PointSource]bool, len(exclude))
	for _, source := range exclude {
		skip[source] = true
	}
	totals := make(map[string]int)
	for _, tx := range r.transactions {
		if !skip[tx.Source] {
			totals[tx.AccountID] += tx.Points
		}
	}
	return totals, nil
}

type eventRepository Store

func (r *eventRepository) Create(_ context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	stored := *event
	stored.Options = append([]models.PollOption(nil), event.Options...)
	r.events[event.ID] = stored
	return nil
}

func (r *eventRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	event, ok := r.events[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return copyEvent(event), nil
}

func (r *eventRepository) FindAll(_ context.Context, page, limit int) ([]*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]*models.Event, 0, len(r.events))
	for _, event := range r.events {
		all = append(all, copyEvent(event))
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID.Hex() > all[j].ID.Hex()
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	start := (page - 1) * limit
	if start >= len(all) {
		return []*models.Event{}, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (r *eventRepository) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.EventStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	event, ok := r.events[id]
	if !ok {
		return repositories.ErrNotFound
	}
	event.Status = status
	event.UpdatedAt = time.Now()
	r.events[id] = event
	return nil
}

func (r *eventRepository) IncrementVote(_ context.Context, id primitive.ObjectID, optionKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	event, ok := r.events[id]
	if !ok {
		return repositories.ErrNotFound
	}
	for i := range event.Options {
		if event.Options[i].Key == optionKey {
			event.Options[i].Votes++
			event.UpdatedAt = time.Now()
			r.events[id] = event
			return nil
		}
	}
	return repositories.ErrNotFound
}

func copyEvent(event models.Event) *models.Event {
	event.Options = append([]models.PollOption(nil), event.Options...)
	return &event
}

type voteRepository Store

func (r *voteRepository) Create(_ context.Context, vote *models.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.votes {
		if existing.EventID == vote.EventID && existing.AccountID == vote.AccountID {
			return repositories.ErrDuplicate
		}
	}
	vote.ID = primitive.NewObjectID()
	vote.CreatedAt = time.Now()
	r.votes = append(r.votes, *vote)
	return nil
}

func (r *voteRepository) CountByEventID(_ context.Context, eventID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, vote := range r.votes {
		if vote.EventID == eventID {
			count++
		}
	}
	return count, nil
}

type adminUserRepository Store

func (r *adminUserRepository) Create(_ context.Context, adminUser *models.AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.admins[adminUser.Email]; exists {
		return repositories.ErrDuplicate
	}
	adminUser.ID = primitive.NewObjectID()
	adminUser.CreatedAt = time.Now()
	adminUser.UpdatedAt = adminUser.CreatedAt
	r.admins[adminUser.Email] = *adminUser
	return nil
}

func (r *adminUserRepository) FindByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	adminUser, ok := r.admins[email]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &adminUser, nil
}
