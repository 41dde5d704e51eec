package mongodb

import (
	"context"
	"time"

	"github.com/ArowuTest/bridgetunes-event-wheel/internal/models"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var _ repositories.VoteRepository = (*VoteRepository)(nil)

// VoteRepository handles MongoDB operations for Vote. The unique
// (eventId, accountId) index does the one-vote-per-account enforcement.
type VoteRepository struct {
	collection *mongo.Collection
}

// NewVoteRepository creates a new VoteRepository
func NewVoteRepository(db *mongo.Database) *VoteRepository {
	return &VoteRepository{
		collection: db.Collection(VotesCollection),
	}
}

// Create inserts a ballot
func (r *VoteRepository) Create(ctx context.Context, vote *models.Vote) error {
	vote.ID = primitive.NewObjectID()
	vote.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, vote)
	return translateError(err)
}

// CountByEventID counts ballots cast in an event
func (r *VoteRepository) CountByEventID(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"eventId": eventID})
}
