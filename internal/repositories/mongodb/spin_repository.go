package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/bridgetunes-event-wheel/internal/models"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure SpinRepository implements the interface
var _ repositories.SpinRepository = (*SpinRepository)(nil)

// SpinRepository handles MongoDB operations for SpinRecord
type SpinRepository struct {
	collection *mongo.Collection
}

// NewSpinRepository creates a new SpinRepository
func NewSpinRepository(db *mongo.Database) *SpinRepository {
	return &SpinRepository{
		collection: db.Collection(SpinsCollection),
	}
}

// Create inserts a new spin record
func (r *SpinRepository) Create(ctx context.Context, record *models.SpinRecord) error {
	if record.ID.IsZero() {
		record.ID = primitive.NewObjectID()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, record)
	return translateError(err)
}

// FindByAccountID returns an account's spins, newest first
func (r *SpinRepository) FindByAccountID(ctx context.Context, accountID string, limit int) ([]*models.SpinRecord, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"accountId": accountID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*models.SpinRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []*models.SpinRecord{}
	}
	return records, nil
}

// FindByTicketID finds a spin by its claim ticket
func (r *SpinRepository) FindByTicketID(ctx context.Context, ticketID string) (*models.SpinRecord, error) {
	var record models.SpinRecord
	if err := r.collection.FindOne(ctx, bson.M{"claimTicketId": ticketID}).Decode(&record); err != nil {
		return nil, translateError(err)
	}
	return &record, nil
}

// Claim flips claimed from false to true in a single conditional update
func (r *SpinRepository) Claim(ctx context.Context, ticketID, claimedBy string, at time.Time) (*models.SpinRecord, error) {
	filter := bson.M{"claimTicketId": ticketID, "claimed": false}
	update := bson.M{"$set": bson.M{
		"claimed":   true,
		"claimedAt": at,
		"claimedBy": claimedBy,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var record models.SpinRecord
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&record)
	if err == nil {
		return &record, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	if _, err := r.FindByTicketID(ctx, ticketID); err != nil {
		return nil, err
	}
	return nil, repositories.ErrAlreadyClaimed
}

// SumCostByAccount totals the points spent per account
func (r *SpinRepository) SumCostByAccount(ctx context.Context) (map[string]int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$accountId"},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$cost"}}},
		}}},
	}
	return sumByAccount(ctx, r.collection, pipeline)
}

type accountTotal struct {
	AccountID string `bson:"_id"`
	Total     int    `bson:"total"`
}

func sumByAccount(ctx context.Context, collection *mongo.Collection, pipeline mongo.Pipeline) (map[string]int, error) {
	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []accountTotal
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	totals := make(map[string]int, len(rows))
	for _, row := range rows {
		totals[row.AccountID] = row.Total
	}
	return totals, nil
}
