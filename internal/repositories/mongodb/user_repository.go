package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/bridgetunes-event-wheel/internal/models"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure UserRepository implements the interface
var _ repositories.UserRepository = (*UserRepository)(nil)

// UserRepository handles MongoDB operations for attendee accounts
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection(UsersCollection),
	}
}

// Upsert writes the profile fields and creates the account on first sight
func (r *UserRepository) Upsert(ctx context.Context, user *models.User) (*models.User, error) {
	now := time.Now()
	filter := bson.M{"_id": user.ID}
	update := bson.M{
		"$set": bson.M{
			"displayName":  user.DisplayName,
			"avatarUrl":    user.AvatarURL,
			"lastActivity": now,
			"updatedAt":    now,
		},
		"$setOnInsert": bson.M{
			"points":    0,
			"createdAt": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored models.User
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored); err != nil {
		return nil, translateError(err)
	}
	return &stored, nil
}

// FindByID finds an account by its identity provider id
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// FindAll retrieves all accounts
func (r *UserRepository) FindAll(ctx context.Context) ([]*models.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}

// AdjustPoints atomically applies delta to the balance. Debits carry the
// balance guard in the filter itself, so two racing spins cannot both pass.
func (r *UserRepository) AdjustPoints(ctx context.Context, id string, delta int) (int, error) {
	now := time.Now()
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["points"] = bson.M{"$gte": -delta}
	}
	update := bson.M{
		"$inc": bson.M{"points": delta},
		"$set": bson.M{"lastActivity": now, "updatedAt": now},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user models.User
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&user)
	if err == nil {
		return user.Points, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) || delta >= 0 {
		return 0, translateError(err)
	}

	// The guarded debit matched nothing: either the account is gone or the balance is short
	lookup := r.collection.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"_id": 1}))
	if lookupErr := lookup.Err(); lookupErr != nil {
		return 0, translateError(lookupErr)
	}
	return 0, repositories.ErrInsufficientPoints
}
