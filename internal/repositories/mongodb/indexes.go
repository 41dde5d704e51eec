package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	UsersCollection             = "users"
	SpinsCollection             = "spins"
	PointTransactionsCollection = "point_transactions"
	EventsCollection            = "events"
	VotesCollection             = "votes"
	AdminUsersCollection        = "admin_users"
)

// indexModels lists the indexes per collection. The claim ticket index only
// covers non-empty tickets so spins written before tickets existed do not
// collide; spin-claim-ticket-backfill fills those in.
func indexModels() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		SpinsCollection: {
			{
				Keys: bson.D{{Key: "claimTicketId", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"claimTicketId": bson.M{"$type": "string", "$gt": ""}}),
			},
			{Keys: bson.D{{Key: "accountId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		PointTransactionsCollection: {
			{
				Keys: bson.D{{Key: "source", Value: 1}, {Key: "reference", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"reference": bson.M{"$type": "string"}}),
			},
			{Keys: bson.D{{Key: "accountId", Value: 1}}},
		},
		VotesCollection: {
			{Keys: bson.D{{Key: "eventId", Value: 1}, {Key: "accountId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		AdminUsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
}

// EnsureIndexes creates the indexes the repositories rely on for uniqueness
// and for the history queries. It is safe to call on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for name, idx := range indexModels() {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}
