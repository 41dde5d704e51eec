package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SpinRecord is the immutable outcome of one play of the wheel.
// Only the claim fields change after creation, and only once.
type SpinRecord struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	AccountID     string             `bson:"accountId" json:"accountId"`
	PrizeLabel    string             `bson:"prizeLabel" json:"prizeLabel"`
	RewardTag     string             `bson:"rewardTag" json:"rewardTag"`
	Cost          int                `bson:"cost" json:"cost"` // Points debited for this spin
	ClaimTicketID string             `bson:"claimTicketId" json:"claimTicketId"`
	Claimed       bool               `bson:"claimed" json:"claimed"`
	ClaimedAt     *time.Time         `bson:"claimedAt,omitempty" json:"claimedAt,omitempty"`
	ClaimedBy     string             `bson:"claimedBy,omitempty" json:"claimedBy,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
