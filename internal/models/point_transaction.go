package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PointSource identifies why points were credited
type PointSource string

const (
	PointSourceVote      PointSource = "VOTE"
	PointSourceGrant     PointSource = "GRANT"
	PointSourceImport    PointSource = "IMPORT"
	PointSourceReconcile PointSource = "RECONCILE"
)

// PointTransaction records a credit to an account's balance.
// Debits are not stored here; every spin carries its own cost.
type PointTransaction struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	AccountID string             `bson:"accountId" json:"accountId"`
	Points    int                `bson:"points" json:"points"`
	Source    PointSource        `bson:"source" json:"source"`
	Reference string             `bson:"reference,omitempty" json:"reference,omitempty"` // Unique per source when set
	CreatedBy string             `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
