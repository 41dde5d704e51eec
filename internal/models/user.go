package models

import (
	"time"
)

// User represents an attendee account. ID is the identity provider's stable
// account id and Points is the spendable balance.
type User struct {
	ID           string    `bson:"_id" json:"id"`
	DisplayName  string    `bson:"displayName" json:"displayName"`
	AvatarURL    string    `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	Points       int       `bson:"points" json:"points"`
	LastActivity time.Time `bson:"lastActivity,omitempty" json:"lastActivity,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}
